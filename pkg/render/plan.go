package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gcad/pkg/constraint"
	errs "github.com/matzehuels/gcad/pkg/errors"
	"github.com/matzehuels/gcad/pkg/order"
)

// PlanOptions configures plan graph rendering.
type PlanOptions struct {
	// Detailed adds the fix step and support set to node labels and the
	// constraint text to edge labels. When false, nodes show the point id
	// and edges the constraint ids.
	Detailed bool
}

// PlanDOT converts a plan to Graphviz DOT format. Output is deterministic:
// nodes follow the fix order and edges follow [order.Plan.Graph].
func PlanDOT(p *order.Plan, opts PlanOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=16];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i, pt := range p.Path {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(p, pt, i, opts.Detailed))}
		s := p.Support[pt]
		switch {
		case s.IsRoot():
			attrs = append(attrs, "penwidth=3")
		case s.HasGauge():
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", pt, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range p.Graph() {
		attrs := []string{fmt.Sprintf("label=%q", edgeLabel(p, e, opts.Detailed))}
		if e.Check {
			attrs = append(attrs, "style=dashed", "color=red", "fontcolor=red")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(p *order.Plan, pt string, step int, detailed bool) string {
	if !detailed {
		return pt
	}
	return fmt.Sprintf("%s\nstep: %d\nsupport: %s", pt, step, p.Support[pt])
}

func edgeLabel(p *order.Plan, e order.Edge, detailed bool) string {
	parts := make([]string, len(e.Constraints))
	for i, id := range e.Constraints {
		parts[i] = fmt.Sprintf("#%d", id)
		if detailed {
			parts[i] += " " + constraintText(p.Index.Constraint(id))
		}
	}
	sep := ", "
	if detailed {
		sep = "\n"
	}
	return strings.Join(parts, sep)
}

func constraintText(c constraint.Constraint) string {
	if c == nil {
		return "?"
	}
	return c.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// The result can be passed to [ToPDF] or [ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPlan renders a plan in format "dot", "svg", "png" or "pdf".
// PNG and PDF require rsvg-convert.
func RenderPlan(p *order.Plan, format string, opts PlanOptions) ([]byte, error) {
	dot := PlanDOT(p, opts)
	switch format {
	case "dot":
		return []byte(dot), nil
	case "svg":
		return RenderSVG(dot)
	case "png", "pdf":
		svg, err := RenderSVG(dot)
		if err != nil {
			return nil, err
		}
		if format == "png" {
			return ToPNG(svg, 2.0)
		}
		return ToPDF(svg)
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "unsupported plan format: %s", format)
}
