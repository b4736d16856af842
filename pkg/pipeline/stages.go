package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/gcad/pkg/constraint"
	gio "github.com/matzehuels/gcad/pkg/io"
	"github.com/matzehuels/gcad/pkg/observability"
	"github.com/matzehuels/gcad/pkg/order"
	"github.com/matzehuels/gcad/pkg/render"
	"github.com/matzehuels/gcad/pkg/solve"
)

// Order builds the fix order of idx from root. An empty root selects the
// first registered point.
func Order(ctx context.Context, idx *constraint.Index, root string) (*order.Plan, error) {
	start := time.Now()
	plan, err := order.Build(idx, root)
	observability.Solver().OnOrderComplete(ctx, root, len(idx.Points()), time.Since(start), err)
	return plan, err
}

// Solve runs the search on plan with the step and time bounds of opts.
func Solve(ctx context.Context, plan *order.Plan, opts Options) (*solve.Solution, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	return solve.Solve(ctx, plan, solve.Options{
		Logger:   opts.Logger,
		MaxSteps: opts.MaxSteps,
	})
}

// Render generates output artifacts in the requested formats. The JSON
// format is the serialized solution; image formats draw opts.View.
func Render(res *Result, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch {
		case format == FormatJSON:
			var buf bytes.Buffer
			err = gio.WriteJSON(res.Solution, &buf)
			data = buf.Bytes()
		case opts.View == ViewPlan:
			data, err = render.RenderPlan(res.Plan, format, render.PlanOptions{Detailed: opts.Detailed})
		default:
			size := vg.Length(opts.Size) * vg.Inch
			data, err = render.RenderFigure(res.Index, res.Solution.Positions(), format, render.FigureOptions{
				Title:    res.Solution.Figure,
				Width:    size,
				Height:   size,
				NoLabels: opts.NoLabels,
			})
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
