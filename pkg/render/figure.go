package render

import (
	"bytes"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matzehuels/gcad/pkg/constraint"
	errs "github.com/matzehuels/gcad/pkg/errors"
	"github.com/matzehuels/gcad/pkg/geo"
)

// FigureOptions configures figure plots.
type FigureOptions struct {
	Title string

	// Width and Height of the encoded image. Both default to 6 inches.
	Width, Height vg.Length

	// NoLabels hides point ids.
	NoLabels bool
}

func (o *FigureOptions) setDefaults() {
	if o.Width <= 0 {
		o.Width = 6 * vg.Inch
	}
	if o.Height <= 0 {
		o.Height = 6 * vg.Inch
	}
}

var dashed = []vg.Length{vg.Points(4), vg.Points(3)}

// FigurePlot plots the constraints of idx at positions pos. Every point
// referenced by a constraint must have a position.
func FigurePlot(idx *constraint.Index, pos constraint.Positions, opts FigureOptions) (*plot.Plot, error) {
	opts.setDefaults()
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	legend := make(map[constraint.Kind]bool)
	for _, c := range idx.Constraints() {
		segs, err := segmentsOf(c, pos)
		if err != nil {
			return nil, err
		}
		kind := c.Kind()
		for i, s := range segs {
			l, err := plotter.NewLine(plotter.XYs{{X: s[0].X, Y: s[0].Y}, {X: s[1].X, Y: s[1].Y}})
			if err != nil {
				return nil, err
			}
			l.LineStyle.Width = vg.Points(1.5)
			l.LineStyle.Color = plotutil.Color(int(kind))
			if kind == constraint.KindAngle {
				l.LineStyle.Dashes = dashed
			}
			p.Add(l)
			if i == 0 && !legend[kind] {
				legend[kind] = true
				p.Legend.Add(kind.String(), l)
			}
		}
	}

	points := idx.Points()
	xys := make(plotter.XYs, 0, len(points))
	names := make([]string, 0, len(points))
	for _, id := range points {
		v, ok := pos[id]
		if !ok {
			continue
		}
		xys = append(xys, plotter.XY{X: v.X, Y: v.Y})
		names = append(names, id)
	}
	if len(xys) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no positions to plot")
	}

	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Radius = vg.Points(3)
	p.Add(sc)

	if !opts.NoLabels {
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: names})
		if err != nil {
			return nil, err
		}
		labels.Offset = vg.Point{X: vg.Points(5), Y: vg.Points(5)}
		p.Add(labels)
	}

	fitSquare(p, xys)
	p.Legend.Top = true
	return p, nil
}

// segmentsOf returns the line segments drawn for c.
func segmentsOf(c constraint.Constraint, pos constraint.Positions) ([][2]geo.Vec, error) {
	at := func(ids ...string) ([]geo.Vec, error) {
		out := make([]geo.Vec, len(ids))
		for i, id := range ids {
			v, ok := pos[id]
			if !ok {
				return nil, errs.New(errs.ErrCodeUnknownPoint, "no position for point %s", id)
			}
			out[i] = v
		}
		return out, nil
	}

	switch c := c.(type) {
	case constraint.Distance:
		v, err := at(c.A, c.B)
		if err != nil {
			return nil, err
		}
		return [][2]geo.Vec{{v[0], v[1]}}, nil
	case constraint.Angle:
		v, err := at(c.Start, c.Vertex, c.End)
		if err != nil {
			return nil, err
		}
		return [][2]geo.Vec{{v[1], v[0]}, {v[1], v[2]}}, nil
	case constraint.Collinear:
		v, err := at(c.Group...)
		if err != nil {
			return nil, err
		}
		return [][2]geo.Vec{span(v)}, nil
	case constraint.Parallel, constraint.Perpendicular:
		pts := c.Points()
		v, err := at(pts...)
		if err != nil {
			return nil, err
		}
		out := make([][2]geo.Vec, 0, len(v)/2)
		for i := 0; i+1 < len(v); i += 2 {
			out = append(out, [2]geo.Vec{v[i], v[i+1]})
		}
		return out, nil
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "cannot draw %s constraint", c.Kind())
}

// span returns the two extreme points of pts along the line through the
// first two.
func span(pts []geo.Vec) [2]geo.Vec {
	dir, _ := geo.Unit(pts[1].Sub(pts[0]))
	lo, hi := pts[0], pts[0]
	tlo, thi := 0.0, 0.0
	for _, v := range pts[1:] {
		t := v.Sub(pts[0]).Dot(dir)
		if t < tlo {
			lo, tlo = v, t
		}
		if t > thi {
			hi, thi = v, t
		}
	}
	return [2]geo.Vec{lo, hi}
}

// fitSquare sets equal axis ranges around xys with a margin, so that angles
// are not distorted on a square canvas.
func fitSquare(p *plot.Plot, xys plotter.XYs) {
	xmin, xmax, ymin, ymax := math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)
	for _, v := range xys {
		xmin, xmax = math.Min(xmin, v.X), math.Max(xmax, v.X)
		ymin, ymax = math.Min(ymin, v.Y), math.Max(ymax, v.Y)
	}
	half := math.Max(xmax-xmin, ymax-ymin)/2*1.15 + 0.5
	cx, cy := (xmin+xmax)/2, (ymin+ymax)/2
	p.X.Min, p.X.Max = cx-half, cx+half
	p.Y.Min, p.Y.Max = cy-half, cy+half
}

// WriteFigure encodes p to w as "svg", "png" or "pdf".
func WriteFigure(w io.Writer, p *plot.Plot, format string, opts FigureOptions) error {
	opts.setDefaults()
	switch format {
	case "svg", "png", "pdf":
	default:
		return errs.New(errs.ErrCodeUnsupported, "unsupported figure format: %s", format)
	}
	wt, err := p.WriterTo(opts.Width, opts.Height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// RenderFigure plots and encodes a solved figure in one step.
func RenderFigure(idx *constraint.Index, pos constraint.Positions, format string, opts FigureOptions) ([]byte, error) {
	p, err := FigurePlot(idx, pos, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteFigure(&buf, p, format, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
