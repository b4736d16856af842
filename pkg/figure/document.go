package figure

import (
	"math"

	"github.com/golang/geo/s1"

	"github.com/matzehuels/gcad/pkg/constraint"
	errs "github.com/matzehuels/gcad/pkg/errors"
)

// Angle units accepted in Document.AngleUnit.
const (
	Degrees = "deg"
	Radians = "rad"
)

// Document is a decoded figure file.
type Document struct {
	Name      string   `toml:"name,omitempty" yaml:"name,omitempty" json:"name,omitempty"`
	Root      string   `toml:"root,omitempty" yaml:"root,omitempty" json:"root,omitempty"`
	AngleUnit string   `toml:"angle_unit,omitempty" yaml:"angle_unit,omitempty" json:"angle_unit,omitempty"`
	Points    []string `toml:"points,omitempty" yaml:"points,omitempty" json:"points,omitempty"`

	Distances     []DistanceSpec `toml:"distance,omitempty" yaml:"distance,omitempty" json:"distance,omitempty"`
	Angles        []AngleSpec    `toml:"angle,omitempty" yaml:"angle,omitempty" json:"angle,omitempty"`
	Collinear     []GroupSpec    `toml:"collinear,omitempty" yaml:"collinear,omitempty" json:"collinear,omitempty"`
	Parallel      []SegmentsSpec `toml:"parallel,omitempty" yaml:"parallel,omitempty" json:"parallel,omitempty"`
	Perpendicular []SegmentsSpec `toml:"perpendicular,omitempty" yaml:"perpendicular,omitempty" json:"perpendicular,omitempty"`
	Equal         []EqualSpec    `toml:"equal,omitempty" yaml:"equal,omitempty" json:"equal,omitempty"`
}

// DistanceSpec is a distance between two points. Length may be omitted when
// an equal group provides it.
type DistanceSpec struct {
	Points []string `toml:"points" yaml:"points" json:"points"`
	Length *float64 `toml:"length,omitempty" yaml:"length,omitempty" json:"length,omitempty"`
}

// AngleSpec is an angle given as [start, vertex, end], in the document's
// angle unit.
type AngleSpec struct {
	Points  []string `toml:"points" yaml:"points" json:"points"`
	Measure *float64 `toml:"measure,omitempty" yaml:"measure,omitempty" json:"measure,omitempty"`
}

// GroupSpec lists points that must share a line.
type GroupSpec struct {
	Points []string `toml:"points" yaml:"points" json:"points"`
}

// SegmentsSpec lists segments as point pairs.
type SegmentsSpec struct {
	Segments [][]string `toml:"segments" yaml:"segments" json:"segments"`
}

// EqualSpec assigns one measure to several distances or several angles.
type EqualSpec struct {
	Distances [][]string `toml:"distances,omitempty" yaml:"distances,omitempty" json:"distances,omitempty"`
	Angles    [][]string `toml:"angles,omitempty" yaml:"angles,omitempty" json:"angles,omitempty"`
	Value     *float64   `toml:"value,omitempty" yaml:"value,omitempty" json:"value,omitempty"`
}

// Validate checks the shape of every entry without resolving measures.
func (d *Document) Validate() error {
	switch d.AngleUnit {
	case "", Degrees, Radians:
	default:
		return errs.New(errs.ErrCodeInvalidFigure, "angle_unit must be %q or %q, got %q", Degrees, Radians, d.AngleUnit)
	}
	for _, p := range d.Points {
		if err := errs.ValidatePointID(p); err != nil {
			return err
		}
	}
	if d.Root != "" {
		if err := errs.ValidatePointID(d.Root); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidFigure, err, "root")
		}
	}
	for i, s := range d.Distances {
		if len(s.Points) != 2 {
			return errs.New(errs.ErrCodeInvalidFigure, "distance %d: needs 2 points, got %d", i+1, len(s.Points))
		}
	}
	for i, s := range d.Angles {
		if len(s.Points) != 3 {
			return errs.New(errs.ErrCodeInvalidFigure, "angle %d: needs 3 points, got %d", i+1, len(s.Points))
		}
	}
	for _, g := range [][]SegmentsSpec{d.Parallel, d.Perpendicular} {
		for i, s := range g {
			if _, err := segments(s.Segments); err != nil {
				return errs.Wrap(errs.ErrCodeInvalidFigure, err, "group %d", i+1)
			}
		}
	}
	for i, e := range d.Equal {
		if len(e.Distances) > 0 && len(e.Angles) > 0 {
			return errs.New(errs.ErrCodeInvalidFigure, "equal %d: cannot mix distances and angles", i+1)
		}
		if len(e.Distances)+len(e.Angles) == 0 {
			return errs.New(errs.ErrCodeInvalidFigure, "equal %d: empty group", i+1)
		}
		for _, p := range e.Distances {
			if len(p) != 2 {
				return errs.New(errs.ErrCodeInvalidFigure, "equal %d: distance needs 2 points, got %d", i+1, len(p))
			}
		}
		for _, p := range e.Angles {
			if len(p) != 3 {
				return errs.New(errs.ErrCodeInvalidFigure, "equal %d: angle needs 3 points, got %d", i+1, len(p))
			}
		}
	}
	return nil
}

// Index resolves measures and builds a constraint index in document order.
func (d *Document) Index() (*constraint.Index, error) {
	r, err := d.Resolve()
	if err != nil {
		return nil, err
	}

	idx := constraint.NewIndex()
	for _, p := range d.Points {
		if _, err := idx.AddPoint(p); err != nil {
			return nil, err
		}
	}
	add := func(c constraint.Constraint) error {
		if _, err := idx.Add(c); err != nil {
			return err
		}
		return nil
	}

	for _, k := range r.distances {
		if err := add(constraint.Distance{A: k.pts[0], B: k.pts[1], Length: r.measures[k.key]}); err != nil {
			return nil, err
		}
	}
	for _, k := range r.angles {
		m := d.angle(r.measures[k.key])
		if err := add(constraint.Angle{Start: k.pts[0], Vertex: k.pts[1], End: k.pts[2], Measure: m}); err != nil {
			return nil, err
		}
	}
	for _, g := range d.Collinear {
		if err := add(constraint.Collinear{Group: g.Points}); err != nil {
			return nil, err
		}
	}
	for _, g := range d.Parallel {
		segs, _ := segments(g.Segments)
		if err := add(constraint.Parallel{Segments: segs}); err != nil {
			return nil, err
		}
	}
	for _, g := range d.Perpendicular {
		segs, _ := segments(g.Segments)
		if err := add(constraint.Perpendicular{Segments: segs}); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func (d *Document) angle(v float64) s1.Angle {
	if d.AngleUnit == Radians {
		return s1.Angle(v) * s1.Radian
	}
	return s1.Angle(v) * s1.Degree
}

// maxAngle is the largest accepted angle measure in the document's unit.
func (d *Document) maxAngle() float64 {
	if d.AngleUnit == Radians {
		return math.Pi
	}
	return 180
}

func segments(pairs [][]string) ([]constraint.Segment, error) {
	out := make([]constraint.Segment, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return nil, errs.New(errs.ErrCodeInvalidFigure, "segment %d: needs 2 points, got %d", i+1, len(p))
		}
		out[i] = constraint.Segment{p[0], p[1]}
	}
	return out, nil
}
