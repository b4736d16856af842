package constraint

import (
	"fmt"
	"math"

	"github.com/golang/geo/s1"

	errs "github.com/matzehuels/gcad/pkg/errors"
	"github.com/matzehuels/gcad/pkg/geo"
)

// Angle requires the unsigned angle at Vertex between the rays towards Start
// and End to equal Measure.
type Angle struct {
	Start, Vertex, End string
	Measure            s1.Angle
}

func (a Angle) Kind() Kind { return KindAngle }

func (a Angle) Points() []string { return []string{a.Start, a.Vertex, a.End} }

// Targets returns the single unknown point once the other two are known.
func (a Angle) Targets(known Known) []string {
	return onlyUnknown(a.Points(), known)
}

// Locus returns the feasible region of target.
//
// For the vertex it is the pair of circles through Start and End on which
// the chord subtends Measure; they coincide for a right angle. For Start or
// End it is the pair of rays from the vertex at ±Measure from the other end.
func (a Angle) Locus(pos Positions, target string) (geo.Locus, error) {
	m := a.Measure.Radians()
	switch target {
	case a.Vertex:
		p, err := lookup(pos, a.Start, a.End)
		if err != nil {
			return nil, err
		}
		return inscribed(p[0], p[1], m), nil
	case a.Start, a.End:
		other := a.Start
		if target == a.Start {
			other = a.End
		}
		p, err := lookup(pos, a.Vertex, other)
		if err != nil {
			return nil, err
		}
		v, _ := geo.Unit(p[1].Sub(p[0]))
		return geo.Set{
			geo.NewRay(p[0], geo.Rotate(v, m)),
			geo.NewRay(p[0], geo.Rotate(v, -m)),
		}, nil
	}
	return nil, notTarget(a, target)
}

// inscribed returns the circles on which segment se subtends angle m.
func inscribed(s, e geo.Vec, m float64) geo.Locus {
	v, d := geo.Unit(e.Sub(s))
	if d == 0 {
		return geo.Set{}
	}
	mid := s.Add(e).Mul(0.5)
	sin := math.Sin(m)
	if math.Abs(sin) < geo.AbsTol {
		// Straight angle: the vertex lies between the ends.
		return geo.LineThrough(s, e)
	}
	r := d / 2 / sin
	apothem := r * math.Cos(m)
	if math.Abs(apothem) <= geo.RelTol*math.Max(1, math.Abs(r)) {
		return geo.Circle{Center: mid, Radius: r}
	}
	off := v.Ortho().Mul(apothem)
	return geo.Set{
		geo.Circle{Center: mid.Add(off), Radius: r},
		geo.Circle{Center: mid.Sub(off), Radius: r},
	}
}

func (a Angle) Residual(pos Positions) (float64, error) {
	p, err := lookup(pos, a.Start, a.Vertex, a.End)
	if err != nil {
		return 0, err
	}
	got := Measure(p[0], p[1], p[2])
	return math.Abs((got - a.Measure).Radians()), nil
}

// Measure returns the unsigned angle at vertex between start and end.
func Measure(start, vertex, end geo.Vec) s1.Angle {
	u, w := start.Sub(vertex), end.Sub(vertex)
	return s1.Angle(math.Atan2(math.Abs(u.Cross(w)), u.Dot(w)))
}

func (a Angle) Validate() error {
	if err := validateIDs(KindAngle, a.Points()); err != nil {
		return err
	}
	if a.Start == a.Vertex || a.End == a.Vertex || a.Start == a.End {
		return errs.New(errs.ErrCodeInvalidFigure, "angle %s: points must differ", a)
	}
	if err := errs.ValidateMeasure("angle "+a.Start+a.Vertex+a.End, a.Measure.Radians(), 0); err != nil {
		return err
	}
	if a.Measure <= 0 || a.Measure.Radians() > math.Pi+geo.AbsTol {
		return errs.New(errs.ErrCodeInvalidFigure, "angle %s: measure must lie in (0°, 180°]", a)
	}
	return nil
}

func (a Angle) String() string {
	return fmt.Sprintf("∠%s%s%s = %s°", a.Start, a.Vertex, a.End, fmtMeasure(a.Measure.Degrees()))
}
