package constraint

import (
	"fmt"
	"math"

	errs "github.com/matzehuels/gcad/pkg/errors"
	"github.com/matzehuels/gcad/pkg/geo"
)

// Distance requires |AB| = Length.
type Distance struct {
	A, B   string
	Length float64
}

func (d Distance) Kind() Kind { return KindDistance }

func (d Distance) Points() []string { return []string{d.A, d.B} }

// Targets returns the endpoint that is unknown when the other is known.
func (d Distance) Targets(known Known) []string {
	return onlyUnknown(d.Points(), known)
}

// Locus is the circle of radius Length around the other endpoint.
func (d Distance) Locus(pos Positions, target string) (geo.Locus, error) {
	var other string
	switch target {
	case d.A:
		other = d.B
	case d.B:
		other = d.A
	default:
		return nil, notTarget(d, target)
	}
	p, err := lookup(pos, other)
	if err != nil {
		return nil, err
	}
	return geo.Circle{Center: p[0], Radius: d.Length}, nil
}

func (d Distance) Residual(pos Positions) (float64, error) {
	p, err := lookup(pos, d.A, d.B)
	if err != nil {
		return 0, err
	}
	return math.Abs(p[1].Sub(p[0]).Norm() - d.Length), nil
}

func (d Distance) Validate() error {
	if err := validateIDs(KindDistance, d.Points()); err != nil {
		return err
	}
	if d.A == d.B {
		return errs.New(errs.ErrCodeInvalidFigure, "distance %s: endpoints must differ", d)
	}
	if math.IsInf(d.Length, 0) {
		return errs.New(errs.ErrCodeInvalidFigure, "distance %s: length is infinite", d)
	}
	return errs.ValidateMeasure("distance "+d.A+d.B, d.Length, 0)
}

func (d Distance) String() string {
	return fmt.Sprintf("|%s%s| = %s", d.A, d.B, fmtMeasure(d.Length))
}

func fmtMeasure(f float64) string {
	return fmt.Sprintf("%.6g", f)
}
