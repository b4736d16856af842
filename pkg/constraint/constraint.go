package constraint

import (
	"slices"

	errs "github.com/matzehuels/gcad/pkg/errors"
	"github.com/matzehuels/gcad/pkg/geo"
)

// Kind identifies a constraint variant.
type Kind int

const (
	KindDistance Kind = iota
	KindAngle
	KindCollinear
	KindParallel
	KindPerpendicular
)

var kindNames = map[Kind]string{
	KindDistance:      "distance",
	KindAngle:         "angle",
	KindCollinear:     "collinear",
	KindParallel:      "parallel",
	KindPerpendicular: "perpendicular",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind returns the kind named s, as printed by [Kind.String].
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, errs.New(errs.ErrCodeInvalidInput, "unknown constraint kind %q", s)
}

// Positions maps point ids to solved coordinates.
type Positions map[string]geo.Vec

// Clone returns a shallow copy of p.
func (p Positions) Clone() Positions {
	out := make(Positions, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Known is the set of fixed point ids.
type Known map[string]bool

// Constraint is a geometric relation between points.
type Constraint interface {
	// Kind reports the variant.
	Kind() Kind

	// Points returns the referenced point ids. Order is significant for
	// Distance and Angle, and pairs for Parallel and Perpendicular are
	// flattened in order.
	Points() []string

	// Targets returns the unknown points this constraint can resolve given
	// the known set. The result is empty when the constraint cannot help.
	Targets(known Known) []string

	// Locus returns the feasible region of target given the positions of the
	// points it depends on. It fails with ErrCodeUnknownPoint when a required
	// position is missing.
	Locus(pos Positions, target string) (geo.Locus, error)

	// Residual measures how far pos is from satisfying the constraint, in the
	// constraint's own unit (length or radians). Zero means satisfied.
	Residual(pos Positions) (float64, error)

	// Validate checks the constraint's shape and measure.
	Validate() error

	String() string
}

// Involves reports whether c references point.
func Involves(c Constraint, point string) bool {
	return slices.Contains(c.Points(), point)
}

// onlyUnknown returns the single point of pts not in known, if exactly one.
func onlyUnknown(pts []string, known Known) []string {
	var out []string
	for _, p := range pts {
		if !known[p] {
			if len(out) == 1 && out[0] == p {
				continue
			}
			out = append(out, p)
		}
	}
	if len(out) != 1 {
		return nil
	}
	return out
}

func lookup(pos Positions, ids ...string) ([]geo.Vec, error) {
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

func notTarget(c Constraint, target string) error {
	return errs.New(errs.ErrCodeInvalidInput, "%s cannot resolve point %s", c, target)
}

func validateIDs(kind Kind, ids []string) error {
	for _, id := range ids {
		if err := errs.ValidatePointID(id); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidFigure, err, "%s constraint", kind)
		}
	}
	return nil
}
