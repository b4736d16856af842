package solve

import (
	"github.com/matzehuels/gcad/pkg/constraint"
	"github.com/matzehuels/gcad/pkg/geo"
)

// Violation is a constraint not satisfied by a set of positions.
type Violation struct {
	ID         constraint.ID
	Constraint constraint.Constraint
	Residual   float64
}

// Validate evaluates every constraint of idx against pos and returns those
// whose residual exceeds geo.CheckTol, in registration order. It fails when a
// referenced point has no position.
func Validate(idx *constraint.Index, pos constraint.Positions) ([]Violation, error) {
	var out []Violation
	for i, c := range idx.Constraints() {
		r, err := c.Residual(pos)
		if err != nil {
			return nil, err
		}
		if r > geo.CheckTol {
			out = append(out, Violation{ID: constraint.ID(i), Constraint: c, Residual: r})
		}
	}
	return out, nil
}
