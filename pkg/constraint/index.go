package constraint

import (
	"slices"

	errs "github.com/matzehuels/gcad/pkg/errors"
)

// ID identifies a constraint within one [Index]. IDs are dense and follow
// registration order.
type ID int

// Index maps point ids to the constraints that reference them. Points and
// constraints are kept in registration order.
//
// An Index is not safe for concurrent mutation.
type Index struct {
	points      []string
	known       map[string]bool
	constraints []Constraint
	byPoint     map[string][]ID
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		known:   make(map[string]bool),
		byPoint: make(map[string][]ID),
	}
}

// AddPoint registers a point that may have no constraints. It reports
// whether the point was new.
func (x *Index) AddPoint(id string) (bool, error) {
	if err := errs.ValidatePointID(id); err != nil {
		return false, err
	}
	if x.known[id] {
		return false, nil
	}
	x.known[id] = true
	x.points = append(x.points, id)
	return true, nil
}

// Add validates c, registers any new points it references, and appends it
// to the list of each of them. A point referenced twice is listed once.
func (x *Index) Add(c Constraint) (ID, error) {
	if err := c.Validate(); err != nil {
		return -1, err
	}
	id := ID(len(x.constraints))
	x.constraints = append(x.constraints, c)
	for _, p := range c.Points() {
		if _, err := x.AddPoint(p); err != nil {
			return -1, err
		}
		ids := x.byPoint[p]
		if len(ids) > 0 && ids[len(ids)-1] == id {
			continue
		}
		x.byPoint[p] = append(ids, id)
	}
	return id, nil
}

// Get returns the constraints referencing point, in registration order,
// restricted to kinds when any are given.
func (x *Index) Get(point string, kinds ...Kind) []ID {
	ids := x.byPoint[point]
	if len(kinds) == 0 {
		return slices.Clone(ids)
	}
	var out []ID
	for _, id := range ids {
		if slices.Contains(kinds, x.constraints[id].Kind()) {
			out = append(out, id)
		}
	}
	return out
}

// Lookup is like [Index.Get] but returns the constraints themselves.
func (x *Index) Lookup(point string, kinds ...Kind) []Constraint {
	ids := x.Get(point, kinds...)
	out := make([]Constraint, len(ids))
	for i, id := range ids {
		out[i] = x.constraints[id]
	}
	return out
}

// Constraint returns the constraint registered under id, or nil.
func (x *Index) Constraint(id ID) Constraint {
	if id < 0 || int(id) >= len(x.constraints) {
		return nil
	}
	return x.constraints[id]
}

// Has reports whether point is registered.
func (x *Index) Has(point string) bool { return x.known[point] }

// Points returns all registered points in registration order.
func (x *Index) Points() []string { return slices.Clone(x.points) }

// Constraints returns all registered constraints; the slice position is the ID.
func (x *Index) Constraints() []Constraint { return slices.Clone(x.constraints) }

// Len returns the number of registered constraints.
func (x *Index) Len() int { return len(x.constraints) }
