package order

import (
	"slices"

	"github.com/matzehuels/gcad/pkg/constraint"
	errs "github.com/matzehuels/gcad/pkg/errors"
)

// Plan is the outcome of the ordering pass: the fix order and the support
// set of every point. A Plan is built once per solve and not modified after.
type Plan struct {
	Root    string
	Path    []string
	Support map[string]*SupportSet
	Checks  []constraint.ID
	Index   *constraint.Index

	pos map[string]int
}

// Build orders the points of idx starting from root. An empty root selects
// the first registered point.
func Build(idx *constraint.Index, root string) (*Plan, error) {
	points := idx.Points()
	if len(points) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidFigure, "figure has no points")
	}
	if root == "" {
		root = points[0]
	}
	if !idx.Has(root) {
		return nil, errs.New(errs.ErrCodeUnknownPoint, "root %s is not a point of the figure", root)
	}

	b := &builder{
		idx:   idx,
		known: make(constraint.Known, len(points)),
		plan: &Plan{
			Root:    root,
			Support: make(map[string]*SupportSet, len(points)),
			Index:   idx,
			pos:     make(map[string]int, len(points)),
		},
	}
	for _, p := range points {
		b.plan.Support[p] = &SupportSet{}
	}
	b.plan.Support[root].root = true
	b.plan.Support[root].Add(Gauge{})
	b.fix(root)

	for {
		b.drain()
		if len(b.plan.Path) == len(points) {
			break
		}
		next, ok := b.continuum(points)
		if !ok {
			return nil, b.stalled(points)
		}
		b.plan.Support[next].Add(Gauge{})
		b.fix(next)
	}

	b.attachChecks()
	return b.plan, nil
}

type builder struct {
	idx   *constraint.Index
	known constraint.Known
	queue []string
	last  string
	plan  *Plan
}

func (b *builder) fix(p string) {
	b.known[p] = true
	b.plan.pos[p] = len(b.plan.Path)
	b.plan.Path = append(b.plan.Path, p)
	b.queue = append(b.queue, p)
}

// drain processes queued points in FIFO order.
func (b *builder) drain() {
	for len(b.queue) > 0 {
		p := b.queue[0]
		b.queue = b.queue[1:]
		b.last = p
		for _, id := range b.idx.Get(p) {
			for _, t := range b.idx.Constraint(id).Targets(b.known) {
				if b.known[t] {
					continue
				}
				s := b.plan.Support[t]
				s.Add(ConstraintRef{ID: id})
				if s.Len() >= 2 {
					b.fix(t)
				}
			}
		}
	}
}

// continuum returns the first unfixed point with exactly one support.
func (b *builder) continuum(points []string) (string, bool) {
	for _, p := range points {
		if !b.known[p] && b.plan.Support[p].State() == Continuum {
			return p, true
		}
	}
	return "", false
}

func (b *builder) stalled(points []string) error {
	var unfixed []string
	for _, p := range points {
		if !b.known[p] {
			unfixed = append(unfixed, p)
		}
	}
	cause := &errs.StalledError{
		Root:    b.plan.Root,
		Path:    slices.Clone(b.plan.Path),
		Last:    b.last,
		Unfixed: unfixed,
	}
	return errs.Wrap(errs.ErrCodeUnderconstrained, cause, "figure is underconstrained from root %s", b.plan.Root)
}

// attachChecks appends every unused constraint to its latest-placed point.
func (b *builder) attachChecks() {
	used := make(map[constraint.ID]bool)
	for _, s := range b.plan.Support {
		for _, id := range s.Constraints() {
			used[id] = true
		}
	}
	for i := range b.idx.Len() {
		id := constraint.ID(i)
		if used[id] {
			continue
		}
		latest := ""
		for _, p := range b.idx.Constraint(id).Points() {
			if latest == "" || b.plan.pos[p] > b.plan.pos[latest] {
				latest = p
			}
		}
		b.plan.Support[latest].Add(ConstraintRef{ID: id})
		b.plan.Checks = append(b.plan.Checks, id)
	}
}

// Position returns the index of p in the fix order, or -1.
func (p *Plan) Position(point string) int {
	if i, ok := p.pos[point]; ok {
		return i
	}
	return -1
}

// IsCheck reports whether id was attached as a check.
func (p *Plan) IsCheck(id constraint.ID) bool {
	return slices.Contains(p.Checks, id)
}

// Gauges returns the points that received a gauge, in fix order.
func (p *Plan) Gauges() []string {
	var out []string
	for _, pt := range p.Path {
		if p.Support[pt].HasGauge() {
			out = append(out, pt)
		}
	}
	return out
}

// Validate checks the structural invariants of the plan:
//   - the path is a permutation of the figure's points starting at the root
//   - the root carries the gauge
//   - every other point is fixed and carries at most one gauge
//   - every referenced constraint involves the point and can resolve it from
//     the points placed before it; a check only needs the point to be its
//     last one placed
func (p *Plan) Validate() error {
	points := p.Index.Points()
	if len(p.Path) != len(points) {
		return errs.New(errs.ErrCodeInternal, "plan places %d of %d points", len(p.Path), len(points))
	}
	if len(p.Path) == 0 || p.Path[0] != p.Root {
		return errs.New(errs.ErrCodeInternal, "plan does not start at root %s", p.Root)
	}
	placed := make(constraint.Known, len(points))
	for i, pt := range p.Path {
		if placed[pt] {
			return errs.New(errs.ErrCodeInternal, "point %s placed twice", pt)
		}
		if !p.Index.Has(pt) {
			return errs.New(errs.ErrCodeInternal, "point %s is not in the figure", pt)
		}
		s := p.Support[pt]
		switch {
		case i == 0 && !s.HasGauge():
			return errs.New(errs.ErrCodeInternal, "root %s has no gauge", pt)
		case s.State() != Fixed:
			return errs.New(errs.ErrCodeInternal, "point %s is %s", pt, s.State())
		case s.gauges() > 1:
			return errs.New(errs.ErrCodeInternal, "point %s has %d gauges", pt, s.gauges())
		}
		for _, id := range s.Constraints() {
			c := p.Index.Constraint(id)
			if c == nil {
				return errs.New(errs.ErrCodeInternal, "point %s references unknown constraint #%d", pt, id)
			}
			if p.IsCheck(id) {
				if !checkResolves(c, placed, pt) {
					return errs.New(errs.ErrCodeInternal, "check %s is not complete at %s (step %d)", c, pt, i)
				}
				continue
			}
			if !slices.Contains(c.Targets(placed), pt) {
				return errs.New(errs.ErrCodeInternal, "%s cannot resolve %s at step %d", c, pt, i)
			}
		}
		placed[pt] = true
	}
	return nil
}

// checkResolves reports whether pt is the last point of check c to be
// placed. Checks are met at that point whether or not c could have fixed it.
func checkResolves(c constraint.Constraint, placed constraint.Known, pt string) bool {
	if !constraint.Involves(c, pt) {
		return false
	}
	for _, q := range c.Points() {
		if q != pt && !placed[q] {
			return false
		}
	}
	return true
}

// CandidateRoots returns, in registration order, the points from which
// [Build] succeeds. It never fails for an underconstrained root; other
// errors are returned.
func CandidateRoots(idx *constraint.Index) ([]string, error) {
	var out []string
	for _, p := range idx.Points() {
		_, err := Build(idx, p)
		switch {
		case err == nil:
			out = append(out, p)
		case errs.Is(err, errs.ErrCodeUnderconstrained):
		default:
			return nil, err
		}
	}
	return out, nil
}
