package geo

import (
	errs "github.com/matzehuels/gcad/pkg/errors"
)

// Choose returns the canonical representative of l.
//
//   - Universal: the origin
//   - Point: itself
//   - Ray, Line: the point at parameter 1 from the origin
//   - Circle: the point at angle zero, Center + (Radius, 0)
//
// A [Set] is chosen element-wise and returned as a set of points (bare if
// it has one member). The result depends only on l, never on randomness.
func Choose(l Locus) Locus {
	switch l := l.(type) {
	case Universal:
		return Point{At: Origin}
	case Point:
		return l
	case Ray, Line:
		lin, _ := asLinear(l)
		return Point{At: lin.along(1)}
	case Circle:
		return Point{At: l.Center.Add(V(l.Radius, 0))}
	case Set:
		out := make([]Locus, len(l))
		for i, m := range l {
			out[i] = Choose(m)
		}
		return collapse(out)
	}
	panic(errs.New(errs.ErrCodeUnsupportedLocus, "choose of %s is not implemented", kindName(l)))
}

// IsFinite reports whether l is a single point or a non-empty set of
// points. An empty set is not a valid locus: it means the figure is
// over-constrained, and is reported as an error.
func IsFinite(l Locus) (bool, error) {
	switch l := l.(type) {
	case Point:
		return true, nil
	case Set:
		if len(l) == 0 {
			return false, errs.New(errs.ErrCodeOverconstrained, "figure over-constrained: empty locus")
		}
		for _, m := range l {
			if _, ok := m.(Point); !ok {
				return false, nil
			}
		}
		return true, nil
	}
	return false, nil
}

// Candidates flattens a finite locus into positions, in enumeration
// order. An empty set yields no candidates. ok is false when l still
// contains a non-point member.
func Candidates(l Locus) (pts []Vec, ok bool) {
	for _, m := range members(l) {
		p, isPoint := m.(Point)
		if !isPoint {
			return nil, false
		}
		pts = append(pts, p.At)
	}
	return pts, true
}
