package geo

import "math"

// Distance returns the exact Euclidean distance between two loci.
//
// Supported pairs are point-point, point-line, point-ray (the foot of the
// projection is clamped to the ray) and point-circle (|center-p| - radius,
// absolute). A point is at distance zero from [Universal]. Either side may
// be a [Set]; the minimum over the cartesian product is returned, and +Inf
// when a side is empty.
//
// Any other pair panics with an unsupported-locus error.
func Distance(a, b Locus) float64 {
	best := math.Inf(1)
	for _, x := range members(a) {
		for _, y := range members(b) {
			best = math.Min(best, distancePair(x, y))
		}
	}
	return best
}

func distancePair(a, b Locus) float64 {
	if a.rank() > b.rank() {
		a, b = b, a
	}
	if _, ok := a.(Universal); ok {
		if _, ok := b.(Point); ok {
			return 0
		}
	}
	p, ok := a.(Point)
	if !ok {
		unsupported("distance", a, b)
	}
	switch b := b.(type) {
	case Point:
		return b.At.Sub(p.At).Norm()
	case Line, Ray:
		l, _ := asLinear(b)
		return l.closest(p.At).Sub(p.At).Norm()
	case Circle:
		return math.Abs(b.Center.Sub(p.At).Norm() - b.Radius)
	}
	unsupported("distance", a, b)
	return 0
}

// DistanceApprox is a cheap proxy for [Distance] built on the L1 norm.
// It preserves "zero means on the locus" but is not Euclidean and must
// only be used to rank candidates, never where exactness matters.
func DistanceApprox(a, b Locus) float64 {
	best := math.Inf(1)
	for _, x := range members(a) {
		for _, y := range members(b) {
			best = math.Min(best, approxPair(x, y))
		}
	}
	return best
}

func approxPair(a, b Locus) float64 {
	if a.rank() > b.rank() {
		a, b = b, a
	}
	p, ok := a.(Point)
	if !ok {
		unsupported("approximate distance", a, b)
	}
	switch b := b.(type) {
	case Point:
		return l1(b.At.Sub(p.At))
	case Line, Ray:
		l, _ := asLinear(b)
		return l1(l.closest(p.At).Sub(p.At))
	case Circle:
		return math.Abs(l1(b.Center.Sub(p.At)) - b.Radius)
	}
	unsupported("approximate distance", a, b)
	return 0
}

func l1(v Vec) float64 { return math.Abs(v.X) + math.Abs(v.Y) }
