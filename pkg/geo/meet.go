package geo

import "math"

// Meet intersects any number of loci.
//
// The fold starts from the last operand and meets it pairwise with the
// others in order: Meet(a, b, c) == pair(pair(c, a), b). Within a pair the
// cartesian product of the two operands is enumerated with the first
// operand outer. This enumeration order decides which candidate the
// solver tries first and is part of the observable contract.
//
// Meet with no operands is [Universal].
func Meet(loci ...Locus) Locus {
	if len(loci) == 0 {
		return Universal{}
	}
	result := loci[len(loci)-1]
	for _, l := range loci[:len(loci)-1] {
		result = meetPair(result, l)
	}
	return result
}

func meetPair(a, b Locus) Locus {
	var out []Locus
	for _, x := range members(a) {
		for _, y := range members(b) {
			out = append(out, intersect(x, y)...)
		}
	}
	return collapse(out)
}

// intersect is the pair table. Operands are ordered by rank; operands of
// equal rank keep their order.
func intersect(a, b Locus) []Locus {
	if a.rank() > b.rank() {
		a, b = b, a
	}

	switch a := a.(type) {
	case Universal:
		return []Locus{b}
	case Point:
		if Distance(a, b) <= AbsTol {
			return []Locus{a}
		}
		return nil
	case Ray, Line:
		la, _ := asLinear(a)
		if lb, ok := asLinear(b); ok {
			return lineLine(la, lb)
		}
		if c, ok := b.(Circle); ok {
			return lineCircle(la, c)
		}
	case Circle:
		if c, ok := b.(Circle); ok {
			return circleCircle(a, c)
		}
	}
	unsupported("meet", a, b)
	return nil
}

// lineLine solves o1 + t1*v1 = o2 + t2*v2 with Cramer's rule.
func lineLine(l1, l2 linear) []Locus {
	det := l1.v.Cross(l2.v)
	if math.Abs(det) < AbsTol {
		// Parallel or coincident.
		return nil
	}
	b := l2.o.Sub(l1.o)
	t1 := b.Cross(l2.v) / det
	t2 := b.Cross(l1.v) / det
	if !l1.inBounds(t1) || !l2.inBounds(t2) {
		return nil
	}
	return []Locus{Point{At: l1.along(t1)}}
}

// lineCircle substitutes the line into the circle equation and inspects
// the discriminant.
func lineCircle(l linear, c Circle) []Locus {
	diff := l.o.Sub(c.Center)
	dot := l.v.Dot(diff)
	delta := dot*dot - (diff.Dot(diff) - c.Radius*c.Radius)

	if isClose(delta, 0, 0, TangentTol) {
		if l.inBounds(-dot) {
			return []Locus{Point{At: l.along(-dot)}}
		}
		return nil
	}
	if delta < 0 {
		return nil
	}

	root := math.Sqrt(delta)
	var out []Locus
	for _, t := range [2]float64{-dot + root, -dot - root} {
		if l.inBounds(t) {
			out = append(out, Point{At: l.along(t)})
		}
	}
	return out
}

// circleCircle builds the common chord of two circles.
func circleCircle(c1, c2 Circle) []Locus {
	dir, d := Unit(c2.Center.Sub(c1.Center))
	if d < AbsTol {
		// Concentric: either disjoint or identical, never finite.
		return nil
	}
	sum := c1.Radius + c2.Radius
	diff := math.Abs(c1.Radius - c2.Radius)
	tol := RelTol * math.Max(1, d)
	external := isClose(d, sum, 0, tol)
	internal := isClose(d, diff, 0, tol)

	// Separate, or one strictly inside the other.
	if !external && d > sum {
		return nil
	}
	if !internal && d < diff {
		return nil
	}

	// Distance from c1 to the chord, along dir.
	a := (c1.Radius*c1.Radius - c2.Radius*c2.Radius + d*d) / (2 * d)
	center := c1.Center.Add(dir.Mul(a))
	if external || internal {
		return []Locus{Point{At: center}}
	}

	h := math.Sqrt(math.Max(0, c1.Radius*c1.Radius-a*a))
	hv := Vec{X: dir.Y, Y: -dir.X}.Mul(h)
	return []Locus{Point{At: center.Add(hv)}, Point{At: center.Sub(hv)}}
}
