// Package constraint models the relations a figure declares between its
// points and indexes them by point.
//
// # Overview
//
// A [Constraint] relates an ordered list of point ids. Given the set of points
// already fixed, it reports which unknown points it can help pin
// ([Constraint.Targets]) and, given their positions, the feasible locus for a
// target ([Constraint.Locus]). The ordering pass in package order consumes
// Targets; the assigner in package solve consumes Locus.
//
// Five kinds are supported:
//
//   - [Distance]: |AB| = length. The target lies on a circle around the other endpoint.
//   - [Angle]: ∠(start, vertex, end) = measure. A vertex target lies on one of two
//     inscribed-angle circles; an end target lies on one of two rays from the vertex.
//   - [Collinear]: three or more points on one line. Every unknown point becomes a
//     target once two points of the group are known.
//   - [Parallel]: two or more segments with a common direction.
//   - [Perpendicular]: a chain of segments, each perpendicular to the next.
//
// Constraints are immutable values. Their measures are resolved before they
// are registered (see package figure) and are never changed by solving.
//
// # Index
//
// [Index] registers points and constraints in insertion order and answers
// "which constraints touch this point" in O(k). Registration order is
// significant: it is the tie-break for every later ordering decision.
//
//	idx := constraint.NewIndex()
//	ab, _ := idx.Add(constraint.Distance{A: "A", B: "B", Length: 5})
//	for _, id := range idx.Get("A", constraint.KindDistance) {
//	    fmt.Println(idx.Constraint(id))
//	}
package constraint
