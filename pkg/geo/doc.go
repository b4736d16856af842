// Package geo provides the exact locus algebra used by the constraint solver.
//
// # Overview
//
// A locus is the set of positions that satisfies one geometric constraint.
// The package models loci as a closed sum type over five variants:
//
//   - [Universal]: the whole plane (no information yet)
//   - [Point]: a single position
//   - [Ray]: a half-line, parameter t >= 0 from its origin
//   - [Line]: an unbounded line
//   - [Circle]: a circle given by center and radius
//
// A [Set] holds several alternative loci (candidate ambiguity). Sets are
// accepted anywhere a locus is accepted and are expanded into the
// cartesian product of their members.
//
// # Operators
//
// [Meet] intersects loci. Pairs are dispatched by a fixed variant rank
// (Universal < Point < Ray < Line < Circle) so each unordered pair has
// exactly one implementation. Degenerate configurations (parallel lines,
// tangent circles) are classified with the package tolerances and folded
// into a 0, 1 or 2 point result. A result with exactly one member is
// returned bare, never as a singleton [Set].
//
// [Distance] measures the exact Euclidean distance from a point to a
// locus. [DistanceApprox] is a cheaper proxy for ranking only.
//
// [Choose] picks a deterministic canonical representative of an
// under-constrained locus: the origin for [Universal], unit parameter for
// lines and rays, angle zero for circles.
//
// # Unsupported pairs
//
// Combinations outside the supported table (for example the distance
// between a line and a circle) are programming errors. They panic with an
// *errors.Error carrying [errors.ErrCodeUnsupportedLocus]; the solver
// recovers that panic at its top-level boundary.
//
// # Vectors
//
// Positions and directions use [Vec], an alias for r2.Point from
// github.com/golang/geo.
//
// [errors.ErrCodeUnsupportedLocus]: github.com/matzehuels/gcad/pkg/errors
package geo
