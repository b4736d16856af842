// Package solve assigns coordinates to the points of an ordered figure.
//
// [Solve] walks the fix order of an [order.Plan] depth first. For each point
// it intersects the loci of its supporting constraints, applies the gauge
// choice when present, and tries the resulting candidates in the order the
// intersection produced them. A binding is removed as soon as its branch
// fails, so a sibling never observes positions from an abandoned branch.
//
// Failures carry error codes from package errors:
//
//   - ErrCodeUnderconstrained: the ordering pass stalled ([SolveIndex] only)
//   - ErrCodeOverconstrained: every candidate sequence was exhausted
//   - ErrCodeUnsupportedLocus: an internal locus combination was requested
//   - ErrCodeTimeout: the context was cancelled or the step budget ran out
//
// [Validate] re-evaluates every constraint against a set of positions and
// reports the ones whose residual exceeds geo.CheckTol.
package solve
