// Package order computes the sequence in which a figure's points are placed
// and, for each point, the supports that jointly pin it.
//
// # Support Sets
//
// Every point carries a [SupportSet] of [Support] entries: references to
// constraints ([ConstraintRef]) or the [Gauge] marker, which stands for an
// arbitrary canonical choice. Two entries fix a point to finitely many
// candidates, one leaves a single degree of freedom (a continuum point) and
// none leaves the point free. The root is fixed by its gauge alone, which
// absorbs translation; the next gauge absorbs rotation.
//
// # Building a Plan
//
// [Build] propagates breadth-first from the root. Each newly fixed point is
// queued; when it is processed, every constraint touching it offers itself to
// the points it can now resolve. When the queue drains with points still
// unfixed, the first continuum point in registration order receives a gauge
// and the propagation resumes. If no continuum point exists the figure is
// underconstrained from that root and Build fails with
// ErrCodeUnderconstrained; the cause is an [errors.StalledError] describing
// where it stopped. [CandidateRoots] lists the roots for which Build succeeds.
//
// Constraints that never pinned a point become checks. Each one is appended
// to the support set of its latest-placed point so the assigner validates it
// while placing that point.
//
// [errors.StalledError]: github.com/matzehuels/gcad/pkg/errors.StalledError
package order
