package solve

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gcad/pkg/constraint"
	errs "github.com/matzehuels/gcad/pkg/errors"
	"github.com/matzehuels/gcad/pkg/geo"
	"github.com/matzehuels/gcad/pkg/observability"
	"github.com/matzehuels/gcad/pkg/order"
)

// Options configures a search.
type Options struct {
	// Logger receives a debug line for every dead end. Nil discards.
	Logger *log.Logger

	// MaxSteps bounds the number of candidate placements. Zero means no bound.
	MaxSteps int
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

// Solution is a successful embedding.
type Solution struct {
	Root       string
	Path       []string
	Positions  constraint.Positions
	Steps      int // candidate placements tried
	Backtracks int // dead ends reached
}

// outcome is the result of one step of the search.
type outcome int

const (
	placed  outcome = iota // this point and every later one are bound
	deadEnd                // no candidate works; the caller tries its next one
	aborted                // stop immediately; search.err is set
)

type search struct {
	ctx   context.Context
	plan  *order.Plan
	pos   constraint.Positions
	opts  Options
	log   *log.Logger
	steps int
	backs int
	err   error
}

// Solve searches for positions satisfying plan.
func Solve(ctx context.Context, plan *order.Plan, opts Options) (sol *Solution, err error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	s := &search{
		ctx:  ctx,
		plan: plan,
		pos:  make(constraint.Positions, len(plan.Path)),
		opts: opts,
		log:  opts.logger(),
	}

	hooks := observability.Solver()
	hooks.OnSolveStart(ctx, plan.Root, len(plan.Path))
	start := time.Now()
	defer func() {
		hooks.OnSolveComplete(ctx, plan.Root, s.steps, time.Since(start), err)
	}()
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		e, ok := r.(*errs.Error)
		if !ok {
			panic(r)
		}
		sol, err = nil, e
	}()

	switch s.explore(0) {
	case aborted:
		return nil, s.err
	case deadEnd:
		return nil, errs.New(errs.ErrCodeOverconstrained,
			"figure is overconstrained or unsolvable from root %s", plan.Root)
	}
	return &Solution{
		Root:       plan.Root,
		Path:       append([]string(nil), plan.Path...),
		Positions:  s.pos,
		Steps:      s.steps,
		Backtracks: s.backs,
	}, nil
}

func (s *search) explore(i int) outcome {
	if err := s.ctx.Err(); err != nil {
		s.err = errs.Wrap(errs.ErrCodeTimeout, err, "search interrupted")
		return aborted
	}

	p := s.plan.Path[i]
	cands, err := s.candidates(p)
	if err != nil {
		s.err = err
		return aborted
	}

	for _, c := range cands {
		s.steps++
		if s.opts.MaxSteps > 0 && s.steps > s.opts.MaxSteps {
			s.err = errs.New(errs.ErrCodeTimeout, "search exceeded %d steps", s.opts.MaxSteps)
			return aborted
		}
		s.pos[p] = c
		if i == len(s.plan.Path)-1 {
			return placed
		}
		switch s.explore(i + 1) {
		case placed:
			return placed
		case aborted:
			return aborted
		}
		delete(s.pos, p)
	}

	s.backs++
	s.log.Debug("backtrack", "point", p, "depth", i, "candidates", len(cands))
	observability.Solver().OnBacktrack(s.ctx, p, i)
	return deadEnd
}

// candidates intersects the supports of p and returns its finite candidates.
func (s *search) candidates(p string) ([]geo.Vec, error) {
	var space geo.Locus = geo.Universal{}
	gauge := false
	for _, sup := range s.plan.Support[p].Items() {
		switch sup := sup.(type) {
		case order.Gauge:
			gauge = true
		case order.ConstraintRef:
			l, err := s.plan.Index.Constraint(sup.ID).Locus(s.pos, p)
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeInternal, err, "locus of %s", p)
			}
			space = geo.Meet(space, l)
		}
	}
	if gauge {
		space = geo.Choose(space)
	}
	cands, ok := geo.Candidates(space)
	if !ok {
		return nil, errs.New(errs.ErrCodeInternal, "locus of %s is not finite: %s", p, space)
	}
	return cands, nil
}

// SolveIndex orders idx from root and solves the resulting plan. The plan is
// returned whenever ordering succeeded, even if the search failed.
func SolveIndex(ctx context.Context, idx *constraint.Index, root string, opts Options) (*Solution, *order.Plan, error) {
	start := time.Now()
	plan, err := order.Build(idx, root)
	observability.Solver().OnOrderComplete(ctx, root, len(idx.Points()), time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	sol, err := Solve(ctx, plan, opts)
	return sol, plan, err
}

// Status classifies the result of a solve.
type Status int

const (
	StatusSolved Status = iota
	StatusUnderconstrained
	StatusOverconstrained
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSolved:
		return "solved"
	case StatusUnderconstrained:
		return "underconstrained"
	case StatusOverconstrained:
		return "overconstrained"
	}
	return "failed"
}

// StatusOf maps a solve error to its status.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusSolved
	case errs.Is(err, errs.ErrCodeUnderconstrained):
		return StatusUnderconstrained
	case errs.Is(err, errs.ErrCodeOverconstrained):
		return StatusOverconstrained
	}
	return StatusFailed
}
