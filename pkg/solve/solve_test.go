package solve

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/golang/geo/s1"

	"github.com/matzehuels/gcad/pkg/constraint"
	errs "github.com/matzehuels/gcad/pkg/errors"
	"github.com/matzehuels/gcad/pkg/geo"
	"github.com/matzehuels/gcad/pkg/order"
)

func index(t *testing.T, cs ...constraint.Constraint) *constraint.Index {
	t.Helper()
	idx := constraint.NewIndex()
	for _, c := range cs {
		if _, err := idx.Add(c); err != nil {
			t.Fatalf("Add(%v) error = %v", c, err)
		}
	}
	return idx
}

func dist(a, b string, l float64) constraint.Distance {
	return constraint.Distance{A: a, B: b, Length: l}
}

func angle(s, v, e string, deg float64) constraint.Angle {
	return constraint.Angle{Start: s, Vertex: v, End: e, Measure: s1.Angle(deg) * s1.Degree}
}

func wantAt(t *testing.T, pos constraint.Positions, id string, want geo.Vec) {
	t.Helper()
	got, ok := pos[id]
	if !ok {
		t.Fatalf("%s has no position", id)
	}
	if got.Sub(want).Norm() > 1e-9 {
		t.Errorf("%s = %v, want %v", id, got, want)
	}
}

func solveIndex(t *testing.T, idx *constraint.Index, root string) (*Solution, error) {
	t.Helper()
	sol, _, err := SolveIndex(context.Background(), idx, root, Options{})
	return sol, err
}

func rightTriangle(t *testing.T) *constraint.Index {
	return index(t,
		dist("A", "B", 3),
		dist("A", "C", 4),
		angle("B", "A", "C", 90),
	)
}

func TestSolveSegment(t *testing.T) {
	sol, err := solveIndex(t, index(t, dist("A", "B", 5)), "A")
	if err != nil {
		t.Fatal(err)
	}
	wantAt(t, sol.Positions, "A", geo.V(0, 0))
	wantAt(t, sol.Positions, "B", geo.V(5, 0))
}

func TestSolveRightTriangle(t *testing.T) {
	idx := rightTriangle(t)
	sol, err := solveIndex(t, idx, "A")
	if err != nil {
		t.Fatal(err)
	}
	wantAt(t, sol.Positions, "B", geo.V(3, 0))
	wantAt(t, sol.Positions, "C", geo.V(0, 4))

	bc := sol.Positions["C"].Sub(sol.Positions["B"]).Norm()
	if math.Abs(bc-5) > 1e-9 {
		t.Errorf("|BC| = %v, want 5", bc)
	}
}

func TestSolveCollinear(t *testing.T) {
	idx := index(t,
		constraint.Collinear{Group: []string{"A", "B", "C"}},
		dist("A", "B", 2),
		dist("B", "C", 3),
	)
	sol, err := solveIndex(t, idx, "A")
	if err != nil {
		t.Fatal(err)
	}
	a, b, c := sol.Positions["A"], sol.Positions["B"], sol.Positions["C"]
	if d := geo.Distance(geo.Point{At: c}, geo.LineThrough(a, b)); d > 1e-9 {
		t.Errorf("C is %v off line AB", d)
	}
	if d := c.Sub(a).Norm(); math.Abs(d-5) > 1e-9 {
		t.Errorf("|AC| = %v, want 5", d)
	}
}

func TestSolveSharedPointChecks(t *testing.T) {
	tests := []struct {
		name  string
		idx   *constraint.Index
		check constraint.ID
		want  geo.Vec
	}{
		{
			name: "parallel",
			idx: index(t,
				dist("A", "C", 4),
				dist("A", "B", 2),
				dist("C", "B", 2),
				constraint.Parallel{Segments: []constraint.Segment{{"A", "B"}, {"B", "C"}}},
			),
			check: 3,
			want:  geo.V(2, 0),
		},
		{
			name: "perpendicular",
			idx: index(t,
				dist("A", "C", 5),
				dist("A", "B", 3),
				dist("B", "C", 4),
				constraint.Perpendicular{Segments: []constraint.Segment{{"A", "B"}, {"B", "C"}}},
			),
			check: 3,
			want:  geo.V(1.8, 2.4),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol, plan, err := SolveIndex(context.Background(), tt.idx, "A", Options{})
			if err != nil {
				t.Fatal(err)
			}
			if strings.Join(plan.Path, "") != "ACB" || !plan.IsCheck(tt.check) {
				t.Fatalf("plan = %v checks %v, want B last with #%d as a check", plan.Path, plan.Checks, tt.check)
			}
			wantAt(t, sol.Positions, "B", tt.want)
			violations, err := Validate(tt.idx, sol.Positions)
			if err != nil {
				t.Fatal(err)
			}
			if len(violations) != 0 {
				t.Errorf("Validate() = %+v", violations)
			}
		})
	}

	t.Run("inconsistent", func(t *testing.T) {
		idx := index(t,
			dist("A", "C", 4),
			dist("A", "B", 3),
			dist("C", "B", 3),
			constraint.Parallel{Segments: []constraint.Segment{{"A", "B"}, {"B", "C"}}},
		)
		_, err := solveIndex(t, idx, "A")
		if !errs.Is(err, errs.ErrCodeOverconstrained) {
			t.Errorf("Solve() error = %v, want %v", err, errs.ErrCodeOverconstrained)
		}
	})
}

func TestSolveOverconstrained(t *testing.T) {
	idx := rightTriangle(t)
	if _, err := idx.Add(dist("B", "C", 1)); err != nil {
		t.Fatal(err)
	}
	sol, err := solveIndex(t, idx, "A")
	if !errs.Is(err, errs.ErrCodeOverconstrained) {
		t.Fatalf("Solve() error = %v, want %v", err, errs.ErrCodeOverconstrained)
	}
	if sol != nil {
		t.Errorf("Solve() returned a solution on failure: %+v", sol)
	}
	if StatusOf(err) != StatusOverconstrained {
		t.Errorf("StatusOf() = %v", StatusOf(err))
	}
}

func TestSolveUnderconstrained(t *testing.T) {
	idx := index(t, dist("A", "B", 5))
	if _, err := idx.AddPoint("Z"); err != nil {
		t.Fatal(err)
	}
	_, err := solveIndex(t, idx, "A")
	if !errs.Is(err, errs.ErrCodeUnderconstrained) {
		t.Fatalf("Solve() error = %v, want %v", err, errs.ErrCodeUnderconstrained)
	}
	if StatusOf(err) != StatusUnderconstrained {
		t.Errorf("StatusOf() = %v", StatusOf(err))
	}
}

// backtracking has a first candidate for C that leaves F without a position.
func backtracking(t *testing.T) *constraint.Index {
	return index(t,
		dist("A", "B", 3),
		dist("A", "E", 5),
		dist("B", "E", 4),
		dist("A", "C", 4),
		angle("B", "A", "C", 90),
		dist("C", "F", 1),
		dist("E", "F", 9),
	)
}

func TestSolveBacktracks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	sol, plan, err := SolveIndex(context.Background(), backtracking(t), "A", Options{Logger: logger})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(plan.Path, ""); got != "ABECF" {
		t.Errorf("Path = %s, want ABECF", got)
	}
	wantAt(t, sol.Positions, "E", geo.V(3, 4))
	wantAt(t, sol.Positions, "C", geo.V(0, -4))
	if sol.Backtracks != 1 || sol.Steps != 6 {
		t.Errorf("Backtracks, Steps = %d, %d, want 1, 6", sol.Backtracks, sol.Steps)
	}
	if !strings.Contains(buf.String(), "backtrack") || !strings.Contains(buf.String(), "point=F") {
		t.Errorf("expected a backtrack debug line, got %q", buf.String())
	}

	violations, err := Validate(plan.Index, sol.Positions)
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) != 0 {
		t.Errorf("Validate() = %+v, want none", violations)
	}
}

func TestSolveDeterministic(t *testing.T) {
	first, err := solveIndex(t, backtracking(t), "A")
	if err != nil {
		t.Fatal(err)
	}
	for range 5 {
		again, err := solveIndex(t, backtracking(t), "A")
		if err != nil {
			t.Fatal(err)
		}
		for id, p := range first.Positions {
			if again.Positions[id] != p {
				t.Fatalf("%s = %v, then %v", id, p, again.Positions[id])
			}
		}
	}
}

func TestSolveRoundTrip(t *testing.T) {
	square := func(t *testing.T) *constraint.Index {
		return index(t,
			dist("A", "B", 2),
			dist("B", "C", 2),
			dist("C", "D", 2),
			dist("D", "A", 2),
			angle("A", "B", "C", 90),
			angle("B", "C", "D", 90),
			dist("A", "C", 2*math.Sqrt2),
		)
	}

	tests := []struct {
		name string
		idx  func(t *testing.T) *constraint.Index
		root string
	}{
		{"right triangle from A", rightTriangle, "A"},
		{"right triangle from C", rightTriangle, "C"},
		{"square", square, "A"},
		{"square from C", square, "C"},
		{"backtracking", backtracking, "A"},
		{"parallelogram", func(t *testing.T) *constraint.Index {
			return index(t,
				dist("A", "B", 4),
				dist("A", "D", 2),
				angle("B", "A", "D", 60),
				constraint.Parallel{Segments: []constraint.Segment{{"A", "B"}, {"D", "C"}}},
				constraint.Parallel{Segments: []constraint.Segment{{"A", "D"}, {"B", "C"}}},
			)
		}, "A"},
		{"perpendicular diagonals", func(t *testing.T) *constraint.Index {
			return index(t,
				dist("A", "C", 6),
				constraint.Perpendicular{Segments: []constraint.Segment{{"A", "C"}, {"B", "D"}}},
				dist("A", "B", 2),
				dist("C", "B", 5),
				constraint.Collinear{Group: []string{"B", "M", "D"}},
				constraint.Collinear{Group: []string{"A", "M", "C"}},
				dist("B", "D", 3),
			)
		}, "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := tt.idx(t)
			sol, err := solveIndex(t, idx, tt.root)
			if err != nil {
				t.Fatal(err)
			}
			violations, err := Validate(idx, sol.Positions)
			if err != nil {
				t.Fatal(err)
			}
			for _, v := range violations {
				t.Errorf("%s violated by %g", v.Constraint, v.Residual)
			}
		})
	}
}

func TestValidateReportsViolations(t *testing.T) {
	idx := rightTriangle(t)
	pos := constraint.Positions{
		"A": geo.V(0, 0),
		"B": geo.V(3, 0),
		"C": geo.V(0, 5),
	}
	violations, err := Validate(idx, pos)
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) != 1 || violations[0].ID != 1 || math.Abs(violations[0].Residual-1) > 1e-12 {
		t.Errorf("Validate() = %+v, want |AC| off by 1", violations)
	}

	delete(pos, "C")
	if _, err := Validate(idx, pos); !errs.Is(err, errs.ErrCodeUnknownPoint) {
		t.Errorf("Validate() with missing point error = %v", err)
	}
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := SolveIndex(ctx, rightTriangle(t), "A", Options{})
	if !errs.Is(err, errs.ErrCodeTimeout) {
		t.Errorf("Solve() error = %v, want %v", err, errs.ErrCodeTimeout)
	}
}

func TestSolveMaxSteps(t *testing.T) {
	_, _, err := SolveIndex(context.Background(), backtracking(t), "A", Options{MaxSteps: 4})
	if !errs.Is(err, errs.ErrCodeTimeout) {
		t.Errorf("Solve() error = %v, want %v", err, errs.ErrCodeTimeout)
	}
}

func TestSolveRejectsInvalidPlan(t *testing.T) {
	plan, err := order.Build(rightTriangle(t), "A")
	if err != nil {
		t.Fatal(err)
	}
	plan.Path = plan.Path[:2]
	if _, err := Solve(context.Background(), plan, Options{}); !errs.Is(err, errs.ErrCodeInternal) {
		t.Errorf("Solve() error = %v, want %v", err, errs.ErrCodeInternal)
	}
}

func TestStatusString(t *testing.T) {
	for s, want := range map[Status]string{
		StatusSolved:           "solved",
		StatusUnderconstrained: "underconstrained",
		StatusOverconstrained:  "overconstrained",
		StatusFailed:           "failed",
	} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
