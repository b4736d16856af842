package order

import (
	"errors"
	"slices"
	"testing"

	"github.com/golang/geo/s1"

	"github.com/matzehuels/gcad/pkg/constraint"
	errs "github.com/matzehuels/gcad/pkg/errors"
)

func mustAdd(t *testing.T, idx *constraint.Index, cs ...constraint.Constraint) {
	t.Helper()
	for _, c := range cs {
		if _, err := idx.Add(c); err != nil {
			t.Fatalf("Add(%v) error = %v", c, err)
		}
	}
}

func triangle(t *testing.T) *constraint.Index {
	idx := constraint.NewIndex()
	mustAdd(t, idx,
		constraint.Distance{A: "A", B: "B", Length: 3},
		constraint.Distance{A: "A", B: "C", Length: 4},
		constraint.Angle{Start: "B", Vertex: "A", End: "C", Measure: 90 * s1.Degree},
	)
	return idx
}

func supports(s *SupportSet) string { return s.String() }

func TestBuildSegment(t *testing.T) {
	idx := constraint.NewIndex()
	mustAdd(t, idx, constraint.Distance{A: "A", B: "B", Length: 5})

	plan, err := Build(idx, "A")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(plan.Path, []string{"A", "B"}) {
		t.Errorf("Path = %v, want [A B]", plan.Path)
	}
	if got := supports(plan.Support["A"]); got != "{gauge}" {
		t.Errorf("Support[A] = %s, want {gauge}", got)
	}
	if got := supports(plan.Support["B"]); got != "{#0, gauge}" {
		t.Errorf("Support[B] = %s, want {#0, gauge}", got)
	}
	if got := plan.Gauges(); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("Gauges() = %v, want [A B]", got)
	}
	if len(plan.Checks) != 0 {
		t.Errorf("Checks = %v, want none", plan.Checks)
	}
}

func TestBuildTriangle(t *testing.T) {
	plan, err := Build(triangle(t), "A")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(plan.Path, []string{"A", "B", "C"}) {
		t.Errorf("Path = %v, want [A B C]", plan.Path)
	}
	if got := supports(plan.Support["C"]); got != "{#1, #2}" {
		t.Errorf("Support[C] = %s, want {#1, #2}", got)
	}
	if s := plan.Support["C"]; s.State() != Fixed || s.HasGauge() {
		t.Errorf("C should be fixed without a gauge, got %s", s)
	}
	if err := plan.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestBuildDefaultRoot(t *testing.T) {
	plan, err := Build(triangle(t), "")
	if err != nil {
		t.Fatal(err)
	}
	if plan.Root != "A" {
		t.Errorf("Root = %s, want the first registered point A", plan.Root)
	}
}

func TestBuildCollinear(t *testing.T) {
	idx := constraint.NewIndex()
	mustAdd(t, idx,
		constraint.Collinear{Group: []string{"A", "B", "C"}},
		constraint.Distance{A: "A", B: "B", Length: 2},
		constraint.Distance{A: "B", B: "C", Length: 3},
	)
	plan, err := Build(idx, "A")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(plan.Path, []string{"A", "B", "C"}) {
		t.Errorf("Path = %v, want [A B C]", plan.Path)
	}
	if got := supports(plan.Support["C"]); got != "{#0, #2}" {
		t.Errorf("Support[C] = %s, want {#0, #2}", got)
	}
	if err := plan.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestBuildChecks(t *testing.T) {
	idx := triangle(t)
	mustAdd(t, idx, constraint.Distance{A: "B", B: "C", Length: 1})

	plan, err := Build(idx, "A")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(plan.Checks, []constraint.ID{3}) {
		t.Errorf("Checks = %v, want [3]", plan.Checks)
	}
	if got := supports(plan.Support["C"]); got != "{#1, #2, #3}" {
		t.Errorf("Support[C] = %s, want the check appended", got)
	}
	if !plan.IsCheck(3) || plan.IsCheck(1) {
		t.Error("IsCheck() disagrees with Checks")
	}
	if err := plan.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestBuildUnderconstrained(t *testing.T) {
	idx := constraint.NewIndex()
	mustAdd(t, idx, constraint.Distance{A: "A", B: "B", Length: 5})
	if _, err := idx.AddPoint("Z"); err != nil {
		t.Fatal(err)
	}

	_, err := Build(idx, "A")
	if !errs.Is(err, errs.ErrCodeUnderconstrained) {
		t.Fatalf("Build() error = %v, want %v", err, errs.ErrCodeUnderconstrained)
	}
	var stalled *errs.StalledError
	if !errors.As(err, &stalled) {
		t.Fatalf("Build() error has no StalledError cause: %v", err)
	}
	if !slices.Equal(stalled.Path, []string{"A", "B"}) || !slices.Equal(stalled.Unfixed, []string{"Z"}) {
		t.Errorf("StalledError = %+v", stalled)
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := Build(constraint.NewIndex(), ""); !errs.Is(err, errs.ErrCodeInvalidFigure) {
		t.Errorf("Build(empty) error = %v", err)
	}
	if _, err := Build(triangle(t), "Q"); !errs.Is(err, errs.ErrCodeUnknownPoint) {
		t.Errorf("Build(unknown root) error = %v", err)
	}
}

func TestCandidateRoots(t *testing.T) {
	roots, err := CandidateRoots(triangle(t))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(roots, []string{"A", "B", "C"}) {
		t.Errorf("CandidateRoots(triangle) = %v", roots)
	}

	idx := constraint.NewIndex()
	mustAdd(t, idx,
		constraint.Distance{A: "A", B: "B", Length: 1},
		constraint.Distance{A: "C", B: "D", Length: 1},
	)
	roots, err = CandidateRoots(idx)
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 0 {
		t.Errorf("CandidateRoots(disconnected) = %v, want none", roots)
	}
}

func TestBuildSharedPointCheck(t *testing.T) {
	for _, c := range []constraint.Constraint{
		constraint.Parallel{Segments: []constraint.Segment{{"A", "B"}, {"B", "C"}}},
		constraint.Perpendicular{Segments: []constraint.Segment{{"A", "B"}, {"B", "C"}}},
	} {
		t.Run(c.Kind().String(), func(t *testing.T) {
			idx := constraint.NewIndex()
			mustAdd(t, idx,
				constraint.Distance{A: "A", B: "C", Length: 4},
				constraint.Distance{A: "A", B: "B", Length: 2},
				constraint.Distance{A: "C", B: "B", Length: 2},
				c,
			)
			plan, err := Build(idx, "A")
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(plan.Path, []string{"A", "C", "B"}) || !plan.IsCheck(3) {
				t.Fatalf("plan = %v checks %v, want B last with #3 as a check", plan.Path, plan.Checks)
			}
			if err := plan.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}

			plan.Support["C"].items = append(plan.Support["C"].items, ConstraintRef{ID: 3})
			if err := plan.Validate(); !errs.Is(err, errs.ErrCodeInternal) {
				t.Errorf("Validate() with the check on C = %v, want %v", err, errs.ErrCodeInternal)
			}
		})
	}
}

func TestValidateRejectsTampering(t *testing.T) {
	tests := []struct {
		name   string
		tamper func(p *Plan)
	}{
		{"swapped path", func(p *Plan) { p.Path[1], p.Path[2] = p.Path[2], p.Path[1] }},
		{"missing point", func(p *Plan) { p.Path = p.Path[:2] }},
		{"repeated point", func(p *Plan) { p.Path[2] = "B" }},
		{"wrong root", func(p *Plan) { p.Root = "B" }},
		{"continuum point", func(p *Plan) { p.Support["C"] = &SupportSet{items: []Support{ConstraintRef{ID: 1}}} }},
		{"double gauge", func(p *Plan) { p.Support["B"].items = append(p.Support["B"].items, Gauge{}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Build(triangle(t), "A")
			if err != nil {
				t.Fatal(err)
			}
			tt.tamper(plan)
			if err := plan.Validate(); !errs.Is(err, errs.ErrCodeInternal) {
				t.Errorf("Validate() error = %v, want %v", err, errs.ErrCodeInternal)
			}
		})
	}
}

func TestGraph(t *testing.T) {
	idx := triangle(t)
	mustAdd(t, idx, constraint.Distance{A: "B", B: "C", Length: 5})
	plan, err := Build(idx, "A")
	if err != nil {
		t.Fatal(err)
	}

	want := []Edge{
		{From: "A", To: "B", Constraints: []constraint.ID{0}},
		{From: "A", To: "C", Constraints: []constraint.ID{1, 2}},
		{From: "B", To: "C", Constraints: []constraint.ID{2, 3}},
	}
	got := plan.Graph()
	if len(got) != len(want) {
		t.Fatalf("Graph() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i].From != want[i].From || got[i].To != want[i].To ||
			!slices.Equal(got[i].Constraints, want[i].Constraints) || got[i].Check != want[i].Check {
			t.Errorf("edge %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSupportSet(t *testing.T) {
	var s SupportSet
	if s.State() != Free {
		t.Errorf("empty State() = %v, want free", s.State())
	}
	if !s.Add(ConstraintRef{ID: 4}) || s.Add(ConstraintRef{ID: 4}) {
		t.Error("Add() should reject duplicates")
	}
	if s.State() != Continuum {
		t.Errorf("State() = %v, want continuum", s.State())
	}
	s.Add(Gauge{})
	if s.State() != Fixed || !s.HasGauge() {
		t.Errorf("State() = %v, want fixed with gauge", s.State())
	}
	if got := s.Constraints(); !slices.Equal(got, []constraint.ID{4}) {
		t.Errorf("Constraints() = %v", got)
	}

	var nilSet *SupportSet
	if nilSet.Len() != 0 || nilSet.State() != Free {
		t.Error("nil support set should be empty and free")
	}
}
