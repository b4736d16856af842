package constraint

import (
	"math"
	"slices"
	"testing"

	"github.com/golang/geo/s1"

	errs "github.com/matzehuels/gcad/pkg/errors"
	"github.com/matzehuels/gcad/pkg/geo"
)

func known(ids ...string) Known {
	k := make(Known)
	for _, id := range ids {
		k[id] = true
	}
	return k
}

func near(a, b geo.Vec) bool { return a.Sub(b).Norm() < 1e-9 }

func TestTargets(t *testing.T) {
	dist := Distance{A: "A", B: "B", Length: 5}
	ang := Angle{Start: "B", Vertex: "A", End: "C", Measure: 90 * s1.Degree}
	col := Collinear{Group: []string{"A", "B", "C", "D"}}
	par := Parallel{Segments: []Segment{{"A", "B"}, {"C", "D"}, {"E", "F"}}}
	perp := Perpendicular{Segments: []Segment{{"A", "B"}, {"C", "D"}}}

	tests := []struct {
		name  string
		c     Constraint
		known Known
		want  []string
	}{
		{"distance none known", dist, known(), nil},
		{"distance one known", dist, known("A"), []string{"B"}},
		{"distance other known", dist, known("B"), []string{"A"}},
		{"distance both known", dist, known("A", "B"), nil},
		{"angle two unknown", ang, known("A"), nil},
		{"angle end", ang, known("A", "B"), []string{"C"}},
		{"angle vertex", ang, known("B", "C"), []string{"A"}},
		{"collinear one known", col, known("A"), nil},
		{"collinear two known", col, known("A", "C"), []string{"B", "D"}},
		{"collinear all known", col, known("A", "B", "C", "D"), nil},
		{"parallel no full segment", par, known("A", "C", "E"), nil},
		{"parallel full segment", par, known("A", "B", "C", "F"), []string{"D", "E"}},
		{"parallel untouched segment", par, known("A", "B"), nil},
		{"perpendicular", perp, known("A", "B", "D"), []string{"C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Targets(tt.known); !slices.Equal(got, tt.want) {
				t.Errorf("Targets() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDistanceLocus(t *testing.T) {
	d := Distance{A: "A", B: "B", Length: 5}
	pos := Positions{"A": geo.V(1, 1)}

	l, err := d.Locus(pos, "B")
	if err != nil {
		t.Fatalf("Locus() error = %v", err)
	}
	c, ok := l.(geo.Circle)
	if !ok || !near(c.Center, geo.V(1, 1)) || c.Radius != 5 {
		t.Errorf("Locus() = %v, want Circle((1, 1), 5)", l)
	}

	if _, err := d.Locus(pos, "A"); !errs.Is(err, errs.ErrCodeUnknownPoint) {
		t.Errorf("Locus(A) without B error = %v, want %v", err, errs.ErrCodeUnknownPoint)
	}
	if _, err := d.Locus(pos, "Z"); err == nil {
		t.Error("Locus(Z) should fail for a point the constraint does not reference")
	}
}

func TestAngleLocusVertex(t *testing.T) {
	pos := Positions{"B": geo.V(0, 0), "C": geo.V(2, 0)}

	t.Run("right angle is one circle", func(t *testing.T) {
		a := Angle{Start: "B", Vertex: "A", End: "C", Measure: 90 * s1.Degree}
		l, err := a.Locus(pos, "A")
		if err != nil {
			t.Fatal(err)
		}
		c, ok := l.(geo.Circle)
		if !ok {
			t.Fatalf("Locus() = %v, want a single circle", l)
		}
		if !near(c.Center, geo.V(1, 0)) || math.Abs(c.Radius-1) > 1e-12 {
			t.Errorf("Locus() = %v, want Circle((1, 0), 1)", c)
		}
	})

	t.Run("large right angle is one circle", func(t *testing.T) {
		a := Angle{Start: "B", Vertex: "A", End: "C", Measure: 90 * s1.Degree}
		l, err := a.Locus(Positions{"B": geo.V(0, 0), "C": geo.V(4e8, 0)}, "A")
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := l.(geo.Circle); !ok {
			t.Fatalf("Locus() = %v, want a single circle", l)
		}
	})

	t.Run("acute angle is two circles", func(t *testing.T) {
		a := Angle{Start: "B", Vertex: "A", End: "C", Measure: 60 * s1.Degree}
		l, err := a.Locus(pos, "A")
		if err != nil {
			t.Fatal(err)
		}
		set, ok := l.(geo.Set)
		if !ok || len(set) != 2 {
			t.Fatalf("Locus() = %v, want two circles", l)
		}
		apex := geo.Pt(1, math.Sqrt(3))
		if d := geo.Distance(apex, set[0]); d > 1e-9 {
			t.Errorf("apex of the equilateral triangle is %v off the first circle", d)
		}
		if d := geo.Distance(geo.Pt(1, -math.Sqrt(3)), set[1]); d > 1e-9 {
			t.Errorf("mirrored apex is %v off the second circle", d)
		}
	})

	t.Run("coincident ends", func(t *testing.T) {
		a := Angle{Start: "B", Vertex: "A", End: "C", Measure: 60 * s1.Degree}
		l, err := a.Locus(Positions{"B": geo.V(1, 1), "C": geo.V(1, 1)}, "A")
		if err != nil {
			t.Fatal(err)
		}
		if s, ok := l.(geo.Set); !ok || len(s) != 0 {
			t.Errorf("Locus() = %v, want empty", l)
		}
	})
}

func TestAngleLocusEnd(t *testing.T) {
	a := Angle{Start: "B", Vertex: "A", End: "C", Measure: 90 * s1.Degree}
	pos := Positions{"A": geo.V(0, 0), "B": geo.V(3, 0)}

	l, err := a.Locus(pos, "C")
	if err != nil {
		t.Fatal(err)
	}
	set, ok := l.(geo.Set)
	if !ok || len(set) != 2 {
		t.Fatalf("Locus() = %v, want two rays", l)
	}
	for i, want := range []geo.Vec{geo.V(0, 1), geo.V(0, -1)} {
		r, ok := set[i].(geo.Ray)
		if !ok || !near(r.Origin, geo.V(0, 0)) || !near(r.Dir, want) {
			t.Errorf("ray %d = %v, want direction %v", i, set[i], want)
		}
	}
}

func TestLineLoci(t *testing.T) {
	pos := Positions{
		"A": geo.V(0, 0),
		"B": geo.V(2, 0),
		"C": geo.V(0, 1),
		"E": geo.V(5, 5),
	}

	tests := []struct {
		name   string
		c      Constraint
		target string
		origin geo.Vec
		dir    geo.Vec
	}{
		{"collinear", Collinear{Group: []string{"A", "B", "D"}}, "D", geo.V(0, 0), geo.V(1, 0)},
		{"collinear skips unplaced", Collinear{Group: []string{"D", "C", "A"}}, "D", geo.V(0, 1), geo.V(0, -1)},
		{"parallel", Parallel{Segments: []Segment{{"A", "B"}, {"C", "D"}}}, "D", geo.V(0, 1), geo.V(1, 0)},
		{"parallel first point", Parallel{Segments: []Segment{{"A", "B"}, {"D", "C"}}}, "D", geo.V(0, 1), geo.V(1, 0)},
		{"perpendicular odd", Perpendicular{Segments: []Segment{{"A", "B"}, {"C", "D"}}}, "D", geo.V(0, 1), geo.V(0, 1)},
		{"perpendicular even", Perpendicular{Segments: []Segment{{"A", "B"}, {"C", "F"}, {"E", "D"}}}, "D", geo.V(5, 5), geo.V(1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := tt.c.Locus(pos, tt.target)
			if err != nil {
				t.Fatal(err)
			}
			line, ok := l.(geo.Line)
			if !ok {
				t.Fatalf("Locus() = %v, want a line", l)
			}
			if !near(line.Origin, tt.origin) || !near(line.Dir, tt.dir) {
				t.Errorf("Locus() = %v, want Line(%v, %v)", line, tt.origin, tt.dir)
			}
		})
	}
}

func TestSharedPointLoci(t *testing.T) {
	pos := Positions{"A": geo.V(0, 0), "C": geo.V(4, 0)}

	t.Run("parallel through shared point", func(t *testing.T) {
		c := Parallel{Segments: []Segment{{"A", "B"}, {"B", "C"}}}
		l, err := c.Locus(pos, "B")
		if err != nil {
			t.Fatal(err)
		}
		line, ok := l.(geo.Line)
		if !ok {
			t.Fatalf("Locus() = %v, want a line", l)
		}
		if !near(line.Origin, geo.V(0, 0)) || !near(line.Dir, geo.V(1, 0)) {
			t.Errorf("Locus() = %v, want the line through A and C", line)
		}
	})

	t.Run("perpendicular through shared point", func(t *testing.T) {
		c := Perpendicular{Segments: []Segment{{"A", "B"}, {"B", "C"}}}
		l, err := c.Locus(pos, "B")
		if err != nil {
			t.Fatal(err)
		}
		circle, ok := l.(geo.Circle)
		if !ok {
			t.Fatalf("Locus() = %v, want a circle", l)
		}
		if !near(circle.Center, geo.V(2, 0)) || math.Abs(circle.Radius-2) > 1e-12 {
			t.Errorf("Locus() = %v, want the circle on AC", circle)
		}
	})

	t.Run("perpendicular with coincident partners", func(t *testing.T) {
		c := Perpendicular{Segments: []Segment{{"A", "B"}, {"B", "D"}}}
		l, err := c.Locus(Positions{"A": geo.V(1, 1), "D": geo.V(1, 1)}, "B")
		if err != nil {
			t.Fatal(err)
		}
		if p, ok := l.(geo.Point); !ok || !near(p.At, geo.V(1, 1)) {
			t.Errorf("Locus() = %v, want Point(1, 1)", l)
		}
	})

	t.Run("one placed partner", func(t *testing.T) {
		c := Parallel{Segments: []Segment{{"A", "B"}, {"B", "D"}}}
		_, err := c.Locus(pos, "B")
		if !errs.Is(err, errs.ErrCodeUnknownPoint) {
			t.Errorf("err = %v, want UNKNOWN_POINT", err)
		}
	})
}

func TestResidual(t *testing.T) {
	pos := Positions{
		"A": geo.V(0, 0),
		"B": geo.V(3, 0),
		"C": geo.V(0, 4),
		"D": geo.V(3, 4),
		"M": geo.V(1.5, 0),
	}

	tests := []struct {
		name string
		c    Constraint
		want float64
	}{
		{"distance satisfied", Distance{A: "B", B: "C", Length: 5}, 0},
		{"distance off", Distance{A: "A", B: "B", Length: 2}, 1},
		{"right angle", Angle{Start: "B", Vertex: "A", End: "C", Measure: 90 * s1.Degree}, 0},
		{"angle off", Angle{Start: "B", Vertex: "A", End: "C", Measure: 60 * s1.Degree}, math.Pi / 6},
		{"collinear", Collinear{Group: []string{"A", "M", "B"}}, 0},
		{"not collinear", Collinear{Group: []string{"A", "B", "D"}}, 4},
		{"parallel", Parallel{Segments: []Segment{{"A", "B"}, {"C", "D"}}}, 0},
		{"not parallel", Parallel{Segments: []Segment{{"A", "B"}, {"A", "C"}}}, 1},
		{"perpendicular", Perpendicular{Segments: []Segment{{"A", "B"}, {"A", "C"}, {"C", "D"}}}, 0},
		{"not perpendicular", Perpendicular{Segments: []Segment{{"A", "B"}, {"C", "D"}}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.c.Residual(pos)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Residual() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := (Distance{A: "A", B: "Z", Length: 1}).Residual(pos); !errs.Is(err, errs.ErrCodeUnknownPoint) {
		t.Errorf("Residual() with missing point error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		c       Constraint
		wantErr bool
	}{
		{"distance", Distance{A: "A", B: "B", Length: 1}, false},
		{"zero distance", Distance{A: "A", B: "B"}, false},
		{"distance same endpoints", Distance{A: "A", B: "A", Length: 1}, true},
		{"distance negative", Distance{A: "A", B: "B", Length: -1}, true},
		{"distance infinite", Distance{A: "A", B: "B", Length: math.Inf(1)}, true},
		{"distance bad id", Distance{A: "A B", B: "C", Length: 1}, true},
		{"angle", Angle{Start: "A", Vertex: "B", End: "C", Measure: 45 * s1.Degree}, false},
		{"straight angle", Angle{Start: "A", Vertex: "B", End: "C", Measure: 180 * s1.Degree}, false},
		{"zero angle", Angle{Start: "A", Vertex: "B", End: "C"}, true},
		{"reflex angle", Angle{Start: "A", Vertex: "B", End: "C", Measure: 200 * s1.Degree}, true},
		{"angle repeated point", Angle{Start: "A", Vertex: "B", End: "A", Measure: 1}, true},
		{"collinear", Collinear{Group: []string{"A", "B", "C"}}, false},
		{"collinear too short", Collinear{Group: []string{"A", "B"}}, true},
		{"collinear repeated", Collinear{Group: []string{"A", "B", "A"}}, true},
		{"parallel", Parallel{Segments: []Segment{{"A", "B"}, {"C", "D"}}}, false},
		{"parallel single", Parallel{Segments: []Segment{{"A", "B"}}}, true},
		{"parallel degenerate", Parallel{Segments: []Segment{{"A", "A"}, {"C", "D"}}}, true},
		{"perpendicular single", Perpendicular{Segments: []Segment{{"A", "B"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errs.Is(err, errs.ErrCodeInvalidFigure) {
				t.Errorf("Validate() code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidFigure)
			}
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		c    Constraint
		want string
	}{
		{Distance{A: "A", B: "B", Length: 5}, "|AB| = 5"},
		{Angle{Start: "B", Vertex: "A", End: "C", Measure: 90 * s1.Degree}, "∠BAC = 90°"},
		{Collinear{Group: []string{"A", "B", "C"}}, "A-B-C"},
		{Parallel{Segments: []Segment{{"A", "B"}, {"C", "D"}}}, "AB ∥ CD"},
		{Perpendicular{Segments: []Segment{{"A", "B"}, {"C", "D"}}}, "AB ⟂ CD"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestKind(t *testing.T) {
	for _, k := range []Kind{KindDistance, KindAngle, KindCollinear, KindParallel, KindPerpendicular} {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("tangent"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("ParseKind(tangent) error = %v", err)
	}
}

func TestMeasure(t *testing.T) {
	got := Measure(geo.V(1, 0), geo.V(0, 0), geo.V(-1, 1))
	if math.Abs(got.Degrees()-135) > 1e-9 {
		t.Errorf("Measure() = %v°, want 135°", got.Degrees())
	}
}
