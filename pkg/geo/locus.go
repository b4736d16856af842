package geo

import (
	"fmt"
	"strings"

	errs "github.com/matzehuels/gcad/pkg/errors"
)

// rank orders the locus variants. Pairwise operators swap their operands
// so that the lower rank comes first.
type rank int

const (
	rankUniversal rank = iota
	rankPoint
	rankRay
	rankLine
	rankCircle
)

// Locus is the closed sum type of feasible regions. The unexported method
// keeps the set of variants fixed to this package.
type Locus interface {
	rank() rank
	String() string
}

// Universal is the whole plane.
type Universal struct{}

// Point is a single position.
type Point struct {
	At Vec
}

// Line is the set o + t*v for every real t. Dir is a unit vector.
type Line struct {
	Origin Vec
	Dir    Vec
}

// Ray is the set o + t*v for t >= 0. Dir is a unit vector.
type Ray struct {
	Origin Vec
	Dir    Vec
}

// Circle is the set of points at distance Radius from Center.
type Circle struct {
	Center Vec
	Radius float64
}

// Set is a union of alternative loci. An empty Set means no position is
// feasible.
type Set []Locus

func (Universal) rank() rank { return rankUniversal }
func (Point) rank() rank     { return rankPoint }
func (Ray) rank() rank       { return rankRay }
func (Line) rank() rank      { return rankLine }
func (Circle) rank() rank    { return rankCircle }

// A Set never reaches the pair table; it is expanded first.
func (Set) rank() rank { return -1 }

func (Universal) String() string { return "Any" }

func (p Point) String() string { return fmtVec(p.At) }

func (l Line) String() string {
	return fmt.Sprintf("Line(%s, %s)", fmtVec(l.Origin), fmtVec(l.Dir))
}

func (r Ray) String() string {
	return fmt.Sprintf("Ray(%s, %s)", fmtVec(r.Origin), fmtVec(r.Dir))
}

func (c Circle) String() string {
	return fmt.Sprintf("Circle(%s, %s)", fmtVec(c.Center), fmtNum(c.Radius))
}

func (s Set) String() string {
	parts := make([]string, len(s))
	for i, l := range s {
		parts[i] = l.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Pt returns the point locus at (x, y).
func Pt(x, y float64) Point { return Point{At: V(x, y)} }

// NewLine returns the line through o along dir. dir is normalized.
func NewLine(o, dir Vec) Line {
	v, _ := Unit(dir)
	return Line{Origin: o, Dir: v}
}

// NewRay returns the ray from o along dir. dir is normalized.
func NewRay(o, dir Vec) Ray {
	v, _ := Unit(dir)
	return Ray{Origin: o, Dir: v}
}

// LineThrough returns the line through p0 and p1, directed from p0 to p1.
func LineThrough(p0, p1 Vec) Line { return NewLine(p0, p1.Sub(p0)) }

// RayThrough returns the ray from p0 passing through p1.
func RayThrough(p0, p1 Vec) Ray { return NewRay(p0, p1.Sub(p0)) }

// linear is the shared view of Line and Ray.
type linear struct {
	o, v    Vec
	bounded bool
}

func asLinear(l Locus) (linear, bool) {
	switch l := l.(type) {
	case Line:
		return linear{o: l.Origin, v: l.Dir}, true
	case Ray:
		return linear{o: l.Origin, v: l.Dir, bounded: true}, true
	}
	return linear{}, false
}

// inBounds reports whether parameter t lies on the linear locus.
func (l linear) inBounds(t float64) bool {
	return !l.bounded || t >= -AbsTol
}

func (l linear) along(t float64) Vec { return l.o.Add(l.v.Mul(t)) }

// closest returns the point of l nearest to p, clamping rays at their origin.
func (l linear) closest(p Vec) Vec {
	t := p.Sub(l.o).Dot(l.v)
	if l.bounded && t < 0 {
		t = 0
	}
	return l.along(t)
}

// members expands a Set into its elements; any other locus is its own
// single member.
func members(l Locus) []Locus {
	if s, ok := l.(Set); ok {
		return s
	}
	return []Locus{l}
}

// collapse returns the single member of a one-element result bare.
func collapse(ls []Locus) Locus {
	if len(ls) == 1 {
		return ls[0]
	}
	return Set(ls)
}

func unsupported(op string, a, b Locus) {
	panic(errs.New(errs.ErrCodeUnsupportedLocus, "%s of %s and %s is not implemented", op, kindName(a), kindName(b)))
}

func kindName(l Locus) string {
	switch l.(type) {
	case Universal:
		return "Universal"
	case Point:
		return "Point"
	case Ray:
		return "Ray"
	case Line:
		return "Line"
	case Circle:
		return "Circle"
	case Set:
		return "Set"
	}
	return fmt.Sprintf("%T", l)
}

func fmtVec(v Vec) string {
	return "(" + fmtNum(v.X) + ", " + fmtNum(v.Y) + ")"
}

// fmtNum prints at most three decimals without trailing zeros.
func fmtNum(f float64) string {
	s := strings.TrimRight(fmt.Sprintf("%.3f", f), "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
