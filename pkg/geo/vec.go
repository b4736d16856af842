package geo

import (
	"math"

	"github.com/golang/geo/r2"
)

// Tolerances shared by every classification in the package. They are
// process-wide so that identical input always degenerates the same way.
const (
	// AbsTol is the absolute tolerance for point-on-locus tests.
	AbsTol = 1e-8

	// TangentTol is the looser tolerance used to classify a line-circle
	// discriminant as tangent. It equals sqrt(AbsTol).
	TangentTol = 1e-4

	// RelTol is the relative tolerance for circle-circle tangency.
	RelTol = 1e-9

	// CheckTol is the residual allowed when validating a solved figure.
	CheckTol = 1e-6
)

// Vec is a position or direction in the plane.
type Vec = r2.Point

// Origin is the canonical anchor chosen for an unconstrained point.
var Origin = Vec{}

// V returns the vector (x, y).
func V(x, y float64) Vec { return Vec{X: x, Y: y} }

// FromAngle returns the unit vector at angle radians from the +x axis.
func FromAngle(angle float64) Vec {
	return Vec{X: math.Cos(angle), Y: math.Sin(angle)}
}

// Rotate rotates v counterclockwise by angle radians.
func Rotate(v Vec, angle float64) Vec {
	c, s := math.Cos(angle), math.Sin(angle)
	return Vec{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

// Unit returns v scaled to unit length together with its original length.
// The zero vector yields the zero vector and length 0.
func Unit(v Vec) (Vec, float64) {
	n := v.Norm()
	if n == 0 {
		return Vec{}, 0
	}
	return v.Mul(1 / n), n
}

// Near reports whether a and b are within AbsTol of each other.
func Near(a, b Vec) bool {
	return a.Sub(b).Norm() <= AbsTol
}

// isClose mirrors the usual relative/absolute closeness test:
// |a-b| <= max(rel*max(|a|,|b|), abs).
func isClose(a, b, rel, abs float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	return diff <= math.Max(rel*math.Max(math.Abs(a), math.Abs(b)), abs)
}
