// Package coords converts between device pixels and surface fractions.
package coords

import (
	"errors"
	"math"
)

// ErrEmptySurface is returned when a position cannot be normalized because
// the surface has no area yet.
var ErrEmptySurface = errors.New("surface has zero width or height")

// Point is a position, in pixels or fractions depending on context.
type Point struct {
	X, Y float64
}

// Size is a surface size in pixels.
type Size struct {
	W, H int
}

// Empty reports whether either dimension is zero or negative.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Normalize maps a device position to a fraction of the surface.
func Normalize(p Point, s Size) (Point, error) {
	if s.Empty() {
		return Point{}, ErrEmptySurface
	}
	return Point{X: p.X / float64(s.W), Y: p.Y / float64(s.H)}, nil
}

// Denormalize maps a fraction of the surface back to device pixels.
func Denormalize(p Point, s Size) Point {
	return Point{X: p.X * float64(s.W), Y: p.Y * float64(s.H)}
}

// Near reports whether two points are within eps of each other on both axes.
func Near(a, b Point, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}
