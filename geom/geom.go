// Package geom provides the rectangle and point primitives used by the
// redaction engine, plus the page-rotation transforms that reconcile
// visual (post-rotation) coordinates with content-stream coordinates.
package geom

import "math"

// Point is a 2D point in PDF point space.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle with lower-left and upper-right
// corners, invariant LLX <= URX and LLY <= URY.
type Rect struct {
	LLX, LLY, URX, URY float64
}

// NewRect normalizes the corner ordering so the invariant holds.
func NewRect(x1, y1, x2, y2 float64) Rect {
	return Rect{
		LLX: math.Min(x1, x2),
		LLY: math.Min(y1, y2),
		URX: math.Max(x1, x2),
		URY: math.Max(y1, y2),
	}
}

// Valid reports whether the rectangle satisfies its ordering invariant
// and contains no NaN or infinite coordinates.
func (r Rect) Valid() bool {
	for _, v := range [4]float64{r.LLX, r.LLY, r.URX, r.URY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.LLX <= r.URX && r.LLY <= r.URY
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.URX - r.LLX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.URY - r.LLY }

// IsZero reports whether the rectangle is the zero value.
func (r Rect) IsZero() bool {
	return r.LLX == 0 && r.LLY == 0 && r.URX == 0 && r.URY == 0
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.LLX + r.URX) / 2, Y: (r.LLY + r.URY) / 2}
}

// ContainsPoint reports whether p lies inside the rectangle, edges
// included.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.LLX && p.X <= r.URX && p.Y >= r.LLY && p.Y <= r.URY
}

// ContainsRect reports whether other lies entirely inside r.
func (r Rect) ContainsRect(other Rect) bool {
	return other.LLX >= r.LLX && other.URX <= r.URX &&
		other.LLY >= r.LLY && other.URY <= r.URY
}

// Intersects reports whether the two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return !(other.LLX > r.URX || other.URX < r.LLX ||
		other.LLY > r.URY || other.URY < r.LLY)
}

// Union returns the smallest rectangle covering both r and other. A
// zero-value operand is treated as "no geometry" and does not grow the
// result.
func (r Rect) Union(other Rect) Rect {
	if r.IsZero() {
		return other
	}
	if other.IsZero() {
		return r
	}
	return Rect{
		LLX: math.Min(r.LLX, other.LLX),
		LLY: math.Min(r.LLY, other.LLY),
		URX: math.Max(r.URX, other.URX),
		URY: math.Max(r.URY, other.URY),
	}
}
