package geom

import "fmt"

// ErrInvalidRotation is returned when a page rotation is not one of
// 0, 90, 180 or 270 degrees.
var ErrInvalidRotation = fmt.Errorf("rotation must be 0, 90, 180 or 270 degrees")

// NormalizeRotation reduces an arbitrary multiple-of-90 rotation to the
// canonical 0/90/180/270 range. Any other value is rejected.
func NormalizeRotation(deg int) (int, error) {
	r := deg % 360
	if r < 0 {
		r += 360
	}
	switch r {
	case 0, 90, 180, 270:
		return r, nil
	}
	return 0, fmt.Errorf("%w: got %d", ErrInvalidRotation, deg)
}

// ContentToVisual maps a pre-rotation content-stream point to its
// position on the displayed (rotated) page. width and height are the
// content-space page dimensions in points.
func ContentToVisual(p Point, rotation int, width, height float64) Point {
	switch rotation {
	case 90:
		return Point{X: p.Y, Y: width - p.X}
	case 180:
		return Point{X: width - p.X, Y: height - p.Y}
	case 270:
		return Point{X: height - p.Y, Y: p.X}
	default:
		return p
	}
}

// VisualToContent is the inverse of ContentToVisual: it maps a point in
// visual (post-rotation) space back into the page's content-stream
// coordinate system. Ground-truth glyph rectangles live in visual
// space; position-set operands must be emitted in content space.
func VisualToContent(p Point, rotation int, width, height float64) Point {
	switch rotation {
	case 90:
		return Point{X: width - p.Y, Y: p.X}
	case 180:
		return Point{X: width - p.X, Y: height - p.Y}
	case 270:
		return Point{X: p.Y, Y: height - p.X}
	default:
		return p
	}
}
