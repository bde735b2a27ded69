// Package layout models the ground-truth glyph positions supplied by
// an external text-extraction component. Glyph rectangles live in
// visual page space, the coordinate system of the displayed page after
// any /Rotate is applied.
package layout

import "github.com/wudi/redactkit/geom"

// Glyph is one rendered character with its spatially accurate bounds.
type Glyph struct {
	// Value is the glyph's character value. Usually a single rune;
	// ligature decompositions may carry more.
	Value string
	// Rect is the glyph's bounding rectangle in visual page space.
	Rect geom.Rect
	// Ordinal is the glyph's position in reading order.
	Ordinal int
}

// Source supplies the ordered ground-truth glyph list for a page.
// Implementations include the host application's font-machinery
// extractor and the OCR-backed source in this package.
type Source interface {
	Glyphs(pageIndex int) ([]Glyph, error)
}
