// Package contentstream defines the parsed instruction model the
// redaction engine operates on. An external tokenizer produces
// Operation values; an external serializer turns the rewritten list
// back into raw stream bytes.
package contentstream

import "github.com/wudi/redactkit/geom"

// Kind tags the variant of a parsed operation.
type Kind int

const (
	// KindGeneric covers every operator the engine does not interpret.
	KindGeneric Kind = iota
	// KindTextShow covers the text-showing operators (Tj, TJ, ', ").
	KindTextShow
	// KindTextState covers text-state and text-positioning operators
	// (Tf, Tc, Tw, Tz, TL, Ts, Tr, Td, TD, Tm, T*).
	KindTextState
)

// Operation is one parsed content-stream instruction. Show is non-nil
// exactly when Kind is KindTextShow.
type Operation struct {
	Kind     Kind
	Operator string
	Operands []Operand

	// Offset is the instruction's byte offset in the original stream.
	// It is an ordering key for diagnostics only and is not stable
	// across rewrites.
	Offset int64

	Show *ShowInfo
}

// ShowInfo carries the decoded payload of a text-showing operation.
type ShowInfo struct {
	// Text is the decoded (Unicode) text drawn by the operation.
	Text string
	// Glyphs is the per-character encoding breakdown, parallel to the
	// runes of Text up to truncation by the decoder.
	Glyphs []GlyphCode
	// FontName and FontSize are the selected font at draw time.
	FontName string
	FontSize float64
	// State is a snapshot of the text state at draw time.
	State TextState
	// BBox is the parser's bounding-box estimate in visual page space.
	// A zero-width box means the parser had no width information.
	BBox geom.Rect
	// UsesCMap records that decoding went through a
	// character-to-Unicode mapping table.
	UsesCMap bool
}

// GlyphCode is the encoding breakdown of one shown character.
type GlyphCode struct {
	// Raw holds the original code bytes for the character.
	Raw []byte
	// CID is the character ID for CID-keyed fonts.
	CID int
	// IsCID marks glyphs addressed through a CID-keyed font.
	IsCID bool
	// FromHex marks glyphs that arrived in a hex string operand.
	FromHex bool
}

// TextState is a snapshot of the text-state parameters that affect
// glyph placement and appearance.
type TextState struct {
	CharSpacing       float64
	WordSpacing       float64
	HorizontalScaling float64 // percent; 100 is the default
	Leading           float64
	Rise              float64
	RenderMode        int
}

// DefaultTextState returns the text state implied by a fresh text
// object with no state operators.
func DefaultTextState() TextState {
	return TextState{HorizontalScaling: 100}
}

// Font describes one entry of a page's font resource dictionary.
type Font struct {
	BaseFont string
	Subtype  string
	// Program holds the embedded font file, when present. Used for
	// width estimation; never required.
	Program []byte
}

// Resources is the subset of a page resource dictionary the engine
// consults: the font name space for validation and width repair.
type Resources struct {
	Fonts map[string]*Font
}

// HasFont reports whether the resource set resolves the given name.
func (r *Resources) HasFont(name string) bool {
	if r == nil || r.Fonts == nil {
		return false
	}
	_, ok := r.Fonts[name]
	return ok
}

// Number extracts a float64 from a numeric operand, or 0.
func Number(op Operand) float64 {
	if n, ok := op.(NumberOperand); ok {
		return n.Value
	}
	return 0
}
