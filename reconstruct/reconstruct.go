// Package reconstruct re-emits a valid operator sequence for the kept
// runs of a partially redacted text-showing operation. Unredacted
// content must keep its exact original appearance: font, spacing,
// kerning, rotation and encoding all carry over.
package reconstruct

import (
	"unicode"

	"github.com/wudi/redactkit/contentstream"
	"github.com/wudi/redactkit/geom"
	"github.com/wudi/redactkit/observability"
	"github.com/wudi/redactkit/segment"
)

const (
	// Replacement values for a missing or implausible font selection.
	fallbackFontName = "F1"
	fallbackFontSize = 12.0

	// Sizes outside (0, maxPlausibleFontSize] are treated as parser
	// damage rather than intent.
	maxPlausibleFontSize = 1000.0
)

// Reconstructor builds begin-text blocks for kept segments.
type Reconstructor struct {
	log observability.Logger
}

// Option configures a Reconstructor.
type Option func(*Reconstructor)

// WithLogger sets the diagnostics logger.
func WithLogger(l observability.Logger) Option {
	return func(r *Reconstructor) { r.log = l }
}

// New creates a Reconstructor.
func New(opts ...Option) *Reconstructor {
	r := &Reconstructor{log: observability.NopLogger{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rebuild emits a complete text object for the kept segments of one
// original operation: BT, font select, non-default state operators,
// then one position-set plus one show per segment, then ET. Segment
// coordinates arrive in visual space and are mapped back into the
// page's pre-rotation content-stream space.
//
// Font size travels in the position matrix's diagonal scale; the font
// select always uses size 1 so there is a single source of truth.
func (r *Reconstructor) Rebuild(op contentstream.Operation, kept []segment.Segment, rotation int, pageW, pageH float64) []contentstream.Operation {
	if op.Kind != contentstream.KindTextShow || op.Show == nil || len(kept) == 0 {
		return nil
	}

	fontName, fontSize := r.repairFont(op.Show)
	runes := []rune(op.Show.Text)

	ops := make([]contentstream.Operation, 0, 4+2*len(kept))
	ops = append(ops, contentstream.Operation{Kind: contentstream.KindGeneric, Operator: "BT"})
	ops = append(ops, contentstream.Operation{
		Kind:     contentstream.KindTextState,
		Operator: "Tf",
		Operands: []contentstream.Operand{
			contentstream.NameOperand{Value: fontName},
			contentstream.NumberOperand{Value: 1},
		},
	})
	ops = append(ops, stateOperators(op.Show.State)...)

	for _, seg := range kept {
		if seg.Start >= len(runes) {
			continue
		}
		end := seg.End
		if end > len(runes) {
			end = len(runes)
		}

		anchor := geom.VisualToContent(
			geom.Point{X: seg.Rect.LLX, Y: seg.Rect.LLY},
			rotation, pageW, pageH,
		)
		ops = append(ops, contentstream.Operation{
			Kind:     contentstream.KindTextState,
			Operator: "Tm",
			Operands: []contentstream.Operand{
				contentstream.NumberOperand{Value: fontSize},
				contentstream.NumberOperand{Value: 0},
				contentstream.NumberOperand{Value: 0},
				contentstream.NumberOperand{Value: fontSize},
				contentstream.NumberOperand{Value: anchor.X},
				contentstream.NumberOperand{Value: anchor.Y},
			},
		})
		ops = append(ops, r.showOperation(op.Show, seg, runes[seg.Start:end], fontName, fontSize))
	}

	ops = append(ops, contentstream.Operation{Kind: contentstream.KindGeneric, Operator: "ET"})
	return ops
}

// repairFont substitutes safe defaults for a missing name or an
// implausible size so the emitted operators stay parseable.
func (r *Reconstructor) repairFont(show *contentstream.ShowInfo) (string, float64) {
	name, size := show.FontName, show.FontSize
	if name == "" {
		r.log.Warn("text operation missing font name; substituting default",
			observability.String("font", fallbackFontName))
		name = fallbackFontName
	}
	if size <= 0 || size > maxPlausibleFontSize {
		r.log.Warn("text operation has implausible font size; substituting default",
			observability.Float64("size", size),
			observability.Float64("default", fallbackFontSize))
		size = fallbackFontSize
	}
	return name, size
}

// stateOperators emits only the text-state operators that differ from
// the format defaults, keeping the rewritten stream lean.
func stateOperators(ts contentstream.TextState) []contentstream.Operation {
	def := contentstream.DefaultTextState()
	var ops []contentstream.Operation
	stateOp := func(operator string, vals ...float64) {
		operands := make([]contentstream.Operand, len(vals))
		for i, v := range vals {
			operands[i] = contentstream.NumberOperand{Value: v}
		}
		ops = append(ops, contentstream.Operation{
			Kind:     contentstream.KindTextState,
			Operator: operator,
			Operands: operands,
		})
	}
	if ts.CharSpacing != def.CharSpacing {
		stateOp("Tc", ts.CharSpacing)
	}
	if ts.WordSpacing != def.WordSpacing {
		stateOp("Tw", ts.WordSpacing)
	}
	if ts.HorizontalScaling != def.HorizontalScaling && ts.HorizontalScaling != 0 {
		stateOp("Tz", ts.HorizontalScaling)
	}
	if ts.Leading != def.Leading {
		stateOp("TL", ts.Leading)
	}
	if ts.Rise != def.Rise {
		stateOp("Ts", ts.Rise)
	}
	if ts.RenderMode != def.RenderMode {
		stateOp("Tr", float64(ts.RenderMode))
	}
	return ops
}

// showOperation emits the segment's show-text operator. When the
// original bytes reached their glyphs through encoding indirection,
// the raw bytes are re-emitted as a hex operand; re-encoding the
// decoded string would select different glyphs.
func (r *Reconstructor) showOperation(show *contentstream.ShowInfo, seg segment.Segment, text []rune, fontName string, fontSize float64) contentstream.Operation {
	var operand contentstream.StringOperand
	if needsRawBytes(show, seg, text) {
		operand = contentstream.StringOperand{Value: rawBytes(show, seg, text), Hex: true}
	} else {
		operand = contentstream.StringOperand{Value: []byte(string(text))}
	}
	return contentstream.Operation{
		Kind:     contentstream.KindTextShow,
		Operator: "Tj",
		Operands: []contentstream.Operand{operand},
		Show: &contentstream.ShowInfo{
			Text:     string(text),
			FontName: fontName,
			FontSize: fontSize,
			State:    show.State,
			BBox:     seg.Rect,
		},
	}
}

// needsRawBytes decides whether the segment must be emitted from its
// original code bytes. True for CID-keyed fonts, for text decoded
// through a character-to-Unicode map, for glyphs that arrived as hex
// strings, and for CJK characters paired with implausibly low raw
// bytes (a sign of indirection the parser did not flag).
func needsRawBytes(show *contentstream.ShowInfo, seg segment.Segment, text []rune) bool {
	if show.UsesCMap {
		return true
	}
	for _, m := range seg.Matches {
		if m.Code.IsCID || m.Code.FromHex {
			return true
		}
	}
	for i, r := range text {
		idx := seg.Start + i
		if idx >= len(show.Glyphs) {
			break
		}
		if isCJK(r) && allLowBytes(show.Glyphs[idx].Raw) {
			return true
		}
	}
	return false
}

// rawBytes concatenates the original code bytes for the segment's
// character range from the instruction's own glyph breakdown.
func rawBytes(show *contentstream.ShowInfo, seg segment.Segment, text []rune) []byte {
	var out []byte
	for i := range text {
		idx := seg.Start + i
		if idx < len(show.Glyphs) && len(show.Glyphs[idx].Raw) > 0 {
			out = append(out, show.Glyphs[idx].Raw...)
			continue
		}
		// No breakdown entry; the decoded form is the only encoding
		// we have left.
		out = append(out, []byte(string(text[i]))...)
	}
	return out
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}

// allLowBytes reports whether every code byte sits below 0x40; a CJK
// character cannot come from such bytes without a mapping table.
func allLowBytes(raw []byte) bool {
	if len(raw) == 0 {
		return false
	}
	for _, b := range raw {
		if b >= 0x40 {
			return false
		}
	}
	return true
}
