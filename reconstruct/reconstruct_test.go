package reconstruct_test

import (
	"testing"

	"github.com/wudi/redactkit/contentstream"
	"github.com/wudi/redactkit/correlate"
	"github.com/wudi/redactkit/geom"
	"github.com/wudi/redactkit/observability"
	"github.com/wudi/redactkit/reconstruct"
	"github.com/wudi/redactkit/segment"
)

func showOp(text, fontName string, fontSize float64) contentstream.Operation {
	runes := []rune(text)
	codes := make([]contentstream.GlyphCode, len(runes))
	for i, r := range runes {
		codes[i] = contentstream.GlyphCode{Raw: []byte(string(r))}
	}
	return contentstream.Operation{
		Kind:     contentstream.KindTextShow,
		Operator: "Tj",
		Show: &contentstream.ShowInfo{
			Text:     text,
			Glyphs:   codes,
			FontName: fontName,
			FontSize: fontSize,
			State:    contentstream.DefaultTextState(),
		},
	}
}

func keepSeg(start, end int, rect geom.Rect) segment.Segment {
	return segment.Segment{Start: start, End: end, Keep: true, Rect: rect}
}

func operators(ops []contentstream.Operation) []string {
	var names []string
	for _, op := range ops {
		names = append(names, op.Operator)
	}
	return names
}

func TestRebuildStructure(t *testing.T) {
	op := showOp("HELLO WORLD", "F2", 10)
	kept := []segment.Segment{
		keepSeg(0, 5, geom.Rect{LLX: 100, LLY: 700, URX: 148, URY: 710}),
		keepSeg(6, 11, geom.Rect{LLX: 160, LLY: 700, URX: 208, URY: 710}),
	}

	out := reconstruct.New().Rebuild(op, kept, 0, 612, 792)
	want := []string{"BT", "Tf", "Tm", "Tj", "Tm", "Tj", "ET"}
	got := operators(out)
	if len(got) != len(want) {
		t.Fatalf("operators = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("operators = %v, want %v", got, want)
		}
	}

	// Font select carries size 1; the true size rides the position
	// matrix diagonal.
	tf := out[1]
	if name := tf.Operands[0].(contentstream.NameOperand).Value; name != "F2" {
		t.Errorf("Tf font = %q, want F2", name)
	}
	if size := contentstream.Number(tf.Operands[1]); size != 1 {
		t.Errorf("Tf size = %g, want 1", size)
	}
	tm := out[2]
	if a := contentstream.Number(tm.Operands[0]); a != 10 {
		t.Errorf("Tm diagonal = %g, want 10", a)
	}
	if d := contentstream.Number(tm.Operands[3]); d != 10 {
		t.Errorf("Tm diagonal = %g, want 10", d)
	}
	if x, y := contentstream.Number(tm.Operands[4]), contentstream.Number(tm.Operands[5]); x != 100 || y != 700 {
		t.Errorf("Tm position = (%g,%g), want (100,700)", x, y)
	}

	// First kept run shows "HELLO", second " WORLD" minus the removed
	// boundary: here [6,11) is "WORLD".
	if text := string(out[3].Operands[0].(contentstream.StringOperand).Value); text != "HELLO" {
		t.Errorf("first show = %q, want HELLO", text)
	}
	if text := string(out[5].Operands[0].(contentstream.StringOperand).Value); text != "WORLD" {
		t.Errorf("second show = %q, want WORLD", text)
	}
}

func TestRebuildEmptyKept(t *testing.T) {
	op := showOp("GONE", "F1", 12)
	if out := reconstruct.New().Rebuild(op, nil, 0, 612, 792); out != nil {
		t.Errorf("expected nil for no kept segments, got %v", operators(out))
	}
}

func TestRebuildNonDefaultState(t *testing.T) {
	op := showOp("SPACED", "F1", 12)
	op.Show.State.CharSpacing = 1.5
	op.Show.State.Rise = 3
	kept := []segment.Segment{keepSeg(0, 6, geom.Rect{LLX: 10, LLY: 10, URX: 70, URY: 22})}

	out := reconstruct.New().Rebuild(op, kept, 0, 612, 792)
	ops := operators(out)
	hasTc, hasTs, hasTw := false, false, false
	for _, o := range ops {
		switch o {
		case "Tc":
			hasTc = true
		case "Ts":
			hasTs = true
		case "Tw":
			hasTw = true
		}
	}
	if !hasTc || !hasTs {
		t.Errorf("non-default state operators missing: %v", ops)
	}
	if hasTw {
		t.Errorf("default word spacing must not be emitted: %v", ops)
	}
}

func TestRebuildRepairsFont(t *testing.T) {
	log := &observability.Capture{}
	op := showOp("UNFIT", "", -4)
	kept := []segment.Segment{keepSeg(0, 5, geom.Rect{LLX: 10, LLY: 10, URX: 60, URY: 22})}

	out := reconstruct.New(reconstruct.WithLogger(log)).Rebuild(op, kept, 0, 612, 792)
	tf := out[1]
	if name := tf.Operands[0].(contentstream.NameOperand).Value; name != "F1" {
		t.Errorf("repaired font name = %q, want F1", name)
	}
	tm := out[2]
	if size := contentstream.Number(tm.Operands[0]); size != 12 {
		t.Errorf("repaired size = %g, want 12", size)
	}
	warned := 0
	for _, e := range log.Events {
		if e.Level == "warn" {
			warned++
		}
	}
	if warned != 2 {
		t.Errorf("expected 2 warnings (name and size), got %d", warned)
	}
}

func TestRebuildRotationInverse(t *testing.T) {
	// Page rotated 90 degrees, 612x792 points: a kept segment at
	// visual (100,200) must land at the rotation-inverse position.
	op := showOp("ROT", "F1", 12)
	kept := []segment.Segment{keepSeg(0, 3, geom.Rect{LLX: 100, LLY: 200, URX: 130, URY: 212})}

	out := reconstruct.New().Rebuild(op, kept, 90, 612, 792)
	tm := out[2]
	x, y := contentstream.Number(tm.Operands[4]), contentstream.Number(tm.Operands[5])
	want := geom.VisualToContent(geom.Point{X: 100, Y: 200}, 90, 612, 792)
	if x != want.X || y != want.Y {
		t.Errorf("Tm position = (%g,%g), want (%g,%g)", x, y, want.X, want.Y)
	}
	if x == 100 && y == 200 {
		t.Error("raw visual coordinates must not be emitted on a rotated page")
	}
}

func TestRebuildCIDHexEncoding(t *testing.T) {
	// Raw bytes 00 04 decode to one CJK character; the kept run must
	// re-emit the original bytes hex-encoded, not a Unicode string.
	op := contentstream.Operation{
		Kind:     contentstream.KindTextShow,
		Operator: "Tj",
		Show: &contentstream.ShowInfo{
			Text: "三A",
			Glyphs: []contentstream.GlyphCode{
				{Raw: []byte{0x00, 0x04}, CID: 4, IsCID: true, FromHex: true},
				{Raw: []byte{0x00, 0x41}, CID: 65, IsCID: true, FromHex: true},
			},
			FontName: "F3",
			FontSize: 10,
			State:    contentstream.DefaultTextState(),
		},
	}
	kept := []segment.Segment{{
		Start: 0, End: 1, Keep: true,
		Rect: geom.Rect{LLX: 50, LLY: 50, URX: 60, URY: 62},
		Matches: []correlate.LetterMatch{{
			CharIndex: 0,
			Code:      op.Show.Glyphs[0],
		}},
	}}

	out := reconstruct.New().Rebuild(op, kept, 0, 612, 792)
	show := out[3]
	str, ok := show.Operands[0].(contentstream.StringOperand)
	if !ok {
		t.Fatal("show operand is not a string")
	}
	if !str.Hex {
		t.Error("CID segment must be hex-encoded")
	}
	if len(str.Value) != 2 || str.Value[0] != 0x00 || str.Value[1] != 0x04 {
		t.Errorf("hex payload = % x, want 00 04", str.Value)
	}
}

func TestRebuildCJKLowByteHeuristic(t *testing.T) {
	// Parser flagged nothing, but a CJK rune paired with all-low raw
	// bytes implies a mapping table; raw bytes must win.
	op := contentstream.Operation{
		Kind:     contentstream.KindTextShow,
		Operator: "Tj",
		Show: &contentstream.ShowInfo{
			Text: "漢",
			Glyphs: []contentstream.GlyphCode{
				{Raw: []byte{0x01, 0x02}},
			},
			FontName: "F1",
			FontSize: 12,
			State:    contentstream.DefaultTextState(),
		},
	}
	kept := []segment.Segment{keepSeg(0, 1, geom.Rect{LLX: 10, LLY: 10, URX: 22, URY: 22})}

	out := reconstruct.New().Rebuild(op, kept, 0, 612, 792)
	str := out[3].Operands[0].(contentstream.StringOperand)
	if !str.Hex {
		t.Error("low-byte CJK segment must be hex-encoded")
	}
}

func TestRebuildPlainTextStaysLiteral(t *testing.T) {
	op := showOp("plain", "F1", 12)
	kept := []segment.Segment{keepSeg(0, 5, geom.Rect{LLX: 10, LLY: 10, URX: 60, URY: 22})}

	out := reconstruct.New().Rebuild(op, kept, 0, 612, 792)
	str := out[3].Operands[0].(contentstream.StringOperand)
	if str.Hex {
		t.Error("plain latin text must stay a literal string")
	}
	if string(str.Value) != "plain" {
		t.Errorf("show = %q, want %q", str.Value, "plain")
	}
}
