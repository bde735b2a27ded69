package segment_test

import (
	"testing"

	"github.com/wudi/redactkit/contentstream"
	"github.com/wudi/redactkit/correlate"
	"github.com/wudi/redactkit/geom"
	"github.com/wudi/redactkit/layout"
	"github.com/wudi/redactkit/segment"
)

func showOp(text string, bbox geom.Rect) contentstream.Operation {
	return contentstream.Operation{
		Kind:     contentstream.KindTextShow,
		Operator: "Tj",
		Show: &contentstream.ShowInfo{
			Text:  text,
			State: contentstream.DefaultTextState(),
			BBox:  bbox,
		},
	}
}

// matchLine builds one LetterMatch per rune, glyph boxes 8 points
// wide on a 10-point stride at (x, y).
func matchLine(text string, x, y float64) []correlate.LetterMatch {
	var ms []correlate.LetterMatch
	for i, r := range []rune(text) {
		gx := x + float64(i)*10
		ms = append(ms, correlate.LetterMatch{
			CharIndex: i,
			Glyph: layout.Glyph{
				Value:   string(r),
				Rect:    geom.Rect{LLX: gx, LLY: y, URX: gx + 8, URY: y + 10},
				Ordinal: i,
			},
		})
	}
	return ms
}

// checkPartition asserts the segments cover [0, textLen) exactly once.
func checkPartition(t *testing.T, segs []segment.Segment, textLen int) {
	t.Helper()
	next := 0
	for _, s := range segs {
		if s.Start != next {
			t.Fatalf("segment starts at %d, want %d (gap or overlap)", s.Start, next)
		}
		if s.End <= s.Start {
			t.Fatalf("empty or inverted segment %+v", s)
		}
		next = s.End
	}
	if next != textLen {
		t.Fatalf("segments cover [0,%d), want [0,%d)", next, textLen)
	}
}

func TestAllOutsideSingleKeepSegment(t *testing.T) {
	text := "UNTOUCHED"
	matches := matchLine(text, 100, 700)
	rect := geom.Rect{LLX: 0, LLY: 0, URX: 50, URY: 50}

	segs := segment.New().Split(showOp(text, geom.Rect{}), matches, rect)
	checkPartition(t, segs, len(text))
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	s := segs[0]
	if !s.Keep || s.Overlap != segment.OverlapNone {
		t.Errorf("segment = %+v, want keep/none", s)
	}
	if s.Start != 0 || s.End != len(text) {
		t.Errorf("segment range [%d,%d), want [0,%d)", s.Start, s.End, len(text))
	}
}

func TestAllInsideNoKeepSegments(t *testing.T) {
	text := "CONFIDENTIAL"
	matches := matchLine(text, 100, 700)
	rect := geom.Rect{LLX: 90, LLY: 690, URX: 300, URY: 720}

	segs := segment.New().Split(showOp(text, geom.Rect{}), matches, rect)
	checkPartition(t, segs, len(text))
	if kept := segment.Kept(segs); len(kept) != 0 {
		t.Fatalf("expected 0 keep segments, got %d", len(kept))
	}
	if !segment.AnyRemoved(segs) {
		t.Error("AnyRemoved should be true")
	}
}

func TestPrefixRemoval(t *testing.T) {
	// "SECRET DATA": rectangle covers the first six glyph centers.
	text := "SECRET DATA"
	matches := matchLine(text, 100, 700) // centers at 104,114,...,204
	rect := geom.Rect{LLX: 100, LLY: 690, URX: 158, URY: 720}

	segs := segment.New().Split(showOp(text, geom.Rect{}), matches, rect)
	checkPartition(t, segs, len(text))
	if len(segs) != 2 {
		t.Fatalf("expected 2 runs, got %d: %+v", len(segs), segs)
	}
	if segs[0].Keep {
		t.Error("first run should be removed")
	}
	if segs[0].Len() != 6 {
		t.Errorf("removed run length = %d, want 6", segs[0].Len())
	}
	kept := segment.Kept(segs)
	if len(kept) != 1 {
		t.Fatalf("expected 1 keep segment, got %d", len(kept))
	}
	if got := text[kept[0].Start:kept[0].End]; got != " DATA" {
		t.Errorf("kept text = %q, want %q", got, " DATA")
	}
}

func TestCenterPointBoundaryRule(t *testing.T) {
	// One glyph box [100,108]; rectangle reaches to x=102: it overlaps
	// the glyph but not its center at 104, so the glyph stays whole.
	matches := matchLine("X", 100, 700)
	rect := geom.Rect{LLX: 0, LLY: 690, URX: 102, URY: 720}

	segs := segment.New().Split(showOp("X", geom.Rect{}), matches, rect)
	if len(segs) != 1 || !segs[0].Keep {
		t.Fatalf("straddled glyph with outside center must be kept: %+v", segs)
	}
	if segs[0].Overlap != segment.OverlapPartial {
		t.Errorf("overlap = %v, want partial", segs[0].Overlap)
	}

	// Extend the rectangle past the center: now it must go, in full.
	rect.URX = 105
	segs = segment.New().Split(showOp("X", geom.Rect{}), matches, rect)
	if len(segs) != 1 || segs[0].Keep {
		t.Fatalf("glyph with covered center must be removed: %+v", segs)
	}
}

func TestFallbackWholeInstruction(t *testing.T) {
	bbox := geom.Rect{LLX: 100, LLY: 700, URX: 200, URY: 712}
	op := showOp("NO MATCHES", bbox)

	// Intersecting bounding box: everything removed.
	segs := segment.New().Split(op, nil, geom.Rect{LLX: 150, LLY: 705, URX: 160, URY: 710})
	checkPartition(t, segs, 10)
	if len(segs) != 1 || segs[0].Keep {
		t.Fatalf("expected single remove segment, got %+v", segs)
	}

	// Disjoint bounding box: everything kept as one segment.
	segs = segment.New().Split(op, nil, geom.Rect{LLX: 400, LLY: 400, URX: 500, URY: 500})
	checkPartition(t, segs, 10)
	if len(segs) != 1 || !segs[0].Keep {
		t.Fatalf("expected single keep segment, got %+v", segs)
	}
}

func TestUnmappedCharactersKept(t *testing.T) {
	// Only the first three characters have matches; the redaction
	// rectangle covers all matched glyphs. The unmapped tail must
	// survive: unmapped content is never deleted speculatively.
	text := "ABC___"
	matches := matchLine("ABC", 100, 700)
	rect := geom.Rect{LLX: 90, LLY: 690, URX: 200, URY: 720}

	segs := segment.New().Split(showOp(text, geom.Rect{}), matches, rect)
	checkPartition(t, segs, len(text))
	kept := segment.Kept(segs)
	if len(kept) != 1 {
		t.Fatalf("expected 1 keep segment for unmapped tail, got %d", len(kept))
	}
	if kept[0].Start != 3 || kept[0].End != 6 {
		t.Errorf("kept range [%d,%d), want [3,6)", kept[0].Start, kept[0].End)
	}
	// The tail hangs off the last matched glyph, placeholder width per
	// character, not at the origin.
	want := geom.Rect{LLX: 128, LLY: 700, URX: 140, URY: 710}
	if kept[0].Rect != want {
		t.Errorf("kept rect = %+v, want %+v", kept[0].Rect, want)
	}
}

func TestUnmappedRunAnchorsToPrecedingGlyph(t *testing.T) {
	// Form line whose layout reports fewer fill glyphs than the
	// instruction drew: the label is matched and redacted, the unmapped
	// fill run survives and must keep the label's position.
	text := "Name:______"
	matches := matchLine("Name:", 100, 700)
	rect := geom.Rect{LLX: 90, LLY: 690, URX: 148, URY: 720}

	segs := segment.New().Split(showOp(text, geom.Rect{}), matches, rect)
	checkPartition(t, segs, len(text))
	kept := segment.Kept(segs)
	if len(kept) != 1 {
		t.Fatalf("expected 1 keep segment, got %d", len(kept))
	}
	if kept[0].Start != 5 || kept[0].End != 11 {
		t.Errorf("kept range [%d,%d), want [5,11)", kept[0].Start, kept[0].End)
	}
	want := geom.Rect{LLX: 148, LLY: 700, URX: 172, URY: 710}
	if kept[0].Rect != want {
		t.Errorf("kept rect = %+v, want %+v", kept[0].Rect, want)
	}
}

func TestUnmappedPrefixAnchorsToFollowingGlyph(t *testing.T) {
	text := "__AB"
	matches := matchLine("AB", 120, 700)
	for i := range matches {
		matches[i].CharIndex += 2
	}
	rect := geom.Rect{LLX: 400, LLY: 400, URX: 500, URY: 500}

	segs := segment.New().Split(showOp(text, geom.Rect{}), matches, rect)
	checkPartition(t, segs, len(text))
	if len(segs) != 1 || !segs[0].Keep {
		t.Fatalf("expected 1 keep segment, got %+v", segs)
	}
	// Prefix chained off the first matched glyph's left edge.
	want := geom.Rect{LLX: 112, LLY: 700, URX: 138, URY: 710}
	if segs[0].Rect != want {
		t.Errorf("segment rect = %+v, want %+v", segs[0].Rect, want)
	}
}

func TestMergeAccumulatesGeometry(t *testing.T) {
	text := "WIDE"
	matches := matchLine(text, 100, 700)
	rect := geom.Rect{LLX: 0, LLY: 0, URX: 10, URY: 10}

	segs := segment.New().Split(showOp(text, geom.Rect{}), matches, rect)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	want := geom.Rect{LLX: 100, LLY: 700, URX: 138, URY: 710}
	if segs[0].Rect != want {
		t.Errorf("aggregated rect = %+v, want %+v", segs[0].Rect, want)
	}
	if len(segs[0].Matches) != 4 {
		t.Errorf("segment carries %d matches, want 4", len(segs[0].Matches))
	}
}
