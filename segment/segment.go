// Package segment partitions a text-showing operation's characters
// into keep/remove runs against the redaction rectangle.
package segment

import (
	"github.com/wudi/redactkit/contentstream"
	"github.com/wudi/redactkit/correlate"
	"github.com/wudi/redactkit/geom"
	"github.com/wudi/redactkit/observability"
)

// Overlap classifies how a run's glyphs relate to the redaction
// rectangle. Full and partial both remove; partial additionally flags
// the run for an optional downstream image-preservation path.
type Overlap int

const (
	OverlapNone Overlap = iota
	OverlapPartial
	OverlapFull
)

func (o Overlap) String() string {
	switch o {
	case OverlapPartial:
		return "partial"
	case OverlapFull:
		return "full"
	default:
		return "none"
	}
}

// Segment is a contiguous character run sharing one keep/overlap
// decision. Start/End is a half-open range over the operation's
// characters. Rect aggregates the run's glyph geometry in visual
// space.
type Segment struct {
	Start, End int
	Keep       bool
	Overlap    Overlap
	Rect       geom.Rect
	Matches    []correlate.LetterMatch
}

// Len returns the number of characters in the run.
func (s Segment) Len() int { return s.End - s.Start }

// placeholderWidth is the width credited to characters with no glyph
// match (for example trailing fill glyphs dropped by truncation).
const placeholderWidth = 4.0

// Segmenter applies the center-point rule per character and merges
// adjacent identical decisions.
type Segmenter struct {
	log         observability.Logger
	placeholder float64
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithLogger sets the diagnostics logger.
func WithLogger(l observability.Logger) Option {
	return func(s *Segmenter) { s.log = l }
}

// WithPlaceholderWidth overrides the width credited to unmapped
// characters.
func WithPlaceholderWidth(w float64) Option {
	return func(s *Segmenter) {
		if w > 0 {
			s.placeholder = w
		}
	}
}

// New creates a Segmenter.
func New(opts ...Option) *Segmenter {
	s := &Segmenter{log: observability.NopLogger{}, placeholder: placeholderWidth}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Split partitions the operation's characters into runs. The returned
// segments cover [0, len(text)) exactly once, in order, with no gaps.
// Callers wanting only surviving content filter with Kept.
//
// With no letter matches the decision degrades to one whole-instruction
// test: if the operation's bounding-box estimate intersects the
// rectangle everything is removed, otherwise everything is kept.
func (s *Segmenter) Split(op contentstream.Operation, matches []correlate.LetterMatch, rect geom.Rect) []Segment {
	if op.Kind != contentstream.KindTextShow || op.Show == nil {
		return nil
	}
	textLen := len([]rune(op.Show.Text))
	if textLen == 0 {
		return nil
	}

	if len(matches) == 0 {
		if op.Show.BBox.Intersects(rect) {
			s.log.Info("no letter matches; removing whole instruction by bounding box",
				observability.String("text", op.Show.Text))
			return []Segment{{Start: 0, End: textLen, Keep: false, Overlap: OverlapFull, Rect: op.Show.BBox}}
		}
		return []Segment{{Start: 0, End: textLen, Keep: true, Overlap: OverlapNone, Rect: op.Show.BBox}}
	}

	byIndex := make(map[int]correlate.LetterMatch, len(matches))
	for _, m := range matches {
		byIndex[m.CharIndex] = m
	}
	rects := s.characterRects(op.Show, byIndex, textLen)

	var segs []Segment
	for i := 0; i < textLen; i++ {
		m, mapped := byIndex[i]
		keep, overlap := true, OverlapNone
		if mapped {
			keep, overlap = s.decide(m.Glyph.Rect, rect)
		}

		if n := len(segs); n > 0 && segs[n-1].Keep == keep && segs[n-1].Overlap == overlap {
			cur := &segs[n-1]
			cur.End = i + 1
			cur.Rect = cur.Rect.Union(rects[i])
			if mapped {
				cur.Matches = append(cur.Matches, m)
			}
			continue
		}

		seg := Segment{Start: i, End: i + 1, Keep: keep, Overlap: overlap, Rect: rects[i]}
		if mapped {
			seg.Matches = []correlate.LetterMatch{m}
		}
		segs = append(segs, seg)
	}
	return segs
}

// characterRects assigns geometry to every character index. Matched
// characters carry their glyph rectangle; unmapped characters get a
// placeholder-width box chained off the nearest matched neighbor so a
// surviving unmapped run keeps its place on the page instead of
// collapsing to the origin. With no neighbor in either direction the
// position is prorated from the instruction's own bounding box.
func (s *Segmenter) characterRects(show *contentstream.ShowInfo, byIndex map[int]correlate.LetterMatch, textLen int) []geom.Rect {
	rects := make([]geom.Rect, textLen)
	have := make([]bool, textLen)
	for i := 0; i < textLen; i++ {
		if m, ok := byIndex[i]; ok {
			rects[i], have[i] = m.Glyph.Rect, true
		}
	}
	for i := 1; i < textLen; i++ {
		if !have[i] && have[i-1] {
			r := rects[i-1]
			rects[i] = geom.Rect{LLX: r.URX, LLY: r.LLY, URX: r.URX + s.placeholder, URY: r.URY}
			have[i] = true
		}
	}
	for i := textLen - 2; i >= 0; i-- {
		if !have[i] && have[i+1] {
			r := rects[i+1]
			rects[i] = geom.Rect{LLX: r.LLX - s.placeholder, LLY: r.LLY, URX: r.LLX, URY: r.URY}
			have[i] = true
		}
	}
	for i := 0; i < textLen; i++ {
		if have[i] {
			continue
		}
		if show.BBox.Width() > 0 {
			x := show.BBox.LLX + show.BBox.Width()*float64(i)/float64(textLen)
			rects[i] = geom.Rect{LLX: x, LLY: show.BBox.LLY, URX: x + s.placeholder, URY: show.BBox.URY}
		} else {
			rects[i] = geom.Rect{URX: s.placeholder}
		}
	}
	return rects
}

// decide applies the center-point rule to one matched glyph. A glyph
// straddling the rectangle boundary is kept or removed whole, never
// split.
func (s *Segmenter) decide(glyphRect, rect geom.Rect) (bool, Overlap) {
	keep := !rect.ContainsPoint(glyphRect.Center())
	switch {
	case !rect.Intersects(glyphRect):
		return keep, OverlapNone
	case rect.ContainsRect(glyphRect):
		return keep, OverlapFull
	default:
		return keep, OverlapPartial
	}
}

// Kept filters to the surviving runs.
func Kept(segs []Segment) []Segment {
	var out []Segment
	for _, s := range segs {
		if s.Keep {
			out = append(out, s)
		}
	}
	return out
}

// AnyRemoved reports whether any run is slated for removal.
func AnyRemoved(segs []Segment) bool {
	for _, s := range segs {
		if !s.Keep {
			return true
		}
	}
	return false
}
