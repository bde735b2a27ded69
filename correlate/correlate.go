// Package correlate maps the characters of a text-showing operation to
// ground-truth glyphs from the page layout. Positions parsed from the
// content stream and positions reported by the glyph oracle disagree
// under page rotation and encoding indirection, so correlation works
// on text content first and uses geometry only to rank candidates.
package correlate

import (
	"errors"
	"fmt"

	"github.com/wudi/redactkit/contentstream"
	"github.com/wudi/redactkit/geom"
	"github.com/wudi/redactkit/layout"
	"github.com/wudi/redactkit/observability"
)

// ErrAmbiguousMatch is returned in strict mode when two equally
// coherent glyph clusters could host the instruction's text.
var ErrAmbiguousMatch = errors.New("ambiguous glyph correlation")

// coherenceEpsilon is the score distance under which two candidates
// count as equally coherent.
const coherenceEpsilon = 1e-6

// LetterMatch associates one character of a text-showing operation
// with one ground-truth glyph.
type LetterMatch struct {
	// CharIndex is the character's index within the operation's text.
	CharIndex int
	// Glyph is the matched ground-truth glyph.
	Glyph layout.Glyph
	// Code is the encoding metadata copied from the operation's own
	// glyph breakdown at the same index. Re-encoding needs it no
	// matter where the position came from.
	Code contentstream.GlyphCode
}

// Correlator finds the glyph cluster backing a text-showing operation.
type Correlator struct {
	matchers []Matcher
	log      observability.Logger
	strict   bool
}

// Option configures a Correlator.
type Option func(*Correlator)

// WithLogger sets the diagnostics logger.
func WithLogger(l observability.Logger) Option {
	return func(c *Correlator) { c.log = l }
}

// WithMatchers replaces the default strategy chain.
func WithMatchers(ms ...Matcher) Option {
	return func(c *Correlator) { c.matchers = ms }
}

// WithAmbiguityErrors makes Match fail with ErrAmbiguousMatch instead
// of picking the first of equally coherent candidates.
func WithAmbiguityErrors() Option {
	return func(c *Correlator) { c.strict = true }
}

// New creates a Correlator with the default strategy chain: exact,
// case-folded, then both retried with fill-run truncation.
func New(opts ...Option) *Correlator {
	c := &Correlator{
		matchers: []Matcher{
			ExactMatcher{},
			FoldedMatcher{},
			FillRunMatcher{Inner: ExactMatcher{}},
			FillRunMatcher{Inner: FoldedMatcher{}},
		},
		log: observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Match maps the operation's characters to glyphs. An empty result
// with a nil error means no confident match; the caller falls back to
// a whole-instruction bounding-box test. Empty instruction text also
// yields an empty result.
func (c *Correlator) Match(op contentstream.Operation, glyphs []layout.Glyph) ([]LetterMatch, error) {
	if op.Kind != contentstream.KindTextShow || op.Show == nil {
		return nil, nil
	}
	needle := []rune(op.Show.Text)
	if len(needle) == 0 || len(glyphs) == 0 {
		return nil, nil
	}

	haystack, owner := buildHaystack(glyphs)

	for _, m := range c.matchers {
		cands := m.Locate(needle, haystack)
		if len(cands) == 0 {
			continue
		}
		best, tied := pickCoherent(cands, owner, glyphs, op.Show.BBox)
		if tied {
			if c.strict {
				return nil, fmt.Errorf("%w: %q has %d equally coherent placements",
					ErrAmbiguousMatch, op.Show.Text, len(cands))
			}
			c.log.Warn("equally coherent glyph clusters; using first occurrence",
				observability.String("text", op.Show.Text),
				observability.String("strategy", m.Name()))
		}
		return buildMatches(op.Show, best, owner, glyphs), nil
	}

	c.log.Info("no glyph correlation for instruction; bounding-box fallback applies",
		observability.String("text", op.Show.Text),
		observability.Int("glyphs", len(glyphs)))
	return nil, nil
}

// buildHaystack concatenates glyph values in reading order. owner maps
// each haystack rune back to the index of the glyph that produced it,
// so multi-rune glyph values stay addressable.
func buildHaystack(glyphs []layout.Glyph) (haystack []rune, owner []int) {
	for gi, g := range glyphs {
		for _, r := range g.Value {
			haystack = append(haystack, r)
			owner = append(owner, gi)
		}
	}
	return haystack, owner
}

// pickCoherent ranks candidates by cluster spread, preferring the
// tightest single-line cluster. Score is (x-spread + y-spread) plus a
// 10x penalty on y-spread; vertical scatter means the candidate spans
// lines and is almost never the drawn instruction. Equally coherent
// survivors, the same text drawn twice on a page, are disambiguated by
// proximity to the instruction's own bounding box when it carries one;
// only when that fails too does the result count as tied.
func pickCoherent(cands []Candidate, owner []int, glyphs []layout.Glyph, ref geom.Rect) (Candidate, bool) {
	best := cands[0]
	bestScore := clusterScore(cands[0], owner, glyphs)
	finalists := []Candidate{best}
	for _, cand := range cands[1:] {
		score := clusterScore(cand, owner, glyphs)
		switch {
		case score < bestScore-coherenceEpsilon:
			best, bestScore = cand, score
			finalists = finalists[:0]
			finalists = append(finalists, cand)
		case score < bestScore+coherenceEpsilon:
			finalists = append(finalists, cand)
		}
	}
	if len(finalists) == 1 {
		return best, false
	}
	if ref.IsZero() {
		return finalists[0], true
	}

	refCenter := ref.Center()
	nearest := finalists[0]
	nearestDist := centerDistance(clusterRect(finalists[0], owner, glyphs).Center(), refCenter)
	tied := false
	for _, cand := range finalists[1:] {
		dist := centerDistance(clusterRect(cand, owner, glyphs).Center(), refCenter)
		switch {
		case dist < nearestDist-coherenceEpsilon:
			nearest, nearestDist, tied = cand, dist, false
		case dist < nearestDist+coherenceEpsilon:
			tied = true
		}
	}
	return nearest, tied
}

func clusterScore(cand Candidate, owner []int, glyphs []layout.Glyph) float64 {
	r := clusterRect(cand, owner, glyphs)
	return (r.Width() + r.Height()) + 10*r.Height()
}

// clusterRect bounds the centers of the candidate's glyphs.
func clusterRect(cand Candidate, owner []int, glyphs []layout.Glyph) geom.Rect {
	var r geom.Rect
	for i := 0; i < cand.Length && cand.Offset+i < len(owner); i++ {
		center := glyphs[owner[cand.Offset+i]].Rect.Center()
		if i == 0 {
			r = geom.Rect{LLX: center.X, LLY: center.Y, URX: center.X, URY: center.Y}
			continue
		}
		if center.X < r.LLX {
			r.LLX = center.X
		}
		if center.X > r.URX {
			r.URX = center.X
		}
		if center.Y < r.LLY {
			r.LLY = center.Y
		}
		if center.Y > r.URY {
			r.URY = center.Y
		}
	}
	return r
}

func centerDistance(a, b geom.Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// buildMatches maps characters 0..Length-1 to glyphs at the chosen
// offset, truncating when fewer glyphs remain than characters.
func buildMatches(show *contentstream.ShowInfo, cand Candidate, owner []int, glyphs []layout.Glyph) []LetterMatch {
	matches := make([]LetterMatch, 0, cand.Length)
	for i := 0; i < cand.Length; i++ {
		pos := cand.Offset + i
		if pos >= len(owner) {
			break
		}
		m := LetterMatch{CharIndex: i, Glyph: glyphs[owner[pos]]}
		if i < len(show.Glyphs) {
			m.Code = show.Glyphs[i]
		}
		matches = append(matches, m)
	}
	return matches
}
