package correlate

import "golang.org/x/text/cases"

// Candidate is one possible placement of an instruction's text inside
// the page haystack. Length may be shorter than the instruction text
// when a strategy matched a truncated form.
type Candidate struct {
	Offset int
	Length int
}

// Matcher locates a needle inside the concatenated page text. The
// heuristic strategies are approximations; each is swappable without
// touching the orchestrator.
type Matcher interface {
	Name() string
	Locate(needle, haystack []rune) []Candidate
}

// ExactMatcher finds verbatim occurrences.
type ExactMatcher struct{}

func (ExactMatcher) Name() string { return "exact" }

// Locate scans every offset. Worst case O(len(haystack)*len(needle));
// pages with pathologically long repeated text pay for it here.
func (ExactMatcher) Locate(needle, haystack []rune) []Candidate {
	return scan(needle, haystack)
}

// FoldedMatcher finds occurrences under Unicode case folding.
type FoldedMatcher struct{}

func (FoldedMatcher) Name() string { return "case-folded" }

func (FoldedMatcher) Locate(needle, haystack []rune) []Candidate {
	return scan(foldRunes(needle), foldRunes(haystack))
}

// FillRunMatcher retries an inner strategy with the needle truncated
// before a run of 3 or more fill characters ('_' or '-'), the typical
// shape of form blanks. Array-form show operators drift in fill-glyph
// count under kerning, so the tail is unreliable for matching.
type FillRunMatcher struct {
	Inner Matcher
}

func (m FillRunMatcher) Name() string { return "fill-run/" + m.Inner.Name() }

func (m FillRunMatcher) Locate(needle, haystack []rune) []Candidate {
	cut := fillRunStart(needle)
	if cut <= 0 {
		return nil
	}
	return m.Inner.Locate(needle[:cut], haystack)
}

func scan(needle, haystack []rune) []Candidate {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return nil
	}
	var found []Candidate
	for off := 0; off+len(needle) <= len(haystack); off++ {
		hit := true
		for i, r := range needle {
			if haystack[off+i] != r {
				hit = false
				break
			}
		}
		if hit {
			found = append(found, Candidate{Offset: off, Length: len(needle)})
		}
	}
	return found
}

// foldRunes case-folds rune by rune so indices stay aligned with the
// unfolded input. Multi-rune expansions (ß → ss) keep only their first
// rune, a deliberate trade of accuracy for positional stability.
func foldRunes(rs []rune) []rune {
	caser := cases.Fold()
	out := make([]rune, len(rs))
	for i, r := range rs {
		folded := []rune(caser.String(string(r)))
		if len(folded) > 0 {
			out[i] = folded[0]
		} else {
			out[i] = r
		}
	}
	return out
}

// fillRunStart returns the index of the first run of 3+ consecutive
// fill characters, or -1.
func fillRunStart(rs []rune) int {
	run := 0
	for i, r := range rs {
		if r == '_' || r == '-' {
			run++
			if run == 3 {
				return i - 2
			}
			continue
		}
		run = 0
	}
	return -1
}
