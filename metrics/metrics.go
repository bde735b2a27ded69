// Package metrics measures text against an embedded font program.
// The engine uses it to repair degenerate bounding-box estimates on
// text-showing operations when the parser had no width information.
package metrics

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// TextWidth shapes text against the given font program (TTF/OTF bytes)
// and returns the total advance width in 1/1000 em units. Multiply by
// fontSize/1000 for a width in points.
func TextWidth(program []byte, text string) (float64, error) {
	if len(program) == 0 {
		return 0, fmt.Errorf("empty font program")
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return 0, nil
	}

	face, err := gofont.ParseTTF(bytes.NewReader(program))
	if err != nil {
		return 0, fmt.Errorf("parse font program: %w", err)
	}

	// Shape at size 1000 so advances come out in 1/1000 em units.
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      face,
		Size:      fixed.Int26_6(1000 * 64),
		Script:    DominantScript(runes),
		Language:  language.DefaultLanguage(),
	}
	output := (&shaping.HarfbuzzShaper{}).Shape(input)

	total := 0.0
	for _, g := range output.Glyphs {
		total += float64(g.XAdvance) / 64.0
	}
	return total, nil
}

// DominantScript returns the script covering the most runes of the
// input, defaulting to Latin for neutral text.
func DominantScript(runes []rune) language.Script {
	counts := make(map[language.Script]int)
	best := language.Latin
	bestCount := 0
	for _, r := range runes {
		s := scriptFromRune(r)
		if s == language.Unknown {
			continue
		}
		counts[s]++
		if counts[s] > bestCount {
			best, bestCount = s, counts[s]
		}
	}
	return best
}

func scriptFromRune(r rune) language.Script {
	switch {
	case r >= 0x0041 && r <= 0x024F:
		return language.Latin
	case r >= 0x0370 && r <= 0x03FF:
		return language.Greek
	case r >= 0x0400 && r <= 0x04FF:
		return language.Cyrillic
	case r >= 0x0590 && r <= 0x05FF:
		return language.Hebrew
	case r >= 0x0600 && r <= 0x06FF:
		return language.Arabic
	case r >= 0x3040 && r <= 0x309F:
		return language.Hiragana
	case r >= 0x30A0 && r <= 0x30FF:
		return language.Katakana
	case (r >= 0x4E00 && r <= 0x9FFF) || (r >= 0x3400 && r <= 0x4DBF):
		return language.Han
	case r >= 0xAC00 && r <= 0xD7AF:
		return language.Hangul
	default:
		return language.Unknown
	}
}
