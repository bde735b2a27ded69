//go:build ocr

// OCR-backed glyph source. Wraps the Tesseract engine via gosseract to
// recover per-symbol bounding boxes from rasterized pages. Requires
// Tesseract to be installed and the "ocr" build tag:
//
//	go build -tags ocr
package layout

import (
	"errors"
	"fmt"
	"sort"

	"github.com/otiai10/gosseract/v2"

	"github.com/wudi/redactkit/geom"
)

// ErrOCRNotEnabled mirrors the stub build's sentinel so callers can
// reference it regardless of build tags. It is never returned when OCR
// support is compiled in.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// TesseractSource produces ground-truth glyphs from page raster images.
// It is not safe for concurrent use; create one per goroutine.
type TesseractSource struct {
	client *gosseract.Client
	dpi    float64
	pageH  float64
	images map[int][]byte
}

// TesseractOption configures a TesseractSource.
type TesseractOption func(*TesseractSource)

// WithDPI sets the raster resolution used to convert pixel boxes to
// page points. Default is 72 (1 pixel = 1 point).
func WithDPI(dpi float64) TesseractOption {
	return func(s *TesseractSource) {
		if dpi > 0 {
			s.dpi = dpi
		}
	}
}

// NewTesseractSource creates an OCR glyph source for a page of the
// given height in points. pages maps page index to an encoded raster
// image (PNG, JPEG or TIFF). Close the source to release Tesseract
// resources.
func NewTesseractSource(pageHeight float64, pages map[int][]byte, opts ...TesseractOption) (*TesseractSource, error) {
	s := &TesseractSource{
		client: gosseract.NewClient(),
		dpi:    72,
		pageH:  pageHeight,
		images: pages,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SetLanguage forwards language hints to Tesseract, e.g. "eng+deu".
func (s *TesseractSource) SetLanguage(lang string) error {
	return s.client.SetLanguage(lang)
}

// Close releases the underlying Tesseract client.
func (s *TesseractSource) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// Glyphs runs symbol-level recognition on the page image and converts
// the pixel boxes to visual page space. OCR rasters use a top-left
// origin; page space uses bottom-left.
func (s *TesseractSource) Glyphs(pageIndex int) ([]Glyph, error) {
	img, ok := s.images[pageIndex]
	if !ok {
		return nil, fmt.Errorf("no raster image for page %d", pageIndex)
	}
	if err := s.client.SetImageFromBytes(img); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	boxes, err := s.client.GetBoundingBoxes(gosseract.RIL_SYMBOL)
	if err != nil {
		return nil, fmt.Errorf("symbol boxes: %w", err)
	}

	scale := 72 / s.dpi
	glyphs := make([]Glyph, 0, len(boxes))
	for _, b := range boxes {
		if b.Word == "" {
			continue
		}
		r := geom.Rect{
			LLX: float64(b.Box.Min.X) * scale,
			LLY: s.pageH - float64(b.Box.Max.Y)*scale,
			URX: float64(b.Box.Max.X) * scale,
			URY: s.pageH - float64(b.Box.Min.Y)*scale,
		}
		glyphs = append(glyphs, Glyph{Value: b.Word, Rect: r})
	}

	// Tesseract iterates in layout order already, but re-sort by line
	// then x so Ordinal matches reading order even for skewed scans.
	sort.SliceStable(glyphs, func(i, j int) bool {
		yi, yj := glyphs[i].Rect.Center().Y, glyphs[j].Rect.Center().Y
		if di := yi - yj; di > 2 || di < -2 {
			return yi > yj
		}
		return glyphs[i].Rect.LLX < glyphs[j].Rect.LLX
	})
	for i := range glyphs {
		glyphs[i].Ordinal = i
	}
	return glyphs, nil
}
