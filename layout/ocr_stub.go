//go:build !ocr

// Stub used when the "ocr" build tag is not set. The TesseractSource
// constructor reports ErrOCRNotEnabled; everything else in this
// package works without OCR support.
package layout

import "errors"

// ErrOCRNotEnabled is returned when OCR functions are called but OCR
// support was not compiled in. Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// TesseractSource is unavailable without the "ocr" build tag.
type TesseractSource struct{}

// TesseractOption configures a TesseractSource.
type TesseractOption func(*TesseractSource)

// WithDPI is a no-op without the "ocr" build tag.
func WithDPI(float64) TesseractOption { return func(*TesseractSource) {} }

// NewTesseractSource always returns ErrOCRNotEnabled.
func NewTesseractSource(float64, map[int][]byte, ...TesseractOption) (*TesseractSource, error) {
	return nil, ErrOCRNotEnabled
}

// SetLanguage always returns ErrOCRNotEnabled.
func (s *TesseractSource) SetLanguage(string) error { return ErrOCRNotEnabled }

// Close is a no-op.
func (s *TesseractSource) Close() error { return nil }

// Glyphs always returns ErrOCRNotEnabled.
func (s *TesseractSource) Glyphs(int) ([]Glyph, error) { return nil, ErrOCRNotEnabled }
