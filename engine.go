package redactkit

import (
	"errors"
	"fmt"

	"github.com/wudi/redactkit/contentstream"
	"github.com/wudi/redactkit/correlate"
	"github.com/wudi/redactkit/geom"
	"github.com/wudi/redactkit/layout"
	"github.com/wudi/redactkit/metrics"
	"github.com/wudi/redactkit/observability"
	"github.com/wudi/redactkit/reconstruct"
	"github.com/wudi/redactkit/segment"
	"github.com/wudi/redactkit/validate"
)

var (
	// ErrNilOperations is returned when the operation list is nil.
	// Callers must validate their input upstream; an empty (non-nil)
	// list is fine.
	ErrNilOperations = errors.New("operation list is nil")

	// ErrInvalidRect is returned for a rectangle violating
	// left<=right / bottom<=top or containing non-finite coordinates.
	ErrInvalidRect = errors.New("redaction rectangle is invalid")

	// ErrValidationFailed is returned in strict mode when the
	// rewritten stream fails post-condition validation.
	ErrValidationFailed = errors.New("rewritten stream failed validation")
)

// Engine is the glyph-level redaction engine. All per-call bookkeeping
// is local to each invocation; a single Engine may serve many pages.
type Engine struct {
	log              observability.Logger
	resources        *contentstream.Resources
	strictValidation bool
	ambiguityErrors  bool
	placeholderWidth float64

	correlator    *correlate.Correlator
	segmenter     *segment.Segmenter
	reconstructor *reconstruct.Reconstructor
	validator     *validate.Validator

	// textWidth measures text against a font program in 1/1000 em
	// units. Swappable in tests.
	textWidth func(program []byte, text string) (float64, error)
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{log: observability.NopLogger{}}
	for _, opt := range opts {
		opt(e)
	}

	corrOpts := []correlate.Option{correlate.WithLogger(e.log)}
	if e.ambiguityErrors {
		corrOpts = append(corrOpts, correlate.WithAmbiguityErrors())
	}
	e.correlator = correlate.New(corrOpts...)

	segOpts := []segment.Option{segment.WithLogger(e.log)}
	if e.placeholderWidth > 0 {
		segOpts = append(segOpts, segment.WithPlaceholderWidth(e.placeholderWidth))
	}
	e.segmenter = segment.New(segOpts...)

	e.reconstructor = reconstruct.New(reconstruct.WithLogger(e.log))
	e.validator = validate.New(validate.WithLogger(e.log))
	e.textWidth = metrics.TextWidth
	return e
}

// Redact rewrites the operation list so content inside rect is
// structurally removed. glyphs is the page's ordered ground-truth
// glyph list in visual space; rect is in page points, also visual
// space. rotation is the page's /Rotate value; width and height are
// the content-space page dimensions in points.
//
// The input slice is not modified; the result is freshly allocated.
func (e *Engine) Redact(ops []contentstream.Operation, glyphs []layout.Glyph, rect geom.Rect, rotation int, width, height float64) ([]contentstream.Operation, error) {
	if ops == nil {
		return nil, ErrNilOperations
	}
	if !rect.Valid() {
		return nil, fmt.Errorf("%w: [%g %g %g %g]", ErrInvalidRect, rect.LLX, rect.LLY, rect.URX, rect.URY)
	}
	rot, err := geom.NormalizeRotation(rotation)
	if err != nil {
		return nil, err
	}

	plan, err := e.analyze(ops, glyphs, rect)
	if err != nil {
		return nil, err
	}
	out := e.emit(ops, plan, rot, width, height)

	result := e.validator.Check(out, e.resources)
	if !result.IsValid && e.strictValidation {
		return nil, fmt.Errorf("%w:\n%s", ErrValidationFailed, result)
	}
	return out, nil
}

// Validate runs the content-stream consistency checks. A nil resources
// argument falls back to the engine's configured resources.
func (e *Engine) Validate(ops []contentstream.Operation, resources *contentstream.Resources) validate.Result {
	if resources == nil {
		resources = e.resources
	}
	return e.validator.Check(ops, resources)
}

// effectiveShow returns the operation's show payload with a repaired
// bounding box when the parser produced a zero-width estimate and the
// page resources carry the font's program. The caller's operation is
// never mutated.
func (e *Engine) effectiveShow(op contentstream.Operation) *contentstream.ShowInfo {
	show := op.Show
	if show == nil || show.BBox.Width() > 0 || show.Text == "" {
		return show
	}
	if e.resources == nil || e.resources.Fonts == nil {
		return show
	}
	font := e.resources.Fonts[show.FontName]
	if font == nil || len(font.Program) == 0 {
		return show
	}
	w1000, err := e.textWidth(font.Program, show.Text)
	if err != nil || w1000 <= 0 {
		return show
	}
	size := show.FontSize
	if size <= 0 {
		size = 12
	}
	repaired := *show
	repaired.BBox.URX = repaired.BBox.LLX + w1000*size/1000
	e.log.Info("repaired zero-width bounding box from font metrics",
		observability.String("font", show.FontName),
		observability.Float64("width", repaired.BBox.Width()))
	return &repaired
}
