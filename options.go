package redactkit

import (
	"github.com/wudi/redactkit/contentstream"
	"github.com/wudi/redactkit/observability"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger the engine and all its components emit
// diagnostics through. Default is a no-op logger.
func WithLogger(l observability.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithStrictValidation makes Redact fail with ErrValidationFailed when
// the rewritten stream does not validate, instead of only logging. The
// permissive default matches the original behavior: a possibly
// imperfect redacted document plus diagnostics beats no output.
func WithStrictValidation() Option {
	return func(e *Engine) { e.strictValidation = true }
}

// WithAmbiguityErrors makes Redact fail with
// correlate.ErrAmbiguousMatch when an instruction's text has two
// equally coherent placements on the page, instead of redacting the
// first occurrence found.
func WithAmbiguityErrors() Option {
	return func(e *Engine) { e.ambiguityErrors = true }
}

// WithResources supplies the page's font resources. They feed the
// validator's font-reference check and, when a font carries an
// embedded program, the width repair for degenerate bounding-box
// estimates.
func WithResources(res *contentstream.Resources) Option {
	return func(e *Engine) { e.resources = res }
}

// WithPlaceholderWidth overrides the width credited to characters that
// have no glyph match.
func WithPlaceholderWidth(w float64) Option {
	return func(e *Engine) { e.placeholderWidth = w }
}
