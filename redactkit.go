// Package redactkit rewrites page content streams so that text inside
// a caller-specified rectangle is structurally removed, not visually
// covered. The engine correlates parsed drawing operations with an
// independently produced glyph layout, decides per character what
// falls inside the redaction region, and re-emits a valid instruction
// sequence in which removed characters are gone while everything else
// keeps its exact original appearance.
//
// Basic usage:
//
//	eng := redactkit.New(redactkit.WithLogger(logger))
//	out, err := eng.Redact(ops, glyphs, rect, rotation, pageW, pageH)
//	if err != nil {
//	    // handle error
//	}
//	result := eng.Validate(out, pageResources)
//
// The engine does no I/O: parsing operations from stream bytes and
// serializing the rewritten list back are the caller's collaborators,
// as is the component supplying ground-truth glyph positions.
// Independent calls on independent pages are safe to run concurrently
// as long as each owns its operation list and rectangle.
package redactkit
