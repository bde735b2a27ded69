// Package validate checks a rewritten instruction list for structural
// consistency before the caller accepts it. The
// checks are stateless over the final list; whether a failed check
// blocks the save is the engine's policy, not this package's.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wudi/redactkit/contentstream"
	"github.com/wudi/redactkit/observability"
)

// Issue is one finding of a validation run.
type Issue struct {
	Code        string
	Description string
	// OpIndex locates the offending instruction, -1 for stream-level
	// findings.
	OpIndex int
}

func (i Issue) String() string {
	if i.OpIndex < 0 {
		return fmt.Sprintf("[%s] %s", i.Code, i.Description)
	}
	return fmt.Sprintf("[%s] op %d: %s", i.Code, i.OpIndex, i.Description)
}

// Result reports the outcome of a validation run.
type Result struct {
	IsValid  bool
	Errors   []Issue
	Warnings []Issue
}

// String renders the findings as a human-readable list.
func (r Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "valid=%t errors=%d warnings=%d", r.IsValid, len(r.Errors), len(r.Warnings))
	for _, i := range r.Errors {
		b.WriteString("\n  error: ")
		b.WriteString(i.String())
	}
	for _, i := range r.Warnings {
		b.WriteString("\n  warning: ")
		b.WriteString(i.String())
	}
	return b.String()
}

// Issue codes produced by the validator.
const (
	CodeTextObjectMismatch = "TEXT_OBJECT_MISMATCH"
	CodeNestedTextObject   = "NESTED_TEXT_OBJECT"
	CodeUnbalancedRestore  = "UNBALANCED_RESTORE"
	CodeUnbalancedSave     = "UNBALANCED_SAVE"
	CodeShowWithoutFont    = "SHOW_WITHOUT_FONT"
	CodeUnknownFont        = "UNKNOWN_FONT"
	CodeDefaultFont        = "DEFAULT_FONT_UNRESOLVED"
)

var defaultFontName = regexp.MustCompile(`^F\d+$`)

// Validator runs the consistency checks.
type Validator struct {
	log observability.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the diagnostics logger.
func WithLogger(l observability.Logger) Option {
	return func(v *Validator) { v.log = l }
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{log: observability.NopLogger{}}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Check validates the instruction list. resources may be nil, in
// which case font references are not resolved. Font resolution issues
// are always warnings; the resource check is deliberately permissive.
func (v *Validator) Check(ops []contentstream.Operation, resources *contentstream.Resources) Result {
	var res Result

	btCount, etCount := 0, 0
	textDepth := 0
	saveDepth := 0
	fontSelected := false

	for i, op := range ops {
		switch op.Operator {
		case "BT":
			btCount++
			textDepth++
			if textDepth > 1 {
				res.Errors = append(res.Errors, Issue{
					Code:        CodeNestedTextObject,
					Description: "begin-text inside an open text object",
					OpIndex:     i,
				})
				textDepth = 1
			}
		case "ET":
			etCount++
			if textDepth > 0 {
				textDepth--
			}
		case "q":
			saveDepth++
		case "Q":
			saveDepth--
			if saveDepth < 0 {
				res.Errors = append(res.Errors, Issue{
					Code:        CodeUnbalancedRestore,
					Description: "restore without matching save",
					OpIndex:     i,
				})
				saveDepth = 0
			}
		case "Tf":
			// Font selection is graphics state and survives ET, so the
			// font-before-show check is stream-global: a Tf in an
			// earlier block covers later shows.
			fontSelected = true
			v.checkFontResource(&res, op, i, resources)
		case "Tj", "TJ", "'", "\"":
			if !fontSelected {
				res.Errors = append(res.Errors, Issue{
					Code:        CodeShowWithoutFont,
					Description: "show-text before any font select",
					OpIndex:     i,
				})
			}
		}
	}

	if btCount != etCount {
		res.Errors = append(res.Errors, Issue{
			Code:        CodeTextObjectMismatch,
			Description: fmt.Sprintf("begin-text count %d != end-text count %d", btCount, etCount),
			OpIndex:     -1,
		})
	}
	if saveDepth != 0 {
		res.Errors = append(res.Errors, Issue{
			Code:        CodeUnbalancedSave,
			Description: fmt.Sprintf("save/restore depth %d at end of stream", saveDepth),
			OpIndex:     -1,
		})
	}

	res.IsValid = len(res.Errors) == 0
	for _, issue := range res.Errors {
		v.log.Error("content stream validation failed",
			observability.String("code", issue.Code),
			observability.String("detail", issue.Description),
			observability.Int("op", issue.OpIndex))
	}
	for _, issue := range res.Warnings {
		v.log.Warn("content stream validation warning",
			observability.String("code", issue.Code),
			observability.String("detail", issue.Description),
			observability.Int("op", issue.OpIndex))
	}
	return res
}

func (v *Validator) checkFontResource(res *Result, op contentstream.Operation, i int, resources *contentstream.Resources) {
	if resources == nil || len(op.Operands) == 0 {
		return
	}
	name, ok := op.Operands[0].(contentstream.NameOperand)
	if !ok || resources.HasFont(name.Value) {
		return
	}
	code := CodeUnknownFont
	if defaultFontName.MatchString(name.Value) {
		code = CodeDefaultFont
	}
	res.Warnings = append(res.Warnings, Issue{
		Code:        code,
		Description: fmt.Sprintf("font %q not in page resources", name.Value),
		OpIndex:     i,
	})
}
