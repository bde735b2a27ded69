package contentstream

// Operand is a type-safe content-stream operand value. The set of
// implementations is closed; consumers switch exhaustively.
type Operand interface {
	operand()
	Type() string
}

// NumberOperand holds a numeric operand.
type NumberOperand struct{ Value float64 }

func (NumberOperand) operand()     {}
func (NumberOperand) Type() string { return "number" }

// NameOperand holds a name operand without the leading slash.
type NameOperand struct{ Value string }

func (NameOperand) operand()     {}
func (NameOperand) Type() string { return "name" }

// StringOperand holds a string operand. Hex marks operands that must be
// serialized in angle-bracket hex form to preserve raw byte sequences
// that do not round-trip through a literal string.
type StringOperand struct {
	Value []byte
	Hex   bool
}

func (StringOperand) operand()     {}
func (StringOperand) Type() string { return "string" }

// ArrayOperand holds an ordered operand list.
type ArrayOperand struct{ Values []Operand }

func (ArrayOperand) operand()     {}
func (ArrayOperand) Type() string { return "array" }

// DictOperand holds a keyed operand map.
type DictOperand struct{ Values map[string]Operand }

func (DictOperand) operand()     {}
func (DictOperand) Type() string { return "dict" }
