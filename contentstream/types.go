package contentstream

// Operand is a type-safe operand value.
type Operand interface {
	operand()
	Type() string
}

// NumberOperand holds a numeric operand. Integral values are written
// without a fractional part.
type NumberOperand struct{ Value float64 }

func (NumberOperand) operand()     {}
func (NumberOperand) Type() string { return "number" }

type NameOperand struct{ Value string }

func (NameOperand) operand()     {}
func (NameOperand) Type() string { return "name" }

// StringOperand is written as a PDF literal string.
type StringOperand struct{ Value []byte }

func (StringOperand) operand()     {}
func (StringOperand) Type() string { return "string" }

type ArrayOperand struct{ Values []Operand }

func (ArrayOperand) operand()     {}
func (ArrayOperand) Type() string { return "array" }

// Number wraps any integer or float as a NumberOperand.
func Number[T ~int | ~int32 | ~int64 | ~uint16 | ~uint32 | ~float64](v T) NumberOperand {
	return NumberOperand{Value: float64(v)}
}

func Name(v string) NameOperand { return NameOperand{Value: v} }

// Literal builds a string operand from text without escaping or validation.
func Literal(s string) StringOperand { return StringOperand{Value: []byte(s)} }
