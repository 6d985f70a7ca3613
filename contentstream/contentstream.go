// Package contentstream holds the text operator vocabulary and the encoder
// and decoder that turn operations into content-stream bytes and back.
package contentstream

// Operators used by single-run text content. The values are the PDF
// operator mnemonics and are written verbatim into the stream.
const (
	BeginText     = "BT"
	EndText       = "ET"
	TextFont      = "Tf"
	TextPosition  = "Td"
	ShowText      = "Tj"
	ShowTextArray = "TJ"
)

// Operation is a single content-stream operator with its operands.
type Operation struct {
	Operator string
	Operands []Operand
}

// Op is shorthand for building an Operation.
func Op(operator string, operands ...Operand) Operation {
	return Operation{Operator: operator, Operands: operands}
}

// Content is an ordered list of operations forming one content stream.
type Content struct {
	Operations []Operation
}

// Encode serializes the content into stream bytes.
func (c Content) Encode() ([]byte, error) { return Encode(c.Operations) }

// Operators returns the operator of each operation in order.
func (c Content) Operators() []string {
	out := make([]string, len(c.Operations))
	for i, op := range c.Operations {
		out[i] = op.Operator
	}
	return out
}
