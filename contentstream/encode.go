package contentstream

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrEncode is wrapped by every encoding failure.
var ErrEncode = errors.New("content stream encode")

// Encode serializes operations one per line, operands first.
func Encode(ops []Operation) ([]byte, error) {
	var buf bytes.Buffer
	for i, op := range ops {
		if op.Operator == "" {
			return nil, fmt.Errorf("%w: operation %d has no operator", ErrEncode, i)
		}
		for j, operand := range op.Operands {
			if err := writeOperand(&buf, operand); err != nil {
				return nil, fmt.Errorf("%w: %s operand %d: %v", ErrEncode, op.Operator, j, err)
			}
			buf.WriteByte(' ')
		}
		buf.WriteString(op.Operator)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func writeOperand(buf *bytes.Buffer, op Operand) error {
	switch v := op.(type) {
	case NumberOperand:
		s, err := FormatNumber(v.Value)
		if err != nil {
			return err
		}
		buf.WriteString(s)
	case NameOperand:
		buf.WriteByte('/')
		buf.WriteString(EscapeName(v.Value))
	case StringOperand:
		buf.Write(EscapeLiteralString(v.Value))
	case ArrayOperand:
		buf.WriteByte('[')
		for i, it := range v.Values {
			if i > 0 {
				buf.WriteByte(' ')
			}
			if err := writeOperand(buf, it); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case nil:
		return errors.New("nil operand")
	default:
		return fmt.Errorf("unsupported operand type %T", op)
	}
	return nil
}

// FormatNumber renders v the way PDF expects: integers bare, reals without
// exponent notation.
func FormatNumber(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("number %v not representable", v)
	}
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return strconv.FormatInt(int64(v), 10), nil
	}
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}

// EscapeLiteralString wraps raw bytes in parentheses, escaping delimiters
// and control characters.
func EscapeLiteralString(rawBytes []byte) []byte {
	var b bytes.Buffer
	b.WriteByte('(')
	for _, ch := range rawBytes {
		switch ch {
		case '\\', '(', ')':
			b.WriteByte('\\')
			b.WriteByte(ch)
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\t':
			b.WriteString("\\t")
		case '\b':
			b.WriteString("\\b")
		case '\f':
			b.WriteString("\\f")
		default:
			if ch < 0x20 || ch >= 0x80 {
				fmt.Fprintf(&b, "\\%03o", ch)
			} else {
				b.WriteByte(ch)
			}
		}
	}
	b.WriteByte(')')
	return b.Bytes()
}

// EscapeName applies #xx escaping to bytes outside the regular name set.
func EscapeName(value string) string {
	var b bytes.Buffer
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if ch > 0x20 && ch < 0x7f && !isDelimiter(ch) && ch != '#' {
			b.WriteByte(ch)
			continue
		}
		fmt.Fprintf(&b, "#%02X", ch)
	}
	return b.String()
}

func isDelimiter(ch byte) bool {
	switch ch {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}
