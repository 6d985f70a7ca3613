package contentstream

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
)

// ErrDecode is wrapped by every decoding failure.
var ErrDecode = errors.New("content stream decode")

// Decode parses stream bytes back into operations.
func Decode(data []byte) ([]Operation, error) {
	lx := &lexer{src: data}
	var ops []Operation
	var stack []Operand
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		switch tok.kind {
		case tokEOF:
			if len(stack) > 0 {
				return nil, fmt.Errorf("%w: dangling operands: %d", ErrDecode, len(stack))
			}
			return ops, nil
		case tokArrayEnd:
			return nil, fmt.Errorf("%w: unexpected ] at offset %d", ErrDecode, lx.pos)
		case tokKeyword:
			ops = append(ops, Operation{Operator: tok.text, Operands: stack})
			stack = nil
		default:
			operand, err := lx.operand(tok)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrDecode, err)
			}
			stack = append(stack, operand)
		}
	}
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokName
	tokString
	tokArrayStart
	tokArrayEnd
	tokKeyword
)

type token struct {
	kind tokenKind
	text string
	num  float64
	data []byte
}

type lexer struct {
	src []byte
	pos int
}

func (lx *lexer) operand(tok token) (Operand, error) {
	switch tok.kind {
	case tokNumber:
		return NumberOperand{Value: tok.num}, nil
	case tokName:
		return NameOperand{Value: tok.text}, nil
	case tokString:
		return StringOperand{Value: tok.data}, nil
	case tokArrayStart:
		var items []Operand
		for {
			t, err := lx.next()
			if err != nil {
				return nil, err
			}
			switch t.kind {
			case tokArrayEnd:
				return ArrayOperand{Values: items}, nil
			case tokEOF:
				return nil, errors.New("unterminated array")
			case tokKeyword:
				return nil, fmt.Errorf("operator %q inside array", t.text)
			}
			it, err := lx.operand(t)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
	}
	return nil, fmt.Errorf("unexpected token %q", tok.text)
}

func isWhite(ch byte) bool {
	switch ch {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func (lx *lexer) skipSpace() {
	for lx.pos < len(lx.src) {
		ch := lx.src[lx.pos]
		switch {
		case isWhite(ch):
			lx.pos++
		case ch == '%':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' && lx.src[lx.pos] != '\r' {
				lx.pos++
			}
		default:
			return
		}
	}
}

func (lx *lexer) regular() string {
	start := lx.pos
	for lx.pos < len(lx.src) {
		ch := lx.src[lx.pos]
		if isWhite(ch) || isDelimiter(ch) {
			break
		}
		lx.pos++
	}
	return string(lx.src[start:lx.pos])
}

func (lx *lexer) next() (token, error) {
	lx.skipSpace()
	if lx.pos >= len(lx.src) {
		return token{kind: tokEOF}, nil
	}
	switch ch := lx.src[lx.pos]; ch {
	case '/':
		lx.pos++
		name, err := unescapeName(lx.regular())
		if err != nil {
			return token{}, err
		}
		return token{kind: tokName, text: name}, nil
	case '(':
		lx.pos++
		data, err := lx.literal()
		if err != nil {
			return token{}, err
		}
		return token{kind: tokString, data: data}, nil
	case '<':
		lx.pos++
		data, err := lx.hexString()
		if err != nil {
			return token{}, err
		}
		return token{kind: tokString, data: data}, nil
	case '[':
		lx.pos++
		return token{kind: tokArrayStart, text: "["}, nil
	case ']':
		lx.pos++
		return token{kind: tokArrayEnd, text: "]"}, nil
	case ')', '>', '{', '}':
		return token{}, fmt.Errorf("unexpected %q at offset %d", ch, lx.pos)
	}
	word := lx.regular()
	if f, err := strconv.ParseFloat(word, 64); err == nil {
		return token{kind: tokNumber, text: word, num: f}, nil
	}
	return token{kind: tokKeyword, text: word}, nil
}

func (lx *lexer) literal() ([]byte, error) {
	var out []byte
	depth := 1
	for lx.pos < len(lx.src) {
		ch := lx.src[lx.pos]
		lx.pos++
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return out, nil
			}
		case '\\':
			if lx.pos >= len(lx.src) {
				return nil, errors.New("unterminated escape")
			}
			esc := lx.src[lx.pos]
			lx.pos++
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if lx.pos < len(lx.src) && lx.src[lx.pos] == '\n' {
					lx.pos++
				}
			case '\n':
			default:
				if esc >= '0' && esc <= '7' {
					v := int(esc - '0')
					for k := 0; k < 2 && lx.pos < len(lx.src); k++ {
						d := lx.src[lx.pos]
						if d < '0' || d > '7' {
							break
						}
						v = v*8 + int(d-'0')
						lx.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, esc)
				}
			}
			continue
		}
		out = append(out, ch)
	}
	return nil, errors.New("unterminated string")
}

func (lx *lexer) hexString() ([]byte, error) {
	var digits []byte
	for lx.pos < len(lx.src) {
		ch := lx.src[lx.pos]
		lx.pos++
		if ch == '>' {
			if len(digits)%2 == 1 {
				digits = append(digits, '0')
			}
			out := make([]byte, hex.DecodedLen(len(digits)))
			if _, err := hex.Decode(out, digits); err != nil {
				return nil, err
			}
			return out, nil
		}
		if isWhite(ch) {
			continue
		}
		digits = append(digits, ch)
	}
	return nil, errors.New("unterminated hex string")
}

func unescapeName(s string) (string, error) {
	var out []byte
	for i := 0; i < len(s); i++ {
		if s[i] != '#' {
			out = append(out, s[i])
			continue
		}
		if i+2 >= len(s) {
			return "", fmt.Errorf("bad name escape in %q", s)
		}
		v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
		if err != nil {
			return "", fmt.Errorf("bad name escape in %q", s)
		}
		out = append(out, byte(v))
		i += 2
	}
	return string(out), nil
}
