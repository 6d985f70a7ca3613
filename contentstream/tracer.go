package contentstream

import (
	"errors"

	"github.com/wudi/textpdf/coords"
)

// WidthFunc returns the advance width in text space units of text set at
// the given font size.
type WidthFunc func(text []byte, size float64) float64

// OpBBox represents the bounding box of an operation.
type OpBBox struct {
	OpIndex int
	Rect    coords.Rect
}

// TextState is the subset of the PDF text state the tracer follows.
type TextState struct {
	Font           string
	FontSize       float64
	TextMatrix     coords.Matrix
	TextLineMatrix coords.Matrix
	inText         bool
}

// Tracer calculates the bounding boxes of text-showing operations.
type Tracer struct {
	width WidthFunc
}

// NewTracer returns a tracer. A nil width function assumes 500/1000 em per byte.
func NewTracer(width WidthFunc) *Tracer {
	if width == nil {
		width = func(text []byte, size float64) float64 { return float64(len(text)) * size * 0.5 }
	}
	return &Tracer{width: width}
}

// Trace executes the operations virtually and returns the boxes covered by
// each Tj/TJ. Boxes span from the baseline to one font size above it.
func (t *Tracer) Trace(ops []Operation) ([]OpBBox, error) {
	var bboxes []OpBBox
	ts := &TextState{TextMatrix: coords.Identity(), TextLineMatrix: coords.Identity()}

	for i, op := range ops {
		switch op.Operator {
		case BeginText:
			if ts.inText {
				return nil, errors.New("nested BT")
			}
			ts.inText = true
			ts.TextMatrix = coords.Identity()
			ts.TextLineMatrix = coords.Identity()
		case EndText:
			if !ts.inText {
				return nil, errors.New("ET without BT")
			}
			ts.inText = false
		case TextFont:
			if len(op.Operands) == 2 {
				if name, ok := op.Operands[0].(NameOperand); ok {
					ts.Font = name.Value
				}
				ts.FontSize = operandToFloat(op.Operands[1])
			}
		case TextPosition:
			if len(op.Operands) == 2 {
				m := coords.Translate(operandToFloat(op.Operands[0]), operandToFloat(op.Operands[1]))
				ts.TextLineMatrix = m.Multiply(ts.TextLineMatrix)
				ts.TextMatrix = ts.TextLineMatrix
			}
		case ShowText:
			if len(op.Operands) == 1 {
				if str, ok := op.Operands[0].(StringOperand); ok {
					w := t.width(str.Value, ts.FontSize)
					bboxes = append(bboxes, OpBBox{OpIndex: i, Rect: t.rect(w, ts)})
				}
			}
		case ShowTextArray:
			if len(op.Operands) == 1 {
				if arr, ok := op.Operands[0].(ArrayOperand); ok {
					w := 0.0
					for _, it := range arr.Values {
						switch v := it.(type) {
						case StringOperand:
							w += t.width(v.Value, ts.FontSize)
						case NumberOperand:
							// Adjustments are in thousandths of an em, subtracted.
							w -= v.Value / 1000 * ts.FontSize
						}
					}
					bboxes = append(bboxes, OpBBox{OpIndex: i, Rect: t.rect(w, ts)})
				}
			}
		}
	}
	if ts.inText {
		return nil, errors.New("BT without ET")
	}
	return bboxes, nil
}

func (t *Tracer) rect(width float64, ts *TextState) coords.Rect {
	m := ts.TextMatrix
	return coords.Bounds(
		m.Transform(coords.Point{X: 0, Y: 0}),
		m.Transform(coords.Point{X: width, Y: 0}),
		m.Transform(coords.Point{X: 0, Y: ts.FontSize}),
		m.Transform(coords.Point{X: width, Y: ts.FontSize}),
	)
}

func operandToFloat(op Operand) float64 {
	if n, ok := op.(NumberOperand); ok {
		return n.Value
	}
	return 0
}
