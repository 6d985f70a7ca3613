// Package layout turns source documents into text fragments and places a
// line of text on the page.
package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/wudi/textpdf/fonts"
)

// Format names an input document format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

var (
	ErrUnknownFormat    = errors.New("unknown input format")
	ErrUnknownAlignment = errors.New("unknown alignment")
)

// ParseFormat accepts the format names plus the short forms "txt", "md" and
// "htm".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt", "":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Fragments extracts the visible text blocks of src. Whitespace inside a
// block is collapsed to single spaces, text is NFC-normalized and empty
// blocks are dropped.
func Fragments(format Format, src []byte) ([]string, error) {
	switch format {
	case FormatText:
		return textFragments(src), nil
	case FormatMarkdown:
		return markdownFragments(src), nil
	case FormatHTML:
		return htmlFragments(src)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Join concatenates fragments without separators, the way the content
// builder joins them into one string operand.
func Join(fragments []string) string {
	return strings.Join(fragments, "")
}

func textFragments(src []byte) []string {
	var out []string
	for _, line := range strings.Split(string(src), "\n") {
		out = appendFragment(out, line)
	}
	return out
}

func appendFragment(out []string, s string) []string {
	s = collapse(s)
	if s == "" {
		return out
	}
	return append(out, s)
}

func collapse(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

// Alignment positions a line horizontally.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return "left"
}

func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	}
	return AlignLeft, fmt.Errorf("%w: %q", ErrUnknownAlignment, s)
}

// Align returns the x coordinate at which text set at size starts on a page
// pageWidth wide. Left and right alignment keep margin points from the
// edge. The result is clamped to the page and rounded to whole points.
func Align(text string, size float64, mode Alignment, pageWidth, margin float64) (uint32, error) {
	width, err := fonts.Measure(text, size)
	if err != nil {
		return 0, err
	}
	var x float64
	switch mode {
	case AlignCenter:
		x = (pageWidth - width) / 2
	case AlignRight:
		x = pageWidth - margin - width
	default:
		x = margin
	}
	x = math.Max(0, math.Min(x, pageWidth))
	return uint32(math.Round(x)), nil
}
