package builder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wudi/textpdf/contentstream"
)

var (
	// ErrConfiguration marks a builder used without its required settings.
	ErrConfiguration   = errors.New("content builder misconfigured")
	ErrMissingFont     = fmt.Errorf("%w: font not set", ErrConfiguration)
	ErrMissingPosition = fmt.Errorf("%w: position not set", ErrConfiguration)
	ErrConsumed        = fmt.Errorf("%w: builder already built", ErrConfiguration)
)

// ContentBuilder accumulates a single text run. Font and Position are
// required before Build. A builder is used once and is not safe for
// concurrent use.
type ContentBuilder struct {
	fontResource string
	fontSize     uint16
	hasFont      bool

	x, y        uint32
	hasPosition bool

	texts []string
	built bool
}

// NewContent returns an empty builder with neither font nor position set.
func NewContent() *ContentBuilder { return &ContentBuilder{} }

// Font selects the font resource and size; a later call replaces both.
func (b *ContentBuilder) Font(resource string, size uint16) *ContentBuilder {
	if b.built {
		return b
	}
	b.fontResource, b.fontSize, b.hasFont = resource, size, true
	return b
}

// Position sets the text origin in unscaled text space units. Last call wins.
func (b *ContentBuilder) Position(x, y uint32) *ContentBuilder {
	if b.built {
		return b
	}
	b.x, b.y, b.hasPosition = x, y, true
	return b
}

// Text appends a fragment as is.
func (b *ContentBuilder) Text(fragment string) *ContentBuilder {
	if b.built {
		return b
	}
	b.texts = append(b.texts, fragment)
	return b
}

// Build emits BT, Tf, Td, Tj, ET with the fragments joined without separators.
// The builder is consumed by the first call, successful or not.
func (b *ContentBuilder) Build() (contentstream.Content, error) {
	if b.built {
		return contentstream.Content{}, ErrConsumed
	}
	b.built = true
	if !b.hasFont {
		return contentstream.Content{}, ErrMissingFont
	}
	if !b.hasPosition {
		return contentstream.Content{}, ErrMissingPosition
	}
	text := strings.Join(b.texts, "")
	return contentstream.Content{
		Operations: []contentstream.Operation{
			contentstream.Op(contentstream.BeginText),
			contentstream.Op(contentstream.TextFont,
				contentstream.Name(b.fontResource),
				contentstream.Number(b.fontSize),
			),
			contentstream.Op(contentstream.TextPosition,
				contentstream.Number(b.x),
				contentstream.Number(b.y),
			),
			contentstream.Op(contentstream.ShowText, contentstream.Literal(text)),
			contentstream.Op(contentstream.EndText),
		},
	}, nil
}
