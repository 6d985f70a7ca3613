// Package scripting checks document-level JavaScript before it is embedded.
package scripting

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dop251/goja"
)

var ErrEmptyScript = errors.New("script is empty")

// Validate compiles src without running it. Viewer APIs such as app.alert
// are resolved at run time, so only syntax is checked.
func Validate(src string) error {
	if strings.TrimSpace(src) == "" {
		return ErrEmptyScript
	}
	if _, err := goja.Compile("openaction.js", src, false); err != nil {
		return fmt.Errorf("invalid JavaScript: %w", err)
	}
	return nil
}
