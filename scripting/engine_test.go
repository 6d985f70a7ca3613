package scripting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{"alert", `app.alert("hello");`, false},
		{"function", `function f(x) { return x * 2 } f(3);`, false},
		{"unknown globals are fine", `this.print({bUI: false});`, false},
		{"syntax error", `app.alert("unterminated`, true},
		{"stray brace", `}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateEmpty(t *testing.T) {
	require.ErrorIs(t, Validate("  \n"), ErrEmptyScript)
}
