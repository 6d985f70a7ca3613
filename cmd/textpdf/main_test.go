package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/textpdf/builder"
	"github.com/wudi/textpdf/layout"
)

func TestParseFlagsDefaults(t *testing.T) {
	opts, err := parseFlags([]string{"-text", "good", "-text", " bye"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "example.pdf", opts.out)
	assert.Equal(t, "Courier", opts.baseFont)
	assert.Equal(t, uint16(48), opts.size)
	assert.Equal(t, uint32(100), opts.x)
	assert.Equal(t, uint32(600), opts.y)
	assert.Equal(t, []string{"good", " bye"}, opts.texts)
	assert.Equal(t, layout.FormatText, opts.format)
	assert.True(t, opts.compress)
}

func TestParseFlagsErrors(t *testing.T) {
	tests := map[string][]string{
		"no text":        {},
		"huge size":      {"-text", "x", "-size", "70000"},
		"bad format":     {"-in", "a.rtf", "-format", "rtf"},
		"bad alignment":  {"-text", "x", "-align", "justify"},
		"positional arg": {"-text", "x", "out.pdf"},
		"unknown flag":   {"-nope"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseFlags(args, io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestParseFlagsHelp(t *testing.T) {
	var out bytes.Buffer
	_, err := parseFlags([]string{"-h"}, &out)
	assert.True(t, errors.Is(err, flag.ErrHelp))
	assert.Contains(t, out.String(), "Usage: textpdf")
}

func TestRunWritesVerifiedFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "note.md")
	require.NoError(t, os.WriteFile(in, []byte("# Hi\n\nthere"), 0o644))

	opts, err := parseFlags([]string{
		"-o", filepath.Join(dir, "out.pdf"),
		"-text", strings.Repeat("la ", 30),
		"-in", in, "-format", "markdown",
		"-size", "12",
		"-align", "center",
		"-lang", "en",
		"-title", "Note",
		"-deterministic", "-verify", "-v",
	}, io.Discard)
	require.NoError(t, err)

	var logs bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &logs))
	assert.Contains(t, logs.String(), "pdf saved")
	assert.Contains(t, logs.String(), "verified")
	assert.Contains(t, logs.String(), "object written")
	assert.Contains(t, logs.String(), "streams=1")

	data, err := os.ReadFile(filepath.Join(dir, "out.pdf"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "/Filter /FlateDecode")
}

func TestRunCompressesByDefault(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		compressed bool
	}{
		{"default", nil, true},
		{"disabled", []string{"-compress=false"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "good.pdf")
			args := append([]string{"-o", out, "-text", "good", "-text", " bye", "-v"}, tt.args...)
			opts, err := parseFlags(args, io.Discard)
			require.NoError(t, err)

			var logs bytes.Buffer
			require.NoError(t, run(context.Background(), opts, &logs))
			if tt.compressed {
				// A one-line stream does not shrink, so it stays unfiltered.
				assert.Contains(t, logs.String(), "streams compressed")
				assert.Contains(t, logs.String(), "streams=0")
			} else {
				assert.NotContains(t, logs.String(), "streams compressed")
			}
			data, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.NotContains(t, string(data), "/Filter")
		})
	}
}

func TestRunAcceptsZeroSize(t *testing.T) {
	out := filepath.Join(t.TempDir(), "zero.pdf")
	opts, err := parseFlags([]string{"-o", out, "-text", "x", "-size", "0"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), opts.size)

	var logs bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &logs))
	assert.Contains(t, logs.String(), "font size is zero")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "/F1 0 Tf")
}

func TestRunWarnsOnOverflowAndUnknownFont(t *testing.T) {
	dir := t.TempDir()
	opts, err := parseFlags([]string{
		"-o", filepath.Join(dir, "wide.pdf"),
		"-font", "Comic-Sans",
		"-x", "500",
		"-text", "far too wide for the page",
	}, io.Discard)
	require.NoError(t, err)

	var logs bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &logs))
	assert.Contains(t, logs.String(), "text extends past the page")
	assert.Contains(t, logs.String(), "standard 14")
}

func TestRunRejectsBadScript(t *testing.T) {
	opts, err := parseFlags([]string{
		"-o", filepath.Join(t.TempDir(), "bad.pdf"),
		"-text", "x",
		"-js", "app.alert(",
	}, io.Discard)
	require.NoError(t, err)

	err = run(context.Background(), opts, io.Discard)
	assert.ErrorIs(t, err, builder.ErrConfiguration)
	_, statErr := os.Stat(opts.out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCollectTextSeparatesFileFragments(t *testing.T) {
	in := filepath.Join(t.TempDir(), "in.html")
	require.NoError(t, os.WriteFile(in, []byte("<p>one</p><p>two</p>"), 0o644))

	got, err := collectText(options{texts: []string{"zero"}, inPath: in, format: layout.FormatHTML})
	require.NoError(t, err)
	assert.Equal(t, []string{"zero", " ", "one", " ", "two"}, got)
}

func TestRunLogsOpenActionCalls(t *testing.T) {
	opts, err := parseFlags([]string{
		"-o", filepath.Join(t.TempDir(), "js.pdf"),
		"-text", "x",
		"-js", `app.alert("opened");`,
	}, io.Discard)
	require.NoError(t, err)

	var logs bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &logs))
	assert.Contains(t, logs.String(), "open action call")
	assert.Contains(t, logs.String(), "arg=opened")
}
