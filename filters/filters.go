// Package filters implements the stream filters this module writes and reads
// back. Only FlateDecode is supported.
package filters

import (
	"bytes"
	"compress/zlib"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/wudi/textpdf/ir/raw"
)

// FlateDecode is the PDF filter name for zlib/deflate streams.
const FlateDecode = "FlateDecode"

var (
	ErrUnknownFilter = errors.New("unknown filter")
	ErrTooLarge      = errors.New("decoded stream exceeds limit")
)

type Decoder interface {
	Name() string
	Decode(ctx context.Context, input []byte, params raw.Dictionary) ([]byte, error)
}

type Encoder interface {
	Name() string
	Encode(input []byte) ([]byte, error)
}

// Limits bounds decoding. Zero means unbounded.
type Limits struct {
	MaxDecompressedSize int64
}

// Pipeline applies a chain of decoders in /Filter order.
type Pipeline struct {
	decoders map[string]Decoder
	limits   Limits
}

func NewPipeline(decoders []Decoder, limits Limits) *Pipeline {
	p := &Pipeline{decoders: make(map[string]Decoder, len(decoders)), limits: limits}
	for _, d := range decoders {
		p.decoders[d.Name()] = d
	}
	return p
}

// NewDefaultPipeline decodes the filters this module writes.
func NewDefaultPipeline() *Pipeline {
	return NewPipeline([]Decoder{NewFlateDecoder()}, Limits{})
}

func (p *Pipeline) Decode(ctx context.Context, input []byte, names []string, params []raw.Dictionary) ([]byte, error) {
	data := input
	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dec, ok := p.decoders[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, name)
		}
		var param raw.Dictionary
		if i < len(params) {
			param = params[i]
		}
		out, err := dec.Decode(ctx, data, param)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if limit := p.limits.MaxDecompressedSize; limit > 0 && int64(len(out)) > limit {
			return nil, fmt.Errorf("%s: %w (%d > %d)", name, ErrTooLarge, len(out), limit)
		}
		data = out
	}
	return data, nil
}

// DecodeStream decodes a stream using the filters named in its dictionary.
// An unfiltered stream is returned as is.
func (p *Pipeline) DecodeStream(ctx context.Context, s *raw.StreamObj) ([]byte, error) {
	if !Filtered(s.Dict) {
		return s.Data, nil
	}
	names, params := ExtractFilters(s.Dict)
	return p.Decode(ctx, s.Data, names, params)
}

type flateDecoder struct{}

func NewFlateDecoder() Decoder { return flateDecoder{} }

func (flateDecoder) Name() string { return FlateDecode }

// Decode ignores params; predictors are never written by this module.
func (flateDecoder) Decode(_ context.Context, in []byte, _ raw.Dictionary) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

type flateEncoder struct{ level int }

// NewFlateEncoder returns a zlib encoder at the given compress/flate level.
func NewFlateEncoder(level int) Encoder { return flateEncoder{level: level} }

func (flateEncoder) Name() string { return FlateDecode }

func (e flateEncoder) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, e.level)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
