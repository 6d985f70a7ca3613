// Package optimize rewrites stored objects to shrink the written file.
package optimize

import (
	"compress/zlib"
	"context"
	"fmt"

	"github.com/wudi/textpdf/ir/raw"
	"github.com/wudi/textpdf/observability"
)

// Store is the object table the optimizer rewrites in place.
type Store interface {
	Refs() []raw.ObjectRef
	Get(ref raw.ObjectRef) (raw.Object, bool)
	Put(ref raw.ObjectRef, obj raw.Object)
}

type Config struct {
	CompressStreams  bool
	CompressionLevel int
	Logger           observability.Logger
}

// Stats reports what a run changed.
type Stats struct {
	StreamsCompressed int
	BytesSaved        int64
}

type Optimizer struct {
	config Config
	log    observability.Logger
}

func New(config Config) *Optimizer {
	log := config.Logger
	if log == nil {
		log = observability.NopLogger{}
	}
	return &Optimizer{config: config, log: log}
}

// DefaultConfig compresses streams at zlib's default level.
func DefaultConfig() Config {
	return Config{CompressStreams: true, CompressionLevel: zlib.DefaultCompression}
}

func (o *Optimizer) Optimize(ctx context.Context, store Store) (Stats, error) {
	var stats Stats
	if o.config.CompressStreams {
		if err := o.compressStreams(ctx, store, &stats); err != nil {
			return stats, fmt.Errorf("failed to compress streams: %w", err)
		}
	}
	return stats, nil
}
