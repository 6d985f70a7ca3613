package optimize

import (
	"context"
	"fmt"

	"github.com/wudi/textpdf/filters"
	"github.com/wudi/textpdf/ir/raw"
	"github.com/wudi/textpdf/observability"
)

// compressStreams Flate-encodes every stream that has no filter yet. A
// stream whose encoding would not be smaller is left as is. Replacement
// streams get a copied dictionary so shared dictionaries are not mutated.
func (o *Optimizer) compressStreams(ctx context.Context, store Store, stats *Stats) error {
	enc := filters.NewFlateEncoder(o.config.CompressionLevel)
	for _, ref := range store.Refs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		obj, _ := store.Get(ref)
		s, ok := obj.(*raw.StreamObj)
		if !ok {
			continue
		}
		if filters.Filtered(s.Dict) {
			continue
		}
		data, err := enc.Encode(s.Data)
		if err != nil {
			return fmt.Errorf("%s: %w", ref, err)
		}
		if len(data) >= len(s.Data) {
			continue
		}
		dict := raw.Dict()
		if s.Dict != nil {
			for k, v := range s.Dict.KV {
				dict.KV[k] = v
			}
		}
		dict.Set(raw.NameLiteral("Filter"), raw.NameLiteral(enc.Name()))
		store.Put(ref, raw.NewStream(dict, data))

		stats.StreamsCompressed++
		stats.BytesSaved += int64(len(s.Data) - len(data))
		o.log.Debug("stream compressed",
			observability.Stringer("ref", ref),
			observability.Int("raw", len(s.Data)),
			observability.Int("encoded", len(data)),
		)
	}
	return nil
}
