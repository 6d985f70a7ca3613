package optimize

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/wudi/textpdf/filters"
	"github.com/wudi/textpdf/ir/raw"
)

type mapStore map[raw.ObjectRef]raw.Object

func (m mapStore) Refs() []raw.ObjectRef {
	refs := make([]raw.ObjectRef, 0, len(m))
	for r := range m {
		refs = append(refs, r)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Num < refs[j].Num })
	return refs
}
func (m mapStore) Get(r raw.ObjectRef) (raw.Object, bool) { o, ok := m[r]; return o, ok }
func (m mapStore) Put(r raw.ObjectRef, o raw.Object)      { m[r] = o }

func TestCompressStreams(t *testing.T) {
	shared := raw.Dict()
	shared.Set(raw.NameLiteral("Subtype"), raw.NameLiteral("Form"))
	body := strings.Repeat("BT /F1 12 Tf (abc) Tj ET\n", 40)
	store := mapStore{
		{Num: 1}: raw.NewStream(shared, []byte(body)),
		{Num: 2}: raw.NewStream(nil, []byte("q")),
		{Num: 3}: raw.Dict(),
	}

	stats, err := New(DefaultConfig()).Optimize(context.Background(), store)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if stats.StreamsCompressed != 1 || stats.BytesSaved <= 0 {
		t.Fatalf("stats = %+v", stats)
	}

	s := store[raw.ObjectRef{Num: 1}].(*raw.StreamObj)
	if f, _ := s.Dict.Lookup("Filter"); f != raw.NameLiteral(filters.FlateDecode) {
		t.Fatalf("Filter = %v", f)
	}
	if _, ok := s.Dict.Lookup("Subtype"); !ok {
		t.Fatalf("existing entries dropped")
	}
	if _, ok := shared.Lookup("Filter"); ok {
		t.Fatalf("original dictionary mutated")
	}
	out, err := filters.NewDefaultPipeline().DecodeStream(context.Background(), s)
	if err != nil || string(out) != body {
		t.Fatalf("decode: %v", err)
	}

	if store[raw.ObjectRef{Num: 2}].(*raw.StreamObj).Dict != nil {
		t.Fatalf("tiny stream was rewritten")
	}
}

func TestOptimizeDisabled(t *testing.T) {
	store := mapStore{{Num: 1}: raw.NewStream(nil, []byte(strings.Repeat("x", 500)))}
	stats, err := New(Config{}).Optimize(context.Background(), store)
	if err != nil || stats.StreamsCompressed != 0 {
		t.Fatalf("stats = %+v, err = %v", stats, err)
	}
}

func TestOptimizeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := mapStore{{Num: 1}: raw.NewStream(nil, []byte("x"))}
	if _, err := New(DefaultConfig()).Optimize(ctx, store); err == nil {
		t.Fatalf("expected cancellation error")
	}
}
