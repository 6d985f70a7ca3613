// Package document is the in-memory object store for a PDF file: it assigns
// object numbers, holds the trailer and writes the finished file.
package document

import (
	"compress/flate"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/wudi/textpdf/contentstream"
	"github.com/wudi/textpdf/filters"
	"github.com/wudi/textpdf/ir/raw"
	"github.com/wudi/textpdf/observability"
	"github.com/wudi/textpdf/optimize"
	"github.com/wudi/textpdf/writer"
)

// PDFVersion is the header version used by New when none is given.
const PDFVersion = "1.5"

// Document owns the object table. It is not safe for concurrent use.
type Document struct {
	version  string
	objects  map[raw.ObjectRef]raw.Object
	reserved map[raw.ObjectRef]bool
	nextNum  int
	trailer  *raw.DictObj

	log          observability.Logger
	compressLvl  int
	writerConfig writer.Config
	interceptors []writer.Interceptor
}

// Option configures a Document in New.
type Option func(*Document)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l observability.Logger) Option {
	return func(d *Document) { d.log = l }
}

// WithCompressionLevel sets the compress/flate level used by Compress.
func WithCompressionLevel(level int) Option {
	return func(d *Document) { d.compressLvl = level }
}

// WithDeterministicID makes the trailer /ID depend only on file content.
func WithDeterministicID(on bool) Option {
	return func(d *Document) { d.writerConfig.Deterministic = on }
}

// WithInterceptor adds a writer interceptor used by WriteTo and Save.
func WithInterceptor(i writer.Interceptor) Option {
	return func(d *Document) { d.interceptors = append(d.interceptors, i) }
}

// New creates an empty document with the given header version ("1.5" if empty).
func New(version string, opts ...Option) *Document {
	if version == "" {
		version = PDFVersion
	}
	d := &Document{
		version:     version,
		objects:     make(map[raw.ObjectRef]raw.Object),
		reserved:    make(map[raw.ObjectRef]bool),
		nextNum:     1,
		trailer:     raw.Dict(),
		log:         observability.NopLogger{},
		compressLvl: flate.DefaultCompression,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Document) Version() string { return d.version }

// Reserve allocates an object number without a value. The value is
// supplied later with Put.
func (d *Document) Reserve() raw.ObjectRef {
	ref := raw.ObjectRef{Num: d.nextNum}
	d.nextNum++
	d.reserved[ref] = true
	return ref
}

// Add registers obj under a fresh object number.
func (d *Document) Add(obj raw.Object) raw.ObjectRef {
	ref := raw.ObjectRef{Num: d.nextNum}
	d.nextNum++
	d.objects[ref] = obj
	return ref
}

// Register is Add under the name used by the builder capability interface.
func (d *Document) Register(obj raw.Object) raw.ObjectRef { return d.Add(obj) }

// Put stores obj under ref, replacing any previous value.
func (d *Document) Put(ref raw.ObjectRef, obj raw.Object) {
	delete(d.reserved, ref)
	if ref.Num >= d.nextNum {
		d.nextNum = ref.Num + 1
	}
	d.objects[ref] = obj
}

func (d *Document) Get(ref raw.ObjectRef) (raw.Object, bool) {
	obj, ok := d.objects[ref]
	return obj, ok
}

// Resolve follows an indirect reference; direct objects are returned as is.
func (d *Document) Resolve(obj raw.Object) (raw.Object, error) {
	r, ok := obj.(raw.RefObj)
	if !ok {
		return obj, nil
	}
	target, ok := d.objects[r.Ref()]
	if !ok {
		return nil, fmt.Errorf("dangling reference %s", r.Ref())
	}
	return target, nil
}

// Refs returns the filled object references in ascending order.
func (d *Document) Refs() []raw.ObjectRef {
	refs := make([]raw.ObjectRef, 0, len(d.objects))
	for ref := range d.objects {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Num != refs[j].Num {
			return refs[i].Num < refs[j].Num
		}
		return refs[i].Gen < refs[j].Gen
	})
	return refs
}

func (d *Document) Len() int { return len(d.objects) }

func (d *Document) Trailer() *raw.DictObj { return d.trailer }

// SetTrailer sets a named trailer entry.
func (d *Document) SetTrailer(key string, obj raw.Object) {
	d.trailer.Set(raw.NameLiteral(key), obj)
}

// SetRoot points the trailer at the catalog.
func (d *Document) SetRoot(catalog raw.ObjectRef) { d.SetTrailer("Root", raw.RefTo(catalog)) }

// Root returns the catalog dictionary referenced by the trailer.
func (d *Document) Root() (*raw.DictObj, error) {
	root, ok := d.trailer.Lookup("Root")
	if !ok {
		return nil, writer.ErrMissingRoot
	}
	obj, err := d.Resolve(root)
	if err != nil {
		return nil, err
	}
	dict, ok := obj.(*raw.DictObj)
	if !ok {
		return nil, fmt.Errorf("root is %s, not a dictionary", obj.Type())
	}
	return dict, nil
}

// Encode turns content-stream operations into stream bytes.
func (d *Document) Encode(ops []contentstream.Operation) ([]byte, error) {
	return contentstream.Encode(ops)
}

// Compress Flate-encodes every stream that carries no filter yet.
func (d *Document) Compress() error {
	stats, err := optimize.New(optimize.Config{
		CompressStreams:  true,
		CompressionLevel: d.compressLvl,
		Logger:           d.log,
	}).Optimize(context.Background(), d)
	if err != nil {
		return err
	}
	d.log.Debug("streams compressed",
		observability.Int("streams", stats.StreamsCompressed),
		observability.Int64("saved", stats.BytesSaved),
	)
	return nil
}

// DecodeStream returns the decoded data of the stream stored at ref.
func (d *Document) DecodeStream(ctx context.Context, ref raw.ObjectRef) ([]byte, error) {
	s, ok := d.objects[ref].(*raw.StreamObj)
	if !ok {
		return nil, fmt.Errorf("object %s is not a stream", ref)
	}
	return filters.NewDefaultPipeline().DecodeStream(ctx, s)
}

// WriteTo serializes the document. Reserved ids that were never filled are
// written as free xref entries.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	for ref := range d.reserved {
		d.log.Warn("reserved object never filled", observability.Stringer("ref", ref))
	}
	b := &writer.WriterBuilder{}
	for _, ic := range d.interceptors {
		b.WithInterceptor(ic)
	}
	start := time.Now()
	n, err := b.Build().Write(w, d, d.writerConfig)
	if err != nil {
		return n, err
	}
	d.log.Debug("document serialized",
		observability.Int(observability.MetricObjectCount, len(d.objects)),
		observability.Int64(observability.MetricWriteBytes, n),
		observability.String(observability.MetricWriteTime, time.Since(start).String()),
	)
	return n, nil
}

// Save writes the document to path. Output goes to a temporary file in the
// same directory first and is renamed into place only after a complete,
// synced write.
func (d *Document) Save(path string) (err error) {
	if path == "" {
		return errors.New("save: empty path")
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	n, err := d.WriteTo(tmp)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	d.log.Info("pdf saved", observability.String("path", path), observability.Int64("bytes", n))
	return nil
}
