package writer

import (
	"io"

	"github.com/wudi/textpdf/ir/raw"
)

type PDFVersion string

const (
	PDF15 PDFVersion = "1.5"
	PDF17 PDFVersion = "1.7"
)

// Config controls serialization. An empty Version defers to the source.
type Config struct {
	Version       PDFVersion
	Deterministic bool
}

// Source is the object table a Writer serializes.
type Source interface {
	Version() string
	// Refs returns the registered object references in ascending order.
	Refs() []raw.ObjectRef
	Get(ref raw.ObjectRef) (raw.Object, bool)
	Trailer() *raw.DictObj
}

type Writer interface {
	Write(out io.Writer, src Source, cfg Config) (int64, error)
	SerializeObject(ref raw.ObjectRef, obj raw.Object) ([]byte, error)
}

// Interceptor observes each indirect object as it is written.
type Interceptor interface {
	BeforeWrite(ref raw.ObjectRef, obj raw.Object) error
	AfterWrite(ref raw.ObjectRef, obj raw.Object, bytesWritten int64) error
}

type WriterBuilder struct{ interceptors []Interceptor }

func (b *WriterBuilder) WithInterceptor(i Interceptor) *WriterBuilder {
	b.interceptors = append(b.interceptors, i)
	return b
}
func (b *WriterBuilder) Build() Writer { return &impl{interceptors: b.interceptors} }

// NewWriter returns a Writer without interceptors.
func NewWriter() Writer { return &impl{} }
