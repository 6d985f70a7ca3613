package builder

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/wudi/textpdf/contentstream"
	"github.com/wudi/textpdf/ir/raw"
	"github.com/wudi/textpdf/scripting"
)

// Store registers objects and hands out their identifiers.
type Store interface {
	Register(obj raw.Object) raw.ObjectRef
	// Reserve allocates an identifier whose value is supplied later via Put.
	Reserve() raw.ObjectRef
	Put(ref raw.ObjectRef, obj raw.Object)
	SetTrailer(key string, obj raw.Object)
}

// Encoder turns content operations into stream bytes.
type Encoder interface {
	Encode(ops []contentstream.Operation) ([]byte, error)
}

// PageSpec describes the single page to assemble.
type PageSpec struct {
	BaseFont string
	Content  *ContentBuilder

	// Optional catalog and info entries.
	Lang       string
	OpenAction string
	Title      string
	Producer   string
	Created    time.Time
}

// Assemble registers font, resources, content stream, page, page tree and
// catalog in that order, then points the trailer root at the catalog.
// Content is built and encoded before anything is registered, so a
// configuration or encoding failure leaves the store untouched.
func Assemble(store Store, enc Encoder, spec PageSpec) (raw.ObjectRef, error) {
	if spec.Content == nil {
		return raw.ObjectRef{}, errors.New("assemble: no content")
	}
	var lang language.Tag
	if spec.Lang != "" {
		tag, err := language.Parse(spec.Lang)
		if err != nil {
			return raw.ObjectRef{}, fmt.Errorf("%w: language %q: %v", ErrConfiguration, spec.Lang, err)
		}
		lang = tag
	}
	if spec.OpenAction != "" {
		if err := scripting.Validate(spec.OpenAction); err != nil {
			return raw.ObjectRef{}, fmt.Errorf("%w: open action: %v", ErrConfiguration, err)
		}
	}

	content, err := spec.Content.Build()
	if err != nil {
		return raw.ObjectRef{}, err
	}
	data, err := enc.Encode(content.Operations)
	if err != nil {
		return raw.ObjectRef{}, fmt.Errorf("encode content: %w", err)
	}

	fontRef := store.Register(Font(spec.BaseFont))
	resourcesRef := store.Register(Resources(fontRef))
	pagesRef := store.Reserve()
	contentRef := store.Register(raw.NewStream(raw.Dict(), data))

	pageRef := store.Register(Page(pagesRef, contentRef))
	store.Put(pagesRef, Pages(pageRef, resourcesRef))

	catalog := Catalog(pagesRef)
	if spec.Lang != "" {
		catalog.Set(name("Lang"), raw.Str([]byte(lang.String())))
	}
	if spec.OpenAction != "" {
		action := raw.Dict()
		action.Set(name("S"), name("JavaScript"))
		action.Set(name("JS"), raw.Str([]byte(spec.OpenAction)))
		catalog.Set(name("OpenAction"), action)
	}
	catalogRef := store.Register(catalog)

	if spec.Title != "" {
		store.SetTrailer("Info", raw.RefTo(store.Register(Info(spec.Title, spec.Producer, spec.Created))))
	}
	store.SetTrailer("Root", raw.RefTo(catalogRef))
	return catalogRef, nil
}

// Info returns a document information dictionary. Empty producer and zero
// time are omitted.
func Info(title, producer string, created time.Time) *raw.DictObj {
	d := raw.Dict()
	d.Set(name("Title"), raw.Str([]byte(title)))
	if producer != "" {
		d.Set(name("Producer"), raw.Str([]byte(producer)))
	}
	if !created.IsZero() {
		d.Set(name("CreationDate"), raw.Str([]byte(FormatDate(created))))
	}
	return d
}

// FormatDate renders t as a PDF date string, D:YYYYMMDDHHmmSS+HH'mm'.
func FormatDate(t time.Time) string {
	_, offset := t.Zone()
	sign := byte('+')
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	if offset == 0 {
		return t.Format("D:20060102150405") + "Z"
	}
	return fmt.Sprintf("%s%c%02d'%02d'", t.Format("D:20060102150405"), sign, offset/3600, offset%3600/60)
}
