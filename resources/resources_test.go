package resources_test

import (
	"errors"
	"testing"

	"github.com/wudi/textpdf/builder"
	"github.com/wudi/textpdf/document"
	"github.com/wudi/textpdf/ir/raw"
	"github.com/wudi/textpdf/resources"
)

func pageOf(t *testing.T, d *document.Document) *raw.DictObj {
	t.Helper()
	for _, ref := range d.Refs() {
		obj, _ := d.Get(ref)
		if dict, ok := obj.(*raw.DictObj); ok {
			if typ, ok := dict.Lookup("Type"); ok && typ == raw.NameLiteral("Page") {
				return dict
			}
		}
	}
	t.Fatalf("no page")
	return nil
}

func TestBaseFontInheritedFromPages(t *testing.T) {
	d := document.New("")
	content := builder.NewContent().Font(builder.FontResourceName, 48).Position(100, 600).Text("good bye")
	if _, err := builder.Assemble(d, d, builder.PageSpec{BaseFont: "Courier", Content: content}); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	page := pageOf(t, d)

	base, err := resources.BaseFont(d, page, builder.FontResourceName)
	if err != nil {
		t.Fatalf("BaseFont: %v", err)
	}
	if base != "Courier" {
		t.Fatalf("BaseFont = %q", base)
	}

	if _, err := resources.Lookup(d, page, resources.CategoryFont, "F2"); !errors.Is(err, resources.ErrNotFound) {
		t.Fatalf("F2 lookup err = %v", err)
	}
	if _, err := resources.Lookup(d, page, resources.CategoryXObject, "Im1"); !errors.Is(err, resources.ErrNotFound) {
		t.Fatalf("XObject lookup err = %v", err)
	}
}

func TestNearestResourcesWin(t *testing.T) {
	d := document.New("")
	outer := d.Add(builder.Font("Helvetica"))
	inner := d.Add(builder.Font("Times-Roman"))
	pages := d.Add(raw.Dict())
	pagesDict := raw.Dict()
	pagesDict.Set(raw.NameLiteral("Resources"), builder.Resources(outer))
	d.Put(pages, pagesDict)

	page := builder.Page(pages, raw.ObjectRef{Num: 99})
	page.Set(raw.NameLiteral("Resources"), builder.Resources(inner))

	base, err := resources.BaseFont(d, page, builder.FontResourceName)
	if err != nil || base != "Times-Roman" {
		t.Fatalf("BaseFont = %q, %v", base, err)
	}
}

func TestCyclicTree(t *testing.T) {
	d := document.New("")
	ref := d.Reserve()
	node := raw.Dict()
	node.Set(raw.NameLiteral("Parent"), raw.RefTo(ref))
	d.Put(ref, node)

	if _, err := resources.Lookup(d, node, resources.CategoryFont, "F1"); err == nil || errors.Is(err, resources.ErrNotFound) {
		t.Fatalf("err = %v, want depth error", err)
	}
}

func TestDanglingParent(t *testing.T) {
	d := document.New("")
	node := raw.Dict()
	node.Set(raw.NameLiteral("Parent"), raw.Ref(42, 0))
	if _, err := resources.Lookup(d, node, resources.CategoryFont, "F1"); err == nil {
		t.Fatalf("expected dangling reference error")
	}
}
