package builder

import "github.com/wudi/textpdf/ir/raw"

// FontResourceName is the only font slot Resources knows about.
const FontResourceName = "F1"

// MediaBox is the fixed page rectangle in points (ISO A4).
var MediaBox = [4]int64{0, 0, 595, 842}

func name(v string) raw.NameObj { return raw.NameLiteral(v) }

// Font returns a simple Type1 font dictionary. The base font name is not
// checked against the standard 14 fonts.
func Font(base string) *raw.DictObj {
	d := raw.Dict()
	d.Set(name("Type"), name("Font"))
	d.Set(name("Subtype"), name("Type1"))
	d.Set(name("BaseFont"), name(base))
	return d
}

// Resources returns a resource dictionary whose Font map has a single
// entry, F1, pointing at font.
func Resources(font raw.ObjectRef) *raw.DictObj {
	fonts := raw.Dict()
	fonts.Set(name(FontResourceName), raw.RefTo(font))
	d := raw.Dict()
	d.Set(name("Font"), fonts)
	return d
}

// Page returns a page dictionary. The caller must list the page in the
// Kids of pages.
func Page(pages, contents raw.ObjectRef) *raw.DictObj {
	d := raw.Dict()
	d.Set(name("Type"), name("Page"))
	d.Set(name("Parent"), raw.RefTo(pages))
	d.Set(name("Contents"), raw.RefTo(contents))
	return d
}

// Pages returns a page tree root holding exactly one kid.
func Pages(page, resources raw.ObjectRef) *raw.DictObj {
	box := raw.NewArray()
	for _, v := range MediaBox {
		box.Append(raw.NumberInt(v))
	}
	d := raw.Dict()
	d.Set(name("Type"), name("Pages"))
	d.Set(name("Kids"), raw.NewArray(raw.RefTo(page)))
	d.Set(name("Count"), raw.NumberInt(1))
	d.Set(name("Resources"), raw.RefTo(resources))
	d.Set(name("MediaBox"), box)
	return d
}

// Catalog returns the document catalog pointing at the page tree.
func Catalog(pages raw.ObjectRef) *raw.DictObj {
	d := raw.Dict()
	d.Set(name("Type"), name("Catalog"))
	d.Set(name("Pages"), raw.RefTo(pages))
	return d
}
