package writer

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/wudi/textpdf/ir/raw"
)

type memSource struct {
	version string
	objects map[raw.ObjectRef]raw.Object
	order   []raw.ObjectRef
	trailer *raw.DictObj
}

func newMemSource() *memSource {
	return &memSource{objects: map[raw.ObjectRef]raw.Object{}, trailer: raw.Dict()}
}

func (m *memSource) add(num int, obj raw.Object) raw.ObjectRef {
	ref := raw.ObjectRef{Num: num}
	m.objects[ref] = obj
	m.order = append(m.order, ref)
	return ref
}

func (m *memSource) Version() string                        { return m.version }
func (m *memSource) Refs() []raw.ObjectRef                  { return m.order }
func (m *memSource) Get(r raw.ObjectRef) (raw.Object, bool) { o, ok := m.objects[r]; return o, ok }
func (m *memSource) Trailer() *raw.DictObj                  { return m.trailer }

func onePage() *memSource {
	src := newMemSource()
	font := raw.Dict()
	font.Set(raw.NameLiteral("Type"), raw.NameLiteral("Font"))
	font.Set(raw.NameLiteral("BaseFont"), raw.NameLiteral("Courier"))
	src.add(1, font)
	src.add(2, raw.NewStream(raw.Dict(), []byte("BT /F1 48 Tf 100 600 Td (good bye) Tj ET\n")))
	catalog := raw.Dict()
	catalog.Set(raw.NameLiteral("Type"), raw.NameLiteral("Catalog"))
	src.add(3, catalog)
	src.trailer.Set(raw.NameLiteral("Root"), raw.Ref(3, 0))
	return src
}

func write(t *testing.T, w Writer, src Source, cfg Config) []byte {
	t.Helper()
	var buf bytes.Buffer
	n, err := w.Write(&buf, src, cfg)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Fatalf("reported %d bytes, wrote %d", n, buf.Len())
	}
	return buf.Bytes()
}

func TestWriteStructure(t *testing.T) {
	out := write(t, NewWriter(), onePage(), Config{})
	s := string(out)

	if !strings.HasPrefix(s, "%PDF-1.7\n%\xE2\xE3\xCF\xD3\n") {
		t.Fatalf("bad header: %q", s[:20])
	}
	if !strings.HasSuffix(s, "%%EOF\n") {
		t.Fatalf("missing EOF marker")
	}
	for _, want := range []string{
		"1 0 obj\n<< /BaseFont /Courier /Type /Font >>\nendobj\n",
		"<< /Length 41 >>\nstream\nBT /F1 48 Tf 100 600 Td (good bye) Tj ET\n\nendstream",
		"/Root 3 0 R",
		"/Size 4",
		"xref\n0 4\n0000000000 65535 f \n",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestXRefOffsetsPointAtObjects(t *testing.T) {
	out := write(t, NewWriter(), onePage(), Config{})

	m := regexp.MustCompile(`startxref\n(\d+)\n`).FindSubmatch(out)
	if m == nil {
		t.Fatalf("no startxref")
	}
	xrefAt, _ := strconv.Atoi(string(m[1]))
	if !bytes.HasPrefix(out[xrefAt:], []byte("xref\n")) {
		t.Fatalf("startxref %d does not point at xref", xrefAt)
	}
	lines := strings.Split(string(out[xrefAt:]), "\n")
	for num := 1; num <= 3; num++ {
		entry := lines[2+num]
		if len(entry) != 19 {
			t.Fatalf("xref entry %d has length %d: %q", num, len(entry), entry)
		}
		off, err := strconv.Atoi(entry[:10])
		if err != nil {
			t.Fatalf("entry %q: %v", entry, err)
		}
		header := fmt.Sprintf("%d 0 obj\n", num)
		if !bytes.HasPrefix(out[off:], []byte(header)) {
			t.Fatalf("offset %d for object %d points at %q", off, num, out[off:off+10])
		}
	}
}

func TestGapsAreFreeEntries(t *testing.T) {
	src := newMemSource()
	src.add(1, raw.Dict())
	src.add(3, raw.Dict())
	src.trailer.Set(raw.NameLiteral("Root"), raw.Ref(1, 0))
	out := string(write(t, NewWriter(), src, Config{}))
	if !strings.Contains(out, "0 4\n0000000000 65535 f \n0000000015 00000 n \n0000000000 65535 f \n") {
		t.Fatalf("unexpected xref:\n%s", out)
	}
}

func TestMissingRoot(t *testing.T) {
	src := newMemSource()
	src.add(1, raw.Dict())
	_, err := NewWriter().Write(&bytes.Buffer{}, src, Config{})
	if !errors.Is(err, ErrMissingRoot) {
		t.Fatalf("err = %v, want ErrMissingRoot", err)
	}

	src.trailer.Set(raw.NameLiteral("Root"), raw.NameLiteral("Catalog"))
	if _, err := NewWriter().Write(&bytes.Buffer{}, src, Config{}); err == nil {
		t.Fatalf("direct /Root accepted")
	}
}

func TestDeterministicID(t *testing.T) {
	cfg := Config{Deterministic: true}
	a := write(t, NewWriter(), onePage(), cfg)
	b := write(t, NewWriter(), onePage(), cfg)
	if !bytes.Equal(a, b) {
		t.Fatalf("deterministic output differs between runs")
	}
	id := regexp.MustCompile(`/ID \[<([0-9A-F]{32})> <([0-9A-F]{32})>\]`).FindSubmatch(a)
	if id == nil {
		t.Fatalf("no /ID in trailer")
	}
	if !bytes.Equal(id[1], id[2]) {
		t.Fatalf("deterministic ID halves differ")
	}
}

func TestRandomIDKeepsContentHalf(t *testing.T) {
	re := regexp.MustCompile(`/ID \[<([0-9A-F]{32})> <([0-9A-F]{32})>\]`)
	a := re.FindSubmatch(write(t, NewWriter(), onePage(), Config{}))
	b := re.FindSubmatch(write(t, NewWriter(), onePage(), Config{}))
	if !bytes.Equal(a[1], b[1]) {
		t.Fatalf("content half of /ID differs")
	}
	if bytes.Equal(a[2], b[2]) {
		t.Fatalf("instance half of /ID repeated")
	}
}

func TestVersionFromConfigAndSource(t *testing.T) {
	src := onePage()
	src.version = "1.5"
	if out := write(t, NewWriter(), src, Config{}); !bytes.HasPrefix(out, []byte("%PDF-1.5\n")) {
		t.Fatalf("source version ignored: %q", out[:9])
	}
	if out := write(t, NewWriter(), src, Config{Version: PDF17}); !bytes.HasPrefix(out, []byte("%PDF-1.7\n")) {
		t.Fatalf("config version ignored: %q", out[:9])
	}
}

func TestSerializeObjectEscaping(t *testing.T) {
	d := raw.Dict()
	d.Set(raw.NameLiteral("Title"), raw.Str([]byte("a (b) \\ c")))
	d.Set(raw.NameLiteral("Odd Name"), raw.NumberFloat(0.5))
	d.Set(raw.NameLiteral("Flags"), raw.NewArray(raw.Bool(true), raw.NullObj{}, raw.HexStr([]byte{0xAB, 0x01})))
	got, err := NewWriter().SerializeObject(raw.ObjectRef{Num: 7}, d)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	want := "7 0 obj\n<< /Flags [true null <AB01>] /Odd#20Name 0.5 /Title (a \\(b\\) \\\\ c) >>\nendobj\n"
	if string(got) != want {
		t.Fatalf("got  %q\nwant %q", got, want)
	}
}

type countingInterceptor struct {
	before, after int
	bytes         int64
	failOn        int
}

func (c *countingInterceptor) BeforeWrite(ref raw.ObjectRef, _ raw.Object) error {
	c.before++
	if ref.Num == c.failOn {
		return errors.New("rejected")
	}
	return nil
}

func (c *countingInterceptor) AfterWrite(_ raw.ObjectRef, _ raw.Object, n int64) error {
	c.after++
	c.bytes += n
	return nil
}

func TestInterceptors(t *testing.T) {
	ic := &countingInterceptor{}
	write(t, (&WriterBuilder{}).WithInterceptor(ic).Build(), onePage(), Config{})
	if ic.before != 3 || ic.after != 3 || ic.bytes == 0 {
		t.Fatalf("interceptor saw %+v", ic)
	}

	failing := &countingInterceptor{failOn: 2}
	_, err := (&WriterBuilder{}).WithInterceptor(failing).Build().Write(&bytes.Buffer{}, onePage(), Config{})
	if err == nil || failing.after != 1 {
		t.Fatalf("err = %v, after = %d", err, failing.after)
	}
}
