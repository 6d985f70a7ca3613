// Package xref reads the classic cross-reference table of a written file
// and checks it against the object headers it points at.
package xref

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var ErrMalformed = errors.New("malformed cross-reference")

type entry struct {
	offset int64
	gen    int
}

// Table holds the in-use entries of one xref section.
type Table struct {
	entries   map[int]entry
	count     int
	startXRef int64
	size      int
}

// Lookup returns the byte offset and generation of an in-use object.
func (t *Table) Lookup(objNum int) (offset int64, gen int, found bool) {
	e, ok := t.entries[objNum]
	if !ok {
		return 0, 0, false
	}
	return e.offset, e.gen, true
}

// Objects returns the in-use object numbers in ascending order.
func (t *Table) Objects() []int {
	out := make([]int, 0, len(t.entries))
	for k := range t.entries {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// Count is the number of entries in the section, free ones included.
func (t *Table) Count() int { return t.count }

// Size is the trailer /Size value, or -1 if the trailer has none.
func (t *Table) Size() int { return t.size }

func (t *Table) StartXRef() int64 { return t.startXRef }

var sizePattern = regexp.MustCompile(`/Size\s+(\d+)`)

// Read locates startxref and parses the single classic table it names.
// Cross-reference streams and incremental updates are not supported.
func Read(ctx context.Context, r io.ReaderAt) (*Table, error) {
	data := readAll(r)

	startxref := bytes.LastIndex(data, []byte("startxref"))
	if startxref < 0 {
		return nil, fmt.Errorf("%w: startxref not found", ErrMalformed)
	}
	rest := data[startxref+len("startxref"):]
	lines := bufio.NewScanner(bytes.NewReader(rest))
	var offset int64 = -1
	for lines.Scan() {
		text := strings.TrimSpace(lines.Text())
		if text == "" {
			continue
		}
		val, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: parse startxref: %v", ErrMalformed, err)
		}
		offset = val
		break
	}
	if offset <= 0 || offset >= int64(len(data)) {
		return nil, fmt.Errorf("%w: xref offset out of range: %d", ErrMalformed, offset)
	}

	t := &Table{entries: make(map[int]entry), startXRef: offset, size: -1}
	sc := bufio.NewScanner(bytes.NewReader(data[offset:]))
	if !sc.Scan() || strings.TrimSpace(sc.Text()) != "xref" {
		return nil, fmt.Errorf("%w: xref keyword not found at offset %d", ErrMalformed, offset)
	}

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "trailer") {
			break
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: invalid subsection header %q", ErrMalformed, line)
		}
		startObj, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("%w: parse xref start: %v", ErrMalformed, err)
		}
		count, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("%w: parse xref count: %v", ErrMalformed, err)
		}

		for i := 0; i < count; i++ {
			if !sc.Scan() {
				return nil, fmt.Errorf("%w: unexpected end of xref section", ErrMalformed)
			}
			// Entries are exactly 20 bytes: the scanner strips the final newline.
			rec := sc.Text()
			if len(rec) != 19 {
				return nil, fmt.Errorf("%w: entry %d is %d bytes", ErrMalformed, startObj+i, len(rec)+1)
			}
			fields := strings.Fields(rec)
			if len(fields) != 3 {
				return nil, fmt.Errorf("%w: invalid entry %q", ErrMalformed, rec)
			}
			off, err := strconv.ParseInt(fields[0], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: parse offset: %v", ErrMalformed, err)
			}
			gen, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("%w: parse generation: %v", ErrMalformed, err)
			}
			t.count++
			switch fields[2] {
			case "n":
				t.entries[startObj+i] = entry{offset: off, gen: gen}
			case "f":
			default:
				return nil, fmt.Errorf("%w: entry type %q", ErrMalformed, fields[2])
			}
		}
	}

	if m := sizePattern.FindSubmatch(data[offset:]); m != nil {
		t.size, _ = strconv.Atoi(string(m[1]))
	}
	return t, nil
}

// Check reads the table and confirms that every in-use entry points at the
// matching "num gen obj" header and that the trailer /Size covers the table.
func Check(ctx context.Context, r io.ReaderAt) (*Table, error) {
	t, err := Read(ctx, r)
	if err != nil {
		return nil, err
	}
	if t.size != t.count {
		return nil, fmt.Errorf("%w: trailer /Size %d, table has %d entries", ErrMalformed, t.size, t.count)
	}
	for _, num := range t.Objects() {
		e := t.entries[num]
		want := fmt.Sprintf("%d %d obj", num, e.gen)
		got := make([]byte, len(want))
		if _, err := r.ReadAt(got, e.offset); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read object %d: %w", num, err)
		}
		if string(got) != want {
			return nil, fmt.Errorf("%w: object %d offset %d holds %q", ErrMalformed, num, e.offset, got)
		}
	}
	return t, nil
}

func readAll(r io.ReaderAt) []byte {
	var buf bytes.Buffer
	const chunk = int64(32 * 1024)
	for off := int64(0); ; off += chunk {
		tmp := make([]byte, chunk)
		n, err := r.ReadAt(tmp, off)
		if n > 0 {
			buf.Write(tmp[:n])
		}
		if err != nil {
			break
		}
		if int64(n) < chunk {
			break
		}
	}
	return buf.Bytes()
}
