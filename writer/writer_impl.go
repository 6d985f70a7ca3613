package writer

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/wudi/textpdf/ir/raw"
)

var ErrMissingRoot = errors.New("trailer has no /Root")

type impl struct{ interceptors []Interceptor }

func (w *impl) SerializeObject(ref raw.ObjectRef, obj raw.Object) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d %d obj\n", ref.Num, ref.Gen)
	if err := writePrimitive(&buf, obj); err != nil {
		return nil, fmt.Errorf("object %s: %w", ref, err)
	}
	buf.WriteString("\nendobj\n")
	return buf.Bytes(), nil
}

func (w *impl) Write(out io.Writer, src Source, cfg Config) (int64, error) {
	if src.Trailer() == nil {
		return 0, ErrMissingRoot
	}
	root, ok := src.Trailer().Lookup("Root")
	if !ok {
		return 0, ErrMissingRoot
	}
	if _, ok := root.(raw.RefObj); !ok {
		return 0, fmt.Errorf("trailer /Root must be a reference, got %s", root.Type())
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n%%\xE2\xE3\xCF\xD3\n", pdfVersion(cfg, src))

	offsets := make(map[int]int64)
	maxObjNum := 0
	for _, ref := range src.Refs() {
		obj, ok := src.Get(ref)
		if !ok {
			continue
		}
		for _, ic := range w.interceptors {
			if err := ic.BeforeWrite(ref, obj); err != nil {
				return 0, err
			}
		}
		serialized, err := w.SerializeObject(ref, obj)
		if err != nil {
			return 0, err
		}
		offsets[ref.Num] = int64(buf.Len())
		buf.Write(serialized)
		for _, ic := range w.interceptors {
			if err := ic.AfterWrite(ref, obj, int64(len(serialized))); err != nil {
				return 0, err
			}
		}
		if ref.Num > maxObjNum {
			maxObjNum = ref.Num
		}
	}

	ids := fileID(buf.Bytes(), cfg)
	xrefOffset := buf.Len()
	writeXRefTable(&buf, offsets, maxObjNum)

	trailer := buildTrailer(src.Trailer(), maxObjNum+1, ids)
	buf.WriteString("trailer\n")
	if err := writePrimitive(&buf, trailer); err != nil {
		return 0, fmt.Errorf("trailer: %w", err)
	}
	fmt.Fprintf(&buf, "\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	n, err := out.Write(buf.Bytes())
	return int64(n), err
}

func writeXRefTable(buf *bytes.Buffer, offsets map[int]int64, maxObjNum int) {
	fmt.Fprintf(buf, "xref\n0 %d\n", maxObjNum+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= maxObjNum; i++ {
		if off, ok := offsets[i]; ok {
			fmt.Fprintf(buf, "%010d 00000 n \n", off)
		} else {
			buf.WriteString("0000000000 65535 f \n")
		}
	}
}
