package writer

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/wudi/textpdf/contentstream"
	"github.com/wudi/textpdf/ir/raw"
)

func pdfVersion(cfg Config, src Source) string {
	if cfg.Version != "" {
		return string(cfg.Version)
	}
	if v := src.Version(); v != "" {
		return v
	}
	return string(PDF17)
}

// fileID returns the trailer /ID pair. Deterministic output hashes the
// serialized body so identical documents get identical IDs.
func fileID(body []byte, cfg Config) [2][]byte {
	sum := blake2b.Sum256(body)
	seed := sum[:16]
	if cfg.Deterministic {
		return [2][]byte{seed, seed}
	}
	id := make([]byte, 16)
	if _, err := rand.Read(id); err != nil {
		id = seed
	}
	return [2][]byte{seed, id}
}

func buildTrailer(src *raw.DictObj, size int, ids [2][]byte) *raw.DictObj {
	trailer := raw.Dict()
	for k, v := range src.KV {
		trailer.KV[k] = v
	}
	trailer.Set(raw.NameLiteral("Size"), raw.NumberInt(int64(size)))
	if _, ok := trailer.Lookup("ID"); !ok {
		trailer.Set(raw.NameLiteral("ID"), raw.NewArray(raw.HexStr(ids[0]), raw.HexStr(ids[1])))
	}
	return trailer
}

func writePrimitive(b *bytes.Buffer, o raw.Object) error {
	switch v := o.(type) {
	case raw.NameObj:
		b.WriteByte('/')
		b.WriteString(contentstream.EscapeName(v.Value()))
	case raw.NumberObj:
		if v.IsInteger() {
			fmt.Fprintf(b, "%d", v.Int())
			return nil
		}
		s, err := contentstream.FormatNumber(v.Float())
		if err != nil {
			return err
		}
		b.WriteString(s)
	case raw.BoolObj:
		if v.Value() {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case raw.NullObj:
		b.WriteString("null")
	case raw.StringObj:
		if v.IsHex() {
			b.WriteByte('<')
			b.WriteString(strings.ToUpper(hex.EncodeToString(v.Value())))
			b.WriteByte('>')
			return nil
		}
		b.Write(contentstream.EscapeLiteralString(v.Value()))
	case *raw.ArrayObj:
		b.WriteByte('[')
		for i, it := range v.Items {
			if i > 0 {
				b.WriteByte(' ')
			}
			if err := writePrimitive(b, it); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case *raw.DictObj:
		b.WriteString("<<")
		for _, k := range v.SortedKeys() {
			b.WriteString(" /" + contentstream.EscapeName(k) + " ")
			if err := writePrimitive(b, v.KV[k]); err != nil {
				return fmt.Errorf("/%s: %w", k, err)
			}
		}
		b.WriteString(" >>")
	case *raw.StreamObj:
		dict := raw.Dict()
		if v.Dict != nil {
			for k, val := range v.Dict.KV {
				dict.KV[k] = val
			}
		}
		dict.Set(raw.NameLiteral("Length"), raw.NumberInt(int64(len(v.Data))))
		if err := writePrimitive(b, dict); err != nil {
			return err
		}
		b.WriteString("\nstream\n")
		b.Write(v.Data)
		b.WriteString("\nendstream")
	case raw.RefObj:
		fmt.Fprintf(b, "%d %d R", v.Ref().Num, v.Ref().Gen)
	case nil:
		b.WriteString("null")
	default:
		return fmt.Errorf("cannot serialize %T", o)
	}
	return nil
}
