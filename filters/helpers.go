package filters

import "github.com/wudi/textpdf/ir/raw"

// Filtered reports whether a stream dictionary already names a filter.
func Filtered(dict *raw.DictObj) bool {
	if dict == nil {
		return false
	}
	_, ok := dict.Lookup("Filter")
	return ok
}

// ExtractFilters returns the /Filter names of a stream dictionary and the
// matching /DecodeParms entries. Both entries may be a single value or an
// array; non-name filters and non-dictionary params are skipped.
func ExtractFilters(dict raw.Dictionary) (names []string, params []raw.Dictionary) {
	f, ok := dict.Get(raw.NameLiteral("Filter"))
	if !ok {
		return nil, nil
	}
	for _, item := range items(f) {
		if n, ok := item.(raw.Name); ok {
			names = append(names, n.Value())
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	if p, ok := dict.Get(raw.NameLiteral("DecodeParms")); ok {
		for _, item := range items(p) {
			if d, ok := item.(raw.Dictionary); ok {
				params = append(params, d)
			}
		}
	}
	return names, params
}

func items(o raw.Object) []raw.Object {
	if a, ok := o.(*raw.ArrayObj); ok {
		return a.Items
	}
	return []raw.Object{o}
}
