// Package resources looks up named page resources, following the page tree
// upward the way viewers resolve inherited /Resources.
package resources

import (
	"errors"
	"fmt"

	"github.com/wudi/textpdf/ir/raw"
)

type Category string

const (
	CategoryFont    Category = "Font"
	CategoryXObject Category = "XObject"
)

// maxDepth bounds the Parent chain so a cyclic tree cannot loop forever.
const maxDepth = 32

var ErrNotFound = errors.New("resource not found")

// Resolver dereferences indirect objects.
type Resolver interface {
	Resolve(obj raw.Object) (raw.Object, error)
}

// Lookup finds category/name starting at node and walking /Parent links.
// The nearest /Resources dictionary that defines the name wins.
func Lookup(r Resolver, node *raw.DictObj, category Category, name string) (raw.Object, error) {
	for depth := 0; node != nil; depth++ {
		if depth == maxDepth {
			return nil, fmt.Errorf("page tree deeper than %d levels", maxDepth)
		}
		res, err := dictEntry(r, node, "Resources")
		if err != nil {
			return nil, err
		}
		if res != nil {
			group, err := dictEntry(r, res, string(category))
			if err != nil {
				return nil, err
			}
			if group != nil {
				if obj, ok := group.Lookup(name); ok {
					return r.Resolve(obj)
				}
			}
		}
		node, err = dictEntry(r, node, "Parent")
		if err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, category, name)
}

// BaseFont returns the /BaseFont of the font resource name visible from node.
func BaseFont(r Resolver, node *raw.DictObj, name string) (string, error) {
	obj, err := Lookup(r, node, CategoryFont, name)
	if err != nil {
		return "", err
	}
	font, ok := obj.(*raw.DictObj)
	if !ok {
		return "", fmt.Errorf("font %s is %s, not a dictionary", name, obj.Type())
	}
	base, ok := font.Lookup("BaseFont")
	if !ok {
		return "", fmt.Errorf("font %s has no /BaseFont", name)
	}
	n, ok := base.(raw.NameObj)
	if !ok {
		return "", fmt.Errorf("font %s /BaseFont is %s", name, base.Type())
	}
	return n.Value(), nil
}

func dictEntry(r Resolver, d *raw.DictObj, key string) (*raw.DictObj, error) {
	v, ok := d.Lookup(key)
	if !ok {
		return nil, nil
	}
	obj, err := r.Resolve(v)
	if err != nil {
		return nil, fmt.Errorf("/%s: %w", key, err)
	}
	dict, ok := obj.(*raw.DictObj)
	if !ok {
		return nil, fmt.Errorf("/%s is %s, not a dictionary", key, obj.Type())
	}
	return dict, nil
}
