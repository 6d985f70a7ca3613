// Package verify reads a written PDF back with an independent parser.
package verify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/wudi/textpdf/xref"
)

var ErrInvalid = errors.New("pdf failed verification")

func init() {
	// Keep pdfcpu from creating a config directory under $HOME.
	model.ConfigPath = "disable"
}

// Report summarizes what the parser found.
type Report struct {
	Version  string
	Pages    int
	RootType string
	Lang     string
	Width    float64
	Height   float64
	Fonts    []string
	Objects  int
}

// File checks the cross-reference table of the PDF at path, validates the
// file with pdfcpu and reports the catalog and first page.
func File(path string) (*Report, error) {
	objects, err := checkXRef(path)
	if err != nil {
		return nil, err
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	r := &Report{
		Version: ctx.VersionString(),
		Pages:   ctx.PageCount,
		Objects: objects,
	}
	if t := ctx.RootDict.NameEntry("Type"); t != nil {
		r.RootType = *t
	}
	if o, ok := ctx.RootDict.Find("Lang"); ok {
		if s, ok := o.(types.StringLiteral); ok {
			r.Lang = s.Value()
		}
	}
	if r.Pages == 0 {
		return r, nil
	}

	_, _, inh, err := ctx.PageDict(1, false)
	if err != nil {
		return nil, fmt.Errorf("%w: page 1: %v", ErrInvalid, err)
	}
	if inh == nil {
		return r, nil
	}
	if inh.MediaBox != nil {
		r.Width = inh.MediaBox.Width()
		r.Height = inh.MediaBox.Height()
	}
	fonts, err := fontNames(ctx, inh.Resources)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	r.Fonts = fonts
	return r, nil
}

func fontNames(ctx *model.Context, resources types.Dict) ([]string, error) {
	if resources == nil {
		return nil, nil
	}
	o, ok := resources.Find("Font")
	if !ok {
		return nil, nil
	}
	fontDict, err := ctx.DereferenceDict(o)
	if err != nil {
		return nil, fmt.Errorf("font resources: %w", err)
	}
	var names []string
	for key, entry := range fontDict {
		d, err := ctx.DereferenceDict(entry)
		if err != nil {
			return nil, fmt.Errorf("font %s: %w", key, err)
		}
		if d == nil {
			continue
		}
		if base := d.NameEntry("BaseFont"); base != nil {
			names = append(names, *base)
		}
	}
	sort.Strings(names)
	return names, nil
}

func checkXRef(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	t, err := xref.Check(context.Background(), f)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return len(t.Objects()), nil
}
