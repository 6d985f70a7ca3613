// Package fonts knows the standard 14 Type1 font names and measures text
// against Go Mono, whose advances match the Courier family.
package fonts

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Standard14 lists the base fonts every PDF viewer provides.
var Standard14 = []string{
	"Courier", "Courier-Bold", "Courier-BoldOblique", "Courier-Oblique",
	"Helvetica", "Helvetica-Bold", "Helvetica-BoldOblique", "Helvetica-Oblique",
	"Symbol",
	"Times-Bold", "Times-BoldItalic", "Times-Italic", "Times-Roman",
	"ZapfDingbats",
}

// IsStandard reports whether base is one of the standard 14 fonts.
func IsStandard(base string) bool {
	i := sort.SearchStrings(Standard14, base)
	return i < len(Standard14) && Standard14[i] == base
}

// IsMonospaced reports whether Measure is exact for base.
func IsMonospaced(base string) bool { return strings.HasPrefix(base, "Courier") }

// VerticalMetrics are in thousandths of an em; Descent is negative.
type VerticalMetrics struct {
	Ascent  float64
	Descent float64
}

var (
	monoOnce    sync.Once
	monoMetrics VerticalMetrics
	monoErr     error
)

func loadMono() error {
	monoOnce.Do(func() {
		f, err := sfnt.Parse(gomono.TTF)
		if err != nil {
			monoErr = fmt.Errorf("parse go mono: %w", err)
			return
		}
		unitsPerEm := f.UnitsPerEm()
		ppem := fixed.Int26_6(unitsPerEm << 6)
		m, err := f.Metrics(&sfnt.Buffer{}, ppem, xfont.HintingNone)
		if err != nil {
			monoErr = fmt.Errorf("go mono metrics: %w", err)
			return
		}
		monoMetrics = VerticalMetrics{
			Ascent:  scaleFixed(m.Ascent, unitsPerEm),
			Descent: -scaleFixed(m.Descent, unitsPerEm),
		}
	})
	return monoErr
}

// Metrics returns the vertical metrics used for text boxes.
func Metrics() (VerticalMetrics, error) {
	if err := loadMono(); err != nil {
		return VerticalMetrics{}, err
	}
	return monoMetrics, nil
}

func scaleFixed(v fixed.Int26_6, unitsPerEm sfnt.Units) float64 {
	return float64(v) / 64 * 1000 / float64(unitsPerEm)
}
