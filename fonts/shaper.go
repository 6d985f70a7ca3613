package fonts

import (
	"bytes"
	"fmt"
	"sync"
	"unicode"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

var (
	faceOnce sync.Once
	monoFace *gofont.Face
	faceErr  error
)

func face() (*gofont.Face, error) {
	faceOnce.Do(func() {
		monoFace, faceErr = gofont.ParseTTF(bytes.NewReader(gomono.TTF))
		if faceErr != nil {
			faceErr = fmt.Errorf("load go mono face: %w", faceErr)
		}
	})
	return monoFace, faceErr
}

// Advance returns the shaped advance of text in thousandths of an em.
func Advance(text string) (float64, error) {
	if text == "" {
		return 0, nil
	}
	f, err := face()
	if err != nil {
		return 0, err
	}
	runes := []rune(text)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      f,
		// 1 em = 1000 units at this size.
		Size:     fixed.Int26_6(1000 * 64),
		Script:   detectScript(runes),
		Language: language.DefaultLanguage(),
	}
	out := (&shaping.HarfbuzzShaper{}).Shape(input)
	total := 0.0
	for _, g := range out.Glyphs {
		total += float64(g.XAdvance) / 64.0
	}
	return total, nil
}

// Measure returns the width of text in points at the given font size.
func Measure(text string, size float64) (float64, error) {
	adv, err := Advance(text)
	if err != nil {
		return 0, err
	}
	return adv / 1000 * size, nil
}

// Width adapts Measure to contentstream.WidthFunc. On failure it falls back
// to 600/1000 em per byte, the Courier advance.
func Width(text []byte, size float64) float64 {
	w, err := Measure(string(text), size)
	if err != nil {
		return float64(len(text)) * 0.6 * size
	}
	return w
}

func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		switch {
		case unicode.Is(unicode.Latin, r):
			return language.Latin
		case unicode.Is(unicode.Cyrillic, r):
			return language.Cyrillic
		case unicode.Is(unicode.Greek, r):
			return language.Greek
		}
	}
	return language.Latin
}
