package fonts

import (
	"math"
	"sort"
	"testing"
)

func TestStandard14Sorted(t *testing.T) {
	if len(Standard14) != 14 {
		t.Fatalf("len(Standard14) = %d", len(Standard14))
	}
	if !sort.StringsAreSorted(Standard14) {
		t.Fatalf("Standard14 must stay sorted for IsStandard")
	}
}

func TestIsStandard(t *testing.T) {
	for _, name := range []string{"Courier", "Helvetica-BoldOblique", "ZapfDingbats", "Times-Roman"} {
		if !IsStandard(name) {
			t.Errorf("IsStandard(%q) = false", name)
		}
	}
	for _, name := range []string{"", "courier", "Arial", "Times"} {
		if IsStandard(name) {
			t.Errorf("IsStandard(%q) = true", name)
		}
	}
	if !IsMonospaced("Courier-Bold") || IsMonospaced("Helvetica") {
		t.Fatalf("IsMonospaced disagrees with the Courier family")
	}
}

func TestMeasureMonospace(t *testing.T) {
	w, err := Measure("good bye", 48)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	// Eight glyphs at 0.6 em.
	if math.Abs(w-230.4) > 0.5 {
		t.Fatalf("Measure = %v, want ~230.4", w)
	}
	if w0, _ := Measure("", 48); w0 != 0 {
		t.Fatalf("empty text width = %v", w0)
	}
}

func TestWidthMatchesMeasure(t *testing.T) {
	m, err := Measure("Hello World!", 12)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if w := Width([]byte("Hello World!"), 12); w != m {
		t.Fatalf("Width = %v, Measure = %v", w, m)
	}
}

func TestMetrics(t *testing.T) {
	m, err := Metrics()
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if m.Ascent <= 0 || m.Ascent > 1200 {
		t.Fatalf("Ascent = %v", m.Ascent)
	}
	if m.Descent >= 0 || m.Descent < -500 {
		t.Fatalf("Descent = %v", m.Descent)
	}
}
