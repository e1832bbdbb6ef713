package viz

import (
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(100, 0)

	if c.Grid[0][0] != blank|0x1 {
		t.Errorf("expected dot 1 at cell 0, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != blank|0x80 {
		t.Errorf("expected dot 8 at cell 1, got %U", c.Grid[0][1])
	}

	c.Clear()
	if c.Grid[0][0] != blank {
		t.Errorf("expected blank after clear, got %U", c.Grid[0][0])
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0)
	for i, r := range c.Grid[0] {
		if r&0x9 != 0x9 {
			t.Errorf("cell %d missing top dots: %U", i, r)
		}
	}
}

func TestSketch(t *testing.T) {
	slope := Series{X: []float64{0, 10, 20}, Y: []float64{0, -5, -10}}
	flight := Series{X: []float64{5, 10, 15}, Y: []float64{-1, -2, math.NaN()}, Dotted: true}

	out := Sketch([]Series{slope, flight}, 20, 5)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(lines))
	}
	for _, l := range lines {
		if utf8.RuneCountInString(l) != 20 {
			t.Errorf("expected 20 cells per row, got %d", utf8.RuneCountInString(l))
		}
	}
	if !strings.ContainsFunc(out, func(r rune) bool { return r > blank && r <= blank+0xff }) {
		t.Error("expected something drawn")
	}
}

func TestSketchEmpty(t *testing.T) {
	out := Sketch(nil, 3, 2)
	if out != strings.Repeat(string(rune(blank))+string(rune(blank))+string(rune(blank))+"\n", 2) {
		t.Errorf("expected blank canvas, got %q", out)
	}
}

func TestEFHChart(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	efh := []float64{0, 0.45, 0.5, 0.52, math.NaN()}

	out := EFHChart(x, efh, 0.5, 30, 6)
	if !strings.Contains(out, "EFH") {
		t.Errorf("expected caption, got:\n%s", out)
	}
	if !strings.Contains(out, "target") {
		t.Errorf("expected legend, got:\n%s", out)
	}

	if out := EFHChart(x[:1], efh[:1], 0.5, 30, 6); !strings.Contains(out, "no equivalent") {
		t.Errorf("expected placeholder for short input, got %q", out)
	}
}

func TestSeriesChart(t *testing.T) {
	if SeriesChart(nil, "speed", 10, 3) != "" {
		t.Error("expected empty chart for no values")
	}
	out := SeriesChart([]float64{1, 2, 3, 2}, "speed [m/s]", 10, 3)
	if !strings.Contains(out, "speed [m/s]") {
		t.Errorf("expected caption, got:\n%s", out)
	}
}

func TestSummary(t *testing.T) {
	out := Summary("design", []Row{
		{"takeoff speed", 12.345, "m/s"},
		{"flight height", math.NaN(), "m"},
	})
	for _, want := range []string{"design", "takeoff speed", "12.345", "m/s", "n/a"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestStatus(t *testing.T) {
	if !strings.Contains(Status(nil), "feasible") {
		t.Error("expected feasible status")
	}
	if out := Status(errors.New("fall height too large")); !strings.Contains(out, "fall height too large") {
		t.Errorf("expected reason in status, got %q", out)
	}
}

func TestSparklineChart(t *testing.T) {
	out := SparklineChart([]float64{0, 1, 2, 3, math.NaN()}, 5)
	if n := utf8.RuneCountInString(stripANSI(out)); n != 5 {
		t.Errorf("expected 5 runes, got %d (%q)", n, out)
	}
	if SparklineChart(nil, 4) != "────" {
		t.Error("expected flat line for no values")
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == 0x1b:
			inEsc = true
		case inEsc:
			if r == 'm' {
				inEsc = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
