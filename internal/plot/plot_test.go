package plot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/mcpi/internal/detector"
	"github.com/verte-zerg/mcpi/internal/model"
)

func smallStyle() Style {
	s := DefaultStyle()
	s.DPI = 24
	s.Size = 3
	return s
}

func sampleDetections() []model.Detection {
	return detector.Detect([]model.Point{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 0.5, Y: 0.5}, {X: -1, Y: 0}})
}

func TestRenderPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "plot_events.png")
	if err := Render(path, sampleDetections(), 3.0, smallStyle()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read plot: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatalf("expected PNG signature")
	}
}

func TestRenderSVGContainsAnnotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plot.svg")
	if err := Render(path, sampleDetections(), 3.0, smallStyle()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read plot: %v", err)
	}
	out := string(data)
	for _, want := range []string{"3.000000", InsideLabel, OutsideLabel, CircleLabel} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in svg output", want)
		}
	}
}

func TestRenderEmptyClasses(t *testing.T) {
	all := detector.Detect([]model.Point{{X: 1, Y: 0}, {X: 0, Y: 1}})
	path := filepath.Join(t.TempDir(), "inside.pdf")
	if err := Render(path, all, 4.0, smallStyle()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plot.bmp")
	if err := Render(path, sampleDetections(), 3.0, smallStyle()); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no output file")
	}
}

func TestRenderRejectsInvalidStyle(t *testing.T) {
	style := smallStyle()
	style.InsideColor = "blue"
	if err := Render(filepath.Join(t.TempDir(), "p.png"), sampleDetections(), 3.0, style); err == nil {
		t.Fatalf("expected error for invalid color")
	}
}

func TestAnnotation(t *testing.T) {
	got := Annotation(3.14159265, DefaultStyle())
	if got != "Estimated π ≈ 3.141593" {
		t.Fatalf("unexpected annotation: %q", got)
	}
}

func TestStyleValidate(t *testing.T) {
	if err := DefaultStyle().Validate(); err != nil {
		t.Fatalf("default style invalid: %v", err)
	}
	cases := map[string]func(*Style){
		"bound":  func(s *Style) { s.AxisBound = 1 },
		"dpi":    func(s *Style) { s.DPI = 0 },
		"alpha":  func(s *Style) { s.PointAlpha = 1.5 },
		"size":   func(s *Style) { s.Size = 0 },
		"format": func(s *Style) { s.AnnotationFormat = "pi" },
		"color":  func(s *Style) { s.CircleColor = "#12345" },
	}
	for name, mutate := range cases {
		s := DefaultStyle()
		mutate(&s)
		if err := s.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#1E90FF")
	if err != nil {
		t.Fatalf("ParseColor failed: %v", err)
	}
	if c.R != 0x1e || c.G != 0x90 || c.B != 0xff || c.A != 0xff {
		t.Fatalf("unexpected color: %+v", c)
	}
}
