package stats

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, 10, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Test Plot\n") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Legend: ") || !strings.Contains(out, "A (solid)") || !strings.Contains(out, "B (dashed)") {
		t.Fatalf("expected legend in output: %q", out)
	}
	if !strings.Contains(out, "4.000") || !strings.Contains(out, "1.000") {
		t.Fatalf("expected shared axis labels: %q", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1+4+1 {
		t.Fatalf("expected 6 lines of output, got %d", len(lines))
	}
}

func TestSeriesLinesEmpty(t *testing.T) {
	if lines := SeriesLines([]Series{{Name: "none"}}, 10, 4, false); lines != nil {
		t.Fatalf("expected nil for empty series, got %v", lines)
	}
}

func TestSeriesLinesRowWidth(t *testing.T) {
	lines := SeriesLines([]Series{{Name: "flat", Values: []float64{3, 3, 3}}}, 12, 3, false)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	for _, line := range lines[:3] {
		if got := utf8.RuneCountInString(line); got != axisLabelWidth+3+12 {
			t.Fatalf("unexpected row width %d: %q", got, line)
		}
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 80-axisLabelWidth-utf8.RuneCountInString(axisSeparator) {
		t.Fatalf("unexpected width %d", got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
	if got := PlotWidthFor(12); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestResampleSeries(t *testing.T) {
	down := resampleSeries([]float64{1, 3, 5, 7}, 2)
	if len(down) != 2 || down[0] != 2 || down[1] != 6 {
		t.Fatalf("unexpected downsample: %v", down)
	}
	up := resampleSeries([]float64{0, 10}, 3)
	if len(up) != 3 || up[0] != 0 || up[1] != 5 || up[2] != 10 {
		t.Fatalf("unexpected upsample: %v", up)
	}
}

func TestBrailleDotMask(t *testing.T) {
	cells := makeCells(1, 1)
	for x := 0; x < 2; x++ {
		for y := 0; y < 4; y++ {
			setBrailleDot(cells, x, y)
		}
	}
	if brailleFromMask(cells[0][0]) != '⣿' {
		t.Fatalf("expected full cell, got %q", brailleFromMask(cells[0][0]))
	}
	setBrailleDot(cells, 5, 5)
}
