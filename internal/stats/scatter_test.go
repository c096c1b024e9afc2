package stats

import (
	"math"
	"strings"
	"testing"

	"github.com/verte-zerg/mcpi/internal/estimate"
	"github.com/verte-zerg/mcpi/internal/model"
)

const gridOffset = axisLabelWidth + 3

func TestScatterLinesLayout(t *testing.T) {
	detections := []model.Detection{
		{Point: model.Point{X: 0, Y: 0}, Detected: true},
		{Point: model.Point{X: 1, Y: 1}, Detected: false},
		{Point: model.Point{X: 5, Y: 5}, Detected: false},
	}
	lines := ScatterLines(detections, 10, 5, 1.05, false)
	if len(lines) != 6 {
		t.Fatalf("expected 5 rows and a legend, got %d", len(lines))
	}
	for _, name := range []string{InsideName, OutsideName, CircleName} {
		if !strings.Contains(lines[5], name) {
			t.Fatalf("expected %q in legend: %q", name, lines[5])
		}
	}
	if !strings.Contains(lines[0], "1.05") || !strings.Contains(lines[4], "-1.05") {
		t.Fatalf("expected bound labels")
	}
	// The origin lands in the middle cell.
	center := []rune(lines[2])[gridOffset+5]
	if center == brailleFromMask(0) {
		t.Fatalf("expected a dot at the origin cell")
	}
}

func TestScatterLinesColor(t *testing.T) {
	detections := []model.Detection{
		{Point: model.Point{X: 0, Y: 0}, Detected: true},
		{Point: model.Point{X: 1, Y: 1}, Detected: false},
	}
	out := strings.Join(ScatterLines(detections, 20, 0, 1.05, true), "\n")
	for _, code := range []string{blue.code, yellow.code, green.code, colorReset} {
		if !strings.Contains(out, code) {
			t.Fatalf("expected color code %q", code)
		}
	}
}

func TestScatterLinesEmptyDrawsCircle(t *testing.T) {
	lines := ScatterLines(nil, 20, 10, 1.05, false)
	blank := string(brailleFromMask(0))
	dots := 0
	for _, line := range lines[:10] {
		grid := string([]rune(line)[gridOffset:])
		dots += len([]rune(strings.ReplaceAll(grid, blank, "")))
	}
	if dots == 0 {
		t.Fatalf("expected the unit circle to be drawn")
	}
}

func TestScatterHeight(t *testing.T) {
	if ScatterHeight(40) != 20 || ScatterHeight(1) != 1 {
		t.Fatalf("unexpected scatter heights")
	}
}

func TestConvergenceSeries(t *testing.T) {
	if ConvergenceSeries(nil, 10) != nil {
		t.Fatalf("expected nil for empty table")
	}
	detections := []model.Detection{
		{Detected: true}, {Detected: false}, {Detected: true}, {Detected: true},
	}
	series := ConvergenceSeries(detections, 4)
	if len(series) != 2 || len(series[0].Values) != 4 || len(series[1].Values) != 4 {
		t.Fatalf("unexpected series: %+v", series)
	}
	want, _ := estimate.Pi(detections)
	if got := series[0].Values[3]; got != want {
		t.Fatalf("expected final estimate %v, got %v", want, got)
	}
	if series[1].Values[0] != math.Pi {
		t.Fatalf("expected π reference line")
	}
}
