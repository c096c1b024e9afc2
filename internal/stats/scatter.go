package stats

import (
	"fmt"
	"io"
	"math"

	"github.com/verte-zerg/mcpi/internal/estimate"
	"github.com/verte-zerg/mcpi/internal/model"
)

const circleSegments = 360

// Legend names shared with the image plot.
const (
	InsideName  = "Inside Circle"
	OutsideName = "Outside Circle"
	CircleName  = "Unit Circle"
)

// ScatterHeight returns the row count that keeps a width-column scatter square.
// Braille dots are roughly square, so four dot rows match two dot columns.
func ScatterHeight(width int) int {
	h := width / 2
	if h < 1 {
		h = 1
	}
	return h
}

// PlotScatter renders the flagged table as a braille scatter with the unit circle.
func PlotScatter(w io.Writer, title string, detections []model.Detection, width, height int, bound float64, forceColor bool) error {
	lines := ScatterLines(detections, width, height, bound, shouldUseColor(w, forceColor))
	return writeBlock(w, title, lines)
}

// ScatterLines draws detections inside [-bound, bound] on both axes and returns
// the plot rows followed by a legend line. Points outside the bounds are dropped.
func ScatterLines(detections []model.Detection, width, height int, bound float64, useColor bool) []string {
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}
	if height <= 0 {
		height = ScatterHeight(width)
	}
	if bound <= 0 {
		bound = 1
	}

	inside := layer{name: InsideName, style: solidLine, color: blue, cells: makeCells(height, width)}
	outside := layer{name: OutsideName, style: solidLine, color: yellow, cells: makeCells(height, width)}
	circle := layer{name: CircleName, kind: dashedLine.name, style: dashedLine, color: green, cells: makeCells(height, width)}

	dotsX, dotsY := width*2, height*4
	toDot := func(x, y float64) (int, int, bool) {
		if math.Abs(x) > bound || math.Abs(y) > bound {
			return 0, 0, false
		}
		px := int(math.Round((x + bound) / (2 * bound) * float64(dotsX-1)))
		py := int(math.Round((bound - y) / (2 * bound) * float64(dotsY-1)))
		return px, py, true
	}

	for _, d := range detections {
		px, py, ok := toDot(d.X, d.Y)
		if !ok {
			continue
		}
		if d.Detected {
			setBrailleDot(inside.cells, px, py)
		} else {
			setBrailleDot(outside.cells, px, py)
		}
	}
	for i := 0; i < circleSegments; i++ {
		if !circle.style.shouldPlot(i) {
			continue
		}
		theta := 2 * math.Pi * float64(i) / circleSegments
		if px, py, ok := toDot(math.Cos(theta), math.Sin(theta)); ok {
			setBrailleDot(circle.cells, px, py)
		}
	}

	labels := makeAxisLabels(height,
		fmt.Sprintf("%.2f", bound),
		fmt.Sprintf("%.2f", 0.0),
		fmt.Sprintf("%.2f", -bound))
	layers := []layer{inside, outside, circle}
	lines := renderGrid(layers, labels, width, height, useColor)
	return append(lines, renderLegend(layers, useColor))
}

// ConvergenceSeries returns the running estimate over steps prefixes of the
// table alongside a constant π reference line.
func ConvergenceSeries(detections []model.Detection, steps int) []Series {
	running := estimate.Running(detections, steps)
	if len(running) == 0 {
		return nil
	}
	ref := make([]float64, len(running))
	for i := range ref {
		ref[i] = math.Pi
	}
	return []Series{
		{Name: "Estimate", Values: running},
		{Name: "π", Values: ref},
	}
}
