// Package stats renders estimation results and run history for the terminal.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

type lineStyle struct {
	name   string
	period int
	on     int
}

type ansiColor struct {
	name string
	code string
}

// layer is one independently drawn set of braille dots.
type layer struct {
	name  string
	kind  string
	style lineStyle
	color ansiColor
	cells [][]uint8
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 7
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var (
	solidLine   = lineStyle{name: "solid", period: 1, on: 1}
	dashedLine  = lineStyle{name: "dashed", period: 6, on: 3}
	dottedLine  = lineStyle{name: "dotted", period: 4, on: 1}
	dashdotLine = lineStyle{name: "dashdot", period: 8, on: 3}
)

var lineStyles = []lineStyle{solidLine, dashedLine, dottedLine, dashdotLine}

var (
	cyan    = ansiColor{name: "cyan", code: "\x1b[36m"}
	magenta = ansiColor{name: "magenta", code: "\x1b[35m"}
	yellow  = ansiColor{name: "yellow", code: "\x1b[33m"}
	green   = ansiColor{name: "green", code: "\x1b[32m"}
	blue    = ansiColor{name: "blue", code: "\x1b[34m"}
)

var colorPalette = []ansiColor{cyan, magenta, yellow, green, blue}

// PlotSeries renders a multi-line text plot for the provided series.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	return PlotSeriesWithColor(w, title, series, width, height, false)
}

// PlotSeriesWithColor renders a multi-line text plot with optional forced color output.
func PlotSeriesWithColor(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	lines := SeriesLines(series, width, height, shouldUseColor(w, forceColor))
	if len(lines) == 0 {
		return nil
	}
	return writeBlock(w, title, lines)
}

// SeriesLines draws all series on one shared value scale and returns the
// plot rows followed by a legend line. Empty input yields nil.
func SeriesLines(series []Series, width, height int, useColor bool) []string {
	series = filterSeries(series)
	if len(series) == 0 {
		return nil
	}
	width, height = normalizeSize(width, height)

	scaled := make([]Series, 0, len(series))
	for _, s := range series {
		scaled = append(scaled, Series{Name: s.Name, Values: resampleSeries(s.Values, width)})
	}
	minVal, maxVal := seriesMinMax(scaled)
	if math.Abs(maxVal-minVal) < 1e-9 {
		minVal--
		maxVal++
	}

	layers := make([]layer, 0, len(scaled))
	for si, s := range scaled {
		l := layer{
			name:  s.Name,
			kind:  lineStyles[si%len(lineStyles)].name,
			style: lineStyles[si%len(lineStyles)],
			color: colorPalette[si%len(colorPalette)],
			cells: makeCells(height, width),
		}
		prevX, prevY := -1, -1
		for x, v := range s.Values {
			px := x * 2
			py := valueToRow(v, minVal, maxVal, height*4)
			if prevX >= 0 {
				drawLine(prevX, prevY, px, py, func(dx, dy int) {
					if l.style.shouldPlot(dx) {
						setBrailleDot(l.cells, dx, dy)
					}
				})
			} else if l.style.shouldPlot(px) {
				setBrailleDot(l.cells, px, py)
			}
			prevX, prevY = px, py
		}
		layers = append(layers, l)
	}

	labels := makeAxisLabels(height,
		fmt.Sprintf("%.3f", maxVal),
		fmt.Sprintf("%.3f", (minVal+maxVal)/2),
		fmt.Sprintf("%.3f", minVal))
	lines := renderGrid(layers, labels, width, height, useColor)
	return append(lines, renderLegend(layers, useColor))
}

func writeBlock(w io.Writer, title string, lines []string) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func normalizeSize(width, height int) (int, int) {
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}
	return width, height
}

func filterSeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

func autoPlotWidth() int {
	return PlotWidthFor(TerminalWidth())
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - axisLabelWidth - utf8.RuneCountInString(axisSeparator)
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

// TerminalWidth reports the stdout width, falling back to 80 columns.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// UseColor reports whether ANSI color should be written to w.
func UseColor(w io.Writer) bool {
	return shouldUseColor(w, false)
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// makeAxisLabels places top, mid and bottom labels on a column of height rows.
func makeAxisLabels(height int, top, mid, bottom string) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = top
	if height > 2 {
		labels[height/2] = mid
	}
	if height > 1 {
		labels[height-1] = bottom
	}
	return labels
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func renderGrid(layers []layer, labels []string, width, height int, useColor bool) []string {
	lines := make([]string, 0, height)
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", axisLabelWidth, labels[y], axisSeparator))
		for x := 0; x < width; x++ {
			mask, idx := composeCell(layers, x, y)
			ch := brailleFromMask(mask)
			if useColor && idx >= 0 {
				row.WriteString(layers[idx].color.code)
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		lines = append(lines, row.String())
	}
	return lines
}

// composeCell merges dots from every layer; the first layer with dots in the
// cell decides its color.
func composeCell(layers []layer, x, y int) (uint8, int) {
	var mask uint8
	colorIdx := -1
	for i, l := range layers {
		if y < 0 || y >= len(l.cells) {
			continue
		}
		if x < 0 || x >= len(l.cells[y]) {
			continue
		}
		cellMask := l.cells[y][x]
		if cellMask == 0 {
			continue
		}
		if colorIdx == -1 {
			colorIdx = i
		}
		mask |= cellMask
	}
	return mask, colorIdx
}

func (ls lineStyle) shouldPlot(x int) bool {
	if ls.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%ls.period < ls.on
}

func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) == width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	if len(values) > width {
		for i := 0; i < width; i++ {
			start := int(float64(i) * float64(len(values)) / float64(width))
			end := int(float64(i+1) * float64(len(values)) / float64(width))
			if end <= start {
				end = start + 1
			}
			if end > len(values) {
				end = len(values)
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	if width == 1 || len(values) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := 0; i < width; i++ {
		pos := float64(i) * float64(len(values)-1) / float64(width-1)
		idx := int(math.Floor(pos))
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

func seriesMinMax(series []Series) (float64, float64) {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	if math.IsInf(minVal, 1) {
		return 0, 0
	}
	return minVal, maxVal
}

func valueToRow(v, minVal, maxVal float64, height int) int {
	if height <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	row := int(math.Round((1 - pos) * float64(height-1)))
	if row < 0 {
		row = 0
	}
	if row >= height {
		row = height - 1
	}
	return row
}

func renderLegend(layers []layer, useColor bool) string {
	parts := make([]string, 0, len(layers))
	marker := brailleFromMask(0x01)
	for _, l := range layers {
		label := fmt.Sprintf("%c %s", marker, l.name)
		if l.kind != "" {
			label += " (" + l.kind + ")"
		}
		if useColor {
			label = l.color.code + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
	}
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if y < 0 || x < 0 {
		return
	}
	cellY := y / 4
	cellX := x / 2
	if cellY >= len(cells) || cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

// brailleDotMask maps a dot within a 2x4 braille cell to its Unicode bit.
func brailleDotMask(x, y int) uint8 {
	if x == 0 {
		return [4]uint8{0x01, 0x02, 0x04, 0x40}[y]
	}
	return [4]uint8{0x08, 0x10, 0x20, 0x80}[y]
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
