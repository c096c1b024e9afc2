package tui

import (
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/mcpi/internal/stats"
)

const minRows = 4

// plotSize picks plot columns and rows for a screen of width x rows. A square
// plot shrinks its width when the height cannot hold it.
func plotSize(width, rows int, square bool) (int, int) {
	w := stats.PlotWidthFor(width)
	if rows < minRows {
		rows = minRows
	}
	if !square {
		return w, rows
	}
	h := stats.ScatterHeight(w)
	if h > rows {
		h = rows
		w = h * 2
	}
	return w, h
}

// fitLine truncates s to width display columns.
func fitLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
