package stats

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/mcpi/internal/model"
)

// RunHeaders are the column titles of the history table.
var RunHeaders = []string{"ID", "Started", "Points", "Seed", "Inside", "π", "|Error|", "Duration", "Status"}

// RunRow formats one history record as table cells matching RunHeaders.
func RunRow(r model.RunRecord) []string {
	seed := "-"
	if r.Seed != nil {
		seed = strconv.FormatInt(*r.Seed, 10)
	}
	pi, errCell := "-", "-"
	if r.Status == model.StatusOK {
		pi = fmt.Sprintf("%.6f", r.PiEstimate)
		errCell = fmt.Sprintf("%.6f", AbsError(r.PiEstimate))
	}
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.StartedAt.Local().Format("2006-01-02 15:04:05"),
		strconv.Itoa(r.Points),
		seed,
		strconv.Itoa(r.Inside),
		pi,
		errCell,
		r.Duration().Round(time.Millisecond).String(),
		r.Status,
	}
}

// RenderRuns prints an aligned table of runs in the order given.
func RenderRuns(w io.Writer, runs []model.RunRecord) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, RunRow(r))
	}
	rightAlign := map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true, 6: true, 7: true}
	for _, line := range formatTable(RunHeaders, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	padding := width - runewidth.StringWidth(value)
	if padding <= 0 {
		return value
	}
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}
