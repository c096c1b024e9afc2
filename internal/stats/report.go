package stats

import (
	"context"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/verte-zerg/mcpi/internal/model"
	"github.com/verte-zerg/mcpi/internal/store"
)

// Report contains the loaded history prepared for rendering.
type Report struct {
	// Runs are oldest first.
	Runs    []model.RunRecord
	Summary Summary
}

// BuildReport loads the last runs from the store. A last <= 0 loads all runs.
func BuildReport(ctx context.Context, st *store.Store, last int) (Report, error) {
	runs, err := st.ListRuns(ctx, last)
	if err != nil {
		return Report{}, err
	}
	slices.Reverse(runs)
	return Report{Runs: runs, Summary: Summarize(runs)}, nil
}

// Estimates returns the π estimates of successful runs, oldest first.
func (r Report) Estimates() []float64 {
	out := make([]float64, 0, len(r.Runs))
	for _, run := range r.Runs {
		if run.Status == model.StatusOK {
			out = append(out, run.PiEstimate)
		}
	}
	return out
}

// RenderReport prints the summary, the run table, and the estimate history
// curve when at least two runs succeeded.
func RenderReport(w io.Writer, report Report, totalWidth int, useColor bool) error {
	if err := RenderSummary(w, report.Runs); err != nil {
		return err
	}
	if len(report.Runs) == 0 {
		return nil
	}
	if err := RenderRuns(w, report.Runs); err != nil {
		return err
	}
	estimates := report.Estimates()
	if len(estimates) < 2 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Trend: %s\n\n", Sparkline(estimates)); err != nil {
		return err
	}
	ref := make([]float64, len(estimates))
	for i := range ref {
		ref[i] = math.Pi
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	lines := SeriesLines([]Series{
		{Name: "Estimate", Values: estimates},
		{Name: "π", Values: ref},
	}, width, defaultPlotHeight, useColor)
	return writeBlock(w, "Estimate History", lines)
}
