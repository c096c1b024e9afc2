package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/mcpi/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates successful runs.
type Summary struct {
	Runs   int
	Failed int
	Points int
	// Pooled is 4 * sum(inside) / sum(total) over all successful runs.
	Pooled     float64
	Mean       float64
	StdDev     float64
	MeanAbsErr float64
	Best       model.RunRecord
}

// AbsError returns the distance of an estimate from math.Pi.
func AbsError(pi float64) float64 {
	return math.Abs(pi - math.Pi)
}

// Summarize computes aggregate figures for runs. Failed runs are only counted.
func Summarize(runs []model.RunRecord) Summary {
	var s Summary
	var inside, total int
	var sum, sumSq, sumErr float64
	for _, r := range runs {
		if r.Status != model.StatusOK {
			s.Failed++
			continue
		}
		s.Runs++
		s.Points += r.Total
		inside += r.Inside
		total += r.Total
		sum += r.PiEstimate
		sumSq += r.PiEstimate * r.PiEstimate
		sumErr += AbsError(r.PiEstimate)
		if s.Runs == 1 || AbsError(r.PiEstimate) < AbsError(s.Best.PiEstimate) {
			s.Best = r
		}
	}
	if s.Runs == 0 {
		return s
	}
	n := float64(s.Runs)
	s.Mean = sum / n
	s.StdDev = math.Sqrt(math.Max(sumSq/n-s.Mean*s.Mean, 0))
	s.MeanAbsErr = sumErr / n
	if total > 0 {
		s.Pooled = 4 * float64(inside) / float64(total)
	}
	return s
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the summary block for runs.
func RenderSummary(w io.Writer, runs []model.RunRecord) error {
	s := Summarize(runs)
	if s.Runs == 0 && s.Failed == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Runs: %d (%d failed)", s.Runs+s.Failed, s.Failed),
	}
	if s.Runs > 0 {
		lines = append(lines,
			fmt.Sprintf("Points: %d", s.Points),
			fmt.Sprintf("Pooled π: %.6f", s.Pooled),
			fmt.Sprintf("Mean π: %.6f ± %.6f", s.Mean, s.StdDev),
			fmt.Sprintf("Mean |error|: %.6f", s.MeanAbsErr),
			fmt.Sprintf("Best: run %d, π ≈ %.6f", s.Best.ID, s.Best.PiEstimate),
		)
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
