// Package estimate reduces tagged points to a π estimate.
package estimate

import (
	"errors"

	"github.com/verte-zerg/mcpi/internal/model"
)

// ErrEmptyTable is returned when there are no rows to estimate from.
var ErrEmptyTable = errors.New("cannot estimate pi from an empty table")

// Count returns the number of detected rows and the total row count.
func Count(detections []model.Detection) (inside, total int) {
	for _, d := range detections {
		if d.Detected {
			inside++
		}
	}
	return inside, len(detections)
}

// Pi computes 4 * inside / total.
func Pi(detections []model.Detection) (float64, error) {
	inside, total := Count(detections)
	if total == 0 {
		return 0, ErrEmptyTable
	}
	return ratio(inside, total), nil
}

// Running returns the estimate over evenly spaced prefixes of detections.
// The last value always covers the full table.
func Running(detections []model.Detection, steps int) []float64 {
	if len(detections) == 0 || steps <= 0 {
		return nil
	}
	if steps > len(detections) {
		steps = len(detections)
	}
	out := make([]float64, 0, steps)
	inside := 0
	next := 1
	for i, d := range detections {
		if d.Detected {
			inside++
		}
		n := i + 1
		if n*steps >= next*len(detections) {
			out = append(out, ratio(inside, n))
			next++
		}
	}
	return out
}

func ratio(inside, total int) float64 {
	return 4 * float64(inside) / float64(total)
}
