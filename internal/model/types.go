// Package model defines shared data structures.
package model

import "time"

// DefaultPoints is the sample count used when none is configured.
const DefaultPoints = 10000

// Point is one sample drawn from the [-1, 1] x [-1, 1] square.
type Point struct {
	X float64
	Y float64
}

// Detection is a Point tagged with unit disk membership.
type Detection struct {
	Point
	Detected bool
}

// RunConfig defines pipeline settings.
type RunConfig struct {
	Points   int
	Seed     *int64
	DataDir  string
	Force    bool
	Parallel bool
}

// Run statuses stored with each RunRecord.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// RunRecord captures one pipeline run for the history store.
type RunRecord struct {
	ID         int64
	StartedAt  time.Time
	EndedAt    time.Time
	Points     int
	Seed       *int64
	DataDir    string
	Inside     int
	Total      int
	PiEstimate float64
	Status     string
	Error      string
}

// Duration returns the wall time of the run.
func (r RunRecord) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}
