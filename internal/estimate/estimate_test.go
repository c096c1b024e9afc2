package estimate

import (
	"errors"
	"math"
	"testing"

	"github.com/verte-zerg/mcpi/internal/detector"
	"github.com/verte-zerg/mcpi/internal/generator"
	"github.com/verte-zerg/mcpi/internal/model"
)

func TestPiScenarios(t *testing.T) {
	cases := []struct {
		name   string
		points []model.Point
		want   float64
	}{
		{
			name:   "mixed",
			points: []model.Point{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 0.5, Y: 0.5}, {X: -1, Y: 0}},
			want:   3.0,
		},
		{
			name:   "boundary",
			points: []model.Point{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: -1}},
			want:   4.0,
		},
		{
			name:   "outside",
			points: []model.Point{{X: 2, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 2}},
			want:   0.0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Pi(detector.Detect(tc.points))
			if err != nil {
				t.Fatalf("Pi failed: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestPiEmptyTable(t *testing.T) {
	got, err := Pi(nil)
	if !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("expected ErrEmptyTable, got %v", err)
	}
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("expected finite value alongside error, got %v", got)
	}
}

func TestPiRangeAndConvergence(t *testing.T) {
	points, err := generator.NewSeeded(1).Generate(200000)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	got, err := Pi(detector.Detect(points))
	if err != nil {
		t.Fatalf("Pi failed: %v", err)
	}
	if got < 0 || got > 4 {
		t.Fatalf("estimate out of range: %v", got)
	}
	if math.Abs(got-math.Pi) > 0.05 {
		t.Fatalf("estimate %v too far from pi for 200k samples", got)
	}
}

func TestRunning(t *testing.T) {
	detections := detector.Detect([]model.Point{
		{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 0}, {X: 2, Y: 2},
		{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 0},
	})
	got := Running(detections, 4)
	want := []float64{2, 2, 8.0 / 3.0, 3}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("value %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	full, err := Pi(detections)
	if err != nil {
		t.Fatalf("Pi failed: %v", err)
	}
	if got[len(got)-1] != full {
		t.Fatalf("expected last running value to equal full estimate")
	}
	if Running(nil, 5) != nil {
		t.Fatalf("expected nil for empty input")
	}
	if n := len(Running(detections, 100)); n != len(detections) {
		t.Fatalf("expected steps clamped to %d, got %d", len(detections), n)
	}
}
