package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/verte-zerg/mcpi/internal/detector"
	"github.com/verte-zerg/mcpi/internal/estimate"
	"github.com/verte-zerg/mcpi/internal/events"
	"github.com/verte-zerg/mcpi/internal/generator"
	"github.com/verte-zerg/mcpi/internal/model"
	"github.com/verte-zerg/mcpi/internal/plot"
)

// Stage names.
const (
	StageGenerate = "generate"
	StageDetect   = "detect"
	StageEstimate = "estimate"
	StagePlot     = "plot"
)

// Paths locates the artifacts of one pipeline inside a data directory.
type Paths struct {
	Points   string
	Detected string
	Estimate string
	Plot     string
}

// PathsFor returns the artifact paths under dataDir.
func PathsFor(dataDir string) Paths {
	return Paths{
		Points:   filepath.Join(dataDir, events.PointsFile),
		Detected: filepath.Join(dataDir, events.DetectedFile),
		Estimate: filepath.Join(dataDir, events.EstimateFile),
		Plot:     filepath.Join(dataDir, events.PlotFile),
	}
}

// Generate draws n points and writes the point table to out.
func Generate(gen *generator.Generator, n int, out string) error {
	points, err := gen.Generate(n)
	if err != nil {
		return err
	}
	return events.WritePoints(out, points)
}

// Detect reads a point table and writes the flagged table.
func Detect(in, out string) error {
	points, err := events.ReadPoints(in)
	if err != nil {
		return err
	}
	return events.WriteDetections(out, detector.Detect(points))
}

// Estimate reads a flagged table, writes the estimate, and returns it.
func Estimate(in, out string) (float64, error) {
	detections, err := events.ReadDetections(in)
	if err != nil {
		return 0, err
	}
	pi, err := estimate.Pi(detections)
	if err != nil {
		return 0, err
	}
	if err := events.WriteEstimate(out, pi); err != nil {
		return 0, err
	}
	return pi, nil
}

// Plot reads a flagged table and renders the diagnostic figure.
func Plot(in, out string, style plot.Style) error {
	detections, err := events.ReadDetections(in)
	if err != nil {
		return err
	}
	pi, err := estimate.Pi(detections)
	if err != nil {
		return err
	}
	return plot.Render(out, detections, pi, style)
}

// Pipeline is the four-stage estimation graph bound to a data directory.
type Pipeline struct {
	Config model.RunConfig
	Paths  Paths
	Runner *Runner
}

// Summary reports the outcome of a pipeline run.
type Summary struct {
	Stages     []StageResult
	Inside     int
	Total      int
	PiEstimate float64
}

// New validates cfg and style and builds the pipeline graph.
func New(cfg model.RunConfig, style plot.Style) (*Pipeline, error) {
	if cfg.Points <= 0 {
		return nil, fmt.Errorf("%w: got %d", generator.ErrInvalidCount, cfg.Points)
	}
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("data directory must not be empty")
	}
	if err := style.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plot style: %w", err)
	}

	gen := generator.New()
	if cfg.Seed != nil {
		gen = generator.NewSeeded(*cfg.Seed)
	}
	paths := PathsFor(cfg.DataDir)

	graph, err := NewGraph(
		Stage{
			Name:   StageGenerate,
			Output: paths.Points,
			Run: func(context.Context) error {
				return Generate(gen, cfg.Points, paths.Points)
			},
		},
		Stage{
			Name:     StageDetect,
			Requires: []string{StageGenerate},
			Output:   paths.Detected,
			Run: func(context.Context) error {
				return Detect(paths.Points, paths.Detected)
			},
		},
		Stage{
			Name:     StageEstimate,
			Requires: []string{StageDetect},
			Output:   paths.Estimate,
			Run: func(context.Context) error {
				_, err := Estimate(paths.Detected, paths.Estimate)
				return err
			},
		},
		Stage{
			Name:     StagePlot,
			Requires: []string{StageDetect},
			Output:   paths.Plot,
			Run: func(context.Context) error {
				return Plot(paths.Detected, paths.Plot, style)
			},
		},
	)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		Config: cfg,
		Paths:  paths,
		Runner: &Runner{Graph: graph, Force: cfg.Force, Parallel: cfg.Parallel},
	}, nil
}

// Run executes the graph and summarizes the resulting artifacts.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	stages, err := p.Runner.Run(ctx)
	summary := Summary{Stages: stages}
	if err != nil {
		return summary, err
	}
	detections, err := events.ReadDetections(p.Paths.Detected)
	if err != nil {
		return summary, fmt.Errorf("failed to read detections: %w", err)
	}
	summary.Inside, summary.Total = estimate.Count(detections)
	summary.PiEstimate, err = events.ReadEstimate(p.Paths.Estimate)
	if err != nil {
		return summary, fmt.Errorf("failed to read estimate: %w", err)
	}
	return summary, nil
}
