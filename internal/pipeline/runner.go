package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/mcpi/internal/events"
)

// Status describes what happened to a stage during a run.
type Status string

// Stage statuses.
const (
	StatusRan     Status = "ran"
	StatusSkipped Status = "skipped"
)

// Runner executes a Graph in dependency order.
type Runner struct {
	Graph *Graph
	// Force reruns stages even when their outputs exist.
	Force bool
	// Parallel runs independent stages of the same level concurrently.
	Parallel bool
	// OnStage, if set, is called after each stage finishes or is skipped.
	OnStage func(name string, status Status)

	mu       sync.Mutex
	statuses map[string]Status
	order    []string
}

// StageResult records the outcome of one stage.
type StageResult struct {
	Name   string
	Status Status
}

// Run executes every stage. The first failure aborts the run and is returned
// wrapped with the stage name.
func (r *Runner) Run(ctx context.Context) ([]StageResult, error) {
	if r.Graph == nil {
		return nil, fmt.Errorf("nil graph")
	}
	r.statuses = make(map[string]Status, len(r.Graph.stages))
	r.order = nil

	for _, level := range r.Graph.levels {
		if err := ctx.Err(); err != nil {
			return r.results(), err
		}
		if r.Parallel && len(level) > 1 {
			g, gctx := errgroup.WithContext(ctx)
			for _, idx := range level {
				stage := r.Graph.stages[idx]
				g.Go(func() error {
					return r.runStage(gctx, stage)
				})
			}
			if err := g.Wait(); err != nil {
				return r.results(), err
			}
			continue
		}
		for _, idx := range level {
			if err := r.runStage(ctx, r.Graph.stages[idx]); err != nil {
				return r.results(), err
			}
		}
	}
	return r.results(), nil
}

func (r *Runner) runStage(ctx context.Context, stage Stage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	skip, err := r.canSkip(stage)
	if err != nil {
		return fmt.Errorf("stage %s: %w", stage.Name, err)
	}
	status := StatusSkipped
	if !skip {
		if err := stage.Run(ctx); err != nil {
			return fmt.Errorf("stage %s: %w", stage.Name, err)
		}
		status = StatusRan
	}

	r.mu.Lock()
	r.statuses[stage.Name] = status
	r.order = append(r.order, stage.Name)
	r.mu.Unlock()

	if r.OnStage != nil {
		r.OnStage(stage.Name, status)
	}
	return nil
}

func (r *Runner) canSkip(stage Stage) (bool, error) {
	if r.Force || stage.Output == "" {
		return false, nil
	}
	r.mu.Lock()
	for _, dep := range stage.Requires {
		if r.statuses[dep] == StatusRan {
			r.mu.Unlock()
			return false, nil
		}
	}
	r.mu.Unlock()
	return events.Exists(stage.Output)
}

func (r *Runner) results() []StageResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]StageResult, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, StageResult{Name: name, Status: r.statuses[name]})
	}
	return out
}
