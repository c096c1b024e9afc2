// Package pipeline wires the estimation stages into a dependency graph and runs them.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidGraph is wrapped by every graph validation failure.
	ErrInvalidGraph = errors.New("invalid stage graph")
	// ErrCycle is returned when stage dependencies form a cycle.
	ErrCycle = errors.New("stage dependency cycle")
)

// Stage is one node of the pipeline graph.
type Stage struct {
	Name     string
	Requires []string
	// Output is the artifact the stage produces. When it already exists and no
	// required stage ran, the stage is skipped.
	Output string
	Run    func(ctx context.Context) error
}

// Graph is a validated, immutable set of stages.
type Graph struct {
	stages []Stage
	byName map[string]int
	levels [][]int
}

// NewGraph validates stages and computes their execution levels.
// Stages within a level depend only on earlier levels.
func NewGraph(stages ...Stage) (*Graph, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("%w: no stages", ErrInvalidGraph)
	}
	byName := make(map[string]int, len(stages))
	for i, s := range stages {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: stage name is required", ErrInvalidGraph)
		}
		if s.Run == nil {
			return nil, fmt.Errorf("%w: stage %q has no run function", ErrInvalidGraph, s.Name)
		}
		if _, exists := byName[s.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate stage %q", ErrInvalidGraph, s.Name)
		}
		byName[s.Name] = i
	}

	indeg := make([]int, len(stages))
	children := make([][]int, len(stages))
	for i, s := range stages {
		seen := map[string]struct{}{}
		for _, dep := range s.Requires {
			j, ok := byName[dep]
			if !ok {
				return nil, fmt.Errorf("%w: stage %q requires unknown stage %q", ErrInvalidGraph, s.Name, dep)
			}
			if j == i {
				return nil, fmt.Errorf("%w: stage %q requires itself", ErrInvalidGraph, s.Name)
			}
			if _, dup := seen[dep]; dup {
				return nil, fmt.Errorf("%w: stage %q requires %q twice", ErrInvalidGraph, s.Name, dep)
			}
			seen[dep] = struct{}{}
			indeg[i]++
			children[j] = append(children[j], i)
		}
	}

	// Kahn's algorithm, one frontier at a time; declaration order breaks ties.
	var levels [][]int
	var frontier []int
	for i := range stages {
		if indeg[i] == 0 {
			frontier = append(frontier, i)
		}
	}
	visited := 0
	for len(frontier) > 0 {
		levels = append(levels, frontier)
		visited += len(frontier)
		var next []int
		for _, u := range frontier {
			for _, v := range children[u] {
				indeg[v]--
				if indeg[v] == 0 {
					next = append(next, v)
				}
			}
		}
		sort.Ints(next)
		frontier = next
	}
	if visited != len(stages) {
		var stuck []string
		for i, d := range indeg {
			if d > 0 {
				stuck = append(stuck, stages[i].Name)
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(stuck, ", "))
	}

	return &Graph{stages: stages, byName: byName, levels: levels}, nil
}

// Order returns stage names in a deterministic topological order.
func (g *Graph) Order() []string {
	var names []string
	for _, level := range g.Levels() {
		names = append(names, level...)
	}
	return names
}

// Levels returns stage names grouped by execution level.
func (g *Graph) Levels() [][]string {
	out := make([][]string, len(g.levels))
	for i, level := range g.levels {
		for _, idx := range level {
			out[i] = append(out[i], g.stages[idx].Name)
		}
	}
	return out
}

// Stage returns a stage by name.
func (g *Graph) Stage(name string) (Stage, bool) {
	idx, ok := g.byName[name]
	if !ok {
		return Stage{}, false
	}
	return g.stages[idx], true
}
