// Package generator draws uniform sample points.
package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/mcpi/internal/model"
)

// ErrInvalidCount is returned when the requested sample count is not positive.
var ErrInvalidCount = errors.New("point count must be a positive integer")

// Generator produces points uniformly distributed over [-1, 1] x [-1, 1].
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator whose output is fully determined by seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate draws n independent points.
func (g *Generator) Generate(n int) ([]model.Point, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, n)
	}
	points := make([]model.Point, n)
	for i := range points {
		points[i] = model.Point{X: g.uniform(), Y: g.uniform()}
	}
	return points, nil
}

func (g *Generator) uniform() float64 {
	return -1 + 2*g.rnd.Float64()
}
