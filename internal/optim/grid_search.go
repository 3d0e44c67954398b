package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/grinprobe/internal/grin"
)

var ErrNoCandidate = errors.New("optim: no parameter combination could be evaluated")

// Objective scores a medium; lower is better.
type Objective func(m grin.Medium) (float64, error)

// Builder constructs a medium for one parameter combination.
type Builder func(params map[string]float64) (grin.Medium, error)

// GridSearch evaluates every combination of the given parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// Search returns the best parameters and their score. Combinations the
// builder or objective rejects are skipped.
func (g *GridSearch) Search(ctx context.Context, build Builder, objective Objective) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("optim: %d parameter names but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), build, objective, &best, &bestParams)
	if err != nil {
		return bestParams, best, err
	}
	if bestParams == nil {
		return nil, best, ErrNoCandidate
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build Builder,
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		m, err := build(current)
		if err != nil {
			return nil
		}
		val, err := objective(m)
		if err != nil || math.IsNaN(val) {
			return nil
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, next, build, objective, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// IndexRMS scores a medium by the root mean square difference between its
// index and the target samples. Targets carrying an error code are skipped;
// a domain error at any usable target rejects the medium.
func IndexRMS(targets []grin.Sample) Objective {
	return func(m grin.Medium) (float64, error) {
		sum, n := 0.0, 0
		for _, t := range targets {
			if t.Code != grin.OK {
				continue
			}
			s, err := m.At(t.Pos)
			if err != nil {
				return 0, err
			}
			d := s.Index - t.Index
			sum += d * d
			n++
		}
		if n == 0 {
			return 0, fmt.Errorf("optim: no usable target samples")
		}
		return math.Sqrt(sum / float64(n)), nil
	}
}
