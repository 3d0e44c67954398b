package field

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/san-kum/grinprobe/internal/grin"
)

func TestGridMatchesPointwise(t *testing.T) {
	m := grin.NewLuneberg(1.5, 0.8, 2.0)
	s := New(m)

	cfg := GridConfig{Center: grin.Vec3{Z: 3}, Plane: PlaneXY, HalfWidth: 4, N: 17, Workers: 4}
	grid, err := s.Grid(context.Background(), cfg)
	if err != nil {
		t.Fatalf("grid failed: %v", err)
	}

	if len(grid.Samples) != cfg.N {
		t.Fatalf("expected %d rows, got %d", cfg.N, len(grid.Samples))
	}

	for row := 0; row < cfg.N; row++ {
		if len(grid.Samples[row]) != cfg.N {
			t.Fatalf("row %d: expected %d cols, got %d", row, cfg.N, len(grid.Samples[row]))
		}
		for col := 0; col < cfg.N; col++ {
			want, _ := m.At(cfg.Coord(col, row))
			if grid.Samples[row][col] != want {
				t.Fatalf("(%d,%d): grid %+v != pointwise %+v", col, row, grid.Samples[row][col], want)
			}
		}
	}

	lo, hi := grid.IndexRange()
	if hi > 1.5 {
		t.Errorf("index above base: %g", hi)
	}
	if lo <= 0 || lo > hi {
		t.Errorf("bad index range [%g, %g]", lo, hi)
	}
}

func TestGridCoordinates(t *testing.T) {
	cfg := GridConfig{Center: grin.Vec3{X: 1, Y: 2, Z: 3}, Plane: PlaneXZ, HalfWidth: 1, N: 3}

	corner := cfg.Coord(0, 0)
	if corner != (grin.Vec3{X: 0, Y: 2, Z: 2}) {
		t.Errorf("unexpected corner %+v", corner)
	}
	center := cfg.Coord(1, 1)
	if center != cfg.Center {
		t.Errorf("expected center %+v, got %+v", cfg.Center, center)
	}
	if axes := cfg.Plane.Axes(); axes != [2]string{"x", "z"} {
		t.Errorf("unexpected axes %v", axes)
	}
}

func TestGridInvalidConfig(t *testing.T) {
	s := New(grin.NewUniform(1))

	tests := []struct {
		name string
		cfg  GridConfig
	}{
		{"too small", GridConfig{Plane: PlaneXY, HalfWidth: 1, N: 1}},
		{"zero width", GridConfig{Plane: PlaneXY, HalfWidth: 0, N: 8}},
		{"bad plane", GridConfig{Plane: "xw", HalfWidth: 1, N: 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Grid(context.Background(), tt.cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestGridCollectsErrors(t *testing.T) {
	s := New(&failingMedium{limit: 0})

	cfg := GridConfig{Plane: PlaneXY, HalfWidth: 1, N: 3, Workers: 2}
	grid, err := s.Grid(context.Background(), cfg)
	if err != nil {
		t.Fatalf("grid failed: %v", err)
	}
	// Column 2 has x = +1 in every row.
	if len(grid.Errors) != 3 {
		t.Errorf("expected 3 errors, got %d", len(grid.Errors))
	}
}

func TestGridCanceled(t *testing.T) {
	s := New(grin.NewUniform(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Grid(ctx, DefaultGridConfig()); !errors.Is(err, ErrCanceled) {
		t.Errorf("expected ErrCanceled, got %v", err)
	}
}

func TestParallelForCoversRange(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 8, 100} {
		var hits [37]int32
		ParallelFor(len(hits), 2, workers, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("workers=%d: index %d visited %d times", workers, i, h)
			}
		}
	}
}
