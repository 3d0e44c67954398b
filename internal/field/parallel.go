package field

import (
	"context"
	"sync"

	"github.com/san-kum/grinprobe/internal/grin"
)

// Grid fills an N×N slice. Rows are split into chunks and sampled by up to
// cfg.Workers goroutines; metrics and observers are not consulted.
func (s *Sampler) Grid(ctx context.Context, cfg GridConfig) (*GridResult, error) {
	if s.medium == nil {
		return nil, ErrNilMedium
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result := &GridResult{
		Config:  cfg,
		Samples: make([][]grin.Sample, cfg.N),
	}
	rowErrs := make([][]error, cfg.N)

	ParallelFor(cfg.N, 1, cfg.Workers, func(start, end int) {
		for row := start; row < end; row++ {
			if ctx.Err() != nil {
				return
			}
			line := make([]grin.Sample, cfg.N)
			for col := 0; col < cfg.N; col++ {
				p := cfg.Coord(col, row)
				sample, err := s.medium.At(p)
				line[col] = sample
				if err != nil {
					rowErrs[row] = append(rowErrs[row], &SampleError{Index: row*cfg.N + col, Pos: p, Wrapped: err})
				}
			}
			result.Samples[row] = line
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, canceled(err)
	}

	for _, errs := range rowErrs {
		result.Errors = append(result.Errors, errs...)
	}
	return result, nil
}

// ParallelFor executes fn over [0, n) split into at most workers chunks.
func ParallelFor(n, minChunk, workers int, fn func(start, end int)) {
	if workers < 1 {
		workers = 1
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers == 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
