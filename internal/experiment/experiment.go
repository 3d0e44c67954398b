package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/grinprobe/internal/field"
)

type Config struct {
	Medium string
	Params map[string]float64
	Line   field.LineConfig
	Grid   field.GridConfig
}

type Experiment struct {
	cfg     Config
	sampler *field.Sampler
	logger  *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Experiment {
	if logger == nil {
		logger = slog.Default()
	}
	return &Experiment{
		cfg:    cfg,
		logger: logger.With("medium", cfg.Medium),
	}
}

func (e *Experiment) Setup(m Medium, ms []field.Metric) error {
	if m == nil {
		return fmt.Errorf("experiment: nil medium")
	}
	e.sampler = field.New(m)
	for _, metric := range ms {
		e.sampler.AddMetric(metric)
	}
	return nil
}

// Scan runs the configured line scan.
func (e *Experiment) Scan(ctx context.Context) (*field.Result, error) {
	if e.sampler == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	start := time.Now()
	result, err := e.sampler.Scan(ctx, e.cfg.Line)
	if err != nil {
		e.logger.Error("scan failed", "err", err)
		return result, err
	}

	e.logger.Debug("scan complete",
		"samples", len(result.Samples),
		"errors", len(result.Errors),
		"elapsed", time.Since(start))
	if n := len(result.Errors); n > 0 {
		e.logger.Warn("scan hit domain errors", "count", n, "first", result.Errors[0])
	}
	return result, nil
}

// Grid runs the configured parallel slice.
func (e *Experiment) Grid(ctx context.Context) (*field.GridResult, error) {
	if e.sampler == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	start := time.Now()
	result, err := e.sampler.Grid(ctx, e.cfg.Grid)
	if err != nil {
		e.logger.Error("grid failed", "err", err)
		return nil, err
	}

	e.logger.Debug("grid complete",
		"n", e.cfg.Grid.N,
		"workers", e.cfg.Grid.Workers,
		"errors", len(result.Errors),
		"elapsed", time.Since(start))
	return result, nil
}

// GetSampler returns the underlying sampler for adding observers.
func (e *Experiment) GetSampler() *field.Sampler {
	return e.sampler
}
