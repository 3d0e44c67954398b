package field

import (
	"context"

	"github.com/san-kum/grinprobe/internal/grin"
)

type Sampler struct {
	medium    grin.Medium
	metrics   []Metric
	observers []Observer
}

func New(m grin.Medium) *Sampler {
	return &Sampler{
		medium:    m,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Sampler) Medium() grin.Medium { return s.medium }

func (s *Sampler) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Sampler) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Scan evaluates the medium at Steps+1 points from cfg.From to cfg.To.
// Domain errors are collected in Result.Errors; with StopOnError the scan
// ends at the first one and returns it alongside the partial result.
func (s *Sampler) Scan(ctx context.Context, cfg LineConfig) (*Result, error) {
	if s.medium == nil {
		return nil, ErrNilMedium
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Samples: make([]grin.Sample, 0, cfg.Steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i <= cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, canceled(ctx.Err())
		default:
		}

		p := cfg.Point(i)
		sample, err := s.medium.At(p)
		result.Samples = append(result.Samples, sample)

		for _, m := range s.metrics {
			m.Observe(sample)
		}
		for _, obs := range s.observers {
			obs.OnSample(i, sample)
		}

		if err != nil {
			serr := &SampleError{Index: i, Pos: p, Wrapped: err}
			result.Errors = append(result.Errors, serr)
			if cfg.StopOnError {
				s.collect(result)
				return result, serr
			}
		}
	}

	s.collect(result)
	return result, nil
}

// Point evaluates a single position without touching metrics or observers.
func (s *Sampler) Point(p grin.Vec3) (grin.Sample, error) {
	if s.medium == nil {
		return grin.Sample{}, ErrNilMedium
	}
	return s.medium.At(p)
}

func (s *Sampler) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
