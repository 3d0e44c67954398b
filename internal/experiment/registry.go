package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/grinprobe/internal/field"
	"github.com/san-kum/grinprobe/internal/grin"
	"github.com/san-kum/grinprobe/internal/metrics"
)

var ErrUnknownMedium = errors.New("experiment: unknown medium")

// Medium is what the registry hands out: a probe-able field whose
// coefficients can be read and changed by name.
type Medium interface {
	grin.Medium
	grin.Configurable
	Validate() error
}

type Registry struct {
	media map[string]func() Medium
}

func NewRegistry() *Registry {
	r := &Registry{
		media: make(map[string]func() Medium),
	}

	r.media["luneberg"] = func() Medium { return grin.NewLuneberg(1.5, 1.0, 0.0) }
	r.media["uniform"] = func() Medium { return grin.NewUniform(1.5) }

	return r
}

// GetMedium builds a medium and applies params on top of its defaults.
func (r *Registry) GetMedium(name string, params map[string]float64) (Medium, error) {
	fn, ok := r.media[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownMedium, name, r.ListMedia())
	}
	m := fn()

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := m.SetParam(k, params[k]); err != nil {
			return nil, fmt.Errorf("medium %s: %w", name, err)
		}
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("medium %s: %w", name, err)
	}
	return m, nil
}

func (r *Registry) ListMedia() []string {
	names := make([]string, 0, len(r.media))
	for name := range r.media {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(medium string) []field.Metric {
	return metrics.Default()
}
