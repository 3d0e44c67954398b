package automation

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/grinprobe/internal/experiment"
	"github.com/san-kum/grinprobe/internal/grin"
	"github.com/san-kum/grinprobe/internal/optim"
	"github.com/san-kum/grinprobe/internal/storage"
)

var ErrNotFittable = errors.New("automation: run cannot be refitted")

// Fit recovers the luneberg c1 and c2 of a stored run. The base index is
// taken from the run unless Base is set.
type Fit struct {
	RunID string
	Base  *float64
	C1    []float64
	C2    []float64
}

type FitResult struct {
	Base    float64
	C1      float64
	C2      float64
	RMS     float64
	Targets int
}

func RunFit(ctx context.Context, fit *Fit, registry *experiment.Registry, st *storage.Store) (*FitResult, error) {
	meta, err := st.Load(fit.RunID)
	if err != nil {
		return nil, err
	}
	if meta.Medium != "luneberg" {
		return nil, fmt.Errorf("%w: run %s sampled a %s medium, only luneberg has c1/c2", ErrNotFittable, meta.ID, meta.Medium)
	}

	base, ok := meta.Params["base"]
	if fit.Base != nil {
		base, ok = *fit.Base, true
	}
	if !ok {
		return nil, fmt.Errorf("%w: run %s has no base index", ErrNotFittable, meta.ID)
	}

	targets, err := st.LoadSamples(fit.RunID)
	if err != nil {
		return nil, err
	}

	build := func(params map[string]float64) (grin.Medium, error) {
		p := map[string]float64{"base": base}
		for k, v := range params {
			p[k] = v
		}
		return registry.GetMedium("luneberg", p)
	}

	gs := optim.NewGridSearch([]string{"c1", "c2"}, [][]float64{fit.C1, fit.C2})
	best, rms, err := gs.Search(ctx, build, optim.IndexRMS(targets))
	if err != nil {
		return nil, err
	}

	return &FitResult{
		Base:    base,
		C1:      best["c1"],
		C2:      best["c2"],
		RMS:     rms,
		Targets: len(targets),
	}, nil
}
