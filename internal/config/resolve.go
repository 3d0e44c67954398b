package config

import "fmt"

// Overrides carries values set explicitly on the command line. Nil pointers
// and nil slices were not set and leave the layered value alone.
type Overrides struct {
	Kind        *string
	Base        *float64
	C1          *float64
	C2          *float64
	From        []float64
	To          []float64
	Steps       *int
	StopOnError *bool
	Plane       *string
	HalfWidth   *float64
	N           *int
	Workers     *int
	Z           *float64
	RMax        *float64
	Points      *int
	Step        *float64
}

// Resolve layers a named preset and explicit overrides on top of cfg, which
// already holds the defaults or a loaded file. The medium kind override is
// applied first so the preset is looked up for the requested kind; the
// coefficient overrides are applied after the preset so they win.
func Resolve(cfg *Config, preset string, o Overrides) (*Config, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := *cfg

	set(&out.Medium.Kind, o.Kind)
	if preset != "" {
		p := GetPreset(out.Medium.Kind, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, ListPresets(out.Medium.Kind))
		}
		out.Medium = *p
	}

	set(&out.Medium.Base, o.Base)
	set(&out.Medium.C1, o.C1)
	set(&out.Medium.C2, o.C2)
	if o.From != nil {
		out.Scan.From = o.From
	}
	if o.To != nil {
		out.Scan.To = o.To
	}
	set(&out.Scan.Steps, o.Steps)
	set(&out.Scan.StopOnError, o.StopOnError)
	set(&out.Grid.Plane, o.Plane)
	set(&out.Grid.HalfWidth, o.HalfWidth)
	set(&out.Grid.N, o.N)
	set(&out.Grid.Workers, o.Workers)
	set(&out.Profile.Z, o.Z)
	set(&out.Profile.RMax, o.RMax)
	set(&out.Profile.Points, o.Points)
	set(&out.Check.Step, o.Step)
	return &out, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
