package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/grinprobe/internal/field"
	"github.com/san-kum/grinprobe/internal/grin"
)

const (
	DefaultKind      = "luneberg"
	DefaultBase      = 1.5
	DefaultC1        = 1.0
	DefaultC2        = 5.0
	DefaultSteps     = 200
	DefaultGridN     = 64
	DefaultHalfWidth = 8.0
	DefaultWorkers   = 4
	DefaultRMax      = 10.0
	DefaultPoints    = 256
	DefaultStep      = 1e-5
)

type Config struct {
	Medium  MediumConfig  `yaml:"medium"`
	Scan    ScanConfig    `yaml:"scan"`
	Grid    GridConfig    `yaml:"grid"`
	Profile ProfileConfig `yaml:"profile"`
	Check   CheckConfig   `yaml:"check"`
	Theme   string        `yaml:"theme"`
}

type MediumConfig struct {
	Kind string  `yaml:"kind"`
	Base float64 `yaml:"base"`
	C1   float64 `yaml:"c1"`
	C2   float64 `yaml:"c2"`
}

type ScanConfig struct {
	From        []float64 `yaml:"from"`
	To          []float64 `yaml:"to"`
	Steps       int       `yaml:"steps"`
	StopOnError bool      `yaml:"stop_on_error"`
}

type GridConfig struct {
	Center    []float64 `yaml:"center"`
	Plane     string    `yaml:"plane"`
	HalfWidth float64   `yaml:"half_width"`
	N         int       `yaml:"n"`
	Workers   int       `yaml:"workers"`
}

type ProfileConfig struct {
	Z      float64 `yaml:"z"`
	RMax   float64 `yaml:"r_max"`
	Points int     `yaml:"points"`
}

type CheckConfig struct {
	Step float64 `yaml:"step"`
}

func DefaultConfig() *Config {
	return &Config{
		Medium: MediumConfig{
			Kind: DefaultKind,
			Base: DefaultBase,
			C1:   DefaultC1,
			C2:   DefaultC2,
		},
		Scan: ScanConfig{
			From:  []float64{-DefaultHalfWidth, 0, 0},
			To:    []float64{DefaultHalfWidth, 0, 0},
			Steps: DefaultSteps,
		},
		Grid: GridConfig{
			Center:    []float64{0, 0, 0},
			Plane:     string(field.PlaneXY),
			HalfWidth: DefaultHalfWidth,
			N:         DefaultGridN,
			Workers:   DefaultWorkers,
		},
		Profile: ProfileConfig{
			RMax:   DefaultRMax,
			Points: DefaultPoints,
		},
		Check: CheckConfig{
			Step: DefaultStep,
		},
		Theme: "ocean",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params returns the medium coefficients keyed the way media name them.
func (m MediumConfig) Params() map[string]float64 {
	params := map[string]float64{"base": m.Base}
	if m.Kind != "uniform" {
		params["c1"] = m.C1
		params["c2"] = m.C2
	}
	return params
}

// Coef returns the host coefficient vector (C1, C2).
func (m MediumConfig) Coef() []float64 {
	return []float64{m.C1, m.C2}
}

func (s ScanConfig) Line() (field.LineConfig, error) {
	from, err := Vec(s.From)
	if err != nil {
		return field.LineConfig{}, fmt.Errorf("scan.from: %w", err)
	}
	to, err := Vec(s.To)
	if err != nil {
		return field.LineConfig{}, fmt.Errorf("scan.to: %w", err)
	}
	return field.LineConfig{From: from, To: to, Steps: s.Steps, StopOnError: s.StopOnError}, nil
}

func (g GridConfig) Spec() (field.GridConfig, error) {
	center, err := Vec(g.Center)
	if err != nil {
		return field.GridConfig{}, fmt.Errorf("grid.center: %w", err)
	}
	plane, err := field.ParsePlane(g.Plane)
	if err != nil {
		return field.GridConfig{}, err
	}
	return field.GridConfig{
		Center:    center,
		Plane:     plane,
		HalfWidth: g.HalfWidth,
		N:         g.N,
		Workers:   g.Workers,
	}, nil
}

// Vec converts a YAML sequence of up to three numbers into a point.
// Missing trailing components are zero.
func Vec(v []float64) (grin.Vec3, error) {
	if len(v) > 3 {
		return grin.Vec3{}, fmt.Errorf("expected at most 3 components, got %d", len(v))
	}
	var c [3]float64
	copy(c[:], v)
	return grin.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}
