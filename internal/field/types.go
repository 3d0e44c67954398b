package field

import (
	"fmt"
	"math"

	"github.com/san-kum/grinprobe/internal/grin"
)

type Metric interface {
	Name() string
	Observe(s grin.Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(i int, s grin.Sample)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(i int, s grin.Sample)

func (f ObserverFunc) OnSample(i int, s grin.Sample) { f(i, s) }

type LineConfig struct {
	From        grin.Vec3
	To          grin.Vec3
	Steps       int
	StopOnError bool
}

func DefaultLineConfig() LineConfig {
	return LineConfig{
		From:  grin.Vec3{X: -5},
		To:    grin.Vec3{X: 5},
		Steps: 200,
	}
}

func (c LineConfig) Validate() error {
	if c.Steps < 1 {
		return fmt.Errorf("%w: steps must be at least 1, got %d", ErrInvalidConfig, c.Steps)
	}
	if !c.From.IsFinite() || !c.To.IsFinite() {
		return fmt.Errorf("%w: endpoints must be finite", ErrInvalidConfig)
	}
	return nil
}

// Point returns the i-th of Steps+1 evenly spaced points.
func (c LineConfig) Point(i int) grin.Vec3 {
	return c.From.Lerp(c.To, float64(i)/float64(c.Steps))
}

// Plane selects the coordinate plane of a grid slice.
type Plane string

const (
	PlaneXY Plane = "xy"
	PlaneXZ Plane = "xz"
	PlaneYZ Plane = "yz"
)

func ParsePlane(s string) (Plane, error) {
	switch Plane(s) {
	case PlaneXY, PlaneXZ, PlaneYZ:
		return Plane(s), nil
	}
	return "", fmt.Errorf("%w: unknown plane %q (want xy, xz or yz)", ErrInvalidConfig, s)
}

// Axes names the two coordinates spanning the plane, in (column, row) order.
func (p Plane) Axes() [2]string {
	return [2]string{string(p[0:1]), string(p[1:2])}
}

type GridConfig struct {
	Center    grin.Vec3
	Plane     Plane
	HalfWidth float64
	N         int
	Workers   int
}

func DefaultGridConfig() GridConfig {
	return GridConfig{
		Plane:     PlaneXY,
		HalfWidth: 5,
		N:         64,
		Workers:   4,
	}
}

func (c GridConfig) Validate() error {
	if c.N < 2 {
		return fmt.Errorf("%w: grid needs at least 2 points per side, got %d", ErrInvalidConfig, c.N)
	}
	if !(c.HalfWidth > 0) || math.IsInf(c.HalfWidth, 0) {
		return fmt.Errorf("%w: half width must be positive and finite, got %g", ErrInvalidConfig, c.HalfWidth)
	}
	if !c.Center.IsFinite() {
		return fmt.Errorf("%w: center must be finite", ErrInvalidConfig)
	}
	if _, err := ParsePlane(string(c.Plane)); err != nil {
		return err
	}
	return nil
}

// Coord maps a grid column and row to a point on the slice.
func (c GridConfig) Coord(col, row int) grin.Vec3 {
	step := 2 * c.HalfWidth / float64(c.N-1)
	u := -c.HalfWidth + float64(col)*step
	v := -c.HalfWidth + float64(row)*step

	p := c.Center
	switch c.Plane {
	case PlaneXZ:
		p.X += u
		p.Z += v
	case PlaneYZ:
		p.Y += u
		p.Z += v
	default:
		p.X += u
		p.Y += v
	}
	return p
}

type Result struct {
	Samples []grin.Sample
	Metrics map[string]float64
	Errors  []error
}

// Failed counts samples that carried a nonzero code.
func (r *Result) Failed() int {
	n := 0
	for _, s := range r.Samples {
		if s.Code != grin.OK {
			n++
		}
	}
	return n
}

type GridResult struct {
	Config  GridConfig
	Samples [][]grin.Sample // [row][col]
	Errors  []error
}

// IndexRange returns the extreme indices over successful samples.
func (g *GridResult) IndexRange() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range g.Samples {
		for _, s := range row {
			if s.Code != grin.OK {
				continue
			}
			lo = math.Min(lo, s.Index)
			hi = math.Max(hi, s.Index)
		}
	}
	return lo, hi
}
