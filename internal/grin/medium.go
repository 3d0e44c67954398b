package grin

import (
	"fmt"
	"math"
	"sort"
)

// Sample is one evaluation of a medium at a point.
type Sample struct {
	Pos    Vec3
	Index  float64
	NGradN Vec3
	Code   ErrorCode
}

// Medium is a refractive-index field that can be probed point by point.
type Medium interface {
	Name() string
	At(p Vec3) (Sample, error)
}

// Configurable media expose their coefficients by name.
type Configurable interface {
	Params() map[string]float64
	SetParam(name string, value float64) error
}

// Luneberg is the sech gradient evaluated by [Evaluate]. C1 and C2 are the
// host's UDG coefficients 1 and 2.
type Luneberg struct {
	Base float64
	C1   float64
	C2   float64
}

func NewLuneberg(base, c1, c2 float64) *Luneberg {
	return &Luneberg{Base: base, C1: c1, C2: c2}
}

func (l *Luneberg) Name() string { return "luneberg" }

// Coef returns the coefficient vector in host order.
func (l *Luneberg) Coef() []float64 {
	return []float64{l.C1, l.C2}
}

func (l *Luneberg) At(p Vec3) (Sample, error) {
	n, ng, code := Evaluate(l.Base, []float64{l.C1, l.C2}, p)
	s := Sample{Pos: p, Index: n, NGradN: ng, Code: code}
	if code != OK {
		return s, fmt.Errorf("luneberg at (%g, %g, %g): %w", p.X, p.Y, p.Z, code.Err())
	}
	return s, nil
}

// Validate rejects NaN or infinite parameters.
func (l *Luneberg) Validate() error {
	return validateParams(l.Params())
}

func (l *Luneberg) Params() map[string]float64 {
	return map[string]float64{
		"base": l.Base,
		"c1":   l.C1,
		"c2":   l.C2,
	}
}

func (l *Luneberg) SetParam(name string, value float64) error {
	switch name {
	case "base":
		l.Base = value
	case "c1":
		l.C1 = value
	case "c2":
		l.C2 = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	return nil
}

// Uniform is a homogeneous medium with zero gradient everywhere.
type Uniform struct {
	Base float64
}

func NewUniform(base float64) *Uniform {
	return &Uniform{Base: base}
}

func (u *Uniform) Name() string { return "uniform" }

func (u *Uniform) At(p Vec3) (Sample, error) {
	return Sample{Pos: p, Index: u.Base}, nil
}

func (u *Uniform) Validate() error {
	return validateParams(u.Params())
}

func (u *Uniform) Params() map[string]float64 {
	return map[string]float64{"base": u.Base}
}

func (u *Uniform) SetParam(name string, value float64) error {
	if name != "base" {
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	u.Base = value
	return nil
}

func validateParams(params map[string]float64) error {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := params[name]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s=%v", ErrParameter, name, v)
		}
	}
	return nil
}
