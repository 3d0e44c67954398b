package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/grinprobe/internal/grin"
)

var ErrStep = errors.New("analysis: finite difference step must be positive")

// relFloor keeps Rel meaningful where the true gradient vanishes and the
// finite difference only returns roundoff.
const relFloor = 1e-9

type Residual struct {
	Pos      grin.Vec3
	Reported grin.Vec3
	Numeric  grin.Vec3
	Abs      grin.Vec3
	// Rel is |Reported - Numeric| / max(|Numeric|, relFloor).
	Rel float64
}

// Consistency differentiates n² with central differences of width 2h and
// compares ½∇(n²) with the n·∇n the medium reports at p.
func Consistency(m grin.Medium, p grin.Vec3, h float64) (Residual, error) {
	if !(h > 0) {
		return Residual{}, fmt.Errorf("%w: got %g", ErrStep, h)
	}

	center, err := m.At(p)
	if err != nil {
		return Residual{}, err
	}

	axes := [3]grin.Vec3{{X: h}, {Y: h}, {Z: h}}
	var num [3]float64
	for i, dp := range axes {
		hi, err := m.At(p.Add(dp))
		if err != nil {
			return Residual{}, fmt.Errorf("forward difference: %w", err)
		}
		lo, err := m.At(p.Sub(dp))
		if err != nil {
			return Residual{}, fmt.Errorf("backward difference: %w", err)
		}
		num[i] = (hi.Index*hi.Index - lo.Index*lo.Index) / (4 * h)
	}

	res := Residual{
		Pos:      p,
		Reported: center.NGradN,
		Numeric:  grin.Vec3{X: num[0], Y: num[1], Z: num[2]},
	}
	diff := res.Reported.Sub(res.Numeric)
	res.Abs = grin.Vec3{X: math.Abs(diff.X), Y: math.Abs(diff.Y), Z: math.Abs(diff.Z)}

	res.Rel = diff.Len() / math.Max(res.Numeric.Len(), relFloor)
	return res, nil
}

// ConsistencyAlong checks every point of a profile and returns the worst
// residual by relative error.
func ConsistencyAlong(m grin.Medium, points []grin.Vec3, h float64) (worst Residual, all []Residual, err error) {
	all = make([]Residual, 0, len(points))
	for _, p := range points {
		r, err := Consistency(m, p, h)
		if err != nil {
			return worst, all, err
		}
		all = append(all, r)
		if len(all) == 1 || r.Rel > worst.Rel {
			worst = r
		}
	}
	return worst, all, nil
}
