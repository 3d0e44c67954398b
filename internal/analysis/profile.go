package analysis

import (
	"errors"
	"fmt"

	"github.com/san-kum/grinprobe/internal/grin"
)

var ErrProfile = errors.New("analysis: profile needs rMax > 0 and at least 2 points")

type ProfilePoint struct {
	R      float64
	Index  float64
	Radial float64 // n·∇n along +x, i.e. the radial component
	Code   grin.ErrorCode
}

// RadialProfile samples the medium along +x at height z from r = 0 to rMax.
// Domain errors are kept in the point's Code rather than aborting.
func RadialProfile(m grin.Medium, z, rMax float64, n int) ([]ProfilePoint, error) {
	if !(rMax > 0) || n < 2 {
		return nil, fmt.Errorf("%w: rMax=%g n=%d", ErrProfile, rMax, n)
	}

	points := make([]ProfilePoint, n)
	for i := range points {
		r := rMax * float64(i) / float64(n-1)
		s, _ := m.At(grin.Vec3{X: r, Z: z})
		points[i] = ProfilePoint{
			R:      r,
			Index:  s.Index,
			Radial: s.NGradN.X,
			Code:   s.Code,
		}
	}
	return points, nil
}

// Extrema returns the radius and value of the largest index in the profile.
func Extrema(points []ProfilePoint) (peakR, peakIndex float64) {
	first := true
	for _, p := range points {
		if p.Code != grin.OK {
			continue
		}
		if first || p.Index > peakIndex {
			peakR, peakIndex = p.R, p.Index
			first = false
		}
	}
	return peakR, peakIndex
}

// Indices extracts the index column, e.g. for plotting.
func Indices(points []ProfilePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Index
	}
	return out
}

// Radials extracts the radial n·∇n column.
func Radials(points []ProfilePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Radial
	}
	return out
}
