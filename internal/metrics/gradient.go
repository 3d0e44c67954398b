package metrics

import (
	"math"

	"github.com/san-kum/grinprobe/internal/grin"
)

type PeakGradient struct {
	peak float64
}

func NewPeakGradient() *PeakGradient {
	return &PeakGradient{}
}

func (p *PeakGradient) Name() string { return "peak_gradient" }

func (p *PeakGradient) Observe(s grin.Sample) {
	if s.Code != grin.OK {
		return
	}
	p.peak = math.Max(p.peak, s.NGradN.Len())
}

func (p *PeakGradient) Value() float64 { return p.peak }

func (p *PeakGradient) Reset() { p.peak = 0 }

// AxialGradient records the largest |n·∇n|_z seen. The sech profile has no
// axial dependence, so anything but 0 flags a broken medium.
type AxialGradient struct {
	peak float64
}

func NewAxialGradient() *AxialGradient {
	return &AxialGradient{}
}

func (a *AxialGradient) Name() string { return "axial_gradient" }

func (a *AxialGradient) Observe(s grin.Sample) {
	if s.Code != grin.OK {
		return
	}
	a.peak = math.Max(a.peak, math.Abs(s.NGradN.Z))
}

func (a *AxialGradient) Value() float64 { return a.peak }

func (a *AxialGradient) Reset() { a.peak = 0 }
