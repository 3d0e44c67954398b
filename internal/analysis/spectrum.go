package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns |X_k| for k in [0, len/2) of the mean-removed data.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spec := fft.FFTReal(centered)
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

type SpectrumSummary struct {
	// Bandwidth is the spatial frequency (cycles per unit length) below
	// which the requested fraction of power lies.
	Bandwidth float64
	// MaxStep is the Nyquist sampling step for Bandwidth.
	MaxStep float64
	Power   []float64
}

// Spectrum analyses a profile sampled every dr and reports the frequency
// holding `fraction` of the power.
func Spectrum(points []ProfilePoint, dr, fraction float64) SpectrumSummary {
	ps := PowerSpectrum(Indices(points))
	sum := SpectrumSummary{Power: ps, MaxStep: math.Inf(1)}
	if len(ps) == 0 || !(dr > 0) {
		return sum
	}

	total := 0.0
	for _, p := range ps {
		total += p * p
	}
	if total == 0 {
		return sum
	}

	df := 1 / (float64(len(points)) * dr)
	acc := 0.0
	for k, p := range ps {
		acc += p * p
		if acc >= fraction*total {
			sum.Bandwidth = float64(k) * df
			break
		}
	}
	if sum.Bandwidth > 0 {
		sum.MaxStep = 1 / (2 * sum.Bandwidth)
	}
	return sum
}
