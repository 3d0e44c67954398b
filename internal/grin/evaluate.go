package grin

import "math"

// AxisEpsilon replaces r when a point lies exactly on the optical axis, so
// the radial derivative never divides by zero. The gradient there is large
// but finite; it is an approximation, not the limiting value.
const AxisEpsilon = 1e-5

// Evaluate computes the refractive index and n·∇n of the sech profile at pos.
//
// coef[0] (C1) is the profile steepness and coef[1] (C2) the reference
// radius where the index peaks at baseIndex. Entries past index 1 are
// ignored and missing entries read as zero.
//
// On DomainError, index and nGradN are returned as zero values and must not
// be used. Evaluate holds no state and does not allocate.
func Evaluate(baseIndex float64, coef []float64, pos Vec3) (index float64, nGradN Vec3, code ErrorCode) {
	c1, c2 := coefAt(coef, 0), coefAt(coef, 1)

	r := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y)
	t := c1 * (r - c2)
	ep, em := math.Exp(t), math.Exp(-t)
	sum := ep + em
	sech := 2 / sum

	// Unreachable for finite inputs; catches NaN from non-finite coefficients.
	if !(sech >= 0) {
		return 0, Vec3{}, DomainError
	}
	index = baseIndex * sech

	if r == 0 {
		r = AxisEpsilon
	}

	// 2c1(e^-t - e^t)/((e^t + e^-t)² r) written as -c1·tanh(t)·sech/r, which
	// stays finite once e^|t| overflows.
	d := -c1 * math.Tanh(t) * sech / r
	b2 := baseIndex * baseIndex
	nGradN = Vec3{
		X: b2 * pos.X * d,
		Y: b2 * pos.Y * d,
		Z: 0,
	}
	return index, nGradN, OK
}

func coefAt(coef []float64, i int) float64 {
	if i < len(coef) {
		return coef[i]
	}
	return 0
}
