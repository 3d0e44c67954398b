// Package grin evaluates graded-index (GRIN) refractive-index fields.
//
// The centerpiece is [Evaluate], the per-step callback a ray-tracing host
// invokes to obtain the index n and the gradient-weighted vector n·∇n at a
// point. The profile is a hyperbolic secant in the transverse radius,
//
//	n(r) = n0 · sech(C1 · (r - C2)),  r = sqrt(x² + y²)
//
// which approximates a Luneberg lens. z is the optical axis and never enters
// the profile, so the axial component of n·∇n is always zero.
//
// # Error codes
//
// The callback never panics. It reports problems through an [ErrorCode]
// (0 = success). [ErrorCode.Err] and [CodeOf] convert between codes and the
// sentinel errors used by the rest of the module.
//
// # Media
//
// [Medium] wraps the callback for Go callers. [Luneberg] is the sech profile,
// [Uniform] a homogeneous reference medium. Both are values with no hidden
// state and are safe for concurrent use.
package grin
