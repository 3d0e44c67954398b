// Package analysis provides diagnostics for gradient-index media.
//
// The package includes tools for checking a gradient before handing it to a
// ray tracer:
//
//   - [Consistency]: compares the reported n·∇n against ½∇(n²) from finite
//     differences of the reported index
//   - [RadialProfile]: index and radial n·∇n along a transverse line
//   - [Spectrum]: power spectrum of a profile and the sampling step it needs
//
// # Consistency
//
// n·∇n equals ½∇(n²), so a correct gradient has a small residual:
//
//	res, _ := analysis.Consistency(medium, p, 1e-4)
//	if res.Rel > 1e-3 {
//	    // reported gradient disagrees with the index
//	}
package analysis
