// Package field samples a [grin.Medium] over sets of points.
//
// The package provides the probing primitives used by the CLI and the batch
// runner:
//
//   - [Sampler]: walks a straight segment point by point ([Sampler.Scan])
//   - [Sampler.Grid]: fills a square slice of a coordinate plane in parallel
//   - [Metric] and [Observer]: hooks that see every sample of a scan
//
// # Example
//
//	m := grin.NewLuneberg(1.5, 1.0, 5.0)
//	s := field.New(m)
//	s.AddMetric(metrics.NewPeakGradient())
//	res, _ := s.Scan(ctx, field.LineConfig{From: a, To: b, Steps: 200})
//
// # Thread Safety
//
// A Sampler is not safe for concurrent Scan calls because its metrics are
// stateful. Grid fans out internally and relies only on the medium being
// reentrant, which holds for every medium in package grin.
package field
