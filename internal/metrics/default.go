package metrics

import "github.com/san-kum/grinprobe/internal/field"

// Default returns a fresh copy of the standard metric set.
func Default() []field.Metric {
	return []field.Metric{
		NewMinIndex(),
		NewMaxIndex(),
		NewMeanIndex(),
		NewPeakGradient(),
		NewAxialGradient(),
		NewDomainErrors(),
	}
}
