package metrics

import "github.com/san-kum/grinprobe/internal/grin"

type DomainErrors struct {
	name     string
	failures int
	samples  int
}

func NewDomainErrors() *DomainErrors {
	return &DomainErrors{name: "domain_errors"}
}

func (d *DomainErrors) Name() string {
	return d.name
}

func (d *DomainErrors) Observe(s grin.Sample) {
	d.samples++
	if s.Code != grin.OK {
		d.failures++
	}
}

func (d *DomainErrors) Value() float64 {
	return float64(d.failures)
}

// Rate is the fraction of samples that failed.
func (d *DomainErrors) Rate() float64 {
	if d.samples == 0 {
		return 0
	}
	return float64(d.failures) / float64(d.samples)
}

func (d *DomainErrors) Reset() {
	d.failures = 0
	d.samples = 0
}
