package metrics

import (
	"math"

	"github.com/san-kum/grinprobe/internal/grin"
)

// IndexExtreme tracks the minimum or maximum index over successful samples.
type IndexExtreme struct {
	name    string
	max     bool
	value   float64
	samples int
}

func NewMinIndex() *IndexExtreme {
	return &IndexExtreme{name: "min_index"}
}

func NewMaxIndex() *IndexExtreme {
	return &IndexExtreme{name: "max_index", max: true}
}

func (e *IndexExtreme) Name() string { return e.name }

func (e *IndexExtreme) Observe(s grin.Sample) {
	if s.Code != grin.OK {
		return
	}
	if e.samples == 0 {
		e.value = s.Index
	} else if e.max {
		e.value = math.Max(e.value, s.Index)
	} else {
		e.value = math.Min(e.value, s.Index)
	}
	e.samples++
}

func (e *IndexExtreme) Value() float64 {
	if e.samples == 0 {
		return math.NaN()
	}
	return e.value
}

func (e *IndexExtreme) Reset() {
	e.value = 0
	e.samples = 0
}

// MeanIndex averages the index over successful samples.
type MeanIndex struct {
	sum     float64
	samples int
}

func NewMeanIndex() *MeanIndex {
	return &MeanIndex{}
}

func (m *MeanIndex) Name() string { return "mean_index" }

func (m *MeanIndex) Observe(s grin.Sample) {
	if s.Code != grin.OK {
		return
	}
	m.sum += s.Index
	m.samples++
}

func (m *MeanIndex) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanIndex) Reset() {
	m.sum = 0
	m.samples = 0
}
