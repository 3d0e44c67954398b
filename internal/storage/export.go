package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/san-kum/grinprobe/internal/grin"
)

type ExportData struct {
	RunMetadata
	Positions [][3]float64 `json:"positions"`
	Indices   []float64    `json:"indices"`
	NGradN    [][3]float64 `json:"ngradn"`
	Codes     []int        `json:"codes"`
}

// ExportJSON writes metadata and samples as one JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, samples []grin.Sample) error {
	data := ExportData{
		RunMetadata: *meta,
		Positions:   make([][3]float64, len(samples)),
		Indices:     make([]float64, len(samples)),
		NGradN:      make([][3]float64, len(samples)),
		Codes:       make([]int, len(samples)),
	}

	for i, s := range samples {
		data.Positions[i] = [3]float64{s.Pos.X, s.Pos.Y, s.Pos.Z}
		data.Indices[i] = s.Index
		data.NGradN[i] = [3]float64{s.NGradN.X, s.NGradN.Y, s.NGradN.Z}
		data.Codes[i] = int(s.Code)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes samples with the same columns the store uses on disk.
func ExportCSV(w io.Writer, samples []grin.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range samples {
		if err := cw.Write(sampleRecord(s)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
