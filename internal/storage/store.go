package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/grinprobe/internal/field"
	"github.com/san-kum/grinprobe/internal/grin"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

var ErrNoRun = errors.New("storage: run not found")

var header = []string{"x", "y", "z", "index", "ngx", "ngy", "ngz", "code"}

type Store struct {
	baseDir string
	logger  *slog.Logger
}

func New(baseDir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{baseDir: baseDir, logger: logger}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Kind      string             `json:"kind"`
	Medium    string             `json:"medium"`
	Params    map[string]float64 `json:"params"`
	Timestamp time.Time          `json:"timestamp"`
	Samples   int                `json:"samples"`
	Failed    int                `json:"failed"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`

	// scan runs
	From  *grin.Vec3 `json:"from,omitempty"`
	To    *grin.Vec3 `json:"to,omitempty"`
	Steps int        `json:"steps,omitempty"`

	// grid runs
	Center    *grin.Vec3 `json:"center,omitempty"`
	Plane     string     `json:"plane,omitempty"`
	HalfWidth float64    `json:"half_width,omitempty"`
	N         int        `json:"n,omitempty"`
}

// SaveScan writes a line scan and returns its run id.
func (s *Store) SaveScan(medium string, params map[string]float64, cfg field.LineConfig, result *field.Result) (string, error) {
	from, to := cfg.From, cfg.To
	meta := RunMetadata{
		Kind:    "scan",
		Medium:  medium,
		Params:  params,
		Samples: len(result.Samples),
		Failed:  result.Failed(),
		Metrics: finite(result.Metrics),
		From:    &from,
		To:      &to,
		Steps:   cfg.Steps,
	}
	return s.save(meta, result.Samples)
}

// SaveGrid writes a grid slice in row-major order and returns its run id.
func (s *Store) SaveGrid(medium string, params map[string]float64, grid *field.GridResult) (string, error) {
	cfg := grid.Config
	center := cfg.Center
	flat := make([]grin.Sample, 0, cfg.N*cfg.N)
	failed := 0
	for _, row := range grid.Samples {
		for _, smp := range row {
			if smp.Code != grin.OK {
				failed++
			}
			flat = append(flat, smp)
		}
	}

	meta := RunMetadata{
		Kind:      "grid",
		Medium:    medium,
		Params:    params,
		Samples:   len(flat),
		Failed:    failed,
		Center:    &center,
		Plane:     string(cfg.Plane),
		HalfWidth: cfg.HalfWidth,
		N:         cfg.N,
	}
	return s.save(meta, flat)
}

func (s *Store) save(meta RunMetadata, samples []grin.Sample) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Kind, now.UnixNano())
	meta.Timestamp = now
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), samples); err != nil {
		return "", err
	}

	s.logger.Debug("run saved", "id", meta.ID, "samples", len(samples), "dir", runDir)
	return meta.ID, nil
}

// finite drops metrics JSON cannot encode, such as the NaN an extreme
// reports when it saw no successful sample.
func finite(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[k] = v
	}
	return out
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSamples(path string, samples []grin.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, smp := range samples {
		if err := w.Write(sampleRecord(smp)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func sampleRecord(smp grin.Sample) []string {
	return []string{
		formatFloat(smp.Pos.X),
		formatFloat(smp.Pos.Y),
		formatFloat(smp.Pos.Z),
		formatFloat(smp.Index),
		formatFloat(smp.NGradN.X),
		formatFloat(smp.NGradN.Y),
		formatFloat(smp.NGradN.Z),
		strconv.Itoa(int(smp.Code)),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.logger.Debug("skipping unreadable run", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoRun, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSamples reads a run's samples in the order they were written.
func (s *Store) LoadSamples(runID string) ([]grin.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoRun, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(header)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []grin.Sample{}, nil
	}

	samples := make([]grin.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		smp, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("run %s line %d: %w", runID, i+2, err)
		}
		samples = append(samples, smp)
	}
	return samples, nil
}

// LoadGrid reshapes a grid run's samples into rows.
func (s *Store) LoadGrid(runID string) (*RunMetadata, [][]grin.Sample, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	if meta.Kind != "grid" || meta.N < 1 {
		return nil, nil, fmt.Errorf("run %s is a %s run, not a grid", runID, meta.Kind)
	}

	flat, err := s.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(flat) != meta.N*meta.N {
		return nil, nil, fmt.Errorf("run %s: expected %d samples, found %d", runID, meta.N*meta.N, len(flat))
	}

	rows := make([][]grin.Sample, meta.N)
	for i := range rows {
		rows[i] = flat[i*meta.N : (i+1)*meta.N]
	}
	return meta, rows, nil
}

func parseRecord(record []string) (grin.Sample, error) {
	var v [7]float64
	for i := range v {
		f, err := strconv.ParseFloat(record[i], 64)
		if err != nil {
			return grin.Sample{}, fmt.Errorf("column %s: %w", header[i], err)
		}
		v[i] = f
	}
	code, err := strconv.Atoi(record[7])
	if err != nil {
		return grin.Sample{}, fmt.Errorf("column code: %w", err)
	}
	return grin.Sample{
		Pos:    grin.Vec3{X: v[0], Y: v[1], Z: v[2]},
		Index:  v[3],
		NGradN: grin.Vec3{X: v[4], Y: v[5], Z: v[6]},
		Code:   grin.ErrorCode(code),
	}, nil
}
