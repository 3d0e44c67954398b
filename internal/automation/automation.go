package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/grinprobe/internal/config"
	"github.com/san-kum/grinprobe/internal/experiment"
	"github.com/san-kum/grinprobe/internal/field"
	"github.com/san-kum/grinprobe/internal/grin"
	"github.com/san-kum/grinprobe/internal/storage"
)

// Batch is a scripted sequence of probe jobs.
type Batch struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Jobs        []Job  `yaml:"jobs"`
}

// Job is a single point, scan or grid evaluation.
type Job struct {
	Kind   string              `yaml:"kind"`
	Medium config.MediumConfig `yaml:"medium"`
	Point  []float64           `yaml:"point"`
	Scan   config.ScanConfig   `yaml:"scan"`
	Grid   config.GridConfig   `yaml:"grid"`
	Save   bool                `yaml:"save"`
}

type JobResult struct {
	Job    int
	Kind   string
	RunID  string
	Sample *grin.Sample
	Scan   *field.Result
	Grid   *field.GridResult
}

// LoadBatch loads a batch from a YAML file
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &batch, nil
}

// RunBatch executes all jobs in order. st may be nil, in which case Save is
// ignored. The first failing job stops the batch.
func RunBatch(ctx context.Context, batch *Batch, registry *experiment.Registry, st *storage.Store, logger *slog.Logger) ([]JobResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]JobResult, 0, len(batch.Jobs))

	for i, job := range batch.Jobs {
		log := logger.With("batch", batch.Name, "job", i+1, "kind", job.Kind)
		log.Info("running job", "of", len(batch.Jobs))

		res, err := runJob(ctx, job, registry)
		if err != nil {
			return results, fmt.Errorf("job %d: %w", i+1, err)
		}
		res.Job = i + 1

		if job.Save && st != nil {
			id, err := saveJob(st, job, res)
			if err != nil {
				return results, fmt.Errorf("job %d save: %w", i+1, err)
			}
			res.RunID = id
			log.Info("job saved", "run", id)
		}

		results = append(results, res)
	}

	return results, nil
}

func runJob(ctx context.Context, job Job, registry *experiment.Registry) (JobResult, error) {
	kind := job.Medium.Kind
	if kind == "" {
		kind = config.DefaultKind
	}
	m, err := registry.GetMedium(kind, job.Medium.Params())
	if err != nil {
		return JobResult{}, err
	}
	sampler := field.New(m)
	for _, metric := range registry.DefaultMetrics(kind) {
		sampler.AddMetric(metric)
	}

	res := JobResult{Kind: job.Kind}
	switch job.Kind {
	case "point":
		if job.Save {
			return res, fmt.Errorf("point jobs cannot be saved, use a scan with steps: 1")
		}
		p, err := config.Vec(job.Point)
		if err != nil {
			return res, err
		}
		s, err := sampler.Point(p)
		if err != nil {
			return res, err
		}
		res.Sample = &s
	case "scan":
		line, err := job.Scan.Line()
		if err != nil {
			return res, err
		}
		res.Scan, err = sampler.Scan(ctx, line)
		if err != nil {
			return res, err
		}
	case "grid":
		spec, err := job.Grid.Spec()
		if err != nil {
			return res, err
		}
		res.Grid, err = sampler.Grid(ctx, spec)
		if err != nil {
			return res, err
		}
	default:
		return res, fmt.Errorf("unknown job kind %q (want point, scan or grid)", job.Kind)
	}
	return res, nil
}

func saveJob(st *storage.Store, job Job, res JobResult) (string, error) {
	kind := job.Medium.Kind
	if kind == "" {
		kind = config.DefaultKind
	}
	switch {
	case res.Scan != nil:
		line, _ := job.Scan.Line()
		return st.SaveScan(kind, job.Medium.Params(), line, res.Scan)
	case res.Grid != nil:
		return st.SaveGrid(kind, job.Medium.Params(), res.Grid)
	}
	return "", nil
}

// Sweep steps one medium parameter and evaluates a fixed point.
type Sweep struct {
	Medium   string
	Params   map[string]float64
	Param    string
	Min, Max float64
	Steps    int
	Point    grin.Vec3
}

type SweepResult struct {
	ParamValue float64
	Sample     grin.Sample
	Err        error
}

// RunSweep evaluates the sweep point once per parameter value. Domain
// errors are recorded per row rather than ending the sweep.
func RunSweep(ctx context.Context, sweep *Sweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.Steps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.Steps)
	}

	m, err := registry.GetMedium(sweep.Medium, sweep.Params)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, 0, sweep.Steps)
	paramStep := (sweep.Max - sweep.Min) / float64(sweep.Steps-1)

	for i := 0; i < sweep.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		paramVal := sweep.Min + float64(i)*paramStep
		if err := m.SetParam(sweep.Param, paramVal); err != nil {
			return nil, err
		}

		s, err := m.At(sweep.Point)
		results = append(results, SweepResult{
			ParamValue: paramVal,
			Sample:     s,
			Err:        err,
		})
	}

	return results, nil
}

// MonteCarlo samples random points in a cylinder around the optical axis.
type MonteCarlo struct {
	Medium string
	Params map[string]float64
	Trials int
	Radius float64
	ZSpan  float64
	Seed   int64
}

type MonteCarloStats struct {
	Trials    int
	Finite    int
	NonFinite int
	Errors    int
	MinIndex  float64
	MaxIndex  float64
}

// RunMonteCarlo draws points uniformly over the disc of the given radius and
// z in [-ZSpan, ZSpan], and counts how many evaluations stay finite. Every
// seed, 0 included, reproduces the same points.
func RunMonteCarlo(ctx context.Context, mc *MonteCarlo, registry *experiment.Registry) (*MonteCarloStats, error) {
	if mc.Trials < 1 {
		return nil, fmt.Errorf("monte carlo needs at least 1 trial, got %d", mc.Trials)
	}

	m, err := registry.GetMedium(mc.Medium, mc.Params)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(mc.Seed))

	stats := &MonteCarloStats{MinIndex: math.Inf(1), MaxIndex: math.Inf(-1)}
	for trial := 0; trial < mc.Trials; trial++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		r := mc.Radius * math.Sqrt(rng.Float64())
		phi := 2 * math.Pi * rng.Float64()
		p := grin.Vec3{
			X: r * math.Cos(phi),
			Y: r * math.Sin(phi),
			Z: (rng.Float64()*2 - 1) * mc.ZSpan,
		}

		stats.Trials++
		s, err := m.At(p)
		if err != nil {
			stats.Errors++
			continue
		}
		if math.IsNaN(s.Index) || math.IsInf(s.Index, 0) || !s.NGradN.IsFinite() {
			stats.NonFinite++
			continue
		}
		stats.Finite++
		stats.MinIndex = math.Min(stats.MinIndex, s.Index)
		stats.MaxIndex = math.Max(stats.MaxIndex, s.Index)
	}

	return stats, nil
}
