package automation

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/grinprobe/internal/config"
	"github.com/san-kum/grinprobe/internal/experiment"
	"github.com/san-kum/grinprobe/internal/grin"
	"github.com/san-kum/grinprobe/internal/storage"
)

const batchYAML = `
name: smoke
description: one of each
jobs:
  - kind: point
    medium: {kind: luneberg, base: 1.5, c1: 1.0, c2: 5.0}
    point: [3, 4, 10]
  - kind: scan
    medium: {kind: luneberg, base: 1.5, c1: 1.0, c2: 5.0}
    scan: {from: [0, 0, 0], to: [10, 0, 0], steps: 20}
    save: true
  - kind: grid
    medium: {kind: uniform, base: 1.33}
    grid: {center: [0, 0, 0], plane: xz, half_width: 1, n: 4, workers: 2}
    save: true
`

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadAndRunBatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	if err := os.WriteFile(path, []byte(batchYAML), 0644); err != nil {
		t.Fatal(err)
	}

	batch, err := LoadBatch(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if batch.Name != "smoke" || len(batch.Jobs) != 3 {
		t.Fatalf("unexpected batch %+v", batch)
	}

	st := storage.New(filepath.Join(dir, "runs"), quiet())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	results, err := RunBatch(context.Background(), batch, experiment.NewRegistry(), st, quiet())
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if s := results[0].Sample; s == nil || s.Index != 1.5 {
		t.Errorf("expected index 1.5 at the reference radius, got %+v", s)
	}
	if results[1].Scan == nil || len(results[1].Scan.Samples) != 21 {
		t.Error("scan job did not produce 21 samples")
	}
	if results[1].RunID == "" || results[2].RunID == "" {
		t.Error("expected saved run ids")
	}
	if results[2].Grid == nil || results[2].Grid.Samples[0][0].Index != 1.33 {
		t.Error("grid job did not sample the uniform medium")
	}

	runs, err := st.List()
	if err != nil || len(runs) != 2 {
		t.Errorf("expected 2 stored runs, got %d (%v)", len(runs), err)
	}
}

func TestRunBatchUnknownKind(t *testing.T) {
	batch := &Batch{Jobs: []Job{{Kind: "trace"}}}
	if _, err := RunBatch(context.Background(), batch, experiment.NewRegistry(), nil, quiet()); err == nil {
		t.Error("expected error for unknown job kind")
	}
}

func TestRunSweep(t *testing.T) {
	sweep := &Sweep{
		Medium: "luneberg",
		Params: map[string]float64{"base": 1.5, "c1": 1},
		Param:  "c2",
		Min:    0,
		Max:    10,
		Steps:  11,
		Point:  grin.Vec3{X: 3, Y: 4},
	}

	results, err := RunSweep(context.Background(), sweep, experiment.NewRegistry())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 11 {
		t.Fatalf("expected 11 rows, got %d", len(results))
	}

	// r = 5 sits on the reference radius when c2 = 5.
	best := results[0]
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("unexpected error at c2=%g: %v", r.ParamValue, r.Err)
		}
		if r.Sample.Index > best.Sample.Index {
			best = r
		}
	}
	if best.ParamValue != 5 || best.Sample.Index != 1.5 {
		t.Errorf("expected peak 1.5 at c2=5, got %g at c2=%g", best.Sample.Index, best.ParamValue)
	}
}

func TestRunSweepBadParam(t *testing.T) {
	sweep := &Sweep{Medium: "luneberg", Param: "c9", Min: 0, Max: 1, Steps: 2}
	if _, err := RunSweep(context.Background(), sweep, experiment.NewRegistry()); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestRunMonteCarlo(t *testing.T) {
	mc := &MonteCarlo{
		Medium: "luneberg",
		Params: map[string]float64{"base": 1.5, "c1": 1, "c2": 2},
		Trials: 500,
		Radius: 6,
		ZSpan:  10,
		Seed:   42,
	}

	stats, err := RunMonteCarlo(context.Background(), mc, experiment.NewRegistry())
	if err != nil {
		t.Fatalf("monte carlo failed: %v", err)
	}
	if stats.Trials != 500 || stats.Finite != 500 {
		t.Errorf("expected 500 finite trials, got %+v", stats)
	}
	if stats.MaxIndex > 1.5 || stats.MinIndex <= 0 {
		t.Errorf("index range out of bounds: [%g, %g]", stats.MinIndex, stats.MaxIndex)
	}

	again, err := RunMonteCarlo(context.Background(), mc, experiment.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if again.MinIndex != stats.MinIndex || again.MaxIndex != stats.MaxIndex {
		t.Error("same seed should reproduce the same statistics")
	}
}

func TestRunMonteCarloRejectsBadParams(t *testing.T) {
	mc := &MonteCarlo{
		Medium: "luneberg",
		Params: map[string]float64{"c1": math.NaN()},
		Trials: 10,
		Radius: 1,
		Seed:   7,
	}
	if _, err := RunMonteCarlo(context.Background(), mc, experiment.NewRegistry()); err == nil {
		t.Error("expected registry to reject NaN coefficient")
	}
}

func TestRunBatchRejectsSavedPoint(t *testing.T) {
	batch := &Batch{Jobs: []Job{{
		Kind:   "point",
		Medium: config.MediumConfig{Kind: "uniform", Base: 1.5},
		Point:  []float64{0, 0, 0},
		Save:   true,
	}}}
	st := storage.New(t.TempDir(), quiet())
	results, err := RunBatch(context.Background(), batch, experiment.NewRegistry(), st, quiet())
	if err == nil {
		t.Fatal("expected error for a saved point job")
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestRunMonteCarloZeroSeedIsReproducible(t *testing.T) {
	mc := &MonteCarlo{
		Medium: "luneberg",
		Params: map[string]float64{"c2": 2},
		Trials: 50,
		Radius: 4,
		ZSpan:  1,
		Seed:   0,
	}
	reg := experiment.NewRegistry()
	a, err := RunMonteCarlo(context.Background(), mc, reg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunMonteCarlo(context.Background(), mc, reg)
	if err != nil {
		t.Fatal(err)
	}
	if *a != *b {
		t.Errorf("seed 0 should reproduce: %+v vs %+v", a, b)
	}
}
