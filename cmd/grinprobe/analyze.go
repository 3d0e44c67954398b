package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/grinprobe/internal/analysis"
	"github.com/san-kum/grinprobe/internal/automation"
	"github.com/san-kum/grinprobe/internal/config"
	"github.com/san-kum/grinprobe/internal/experiment"
	"github.com/san-kum/grinprobe/internal/grin"
	"github.com/san-kum/grinprobe/internal/optim"
	"github.com/san-kum/grinprobe/internal/storage"
)

func runProfile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	m, err := buildMedium(cfg)
	if err != nil {
		return err
	}

	prof := cfg.Profile
	pts, err := analysis.RadialProfile(m, prof.Z, prof.RMax, prof.Points)
	if err != nil {
		return err
	}

	fmt.Println(asciigraph.Plot(analysis.Indices(pts),
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("n(r), r in [0, %g] at z=%g", prof.RMax, prof.Z)),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(analysis.Radials(pts),
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("radial n·∇n"),
	))
	fmt.Println()

	peakR, peakN := analysis.Extrema(pts)
	fmt.Printf("peak index: %.6f at r=%.4f\n", peakN, peakR)

	dr := prof.RMax / float64(prof.Points-1)
	spec := analysis.Spectrum(pts, dr, powerFrac)
	fmt.Printf("bandwidth (%.0f%% power): %.4g cycles/unit\n", powerFrac*100, spec.Bandwidth)
	if !math.IsInf(spec.MaxStep, 1) {
		fmt.Printf("largest step resolving it: %.4g\n", spec.MaxStep)
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	m, err := buildMedium(cfg)
	if err != nil {
		return err
	}
	if points < 2 {
		return fmt.Errorf("need at least 2 points, got %d", points)
	}

	line := make([]grin.Vec3, points)
	for i := range line {
		line[i] = grin.Vec3{
			X: cfg.Profile.RMax * float64(i) / float64(points-1),
			Y: checkOffset,
			Z: cfg.Profile.Z,
		}
	}

	worst, all, err := analysis.ConsistencyAlong(m, line, cfg.Check.Step)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "R\tINDEX\tREPORTED X\tNUMERIC X\tREPORTED Y\tNUMERIC Y\tREL")
	for _, r := range all {
		s, _ := m.At(r.Pos)
		fmt.Fprintf(w, "%.4f\t%.6f\t%.6g\t%.6g\t%.6g\t%.6g\t%.3g\n",
			r.Pos.Radial(), s.Index,
			r.Reported.X, r.Numeric.X,
			r.Reported.Y, r.Numeric.Y,
			r.Rel)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nworst: r=%.4f rel=%.3g abs=(%.3g, %.3g, %.3g)\n",
		worst.Pos.Radial(), worst.Rel, worst.Abs.X, worst.Abs.Y, worst.Abs.Z)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	at, err := config.Vec(sweepAt)
	if err != nil {
		return fmt.Errorf("--at: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.Sweep{
		Medium: cfg.Medium.Kind,
		Params: cfg.Medium.Params(),
		Param:  sweepParam,
		Min:    sweepMin,
		Max:    sweepMax,
		Steps:  sweepSteps,
		Point:  at,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tINDEX\tNGX\tNGY\tCODE\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.6f\t%.6g\t%.6g\t%s\n",
			r.ParamValue, r.Sample.Index, r.Sample.NGradN.X, r.Sample.NGradN.Y, r.Sample.Code)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	stats, err := automation.RunMonteCarlo(ctx, &automation.MonteCarlo{
		Medium: cfg.Medium.Kind,
		Params: cfg.Medium.Params(),
		Trials: trials,
		Radius: radius,
		ZSpan:  zSpan,
		Seed:   seed,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	fmt.Printf("trials:        %d\n", stats.Trials)
	fmt.Printf("finite:        %d\n", stats.Finite)
	fmt.Printf("non-finite:    %d\n", stats.NonFinite)
	fmt.Printf("domain errors: %d\n", stats.Errors)
	if stats.Finite > 0 {
		fmt.Printf("index range:   [%.6f, %.6f]\n", stats.MinIndex, stats.MaxIndex)
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("batch: %s (%d jobs)\n", batch.Name, len(batch.Jobs))
	results, err := automation.RunBatch(ctx, batch, experiment.NewRegistry(), st, logger)
	for _, r := range results {
		switch {
		case r.Sample != nil:
			fmt.Printf("  job %d point: index=%.6f code=%s\n", r.Job, r.Sample.Index, r.Sample.Code)
		case r.Scan != nil:
			fmt.Printf("  job %d scan: %d samples, %d errors %s\n", r.Job, len(r.Scan.Samples), r.Scan.Failed(), r.RunID)
		case r.Grid != nil:
			lo, hi := r.Grid.IndexRange()
			fmt.Printf("  job %d grid: index [%.4f, %.4f] %s\n", r.Job, lo, hi, r.RunID)
		}
	}
	return err
}

func runFit(cmd *cobra.Command, args []string) error {
	ranges := make([][]float64, 2)
	for i, r := range [][]float64{fitC1, fitC2} {
		if len(r) != 3 || r[2] < 1 {
			return fmt.Errorf("range must be min,max,count, got %v", r)
		}
		ranges[i] = optim.Linspace(r[0], r[1], int(r[2]))
	}

	fit := &automation.Fit{RunID: args[0], C1: ranges[0], C2: ranges[1]}
	if cmd.Flags().Changed("base") {
		fit.Base = &base
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := automation.RunFit(ctx, fit, experiment.NewRegistry(), storage.New(dataDir, logger))
	if err != nil {
		return err
	}

	logger.Debug("fit complete", "candidates", len(ranges[0])*len(ranges[1]), "targets", res.Targets)
	fmt.Printf("best: base=%g c1=%g c2=%g\n", res.Base, res.C1, res.C2)
	fmt.Printf("index rms: %.6g\n", res.RMS)
	return nil
}
