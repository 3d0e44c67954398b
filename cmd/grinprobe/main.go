package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/san-kum/grinprobe/internal/config"
	"github.com/san-kum/grinprobe/internal/experiment"
	"github.com/san-kum/grinprobe/internal/grin"
	"github.com/san-kum/grinprobe/internal/storage"
	"github.com/san-kum/grinprobe/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	mediumKind string
	base       float64
	c1         float64
	c2         float64
	verbose    bool

	// scan
	scanFrom    []float64
	scanTo      []float64
	scanSteps   int
	stopOnError bool
	save        bool

	// grid
	plane     string
	halfWidth float64
	gridN     int
	workers   int
	svgOut    string
	cellSize  float64

	// profile and check
	profileZ    float64
	rMax        float64
	points      int
	diffStep    float64
	powerFrac   float64
	checkOffset float64

	// sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	sweepAt    []float64

	// monte carlo
	trials int
	radius float64
	zSpan  float64
	seed   int64

	// fit
	fitC1 []float64
	fitC2 []float64

	outFile string
	logger  *slog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "grinprobe",
		Short: "gradient-index medium probe",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = newLogger(verbose)
		},
		RunE: runProbe,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".grinprobe", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use a named medium preset")
	pf.StringVar(&mediumKind, "medium", config.DefaultKind, "medium kind (luneberg, uniform)")
	pf.Float64Var(&base, "base", config.DefaultBase, "base index")
	pf.Float64Var(&c1, "c1", config.DefaultC1, "profile steepness (coef[0])")
	pf.Float64Var(&c2, "c2", config.DefaultC2, "reference radius (coef[1])")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	evalCmd := &cobra.Command{
		Use:   "eval [x] [y] [z]",
		Short: "evaluate the medium at one point",
		Args:  cobra.ExactArgs(3),
		RunE:  evalPoint,
	}

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "radial index profile with spectrum",
		RunE:  runProfile,
	}
	profileCmd.Flags().Float64Var(&profileZ, "z", 0, "axial position")
	profileCmd.Flags().Float64Var(&rMax, "rmax", config.DefaultRMax, "largest radius")
	profileCmd.Flags().IntVar(&points, "points", config.DefaultPoints, "number of samples")
	profileCmd.Flags().Float64Var(&powerFrac, "power", 0.99, "power fraction for bandwidth")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "sample the medium along a line",
		RunE:  runScan,
	}
	scanCmd.Flags().Float64SliceVar(&scanFrom, "from", []float64{-config.DefaultHalfWidth, 0, 0}, "start point x,y,z")
	scanCmd.Flags().Float64SliceVar(&scanTo, "to", []float64{config.DefaultHalfWidth, 0, 0}, "end point x,y,z")
	scanCmd.Flags().IntVar(&scanSteps, "steps", config.DefaultSteps, "number of intervals")
	scanCmd.Flags().BoolVar(&stopOnError, "stop-on-error", false, "abort at the first domain error")
	scanCmd.Flags().BoolVar(&save, "save", true, "store the run")

	gridCmd := &cobra.Command{
		Use:   "grid",
		Short: "sample a square slice in parallel",
		RunE:  runGrid,
	}
	gridCmd.Flags().StringVar(&plane, "plane", "xy", "slice plane (xy, xz, yz)")
	gridCmd.Flags().Float64Var(&halfWidth, "half-width", config.DefaultHalfWidth, "half side length")
	gridCmd.Flags().IntVar(&gridN, "n", config.DefaultGridN, "samples per side")
	gridCmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "parallel workers")
	gridCmd.Flags().BoolVar(&save, "save", true, "store the run")
	gridCmd.Flags().StringVar(&svgOut, "svg", "", "also write a heat map to this file")
	gridCmd.Flags().Float64Var(&cellSize, "cell", 8, "svg cell size")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "compare n·∇n against finite differences of n²",
		RunE:  runCheck,
	}
	checkCmd.Flags().Float64Var(&profileZ, "z", 0, "axial position")
	checkCmd.Flags().Float64Var(&rMax, "rmax", config.DefaultRMax, "largest radius")
	checkCmd.Flags().IntVar(&points, "points", 11, "radii to check")
	checkCmd.Flags().Float64Var(&diffStep, "h", config.DefaultStep, "finite difference step")
	checkCmd.Flags().Float64Var(&checkOffset, "y", 0, "transverse y offset of the check line")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "step one medium parameter at a fixed point",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "c2", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 10, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 11, "number of values")
	sweepCmd.Flags().Float64SliceVar(&sweepAt, "at", []float64{5, 0, 0}, "probe point x,y,z")

	mcCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "evaluate random points and count failures",
		RunE:  runMonteCarlo,
	}
	mcCmd.Flags().IntVar(&trials, "trials", 10000, "number of points")
	mcCmd.Flags().Float64Var(&radius, "radius", config.DefaultRMax, "sampling radius")
	mcCmd.Flags().Float64Var(&zSpan, "zspan", 10, "sampling half length in z")
	mcCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")

	fitCmd := &cobra.Command{
		Use:   "fit [run_id]",
		Short: "grid search luneberg c1/c2 to match a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  runFit,
	}
	fitCmd.Flags().Float64SliceVar(&fitC1, "c1-range", []float64{0.1, 4, 40}, "c1 search min,max,count")
	fitCmd.Flags().Float64SliceVar(&fitC2, "c2-range", []float64{0, 10, 41}, "c2 search min,max,count")

	batchCmd := &cobra.Command{
		Use:   "batch [file.yaml]",
		Short: "run a batch of jobs",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a stored run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	svgCmd.Flags().Float64Var(&cellSize, "cell", 8, "grid cell size")

	presetsCmd := &cobra.Command{
		Use:   "presets [medium]",
		Short: "list available presets for a medium",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := experiment.NewRegistry().ListMedia()
			if len(args) == 1 {
				kinds = args[:1]
			}
			for _, kind := range kinds {
				presets := config.ListPresets(kind)
				if len(presets) == 0 {
					fmt.Printf("no presets for medium: %s\n", kind)
					continue
				}
				fmt.Printf("presets for %s:\n", kind)
				for _, name := range presets {
					p := config.GetPreset(kind, name)
					fmt.Printf("  %-8s base=%g c1=%g c2=%g\n", name, p.Base, p.C1, p.C2)
				}
			}
			return nil
		},
	}

	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "interactive terminal probe",
		RunE:  runProbe,
	}

	rootCmd.AddCommand(evalCmd, profileCmd, scanCmd, gridCmd, checkCmd, sweepCmd, mcCmd,
		fitCmd, batchCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, svgCmd, presetsCmd, probeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig layers defaults, the config file, a preset and finally any
// flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	var o config.Overrides
	changed := func(name string) bool { return flags.Changed(name) }
	if changed("medium") {
		o.Kind = &mediumKind
	}
	if changed("base") {
		o.Base = &base
	}
	if changed("c1") {
		o.C1 = &c1
	}
	if changed("c2") {
		o.C2 = &c2
	}
	if changed("from") {
		o.From = scanFrom
	}
	if changed("to") {
		o.To = scanTo
	}
	if changed("steps") && cmd.Name() == "scan" {
		o.Steps = &scanSteps
	}
	if changed("stop-on-error") {
		o.StopOnError = &stopOnError
	}
	if changed("plane") {
		o.Plane = &plane
	}
	if changed("half-width") {
		o.HalfWidth = &halfWidth
	}
	if changed("n") {
		o.N = &gridN
	}
	if changed("workers") {
		o.Workers = &workers
	}
	if changed("z") {
		o.Z = &profileZ
	}
	if changed("rmax") {
		o.RMax = &rMax
	}
	if changed("points") {
		o.Points = &points
	}
	if changed("h") {
		o.Step = &diffStep
	}

	cfg, err := config.Resolve(cfg, preset, o)
	if err != nil {
		return nil, err
	}

	logger.Debug("config resolved",
		"medium", cfg.Medium.Kind,
		"base", cfg.Medium.Base,
		"c1", cfg.Medium.C1,
		"c2", cfg.Medium.C2)
	return cfg, nil
}

func buildMedium(cfg *config.Config) (experiment.Medium, error) {
	return experiment.NewRegistry().GetMedium(cfg.Medium.Kind, cfg.Medium.Params())
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir, logger)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func evalPoint(cmd *cobra.Command, args []string) error {
	var c [3]float64
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("coordinate %d: %w", i, err)
		}
		c[i] = v
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	m, err := buildMedium(cfg)
	if err != nil {
		return err
	}

	p := grin.Vec3{X: c[0], Y: c[1], Z: c[2]}
	s, err := m.At(p)
	if err != nil {
		logger.Warn("evaluation failed", "pos", p, "err", err)
	}

	fmt.Printf("medium: %s %v\n", m.Name(), cfg.Medium.Params())
	fmt.Printf("pos:    (%g, %g, %g)  r=%g\n", p.X, p.Y, p.Z, p.Radial())
	fmt.Printf("index:  %.12g\n", s.Index)
	fmt.Printf("n∇n:    (%.12g, %.12g, %.12g)\n", s.NGradN.X, s.NGradN.Y, s.NGradN.Z)
	fmt.Printf("code:   %d (%s)\n", int(s.Code), s.Code)
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	line, err := cfg.Scan.Line()
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	m, err := registry.GetMedium(cfg.Medium.Kind, cfg.Medium.Params())
	if err != nil {
		return err
	}

	exp := experiment.New(experiment.Config{
		Medium: cfg.Medium.Kind,
		Params: cfg.Medium.Params(),
		Line:   line,
	}, logger)
	if err := exp.Setup(m, registry.DefaultMetrics(cfg.Medium.Kind)); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := exp.Scan(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("samples: %d\n", len(result.Samples))
	fmt.Printf("domain errors: %d\n", result.Failed())
	printMetrics(result.Metrics)

	if !save {
		return nil
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	runID, err := st.SaveScan(cfg.Medium.Kind, cfg.Medium.Params(), line, result)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runGrid(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	spec, err := cfg.Grid.Spec()
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	m, err := registry.GetMedium(cfg.Medium.Kind, cfg.Medium.Params())
	if err != nil {
		return err
	}

	exp := experiment.New(experiment.Config{
		Medium: cfg.Medium.Kind,
		Params: cfg.Medium.Params(),
		Grid:   spec,
	}, logger)
	if err := exp.Setup(m, nil); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	grid, err := exp.Grid(ctx)
	if err != nil {
		return err
	}

	lo, hi := grid.IndexRange()
	axes := spec.Plane.Axes()
	fmt.Printf("slice: %s plane, %dx%d, %s,%s in ±%g\n", spec.Plane, spec.N, spec.N, axes[0], axes[1], spec.HalfWidth)
	fmt.Printf("index range: [%.6f, %.6f]\n", lo, hi)
	fmt.Printf("domain errors: %d\n", len(grid.Errors))

	if svgOut != "" {
		if err := writeGridSVG(svgOut, grid.Samples); err != nil {
			return err
		}
		fmt.Printf("svg: %s\n", svgOut)
	}

	if !save {
		return nil
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	runID, err := st.SaveGrid(cfg.Medium.Kind, cfg.Medium.Params(), grid)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	m, err := buildMedium(cfg)
	if err != nil {
		return err
	}

	opts := viz.DefaultOptions()
	opts.Theme = cfg.Theme
	opts.HalfWidth = cfg.Profile.RMax
	opts.Start = grin.Vec3{X: cfg.Medium.C2}
	return viz.RunProbe(m, opts)
}

func printMetrics(m map[string]float64) {
	if len(m) == 0 {
		return
	}
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(m) {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}
