package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/grinprobe/internal/analysis"
	"github.com/san-kum/grinprobe/internal/export"
	"github.com/san-kum/grinprobe/internal/grin"
	"github.com/san-kum/grinprobe/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, logger)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tMEDIUM\tTIME\tSAMPLES\tFAILED\tPARAMS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.Kind,
			run.Medium,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Samples,
			run.Failed,
			formatParams(run.Params),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir, logger)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("medium: %s %s\n", meta.Medium, formatParams(meta.Params))
	fmt.Printf("samples: %d\n\n", len(samples))

	if meta.Kind == "grid" {
		_, rows, err := st.LoadGrid(runID)
		if err != nil {
			return err
		}
		// the center row crosses the axis
		samples = rows[len(rows)/2]
	}

	index := make([]float64, len(samples))
	grad := make([]float64, len(samples))
	for i, s := range samples {
		index[i] = s.Index
		grad[i] = s.NGradN.Len()
	}

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{index, "index"},
		{grad, "|n·∇n|"},
	} {
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		))
		fmt.Println()
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, logger)
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	return withOutput(outFile, func(w io.Writer) error {
		return storage.ExportCSV(w, samples)
	})
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, logger)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	return withOutput(outFile, func(w io.Writer) error {
		return storage.ExportJSON(w, meta, samples)
	})
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir, logger)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}

	if meta.Kind == "grid" {
		_, rows, err := st.LoadGrid(runID)
		if err != nil {
			return err
		}
		if err := writeGridSVG(path, rows); err != nil {
			return err
		}
	} else {
		samples, err := st.LoadSamples(runID)
		if err != nil {
			return err
		}
		svg := export.ProfileToSVG(lineProfile(samples), 800, 400, "#00a8cc")
		if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
			return err
		}
	}

	fmt.Printf("svg: %s\n", path)
	return nil
}

func writeGridSVG(path string, rows [][]grin.Sample) error {
	return os.WriteFile(path, []byte(export.GridToSVG(rows, cellSize)), 0644)
}

// lineProfile turns a scan into profile points keyed by distance along the
// line, with the radial component of n·∇n.
func lineProfile(samples []grin.Sample) []analysis.ProfilePoint {
	pts := make([]analysis.ProfilePoint, len(samples))
	if len(samples) == 0 {
		return pts
	}
	origin := samples[0].Pos
	for i, s := range samples {
		radial := 0.0
		if r := s.Pos.Radial(); r > 0 {
			radial = (s.Pos.X*s.NGradN.X + s.Pos.Y*s.NGradN.Y) / r
		}
		pts[i] = analysis.ProfilePoint{
			R:      s.Pos.Sub(origin).Len(),
			Index:  s.Index,
			Radial: radial,
			Code:   s.Code,
		}
	}
	return pts
}

func withOutput(path string, fn func(w io.Writer) error) error {
	if path == "" {
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatParams(params map[string]float64) string {
	parts := make([]string, 0, len(params))
	for _, k := range sortedKeys(params) {
		v := params[k]
		if math.IsNaN(v) {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%g", k, v))
	}
	return strings.Join(parts, " ")
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
