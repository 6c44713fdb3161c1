package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/konacodes/fluidsim/internal/analysis"
	"github.com/konacodes/fluidsim/internal/config"
	"github.com/konacodes/fluidsim/internal/export"
	"github.com/konacodes/fluidsim/internal/fluid"
	"github.com/konacodes/fluidsim/internal/gui"
	"github.com/konacodes/fluidsim/internal/metrics"
	"github.com/konacodes/fluidsim/internal/optim"
	"github.com/konacodes/fluidsim/internal/runner"
	"github.com/konacodes/fluidsim/internal/storage"
	"github.com/konacodes/fluidsim/internal/tui"
	"github.com/konacodes/fluidsim/internal/web"
)

var (
	dataDir    string
	configFile string
	preset     string

	width       float64
	height      float64
	frames      int
	sampleEvery int
	seed        int64
	gravity     float64
	viscosity   float64
	validate    bool

	withAudio bool

	addr       string
	staticRoot string

	svgOut    string
	svgSeries string

	sweepGrids    []string
	sweepMetric   string
	sweepTrials   int
	sweepMaximize bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fluidsim",
		Short: "interactive particle water simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the terminal frontend when no command given
			cfg, _, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			return tui.Run(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fluidsim", "data directory")

	addSimFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
		cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
		cmd.Flags().Float64Var(&width, "width", config.DefaultWidth, "world width")
		cmd.Flags().Float64Var(&height, "height", config.DefaultHeight, "world height")
		cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 keeps the config value)")
		cmd.Flags().Float64Var(&gravity, "gravity", 0, "gravity override")
		cmd.Flags().Float64Var(&viscosity, "viscosity", 0, "viscosity override")
	}
	addSimFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless simulation and record metrics",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", 1, "metric sampling interval")
	runCmd.Flags().BoolVar(&validate, "validate", true, "abort on NaN/Inf state")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal frontend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			return tui.Run(cfg)
		},
	}
	addSimFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "raylib window frontend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			return gui.Run(cfg, withAudio)
		},
	}
	addSimFlags(guiCmd)
	guiCmd.Flags().BoolVar(&withAudio, "audio", false, "enable ambient audio")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the simulation over websocket",
		RunE:  serveWeb,
	}
	addSimFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", "localhost:5000", "listen address")
	serveCmd.Flags().StringVar(&staticRoot, "static", "", "static file root (optional)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded metric series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the energy series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the final snapshot or a metric series to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().StringVar(&svgSeries, "series", "", "render this metric series instead of the snapshot")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over physics parameters",
		RunE:  sweepParams,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepGrids, "grid", nil, "parameter grid as name=lo:hi:n (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "kinetic_energy", "metric to optimize")
	sweepCmd.Flags().IntVar(&frames, "frames", 300, "frames per evaluation")
	sweepCmd.Flags().IntVar(&sweepTrials, "trials", 3, "seeds averaged per grid point")
	sweepCmd.Flags().BoolVar(&sweepMaximize, "maximize", false, "maximize the metric instead of minimizing")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the step pipeline",
		RunE:  benchSim,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, serveCmd, listCmd, plotCmd,
		analyzeCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, sweepCmd,
		benchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig resolves flag precedence: CLI flags beat the config file,
// which beats the preset, which beats the defaults.
func buildConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			names := config.ListPresets()
			sort.Strings(names)
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, names)
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("width") {
		cfg.Width = width
	}
	if cmd.Flags().Changed("height") {
		cfg.Height = height
	}
	if cmd.Flags().Changed("frames") {
		cfg.Frames = frames
	}
	if cmd.Flags().Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if cmd.Flags().Changed("seed") {
		cfg.Params.Seed = seed
	}
	if cmd.Flags().Changed("gravity") {
		cfg.Params.Gravity = gravity
	}
	if cmd.Flags().Changed("viscosity") {
		cfg.Params.Viscosity = viscosity
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, preset, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, presetName, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sim, err := cfg.NewSimulator()
	if err != nil {
		return err
	}

	r := runner.New()
	for _, m := range metrics.Default() {
		r.AddMetric(m)
	}

	opts := runner.Options{
		Frames:        cfg.Frames,
		SampleEvery:   cfg.SampleEvery,
		ValidateState: validate,
		Events:        cfg.Events,
	}

	fmt.Printf("running %d frames with %d particles...\n", cfg.Frames, len(sim.Particles))
	start := time.Now()

	result, err := r.Run(context.Background(), sim, opts)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(presetName, cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.FramesRun)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return nil
}

func serveWeb(cmd *cobra.Command, args []string) error {
	cfg, _, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return web.NewServer(cfg, staticRoot).ListenAndServe(ctx, addr)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFRAMES\tDT\tPARTICLES")

	for _, run := range runs {
		presetName := run.Preset
		if presetName == "" {
			presetName = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%d\n",
			run.ID,
			presetName,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Dt,
			run.Particles,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, _, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("frames: %d\n\n", meta.Frames)

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		data := series[name]
		if len(data) < 2 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, times, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	data, ok := series["kinetic_energy"]
	if !ok || len(data) < 4 || len(times) < 2 {
		return fmt.Errorf("not enough data to analyze")
	}

	fmt.Printf("frequency analysis: %s\n\n", meta.ID)

	sampleDt := times[1] - times[0]
	spec, err := analysis.PowerSpectrum(data, sampleDt)
	if err != nil {
		return err
	}

	plotData := spec.Power[:len(spec.Power)/4]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (kinetic energy)"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := spec.DominantFrequency()
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, times, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	cfg.Width = meta.Width
	cfg.Height = meta.Height
	cfg.Params.Dt = meta.Dt
	cfg.Params.Seed = meta.Seed

	result := &runner.Result{
		Times:     times,
		Series:    series,
		Metrics:   meta.Metrics,
		FramesRun: meta.Frames,
	}

	return storage.ExportJSONStdout(meta.Preset, cfg, result)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	series, times, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return fmt.Errorf("no data to export")
	}

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write(append([]string{"time"}, names...)); err != nil {
		return err
	}
	for i := range times {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, name := range names {
			row = append(row, strconv.FormatFloat(series[name][i], 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	var svg string
	if svgSeries != "" {
		series, times, err := st.LoadSeries(runID)
		if err != nil {
			return err
		}
		data, ok := series[svgSeries]
		if !ok {
			return fmt.Errorf("run has no series %q", svgSeries)
		}
		svg = export.SeriesSVG(times, data, 800, 300, "#4fc3f7")
		if svg == "" {
			return fmt.Errorf("not enough samples to plot")
		}
	} else {
		view, err := st.LoadSnapshot(runID)
		if err != nil {
			return err
		}
		svg = export.SnapshotSVG(view, meta.Width, meta.Height)
	}

	out := svgOut
	if out == "" {
		out = runID + ".svg"
	}
	if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", out)
	return nil
}

func sweepParams(cmd *cobra.Command, args []string) error {
	cfg, _, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if len(sweepGrids) == 0 {
		return fmt.Errorf("at least one --grid name=lo:hi:n required")
	}

	names := make([]string, 0, len(sweepGrids))
	ranges := make([][]float64, 0, len(sweepGrids))
	for _, spec := range sweepGrids {
		name, vals, err := parseGrid(spec)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}

	gs, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	points := 1
	for _, r := range ranges {
		points *= len(r)
	}
	fmt.Printf("sweeping %d grid points, %d trials each, %d frames per trial...\n",
		points, sweepTrials, frames)

	evaluate := func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		p := cfg.Params
		if err := optim.Apply(&p, params); err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}

		e := runner.NewEnsemble(sweepTrials, p.Seed)
		results, err := e.Run(ctx, runner.Options{Frames: frames, ValidateState: true},
			func(seed int64) (*runner.Runner, *fluid.Simulator, error) {
				c := *cfg
				c.Params = p
				c.Params.Seed = seed
				sim, err := c.NewSimulator()
				if err != nil {
					return nil, nil, err
				}
				r := runner.New()
				for _, m := range metrics.Default() {
					r.AddMetric(m)
				}
				return r, sim, nil
			})
		if err != nil {
			return nil, err
		}

		mean := runner.MeanMetrics(results)
		if sweepMaximize {
			mean[sweepMetric] = -mean[sweepMetric]
		}
		return mean, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	best, val, err := gs.Search(ctx, evaluate, sweepMetric)
	if err != nil {
		return err
	}
	if sweepMaximize {
		val = -val
	}

	fmt.Printf("\nbest %s: %.6f\n", sweepMetric, val)
	keys := make([]string, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s: %g\n", k, best[k])
	}
	return nil
}

// parseGrid splits "viscosity=0.05:0.4:4" into a name and its sampled
// values.
func parseGrid(spec string) (string, []float64, error) {
	name, rest, ok := strings.Cut(spec, "=")
	if !ok {
		return "", nil, fmt.Errorf("bad grid %q, want name=lo:hi:n", spec)
	}
	parts := strings.Split(rest, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("bad grid %q, want name=lo:hi:n", spec)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("bad grid %q: %w", spec, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("bad grid %q: %w", spec, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("bad grid %q: step count must be a positive integer", spec)
	}
	return name, optim.Values(lo, hi, n), nil
}

func benchSim(cmd *cobra.Command, args []string) error {
	counts := []int{250, 1000, 4000}
	const benchFrames = 300

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tFRAMES\tTIME\tFRAMES/SEC")

	for _, n := range counts {
		p := fluid.DefaultParams()
		sim := fluid.New(800, 600, p)

		side := 1
		for side*side < n {
			side++
		}
		sim.CreateWaterBlock(fluid.Rect{X: 100, Y: 100, W: float64(side) * 8, H: float64(side) * 8}, 8)

		start := time.Now()
		for i := 0; i < benchFrames; i++ {
			sim.Step()
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n",
			len(sim.Particles), benchFrames, elapsed.Round(time.Millisecond),
			float64(benchFrames)/elapsed.Seconds())
	}

	return w.Flush()
}
