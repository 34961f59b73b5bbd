package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/gyroint/internal/analysis"
	"github.com/san-kum/gyroint/internal/automation"
	"github.com/san-kum/gyroint/internal/config"
	"github.com/san-kum/gyroint/internal/experiment"
	"github.com/san-kum/gyroint/internal/export"
	"github.com/san-kum/gyroint/internal/integrators"
	"github.com/san-kum/gyroint/internal/optim"
	"github.com/san-kum/gyroint/internal/signals"
	"github.com/san-kum/gyroint/internal/sim"
	"github.com/san-kum/gyroint/internal/storage"
	"github.com/san-kum/gyroint/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	dt         float64
	ticks      int
	seed       int64
	scenario   string
	threshold  float64
	stopNaN    bool
	inputFile  string
	column     string
	axes       []string
	configFile string
	preset     string
	frameTicks int
	outFile    string

	dtMin    float64
	dtMax    float64
	numSteps int
	duration float64
	gridDts  []float64
	metric   string
	trials   int
	bound    float64

	gridThresholds []float64
	saveConfig     string
	preview        int
	previewSeed    int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gyroint",
		Short: "discrete-time gyro rate integrator lab",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gyroint", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "integrate a rate scenario and save the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runIntegrator,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the resolved config (including seed) to this yaml file")

	axesCmd := &cobra.Command{
		Use:   "axes [scenario]",
		Short: "integrate one independent channel per axis",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAxes,
	}
	addRunFlags(axesCmd)
	axesCmd.Flags().StringSliceVar(&axes, "axes", []string{"x", "y", "z"}, "axis names")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "step the integrator with live terminal graphs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameTicks, "frame-ticks", 3, "ticks per frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot rate and integrated angle",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the integrated angle as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "rate spectrum and angle drift",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list rate scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range signals.Generators() {
				if preview <= 0 {
					fmt.Println(name)
					continue
				}
				stream, err := signals.Generate(name, previewSeed)
				if err != nil {
					return err
				}
				fmt.Println(viz.Plot(stream.Take(preview), name, 6, 60))
			}
			return nil
		},
	}
	scenariosCmd.Flags().IntVar(&preview, "preview", 0, "plot the first N samples of each scenario")
	scenariosCmd.Flags().Int64Var(&previewSeed, "seed", 1, "noise seed for the preview")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			sort.Strings(presets)
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "rerun a scenario over a range of time steps",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&dtMin, "dt-min", 0.001, "smallest time step")
	sweepCmd.Flags().Float64Var(&dtMax, "dt-max", 0.05, "largest time step")
	sweepCmd.Flags().IntVar(&numSteps, "steps", 10, "number of time steps")
	sweepCmd.Flags().Float64Var(&duration, "duration", 10, "simulated seconds per run")

	gridCmd := &cobra.Command{
		Use:   "grid [scenario]",
		Short: "search time steps and thresholds for the lowest metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGrid,
	}
	addRunFlags(gridCmd)
	gridCmd.Flags().Float64SliceVar(&gridDts, "dts", []float64{0.001, 0.005, 0.01, 0.02}, "time steps to try")
	gridCmd.Flags().Float64SliceVar(&gridThresholds, "thresholds", nil, "bounded-metric thresholds to try (default: --threshold)")
	gridCmd.Flags().StringVar(&metric, "metric", "residual", "metric to minimize")
	gridCmd.Flags().Float64Var(&duration, "duration", 10, "simulated seconds per run")

	batchCmd := &cobra.Command{
		Use:   "batch [script.yaml]",
		Short: "run a YAML script of runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	addRunFlags(batchCmd)

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [scenario]",
		Short: "rerun a noisy scenario over consecutive seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addRunFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 100, "number of trials")
	monteCarloCmd.Flags().Float64Var(&bound, "bound", config.DefaultThreshold, "bound on |final angle|")

	rootCmd.AddCommand(runCmd, axesCmd, liveCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, analyzeCmd, scenariosCmd, presetsCmd,
		sweepCmd, gridCmd, batchCmd, monteCarloCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step in seconds")
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "noise seed")
	cmd.Flags().Float64Var(&threshold, "threshold", config.DefaultThreshold, "bound for the bounded metric")
	cmd.Flags().BoolVar(&stopNaN, "stop-on-nan", false, "stop at the first non-finite output")
	cmd.Flags().StringVar(&inputFile, "input", "", "replay samples from a CSV file")
	cmd.Flags().StringVar(&column, "column", config.DefaultColumn, "CSV column to replay")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers defaults, preset, config file and changed flags, in
// that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Scenario = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scenario))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 {
			loaded.Scenario = args[0]
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") || (preset == "" && configFile == "") {
		cfg.Dt = dt
	}
	if flags.Changed("ticks") || (preset == "" && configFile == "") {
		cfg.Ticks = ticks
	}
	if flags.Changed("seed") || (preset == "" && configFile == "") {
		cfg.Seed = seed
	}
	if flags.Changed("threshold") {
		cfg.Threshold = threshold
	}
	if flags.Changed("stop-on-nan") {
		cfg.StopOnNonFinite = stopNaN
	}
	if flags.Changed("input") {
		cfg.Input.File = inputFile
	}
	if flags.Changed("column") {
		cfg.Input.Column = column
	}
	if flags.Lookup("axes") != nil && (flags.Changed("axes") || len(cfg.Axes) < 2) {
		cfg.Axes = axes
	}

	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runIntegrator(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	exp.SetObserver(newProgress(cfg.Ticks, logrus.WithField("scenario", cfg.SourceName())))

	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("integrating %s...\n", cfg.SourceName())
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunInfo{Scenario: cfg.SourceName(), Dt: cfg.Dt, Seed: cfg.Seed}, result)
	if err != nil {
		return err
	}

	fmt.Println(viz.Summary(runID, [][2]string{
		{"elapsed", elapsed.String()},
		{"ticks", fmt.Sprintf("%d", result.TicksTaken)},
		{"dt", fmt.Sprintf("%g s", cfg.Dt)},
		{"final", fmt.Sprintf("%.6g", result.Final)},
		{"non-finite", fmt.Sprintf("%d", result.NonFinite)},
	}, result.Metrics))

	for _, e := range result.Errors {
		logrus.WithError(e).Warn("run stopped early")
	}
	return nil
}

func runAxes(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := exp.RunAxes(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AXIS\tRUN ID\tFINAL\tPEAK\tNON-FINITE")
	for i, result := range results {
		runID, err := st.Save(storage.RunInfo{Scenario: cfg.SourceName(), Axis: cfg.Axes[i], Dt: cfg.Dt, Seed: cfg.Seed + int64(i)}, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%.6g\t%.6g\t%d\n", cfg.Axes[i], runID, result.Final, result.Metrics["peak"], result.NonFinite)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	m := viz.NewModel(integrators.NewDiscrete(cfg.IntegratorConfig()), exp.Source(0), cfg.SourceName(), cfg.Dt, frameTicks)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
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
	fmt.Fprintln(w, "ID\tSCENARIO\tAXIS\tDT\tTICKS\tFINAL\tTIMESTAMP")
	for _, run := range runs {
		axis := run.Axis
		if axis == "" {
			axis = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\t%.6g\t%s\n",
			run.ID, run.Scenario, axis, run.Dt, run.Ticks, float64(run.Final),
			run.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, storage.Series, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, storage.Series{}, err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return nil, storage.Series{}, err
	}
	if len(series.Outputs) == 0 {
		return nil, storage.Series{}, errors.Errorf("run %s has no data", runID)
	}
	return meta, series, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("ticks: %d\n\n", len(series.Outputs))

	fmt.Println(viz.Plot(series.Samples, "rate (input)", 10, 80))
	fmt.Println()
	fmt.Println(viz.Plot(series.Outputs, "integrated angle (output)", 10, 80))
	fmt.Println()
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, storage.Series{})
}

// output returns stdout or the --out file; close is always safe to call.
func output() (*os.File, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create output")
	}
	return f, f.Close, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(w, *meta, series); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(w, series); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	svg := export.SeriesToSVG(series.Times, series.Outputs, 800, 300, "#00ffcc")
	if svg == "" {
		return errors.Errorf("run %s has fewer than two finite outputs", args[0])
	}
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, svg); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%d ticks at %g s)\n\n", meta.ID, len(series.Samples), meta.Dt)

	bins, err := analysis.Spectrum(series.Samples, meta.Dt)
	if err != nil {
		fmt.Printf("spectrum: %v\n", err)
	} else if peak, ok := analysis.DominantFrequency(bins); ok {
		fmt.Printf("dominant rate frequency: %.4f Hz (power %.4g)\n", peak.Freq, peak.Power)

		power := make([]float64, 0, len(bins))
		for _, b := range bins[1:] {
			power = append(power, b.Power)
		}
		fmt.Println(viz.Plot(power, "rate power spectrum", 8, 80))
	}

	slope, err := analysis.Drift(series.Times, series.Outputs)
	if err != nil {
		fmt.Printf("drift: %v\n", err)
	} else {
		fmt.Printf("\nangle drift: %.6g per s\n", slope)
	}

	if bad := series.Outputs.FirstInvalid(); bad >= 0 {
		fmt.Printf("first non-finite output: tick %d\n", bad)
	}

	summary := []string{fmt.Sprintf("peak=%.6g", float64(meta.Metrics["peak"]))}
	if v, ok := meta.Metrics["residual"]; ok {
		summary = append(summary, fmt.Sprintf("residual=%.3g", float64(v)))
	}
	fmt.Println(strings.Join(summary, "  "))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.DtSweep{
		Base:     cfg,
		DtMin:    dtMin,
		DtMax:    dtMax,
		NumSteps: numSteps,
		Duration: duration,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tTICKS\tFINAL\tPEAK\tRESIDUAL")
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%d\t%.6g\t%.6g\t%.3g\n", r.Dt, r.Ticks, r.Final, r.Peak, r.Residual)
	}
	return w.Flush()
}

func runGrid(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	thresholds := gridThresholds
	if len(thresholds) == 0 {
		thresholds = []float64{base.Threshold}
	}
	g := optim.NewGridSearch([]string{"dt", "threshold"}, [][]float64{gridDts, thresholds})

	ctx, cancel := signalContext()
	defer cancel()

	best, all, err := g.Search(ctx, optim.ConfigBuilder(base, duration), metric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "DT\tTHRESHOLD\t%s\n", strings.ToUpper(metric))
	for _, e := range all {
		fmt.Fprintf(w, "%g\t%g\t%.6g\n", e.Params["dt"], e.Params["threshold"], e.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("best: dt=%g threshold=%g %s=%.6g\n", best.Params["dt"], best.Params["threshold"], metric, best.Value)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}

	base, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	save := func(name string, cfg *config.Config, result *sim.Result) error {
		runID, err := st.Save(storage.RunInfo{Scenario: name, Dt: cfg.Dt, Seed: cfg.Seed}, result)
		if err != nil {
			return err
		}
		fmt.Printf("saved %s\n", runID)
		return nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunScript(ctx, script, base, save)
	for _, r := range results {
		fmt.Printf("%-20s final=%.6g non-finite=%d\n", r.Config.SourceName(), r.Result.Final, r.Result.NonFinite)
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:      cfg,
		NumTrials: trials,
		Seed:      cfg.Seed,
		Bound:     bound,
	})
	if err != nil {
		return err
	}

	st := automation.MonteCarloStats(results)
	fmt.Println(viz.Summary(cfg.SourceName()+" monte carlo", [][2]string{
		{"trials", fmt.Sprintf("%d", len(results))},
		{"mean final", fmt.Sprintf("%.6g", st.Mean)},
		{"std final", fmt.Sprintf("%.6g", st.Std)},
		{"bounded", fmt.Sprintf("%d", st.Bounded)},
		{"unbounded", fmt.Sprintf("%d", st.Unbounded)},
	}, nil))
	return nil
}

// progress logs run progress at debug level, ten times per run.
type progress struct {
	every int
	total int
	log   *logrus.Entry
}

func newProgress(total int, log *logrus.Entry) *progress {
	return &progress{every: max(total/10, 1), total: total, log: log}
}

func (p *progress) OnTick(tick int, sample, output float64) {
	if (tick+1)%p.every != 0 {
		return
	}
	p.log.WithFields(logrus.Fields{"tick": tick + 1, "of": p.total, "output": output}).Debug("progress")
}
