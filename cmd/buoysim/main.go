package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/buoysim/internal/analysis"
	"github.com/san-kum/buoysim/internal/automation"
	"github.com/san-kum/buoysim/internal/config"
	"github.com/san-kum/buoysim/internal/experiment"
	"github.com/san-kum/buoysim/internal/export"
	"github.com/san-kum/buoysim/internal/fluid"
	"github.com/san-kum/buoysim/internal/optim"
	"github.com/san-kum/buoysim/internal/sim"
	"github.com/san-kum/buoysim/internal/storage"
	"github.com/san-kum/buoysim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	dt         float64
	duration   float64
	engineName string
	integrator string
	debug      bool
	// sweep
	massID   string
	from     float64
	to       float64
	steps    int
	parallel int
	// svg
	outFile string
	svg     bool
	// monte carlo
	trials  int
	perturb float64
	seed    int64

	logger *log.Logger
)

// main registers the commands and runs the preset picker when no subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "buoysim",
		Short: "buoyancy and fluid volume simulation lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = newLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPicker()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".buoysim", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log invariant clamps")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scene and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	sceneFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot heights and basin levels of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "print the sampled states as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [preset]",
		Short: "run a scene and print every sample as json",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}
	sceneFlags(exportJSONCmd)

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "chart a run's heights as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")

	renderCmd := &cobra.Command{
		Use:   "render [preset]",
		Short: "run a scene and draw its final state",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderScene,
	}
	sceneFlags(renderCmd)
	renderCmd.Flags().BoolVar(&svg, "svg", false, "write svg instead of braille")
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "heave spectrum and damping of a mass",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&massID, "mass", "", "mass id (default: first mass)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "submerged fraction over a density range",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&massID, "mass", "", "mass id (default: first movable mass)")
	sweepCmd.Flags().Float64Var(&from, "from", 200, "first density")
	sweepCmd.Flags().Float64Var(&to, "to", 900, "last density")
	sweepCmd.Flags().IntVar(&steps, "steps", 8, "number of densities")
	sweepCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent runs (0: one per cpu)")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "perturb start heights and count stable runs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	sceneFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 16, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 0.05, "max start height offset")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	monteCarloCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent runs (0: one per cpu)")

	batchCmd := &cobra.Command{
		Use:   "batch [file.yaml]",
		Short: "run an automation script",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "live view of a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	sceneFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd,
		exportSVGCmd, renderCmd, analyzeCmd, sweepCmd, monteCarloCmd, batchCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "tick length")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&engineName, "engine", config.DefaultEngine, "physics engine")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (simple engine)")
}

func newLogger() *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "buoysim",
	})
	if debug {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// loadScene applies preset, then config file, then flags that were set.
func loadScene(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	default:
		name := "cube"
		if len(args) > 0 {
			name = args[0]
		}
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("engine") {
		cfg.Engine = engineName
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if debug {
		cfg.Debug = true
	}
	return cfg, cfg.Validate()
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	exp := experiment.New(cfg, logger)
	if err := exp.Setup(reg); err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	logger.Info("running", "scene", cfg.Name, "engine", cfg.Engine, "integrator", cfg.Integrator, "dt", cfg.Dt, "duration", cfg.Duration)
	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	logger.Debug("run finished", "elapsed", time.Since(start), "guard_violations", exp.Model().GuardViolations())

	st := storage.New(dataDir)
	runID, err := st.Save(automation.RunInfo(cfg), result)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("volume drift: %.3g\n", result.VolumeDrift)
	for _, err := range result.Errors {
		var e sim.SimError
		if !errors.As(err, &e) {
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Printf("error at t=%.3f (step %d): %s\n", e.Time, e.Step, e.Message)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nMETRIC\tVALUE")
	for _, name := range slices.Sorted(maps.Keys(result.Metrics)) {
		fmt.Fprintf(w, "%s\t%.6f\n", name, result.Metrics[name])
	}
	return w.Flush()
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tENGINE\tINTEG\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%.2g\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Engine,
			run.Integrator,
			run.Drift,
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

	table, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(table.Rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(table.Rows))

	for _, id := range meta.Masses {
		y, err := table.Column(id + "_y")
		if err != nil {
			return err
		}
		frac, err := table.Column(id + "_fraction")
		if err != nil {
			return err
		}
		fmt.Println(viz.Plot(id+" height", 80, 8, y))
		fmt.Println()
		fmt.Println(viz.Plot(id+" submerged fraction", 80, 5, frac))
		fmt.Println()
	}

	for _, id := range meta.Basins {
		h, err := table.Column(id + "_height")
		if err != nil {
			return err
		}
		fmt.Println(viz.Plot(id+" surface", 80, 6, h))
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("id: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("engine: %s / %s\n", meta.Engine, meta.Integrator)
	fmt.Printf("dt: %.4f\n", meta.Dt)
	fmt.Printf("duration: %.2f\n", meta.Duration)
	fmt.Printf("steps: %d\n", meta.Steps)
	fmt.Printf("discarded: %.6f\n", meta.Discarded)
	fmt.Printf("volume drift: %.3g\n", meta.Drift)
	fmt.Printf("data: %s\n", st.CSVPath(meta.ID))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	data, err := os.ReadFile(st.CSVPath(args[0]))
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, logger)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	return storage.ExportJSONStdout(automation.RunInfo(cfg), result)
}

func writeOut(text string) error {
	if outFile == "" {
		_, err := fmt.Println(text)
		return err
	}
	return os.WriteFile(outFile, []byte(text+"\n"), 0644)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	table, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	var series []export.Series
	for _, id := range meta.Masses {
		y, err := table.Column(id + "_y")
		if err != nil {
			return err
		}
		series = append(series, export.Series{Name: id, Values: y})
	}
	for _, id := range meta.Basins {
		h, err := table.Column(id + "_height")
		if err != nil {
			return err
		}
		series = append(series, export.Series{Name: id + " surface", Values: h})
	}

	doc := export.ChartSVG(meta.Scene+" heights", table.Times, series, 800, 400)
	if doc == "" {
		return fmt.Errorf("no data to chart")
	}
	return writeOut(doc)
}

func renderScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, logger)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	if _, err := exp.Run(ctx); err != nil {
		return err
	}

	canvas := viz.Frame(exp.Model(), 60, 18)
	if svg {
		return writeOut(export.CanvasToSVG(canvas, 6, "#4fc3f7"))
	}
	return writeOut(canvas.String())
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	table, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(table.Times) < 2 {
		return fmt.Errorf("no data")
	}

	id := massID
	if id == "" {
		if len(meta.Masses) == 0 {
			return fmt.Errorf("run %s has no masses", runID)
		}
		id = meta.Masses[0]
	}
	ys, err := table.Column(id + "_y")
	if err != nil {
		return err
	}
	step := table.Times[1] - table.Times[0]

	fmt.Printf("heave analysis: %s\n", meta.ID)
	fmt.Printf("mass: %s\n\n", id)

	n := 1
	for n*2 <= len(ys) {
		n *= 2
	}
	ps := analysis.PowerSpectrum(analysis.Detrend(ys[:n]))
	if len(ps) > 8 {
		fmt.Println(viz.Plot("power spectrum ("+id+"_y)", 80, 12, ps[1:len(ps)/4]))
		fmt.Println()
	}

	h := analysis.Heave(ys, step)
	fmt.Printf("mean height: %.4f m\n", h.Mean)
	fmt.Printf("amplitude: %.4f m\n", h.Amplitude)
	fmt.Printf("dominant frequency: %.3f hz\n", h.Frequency)
	if h.Period > 0 {
		fmt.Printf("period: %.3f s\n", h.Period)
	}
	fmt.Printf("peaks: %d\n", h.Peaks)
	fmt.Printf("damping ratio: %.3f\n", h.Damping)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	id := massID
	if id == "" {
		for _, m := range cfg.Masses {
			if m.IsMovable() && m.IsVisible() {
				id = m.ID
				break
			}
		}
	}
	if id == "" {
		return fmt.Errorf("scene %s has no movable mass", cfg.Name)
	}

	sweep := &optim.DensitySweep{Mass: id, From: from, To: to, Steps: steps, Parallel: parallel}

	ctx, cancel := interruptible()
	defer cancel()

	logger.Info("sweeping density", "scene", cfg.Name, "mass", id, "from", from, "to", to, "steps", steps)
	points, err := sweep.Run(ctx, experiment.NewRegistry(), cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DENSITY\tFRACTION\tARCHIMEDES\tSETTLED")
	fractions := make([]float64, len(points))
	for i, p := range points {
		settled := "moving"
		if p.Settled >= 0 {
			settled = fmt.Sprintf("%.2fs", p.Settled)
		}
		fmt.Fprintf(w, "%.1f\t%.4f\t%.4f\t%s\n", p.Density, p.Fraction, p.Archimedes, settled)
		fractions[i] = p.Fraction
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(fractions) > 1 {
		fmt.Println()
		fmt.Println(viz.Plot("submerged fraction vs density", 60, 8, fractions))
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	logger.Info("monte carlo", "scene", cfg.Name, "trials", trials, "perturbation", perturb, "seed", seed)
	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: perturb,
		NumTrials:    trials,
		Seed:         seed,
		Parallel:     parallel,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSTABLE\tDRIFT")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%v\t%.3g\n", r.TrialID, r.Stable, r.Drift)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d  unstable: %d\n", stable, unstable)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	if script.Name != "" {
		logger.Info("batch", "name", script.Name, "steps", len(script.Steps))
	}
	outcomes, err := automation.RunScript(ctx, script, experiment.NewRegistry(), storage.New(dataDir), logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENE\tSTEPS\tDRIFT\tRUN")
	for i, out := range outcomes {
		run := "-"
		if out.RunID != "" {
			run = out.RunID
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%.3g\t%s\n", i+1, out.Scene, out.Result.StepsTaken, out.Result.VolumeDrift, run)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

// launch builds the live view of a scene. The model logs nothing while the
// alt screen is up.
func launch(cfg *config.Config) (viz.Live, error) {
	reg := experiment.NewRegistry()
	build := func() (*fluid.Model, error) {
		return experiment.Build(reg, cfg, nil)
	}
	return viz.NewLive(cfg.Name, build, cfg.Dt)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	live, err := launch(cfg)
	if err != nil {
		return err
	}
	return viz.Run(live)
}

func runPicker() error {
	names := config.ListPresets()
	info := make(map[string]string, len(names))
	for _, name := range names {
		cfg := config.GetPreset(name)
		info[name] = fmt.Sprintf("%d pools, %d boats, %d masses, %.0fs", len(cfg.Pools), len(cfg.Boats), len(cfg.Masses), cfg.Duration)
	}

	picker := viz.NewPicker(names, info, func(name string) (viz.Live, error) {
		cfg := config.GetPreset(name)
		if cfg == nil {
			return viz.Live{}, fmt.Errorf("unknown preset: %s", name)
		}
		return launch(cfg)
	})
	return viz.RunPicker(picker)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tPOOLS\tBOATS\tMASSES\tDURATION\tDT")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.1fs\t%.4f\n", name, len(cfg.Pools), len(cfg.Boats), len(cfg.Masses), cfg.Duration, cfg.Dt)
	}
	return w.Flush()
}
