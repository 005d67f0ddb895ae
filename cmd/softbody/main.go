package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/softbody/internal/analysis"
	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/export"
	"github.com/san-kum/softbody/internal/metrics"
	"github.com/san-kum/softbody/internal/physics"
	"github.com/san-kum/softbody/internal/render"
	"github.com/san-kum/softbody/internal/sim"
	"github.com/san-kum/softbody/internal/topology"
	"github.com/san-kum/softbody/internal/tui"
	"github.com/san-kum/softbody/internal/viz"
)

// coordinates beyond this many metres count as a blow-up
const stabilityThreshold = 100.0

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	dt             float64
	duration       float64
	increment      float64
	frameIncrement float64
	gravity        float64
	damping        float64
	stiffness      float64
	mass           float64
	dropHeight     float64
	ground         bool
	groundK        float64
	friction       float64
	amplitude      float64
	frequency      float64

	// run
	validate  bool
	save      bool
	plot      bool
	traceFile string

	// bench
	benchCalls int
	parallel   int

	// snapshot
	at     float64
	format string
	out    string
	width  int
	height int

	// analyze
	sampleInterval float64
	field          string
	skip           float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "softbody",
		Short:        "actuated soft-body mass-spring lab",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, nil)
			if err != nil {
				return err
			}
			if cfg.Render {
				return startLive(cfg)
			}
			return runHeadless(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".softbody", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	runCmd := &cobra.Command{
		Use:       "run [topology]",
		Short:     "run headless and report throughput",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: modeNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args)
			if err != nil {
				return err
			}
			return runHeadless(cfg)
		},
	}
	addPhysicsFlags(runCmd)
	runCmd.Flags().BoolVar(&validate, "validate", false, "stop at the first call that leaves NaN or Inf")
	runCmd.Flags().BoolVar(&save, "save", false, "store the run under the data directory")
	runCmd.Flags().BoolVar(&plot, "plot", true, "plot the lowest point over time")
	runCmd.Flags().StringVar(&traceFile, "trace", "", "write the sampled trace as CSV")

	liveCmd := &cobra.Command{
		Use:       "live [topology]",
		Short:     "watch the body in the terminal",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: modeNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args)
			if err != nil {
				return err
			}
			return startLive(cfg)
		},
	}
	addPhysicsFlags(liveCmd)

	benchCmd := &cobra.Command{
		Use:       "bench [topology...]",
		Short:     "measure spring evaluations per second",
		ValidArgs: modeNames(),
		RunE:      benchTopologies,
	}
	addPhysicsFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchCalls, "calls", 3, "scheduler calls per body")
	benchCmd.Flags().IntVar(&parallel, "parallel", 1, "independent bodies run at once")

	snapshotCmd := &cobra.Command{
		Use:       "snapshot [topology]",
		Short:     "render one frame as text, json or svg",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: modeNames(),
		RunE:      takeSnapshot,
	}
	addPhysicsFlags(snapshotCmd)
	snapshotCmd.Flags().Float64Var(&at, "at", 0, "simulated time to advance to first")
	snapshotCmd.Flags().StringVar(&format, "format", "text", "text, json or svg")
	snapshotCmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	snapshotCmd.Flags().IntVar(&width, "width", 480, "image width in pixels")
	snapshotCmd.Flags().IntVar(&height, "height", 360, "image height in pixels")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "find the dominant breathing frequency",
		Long: "analyze a stored run, or with no run id simulate a fresh trace sampled\n" +
			"finely enough to resolve the actuation frequency.",
		Args: cobra.MaximumNArgs(1),
		RunE: analyzeTrace,
	}
	addPhysicsFlags(analyzeCmd)
	analyzeCmd.Flags().Float64Var(&sampleInterval, "sample", 1e-5, "simulated time between samples")
	analyzeCmd.Flags().StringVar(&field, "field", "height", "trace field: height, lowest, kinetic or speed")
	analyzeCmd.Flags().Float64Var(&skip, "skip", 0.25, "fraction of the trace dropped as transient")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:       "presets [topology]",
		Short:     "list available presets",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: modeNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := modeNames()
			if len(args) > 0 {
				names = args
			}
			for _, name := range names {
				presets := config.ListPresets(name)
				if len(presets) == 0 {
					fmt.Printf("no presets for topology: %s\n", name)
					continue
				}
				fmt.Printf("presets for %s:\n", name)
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, nil)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return config.Write(os.Stdout, cfg)
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	addPhysicsFlags(configCmd)

	rootCmd.AddCommand(runCmd, liveCmd, benchCmd, snapshotCmd, analyzeCmd, listCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPhysicsFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&dt, "dt", physics.DefaultDt, "sub-step size")
	f.Float64Var(&duration, "time", config.DefaultDuration, "simulated duration")
	f.Float64Var(&increment, "increment", config.DefaultIncrement, "simulated time per headless call")
	f.Float64Var(&frameIncrement, "frame-increment", config.DefaultFrameIncrement, "simulated time per live frame")
	f.Float64Var(&gravity, "gravity", physics.DefaultGravity, "vertical acceleration")
	f.Float64Var(&damping, "damping", physics.DefaultDampingRate, "velocity damping rate")
	f.Float64Var(&stiffness, "stiffness", topology.DefaultStiffness, "spring stiffness")
	f.Float64Var(&mass, "mass", topology.DefaultMass, "point mass")
	f.Float64Var(&dropHeight, "drop", topology.DefaultDropHeight, "initial height of the lowest point")
	f.BoolVar(&ground, "ground", true, "enable ground contact")
	f.Float64Var(&groundK, "ground-stiffness", physics.DefaultGroundStiffness, "ground penalty stiffness")
	f.Float64Var(&friction, "friction", physics.DefaultFriction, "ground friction coefficient")
	f.Float64Var(&amplitude, "amplitude", physics.DefaultOscillationAmplitude, "breathing amplitude")
	f.Float64Var(&frequency, "frequency", physics.DefaultOscillationFrequency, "breathing frequency (rad/s)")
}

// resolveConfig layers defaults, the preset, the config file, the topology
// argument and finally any flag the user set.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	name := cfg.Topology
	if len(args) > 0 {
		name = args[0]
	}

	if preset != "" {
		p := config.GetPreset(name, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Topology = args[0]
	}

	flags := cmd.Flags()
	set := func(flag string, dst *float64, v float64) {
		if flags.Changed(flag) {
			*dst = v
		}
	}
	set("dt", &cfg.Dt, dt)
	set("time", &cfg.Duration, duration)
	set("increment", &cfg.Increment, increment)
	set("frame-increment", &cfg.FrameIncrement, frameIncrement)
	set("gravity", &cfg.Gravity, gravity)
	set("damping", &cfg.DampingRate, damping)
	set("stiffness", &cfg.Body.Stiffness, stiffness)
	set("mass", &cfg.Body.Mass, mass)
	set("drop", &cfg.Body.DropHeight, dropHeight)
	set("ground-stiffness", &cfg.Ground.Stiffness, groundK)
	set("friction", &cfg.Ground.Friction, friction)
	set("amplitude", &cfg.Drive.Amplitude, amplitude)
	set("frequency", &cfg.Drive.Frequency, frequency)
	if flags.Changed("ground") {
		cfg.Ground.Enabled = ground
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "softbody",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func modeNames() []string {
	modes := topology.Modes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return names
}

func buildSimulator(cfg *config.Config, logger *log.Logger) (*sim.Simulator, error) {
	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}
	body, err := topology.Generate(mode, cfg.TopologyParams())
	if err != nil {
		return nil, err
	}
	integ, err := physics.New(cfg.Physics())
	if err != nil {
		return nil, err
	}

	s := sim.New(integ, body, sim.WithLogger(logger))
	s.AddMetric(metrics.NewEnergy(cfg.Gravity))
	s.AddMetric(metrics.NewStability(stabilityThreshold))
	s.AddMetric(metrics.NewMaxPenetration())
	s.AddMetric(metrics.NewStrain())
	s.AddMetric(metrics.NewPeakForce(cfg.Physics()))
	return s, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runHeadless(cfg *config.Config) error {
	logger := newLogger()
	s, err := buildSimulator(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	body := s.Body()
	fmt.Printf("running %s (%d points, %d springs) for %gs in %gs calls...\n",
		cfg.Topology, body.NumPoints(), body.NumSprings(), cfg.Duration, cfg.Increment)

	start := time.Now()
	result, runErr := s.Run(ctx, sim.RunConfig{
		Increment:     cfg.Increment,
		Duration:      cfg.Duration,
		ValidateState: validate,
	})
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed.Round(time.Millisecond))
	fmt.Printf("calls: %d, substeps: %d, simulated: %.6fs\n", result.Calls, result.Substeps, result.FinalTime)
	if len(result.Throughput) > 0 {
		mean, std := stat.MeanStdDev(result.Throughput, nil)
		if math.IsNaN(std) {
			std = 0
		}
		fmt.Printf("throughput: %.4g ± %.2g springs/s\n", mean, std)
	}

	if plot && len(result.Samples) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(result.Heights(),
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("lowest point (m) per call"),
		))
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}

	if traceFile != "" {
		if err := writeFile(traceFile, func(w io.Writer) error {
			return export.WriteTrace(w, result.Samples)
		}); err != nil {
			return err
		}
		logger.Info("trace written", "path", traceFile, "samples", len(result.Samples))
	}

	if save {
		st := export.NewStore(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(export.RunMetadata{
			Topology:  cfg.Topology,
			Dt:        cfg.Dt,
			Increment: cfg.Increment,
			Duration:  cfg.Duration,
			Frequency: cfg.Drive.Frequency,
		}, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	return runErr
}

func startLive(cfg *config.Config) error {
	// the live view owns the terminal, so only warnings reach stderr
	logger := newLogger()
	if !verbose {
		logger.SetLevel(log.WarnLevel)
	}
	s, err := buildSimulator(cfg, logger)
	if err != nil {
		return err
	}
	return tui.Run(s, cfg.Topology, cfg.FrameIncrement)
}

func benchTopologies(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = modeNames()
	}
	if benchCalls < 1 || parallel < 1 {
		return fmt.Errorf("calls and parallel must be positive")
	}

	logger := newLogger()
	ctx, stop := signalContext()
	defer stop()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TOPOLOGY\tPOINTS\tSPRINGS\tBODIES\tCALLS\tSUBSTEPS\tTIME\tSPRINGS/SEC\tSTDDEV")

	for _, name := range names {
		cfg, err := resolveConfig(cmd, []string{name})
		if err != nil {
			return err
		}

		sims := make([]*sim.Simulator, parallel)
		for i := range sims {
			if sims[i], err = buildSimulator(cfg, logger); err != nil {
				return err
			}
		}

		start := time.Now()
		results, err := sim.NewEnsemble(sims...).Run(ctx, sim.RunConfig{
			Increment: cfg.Increment,
			Duration:  cfg.Increment * float64(benchCalls),
		})
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		var substeps int64
		var calls int
		throughput := make([]float64, 0)
		for _, r := range results {
			substeps += r.Substeps
			calls += r.Calls
			throughput = append(throughput, r.Throughput...)
		}

		mean, std := 0.0, 0.0
		if len(throughput) > 0 {
			mean, std = stat.MeanStdDev(throughput, nil)
			if math.IsNaN(std) {
				std = 0
			}
		}

		body := sims[0].Body()
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%v\t%.4g\t%.2g\n",
			name, body.NumPoints(), body.NumSprings(), parallel, calls, substeps,
			elapsed.Round(time.Millisecond), mean, std)
	}

	return w.Flush()
}

func takeSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	s, err := buildSimulator(cfg, newLogger())
	if err != nil {
		return err
	}

	if at > 0 {
		ctx, stop := signalContext()
		defer stop()
		if _, err := s.Run(ctx, sim.RunConfig{
			Increment:     math.Min(cfg.Increment, at),
			Duration:      at,
			ValidateState: true,
		}); err != nil {
			return err
		}
	}

	body := s.Body()
	var emit func(w io.Writer) error
	switch format {
	case "text":
		// one braille cell covers 8×16 pixels of the requested size
		emit = func(w io.Writer) error {
			_, err := fmt.Fprintln(w, viz.Frame(body, width/8, height/16, cfg.Ground.Enabled))
			return err
		}
	case "json":
		emit = func(w io.Writer) error {
			return export.WriteSnapshot(w, export.NewSnapshot(cfg.Topology, s.Time(), body))
		}
	case "svg":
		emit = func(w io.Writer) error {
			lo, hi := render.Bounds(body)
			lo[1] = math.Min(lo[1], 0)
			cam := viz.NewCamera()
			cam.Frame(lo, hi)
			_, err := io.WriteString(w, export.BodyToSVG(body, cam, width, height))
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want text, json or svg)", format)
	}

	if out == "" {
		return emit(os.Stdout)
	}
	if err := writeFile(out, emit); err != nil {
		return err
	}
	fmt.Printf("wrote %s at t=%.6fs\n", out, s.Time())
	return nil
}

func analyzeTrace(cmd *cobra.Command, args []string) error {
	var samples []sim.Sample
	var omega float64
	var source string

	if len(args) == 1 {
		st := export.NewStore(dataDir)
		meta, err := st.Load(args[0])
		if err != nil {
			return err
		}
		if samples, err = st.LoadTrace(args[0]); err != nil {
			return err
		}
		omega = meta.Frequency
		source = meta.ID
	} else {
		cfg, err := resolveConfig(cmd, nil)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("time") {
			cfg.Duration = 0.02
		}
		s, err := buildSimulator(cfg, newLogger())
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()
		result, err := s.Run(ctx, sim.RunConfig{Increment: sampleInterval, Duration: cfg.Duration})
		if err != nil {
			return err
		}
		samples = result.Samples
		omega = cfg.Drive.Frequency
		source = fmt.Sprintf("%s, %d samples every %gs", cfg.Topology, len(samples), sampleInterval)
	}

	rep, err := analysis.Breathing(samples, field, omega, skip)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n\n", source)

	ps := analysis.PowerSpectrum(analysis.Extract(samples, analysis.Fields[field], skip))
	// show up to twice the drive frequency
	bins := int(2*rep.Expected/rep.Resolution()) + 2
	if bins < 8 {
		bins = 8
	}
	if bins > len(ps) {
		bins = len(ps)
	}
	fmt.Println(asciigraph.Plot(ps[:bins],
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s), %.4g Hz per bin", field, rep.Resolution())),
	))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "field\t%s\n", rep.Field)
	fmt.Fprintf(w, "samples\t%d\n", rep.Samples)
	fmt.Fprintf(w, "mean\t%.6g ± %.2g\n", rep.Mean, rep.StdDev)
	fmt.Fprintf(w, "dominant frequency\t%.4g Hz\n", rep.Measured)
	fmt.Fprintf(w, "drive frequency\t%.4g Hz\n", rep.Expected)
	if rep.Measured > 0 {
		fmt.Fprintf(w, "period\t%.4g s\n", 1/rep.Measured)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := export.NewStore(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTOPOLOGY\tTIME\tDURATION\tINCREMENT\tCALLS\tSUBSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3gs\t%.3gs\t%d\t%d\n",
			run.ID,
			run.Topology,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Increment,
			run.Calls,
			run.Substeps,
		)
	}

	return w.Flush()
}

func writeFile(path string, emit func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := emit(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
