package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/san-kum/particles/internal/config"
	"github.com/spf13/cobra"
)

var (
	dataDir      string
	logLevel     string
	configFile   string
	dt           float64
	steps        int
	integrator   string
	policy       string
	restitution  float64
	excludeIntra bool
	seed         int64
	frameRate    int
	theme        string
	outPath      string
	svgMode      string
	svgWidth     int
	svgHeight    int

	logger = zerolog.Nop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "particles",
		Short:         "particle collision simulation kernel",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
				Level(lvl).
				With().Timestamp().Logger()
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".particles", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	sceneFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene with live terminal rendering",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	sceneFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")
	liveCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot particle heights over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().StringVar(&svgMode, "mode", "frame", "frame, trajectory or braille")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenes",
		RunE:  listPresets,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [scene] [integrator...]",
		Short: "run one scene under several integrators concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	sceneFlags(compareCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark step throughput against particle count",
		RunE:  benchScenes,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 200, "steps per size")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "summarize particle heights and their dominant frequency",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of scenes in sequence",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "sweep restitution or dt across concurrent runs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "restitution", "parameter to sweep (restitution, dt)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 5, "number of values")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 0, "steps per run (0 keeps the scene's)")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run seeded random clouds and count stable trials",
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().IntVar(&trials, "trials", 8, "number of trials")
	monteCarloCmd.Flags().IntVar(&cloudSize, "particles", 64, "particles per cloud")
	monteCarloCmd.Flags().IntVar(&trialSteps, "steps", config.DefaultSteps, "steps per trial")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 42, "master seed")
	monteCarloCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	monteCarloCmd.Flags().StringVar(&policy, "policy", config.DefaultPolicy, "collision response")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd,
		presetsCmd, compareCmd, benchCmd, scenarioCmd, sweepCmd, monteCarloCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (symplectic, euler, verlet)")
	cmd.Flags().StringVar(&policy, "policy", config.DefaultPolicy, "collision response (reflect, impulse)")
	cmd.Flags().Float64Var(&restitution, "restitution", config.DefaultRestitution, "restitution for the impulse policy")
	cmd.Flags().BoolVar(&excludeIntra, "exclude-intra-body", false, "skip collisions between particles sharing a body")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed (cloud scene)")
}

// loadScene resolves the scene from --config or a preset name, then applies
// any flags the user set explicitly.
func loadScene(cmd *cobra.Command, args []string) (string, *config.Config, error) {
	var (
		name string
		cfg  *config.Config
		err  error
	)
	switch {
	case configFile != "":
		name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
		cfg, err = config.Load(configFile)
		if err != nil {
			return "", nil, fmt.Errorf("failed to load config: %w", err)
		}
	default:
		name = "demo"
		if len(args) > 0 {
			name = args[0]
		}
		cfg = config.GetPreset(name)
		if cfg == nil {
			return "", nil, fmt.Errorf("unknown scene: %s (available: %v)", name, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") && name == "cloud" {
		cfg = config.Cloud(len(cfg.Particles), seed)
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("policy") {
		cfg.Policy = policy
	}
	if flags.Changed("restitution") {
		cfg.Restitution = restitution
	}
	if flags.Changed("exclude-intra-body") {
		cfg.ExcludeIntraBody = excludeIntra
	}
	return name, cfg, cfg.Validate()
}
