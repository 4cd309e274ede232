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

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/experiment"
	"github.com/san-kum/particles/internal/export"
	"github.com/san-kum/particles/internal/metrics"
	"github.com/san-kum/particles/internal/sim"
	"github.com/san-kum/particles/internal/storage"
	"github.com/san-kum/particles/internal/viz"
	"github.com/spf13/cobra"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(name, cfg).WithLogger(logger)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s (%d particles, %d steps)...\n", name, len(cfg.Particles), cfg.Steps)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		logger.Warn().Err(err).Int("steps", result.StepsTaken).Msg("run interrupted, saving partial result")
	}
	elapsed := time.Since(start)

	runID, err := st.Save(exp.Info(), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("collisions: %d\n", result.Collisions)
	for _, e := range result.Errors {
		fmt.Printf("stopped: %v\n", e)
	}

	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tFINAL\tMEAN\tSTDDEV\tMIN\tMAX")
	for _, metric := range sortedKeys(result.Metrics) {
		s := metrics.Summary(result.Series[metric])
		fmt.Fprintf(w, "  %s\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\n",
			metric, result.Metrics[metric], s.Mean, s.StdDev, s.Min, s.Max)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && configFile == "" {
		reg := experiment.NewRegistry()
		app := viz.NewInteractiveApp(reg.ListScenes(), func(scene string) (viz.Model, error) {
			return buildLive(cmd, []string{scene})
		})
		_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
		return err
	}

	model, err := buildLive(cmd, args)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(viz.Model); ok && m.Err() != nil {
		fmt.Printf("stopped at step %d: %v\n", m.Steps(), m.Err())
	}
	return nil
}

func buildLive(cmd *cobra.Command, args []string) (viz.Model, error) {
	name, cfg, err := loadScene(cmd, args)
	if err != nil {
		return viz.Model{}, err
	}
	exp := experiment.New(name, cfg).WithLogger(logger)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return viz.Model{}, err
	}

	interval := time.Duration(0)
	if frameRate > 0 {
		interval = time.Second / time.Duration(frameRate)
	}
	return viz.NewModel(exp.GetSimulator(), exp.World(), viz.Options{
		Name:     name,
		Dt:       cfg.Dt,
		Interval: interval,
		Theme:    theme,
	}), nil
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tPARTICLES\tSTEPS\tDT\tINTEG\tPOLICY\tCOLLISIONS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d/%d\t%.4fs\t%s\t%s\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.StepsTaken,
			run.Steps,
			run.Dt,
			run.Integrator,
			run.Policy,
			run.Collisions,
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
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("frames: %d\n\n", len(frames))

	const maxPlots = 6
	n := min(len(frames[0].Positions)/3, maxPlots)
	for p := 0; p < n; p++ {
		heights := make([]float64, len(frames))
		for i, f := range frames {
			heights[i] = f.Positions[3*p+1]
		}
		graph := asciigraph.Plot(heights,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("particle %d height", p)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

// loadRun rebuilds a result from stored metadata and frames.
func loadRun(runID string) (*storage.RunMetadata, *dynamo.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, &dynamo.Result{
		Frames:     frames,
		Metrics:    meta.Metrics,
		StepsTaken: meta.StepsTaken,
		Collisions: meta.Collisions,
	}, nil
}

func output() (io.Writer, func() error, error) {
	if outPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	out, closeOut, err := output()
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(out, meta.Info(), result); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	out, closeOut, err := output()
	if err != nil {
		return err
	}
	if err := storage.WriteFramesCSV(out, result.Frames); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(result.Frames) == 0 {
		return fmt.Errorf("run %s has no frames", meta.ID)
	}
	last := result.Frames[len(result.Frames)-1]

	radii := make([]float64, len(meta.Masses))
	for i, m := range meta.Masses {
		radii[i] = math.Sqrt(m)
	}
	bodies := make([][]float64, len(meta.Bodies))
	for b, members := range meta.Bodies {
		for _, i := range members {
			if 3*i+2 < len(last.Positions) {
				bodies[b] = append(bodies[b], last.Positions[3*i:3*i+3]...)
			}
		}
	}

	var svg string
	switch svgMode {
	case "frame":
		svg = export.FrameToSVG(last.Positions, radii, bodies, svgWidth, svgHeight)
	case "trajectory":
		svg = export.TrajectoryToSVG(result.Frames, svgWidth, svgHeight)
	case "braille":
		canvas := viz.NewCanvas(svgWidth/8, svgHeight/16)
		cam := viz.NewCamera()
		cam.Fit(last.Positions)
		viz.Render(canvas, cam, viz.Scene{Positions: last.Positions, Radii: radii, Bodies: bodies})
		svg = export.CanvasToSVG(canvas, 4)
	default:
		return fmt.Errorf("unknown svg mode: %s", svgMode)
	}
	if svg == "" {
		return fmt.Errorf("nothing to render for run %s", meta.ID)
	}

	out, closeOut, err := output()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(out, svg+"\n"); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tPARTICLES\tBODIES\tSTEPS\tGRAVITY")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%v\n", name, len(cfg.Particles), len(cfg.Bodies), cfg.Steps, cfg.Gravity)
	}
	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	name, base, err := loadScene(cmd, args[:1])
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	names := args[1:]
	if len(names) == 0 {
		names = reg.ListIntegrators()
	}

	ens := sim.NewEnsemble()
	for _, integ := range names {
		cfg := *base
		cfg.Integrator = integ
		exp := experiment.New(name, &cfg).WithLogger(logger.With().Str("integrator", integ).Logger())
		if err := exp.Setup(reg); err != nil {
			return err
		}
		ens.Add(integ, exp.GetSimulator(), exp.World())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("comparing %d integrators on %s (%d steps)\n\n", len(names), name, base.Steps)
	start := time.Now()
	results, err := ens.Run(ctx, base.SimConfig())
	if err != nil {
		return err
	}
	logger.Debug().Dur("elapsed", time.Since(start)).Msg("ensemble finished")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tCOLLISIONS\tENERGY\tDRIFT\tE MEAN\tE STDDEV\tSTABILITY")
	for i, m := range ens.Members() {
		r := results[i]
		e := metrics.Summary(r.Series["energy"])
		fmt.Fprintf(w, "%s\t%d\t%d\t%.4f\t%.2e\t%.4f\t%.4f\t%.3f\n",
			m.Name, r.StepsTaken, r.Collisions,
			r.Metrics["energy"], r.Metrics["energy_drift"], e.Mean, e.StdDev, r.Metrics["stability"])
	}
	return w.Flush()
}

func benchScenes(cmd *cobra.Command, args []string) error {
	sizes := []int{16, 64, 256, 1024}
	reg := experiment.NewRegistry()

	fmt.Printf("benchmarking %d steps per size\n\n", benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tSTEPS\tCOLLISIONS\tTIME\tSTEPS/SEC")

	for _, n := range sizes {
		cfg := config.Cloud(n, 42)
		cfg.Steps = benchSteps
		cfg.RecordEvery = 0

		exp := experiment.New("cloud", cfg)
		if err := exp.Setup(reg); err != nil {
			return err
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n",
			n, result.StepsTaken, result.Collisions, elapsed.Round(time.Microsecond),
			float64(result.StepsTaken)/elapsed.Seconds())
	}
	return w.Flush()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
