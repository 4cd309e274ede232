package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/san-kum/particles/internal/analysis"
	"github.com/san-kum/particles/internal/automation"
	"github.com/san-kum/particles/internal/experiment"
	"github.com/san-kum/particles/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepPoints int
	trials      int
	cloudSize   int
	sweepSteps  int
	trialSteps  int
	benchSteps  int
)

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	frames := result.Frames
	if len(frames) < 4 {
		return fmt.Errorf("run %s has too few frames to analyze", meta.ID)
	}
	spacing := frames[1].Time - frames[0].Time

	fmt.Printf("run: %s (%d frames, spacing %.4fs)\n\n", meta.ID, len(frames), spacing)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLE\tMEAN Y\tSTD Y\tMIN Y\tMAX Y\tDOMINANT HZ")
	for p := 0; p < len(frames[0].Positions)/3; p++ {
		heights := make([]float64, len(frames))
		for i, f := range frames {
			heights[i] = f.Positions[3*p+1]
		}
		s := metrics.Summary(heights)
		freq, _ := analysis.DominantFrequency(heights, spacing)
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n", p, s.Mean, s.StdDev, s.Min, s.Max, freq)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}
	if scenario.Name != "" {
		fmt.Printf("scenario: %s\n", scenario.Name)
	}
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}
	fmt.Println()

	results, err := automation.RunScenario(cmd.Context(), scenario, experiment.NewRegistry(), logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSCENE\tSTEPS\tCOLLISIONS\tENERGY DRIFT")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.3e\n", i+1, scenario.Runs[i].Scene, r.StepsTaken, r.Collisions, r.Metrics["energy_drift"])
	}
	w.Flush()
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	scene := "pair"
	if len(args) > 0 {
		scene = args[0]
	}
	sweep := &automation.ParameterSweep{
		Scene:    scene,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepPoints,
		Steps:    sweepSteps,
	}

	logger.Info().Str("scene", scene).Str("param", sweepParam).Int("points", sweepPoints).Msg("sweep")
	results, err := automation.RunSweep(cmd.Context(), sweep, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tCOLLISIONS\tFINAL ENERGY\tMAX DRIFT\tSTABLE\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%d\t%.4f\t%.3e\t%v\n", r.ParamValue, r.Collisions, r.FinalEnergy, r.MaxDrift, r.Stable)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	mc := &automation.MonteCarloConfig{
		Particles:  cloudSize,
		NumTrials:  trials,
		Steps:      trialSteps,
		Integrator: integrator,
		Policy:     policy,
		Seed:       seed,
	}
	results, err := automation.RunMonteCarlo(cmd.Context(), mc, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSEED\tCOLLISIONS\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%v\n", r.TrialID, r.Seed, r.Collisions, r.Stable)
	}
	w.Flush()

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d  unstable: %d\n", stable, unstable)
	return nil
}
