package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/rs/zerolog"
	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/experiment"
	"github.com/san-kum/particles/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Runs        []ScenarioRun `yaml:"runs"`
}

// ScenarioRun selects a preset scene; zero-valued fields keep the preset's
// setting.
type ScenarioRun struct {
	Scene       string   `yaml:"scene"`
	Integrator  string   `yaml:"integrator"`
	Policy      string   `yaml:"policy"`
	Restitution *float64 `yaml:"restitution"`
	Dt          float64  `yaml:"dt"`
	Steps       int      `yaml:"steps"`
}

func (r ScenarioRun) Config() (*config.Config, error) {
	cfg := config.GetPreset(r.Scene)
	if cfg == nil {
		return nil, fmt.Errorf("unknown scene: %s", r.Scene)
	}
	if r.Integrator != "" {
		cfg.Integrator = r.Integrator
	}
	if r.Policy != "" {
		cfg.Policy = r.Policy
	}
	if r.Restitution != nil {
		cfg.Restitution = *r.Restitution
	}
	if r.Dt != 0 {
		cfg.Dt = r.Dt
	}
	if r.Steps != 0 {
		cfg.Steps = r.Steps
	}
	return cfg, cfg.Validate()
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// RunScenario executes the runs in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, log zerolog.Logger) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, 0, len(scenario.Runs))

	for i, run := range scenario.Runs {
		log.Info().Int("run", i+1).Int("of", len(scenario.Runs)).Str("scene", run.Scene).Msg("scenario run")

		cfg, err := run.Config()
		if err != nil {
			return results, fmt.Errorf("run %d: %w", i+1, err)
		}

		exp := experiment.New(run.Scene, cfg).WithLogger(log)
		if err := exp.Setup(registry); err != nil {
			return results, fmt.Errorf("run %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("run %d: %w", i+1, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// ParameterSweep varies one scene knob across [Min, Max].
type ParameterSweep struct {
	Scene    string
	Param    string
	Min, Max float64
	NumSteps int
	Steps    int
}

type SweepResult struct {
	ParamValue  float64
	Collisions  int
	FinalEnergy float64
	MaxDrift    float64
	Stable      bool
}

func setParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "restitution":
		// Reflection ignores restitution.
		cfg.Policy = "impulse"
		cfg.Restitution = v
	case "dt":
		cfg.Dt = v
	default:
		return fmt.Errorf("unknown sweep parameter: %s", name)
	}
	return nil
}

// RunSweep runs every sweep point concurrently, one world per point.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one point")
	}

	values := make([]float64, sweep.NumSteps)
	for i := range values {
		values[i] = sweep.Min
		if sweep.NumSteps > 1 {
			values[i] += float64(i) * (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
		}
	}

	ens := sim.NewEnsemble()
	for _, v := range values {
		cfg := config.GetPreset(sweep.Scene)
		if cfg == nil {
			return nil, fmt.Errorf("unknown scene: %s", sweep.Scene)
		}
		if sweep.Steps > 0 {
			cfg.Steps = sweep.Steps
		}
		cfg.RecordEvery = 0
		if err := setParam(cfg, sweep.Param, v); err != nil {
			return nil, err
		}

		exp := experiment.New(sweep.Scene, cfg)
		if err := exp.Setup(registry); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}
		ens.AddConfigured(fmt.Sprintf("%s=%g", sweep.Param, v), exp.GetSimulator(), exp.World(), cfg.SimConfig())
	}

	runs, err := ens.Run(ctx, dynamo.DefaultConfig())
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(runs))
	for i, r := range runs {
		results[i] = summarize(values[i], r)
	}
	return results, nil
}

func summarize(v float64, r *dynamo.Result) SweepResult {
	return SweepResult{
		ParamValue:  v,
		Collisions:  r.Collisions,
		FinalEnergy: r.Metrics["energy"],
		MaxDrift:    r.Metrics["energy_drift"],
		Stable:      len(r.Errors) == 0 && r.Metrics["stability"] == 1,
	}
}

// MonteCarloConfig runs random clouds drawn from one seed.
type MonteCarloConfig struct {
	Particles  int
	NumTrials  int
	Steps      int
	Integrator string
	Policy     string
	Seed       int64
}

type MonteCarloResult struct {
	TrialID    int
	Seed       int64
	Collisions int
	Stable     bool
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("monte carlo needs at least one trial, got %d", cfg.NumTrials)
	}
	if cfg.Particles < 0 {
		return nil, fmt.Errorf("negative particle count %d", cfg.Particles)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	seeds := make([]int64, cfg.NumTrials)
	ens := sim.NewEnsemble()

	var simCfg dynamo.Config
	for trial := range seeds {
		seeds[trial] = rng.Int63()
		scene := config.Cloud(cfg.Particles, seeds[trial])
		if cfg.Steps > 0 {
			scene.Steps = cfg.Steps
		}
		if cfg.Integrator != "" {
			scene.Integrator = cfg.Integrator
		}
		if cfg.Policy != "" {
			scene.Policy = cfg.Policy
		}
		scene.RecordEvery = 0

		exp := experiment.New("cloud", scene)
		if err := exp.Setup(registry); err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}
		ens.Add(fmt.Sprintf("trial-%d", trial), exp.GetSimulator(), exp.World())
		simCfg = scene.SimConfig()
	}

	runs, err := ens.Run(ctx, simCfg)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, r := range runs {
		results[i] = MonteCarloResult{
			TrialID:    i,
			Seed:       seeds[i],
			Collisions: r.Collisions,
			Stable:     len(r.Errors) == 0 && r.Metrics["stability"] == 1,
		}
	}
	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
