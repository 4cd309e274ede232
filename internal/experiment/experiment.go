package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/san-kum/particles/internal/collision"
	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/sim"
	"github.com/san-kum/particles/internal/storage"
)

var ErrNotSetup = errors.New("experiment: not setup")

// Experiment binds a scene to a simulator built from registry components.
type Experiment struct {
	name      string
	cfg       *config.Config
	world     *dynamo.World
	simulator *sim.Simulator
	log       zerolog.Logger
}

func New(name string, cfg *config.Config) *Experiment {
	return &Experiment{name: name, cfg: cfg, log: zerolog.Nop()}
}

func (e *Experiment) WithLogger(l zerolog.Logger) *Experiment {
	e.log = l.With().Str("scene", e.name).Logger()
	return e
}

// Setup validates the scene, builds its world and wires the simulator.
func (e *Experiment) Setup(reg *Registry) error {
	w, err := e.cfg.BuildWorld()
	if err != nil {
		return fmt.Errorf("scene %s: %w", e.name, err)
	}
	integ, err := reg.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}
	policy, err := reg.GetPolicy(e.cfg.Policy, e.cfg.Restitution)
	if err != nil {
		return err
	}

	det := collision.NewDetector()
	det.ExcludeIntraBody = e.cfg.ExcludeIntraBody

	s := sim.New(integ, det, collision.NewResolver(policy))
	s.SetGravity(e.cfg.GravityVector())
	s.SetLogger(e.log)
	for _, m := range reg.DefaultMetrics(e.cfg.GravityVector()) {
		s.AddMetric(m)
	}

	e.world = w
	e.simulator = s
	e.log.Debug().
		Int("particles", w.Len()).
		Int("bodies", w.NumBodies()).
		Str("integrator", integ.Name()).
		Str("policy", policy.Name()).
		Msg("experiment ready")
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, ErrNotSetup
	}
	return e.simulator.Run(ctx, e.world, e.cfg.SimConfig())
}

func (e *Experiment) Name() string                 { return e.name }
func (e *Experiment) Config() *config.Config       { return e.cfg }
func (e *Experiment) World() *dynamo.World         { return e.world }
func (e *Experiment) GetSimulator() *sim.Simulator { return e.simulator }

// Info describes the run for storage and export.
func (e *Experiment) Info() storage.RunInfo {
	masses := make([]float64, len(e.cfg.Particles))
	for i, p := range e.cfg.Particles {
		masses[i] = p.Mass
	}
	bodies := make([][]int, len(e.cfg.Bodies))
	for i, b := range e.cfg.Bodies {
		bodies[i] = b.Members
	}
	return storage.RunInfo{
		Scene:      e.name,
		Seed:       e.cfg.Seed,
		Dt:         e.cfg.Dt,
		Steps:      e.cfg.Steps,
		Integrator: e.cfg.Integrator,
		Policy:     e.cfg.Policy,
		Masses:     masses,
		Bodies:     bodies,
	}
}
