package sim

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/san-kum/particles/internal/collision"
	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/integrators"
)

// Simulator runs the per-frame pipeline: integrate, detect, resolve.
type Simulator struct {
	integrator dynamo.Integrator
	detector   *collision.Detector
	resolver   *collision.Resolver
	gravity    dynamo.Vector3
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	log        zerolog.Logger
}

// New builds a simulator. Nil arguments fall back to semi-implicit Euler,
// a default detector and a reflecting resolver.
func New(integrator dynamo.Integrator, detector *collision.Detector, resolver *collision.Resolver) *Simulator {
	if integrator == nil {
		integrator = integrators.NewSymplecticEuler()
	}
	if detector == nil {
		detector = collision.NewDetector()
	}
	if resolver == nil {
		resolver = collision.NewResolver(nil)
	}
	return &Simulator{
		integrator: integrator,
		detector:   detector,
		resolver:   resolver,
		gravity:    dynamo.StandardGravity,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
		log:        zerolog.Nop(),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) SetGravity(g dynamo.Vector3)   { s.gravity = g }
func (s *Simulator) SetLogger(l zerolog.Logger)    { s.log = l }

func (s *Simulator) Gravity() dynamo.Vector3       { return s.gravity }
func (s *Simulator) Integrator() dynamo.Integrator { return s.integrator }
func (s *Simulator) Resolver() *collision.Resolver { return s.resolver }
func (s *Simulator) Detector() *collision.Detector { return s.detector }
func (s *Simulator) Metrics() []dynamo.Metric      { return s.metrics }

// Step advances w by exactly one frame. Detection sees the post-integration
// state and every detected pair gets a single resolution attempt.
func (s *Simulator) Step(w *dynamo.World, dt float64) dynamo.StepStats {
	s.integrator.Integrate(w, s.gravity, dt)
	pairs := s.detector.Detect(w)
	resolved := s.resolver.Resolve(w, pairs)
	return dynamo.StepStats{Pairs: len(pairs), Resolved: resolved}
}

// Run steps w in place cfg.Steps times, recording frames and metric series.
func (s *Simulator) Run(ctx context.Context, w *dynamo.World, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("invalid initial state: %w", err)
	}
	s.gravity = cfg.Gravity

	result := &dynamo.Result{
		Frames:  make([]dynamo.Frame, 0, frameCapacity(cfg)),
		Series:  make(map[string][]float64),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	if cfg.RecordEvery > 0 {
		result.Frames = append(result.Frames, dynamo.Frame{Step: 0, Time: t, Positions: w.Positions()})
	}

	s.log.Debug().
		Int("particles", w.Len()).
		Int("bodies", w.NumBodies()).
		Int("steps", cfg.Steps).
		Float64("dt", cfg.Dt).
		Str("integrator", s.integrator.Name()).
		Str("policy", s.resolver.Policy().Name()).
		Msg("run started")

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		stats := s.Step(w, cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++
		result.Collisions += stats.Resolved

		for _, m := range s.metrics {
			m.Observe(w, stats, t)
			result.Series[m.Name()] = append(result.Series[m.Name()], m.Value())
		}
		for _, obs := range s.observers {
			obs.OnStep(w, stats, t)
		}

		if cfg.ValidateState && !w.IsFinite() {
			err := &dynamo.SimulationError{Step: i + 1, Time: t, Wrapped: dynamo.ErrUnstable}
			result.Errors = append(result.Errors, err)
			s.log.Warn().Err(err).Msg("stopping run")
			break
		}

		if cfg.RecordEvery > 0 && (i+1)%cfg.RecordEvery == 0 {
			result.Frames = append(result.Frames, dynamo.Frame{Step: i + 1, Time: t, Positions: w.Positions()})
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.log.Debug().Int("steps", result.StepsTaken).Int("collisions", result.Collisions).Msg("run finished")
	return result, nil
}

func frameCapacity(cfg dynamo.Config) int {
	if cfg.RecordEvery <= 0 {
		return 0
	}
	return cfg.Steps/cfg.RecordEvery + 1
}
