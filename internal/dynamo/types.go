package dynamo

import (
	"fmt"
	"math"
)

const DefaultDt = 1.0 / 60.0

// StandardGravity is the default constant acceleration.
var StandardGravity = Vector3{X: 0, Y: -9.81, Z: 0}

// Integrator advances every particle of a world by one fixed step.
type Integrator interface {
	Name() string
	Integrate(w *World, gravity Vector3, dt float64)
}

// StepStats summarizes the collision work done by one step.
type StepStats struct {
	Pairs    int
	Resolved int
}

type Metric interface {
	Name() string
	Observe(w *World, stats StepStats, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(w *World, stats StepStats, t float64)
}

type Config struct {
	Dt            float64
	Steps         int
	Gravity       Vector3
	ValidateState bool
	// RecordEvery keeps one frame every n steps; 0 disables frame capture.
	RecordEvery int
}

func DefaultConfig() Config {
	return Config{
		Dt:            DefaultDt,
		Steps:         600,
		Gravity:       StandardGravity,
		ValidateState: true,
		RecordEvery:   1,
	}
}

func (c Config) Validate() error {
	if math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) || c.Dt <= 0 {
		return fmt.Errorf("%w, got %v", ErrInvalidTimestep, c.Dt)
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", c.Steps)
	}
	if !c.Gravity.IsFinite() {
		return fmt.Errorf("%w: gravity %v", ErrInvalidState, c.Gravity)
	}
	return nil
}

// Frame is a recorded snapshot of particle positions.
type Frame struct {
	Step      int
	Time      float64
	Positions []float64
}

type Result struct {
	Frames     []Frame
	Series     map[string][]float64
	Metrics    map[string]float64
	StepsTaken int
	Collisions int
	Errors     []error
}
