package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidMass indicates a particle mass that is zero, negative or not finite.
	ErrInvalidMass = errors.New("dynamo: particle mass must be finite and positive")

	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrOrphanReference indicates a body referencing a particle the world does not own.
	ErrOrphanReference = errors.New("dynamo: body references unknown particle")

	// ErrInvalidTimestep indicates a non-positive or non-finite dt.
	ErrInvalidTimestep = errors.New("dynamo: timestep must be finite and positive")

	// ErrUnstable indicates the simulation became numerically unstable.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
