package integrators

import "github.com/san-kum/particles/internal/dynamo"

// SymplecticEuler is semi-implicit Euler: velocity first, then position with
// the updated velocity.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (s *SymplecticEuler) Name() string { return "symplectic" }

func (s *SymplecticEuler) Integrate(w *dynamo.World, gravity dynamo.Vector3, dt float64) {
	ps := w.Particles()
	for i := range ps {
		p := &ps[i]
		p.Acceleration = gravity
		p.Velocity = p.Velocity.Add(p.Acceleration.Scale(dt))
		p.Position = p.Position.Add(p.Velocity.Scale(dt))
	}
}

// Euler is explicit forward Euler. Position advances with the velocity from
// the start of the step.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Integrate(w *dynamo.World, gravity dynamo.Vector3, dt float64) {
	ps := w.Particles()
	for i := range ps {
		p := &ps[i]
		p.Acceleration = gravity
		v0 := p.Velocity
		p.Velocity = v0.Add(p.Acceleration.Scale(dt))
		p.Position = p.Position.Add(v0.Scale(dt))
	}
}
