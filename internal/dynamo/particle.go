package dynamo

import (
	"fmt"
	"math"
)

// Particle is a point mass. Acceleration is overwritten by every integration
// step and never accumulates.
type Particle struct {
	Mass         float64
	Position     Vector3
	Velocity     Vector3
	Acceleration Vector3
}

// NewParticle validates mass and initial state. Mass must be finite and > 0,
// otherwise the collision radius would be NaN.
func NewParticle(mass float64, pos, vel Vector3) (Particle, error) {
	if math.IsNaN(mass) || math.IsInf(mass, 0) || mass <= 0 {
		return Particle{}, fmt.Errorf("%w: %v", ErrInvalidMass, mass)
	}
	if !pos.IsFinite() || !vel.IsFinite() {
		return Particle{}, fmt.Errorf("%w: position %v velocity %v", ErrInvalidState, pos, vel)
	}
	return Particle{Mass: mass, Position: pos, Velocity: vel}, nil
}

// Radius is the collision radius, sqrt(mass).
func (p *Particle) Radius() float64 { return math.Sqrt(p.Mass) }

func (p *Particle) IsFinite() bool {
	return p.Position.IsFinite() && p.Velocity.IsFinite() && p.Acceleration.IsFinite()
}

func (p *Particle) KineticEnergy() float64 {
	return 0.5 * p.Mass * p.Velocity.LengthSquared()
}
