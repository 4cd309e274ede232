package collision

import (
	"fmt"

	"github.com/san-kum/particles/internal/dynamo"
)

// Policy updates the velocities of a colliding pair. normal is a unit vector
// pointing from a toward b.
type Policy interface {
	Name() string
	Respond(a, b *dynamo.Particle, normal dynamo.Vector3)
}

// Reflect mirrors each particle's own velocity about the contact plane.
type Reflect struct{}

func NewReflect() *Reflect { return &Reflect{} }

func (r *Reflect) Name() string { return "reflect" }

func (r *Reflect) Respond(a, b *dynamo.Particle, n dynamo.Vector3) {
	a.Velocity = a.Velocity.Sub(n.Scale(2 * a.Velocity.Dot(n)))
	b.Velocity = b.Velocity.Sub(n.Scale(2 * b.Velocity.Dot(n)))
}

// Impulse exchanges momentum along the normal. Restitution 1 is perfectly
// elastic, 0 perfectly plastic.
type Impulse struct {
	Restitution float64
}

func NewImpulse(restitution float64) (*Impulse, error) {
	if restitution < 0 || restitution > 1 {
		return nil, fmt.Errorf("restitution must be in [0,1], got %f", restitution)
	}
	return &Impulse{Restitution: restitution}, nil
}

func (im *Impulse) Name() string { return "impulse" }

func (im *Impulse) Respond(a, b *dynamo.Particle, n dynamo.Vector3) {
	vn := b.Velocity.Sub(a.Velocity).Dot(n)
	if vn >= 0 {
		// already separating
		return
	}
	invA, invB := 1/a.Mass, 1/b.Mass
	j := -(1 + im.Restitution) * vn / (invA + invB)
	a.Velocity = a.Velocity.Sub(n.Scale(j * invA))
	b.Velocity = b.Velocity.Add(n.Scale(j * invB))
}
