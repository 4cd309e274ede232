package integrators

import "github.com/san-kum/particles/internal/dynamo"

// VelocityVerlet is exact for a constant acceleration field.
type VelocityVerlet struct{}

func NewVelocityVerlet() *VelocityVerlet {
	return &VelocityVerlet{}
}

func (v *VelocityVerlet) Name() string { return "verlet" }

func (v *VelocityVerlet) Integrate(w *dynamo.World, gravity dynamo.Vector3, dt float64) {
	ps := w.Particles()
	halfDt2 := 0.5 * dt * dt
	for i := range ps {
		p := &ps[i]
		p.Acceleration = gravity
		p.Position = p.Position.Add(p.Velocity.Scale(dt)).Add(p.Acceleration.Scale(halfDt2))
		// a(t+dt) == a(t) under constant gravity, so the averaged kick is a*dt.
		p.Velocity = p.Velocity.Add(p.Acceleration.Scale(dt))
	}
}
