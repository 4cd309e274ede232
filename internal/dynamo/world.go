package dynamo

import "fmt"

// World is the simulation context. It owns the particle collection, whose
// insertion order is the iteration and pairing order, and the body list.
// A World must only be touched by one goroutine at a time.
type World struct {
	particles []Particle
	bodies    []Body
	// bodiesOf[i] lists the bodies that reference particle i.
	bodiesOf [][]int
}

func NewWorld() *World {
	return &World{
		particles: make([]Particle, 0),
		bodies:    make([]Body, 0),
		bodiesOf:  make([][]int, 0),
	}
}

// AddParticle appends p and returns its handle. Handles stay valid for the
// lifetime of the world.
func (w *World) AddParticle(p Particle) int {
	w.particles = append(w.particles, p)
	w.bodiesOf = append(w.bodiesOf, nil)
	return len(w.particles) - 1
}

// Spawn validates and adds a particle in one call.
func (w *World) Spawn(mass float64, pos, vel Vector3) (int, error) {
	p, err := NewParticle(mass, pos, vel)
	if err != nil {
		return -1, err
	}
	return w.AddParticle(p), nil
}

// AddBody registers a body over existing particle handles.
func (w *World) AddBody(name string, members ...int) (int, error) {
	for _, m := range members {
		if m < 0 || m >= len(w.particles) {
			return -1, fmt.Errorf("%w: body %q references particle %d of %d", ErrOrphanReference, name, m, len(w.particles))
		}
	}
	idx := len(w.bodies)
	refs := make([]int, len(members))
	copy(refs, members)
	w.bodies = append(w.bodies, Body{Name: name, members: refs})
	for _, m := range refs {
		if !containsInt(w.bodiesOf[m], idx) {
			w.bodiesOf[m] = append(w.bodiesOf[m], idx)
		}
	}
	return idx, nil
}

func (w *World) Len() int       { return len(w.particles) }
func (w *World) NumBodies() int { return len(w.bodies) }

// Particle returns a pointer into the live collection.
func (w *World) Particle(i int) *Particle { return &w.particles[i] }

// Particles exposes the live collection. Integrators and resolvers mutate it
// in place; callers outside the kernel should treat it as read-only.
func (w *World) Particles() []Particle { return w.particles }

func (w *World) Body(i int) *Body { return &w.bodies[i] }
func (w *World) Bodies() []Body   { return w.bodies }

// SharesBody reports whether particles i and j are members of a common body.
func (w *World) SharesBody(i, j int) bool {
	for _, b := range w.bodiesOf[i] {
		if containsInt(w.bodiesOf[j], b) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy that shares nothing with w.
func (w *World) Clone() *World {
	c := &World{
		particles: make([]Particle, len(w.particles)),
		bodies:    make([]Body, len(w.bodies)),
		bodiesOf:  make([][]int, len(w.bodiesOf)),
	}
	copy(c.particles, w.particles)
	for i, b := range w.bodies {
		c.bodies[i] = Body{Name: b.Name, members: b.Members()}
	}
	for i, refs := range w.bodiesOf {
		if refs != nil {
			c.bodiesOf[i] = append([]int(nil), refs...)
		}
	}
	return c
}

// Validate checks the invariants the kernel relies on. It is meant for the
// initialization boundary, before the first step.
func (w *World) Validate() error {
	for i := range w.particles {
		p := &w.particles[i]
		if _, err := NewParticle(p.Mass, p.Position, p.Velocity); err != nil {
			return fmt.Errorf("particle %d: %w", i, err)
		}
	}
	for bi, b := range w.bodies {
		for _, m := range b.members {
			if m < 0 || m >= len(w.particles) {
				return fmt.Errorf("%w: body %d (%q) references particle %d", ErrOrphanReference, bi, b.Name, m)
			}
		}
	}
	return nil
}

// IsFinite reports whether every particle's state is finite.
func (w *World) IsFinite() bool {
	for i := range w.particles {
		if !w.particles[i].IsFinite() {
			return false
		}
	}
	return true
}

// Positions returns x,y,z triples for every particle in collection order.
func (w *World) Positions() []float64 {
	out := make([]float64, 0, len(w.particles)*3)
	for i := range w.particles {
		p := w.particles[i].Position
		out = append(out, p.X, p.Y, p.Z)
	}
	return out
}

// BodyPositions returns x,y,z triples for the members of body b in the
// body's reference order.
func (w *World) BodyPositions(b int) []float64 {
	members := w.bodies[b].members
	out := make([]float64, 0, len(members)*3)
	for _, m := range members {
		p := w.particles[m].Position
		out = append(out, p.X, p.Y, p.Z)
	}
	return out
}

func (w *World) AllBodyPositions() [][]float64 {
	out := make([][]float64, len(w.bodies))
	for i := range w.bodies {
		out[i] = w.BodyPositions(i)
	}
	return out
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
