package metrics

import "github.com/san-kum/particles/internal/dynamo"

// Momentum reports |Σ m v| for the latest observed frame.
type Momentum struct {
	name  string
	value float64
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(w *dynamo.World, _ dynamo.StepStats, _ float64) {
	m.value = TotalMomentum(w).Length()
}

func (m *Momentum) Value() float64 { return m.value }
func (m *Momentum) Reset()         { m.value = 0 }

func TotalMomentum(w *dynamo.World) dynamo.Vector3 {
	var p dynamo.Vector3
	ps := w.Particles()
	for i := range ps {
		p = p.Add(ps[i].Velocity.Scale(ps[i].Mass))
	}
	return p
}

// Collisions counts resolved contacts across the run.
type Collisions struct {
	name  string
	total int
}

func NewCollisions() *Collisions {
	return &Collisions{name: "collisions"}
}

func (c *Collisions) Name() string { return c.name }

func (c *Collisions) Observe(_ *dynamo.World, stats dynamo.StepStats, _ float64) {
	c.total += stats.Resolved
}

func (c *Collisions) Value() float64 { return float64(c.total) }
func (c *Collisions) Reset()         { c.total = 0 }
