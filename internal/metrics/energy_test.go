package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/particles/internal/dynamo"
)

func worldOf(t *testing.T, ps ...dynamo.Particle) *dynamo.World {
	t.Helper()
	w := dynamo.NewWorld()
	for _, p := range ps {
		w.AddParticle(p)
	}
	return w
}

func particle(t *testing.T, mass float64, pos, vel dynamo.Vector3) dynamo.Particle {
	t.Helper()
	p, err := dynamo.NewParticle(mass, pos, vel)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestEnergy(t *testing.T) {
	w := worldOf(t, particle(t, 2, dynamo.Vec3(0, 10, 0), dynamo.Vec3(3, 0, 0)))
	m := NewEnergy(dynamo.StandardGravity)

	m.Observe(w, dynamo.StepStats{}, 0)

	expected := 9.0 + 2*9.81*10
	if math.Abs(m.Value()-expected) > 1e-9 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}
}

func TestEnergyReset(t *testing.T) {
	w := worldOf(t, particle(t, 1, dynamo.Vec3(1, 1, 0), dynamo.Vec3(1, 1, 0)))
	m := NewEnergy(dynamo.StandardGravity)

	m.Observe(w, dynamo.StepStats{}, 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestKineticEnergy(t *testing.T) {
	w := worldOf(t,
		particle(t, 1, dynamo.Vector3{}, dynamo.Vec3(2, 0, 0)),
		particle(t, 4, dynamo.Vec3(5, 0, 0), dynamo.Vec3(0, -1, 0)),
	)
	m := NewKineticEnergy()
	m.Observe(w, dynamo.StepStats{}, 0)

	if m.Value() != 4.0 {
		t.Errorf("expected 4, got %f", m.Value())
	}
}

func TestEnergyDrift(t *testing.T) {
	w := worldOf(t, particle(t, 1, dynamo.Vector3{}, dynamo.Vec3(2, 0, 0)))
	m := NewEnergyDrift(dynamo.Vector3{})

	m.Observe(w, dynamo.StepStats{}, 0)
	if m.Value() != 0 {
		t.Fatalf("expected zero drift on first sample, got %f", m.Value())
	}

	w.Particle(0).Velocity = dynamo.Vec3(1, 0, 0)
	m.Observe(w, dynamo.StepStats{}, 1)

	if math.Abs(m.Value()-0.75) > 1e-12 {
		t.Errorf("expected drift 0.75, got %f", m.Value())
	}

	w.Particle(0).Velocity = dynamo.Vec3(2, 0, 0)
	m.Observe(w, dynamo.StepStats{}, 2)
	if math.Abs(m.Value()-0.75) > 1e-12 {
		t.Errorf("drift should keep its maximum, got %f", m.Value())
	}
}

func TestMomentum(t *testing.T) {
	w := worldOf(t,
		particle(t, 1, dynamo.Vector3{}, dynamo.Vec3(3, 0, 0)),
		particle(t, 3, dynamo.Vec3(5, 0, 0), dynamo.Vec3(-1, 0, 0)),
	)
	m := NewMomentum()
	m.Observe(w, dynamo.StepStats{}, 0)

	if m.Value() != 0 {
		t.Errorf("expected opposing momenta to cancel, got %f", m.Value())
	}
	if p := TotalMomentum(w); p != (dynamo.Vector3{}) {
		t.Errorf("expected zero vector, got %+v", p)
	}
}

func TestCollisions(t *testing.T) {
	m := NewCollisions()
	m.Observe(nil, dynamo.StepStats{Pairs: 3, Resolved: 2}, 0)
	m.Observe(nil, dynamo.StepStats{Pairs: 1, Resolved: 1}, 1)

	if m.Value() != 3 {
		t.Errorf("expected 3 collisions, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}
