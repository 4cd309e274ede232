package dynamo

import (
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func TestNewParticle_RejectsInvalidMass(t *testing.T) {
	tests := []struct {
		name string
		mass float64
	}{
		{"zero", 0},
		{"negative", -1},
		{"NaN", math.NaN()},
		{"+Inf", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParticle(tt.mass, Vector3{}, Vector3{})
			if !errors.Is(err, ErrInvalidMass) {
				t.Errorf("expected ErrInvalidMass, got %v", err)
			}
		})
	}
}

func TestNewParticle_RejectsNonFiniteState(t *testing.T) {
	_, err := NewParticle(1, Vec3(math.NaN(), 0, 0), Vector3{})
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	_, err = NewParticle(1, Vector3{}, Vec3(0, math.Inf(1), 0))
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestParticle_Radius(t *testing.T) {
	g := NewWithT(t)
	p, err := NewParticle(4, Vector3{}, Vector3{})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(p.Radius()).To(Equal(2.0))
	g.Expect(p.Acceleration).To(Equal(Vector3{}))
}

func TestWorld_AddBodyRejectsOrphans(t *testing.T) {
	w := NewWorld()
	a, _ := w.Spawn(1, Vector3{}, Vector3{})

	if _, err := w.AddBody("ok", a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := w.AddBody("bad", a, 5); !errors.Is(err, ErrOrphanReference) {
		t.Errorf("expected ErrOrphanReference, got %v", err)
	}
	if _, err := w.AddBody("neg", -1); !errors.Is(err, ErrOrphanReference) {
		t.Errorf("expected ErrOrphanReference, got %v", err)
	}
	if w.NumBodies() != 1 {
		t.Errorf("expected 1 body, got %d", w.NumBodies())
	}
}

func TestWorld_BodiesReferenceLiveState(t *testing.T) {
	g := NewWithT(t)
	w := NewWorld()
	a, _ := w.Spawn(1, Vec3(0, 0, 0), Vector3{})
	b, _ := w.Spawn(2, Vec3(1, 0, 0), Vector3{})
	c, _ := w.Spawn(3, Vec3(2, 0, 0), Vector3{})
	_, err := w.AddBody("tail", c, a)
	g.Expect(err).NotTo(HaveOccurred())

	w.Particle(a).Position = Vec3(9, 9, 9)

	g.Expect(w.BodyPositions(0)).To(Equal([]float64{2, 0, 0, 9, 9, 9}))
	g.Expect(w.Positions()).To(Equal([]float64{9, 9, 9, 1, 0, 0, 2, 0, 0}))
	g.Expect(w.SharesBody(a, c)).To(BeTrue())
	g.Expect(w.SharesBody(a, b)).To(BeFalse())
	g.Expect(w.Body(0).Len()).To(Equal(2))
	g.Expect(w.Body(0).Members()).To(Equal([]int{c, a}))
}

func TestWorld_CloneIsIndependent(t *testing.T) {
	w := NewWorld()
	a, _ := w.Spawn(1, Vec3(1, 2, 3), Vec3(0, 1, 0))
	w.AddBody("solo", a)

	c := w.Clone()
	c.Particle(a).Position = Vec3(-1, -1, -1)

	if w.Particle(a).Position != Vec3(1, 2, 3) {
		t.Errorf("clone mutation leaked into original: %v", w.Particle(a).Position)
	}
	if c.NumBodies() != 1 || c.Body(0).Members()[0] != a {
		t.Error("clone lost body membership")
	}
}

func TestWorld_Validate(t *testing.T) {
	w := NewWorld()
	w.Spawn(1, Vector3{}, Vector3{})
	if err := w.Validate(); err != nil {
		t.Errorf("valid world rejected: %v", err)
	}

	w.AddParticle(Particle{Mass: -2})
	if err := w.Validate(); !errors.Is(err, ErrInvalidMass) {
		t.Errorf("expected ErrInvalidMass, got %v", err)
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Time: 1.5, Step: 90, Wrapped: ErrUnstable}
	if !errors.Is(err, ErrUnstable) {
		t.Error("SimulationError does not unwrap")
	}
	expected := "step 90 (t=1.5000): dynamo: simulation unstable (state diverged)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig invalid: %v", err)
	}
	if cfg.Dt != 1.0/60.0 {
		t.Errorf("expected dt 1/60, got %v", cfg.Dt)
	}

	cfg.Dt = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimestep) {
		t.Errorf("expected ErrInvalidTimestep, got %v", err)
	}
}
