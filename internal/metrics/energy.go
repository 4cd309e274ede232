package metrics

import (
	"math"

	"github.com/san-kum/particles/internal/dynamo"
)

// KineticEnergy reports Σ ½mv² for the latest observed frame.
type KineticEnergy struct {
	name  string
	value float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(w *dynamo.World, _ dynamo.StepStats, _ float64) {
	k.value = Kinetic(w)
}

func (k *KineticEnergy) Value() float64 { return k.value }
func (k *KineticEnergy) Reset()         { k.value = 0 }

// Energy reports total mechanical energy, kinetic plus potential in the
// uniform gravity field, for the latest observed frame.
type Energy struct {
	name    string
	gravity dynamo.Vector3
	value   float64
}

func NewEnergy(gravity dynamo.Vector3) *Energy {
	return &Energy{name: "energy", gravity: gravity}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(w *dynamo.World, _ dynamo.StepStats, _ float64) {
	e.value = Mechanical(w, e.gravity)
}

func (e *Energy) Value() float64 { return e.value }
func (e *Energy) Reset()         { e.value = 0 }

// EnergyDrift tracks the largest relative deviation from the first observed
// mechanical energy.
type EnergyDrift struct {
	name          string
	gravity       dynamo.Vector3
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(gravity dynamo.Vector3) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", gravity: gravity}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(w *dynamo.World, _ dynamo.StepStats, _ float64) {
	energy := Mechanical(w, e.gravity)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

func Kinetic(w *dynamo.World) float64 {
	ke := 0.0
	ps := w.Particles()
	for i := range ps {
		ke += ps[i].KineticEnergy()
	}
	return ke
}

// Mechanical is kinetic energy plus Σ -m(g·p).
func Mechanical(w *dynamo.World, gravity dynamo.Vector3) float64 {
	e := Kinetic(w)
	ps := w.Particles()
	for i := range ps {
		e -= ps[i].Mass * gravity.Dot(ps[i].Position)
	}
	return e
}
