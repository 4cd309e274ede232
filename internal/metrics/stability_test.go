package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/particles/internal/dynamo"
)

func TestStability(t *testing.T) {
	w := worldOf(t, particle(t, 1, dynamo.Vector3{}, dynamo.Vector3{}))
	m := NewStability(10)

	if m.Value() != 1.0 {
		t.Fatalf("expected 1.0 with no samples, got %f", m.Value())
	}

	m.Observe(w, dynamo.StepStats{}, 0)
	w.Particle(0).Position = dynamo.Vec3(20, 0, 0)
	m.Observe(w, dynamo.StepStats{}, 1)
	w.Particle(0).Position = dynamo.Vec3(math.NaN(), 0, 0)
	m.Observe(w, dynamo.StepStats{}, 2)
	w.Particle(0).Position = dynamo.Vector3{}
	m.Observe(w, dynamo.StepStats{}, 3)

	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		want   Stats
	}{
		{"empty", nil, Stats{}},
		{"single", []float64{4}, Stats{Samples: 1, Mean: 4, Min: 4, Max: 4, Final: 4}},
		{"several", []float64{1, 2, 3, 4}, Stats{Samples: 4, Mean: 2.5, StdDev: math.Sqrt(5.0 / 3.0), Min: 1, Max: 4, Final: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summary(tt.series)
			if got.Samples != tt.want.Samples || got.Mean != tt.want.Mean ||
				got.Min != tt.want.Min || got.Max != tt.want.Max || got.Final != tt.want.Final {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if math.Abs(got.StdDev-tt.want.StdDev) > 1e-12 {
				t.Errorf("stddev got %f, want %f", got.StdDev, tt.want.StdDev)
			}
		})
	}
}

func TestDefaultNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Default(dynamo.StandardGravity) {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %q", m.Name())
		}
		seen[m.Name()] = true
	}
	if !seen["collisions"] || !seen["energy"] {
		t.Errorf("missing core metrics: %v", seen)
	}
}
