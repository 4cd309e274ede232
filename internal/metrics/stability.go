package metrics

import (
	"github.com/san-kum/particles/internal/dynamo"
)

// Stability is the fraction of observed frames in which every particle is
// finite and within threshold of the origin.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(w *dynamo.World, _ dynamo.StepStats, _ float64) {
	s.samples++
	limit := s.threshold * s.threshold
	ps := w.Particles()
	for i := range ps {
		if !ps[i].IsFinite() || ps[i].Position.LengthSquared() > limit {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
