package metrics

import (
	"github.com/san-kum/particles/internal/dynamo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a metric series.
type Stats struct {
	Samples int
	Mean    float64
	StdDev  float64
	Min     float64
	Max     float64
	Final   float64
}

func Summary(series []float64) Stats {
	if len(series) == 0 {
		return Stats{}
	}
	s := Stats{
		Samples: len(series),
		Mean:    stat.Mean(series, nil),
		Min:     floats.Min(series),
		Max:     floats.Max(series),
		Final:   series[len(series)-1],
	}
	if len(series) > 1 {
		s.StdDev = stat.StdDev(series, nil)
	}
	return s
}

// Default returns the standard metric set for a run under gravity g.
func Default(g dynamo.Vector3) []dynamo.Metric {
	return []dynamo.Metric{
		NewKineticEnergy(),
		NewEnergy(g),
		NewEnergyDrift(g),
		NewMomentum(),
		NewCollisions(),
		NewStability(1e3),
	}
}
