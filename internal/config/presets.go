package config

import (
	"math/rand"
	"sort"
)

var Presets = map[string]func() *Config{
	"demo":  DefaultConfig,
	"stack": stack,
	"cloud": func() *Config { return Cloud(64, 42) },
	"pair":  pair,
}

// stack drops a column of equal particles onto each other.
func stack() *Config {
	cfg := base()
	cfg.Steps = 900
	members := make([]int, 0, 6)
	for i := 0; i < 6; i++ {
		cfg.Particles = append(cfg.Particles, ParticleConfig{
			Mass:     1,
			Position: [3]float64{0, float64(i) * 1.9, 0},
		})
		members = append(members, i)
	}
	cfg.Bodies = []BodyConfig{{Name: "column", Members: members}}
	return cfg
}

// pair is the head-on mass-ratio case: masses 1 and 4 at distance 1.
func pair() *Config {
	cfg := base()
	cfg.Steps = 120
	cfg.Gravity = [3]float64{}
	cfg.Particles = []ParticleConfig{
		{Mass: 1, Position: [3]float64{0, 0, 0}, Velocity: [3]float64{1, 0, 0}},
		{Mass: 4, Position: [3]float64{1, 0, 0}, Velocity: [3]float64{-1, 0, 0}},
	}
	cfg.Bodies = []BodyConfig{{Name: "pair", Members: []int{0, 1}}}
	return cfg
}

// Cloud scatters n small particles in a cube with seeded random velocities.
// A negative n yields an empty scene.
func Cloud(n int, seed int64) *Config {
	n = max(n, 0)
	cfg := base()
	cfg.Seed = seed
	rng := rand.New(rand.NewSource(seed))
	cfg.Particles = make([]ParticleConfig, n)
	for i := range cfg.Particles {
		cfg.Particles[i] = ParticleConfig{
			Mass: 0.05 + rng.Float64()*0.2,
			Position: [3]float64{
				(rng.Float64() - 0.5) * 20,
				rng.Float64() * 20,
				(rng.Float64() - 0.5) * 20,
			},
			Velocity: [3]float64{
				(rng.Float64() - 0.5) * 4,
				(rng.Float64() - 0.5) * 4,
				(rng.Float64() - 0.5) * 4,
			},
		}
	}
	return cfg
}

// GetPreset returns a fresh copy of the named scene, or nil.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
