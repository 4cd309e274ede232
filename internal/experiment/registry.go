package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/particles/internal/collision"
	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/integrators"
	"github.com/san-kum/particles/internal/metrics"
)

type Registry struct {
	integrators map[string]func() dynamo.Integrator
	policies    map[string]func(restitution float64) (collision.Policy, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
		policies:    make(map[string]func(float64) (collision.Policy, error)),
	}

	r.integrators["symplectic"] = func() dynamo.Integrator { return integrators.NewSymplecticEuler() }
	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["verlet"] = func() dynamo.Integrator { return integrators.NewVelocityVerlet() }

	r.policies["reflect"] = func(float64) (collision.Policy, error) { return collision.NewReflect(), nil }
	r.policies["impulse"] = func(e float64) (collision.Policy, error) { return collision.NewImpulse(e) }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetPolicy(name string, restitution float64) (collision.Policy, error) {
	fn, ok := r.policies[name]
	if !ok {
		return nil, fmt.Errorf("unknown policy: %s", name)
	}
	return fn(restitution)
}

func (r *Registry) GetScene(name string) (*config.Config, error) {
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown scene: %s", name)
	}
	return cfg, nil
}

func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }
func (r *Registry) ListPolicies() []string    { return sortedKeys(r.policies) }
func (r *Registry) ListScenes() []string      { return config.ListPresets() }

func (r *Registry) DefaultMetrics(gravity dynamo.Vector3) []dynamo.Metric {
	return metrics.Default(gravity)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
