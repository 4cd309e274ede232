package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = dynamo.DefaultDt
	DefaultSteps       = 600
	DefaultIntegrator  = "symplectic"
	DefaultPolicy      = "reflect"
	DefaultRestitution = 1.0
	DefaultRecordEvery = 1

	EnvPrefix = "PARTICLES"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Dt               float64          `yaml:"dt" mapstructure:"dt"`
	Steps            int              `yaml:"steps" mapstructure:"steps"`
	Gravity          [3]float64       `yaml:"gravity" mapstructure:"gravity"`
	Integrator       string           `yaml:"integrator" mapstructure:"integrator"`
	Policy           string           `yaml:"policy" mapstructure:"policy"`
	Restitution      float64          `yaml:"restitution" mapstructure:"restitution"`
	ExcludeIntraBody bool             `yaml:"exclude_intra_body" mapstructure:"exclude_intra_body"`
	ValidateState    bool             `yaml:"validate_state" mapstructure:"validate_state"`
	RecordEvery      int              `yaml:"record_every" mapstructure:"record_every"`
	Seed             int64            `yaml:"seed" mapstructure:"seed"`
	Particles        []ParticleConfig `yaml:"particles" mapstructure:"particles"`
	Bodies           []BodyConfig     `yaml:"bodies" mapstructure:"bodies"`
}

type ParticleConfig struct {
	Mass     float64    `yaml:"mass" mapstructure:"mass"`
	Position [3]float64 `yaml:"position" mapstructure:"position"`
	Velocity [3]float64 `yaml:"velocity,omitempty" mapstructure:"velocity"`
}

type BodyConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Members []int  `yaml:"members" mapstructure:"members"`
}

// DefaultConfig is the four-particle, two-body demo scene.
func DefaultConfig() *Config {
	cfg := base()
	cfg.Particles = []ParticleConfig{
		{Mass: 1.0, Position: [3]float64{0, 0, 0}},
		{Mass: 2.0, Position: [3]float64{1, 0, 0}},
		{Mass: 0.5, Position: [3]float64{-1, 1, 0}, Velocity: [3]float64{2, 0, 0}},
		{Mass: 1.5, Position: [3]float64{1, 2, 0}, Velocity: [3]float64{0, -1, 0}},
	}
	cfg.Bodies = []BodyConfig{
		{Name: "first", Members: []int{0, 1}},
		{Name: "second", Members: []int{2, 3}},
	}
	return cfg
}

func base() *Config {
	g := dynamo.StandardGravity
	return &Config{
		Dt:            DefaultDt,
		Steps:         DefaultSteps,
		Gravity:       [3]float64{g.X, g.Y, g.Z},
		Integrator:    DefaultIntegrator,
		Policy:        DefaultPolicy,
		Restitution:   DefaultRestitution,
		ValidateState: true,
		RecordEvery:   DefaultRecordEvery,
	}
}

// Load reads a YAML scene. Scalar keys may be overridden from the
// environment as PARTICLES_<KEY>, e.g. PARTICLES_DT or PARTICLES_POLICY.
// A file without particles gets the demo scene.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := base()
	v.SetDefault("dt", d.Dt)
	v.SetDefault("steps", d.Steps)
	v.SetDefault("gravity", d.Gravity[:])
	v.SetDefault("integrator", d.Integrator)
	v.SetDefault("policy", d.Policy)
	v.SetDefault("restitution", d.Restitution)
	v.SetDefault("exclude_intra_body", d.ExcludeIntraBody)
	v.SetDefault("validate_state", d.ValidateState)
	v.SetDefault("record_every", d.RecordEvery)
	v.SetDefault("seed", d.Seed)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if len(cfg.Particles) == 0 {
		demo := DefaultConfig()
		cfg.Particles, cfg.Bodies = demo.Particles, demo.Bodies
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt=%v", dynamo.ErrInvalidTimestep, c.Dt)
	}
	if c.Steps < 0 {
		return fmt.Errorf("%w: negative steps %d", ErrInvalidConfig, c.Steps)
	}
	if c.RecordEvery < 0 {
		return fmt.Errorf("%w: negative record_every %d", ErrInvalidConfig, c.RecordEvery)
	}
	switch c.Integrator {
	case "symplectic", "euler", "verlet":
	default:
		return fmt.Errorf("%w: unknown integrator %q", ErrInvalidConfig, c.Integrator)
	}
	switch c.Policy {
	case "reflect", "impulse":
	default:
		return fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, c.Policy)
	}
	if c.Restitution < 0 || c.Restitution > 1 {
		return fmt.Errorf("%w: restitution %v outside [0,1]", ErrInvalidConfig, c.Restitution)
	}
	for i, p := range c.Particles {
		if !(p.Mass > 0) || math.IsInf(p.Mass, 0) {
			return fmt.Errorf("particle %d: %w: %v", i, dynamo.ErrInvalidMass, p.Mass)
		}
	}
	for _, b := range c.Bodies {
		for _, m := range b.Members {
			if m < 0 || m >= len(c.Particles) {
				return fmt.Errorf("body %q: %w: index %d", b.Name, dynamo.ErrOrphanReference, m)
			}
		}
	}
	return nil
}

func (c *Config) GravityVector() dynamo.Vector3 {
	return dynamo.Vec3(c.Gravity[0], c.Gravity[1], c.Gravity[2])
}

// SimConfig returns the run parameters consumed by sim.Simulator.Run.
func (c *Config) SimConfig() dynamo.Config {
	return dynamo.Config{
		Dt:            c.Dt,
		Steps:         c.Steps,
		Gravity:       c.GravityVector(),
		ValidateState: c.ValidateState,
		RecordEvery:   c.RecordEvery,
	}
}

// BuildWorld validates the scene and materializes it.
func (c *Config) BuildWorld() (*dynamo.World, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	w := dynamo.NewWorld()
	for i, p := range c.Particles {
		pos := dynamo.Vec3(p.Position[0], p.Position[1], p.Position[2])
		vel := dynamo.Vec3(p.Velocity[0], p.Velocity[1], p.Velocity[2])
		if _, err := w.Spawn(p.Mass, pos, vel); err != nil {
			return nil, fmt.Errorf("particle %d: %w", i, err)
		}
	}
	for _, b := range c.Bodies {
		if _, err := w.AddBody(b.Name, b.Members...); err != nil {
			return nil, fmt.Errorf("body %q: %w", b.Name, err)
		}
	}
	return w, nil
}
