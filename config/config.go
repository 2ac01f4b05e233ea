// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is returned by Validate for values the simulation cannot run with.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Fluid     FluidConfig     `yaml:"fluid"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Boundary  BoundaryConfig  `yaml:"boundary"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Camera    CameraConfig    `yaml:"camera"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// FluidConfig holds the SPH material parameters.
type FluidConfig struct {
	Mass               float64 `yaml:"mass"`
	SmoothingRadius    float64 `yaml:"smoothing_radius"` // Kernel support radius, also the grid cell size
	TargetDensity      float64 `yaml:"target_density"`
	PressureMultiplier float64 `yaml:"pressure_multiplier"`
	ViscosityStrength  float64 `yaml:"viscosity_strength"`
	Gravity            float64 `yaml:"gravity"` // Magnitude, applied along -Y
	GravityEnabled     bool    `yaml:"gravity_enabled"`
	CollisionDamping   float64 `yaml:"collision_damping"` // Fraction of normal velocity kept on a wall hit
	ParticleRadius     float64 `yaml:"particle_radius"`
	Lookahead          float64 `yaml:"lookahead"` // Seconds of velocity used for the predicted position
}

// PhysicsConfig holds integration parameters.
type PhysicsConfig struct {
	DT            float64 `yaml:"dt"`
	StepsPerFrame int     `yaml:"steps_per_frame"`
	Workers       int     `yaml:"workers"` // 0 = GOMAXPROCS, 1 = sequential
}

// BoundaryConfig holds the container box.
type BoundaryConfig struct {
	Center [3]float64 `yaml:"center"`
	Size   [3]float64 `yaml:"size"`
}

// SpawnConfig holds the initial lattice layout.
type SpawnConfig struct {
	Count   int     `yaml:"count"`
	Spacing float64 `yaml:"spacing"` // Gap between neighboring particle surfaces
	Jitter  float64 `yaml:"jitter"`
	Seed    int64   `yaml:"seed"`
}

// CameraConfig holds the initial orbit camera.
type CameraConfig struct {
	Distance    float64 `yaml:"distance"`
	Yaw         float64 `yaml:"yaw"`   // Degrees
	Pitch       float64 `yaml:"pitch"` // Degrees
	FovY        float64 `yaml:"fov_y"`
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Simulated seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks the values the simulation cannot recover from at runtime.
func (c *Config) Validate() error {
	f := c.Fluid
	switch {
	case !(f.SmoothingRadius > 0) || math.IsInf(f.SmoothingRadius, 0):
		return fmt.Errorf("%w: fluid.smoothing_radius must be positive, got %v", ErrInvalidConfig, f.SmoothingRadius)
	case !(f.Mass > 0) || math.IsInf(f.Mass, 0):
		return fmt.Errorf("%w: fluid.mass must be positive, got %v", ErrInvalidConfig, f.Mass)
	case !(f.CollisionDamping >= 0 && f.CollisionDamping <= 1):
		return fmt.Errorf("%w: fluid.collision_damping must be in [0,1], got %v", ErrInvalidConfig, f.CollisionDamping)
	case f.ParticleRadius < 0:
		return fmt.Errorf("%w: fluid.particle_radius must not be negative, got %v", ErrInvalidConfig, f.ParticleRadius)
	case !(c.Physics.DT > 0):
		return fmt.Errorf("%w: physics.dt must be positive, got %v", ErrInvalidConfig, c.Physics.DT)
	case c.Physics.Workers < 0:
		return fmt.Errorf("%w: physics.workers must not be negative, got %d", ErrInvalidConfig, c.Physics.Workers)
	case c.Spawn.Count < 0:
		return fmt.Errorf("%w: spawn.count must not be negative, got %d", ErrInvalidConfig, c.Spawn.Count)
	}
	for i, s := range c.Boundary.Size {
		if s < 0 {
			return fmt.Errorf("%w: boundary.size[%d] must not be negative, got %v", ErrInvalidConfig, i, s)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	if c.Physics.StepsPerFrame < 1 {
		c.Physics.StepsPerFrame = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
