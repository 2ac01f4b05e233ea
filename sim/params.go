package sim

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/systems"
)

// ErrInvalidParams is wrapped by every parameter validation failure.
var ErrInvalidParams = errors.New("invalid simulation params")

// Params holds the fluid and integration parameters of a Simulation.
type Params struct {
	Mass               float64
	SmoothingRadius    float64
	TargetDensity      float64
	PressureMultiplier float64
	ViscosityStrength  float64
	Gravity            float64 // Magnitude along -Y
	GravityEnabled     bool
	CollisionDamping   float64
	ParticleRadius     float64
	Lookahead          float64
	DT                 float64
	Workers            int // 0 = GOMAXPROCS, 1 = sequential
}

// DefaultParams returns the parameters of the embedded default config.
func DefaultParams() Params {
	return ParamsFromConfig(config.Default())
}

// ParamsFromConfig extracts simulation parameters from a loaded config.
func ParamsFromConfig(cfg *config.Config) Params {
	f := cfg.Fluid
	return Params{
		Mass:               f.Mass,
		SmoothingRadius:    f.SmoothingRadius,
		TargetDensity:      f.TargetDensity,
		PressureMultiplier: f.PressureMultiplier,
		ViscosityStrength:  f.ViscosityStrength,
		Gravity:            f.Gravity,
		GravityEnabled:     f.GravityEnabled,
		CollisionDamping:   f.CollisionDamping,
		ParticleRadius:     f.ParticleRadius,
		Lookahead:          f.Lookahead,
		DT:                 cfg.Physics.DT,
		Workers:            cfg.Physics.Workers,
	}
}

// BoundaryFromConfig builds the container box from a loaded config.
func BoundaryFromConfig(cfg *config.Config) systems.Boundary {
	c, s := cfg.Boundary.Center, cfg.Boundary.Size
	return systems.Boundary{
		Center: r3.Vec{X: c[0], Y: c[1], Z: c[2]},
		Size:   r3.Vec{X: s[0], Y: s[1], Z: s[2]},
	}
}

// Validate rejects parameters that would make the simulation inert or
// numerically meaningless. Target density and pressure multiplier are
// deliberately unchecked.
func (p Params) Validate() error {
	switch {
	case !(p.SmoothingRadius > 0) || math.IsInf(p.SmoothingRadius, 0):
		return fmt.Errorf("%w: smoothing radius must be positive and finite, got %v", ErrInvalidParams, p.SmoothingRadius)
	case !(p.Mass > 0) || math.IsInf(p.Mass, 0):
		return fmt.Errorf("%w: mass must be positive and finite, got %v", ErrInvalidParams, p.Mass)
	case !(p.CollisionDamping >= 0 && p.CollisionDamping <= 1):
		return fmt.Errorf("%w: collision damping must be in [0,1], got %v", ErrInvalidParams, p.CollisionDamping)
	case !(p.DT > 0) || math.IsInf(p.DT, 0):
		return fmt.Errorf("%w: dt must be positive and finite, got %v", ErrInvalidParams, p.DT)
	case !(p.ParticleRadius >= 0):
		return fmt.Errorf("%w: particle radius must not be negative, got %v", ErrInvalidParams, p.ParticleRadius)
	case math.IsNaN(p.Lookahead) || math.IsInf(p.Lookahead, 0):
		return fmt.Errorf("%w: lookahead must be finite, got %v", ErrInvalidParams, p.Lookahead)
	case p.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidParams, p.Workers)
	}
	return nil
}

// gravityVector returns the acceleration applied in the predict pass.
func (p Params) gravityVector() r3.Vec {
	if !p.GravityEnabled {
		return r3.Vec{}
	}
	return r3.Vec{Y: -p.Gravity}
}
