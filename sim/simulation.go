// Package sim advances an SPH fluid one fixed step at a time.
package sim

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/components"
	"github.com/pthm-cable/sph/systems"
)

// Phase names reported to a PhaseRecorder, in execution order.
const (
	PhasePredict     = "predict"
	PhaseSpatialGrid = "spatial_grid"
	PhaseDensity     = "density"
	PhasePressure    = "pressure"
	PhaseIntegrate   = "integrate"
)

// PhaseRecorder is notified as each step moves between phases.
// telemetry.PerfCollector satisfies it.
type PhaseRecorder interface {
	StartPhase(name string)
}

// Tunable is the live parameter surface driven by UIs and tools.
// Changes take effect on the next step.
type Tunable interface {
	SetTargetDensity(v float64)
	SetPressureMultiplier(v float64)
	SetViscosityStrength(v float64)
	SetGravity(v float64)
	SetGravityEnabled(enabled bool)
	SetCollisionDamping(v float64)
	Params() Params
}

var _ Tunable = (*Simulation)(nil)

// Simulation owns the particle store, the spatial grid and the boundary.
// It is not safe for concurrent use; callers must not mutate particle
// state while Step runs.
type Simulation struct {
	params    Params
	boundary  systems.Boundary
	half      r3.Vec
	kernels   systems.Kernels
	particles *components.Particles
	grid      *systems.SpatialHashGrid
	dv        []r3.Vec
	sample    []systems.Neighbor
	tick      int64
	wallHits  int

	parallel *parallelState
	recorder PhaseRecorder

	predictPass   passFunc
	densityPass   passFunc
	pressurePass  passFunc
	integratePass passFunc
}

// New creates a simulation with particles at the given positions and zero
// velocity. The positions are copied.
func New(params Params, boundary systems.Boundary, positions []r3.Vec) (*Simulation, error) {
	return Restore(params, boundary, positions, nil, 0)
}

// Restore creates a simulation from saved state. velocities may be nil for
// a system at rest; otherwise it must match positions in length.
func Restore(params Params, boundary systems.Boundary, positions, velocities []r3.Vec, tick int64) (*Simulation, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if velocities != nil && len(velocities) != len(positions) {
		return nil, fmt.Errorf("%w: %d velocities for %d positions", ErrInvalidParams, len(velocities), len(positions))
	}

	n := len(positions)
	s := &Simulation{
		params:    params,
		boundary:  boundary,
		half:      boundary.HalfExtent(params.ParticleRadius),
		kernels:   systems.NewKernels(params.SmoothingRadius),
		particles: components.NewParticles(n, positions),
		grid:      systems.NewSpatialHashGrid(params.SmoothingRadius),
		dv:        make([]r3.Vec, n),
		tick:      tick,
		parallel:  newParallelState(params.Workers),
	}
	copy(s.particles.Velocity, velocities)

	s.predictPass = s.predict
	s.densityPass = s.computeDensities
	s.pressurePass = s.computePressureForces
	s.integratePass = s.integrate
	return s, nil
}

// Close stops the worker pool. The simulation can still step afterwards,
// restarting workers on demand.
func (s *Simulation) Close() {
	s.parallel.stopWorkers()
}

// SetPhaseRecorder installs r as the phase hook, or removes it when nil.
func (s *Simulation) SetPhaseRecorder(r PhaseRecorder) {
	s.recorder = r
}

func (s *Simulation) startPhase(name string) {
	if s.recorder != nil {
		s.recorder.StartPhase(name)
	}
}

// Step advances the simulation by one fixed timestep.
func (s *Simulation) Step() {
	n := s.particles.Len()
	if n == 0 {
		return
	}

	s.startPhase(PhasePredict)
	s.parallel.run(n, s.predictPass)

	s.startPhase(PhaseSpatialGrid)
	s.grid.Rebuild(s.particles.Predicted)

	s.startPhase(PhaseDensity)
	s.parallel.run(n, s.densityPass)

	s.startPhase(PhasePressure)
	s.parallel.run(n, s.pressurePass)

	s.startPhase(PhaseIntegrate)
	s.parallel.run(n, s.integratePass)
	s.wallHits = s.parallel.drainWallHits()

	s.tick++
}

// Advance runs n steps.
func (s *Simulation) Advance(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// predict applies gravity and extrapolates the position used for the
// neighbor search.
func (s *Simulation) predict(start, end int, _ *workerScratch) {
	p := s.particles
	g := r3.Scale(s.params.DT, s.params.gravityVector())
	lookahead := s.params.Lookahead
	for i := start; i < end; i++ {
		p.Velocity[i] = r3.Add(p.Velocity[i], g)
		p.Predicted[i] = r3.Add(p.Position[i], r3.Scale(lookahead, p.Velocity[i]))
	}
}

// computeDensities sums kernel contributions over every neighbor of the
// predicted position, the particle itself included.
func (s *Simulation) computeDensities(start, end int, scratch *workerScratch) {
	p := s.particles
	h := s.kernels.H
	mass := s.params.Mass
	for i := start; i < end; i++ {
		scratch.Neighbors = s.grid.QueryRadiusInto(scratch.Neighbors[:0], p.Predicted, p.Predicted[i], h)

		var density, near float64
		for _, nb := range scratch.Neighbors {
			density += mass * s.kernels.Density(nb.Dist)
			near += mass * s.kernels.NearDensity(nb.Dist)
		}
		p.Density[i] = density
		p.NearDensity[i] = near
	}
}

// computePressureForces accumulates pressure, near pressure and viscosity
// into the velocity delta of each particle. Velocities are only read here.
func (s *Simulation) computePressureForces(start, end int, scratch *workerScratch) {
	p := s.particles
	h := s.kernels.H
	mass := s.params.Mass
	target := s.params.TargetDensity
	mult := s.params.PressureMultiplier
	viscosity := s.params.ViscosityStrength
	dt := s.params.DT

	for i := start; i < end; i++ {
		scratch.Neighbors = s.grid.QueryRadiusInto(scratch.Neighbors[:0], p.Predicted, p.Predicted[i], h)

		density := p.Density[i]
		pressure := systems.DensityToPressure(density, target, mult)
		nearPressure := systems.NearDensityToPressure(p.NearDensity[i], mult)
		vel := p.Velocity[i]

		var accel, visc r3.Vec
		for _, nb := range scratch.Neighbors {
			j := nb.Index
			if j == i {
				continue
			}
			dir := systems.PairDirection(nb.Offset, nb.Dist, i, j)

			neighborDensity := p.Density[j]
			neighborNear := p.NearDensity[j]
			shared := systems.SharedPressure(pressure, systems.DensityToPressure(neighborDensity, target, mult))
			sharedNear := systems.SharedPressure(nearPressure, systems.NearDensityToPressure(neighborNear, mult))

			slope := s.kernels.DensityDerivative(nb.Dist)
			nearSlope := s.kernels.NearDensityDerivative(nb.Dist)
			accel = r3.Add(accel, r3.Scale(-shared*slope*mass/neighborDensity, dir))
			accel = r3.Add(accel, r3.Scale(-sharedNear*nearSlope*mass/neighborNear, dir))

			w := s.kernels.Viscosity(nb.Dist) * viscosity
			visc = r3.Add(visc, r3.Scale(w, r3.Sub(p.Velocity[j], vel)))
		}
		accel = r3.Scale(1/density, accel)

		s.dv[i] = r3.Scale(dt, r3.Add(accel, visc))
	}
}

// integrate applies the velocity deltas, moves particles and resolves
// boundary collisions against the actual position.
func (s *Simulation) integrate(start, end int, scratch *workerScratch) {
	p := s.particles
	dt := s.params.DT
	damping := s.params.CollisionDamping
	for i := start; i < end; i++ {
		p.Velocity[i] = r3.Add(p.Velocity[i], s.dv[i])
		p.Position[i] = r3.Add(p.Position[i], r3.Scale(dt, p.Velocity[i]))
		if s.boundary.Resolve(&p.Position[i], &p.Velocity[i], s.half, damping) {
			scratch.WallHits++
		}
	}
}

// Len returns the particle count.
func (s *Simulation) Len() int { return s.particles.Len() }

// Tick returns the number of completed steps.
func (s *Simulation) Tick() int64 { return s.tick }

// WallHits returns how many particles touched the boundary in the last step.
func (s *Simulation) WallHits() int { return s.wallHits }

// Time returns the simulated time in seconds.
func (s *Simulation) Time() float64 { return float64(s.tick) * s.params.DT }

// Positions returns the live position slice. Callers must treat it as read-only.
func (s *Simulation) Positions() []r3.Vec { return s.particles.Position }

// Velocities returns the live velocity slice. Callers must treat it as read-only.
func (s *Simulation) Velocities() []r3.Vec { return s.particles.Velocity }

// Densities returns the densities computed by the last step.
func (s *Simulation) Densities() []float64 { return s.particles.Density }

// NearDensities returns the near densities computed by the last step.
func (s *Simulation) NearDensities() []float64 { return s.particles.NearDensity }

// Particles exposes the underlying store for read-only diagnostics.
func (s *Simulation) Particles() *components.Particles { return s.particles }

// Boundary returns the container box.
func (s *Simulation) Boundary() systems.Boundary { return s.boundary }

// HalfExtent returns the reachable half extent of the box for a particle.
func (s *Simulation) HalfExtent() r3.Vec { return s.half }

// Params returns a copy of the current parameters.
func (s *Simulation) Params() Params { return s.params }

// SetTargetDensity sets the rest density. Any value is accepted.
func (s *Simulation) SetTargetDensity(v float64) { s.params.TargetDensity = v }

// SetPressureMultiplier sets the pressure stiffness. Any value is accepted.
func (s *Simulation) SetPressureMultiplier(v float64) { s.params.PressureMultiplier = v }

// SetViscosityStrength sets the viscosity strength.
func (s *Simulation) SetViscosityStrength(v float64) { s.params.ViscosityStrength = v }

// SetGravity sets the gravity magnitude.
func (s *Simulation) SetGravity(v float64) { s.params.Gravity = v }

// SetGravityEnabled turns gravity on or off.
func (s *Simulation) SetGravityEnabled(enabled bool) { s.params.GravityEnabled = enabled }

// SetCollisionDamping sets the wall damping, clamped to [0, 1].
func (s *Simulation) SetCollisionDamping(v float64) {
	s.params.CollisionDamping = systems.Clamp01(v)
}
