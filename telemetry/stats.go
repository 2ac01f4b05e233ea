package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/sph/components"
	"github.com/pthm-cable/sph/systems"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	Particles int `csv:"particles"`

	// Density distribution (sampled at window end)
	DensityMean     float64 `csv:"density_mean"`
	DensityStd      float64 `csv:"density_std"`
	DensityP10      float64 `csv:"density_p10"`
	DensityP50      float64 `csv:"density_p50"`
	DensityP90      float64 `csv:"density_p90"`
	NearDensityMean float64 `csv:"near_density_mean"`
	CenterDensity   float64 `csv:"center_density"` // Field sampled at the box center

	// Motion
	MaxSpeed      float64 `csv:"max_speed"`
	KineticEnergy float64 `csv:"kinetic_energy"`
	MomentumX     float64 `csv:"momentum_x"`
	MomentumY     float64 `csv:"momentum_y"`
	MomentumZ     float64 `csv:"momentum_z"`

	// Health checks
	OutOfBounds int `csv:"out_of_bounds"`
	NonFinite   int `csv:"non_finite"`

	// Events during window
	WallHits int `csv:"wall_hits"`
}

// FluidMeasures is a point-in-time summary of the particle state.
type FluidMeasures struct {
	Particles       int
	DensityMean     float64
	DensityStd      float64
	DensityP10      float64
	DensityP50      float64
	DensityP90      float64
	NearDensityMean float64
	MaxSpeed        float64
	KineticEnergy   float64
	Momentum        r3.Vec
	OutOfBounds     int
	NonFinite       int
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDensityStats calculates mean, population std, and percentiles.
// scratch is used as the sort buffer when it has room for every value.
func ComputeDensityStats(values, scratch []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, variance := stat.PopMeanVariance(values, nil)
	std = math.Sqrt(variance)

	sorted := scratch
	if cap(sorted) < n {
		sorted = make([]float64, n)
	}
	sorted = sorted[:n]
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// KineticEnergy returns 0.5 * mass * sum |v|^2.
func KineticEnergy(velocities []r3.Vec, mass float64) float64 {
	flat := components.FlattenVecs(velocities)
	if len(flat) == 0 {
		return 0
	}
	v := blas64.Vector{N: len(flat), Data: flat, Inc: 1}
	return 0.5 * mass * blas64.Dot(v, v)
}

// Momentum returns mass * sum v. ones must hold at least len(velocities)
// ones; it is grown and returned when short.
func Momentum(velocities []r3.Vec, mass float64, ones []float64) (r3.Vec, []float64) {
	n := len(velocities)
	if n == 0 {
		return r3.Vec{}, ones
	}
	for len(ones) < n {
		ones = append(ones, 1)
	}
	flat := components.FlattenVecs(velocities)
	unit := blas64.Vector{N: n, Data: ones, Inc: 1}
	axis := func(offset int) float64 {
		return blas64.Dot(blas64.Vector{N: n, Data: flat[offset:], Inc: 3}, unit)
	}
	return r3.Scale(mass, r3.Vec{X: axis(0), Y: axis(1), Z: axis(2)}), ones
}

// MeasureFluid summarizes particle state. half is the reachable half
// extent of the boundary. Non-finite particles are counted but excluded
// from the speed maximum.
func MeasureFluid(p *components.Particles, mass float64, b systems.Boundary, half r3.Vec, scratch, ones []float64) (FluidMeasures, []float64, []float64) {
	n := p.Len()
	m := FluidMeasures{Particles: n}
	if n == 0 {
		return m, scratch, ones
	}

	if cap(scratch) < n {
		scratch = make([]float64, n)
	}
	m.DensityMean, m.DensityStd, m.DensityP10, m.DensityP50, m.DensityP90 = ComputeDensityStats(p.Density, scratch)
	m.NearDensityMean = stat.Mean(p.NearDensity, nil)

	for i := 0; i < n; i++ {
		pos, vel := p.Position[i], p.Velocity[i]
		if !finiteVec(pos) || !finiteVec(vel) {
			m.NonFinite++
			continue
		}
		if !b.Contains(pos, half) {
			m.OutOfBounds++
		}
		m.MaxSpeed = math.Max(m.MaxSpeed, r3.Norm(vel))
	}

	m.KineticEnergy = KineticEnergy(p.Velocity, mass)
	m.Momentum, ones = Momentum(p.Velocity, mass, ones)
	return m, scratch, ones
}

func finiteVec(v r3.Vec) bool {
	return systems.IsFinite(v.X) && systems.IsFinite(v.Y) && systems.IsFinite(v.Z)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Float64("density_mean", s.DensityMean),
		slog.Float64("density_std", s.DensityStd),
		slog.Float64("density_p10", s.DensityP10),
		slog.Float64("density_p50", s.DensityP50),
		slog.Float64("density_p90", s.DensityP90),
		slog.Float64("near_density_mean", s.NearDensityMean),
		slog.Float64("center_density", s.CenterDensity),
		slog.Float64("max_speed", s.MaxSpeed),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("momentum_x", s.MomentumX),
		slog.Float64("momentum_y", s.MomentumY),
		slog.Float64("momentum_z", s.MomentumZ),
		slog.Int("out_of_bounds", s.OutOfBounds),
		slog.Int("non_finite", s.NonFinite),
		slog.Int("wall_hits", s.WallHits),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"particles", s.Particles,
		"density_mean", s.DensityMean,
		"density_std", s.DensityStd,
		"density_p10", s.DensityP10,
		"density_p50", s.DensityP50,
		"density_p90", s.DensityP90,
		"near_density_mean", s.NearDensityMean,
		"max_speed", s.MaxSpeed,
		"kinetic_energy", s.KineticEnergy,
		"out_of_bounds", s.OutOfBounds,
		"non_finite", s.NonFinite,
		"wall_hits", s.WallHits,
	)
}
