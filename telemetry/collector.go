package telemetry

import (
	"github.com/pthm-cable/sph/sim"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int64
	dt                  float64

	// Current window tracking
	windowStartTick int64

	// Event counters for current window
	wallHits int

	// Reused buffers
	sortScratch []float64
	ones        []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int64(windowDurationSec/dt + 0.5)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordStep records the events of one completed step.
func (c *Collector) RecordStep(wallHits int) {
	c.wallHits += wallHits
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the current simulation state and
// resets counters for the next window.
func (c *Collector) Flush(s *sim.Simulation) WindowStats {
	tick := s.Tick()

	var m FluidMeasures
	m, c.sortScratch, c.ones = MeasureFluid(s.Particles(), s.Params().Mass, s.Boundary(), s.HalfExtent(), c.sortScratch, c.ones)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,
		SimTimeSec:      float64(tick) * c.dt,

		Particles: m.Particles,

		DensityMean:     m.DensityMean,
		DensityStd:      m.DensityStd,
		DensityP10:      m.DensityP10,
		DensityP50:      m.DensityP50,
		DensityP90:      m.DensityP90,
		NearDensityMean: m.NearDensityMean,
		CenterDensity:   s.DensityAt(s.Boundary().Center),

		MaxSpeed:      m.MaxSpeed,
		KineticEnergy: m.KineticEnergy,
		MomentumX:     m.Momentum.X,
		MomentumY:     m.Momentum.Y,
		MomentumZ:     m.Momentum.Z,

		OutOfBounds: m.OutOfBounds,
		NonFinite:   m.NonFinite,

		WallHits: c.wallHits,
	}

	// Reset for next window
	c.windowStartTick = tick
	c.wallHits = 0

	return stats
}

// Reset restarts windowing at tick, discarding pending events.
func (c *Collector) Reset(tick int64) {
	c.windowStartTick = tick
	c.wallHits = 0
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
