package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/sph/sim"
)

// PhaseTelemetry covers stats collection after the simulation phases.
const PhaseTelemetry = "telemetry"

// phaseOrder lists every phase in tick order.
var phaseOrder = defaultPhases.IDs()

// PhaseOrder returns the phase names in tick order.
func PhaseOrder() []string {
	return append([]string(nil), phaseOrder...)
}

// PhaseName returns the display name for a phase.
func PhaseName(id string) string {
	return defaultPhases.GetName(id)
}

// stepTiming is one recorded step: its wall time and the time spent in each
// phase slot, -1 for slots that did not run.
type stepTiming struct {
	total  time.Duration
	phases []time.Duration
}

// PerfCollector keeps the wall-clock cost of the last few steps, split by
// phase. It is the sim.PhaseRecorder the host installs on a Simulation.
type PerfCollector struct {
	ring  []stepTiming
	next  int
	count int

	// Phase slots: known phases first, ad hoc names appended as seen.
	names []string
	slot  map[string]int

	current    []time.Duration
	stepStart  time.Time
	phaseStart time.Time
	active     int // slot of the running phase, -1 when none

	prevFrame time.Time
	frame     time.Duration
}

var _ sim.PhaseRecorder = (*PerfCollector)(nil)

// NewPerfCollector keeps timings for the last steps steps; 60 when steps
// is not positive.
func NewPerfCollector(steps int) *PerfCollector {
	if steps < 1 {
		steps = 60
	}
	p := &PerfCollector{
		ring:   make([]stepTiming, steps),
		slot:   make(map[string]int, len(phaseOrder)),
		active: -1,
	}
	for _, name := range phaseOrder {
		p.slotOf(name)
	}
	return p
}

func (p *PerfCollector) slotOf(name string) int {
	if i, ok := p.slot[name]; ok {
		return i
	}
	i := len(p.names)
	p.names = append(p.names, name)
	p.slot[name] = i
	return i
}

// closePhase charges the time since the last phase switch to the running
// phase.
func (p *PerfCollector) closePhase(now time.Time) {
	if p.active < 0 {
		return
	}
	for len(p.current) <= p.active {
		p.current = append(p.current, -1)
	}
	if p.current[p.active] < 0 {
		p.current[p.active] = 0
	}
	p.current[p.active] += now.Sub(p.phaseStart)
}

// StartTick marks the beginning of a step.
func (p *PerfCollector) StartTick() {
	p.stepStart = time.Now()
	p.active = -1
	p.current = make([]time.Duration, len(p.names))
	for i := range p.current {
		p.current[i] = -1
	}
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.active = p.slotOf(phase)
	p.phaseStart = now
}

// EndTick ends the running phase and stores the step in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.active = -1

	p.ring[p.next] = stepTiming{total: now.Sub(p.stepStart), phases: p.current}
	p.current = nil
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// RecordFrame is called once per rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.prevFrame.IsZero() {
		p.frame = now.Sub(p.prevFrame)
	}
	p.prevFrame = now
}

// PerfStats summarizes the collector window. Phase maps are keyed by phase
// name and hold only phases that ran.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // Share of the average step, 0-100

	TicksPerSecond float64

	// Zero in headless runs.
	FrameDuration time.Duration
	FPS           float64
}

// Stats averages the recorded steps.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		out.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return out
	}

	var total time.Duration
	sums := make([]time.Duration, len(p.names))
	seen := make([]bool, len(p.names))
	for i, st := range p.ring[:p.count] {
		total += st.total
		if i == 0 || st.total < out.MinTickDuration {
			out.MinTickDuration = st.total
		}
		out.MaxTickDuration = max(out.MaxTickDuration, st.total)
		for j, d := range st.phases {
			if d >= 0 {
				sums[j] += d
				seen[j] = true
			}
		}
	}

	n := time.Duration(p.count)
	out.AvgTickDuration = total / n
	if out.AvgTickDuration > 0 {
		out.TicksPerSecond = float64(time.Second) / float64(out.AvgTickDuration)
	}
	for j, name := range p.names {
		if !seen[j] {
			continue
		}
		avg := sums[j] / n
		out.PhaseAvg[name] = avg
		if out.AvgTickDuration > 0 {
			out.PhasePct[name] = 100 * float64(avg) / float64(out.AvgTickDuration)
		}
	}
	return out
}

// LogStats writes one "perf" log line. Phases under 0.1% are left out.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range phaseOrder {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue groups the stats when logged as an attribute.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row. Phase columns follow tick order.
type PerfStatsCSV struct {
	WindowEnd      int64   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	PredictPct     float64 `csv:"predict_pct"`
	SpatialGridPct float64 `csv:"spatial_grid_pct"`
	DensityPct     float64 `csv:"density_pct"`
	PressurePct    float64 `csv:"pressure_pct"`
	IntegratePct   float64 `csv:"integrate_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats into a row ending at tick windowEnd.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		PredictPct:     s.PhasePct[sim.PhasePredict],
		SpatialGridPct: s.PhasePct[sim.PhaseSpatialGrid],
		DensityPct:     s.PhasePct[sim.PhaseDensity],
		PressurePct:    s.PhasePct[sim.PhasePressure],
		IntegratePct:   s.PhasePct[sim.PhaseIntegrate],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
	}
}
