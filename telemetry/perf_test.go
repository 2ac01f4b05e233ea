package telemetry

import (
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/sim"
	"github.com/pthm-cable/sph/systems"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(sim.PhaseSpatialGrid)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(sim.PhaseDensity)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if _, ok := stats.PhaseAvg[sim.PhaseSpatialGrid]; !ok {
		t.Error("expected spatial_grid phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[sim.PhaseDensity]; !ok {
		t.Error("expected density phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(sim.PhaseSpatialGrid)
		time.Sleep(10 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(2 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if fast, slow := stats.PhasePct["fast"], stats.PhasePct["slow"]; slow <= fast {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slow, fast)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS in (0, 70] with 16ms frame time, got %v", stats.FPS)
	}
}

// TestPerfCollector_RecordsSimulationPhases drives the collector from a
// real step through the phase hook.
func TestPerfCollector_RecordsSimulationPhases(t *testing.T) {
	params := sim.DefaultParams()
	params.Workers = 1
	b := systems.Boundary{Size: r3.Vec{X: 2, Y: 2, Z: 2}}
	s, err := sim.New(params, b, systems.Lattice(27, 0.05, b, params.ParticleRadius, 0, nil))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	pc := NewPerfCollector(4)
	s.SetPhaseRecorder(pc)
	for i := 0; i < 3; i++ {
		pc.StartTick()
		s.Step()
		pc.StartPhase(PhaseTelemetry)
		pc.EndTick()
	}

	stats := pc.Stats()
	for _, phase := range phaseOrder {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("phase %q not recorded", phase)
		}
	}

	row := stats.ToCSV(s.Tick())
	if row.WindowEnd != 3 {
		t.Errorf("WindowEnd = %d, want 3", row.WindowEnd)
	}
	if row.AvgTickUS != stats.AvgTickDuration.Microseconds() {
		t.Errorf("AvgTickUS = %d, want %d", row.AvgTickUS, stats.AvgTickDuration.Microseconds())
	}
}

func TestPerfCollector_SkippedPhasesOmitted(t *testing.T) {
	pc := NewPerfCollector(4)

	pc.StartTick()
	pc.StartPhase(sim.PhaseDensity)
	pc.EndTick()

	stats := pc.Stats()
	if _, ok := stats.PhaseAvg[sim.PhaseDensity]; !ok {
		t.Error("density phase missing")
	}
	for _, phase := range []string{sim.PhasePredict, sim.PhasePressure, PhaseTelemetry} {
		if _, ok := stats.PhaseAvg[phase]; ok {
			t.Errorf("phase %q reported without running", phase)
		}
	}
	if row := stats.ToCSV(1); row.PressurePct != 0 {
		t.Errorf("PressurePct = %v, want 0", row.PressurePct)
	}
}
