package telemetry

import (
	"testing"

	"github.com/pthm-cable/sph/sim"
)

func TestPhaseRegistryOrder(t *testing.T) {
	want := []string{
		sim.PhasePredict, sim.PhaseSpatialGrid, sim.PhaseDensity,
		sim.PhasePressure, sim.PhaseIntegrate, PhaseTelemetry,
	}
	got := PhaseOrder()
	if len(got) != len(want) {
		t.Fatalf("PhaseOrder() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PhaseOrder()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	got[0] = "mutated"
	if PhaseOrder()[0] != sim.PhasePredict {
		t.Error("PhaseOrder should return a copy")
	}
}

func TestPhaseNames(t *testing.T) {
	if got := PhaseName(sim.PhaseSpatialGrid); got != "Spatial Grid" {
		t.Errorf("PhaseName(spatial_grid) = %q", got)
	}
	if got := PhaseName("unknown"); got != "unknown" {
		t.Errorf("unknown phase should fall back to its ID, got %q", got)
	}

	r := NewPhaseRegistry()
	info, ok := r.Get(sim.PhasePressure)
	if !ok || info.Description == "" {
		t.Errorf("Get(pressure) = %+v, %v", info, ok)
	}
}
