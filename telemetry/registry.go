package telemetry

import "github.com/pthm-cable/sph/sim"

// PhaseInfo describes a timed step phase for UI display.
type PhaseInfo struct {
	ID          string // Phase name reported to PerfCollector
	Name        string // Display name
	Description string
}

// PhaseRegistry holds metadata about every timed phase in tick order.
// It keeps the perf panel, the logs and the CSV columns in sync.
type PhaseRegistry struct {
	phases []PhaseInfo
	byID   map[string]PhaseInfo
}

// NewPhaseRegistry creates a registry with all step phases.
func NewPhaseRegistry() *PhaseRegistry {
	r := &PhaseRegistry{byID: make(map[string]PhaseInfo)}
	r.Register(PhaseInfo{ID: sim.PhasePredict, Name: "Predict", Description: "Applies gravity and projects look-ahead positions"})
	r.Register(PhaseInfo{ID: sim.PhaseSpatialGrid, Name: "Spatial Grid", Description: "Rebuilds the neighbor hash"})
	r.Register(PhaseInfo{ID: sim.PhaseDensity, Name: "Density", Description: "Sums density and near density"})
	r.Register(PhaseInfo{ID: sim.PhasePressure, Name: "Pressure", Description: "Pressure and viscosity accelerations"})
	r.Register(PhaseInfo{ID: sim.PhaseIntegrate, Name: "Integrate", Description: "Moves particles and resolves walls"})
	r.Register(PhaseInfo{ID: PhaseTelemetry, Name: "Telemetry", Description: "Window stats and output"})
	return r
}

// Register adds a phase to the registry.
func (r *PhaseRegistry) Register(info PhaseInfo) {
	r.phases = append(r.phases, info)
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *PhaseRegistry) Get(id string) (PhaseInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *PhaseRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// IDs returns all phase IDs in registration order.
func (r *PhaseRegistry) IDs() []string {
	ids := make([]string, len(r.phases))
	for i, info := range r.phases {
		ids[i] = info.ID
	}
	return ids
}

// defaultPhases backs the package-level phase order.
var defaultPhases = NewPhaseRegistry()
