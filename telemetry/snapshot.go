package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/sim"
	"github.com/pthm-cable/sph/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete simulation state for replay. Restoring it
// continues the run bit for bit.
type Snapshot struct {
	Version int `json:"version"`

	Params   ParamsJSON `json:"params"`
	Boundary BoxJSON    `json:"boundary"`

	Tick int64 `json:"tick"`

	Positions  [][3]float64 `json:"positions"`
	Velocities [][3]float64 `json:"velocities"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// ParamsJSON is the JSON form of sim.Params.
type ParamsJSON struct {
	Mass               float64 `json:"mass"`
	SmoothingRadius    float64 `json:"smoothing_radius"`
	TargetDensity      float64 `json:"target_density"`
	PressureMultiplier float64 `json:"pressure_multiplier"`
	ViscosityStrength  float64 `json:"viscosity_strength"`
	Gravity            float64 `json:"gravity"`
	GravityEnabled     bool    `json:"gravity_enabled"`
	CollisionDamping   float64 `json:"collision_damping"`
	ParticleRadius     float64 `json:"particle_radius"`
	Lookahead          float64 `json:"lookahead"`
	DT                 float64 `json:"dt"`
}

// BoxJSON is the JSON form of systems.Boundary.
type BoxJSON struct {
	Center [3]float64 `json:"center"`
	Size   [3]float64 `json:"size"`
}

func vecToArray(v r3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func arrayToVec(a [3]float64) r3.Vec { return r3.Vec{X: a[0], Y: a[1], Z: a[2]} }

func vecsToArrays(vs []r3.Vec) [][3]float64 {
	out := make([][3]float64, len(vs))
	for i, v := range vs {
		out[i] = vecToArray(v)
	}
	return out
}

func arraysToVecs(as [][3]float64) []r3.Vec {
	out := make([]r3.Vec, len(as))
	for i, a := range as {
		out[i] = arrayToVec(a)
	}
	return out
}

// TakeSnapshot captures the state of s.
func TakeSnapshot(s *sim.Simulation) *Snapshot {
	p := s.Params()
	b := s.Boundary()
	return &Snapshot{
		Version: SnapshotVersion,
		Params: ParamsJSON{
			Mass:               p.Mass,
			SmoothingRadius:    p.SmoothingRadius,
			TargetDensity:      p.TargetDensity,
			PressureMultiplier: p.PressureMultiplier,
			ViscosityStrength:  p.ViscosityStrength,
			Gravity:            p.Gravity,
			GravityEnabled:     p.GravityEnabled,
			CollisionDamping:   p.CollisionDamping,
			ParticleRadius:     p.ParticleRadius,
			Lookahead:          p.Lookahead,
			DT:                 p.DT,
		},
		Boundary:   BoxJSON{Center: vecToArray(b.Center), Size: vecToArray(b.Size)},
		Tick:       s.Tick(),
		Positions:  vecsToArrays(s.Positions()),
		Velocities: vecsToArrays(s.Velocities()),
	}
}

// Restore rebuilds a simulation from the snapshot. workers sets the worker
// pool size, which does not affect results.
func (snap *Snapshot) Restore(workers int) (*sim.Simulation, error) {
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	p := snap.Params
	params := sim.Params{
		Mass:               p.Mass,
		SmoothingRadius:    p.SmoothingRadius,
		TargetDensity:      p.TargetDensity,
		PressureMultiplier: p.PressureMultiplier,
		ViscosityStrength:  p.ViscosityStrength,
		Gravity:            p.Gravity,
		GravityEnabled:     p.GravityEnabled,
		CollisionDamping:   p.CollisionDamping,
		ParticleRadius:     p.ParticleRadius,
		Lookahead:          p.Lookahead,
		DT:                 p.DT,
		Workers:            workers,
	}
	boundary := systems.Boundary{
		Center: arrayToVec(snap.Boundary.Center),
		Size:   arrayToVec(snap.Boundary.Size),
	}
	s, err := sim.Restore(params, boundary, arraysToVecs(snap.Positions), arraysToVecs(snap.Velocities), snap.Tick)
	if err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}
	return s, nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
