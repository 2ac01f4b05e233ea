package components

import (
	"unsafe"

	"gonum.org/v1/gonum/spatial/r3"
)

// Particles is the flat per-particle state owned by the simulation.
// Index is identity; the length is fixed at construction.
type Particles struct {
	Position    []r3.Vec // authoritative position
	Predicted   []r3.Vec // look-ahead position used for neighbor search
	Velocity    []r3.Vec
	Density     []float64 // from the last step, evaluated at Predicted
	NearDensity []float64
}

// NewParticles allocates storage for n particles at the given positions.
// positions is copied; a nil slice yields n particles at the origin.
func NewParticles(n int, positions []r3.Vec) *Particles {
	p := &Particles{
		Position:    make([]r3.Vec, n),
		Predicted:   make([]r3.Vec, n),
		Velocity:    make([]r3.Vec, n),
		Density:     make([]float64, n),
		NearDensity: make([]float64, n),
	}
	copy(p.Position, positions)
	copy(p.Predicted, p.Position)
	return p
}

// Len returns the particle count.
func (p *Particles) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Position)
}

// FlattenVecs returns a zero-copy view of vs as x0,y0,z0,x1,y1,z1,...
// The view aliases vs; writes through it mutate the vectors.
func FlattenVecs(vs []r3.Vec) []float64 {
	if len(vs) == 0 {
		return nil
	}
	return unsafe.Slice(&vs[0].X, 3*len(vs))
}
