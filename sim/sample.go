package sim

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/systems"
)

// DensityAt samples the density field at p. The field is the one the last
// step evaluated, over predicted positions; before the first step it is
// the field of the initial positions. At a particle's predicted position
// it equals that particle's Density.
func (s *Simulation) DensityAt(p r3.Vec) float64 {
	mass := s.params.Mass
	var density float64
	for _, nb := range s.sampleNeighbors(p) {
		density += mass * s.kernels.Density(nb.Dist)
	}
	return density
}

// InterpolateAt estimates a per-particle quantity at p as the SPH sum of
// mass·field[j]/density[j]·W over neighbors. field holds one value per
// particle. Neighbors with no density, or past the end of field, are skipped.
func (s *Simulation) InterpolateAt(p r3.Vec, field []float64) float64 {
	mass := s.params.Mass
	densities := s.particles.Density
	var value float64
	for _, nb := range s.sampleNeighbors(p) {
		j := nb.Index
		if j >= len(field) || !(densities[j] > 0) {
			continue
		}
		value += mass * field[j] / densities[j] * s.kernels.Density(nb.Dist)
	}
	return value
}

func (s *Simulation) sampleNeighbors(p r3.Vec) []systems.Neighbor {
	n := s.particles.Len()
	if n == 0 {
		return nil
	}
	if s.grid.Len() != n {
		s.grid.Rebuild(s.particles.Predicted)
	}
	s.sample = s.grid.QueryRadiusInto(s.sample[:0], s.particles.Predicted, p, s.kernels.H)
	return s.sample
}
