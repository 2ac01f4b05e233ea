// Package scene mirrors simulation particles as ECS entities for drawing.
package scene

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sph/components"
)

// Scene holds one render entity per particle.
type Scene struct {
	world    *ecs.World
	mapper   *ecs.Map2[components.ParticleRef, components.Tint]
	filter   *ecs.Filter2[components.ParticleRef, components.Tint]
	tintMap  *ecs.Map1[components.Tint]
	entities []ecs.Entity
}

// New creates an empty scene.
func New() *Scene {
	world := ecs.NewWorld()
	return &Scene{
		world:   world,
		mapper:  ecs.NewMap2[components.ParticleRef, components.Tint](world),
		filter:  ecs.NewFilter2[components.ParticleRef, components.Tint](world),
		tintMap: ecs.NewMap1[components.Tint](world),
	}
}

// Reset rebuilds the scene with n entities, one per particle index.
func (s *Scene) Reset(n int) {
	for _, e := range s.entities {
		s.world.RemoveEntity(e)
	}
	s.entities = s.entities[:0]

	white := components.Tint{R: 255, G: 255, B: 255, A: 255}
	for i := 0; i < n; i++ {
		ref := components.ParticleRef{Index: i}
		tint := white
		s.entities = append(s.entities, s.mapper.NewEntity(&ref, &tint))
	}
}

// Len returns the number of particle entities.
func (s *Scene) Len() int { return len(s.entities) }

// UpdateTints colors every entity by its particle's density relative to
// the target.
func (s *Scene) UpdateTints(densities []float64, targetDensity float64) {
	query := s.filter.Query()
	for query.Next() {
		ref, tint := query.Get()
		if ref.Index < len(densities) {
			*tint = DensityTint(densities[ref.Index], targetDensity)
		}
	}
}

// Each calls fn for every particle entity.
func (s *Scene) Each(fn func(index int, tint components.Tint)) {
	query := s.filter.Query()
	for query.Next() {
		ref, tint := query.Get()
		fn(ref.Index, *tint)
	}
}

// TintOf returns the tint of particle i.
func (s *Scene) TintOf(i int) (components.Tint, bool) {
	if i < 0 || i >= len(s.entities) {
		return components.Tint{}, false
	}
	return *s.tintMap.Get(s.entities[i]), true
}

// DensityTint maps density to blue below target, white at target and red
// above. A deviation of one full target saturates the color.
func DensityTint(density, targetDensity float64) components.Tint {
	if !(targetDensity > 0) || math.IsNaN(density) {
		return components.Tint{R: 255, G: 255, B: 255, A: 255}
	}
	t := density/targetDensity - 1
	t = math.Max(-1, math.Min(1, t))

	fade := uint8(math.Round(255 * (1 - math.Abs(t))))
	if t < 0 {
		return components.Tint{R: fade, G: fade, B: 255, A: 255}
	}
	return components.Tint{R: 255, G: fade, B: fade, A: 255}
}
