// Package renderer draws the fluid scene with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/components"
)

// TintSource yields the per-particle tints to draw. scene.Scene
// satisfies it.
type TintSource interface {
	Each(fn func(index int, tint components.Tint))
}

// FluidRenderer draws particles as small spheres.
type FluidRenderer struct {
	Radius     float32
	PlainColor rl.Color
}

// NewFluidRenderer creates a renderer for particles of the given radius.
func NewFluidRenderer(radius float32) *FluidRenderer {
	return &FluidRenderer{
		Radius:     radius,
		PlainColor: rl.Color{R: 70, G: 140, B: 230, A: 255},
	}
}

// SphereDetail picks tessellation for n spheres so large counts stay
// interactive.
func SphereDetail(n int) (rings, slices int32) {
	switch {
	case n <= 2000:
		return 8, 8
	case n <= 8000:
		return 5, 6
	default:
		return 3, 4
	}
}

// Draw renders one sphere per particle. With tints nil every particle
// uses PlainColor. Call inside BeginMode3D.
func (f *FluidRenderer) Draw(positions []r3.Vec, tints TintSource) {
	rings, slices := SphereDetail(len(positions))
	radius := f.Radius
	if radius <= 0 {
		radius = 0.02
	}

	if tints == nil {
		for _, p := range positions {
			rl.DrawSphereEx(ToVector3(p), radius, rings, slices, f.PlainColor)
		}
		return
	}

	tints.Each(func(index int, tint components.Tint) {
		if index < len(positions) {
			rl.DrawSphereEx(ToVector3(positions[index]), radius, rings, slices, TintColor(tint))
		}
	})
}

// DrawVelocities draws a line from each particle along scale*velocity.
func (f *FluidRenderer) DrawVelocities(positions, velocities []r3.Vec, scale float64, color rl.Color) {
	for i := range positions {
		if i >= len(velocities) {
			break
		}
		end := r3.Add(positions[i], r3.Scale(scale, velocities[i]))
		rl.DrawLine3D(ToVector3(positions[i]), ToVector3(end), color)
	}
}
