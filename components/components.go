// Package components defines plain data types shared by the simulation core
// and the ECS scene used by the host renderer.
package components

// ParticleRef links a scene entity to a slot in the particle store.
type ParticleRef struct {
	Index int
}

// Tint is the display color of a particle entity.
type Tint struct {
	R, G, B, A uint8
}

// Bounds marks the scene entity that represents the boundary box.
type Bounds struct {
	CenterX, CenterY, CenterZ float32
	SizeX, SizeY, SizeZ       float32
}
