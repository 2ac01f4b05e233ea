package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Boundary is an axis-aligned box that contains the fluid.
type Boundary struct {
	Center r3.Vec
	Size   r3.Vec
}

// HalfExtent returns the distance from the center a particle of the given
// radius may reach on each axis. Never negative.
func (b Boundary) HalfExtent(particleRadius float64) r3.Vec {
	return r3.Vec{
		X: math.Max(b.Size.X/2-particleRadius, 0),
		Y: math.Max(b.Size.Y/2-particleRadius, 0),
		Z: math.Max(b.Size.Z/2-particleRadius, 0),
	}
}

// Contains reports whether p lies inside the box shrunk to half (inclusive).
func (b Boundary) Contains(p, half r3.Vec) bool {
	return math.Abs(p.X-b.Center.X) <= half.X &&
		math.Abs(p.Y-b.Center.Y) <= half.Y &&
		math.Abs(p.Z-b.Center.Z) <= half.Z
}

// Resolve pushes pos back onto the boundary surface on every axis where it
// has left the box, reflecting and damping that velocity component.
// Axes are handled independently. Returns true if any axis collided.
func (b Boundary) Resolve(pos, vel *r3.Vec, half r3.Vec, damping float64) bool {
	hitX := resolveAxis(&pos.X, &vel.X, b.Center.X, half.X, damping)
	hitY := resolveAxis(&pos.Y, &vel.Y, b.Center.Y, half.Y, damping)
	hitZ := resolveAxis(&pos.Z, &vel.Z, b.Center.Z, half.Z, damping)
	return hitX || hitY || hitZ
}

func resolveAxis(p, v *float64, center, half, damping float64) bool {
	d := *p - center
	if math.Abs(d) <= half {
		return false
	}
	*p = center + math.Copysign(half, d)
	*v *= -damping
	return true
}
