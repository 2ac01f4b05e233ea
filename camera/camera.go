// Package camera provides a 3D orbit camera for viewing the fluid box.
package camera

import "math"

// Camera orbits a target point at a fixed distance.
// Yaw rotates around +Y, pitch tilts toward +Y. Angles are in degrees.
type Camera struct {
	// Target is the orbit center in world coordinates
	TargetX, TargetY, TargetZ float32

	Distance   float32
	Yaw, Pitch float32

	// Vertical field of view in degrees
	FovY float32

	// Constraints
	MinDistance, MaxDistance float32
	MinPitch, MaxPitch       float32

	// Initial values restored by Reset
	homeDistance, homeYaw, homePitch float32
}

// New creates a camera orbiting the target.
func New(targetX, targetY, targetZ, distance, yaw, pitch, fovY float32) *Camera {
	c := &Camera{
		TargetX:     targetX,
		TargetY:     targetY,
		TargetZ:     targetZ,
		FovY:        fovY,
		MinDistance: 0.5,
		MaxDistance: 100,
		MinPitch:    -89,
		MaxPitch:    89,
	}
	c.SetDistance(distance)
	c.Yaw = mod(yaw, 360)
	c.Pitch = clamp(pitch, c.MinPitch, c.MaxPitch)
	c.homeDistance, c.homeYaw, c.homePitch = c.Distance, c.Yaw, c.Pitch
	return c
}

// SetDistanceLimits updates the zoom range and reclamps the distance.
func (c *Camera) SetDistanceLimits(minDistance, maxDistance float32) {
	c.MinDistance = minDistance
	c.MaxDistance = maxDistance
	c.SetDistance(c.Distance)
	c.homeDistance = clamp(c.homeDistance, minDistance, maxDistance)
}

// Position returns the eye position in world coordinates.
func (c *Camera) Position() (x, y, z float32) {
	yaw := float64(c.Yaw) * math.Pi / 180
	pitch := float64(c.Pitch) * math.Pi / 180
	d := float64(c.Distance)

	horizontal := d * math.Cos(pitch)
	x = c.TargetX + float32(horizontal*math.Sin(yaw))
	y = c.TargetY + float32(d*math.Sin(pitch))
	z = c.TargetZ + float32(horizontal*math.Cos(yaw))
	return x, y, z
}

// Orbit rotates the camera by a mouse drag in screen pixels.
// sensitivity is degrees per pixel.
func (c *Camera) Orbit(dx, dy, sensitivity float32) {
	c.Yaw = mod(c.Yaw-dx*sensitivity, 360)
	c.Pitch = clamp(c.Pitch+dy*sensitivity, c.MinPitch, c.MaxPitch)
}

// SetDistance sets the orbit distance, clamped to min/max.
func (c *Camera) SetDistance(d float32) {
	c.Distance = clamp(d, c.MinDistance, c.MaxDistance)
}

// ZoomBy multiplies the current distance by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetDistance(c.Distance * factor)
}

// Fit sets the distance so a box of the given size centred on the target
// fills the vertical field of view.
func (c *Camera) Fit(sizeX, sizeY, sizeZ float32) {
	radius := 0.5 * math.Sqrt(float64(sizeX*sizeX+sizeY*sizeY+sizeZ*sizeZ))
	half := float64(c.FovY) * math.Pi / 360
	if half <= 0 {
		return
	}
	c.SetDistance(float32(radius / math.Sin(half)))
}

// Reset returns the camera to its initial orbit.
func (c *Camera) Reset() {
	c.Distance = c.homeDistance
	c.Yaw = c.homeYaw
	c.Pitch = c.homePitch
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
