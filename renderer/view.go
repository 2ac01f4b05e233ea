package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/camera"
	"github.com/pthm-cable/sph/components"
)

// Camera3D converts the orbit camera into a raylib perspective camera.
func Camera3D(c *camera.Camera) rl.Camera3D {
	x, y, z := c.Position()
	return rl.Camera3D{
		Position:   rl.NewVector3(x, y, z),
		Target:     rl.NewVector3(c.TargetX, c.TargetY, c.TargetZ),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       c.FovY,
		Projection: rl.CameraPerspective,
	}
}

// ToVector3 narrows a simulation vector for drawing.
func ToVector3(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// TintColor converts a particle tint to a raylib color.
func TintColor(t components.Tint) rl.Color {
	return rl.Color{R: t.R, G: t.G, B: t.B, A: t.A}
}
