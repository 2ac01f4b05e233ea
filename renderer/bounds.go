package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/systems"
)

// DrawBounds draws the container as a wireframe box with a floor grid
// outline. Call inside BeginMode3D.
func DrawBounds(b systems.Boundary, color rl.Color) {
	center := ToVector3(b.Center)
	size := ToVector3(b.Size)
	rl.DrawCubeWiresV(center, size, color)

	floor := rl.Vector3{X: center.X, Y: center.Y - size.Y/2, Z: center.Z}
	faint := color
	faint.A /= 3
	rl.DrawPlane(floor, rl.Vector2{X: size.X, Y: size.Z}, faint)
}
