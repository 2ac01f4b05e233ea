package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/renderer"
	"github.com/pthm-cable/sph/ui"
)

// minPickRadius keeps tiny particles clickable.
const minPickRadius = 0.03

// PickParticle returns the particle whose sphere the ray hits first.
// dir need not be normalized.
func PickParticle(origin, dir r3.Vec, positions []r3.Vec, radius float64) (int, bool) {
	dirLen := r3.Norm(dir)
	if dirLen == 0 || radius <= 0 {
		return 0, false
	}
	d := r3.Scale(1/dirLen, dir)
	r2 := radius * radius

	best, bestT := 0, math.Inf(1)
	for i, p := range positions {
		oc := r3.Sub(p, origin)
		t := r3.Dot(oc, d)
		if t < 0 {
			continue
		}
		perp := r3.Dot(oc, oc) - t*t
		if perp > r2 {
			continue
		}
		// Entry point along the ray.
		entry := t - math.Sqrt(r2-perp)
		if entry < bestT {
			best, bestT = i, entry
		}
	}
	return best, !math.IsInf(bestT, 1)
}

// updateHover finds the particle under the mouse cursor.
func (g *Game) updateHover() {
	g.hasHover = false
	if g.camera == nil || g.controlPanelHasMouse() {
		return
	}

	ray := rl.GetScreenToWorldRay(rl.GetMousePosition(), renderer.Camera3D(g.camera))
	origin := r3.Vec{X: float64(ray.Position.X), Y: float64(ray.Position.Y), Z: float64(ray.Position.Z)}
	dir := r3.Vec{X: float64(ray.Direction.X), Y: float64(ray.Direction.Y), Z: float64(ray.Direction.Z)}

	radius := math.Max(g.sim.Params().ParticleRadius, minPickRadius)
	g.hovered, g.hasHover = PickParticle(origin, dir, g.sim.Positions(), radius)
}

// controlPanelHasMouse reports whether the cursor is over the parameter
// panel.
func (g *Game) controlPanelHasMouse() bool {
	if g.controlPanel == nil || !g.overlays.IsEnabled(ui.OverlayControls) {
		return false
	}
	m := rl.GetMousePosition()
	return g.controlPanel.Contains(m.X, m.Y)
}
