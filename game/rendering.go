package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/renderer"
	"github.com/pthm-cable/sph/ui"
)

const controlsLegend = "[Space] pause  [Right] step  [R] respawn  [G] gravity  [F5] snapshot  [</>] speed  drag/wheel: orbit/zoom"

// velocityLineScale is seconds of travel drawn per velocity line.
const velocityLineScale = 0.05

// Draw renders one frame.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	g.background.Draw()

	rl.BeginMode3D(renderer.Camera3D(g.camera))
	g.drawWorld()
	rl.EndMode3D()

	g.drawUI()

	rl.EndDrawing()
}

// drawWorld renders the 3D scene. Call inside BeginMode3D.
func (g *Game) drawWorld() {
	if g.overlays.IsEnabled(ui.OverlayBounds) {
		renderer.DrawBounds(g.sim.Boundary(), rl.Color{R: 160, G: 170, B: 190, A: 200})
	}

	positions := g.sim.Positions()
	if g.overlays.IsEnabled(ui.OverlayDensityTint) {
		g.fluid.Draw(positions, g.scene)
	} else {
		g.fluid.Draw(positions, nil)
	}

	if g.overlays.IsEnabled(ui.OverlayVelocity) {
		g.fluid.DrawVelocities(positions, g.sim.Velocities(), velocityLineScale, rl.Color{R: 250, G: 220, B: 120, A: 160})
	}

	if g.hasHover {
		r := float32(g.sim.Params().ParticleRadius)*1.6 + 0.01
		rl.DrawSphereWires(renderer.ToVector3(positions[g.hovered]), r, 6, 6, rl.Yellow)
	}
}

// drawUI renders the 2D panels over the scene.
func (g *Game) drawUI() {
	g.hud.Draw(ui.HUDData{
		Title:     "SPH Fluid",
		Particles: g.sim.Len(),
		Tick:      g.sim.Tick(),
		SimTime:   g.sim.Time(),
		FPS:       rl.GetFPS(),
		Paused:    g.paused,
		WallHits:  g.lastStats.WallHits,
	})
	rl.DrawText(fmt.Sprintf("Steps/frame: %d", g.stepsPerUpdate), 120, 75, 16, rl.LightGray)

	g.overlayPanel.Draw(g.overlays)

	if g.overlays.IsEnabled(ui.OverlayStats) {
		g.statsPanel.Draw(g.measures, g.sim.Params().TargetDensity)
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}
	if g.overlays.IsEnabled(ui.OverlayControls) {
		g.drawControlPanel()
	}
	if g.hasHover {
		g.drawTooltip()
	}

	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)
}

// drawControlPanel runs the immediate-mode sliders and applies edits.
func (g *Game) drawControlPanel() {
	next, actions := g.controlPanel.Draw(g.controls)
	ui.ApplyControls(g.sim, g.controls, next)
	g.controls = next

	if actions.Reset {
		g.ResetParams()
	}
	if actions.Respawn {
		g.pendingRespawn = true
	}
}

// drawTooltip shows the state of the hovered particle next to the cursor.
func (g *Game) drawTooltip() {
	i := g.hovered
	p := g.sim.Positions()[i]
	v := g.sim.Velocities()[i]
	lines := []string{
		fmt.Sprintf("#%d", i),
		fmt.Sprintf("pos %.3f %.3f %.3f", p.X, p.Y, p.Z),
		fmt.Sprintf("vel %.3f %.3f %.3f", v.X, v.Y, v.Z),
		fmt.Sprintf("density %.1f", g.sim.Densities()[i]),
		fmt.Sprintf("near %.1f", g.sim.NearDensities()[i]),
	}

	m := rl.GetMousePosition()
	x, y := int32(m.X)+16, int32(m.Y)+16
	rl.DrawRectangle(x-4, y-4, 190, int32(len(lines))*14+8, rl.Color{R: 0, G: 0, B: 0, A: 190})
	for _, line := range lines {
		rl.DrawText(line, x, y, 12, rl.White)
		y += 14
	}
}
