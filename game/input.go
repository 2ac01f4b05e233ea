package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// orbitSensitivity is degrees of orbit per pixel of mouse drag.
const orbitSensitivity = 0.3

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyRight) && g.paused {
		g.RequestStep()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := g.Respawn(); err != nil {
			slog.Error("respawn failed", "error", err)
		}
	}
	if rl.IsKeyPressed(rl.KeyG) {
		g.controls.GravityEnabled = !g.controls.GravityEnabled
		g.sim.SetGravityEnabled(g.controls.GravityEnabled)
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		g.saveSnapshot(nil)
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	g.handleOverlayKeys()
	g.handleCameraInput()
}

// handleOverlayKeys checks for overlay toggle key presses.
func (g *Game) handleOverlayKeys() {
	for _, desc := range g.overlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			g.overlays.Toggle(desc.ID)
		}
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.background.Resize(int32(w), int32(h))
	g.controlPanel.SetPosition(int32(w)-290, 10)
	g.perfPanel.SetPosition(int32(w)-290, 380)
}

// handleCameraInput processes orbit and zoom controls.
func (g *Game) handleCameraInput() {
	// Drags that start over the parameter panel belong to its sliders.
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		g.orbitDragging = !g.controlPanelHasMouse()
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		g.orbitDragging = false
	}
	if g.orbitDragging && rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		delta := rl.GetMouseDelta()
		g.camera.Orbit(-delta.X, delta.Y, orbitSensitivity)
	}

	// WASD orbits in fixed increments per frame.
	if rl.IsKeyDown(rl.KeyA) {
		g.camera.Orbit(-2, 0, 1)
	}
	if rl.IsKeyDown(rl.KeyD) {
		g.camera.Orbit(2, 0, 1)
	}
	if rl.IsKeyDown(rl.KeyW) {
		g.camera.Orbit(0, 1, 1)
	}
	if rl.IsKeyDown(rl.KeyS) {
		g.camera.Orbit(0, -1, 1)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 && !g.controlPanelHasMouse() {
		g.camera.ZoomBy(1 - wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(1.25)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
