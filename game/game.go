// Package game hosts the fluid simulation: it owns the simulation, drives
// it each frame, and wires in input, rendering and telemetry.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/camera"
	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/renderer"
	"github.com/pthm-cable/sph/scene"
	"github.com/pthm-cable/sph/sim"
	"github.com/pthm-cable/sph/systems"
	"github.com/pthm-cable/sph/telemetry"
	"github.com/pthm-cable/sph/ui"
)

// Game holds the complete viewer state.
type Game struct {
	cfg  *config.Config
	opts Options

	sim        *sim.Simulation
	baseParams sim.Params
	seed       int64
	spawns     int

	// Render mirror
	scene *scene.Scene

	// State
	paused         bool
	stepOnce       bool
	pendingRespawn bool
	stepsPerUpdate int

	// Telemetry
	perfCollector    *telemetry.PerfCollector
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	lastStats        telemetry.WindowStats
	statsCallback    func(telemetry.WindowStats)

	// Live measures for the stats panel
	measures       telemetry.FluidMeasures
	measureScratch []float64
	measureOnes    []float64

	// Rendering (nil in headless mode)
	camera        *camera.Camera
	background    *renderer.BackgroundRenderer
	fluid         *renderer.FluidRenderer
	hud           *ui.HUD
	overlays      *ui.OverlayRegistry
	overlayPanel  *ui.OverlayPanel
	controlPanel  *ui.ControlPanel
	statsPanel    *ui.StatsPanel
	perfPanel     *ui.PerfPanel
	controls      ui.ControlValues
	hovered       int
	hasHover      bool
	screenWidth   float32
	screenHeight  float32
	orbitDragging bool
}

// NewGameWithOptions builds a game from the global config.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	g := &Game{
		cfg:            cfg,
		opts:           opts,
		seed:           cfg.Spawn.Seed,
		stepsPerUpdate: cfg.Physics.StepsPerFrame,
	}
	if opts.Seed != 0 {
		g.seed = opts.Seed
	}
	if opts.StepsPerUpdate > 0 {
		g.stepsPerUpdate = opts.StepsPerUpdate
	}

	g.baseParams = sim.ParamsFromConfig(cfg)
	if opts.Workers > 0 {
		g.baseParams.Workers = opts.Workers
	}

	if opts.RestorePath != "" {
		if err := g.restore(opts.RestorePath); err != nil {
			return nil, err
		}
	} else if err := g.spawn(g.baseParams); err != nil {
		return nil, err
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	g.collector = telemetry.NewCollector(statsWindow, g.baseParams.DT)
	g.collector.Reset(g.sim.Tick())
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10)
	g.sim.SetPhaseRecorder(g.perfCollector)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.sim.Close()
		return nil, fmt.Errorf("output manager: %w", err)
	}
	g.outputManager = om
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	g.scene = scene.New()
	g.scene.Reset(g.sim.Len())

	if !opts.Headless {
		g.initRendering()
	}

	slog.Info("simulation ready",
		"particles", g.sim.Len(),
		"tick", g.sim.Tick(),
		"seed", g.seed,
		"steps_per_update", g.stepsPerUpdate,
		"headless", opts.Headless,
	)
	return g, nil
}

// spawn replaces the simulation with a fresh lattice using params.
func (g *Game) spawn(params sim.Params) error {
	sc := g.cfg.Spawn
	boundary := sim.BoundaryFromConfig(g.cfg)
	rng := rand.New(rand.NewSource(g.seed + int64(g.spawns)))
	positions := systems.Lattice(sc.Count, sc.Spacing, boundary, params.ParticleRadius, sc.Jitter, rng)

	s, err := sim.New(params, boundary, positions)
	if err != nil {
		return fmt.Errorf("create simulation: %w", err)
	}
	g.replaceSim(s)
	g.spawns++
	return nil
}

// restore replaces the simulation with one loaded from a snapshot file.
func (g *Game) restore(path string) error {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	s, err := snap.Restore(g.baseParams.Workers)
	if err != nil {
		return err
	}
	g.replaceSim(s)
	slog.Info("restored snapshot", "path", path, "tick", s.Tick(), "particles", s.Len())
	return nil
}

func (g *Game) replaceSim(s *sim.Simulation) {
	if g.sim != nil {
		g.sim.Close()
	}
	g.sim = s
	if g.perfCollector != nil {
		s.SetPhaseRecorder(g.perfCollector)
	}
	if g.collector != nil {
		g.collector.Reset(s.Tick())
	}
	if g.scene != nil {
		g.scene.Reset(s.Len())
	}
	g.hasHover = false
}

// Respawn restarts from a new lattice, keeping the current parameters.
func (g *Game) Respawn() error {
	if err := g.spawn(g.sim.Params()); err != nil {
		return err
	}
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10)
	slog.Info("respawned", "particles", g.sim.Len(), "spawn", g.spawns)
	return nil
}

// ResetParams restores the configured tunables.
func (g *Game) ResetParams() {
	b := g.baseParams
	g.sim.SetTargetDensity(b.TargetDensity)
	g.sim.SetPressureMultiplier(b.PressureMultiplier)
	g.sim.SetViscosityStrength(b.ViscosityStrength)
	g.sim.SetCollisionDamping(b.CollisionDamping)
	g.sim.SetGravity(b.Gravity)
	g.sim.SetGravityEnabled(b.GravityEnabled)
	g.controls = ui.ValuesFromParams(g.sim.Params())
}

// step advances the simulation once and runs the telemetry hooks.
func (g *Game) step() {
	g.perfCollector.StartTick()
	g.sim.Step()
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordStep(g.sim.WallHits())
	g.flushTelemetry()
	g.perfCollector.EndTick()
}

// UpdateHeadless runs one update without any raylib calls.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// RunHeadless updates until the tick reaches maxTicks, or forever when
// maxTicks is not positive. An empty simulation never ticks, so it returns
// immediately.
func (g *Game) RunHeadless(maxTicks int64) {
	if g.sim.Len() == 0 {
		slog.Warn("no particles to simulate", "tick", g.sim.Tick())
		return
	}
	for maxTicks <= 0 || g.sim.Tick() < maxTicks {
		g.UpdateHeadless()
	}
}

// Update handles input and advances the simulation for one frame.
func (g *Game) Update() {
	g.handleInput()
	if g.pendingRespawn {
		g.pendingRespawn = false
		if err := g.Respawn(); err != nil {
			slog.Error("respawn failed", "error", err)
		}
	}

	switch {
	case g.stepOnce:
		g.step()
		g.stepOnce = false
	case !g.paused:
		for i := 0; i < g.stepsPerUpdate; i++ {
			g.step()
		}
	}

	g.scene.UpdateTints(g.sim.Densities(), g.sim.Params().TargetDensity)
	g.updateHover()
	if g.overlays.IsEnabled(ui.OverlayStats) {
		g.refreshMeasures()
	}
}

func (g *Game) refreshMeasures() {
	n := g.sim.Len()
	if cap(g.measureScratch) < n {
		g.measureScratch = make([]float64, n)
	}
	g.measures, g.measureScratch, g.measureOnes = telemetry.MeasureFluid(
		g.sim.Particles(), g.sim.Params().Mass, g.sim.Boundary(), g.sim.HalfExtent(),
		g.measureScratch[:n], g.measureOnes,
	)
}

// SetStatsCallback registers fn to receive every flushed stats window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Paused reports whether stepping is suspended.
func (g *Game) Paused() bool { return g.paused }

// TogglePause flips the paused state.
func (g *Game) TogglePause() { g.paused = !g.paused }

// RequestStep advances exactly one step on the next Update.
func (g *Game) RequestStep() { g.stepOnce = true }

// Sim returns the running simulation.
func (g *Game) Sim() *sim.Simulation { return g.sim }

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 { return g.sim.Tick() }

// LastStats returns the most recently flushed stats window.
func (g *Game) LastStats() telemetry.WindowStats { return g.lastStats }

// Unload releases the simulation workers and closes output files.
func (g *Game) Unload() {
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
		g.outputManager = nil
	}
	if g.sim != nil {
		g.logRunSummary()
		g.sim.Close()
	}
}

// initRendering sets up the camera, renderers and panels. Requires an open
// raylib window.
func (g *Game) initRendering() {
	cfg := g.cfg
	g.screenWidth = cfg.Derived.ScreenW32
	g.screenHeight = cfg.Derived.ScreenH32

	b := g.sim.Boundary()
	cc := cfg.Camera
	g.camera = camera.New(
		float32(b.Center.X), float32(b.Center.Y), float32(b.Center.Z),
		float32(cc.Distance), float32(cc.Yaw), float32(cc.Pitch), float32(cc.FovY),
	)
	g.camera.SetDistanceLimits(float32(cc.MinDistance), float32(cc.MaxDistance))

	g.background = renderer.NewBackgroundRenderer(int32(g.screenWidth), int32(g.screenHeight),
		rl.Color{R: 18, G: 22, B: 34, A: 255}, rl.Color{R: 6, G: 8, B: 12, A: 255})
	g.fluid = renderer.NewFluidRenderer(float32(g.sim.Params().ParticleRadius))

	g.hud = ui.NewHUD()
	g.overlays = ui.NewOverlayRegistry()
	g.controls = ui.ValuesFromParams(g.sim.Params())
	g.controlPanel = ui.NewControlPanel(int32(g.screenWidth)-290, 10, 280, g.controls)
	g.overlayPanel = ui.NewOverlayPanel(10, 100, 200)
	g.statsPanel = ui.NewStatsPanel(10, 260, 260)
	g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-290, 380)
}
