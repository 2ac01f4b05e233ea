package game

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/telemetry"
)

func newHeadlessGame(t *testing.T, opts Options) *Game {
	t.Helper()
	if err := config.Init(""); err != nil {
		t.Fatalf("config.Init: %v", err)
	}
	opts.Headless = true
	if opts.Workers == 0 {
		opts.Workers = 1
	}
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestHeadlessUpdateAdvances(t *testing.T) {
	g := newHeadlessGame(t, Options{StepsPerUpdate: 3})

	if g.Sim().Len() != config.Cfg().Spawn.Count {
		t.Fatalf("particles = %d, want %d", g.Sim().Len(), config.Cfg().Spawn.Count)
	}
	g.UpdateHeadless()
	g.UpdateHeadless()
	if g.Tick() != 6 {
		t.Errorf("Tick() = %d, want 6", g.Tick())
	}
	if g.scene.Len() != g.Sim().Len() {
		t.Errorf("scene entities = %d, want %d", g.scene.Len(), g.Sim().Len())
	}
}

func TestStatsWindowsFlush(t *testing.T) {
	dt := config.Default().Physics.DT
	g := newHeadlessGame(t, Options{StepsPerUpdate: 1, StatsWindowSec: 5 * dt})

	var windows []telemetry.WindowStats
	g.SetStatsCallback(func(s telemetry.WindowStats) { windows = append(windows, s) })

	for i := 0; i < 12; i++ {
		g.UpdateHeadless()
	}
	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}
	if windows[0].WindowEndTick != 5 || windows[1].WindowEndTick != 10 {
		t.Errorf("window ends = %d,%d want 5,10", windows[0].WindowEndTick, windows[1].WindowEndTick)
	}
	if windows[1].Particles != g.Sim().Len() {
		t.Errorf("Particles = %d, want %d", windows[1].Particles, g.Sim().Len())
	}
	if windows[1].NonFinite != 0 || windows[1].OutOfBounds != 0 {
		t.Errorf("unhealthy window: %+v", windows[1])
	}
	if g.LastStats().WindowEndTick != 10 {
		t.Errorf("LastStats end = %d, want 10", g.LastStats().WindowEndTick)
	}
}

func TestOutputDirReceivesFiles(t *testing.T) {
	dir := t.TempDir()
	dt := config.Default().Physics.DT
	g := newHeadlessGame(t, Options{StepsPerUpdate: 1, StatsWindowSec: 2 * dt, OutputDir: dir})

	for i := 0; i < 4; i++ {
		g.UpdateHeadless()
	}
	g.Unload()

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("telemetry.csv has %d lines, want header plus 2 rows", len(lines))
	}
}

func TestRespawnKeepsParamsAndResetsTick(t *testing.T) {
	g := newHeadlessGame(t, Options{StepsPerUpdate: 2})
	g.UpdateHeadless()
	g.Sim().SetPressureMultiplier(17)
	before := g.Sim().Positions()[0]

	if err := g.Respawn(); err != nil {
		t.Fatal(err)
	}
	if g.Tick() != 0 {
		t.Errorf("Tick() after respawn = %d, want 0", g.Tick())
	}
	if got := g.Sim().Params().PressureMultiplier; got != 17 {
		t.Errorf("PressureMultiplier = %v, want 17", got)
	}
	if g.Sim().Positions()[0] == before {
		t.Error("respawn should lay out a new lattice")
	}

	g.ResetParams()
	if got := g.Sim().Params().PressureMultiplier; got != config.Cfg().Fluid.PressureMultiplier {
		t.Errorf("PressureMultiplier after reset = %v, want %v", got, config.Cfg().Fluid.PressureMultiplier)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	g := newHeadlessGame(t, Options{StepsPerUpdate: 3, SnapshotDir: dir})
	g.UpdateHeadless()
	g.saveSnapshot(nil)

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("snapshot dir entries = %v, err %v", entries, err)
	}
	path := filepath.Join(dir, entries[0].Name())

	restored := newHeadlessGame(t, Options{StepsPerUpdate: 1, RestorePath: path})
	if restored.Tick() != 3 {
		t.Errorf("restored tick = %d, want 3", restored.Tick())
	}

	g.UpdateHeadless()
	for i := 0; i < 3; i++ {
		restored.UpdateHeadless()
	}
	a, b := g.Sim().Positions(), restored.Sim().Positions()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("particle %d diverged: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestPauseAndSingleStep(t *testing.T) {
	g := newHeadlessGame(t, Options{})
	g.TogglePause()
	if !g.Paused() {
		t.Fatal("expected paused")
	}
	g.RequestStep()
	if !g.stepOnce {
		t.Error("RequestStep should queue one step")
	}
}

func TestPickParticle(t *testing.T) {
	positions := []r3.Vec{
		{X: 0, Y: 0, Z: -5},
		{X: 0, Y: 0, Z: -2},
		{X: 1, Y: 0, Z: -1},
		{X: 0, Y: 0, Z: 3},
	}
	origin := r3.Vec{}
	dir := r3.Vec{Z: -2}

	got, ok := PickParticle(origin, dir, positions, 0.1)
	if !ok || got != 1 {
		t.Errorf("PickParticle = %d,%v want 1,true", got, ok)
	}

	if _, ok := PickParticle(origin, r3.Vec{Y: 1}, positions, 0.1); ok {
		t.Error("ray missing every sphere should report false")
	}
	if _, ok := PickParticle(origin, r3.Vec{}, positions, 0.1); ok {
		t.Error("zero direction should report false")
	}
	// Grazing hit: the ray passes within the radius of particle 2.
	got, ok = PickParticle(r3.Vec{X: 0.95, Y: 0, Z: 5}, r3.Vec{Z: -1}, positions, 0.1)
	if !ok || got != 2 {
		t.Errorf("grazing PickParticle = %d,%v want 2,true", got, ok)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn", "json")
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "hidden") {
		t.Error("info should be filtered at warn level")
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("not JSON: %q", out)
	}
	if rec["msg"] != "shown" {
		t.Errorf("msg = %v", rec["msg"])
	}

	if _, err := NewLogger(&buf, "loud", "json"); err == nil {
		t.Error("bad level should fail")
	}
	if _, err := NewLogger(&buf, "info", "xml"); err == nil {
		t.Error("bad format should fail")
	}
	if _, err := NewLogger(&buf, "debug", "text"); err != nil {
		t.Errorf("text format: %v", err)
	}
}

func TestRunHeadlessStopsAtMaxTicks(t *testing.T) {
	g := newHeadlessGame(t, Options{StepsPerUpdate: 4})

	g.RunHeadless(10)
	// Updates step in batches, so the last one may overshoot.
	if g.Tick() < 10 || g.Tick() >= 14 {
		t.Errorf("Tick() = %d, want in [10, 14)", g.Tick())
	}
}

func TestRunHeadlessEmptySpawnReturns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("spawn:\n  count: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := config.Init(path); err != nil {
		t.Fatalf("config.Init: %v", err)
	}
	t.Cleanup(func() { config.MustInit("") })

	g, err := NewGameWithOptions(Options{Headless: true, Workers: 1, StepsPerUpdate: 1})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	defer g.Unload()

	if g.Sim().Len() != 0 {
		t.Fatalf("particles = %d, want 0", g.Sim().Len())
	}
	g.UpdateHeadless()
	if g.Tick() != 0 {
		t.Errorf("Tick() after UpdateHeadless = %d, want 0", g.Tick())
	}

	done := make(chan struct{})
	go func() {
		g.RunHeadless(10)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("RunHeadless did not return for an empty simulation")
	}
	if g.Tick() != 0 {
		t.Errorf("Tick() = %d, want 0", g.Tick())
	}
}
