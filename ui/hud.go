package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Particles int
	Tick      int64
	SimTime   float64
	FPS       int32
	Paused    bool
	WallHits  int
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Particles: %d | Wall hits: %d", data.Particles, data.WallHits),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Time: %.2fs | FPS: %d", data.Tick, data.SimTime, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// StatsPanel renders the latest fluid measures.
type StatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewStatsPanel creates a new fluid stats panel.
func NewStatsPanel(x, y, width int32) *StatsPanel {
	return &StatsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (s *StatsPanel) SetPosition(x, y int32) {
	s.x = x
	s.y = y
}

// Draw renders m against the target density.
func (s *StatsPanel) Draw(m telemetry.FluidMeasures, targetDensity float64) {
	r := s.renderer
	padding := r.Theme.Padding
	inner := s.width - padding*2
	r.DrawPanel(s.x, s.y, s.width, r.Theme.LineHeight*9+padding*2+4)

	x := s.x + padding
	y := s.y + padding
	y = r.DrawSectionHeader(x, y, "Fluid")

	var ratio float32
	if targetDensity > 0 {
		ratio = float32(m.DensityMean / targetDensity)
	}
	y = r.DrawRatioBar(x, y, "Mean/target", ratio, inner)
	y = r.DrawLabelValue(x, y, "Density", fmt.Sprintf("%.1f +/- %.1f", m.DensityMean, m.DensityStd))
	y = r.DrawLabelValue(x, y, "P10/50/90", fmt.Sprintf("%.0f / %.0f / %.0f", m.DensityP10, m.DensityP50, m.DensityP90))
	y = r.DrawLabelValue(x, y, "Near", fmt.Sprintf("%.1f", m.NearDensityMean))
	y = r.DrawLabelValue(x, y, "Max speed", fmt.Sprintf("%.3f", m.MaxSpeed))
	y = r.DrawLabelValue(x, y, "Kinetic", fmt.Sprintf("%.4g", m.KineticEnergy))
	y = r.DrawLabelValue(x, y, "Momentum", fmt.Sprintf("%.2f %.2f %.2f", m.Momentum.X, m.Momentum.Y, m.Momentum.Z))

	if m.OutOfBounds > 0 || m.NonFinite > 0 {
		rl.DrawText(fmt.Sprintf("escaped %d | non-finite %d", m.OutOfBounds, m.NonFinite), x, y, r.Theme.FontSize, rl.Red)
	}
}

// PerfPanel renders the per-phase step timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Step Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s | %.0f steps/s", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range telemetry.PhaseOrder() {
		avg, ok := stats.PhaseAvg[phase]
		if !ok {
			continue
		}
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-14s %8s %5.1f%%", telemetry.PhaseName(phase), avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
