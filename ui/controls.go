package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/sim"
)

// ControlValues mirrors the tunable simulation parameters as slider values.
type ControlValues struct {
	TargetDensity      float32
	PressureMultiplier float32
	ViscosityStrength  float32
	CollisionDamping   float32
	Gravity            float32
	GravityEnabled     bool
}

// ValuesFromParams reads the tunable subset of p.
func ValuesFromParams(p sim.Params) ControlValues {
	return ControlValues{
		TargetDensity:      float32(p.TargetDensity),
		PressureMultiplier: float32(p.PressureMultiplier),
		ViscosityStrength:  float32(p.ViscosityStrength),
		CollisionDamping:   float32(p.CollisionDamping),
		Gravity:            float32(p.Gravity),
		GravityEnabled:     p.GravityEnabled,
	}
}

// ApplyControls pushes every value that differs between prev and next
// into t. It reports whether anything changed.
func ApplyControls(t sim.Tunable, prev, next ControlValues) bool {
	changed := false
	if next.TargetDensity != prev.TargetDensity {
		t.SetTargetDensity(float64(next.TargetDensity))
		changed = true
	}
	if next.PressureMultiplier != prev.PressureMultiplier {
		t.SetPressureMultiplier(float64(next.PressureMultiplier))
		changed = true
	}
	if next.ViscosityStrength != prev.ViscosityStrength {
		t.SetViscosityStrength(float64(next.ViscosityStrength))
		changed = true
	}
	if next.CollisionDamping != prev.CollisionDamping {
		t.SetCollisionDamping(float64(next.CollisionDamping))
		changed = true
	}
	if next.Gravity != prev.Gravity {
		t.SetGravity(float64(next.Gravity))
		changed = true
	}
	if next.GravityEnabled != prev.GravityEnabled {
		t.SetGravityEnabled(next.GravityEnabled)
		changed = true
	}
	return changed
}

// SliderRange bounds one slider.
type SliderRange struct {
	Min, Max float32
}

// ControlRanges holds the slider bounds for every tunable.
type ControlRanges struct {
	TargetDensity      SliderRange
	PressureMultiplier SliderRange
	ViscosityStrength  SliderRange
	CollisionDamping   SliderRange
	Gravity            SliderRange
}

// RangesFor derives slider bounds from the starting values so the
// defaults sit a quarter of the way along each slider.
func RangesFor(v ControlValues) ControlRanges {
	upper := func(x, floor float32) float32 {
		return float32(math.Max(float64(4*x), float64(floor)))
	}
	return ControlRanges{
		TargetDensity:      SliderRange{0, upper(v.TargetDensity, 10)},
		PressureMultiplier: SliderRange{0, upper(v.PressureMultiplier, 10)},
		ViscosityStrength:  SliderRange{0, upper(v.ViscosityStrength, 0.5)},
		CollisionDamping:   SliderRange{0, 1},
		Gravity:            SliderRange{0, upper(v.Gravity, 20)},
	}
}

// ControlActions reports buttons pressed during a frame.
type ControlActions struct {
	Reset   bool
	Respawn bool
}

// ControlPanel renders the live parameter sliders.
type ControlPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	ranges   ControlRanges
}

// NewControlPanel creates a panel whose slider ranges fit initial.
func NewControlPanel(x, y, width int32, initial ControlValues) *ControlPanel {
	return &ControlPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		ranges:   RangesFor(initial),
	}
}

// SetPosition updates the panel position.
func (c *ControlPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Contains reports whether a screen point lies over the panel, so the
// caller can keep mouse drags from orbiting the camera.
func (c *ControlPanel) Contains(px, py float32) bool {
	return px >= float32(c.x) && px <= float32(c.x+c.width) &&
		py >= float32(c.y) && py <= float32(c.y+c.height())
}

func (c *ControlPanel) height() int32 {
	const sliders = 5
	return c.renderer.Theme.Padding*2 + 24 + sliders*36 + 2*34
}

// Draw renders the sliders and returns the edited values.
func (c *ControlPanel) Draw(v ControlValues) (ControlValues, ControlActions) {
	r := c.renderer
	padding := r.Theme.Padding
	r.DrawPanel(c.x, c.y, c.width, c.height())

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	sliderW := float32(c.width - padding*2 - 60)

	rl.DrawText("Parameters", int32(x), int32(y), 16, rl.White)
	y += 24

	slider := func(label string, value float32, rng SliderRange, format string) float32 {
		rl.DrawText(label, int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
		y += 14
		out := gui.SliderBar(
			rl.Rectangle{X: x, Y: y, Width: sliderW, Height: 16},
			"", "",
			value, rng.Min, rng.Max,
		)
		rl.DrawText(fmt.Sprintf(format, out), int32(x+sliderW+8), int32(y+2), r.Theme.FontSize, r.Theme.ValueColor)
		y += 22
		return out
	}

	v.TargetDensity = slider("Target density", v.TargetDensity, c.ranges.TargetDensity, "%.1f")
	v.PressureMultiplier = slider("Pressure multiplier", v.PressureMultiplier, c.ranges.PressureMultiplier, "%.2f")
	v.ViscosityStrength = slider("Viscosity", v.ViscosityStrength, c.ranges.ViscosityStrength, "%.3f")
	v.CollisionDamping = slider("Wall damping", v.CollisionDamping, c.ranges.CollisionDamping, "%.2f")
	v.Gravity = slider("Gravity", v.Gravity, c.ranges.Gravity, "%.2f")

	var actions ControlActions
	half := (float32(c.width) - float32(padding)*3) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 26}, toggleText(v.GravityEnabled, "Gravity: on", "Gravity: off")) {
		v.GravityEnabled = !v.GravityEnabled
	}
	if gui.Button(rl.Rectangle{X: x + half + float32(padding), Y: y, Width: half, Height: 26}, "Reset params") {
		actions.Reset = true
	}
	y += 34
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 26}, "Respawn") {
		actions.Respawn = true
	}

	return v, actions
}

// OverlayPanel lists overlay toggles with their key bindings.
type OverlayPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewOverlayPanel creates a new overlay legend panel.
func NewOverlayPanel(x, y, width int32) *OverlayPanel {
	return &OverlayPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (o *OverlayPanel) SetPosition(x, y int32) {
	o.x = x
	o.y = y
}

// Draw renders the overlay list and returns the Y below the panel.
func (o *OverlayPanel) Draw(overlays *OverlayRegistry) int32 {
	r := o.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	rows := len(overlays.All()) + len(categories)
	panelHeight := int32(rows)*lineHeight + padding*3 + lineHeight

	r.DrawPanel(o.x, o.y, o.width, panelHeight)

	y := o.y + padding
	rl.DrawText("Overlays", o.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		y = r.DrawSectionHeader(o.x+padding, y, categoryLabel(category))
		for _, desc := range overlays.ByCategory(category) {
			o.drawToggle(o.x+padding, y, desc, overlays.IsEnabled(desc.ID), o.width-padding*2)
			y += lineHeight
		}
	}
	return o.y + panelHeight
}

func (o *OverlayPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := o.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	nameColor := r.Theme.LabelColor
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
		nameColor = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

func categoryLabel(cat string) string {
	switch cat {
	case "visual":
		return "Visual"
	case "panels":
		return "Panels"
	default:
		return cat
	}
}

func toggleText(state bool, on, off string) string {
	if state {
		return on
	}
	return off
}
