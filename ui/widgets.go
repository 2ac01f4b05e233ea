package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawRatioBar draws a bar for a ratio around 1, such as density over
// target. The fill saturates at 2 and turns red above 1.
func (r *Renderer) DrawRatioBar(x, y int32, label string, ratio float32, width int32) int32 {
	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	fill := BarFill(ratio/2, barWidth)
	color := r.Theme.BarUnder
	if ratio > 1 {
		color = r.Theme.BarOver
	}
	rl.DrawRectangle(barX, y+2, fill, r.Theme.BarHeight, color)

	mid := barX + barWidth/2
	rl.DrawLine(mid, y+2, mid, y+2+r.Theme.BarHeight, rl.White)

	rl.DrawText(fmt.Sprintf("%.2f", ratio), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}

// BarFill returns the filled width for a [0, 1] value, clamping outside
// values and treating NaN as empty.
func BarFill(value float32, width int32) int32 {
	if !(value > 0) {
		return 0
	}
	if value > 1 {
		value = 1
	}
	return int32(float32(width) * value)
}
