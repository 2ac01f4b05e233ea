// Package ui draws the heads-up display, the overlay toggles and the
// parameter panel for the fluid viewer.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme is the shared look of every panel. Sizes are in pixels.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color

	// Ratio bars use the density tint colors: blue below target, red above.
	BarBg    rl.Color
	BarUnder rl.Color
	BarOver  rl.Color

	Padding        int32
	LineHeight     int32
	LabelWidth     int32 // Column where values start
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme is a dark translucent theme that keeps the fluid visible
// behind the panels.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 14, G: 20, B: 28, A: 230},
		PanelBorder:    rl.Color{R: 55, G: 75, B: 95, A: 255},
		SectionHeader:  rl.Color{R: 140, G: 200, B: 255, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 35, G: 40, B: 48, A: 255},
		BarUnder:       rl.Color{R: 90, G: 120, B: 230, A: 255},
		BarOver:        rl.Color{R: 220, G: 90, B: 80, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     90,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
