// Package ui draws the viewer's panels and parameter controls.
// Controls are described by descriptors so the panel layout follows the
// parameter set instead of hard-coding each slider.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/sim"
)

// SliderDescriptor defines one parameter slider.
type SliderDescriptor struct {
	Param  sim.ParamID
	Label  string
	Min    float32
	Max    float32
	Format string // Printf format for the value readout
}

// DefaultSliders returns a slider for every numeric flocking parameter.
func DefaultSliders() []SliderDescriptor {
	return []SliderDescriptor{
		{Param: sim.ParamMaxVelocity, Label: "Max speed", Min: 0.1, Max: 5, Format: "%.2f"},
		{Param: sim.ParamMinVelocity, Label: "Min speed", Min: 0, Max: 2, Format: "%.2f"},
		{Param: sim.ParamRangeOfView, Label: "View range", Min: 1, Max: 20, Format: "%.1f"},
		{Param: sim.ParamStrength, Label: "Strength", Min: 0, Max: 1, Format: "%.2f"},
		{Param: sim.ParamRepulsionFactor, Label: "Repulsion", Min: 0, Max: 0.3, Format: "%.3f"},
		{Param: sim.ParamRandomFactor, Label: "Jitter", Min: 0, Max: 1, Format: "%.2f"},
		{Param: sim.ParamSlowFactor, Label: "Slowdown", Min: 0, Max: 2, Format: "%.2f"},
		{Param: sim.ParamConfusionFactor, Label: "Confusion", Min: 0, Max: 1, Format: "%.2f"},
		{Param: sim.ParamDistanceFactor, Label: "Distance", Min: 0, Max: 0.5, Format: "%.3f"},
		{Param: sim.ParamDefaultSize, Label: "Size", Min: 1, Max: 20, Format: "%.1f"},
	}
}

// Range returns the slider span, widened to include value so a configured
// setting outside the default span is shown as is instead of clamped.
func (sd SliderDescriptor) Range(value float32) (lo, hi float32) {
	return min(sd.Min, value), max(sd.Max, value)
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	WarnColor      rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	SliderHeight   int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		WarnColor:      rl.Red,
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     80,
		SliderHeight:   14,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
