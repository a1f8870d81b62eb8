package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/sim"
)

// Controller is the slice of the simulation control surface the panel drives.
type Controller interface {
	Param(id sim.ParamID) float64
	SetParam(id sim.ParamID, value float64)
	SetWrapMode(wrap bool)
	Count() int
	MaxCount() int
	SetCount(target int)
}

// Actions reports the buttons pressed during a frame.
type Actions struct {
	TogglePause bool
	Reset       bool
	Step        bool
}

// ControlsPanel renders the right-side parameter panel.
type ControlsPanel struct {
	renderer *Renderer
	sliders  []SliderDescriptor
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a panel with the default sliders.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		sliders:  DefaultSliders(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Height returns the panel height for its current slider set.
func (c *ControlsPanel) Height() int32 {
	t := c.renderer.Theme
	rows := int32(len(c.sliders)) + 2 // count slider, wrap checkbox
	return t.Padding*3 + t.LineHeight + rows*(t.LineHeight+t.SliderHeight) + 30
}

// Draw renders the panel and applies any changes to ctl.
func (c *ControlsPanel) Draw(ctl Controller, paused bool) Actions {
	var act Actions
	if !c.visible {
		return act
	}

	r := c.renderer
	t := r.Theme
	pad := t.Padding
	inner := float32(c.width - pad*2)
	r.DrawPanel(c.x, c.y, c.width, c.Height())

	y := r.DrawSectionHeader(c.x+pad, c.y+pad, "Flock")

	for _, sd := range c.sliders {
		value := float32(ctl.Param(sd.Param))
		r.DrawLabelValue(c.x+pad, y, sd.Label, fmt.Sprintf(sd.Format, value))
		y += t.LineHeight

		bounds := rl.Rectangle{X: float32(c.x + pad), Y: float32(y), Width: inner, Height: float32(t.SliderHeight)}
		lo, hi := sd.Range(value)
		next := gui.SliderBar(bounds, "", "", value, lo, hi)
		if next != value {
			ctl.SetParam(sd.Param, float64(next))
		}
		y += t.SliderHeight + 4
	}

	count := ctl.Count()
	r.DrawLabelValue(c.x+pad, y, "Agents", fmt.Sprintf("%d / %d", count, ctl.MaxCount()))
	y += t.LineHeight
	bounds := rl.Rectangle{X: float32(c.x + pad), Y: float32(y), Width: inner, Height: float32(t.SliderHeight)}
	next := gui.SliderBar(bounds, "", "", float32(count), 0, float32(ctl.MaxCount()))
	if target := int(next); target != count {
		ctl.SetCount(target)
	}
	y += t.SliderHeight + 8

	wrap := ctl.Param(sim.ParamWrapMode) != 0
	box := rl.Rectangle{X: float32(c.x + pad), Y: float32(y), Width: float32(t.SliderHeight), Height: float32(t.SliderHeight)}
	if checked := gui.CheckBox(box, "Wrap edges", wrap); checked != wrap {
		ctl.SetWrapMode(checked)
	}
	y += t.SliderHeight + 10

	half := (inner - 10) / 3
	label := "Pause"
	if paused {
		label = "Resume"
	}
	act.TogglePause = gui.Button(rl.Rectangle{X: float32(c.x + pad), Y: float32(y), Width: half, Height: 24}, label)
	act.Step = gui.Button(rl.Rectangle{X: float32(c.x+pad) + half + 5, Y: float32(y), Width: half, Height: 24}, "Step")
	act.Reset = gui.Button(rl.Rectangle{X: float32(c.x+pad) + 2*(half+5), Y: float32(y), Width: half, Height: 24}, "Reset")

	return act
}
