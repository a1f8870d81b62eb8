package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title  string
	Count  int
	Tick   int64
	Speed  int // steps per frame
	FPS    int32
	Paused bool
	Wrap   bool
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

	mode := "wrap"
	if !data.Wrap {
		mode = "bounce"
	}
	rl.DrawText(
		fmt.Sprintf("Agents: %d | Tick: %d | Speed: %dx | FPS: %d | Edges: %s", data.Count, data.Tick, data.Speed, data.FPS, mode),
		10, 35, 16, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 55, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, overlays *OverlayRegistry) {
	legend := "[Space] pause  [Right] step  [R] reset  [+/-] speed  [C] panel"
	for _, desc := range overlays.All() {
		legend += fmt.Sprintf("  [%s] %s", desc.KeyLabel, desc.Name)
	}
	rl.DrawText(legend, 10, screenHeight-25, 14, rl.Gray)
}

// StatsPanel renders the latest telemetry window.
type StatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewStatsPanel creates a new stats panel.
func NewStatsPanel(x, y, width int32) *StatsPanel {
	return &StatsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Draw renders the panel and returns the Y below it.
func (s *StatsPanel) Draw(stats telemetry.WindowStats) int32 {
	r := s.renderer
	pad := r.Theme.Padding
	r.DrawPanel(s.x, s.y, s.width, r.Theme.LineHeight*7+pad*2)

	x := s.x + pad
	y := r.DrawSectionHeader(x, s.y+pad, "Flock Stats")
	y = r.DrawLabelValue(x, y, "Window end", fmt.Sprintf("%d", stats.WindowEndTick))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%.2f ± %.2f", stats.SpeedMean, stats.SpeedStd))
	y = r.DrawLabelValue(x, y, "P10/P90", fmt.Sprintf("%.2f / %.2f", stats.SpeedP10, stats.SpeedP90))
	y = r.DrawLabelValue(x, y, "Neighbors", fmt.Sprintf("%.2f", stats.NeighborMean))
	y = r.DrawLabelValue(x, y, "Polarization", fmt.Sprintf("%.3f", stats.Polarization))
	y = r.DrawLabelValue(x, y, "Lone steps", fmt.Sprintf("%d", stats.LoneSteps))
	return y + pad
}

// PerfPanel renders step timing per phase.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	pad := r.Theme.Padding
	phases := telemetry.Phases()
	r.DrawPanel(p.x, p.y, p.width, r.Theme.LineHeight*int32(len(phases)+3)+pad*2)

	x := p.x + pad
	y := r.DrawSectionHeader(x, p.y+pad, "Performance")
	y = r.DrawLabelValue(x, y, "Tick", stats.AvgTickDuration.String())
	y = r.DrawLabelValue(x, y, "Ticks/s", fmt.Sprintf("%.0f", stats.TicksPerSecond))

	for _, ph := range phases {
		pct := stats.PhasePct[ph]
		color := r.Theme.ValueColor
		if pct > 50 {
			color = r.Theme.WarnColor
		}
		y = r.DrawLabelValueColor(x, y, ph.String(), fmt.Sprintf("%5.1f%%", pct), color)
	}
}
