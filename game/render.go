package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/ui"
)

// Panel layout
const (
	panelWidth = int32(260)
	statsWidth = int32(220)
)

// Draw renders the frame.
func (g *Game) Draw() {
	g.sim.Perf().RecordFrame()

	p := g.sim.Params()
	g.camera.Wrap = p.WrapMode
	g.agentRenderer.Arrows = g.overlays.IsEnabled(ui.OverlayHeadings)
	g.backgroundRenderer.ShowGrid = g.overlays.IsEnabled(ui.OverlayGrid)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.backgroundRenderer.Draw(g.camera, g.sim.GridParams())
	g.agentRenderer.Draw(g.camera, g.agents)

	g.hud.Draw(ui.HUDData{
		Title:  "Flock",
		Count:  g.sim.Count(),
		Tick:   g.sim.Tick(),
		Speed:  g.stepsPerUpdate,
		FPS:    rl.GetFPS(),
		Paused: g.paused,
		Wrap:   p.WrapMode,
	})

	y := int32(80)
	if g.overlays.IsEnabled(ui.OverlayStats) {
		y = g.statsPanel.Draw(g.lastStats) + 10
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.SetPosition(10, y)
		g.perfPanel.Draw(g.sim.Perf().Stats())
	}

	act := g.controls.Draw(g.sim, g.paused)
	g.applyActions(act)

	g.hud.DrawControls(int32(g.screenHeight), g.overlays)

	rl.EndDrawing()
}

// applyActions runs the buttons pressed on the controls panel.
func (g *Game) applyActions(act ui.Actions) {
	if act.TogglePause {
		g.paused = !g.paused
	}
	if act.Step && g.paused {
		g.sim.Step()
	}
	if act.Reset {
		g.sim.Reset()
	}
}
