package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/camera"
	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/palette"
)

// AgentRenderer draws agents as a circle plus a heading stroke.
type AgentRenderer struct {
	Palette palette.Speed

	// SizeScale converts an agent's size to a world-space radius.
	SizeScale float64
	// Arrows toggles the heading stroke.
	Arrows bool
}

// NewAgentRenderer creates a renderer coloured over [minSpeed, maxSpeed].
func NewAgentRenderer(minSpeed, maxSpeed float64) *AgentRenderer {
	return &AgentRenderer{
		Palette:   palette.NewSpeed(minSpeed, maxSpeed),
		SizeScale: 0.12,
		Arrows:    true,
	}
}

// Draw renders every visible agent in the snapshot.
func (r *AgentRenderer) Draw(cam *camera.Camera, agents []components.Agent) {
	for i := range agents {
		a := &agents[i]
		radius := a.Size * r.SizeScale
		if !cam.IsVisible(a.X, a.Y, radius) {
			continue
		}

		sx, sy := cam.WorldToScreen(a.X, a.Y)
		px := max(cam.Scale(radius), 1)
		speed := a.Speed()
		cr, cg, cb := r.Palette.RGB(speed)
		color := rl.Color{R: cr, G: cg, B: cb, A: 255}

		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, px, color)

		if r.Arrows && speed > 0 {
			// Stroke length scales with radius, not speed
			ux := float32(a.VX/speed) * px * 2.5
			uy := float32(a.VY/speed) * px * 2.5
			rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: sx + ux, Y: sy + uy}, color)
		}
	}
}
