package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/camera"
	"github.com/pthm-cable/flock/systems"
)

// BackgroundRenderer draws the world rectangle and, optionally, the spatial hash cells.
type BackgroundRenderer struct {
	Fill   rl.Color
	Border rl.Color
	Grid   rl.Color

	ShowGrid bool
}

// NewBackgroundRenderer creates a background renderer with the default colours.
func NewBackgroundRenderer() *BackgroundRenderer {
	return &BackgroundRenderer{
		Fill:   rl.Color{R: 14, G: 18, B: 26, A: 255},
		Border: rl.Color{R: 60, G: 70, B: 80, A: 255},
		Grid:   rl.Color{R: 30, G: 36, B: 46, A: 255},
	}
}

// Draw renders the world bounds in bounce mode or a borderless field in wrap mode.
func (b *BackgroundRenderer) Draw(cam *camera.Camera, gp systems.GridParams) {
	w := cam.World
	x0, y0 := cam.WorldToScreen(w.MinX, w.MinY)
	if cam.Wrap {
		// The seam can sit anywhere on screen; fill the whole viewport
		x0, y0 = cam.OffsetX, cam.OffsetY
		rl.DrawRectangleV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: cam.ViewportW, Y: cam.ViewportH}, b.Fill)
	} else {
		size := rl.Vector2{X: cam.Scale(w.Width), Y: cam.Scale(w.Height)}
		rl.DrawRectangleV(rl.Vector2{X: x0, Y: y0}, size, b.Fill)
		rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: size.X, Height: size.Y}, 1, b.Border)
	}

	if !b.ShowGrid || cam.Scale(gp.CellSize) < 4 {
		return
	}
	for cx := 0; cx <= gp.NumCellsX; cx++ {
		x := min(w.MinX+float64(cx)*gp.CellSize, w.MaxX())
		top, bottom := b.project(cam, x, w.MinY), b.project(cam, x, w.MaxY())
		rl.DrawLineV(top, bottom, b.Grid)
	}
	for cy := 0; cy <= gp.NumCellsY; cy++ {
		y := min(w.MinY+float64(cy)*gp.CellSize, w.MaxY())
		left, right := b.project(cam, w.MinX, y), b.project(cam, w.MaxX(), y)
		rl.DrawLineV(left, right, b.Grid)
	}
}

// project maps a world point without toroidal folding so grid lines stay straight.
func (b *BackgroundRenderer) project(cam *camera.Camera, x, y float64) rl.Vector2 {
	wrap := cam.Wrap
	cam.Wrap = false
	sx, sy := cam.WorldToScreen(x, y)
	cam.Wrap = wrap
	return rl.Vector2{X: sx, Y: sy}
}
