// Package camera maps world coordinates to the viewer's screen.
package camera

import (
	"math"

	"github.com/pthm-cable/flock/components"
)

// Camera controls the viewport into the world.
// In wrap mode panning and projection are toroidal; in bounce mode the
// centre stays inside the world rectangle.
type Camera struct {
	// Centre of the view in world coordinates
	X, Y float64

	// Zoom in pixels per world unit
	Zoom float32

	// Viewport rectangle on screen
	OffsetX, OffsetY     float32
	ViewportW, ViewportH float32

	World components.World
	Wrap  bool

	MinZoom, MaxZoom float32
}

// New creates a camera that fits the whole world into the viewport.
func New(viewportW, viewportH float32, world components.World) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		World:     world,
		Wrap:      true,
	}
	c.updateZoomLimits()
	c.Reset()
	return c
}

// FitZoom returns the zoom at which the world exactly fits the limiting viewport dimension.
func (c *Camera) FitZoom() float32 {
	zx := c.ViewportW / float32(c.World.Width)
	zy := c.ViewportH / float32(c.World.Height)
	return min(zx, zy)
}

func (c *Camera) updateZoomLimits() {
	fit := c.FitZoom()
	c.MinZoom = fit
	c.MaxZoom = fit * 8
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float32) {
	dx, dy := c.delta(wx, wy)
	sx = c.OffsetX + c.ViewportW/2 + float32(dx)*c.Zoom
	sy = c.OffsetY + c.ViewportH/2 + float32(dy)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float64) {
	dx := float64((sx - c.OffsetX - c.ViewportW/2) / c.Zoom)
	dy := float64((sy - c.OffsetY - c.ViewportH/2) / c.Zoom)

	wx, wy = c.X+dx, c.Y+dy
	if c.Wrap {
		wx = wrap(wx, c.World.MinX, c.World.Width)
		wy = wrap(wy, c.World.MinY, c.World.Height)
	}
	return wx, wy
}

// Scale converts a world length to pixels.
func (c *Camera) Scale(length float64) float32 {
	return float32(length) * c.Zoom
}

// IsVisible reports whether a circle at (wx, wy) could be on screen.
func (c *Camera) IsVisible(wx, wy, radius float64) bool {
	dx, dy := c.delta(wx, wy)
	halfW := float64(c.ViewportW/(2*c.Zoom)) + radius
	halfH := float64(c.ViewportH/(2*c.Zoom)) + radius
	return math.Abs(dx) <= halfW && math.Abs(dy) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom limits.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.updateZoomLimits()
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += float64(dx / c.Zoom)
	c.Y += float64(dy / c.Zoom)

	w := c.World
	if c.Wrap {
		c.X = wrap(c.X, w.MinX, w.Width)
		c.Y = wrap(c.Y, w.MinY, w.Height)
		return
	}
	c.X = math.Max(w.MinX, math.Min(c.X, w.MaxX()))
	c.Y = math.Max(w.MinY, math.Min(c.Y, w.MaxY()))
}

// SetZoom sets the zoom level, clamped to the limits.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = max(c.MinZoom, min(zoom, c.MaxZoom))
}

// ZoomBy multiplies the current zoom by factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centres the camera on the world at fit zoom.
func (c *Camera) Reset() {
	c.X, c.Y = c.World.Center()
	c.Zoom = c.FitZoom()
}

// delta returns the offset of (wx, wy) from the camera centre,
// taking the shorter way round in wrap mode.
func (c *Camera) delta(wx, wy float64) (dx, dy float64) {
	dx = wx - c.X
	dy = wy - c.Y
	if !c.Wrap {
		return dx, dy
	}
	w, h := c.World.Width, c.World.Height
	if dx > w/2 {
		dx -= w
	} else if dx < -w/2 {
		dx += w
	}
	if dy > h/2 {
		dy -= h
	} else if dy < -h/2 {
		dy += h
	}
	return dx, dy
}

// wrap maps v into [lo, lo+size).
func wrap(v, lo, size float64) float64 {
	r := math.Mod(v-lo, size)
	if r < 0 {
		r += size
	}
	return lo + r
}
