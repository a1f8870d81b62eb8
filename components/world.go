package components

// World is the fixed axis-aligned rectangle agents live in.
// MinX/MinY is the canonical origin offset; the reference world spans [-100, 100].
type World struct {
	MinX, MinY    float64
	Width, Height float64
}

// DefaultWorld returns the 200x200 reference world centered on the origin.
func DefaultWorld() World {
	return World{MinX: -100, MinY: -100, Width: 200, Height: 200}
}

// MaxX returns the upper x bound.
func (w World) MaxX() float64 { return w.MinX + w.Width }

// MaxY returns the upper y bound.
func (w World) MaxY() float64 { return w.MinY + w.Height }

// Contains reports whether (x, y) lies inside the world, bounds inclusive.
func (w World) Contains(x, y float64) bool {
	return x >= w.MinX && x <= w.MaxX() && y >= w.MinY && y <= w.MaxY()
}

// Center returns the midpoint of the world.
func (w World) Center() (x, y float64) {
	return w.MinX + w.Width/2, w.MinY + w.Height/2
}
