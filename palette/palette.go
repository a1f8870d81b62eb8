// Package palette maps agent speed onto a colour ramp shared by the viewers.
package palette

import colorful "github.com/lucasb-eyer/go-colorful"

// Speed blends from Slow to Fast over [MinSpeed, MaxSpeed].
type Speed struct {
	Slow, Fast colorful.Color
	MinSpeed   float64
	MaxSpeed   float64
}

// NewSpeed creates the default blue-to-orange ramp over [minSpeed, maxSpeed].
func NewSpeed(minSpeed, maxSpeed float64) Speed {
	slow, _ := colorful.Hex("#3b6fd4")
	fast, _ := colorful.Hex("#f2a33a")
	return Speed{Slow: slow, Fast: fast, MinSpeed: minSpeed, MaxSpeed: maxSpeed}
}

// T returns the ramp position of speed in [0, 1].
func (p Speed) T(speed float64) float64 {
	span := p.MaxSpeed - p.MinSpeed
	if span <= 0 {
		return 1
	}
	t := (speed - p.MinSpeed) / span
	return max(0, min(t, 1))
}

// Color blends in HCL space so mid speeds stay saturated.
func (p Speed) Color(speed float64) colorful.Color {
	return p.Slow.BlendHcl(p.Fast, p.T(speed)).Clamped()
}

// RGB returns Color as 8-bit channels.
func (p Speed) RGB(speed float64) (r, g, b uint8) {
	return p.Color(speed).RGB255()
}
