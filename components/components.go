// Package components defines the value types shared by the flocking systems.
package components

import "math"

// Agent is one row of the agent arena, copied out by value.
type Agent struct {
	X, Y   float64
	VX, VY float64
	Size   float64
}

// Speed returns the magnitude of the agent's velocity.
func (a Agent) Speed() float64 {
	return math.Sqrt(a.VX*a.VX + a.VY*a.VY)
}

// Params is the shared parameter set read by every agent during a step.
// It is passed by value so a step works on a stable copy.
type Params struct {
	MaxVelocity     float64 `json:"maxVelocity"`
	MinVelocity     float64 `json:"minVelocity"`
	RangeOfView     float64 `json:"rangeOfView"`
	Strength        float64 `json:"strength"` // alignment/cohesion steering fraction
	RepulsionFactor float64 `json:"repulsionFactor"`
	RandomFactor    float64 `json:"randomFactor"`    // jitter span per axis
	SlowFactor      float64 `json:"slowFactor"`      // speed lost per step when alone
	ConfusionFactor float64 `json:"confusionFactor"` // density damping
	DistanceFactor  float64 `json:"distanceFactor"`  // cohesion attenuation by centroid distance
	DefaultSize     float64 `json:"defaultSize"`
	WrapMode        bool    `json:"wrapMode"` // true = toroidal wrap, false = bounce
}

// DefaultParams returns the reference parameter set.
func DefaultParams() Params {
	return Params{
		MaxVelocity:     1.5,
		MinVelocity:     0.5,
		RangeOfView:     3.0,
		Strength:        0.15,
		RepulsionFactor: 0.03,
		RandomFactor:    0.25,
		SlowFactor:      1.0,
		ConfusionFactor: 0.20,
		DistanceFactor:  0.05,
		DefaultSize:     7.0,
		WrapMode:        true,
	}
}

// SpeedFloor is the lowest post-normalize speed for a moving agent.
func (p Params) SpeedFloor() float64 {
	return p.MinVelocity * 0.8
}
