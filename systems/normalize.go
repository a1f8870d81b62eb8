package systems

import (
	"math"
	"math/rand"
)

// ClampSpeed bounds the speed of (vx, vy) to [minVelocity*0.8, maxVelocity].
// A zero velocity is returned unchanged.
func ClampSpeed(vx, vy, minVelocity, maxVelocity float64) (float64, float64) {
	velSq := vx*vx + vy*vy
	floor := minVelocity * 0.8

	if velSq > maxVelocity*maxVelocity {
		return rescale(vx, vy, math.Sqrt(velSq), maxVelocity)
	}
	if velSq < floor*floor && velSq > 0 {
		return rescale(vx, vy, math.Sqrt(velSq), floor)
	}
	return vx, vy
}

// Jitter returns a uniform sample in [-randomFactor/2, randomFactor/2].
// It is added after ClampSpeed, so final speeds may exceed the ceiling slightly.
func Jitter(rng *rand.Rand, randomFactor float64) float64 {
	if randomFactor == 0 {
		return 0
	}
	return (rng.Float64() - 0.5) * randomFactor
}
