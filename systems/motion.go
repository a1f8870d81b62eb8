package systems

import "github.com/pthm-cable/flock/components"

// BoundaryEvents counts boundary interactions during one integration pass.
type BoundaryEvents struct {
	Wraps   int
	Bounces int
}

// Add accumulates other into e.
func (e *BoundaryEvents) Add(other BoundaryEvents) {
	e.Wraps += other.Wraps
	e.Bounces += other.Bounces
}

// Integrate advances positions by one unit step and applies the boundary policy.
// Wrap moves an agent past an edge to the opposite edge and leaves velocity alone;
// bounce clamps it to the edge and negates that velocity component.
func Integrate(xs, ys, vxs, vys []float64, world components.World, wrap bool) BoundaryEvents {
	var ev BoundaryEvents
	minX, maxX := world.MinX, world.MaxX()
	minY, maxY := world.MinY, world.MaxY()

	for i := range xs {
		xs[i] += vxs[i]
		ys[i] += vys[i]

		if wrap {
			ev.Wraps += wrapAxis(&xs[i], minX, maxX)
			ev.Wraps += wrapAxis(&ys[i], minY, maxY)
		} else {
			ev.Bounces += bounceAxis(&xs[i], &vxs[i], minX, maxX)
			ev.Bounces += bounceAxis(&ys[i], &vys[i], minY, maxY)
		}
	}
	return ev
}

func wrapAxis(pos *float64, lo, hi float64) int {
	if *pos > hi {
		*pos = lo
		return 1
	}
	if *pos < lo {
		*pos = hi
		return 1
	}
	return 0
}

func bounceAxis(pos, vel *float64, lo, hi float64) int {
	if *pos > hi {
		*pos = hi
		*vel = -*vel
		return 1
	}
	if *pos < lo {
		*pos = lo
		*vel = -*vel
		return 1
	}
	return 0
}
