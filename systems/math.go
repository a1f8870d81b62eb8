package systems

import "math"

// ToroidalDelta returns the shortest signed displacement from (x1,y1) to (x2,y2)
// on a w x h torus.
func ToroidalDelta(x1, y1, x2, y2, w, h float64) (dx, dy float64) {
	dx = x2 - x1
	dy = y2 - y1

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

// ToroidalDistSq returns the squared wrap-around distance between two points.
func ToroidalDistSq(x1, y1, x2, y2, w, h float64) float64 {
	dx := math.Abs(x1 - x2)
	dy := math.Abs(y1 - y2)

	if dx > w*0.5 {
		dx = w - dx
	}
	if dy > h*0.5 {
		dy = h - dy
	}

	return dx*dx + dy*dy
}

// rescale scales (vx, vy) from its current speed to target. Zero vectors are returned as is.
func rescale(vx, vy, speed, target float64) (float64, float64) {
	if speed == 0 {
		return vx, vy
	}
	s := target / speed
	return vx * s, vy * s
}
