package systems

import (
	"math"

	"github.com/pthm-cable/flock/components"
)

// Columns is a read-only view of the active agent arena.
// All slices have the same length, the live agent count.
type Columns struct {
	X, Y   []float64
	VX, VY []float64
	Size   []float64
}

// Len returns the number of agents in the view.
func (c Columns) Len() int {
	return len(c.X)
}

// ForceOutput receives the results of the neighbor pass.
// It is separate from Columns so no agent ever sees another agent's new velocity.
type ForceOutput struct {
	VX, VY     []float64
	Neighbors  []int32 // neighbors inside range of view
	Collisions []int32 // neighbors inside the combined size radius
}

// Resize makes room for n agents, reusing backing arrays when possible.
func (o *ForceOutput) Resize(n int) {
	o.VX = resizeFloat64(o.VX, n)
	o.VY = resizeFloat64(o.VY, n)
	o.Neighbors = resizeInt32(o.Neighbors, n)
	o.Collisions = resizeInt32(o.Collisions, n)
}

// Flocking holds what every agent's force computation shares within a step.
type Flocking struct {
	World  components.World
	Params components.Params
	Grid   *Grid
	In     Columns
}

// EvaluateRange computes post-force velocities for agents [i0, i1) into out.
// Disjoint ranges may run concurrently once the grid is built.
func (f *Flocking) EvaluateRange(i0, i1 int, out *ForceOutput) {
	for i := i0; i < i1; i++ {
		vx, vy, neighbors, collisions := f.evaluate(i)
		out.VX[i] = vx
		out.VY[i] = vy
		out.Neighbors[i] = neighbors
		out.Collisions[i] = collisions
	}
}

// EvaluateAll runs the neighbor pass over every agent on the calling goroutine.
func (f *Flocking) EvaluateAll(out *ForceOutput) {
	out.Resize(f.In.Len())
	f.EvaluateRange(0, f.In.Len(), out)
}

func (f *Flocking) evaluate(i int) (vx, vy float64, neighborCount, collisionCount int32) {
	in := &f.In
	p := &f.Params
	w := f.World.Width
	h := f.World.Height
	rovSq := p.RangeOfView * p.RangeOfView

	px, py := in.X[i], in.Y[i]
	vx, vy = in.VX[i], in.VY[i]
	size := in.Size[i]

	var avgVX, avgVY float64
	var avgDX, avgDY float64
	var sepVX, sepVY float64

	var cells [9]int
	nc := f.neighborhood(int(f.Grid.AgentCell[i]), &cells)

	for _, cell := range cells[:nc] {
		for _, id := range f.Grid.Cell(cell) {
			j := int(id)
			if j == i {
				continue
			}

			qx, qy := in.X[j], in.Y[j]
			distSq := ToroidalDistSq(px, py, qx, qy, w, h)
			if distSq > rovSq {
				continue
			}
			neighborCount++

			// Alignment
			avgVX += in.VX[j]
			avgVY += in.VY[j]

			// Cohesion
			dx, dy := ToroidalDelta(px, py, qx, qy, w, h)
			avgDX += dx
			avgDY += dy

			// Separation
			collision := size + in.Size[j]
			if distSq > 0 && distSq < collision*collision {
				collisionCount++
				dist := math.Sqrt(distSq)
				sx, sy := ToroidalDelta(qx, qy, px, py, w, h)
				sepVX += sx / dist * p.RepulsionFactor
				sepVY += sy / dist * p.RepulsionFactor
			}
		}
	}

	if neighborCount == 0 {
		// Alone: bleed speed toward the minimum
		speed := math.Sqrt(vx*vx + vy*vy)
		if speed > p.MinVelocity {
			vx, vy = rescale(vx, vy, speed, math.Max(speed-p.SlowFactor, p.MinVelocity))
		}
		return vx, vy, 0, 0
	}

	k := float64(neighborCount)
	confusion := 1.0 / (1.0 + k*p.ConfusionFactor)

	avgVX /= k
	avgVY /= k
	alignment := p.Strength * confusion
	vx += (avgVX - vx) * alignment
	vy += (avgVY - vy) * alignment

	avgDX /= k
	avgDY /= k
	attenuation := 1.0 / (1.0 + (avgDX*avgDX+avgDY*avgDY)*p.DistanceFactor)
	cohesion := p.Strength * 0.5 * attenuation * confusion
	vx += avgDX * cohesion
	vy += avgDY * cohesion

	vx += sepVX
	vy += sepVY

	return vx, vy, neighborCount, collisionCount
}

// neighborhood fills cells with the distinct wrapped 3x3 block around center.
// Axes with fewer than three cells would otherwise revisit the same cell.
// The reference kernel rescans a repeated cell and counts its agents again;
// this scan deliberately visits each cell once.
func (f *Flocking) neighborhood(center int, cells *[9]int) int {
	gp := f.Grid.Params
	cx, cy := f.Grid.CellCoords(center)

	n := 0
	for dcy := -1; dcy <= 1; dcy++ {
		for dcx := -1; dcx <= 1; dcx++ {
			ncx := mod(cx+dcx, gp.NumCellsX)
			ncy := mod(cy+dcy, gp.NumCellsY)
			idx := ncy*gp.NumCellsX + ncx

			dup := false
			for _, seen := range cells[:n] {
				if seen == idx {
					dup = true
					break
				}
			}
			if !dup {
				cells[n] = idx
				n++
			}
		}
	}
	return n
}

// mod returns the non-negative remainder of a / b.
func mod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

func resizeFloat64(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}
