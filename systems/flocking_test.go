package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/flock/components"
)

// newFlocking builds a grid over the agents and returns a ready evaluator.
func newFlocking(world components.World, params components.Params, in Columns) *Flocking {
	g := &Grid{}
	BuildGrid(g, in.X, in.Y, world, NewGridParams(world, params.RangeOfView))
	return &Flocking{World: world, Params: params, Grid: g, In: in}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFlockingWrappedNeighbor(t *testing.T) {
	world := components.World{Width: 200, Height: 200}
	params := components.DefaultParams()
	params.RangeOfView = 3

	in := Columns{
		X:    []float64{0, 199},
		Y:    []float64{0, 0},
		VX:   []float64{0.5, 0.5},
		VY:   []float64{0, 0},
		Size: []float64{0, 0},
	}

	rawSq := (in.X[1] - in.X[0]) * (in.X[1] - in.X[0])
	if rawSq <= params.RangeOfView*params.RangeOfView {
		t.Fatalf("raw distance %v should be outside range of view", math.Sqrt(rawSq))
	}

	var out ForceOutput
	newFlocking(world, params, in).EvaluateAll(&out)

	for i := 0; i < 2; i++ {
		if out.Neighbors[i] != 1 {
			t.Errorf("agent %d has %d neighbors, want 1 across the wrap", i, out.Neighbors[i])
		}
	}
}

func TestFlockingOutOfRangeIsAlone(t *testing.T) {
	world := components.DefaultWorld()
	params := components.DefaultParams()

	in := Columns{
		X:    []float64{0, 3.5},
		Y:    []float64{0, 0},
		VX:   []float64{0, 0},
		VY:   []float64{0, 0},
		Size: []float64{1, 1},
	}

	var out ForceOutput
	newFlocking(world, params, in).EvaluateAll(&out)

	if out.Neighbors[0] != 0 || out.Neighbors[1] != 0 {
		t.Errorf("neighbors = %v, want none beyond range of view", out.Neighbors)
	}
}

func TestFlockingAlignmentAndCohesion(t *testing.T) {
	world := components.DefaultWorld()
	params := components.DefaultParams()

	// Zero sizes disable separation so only alignment and cohesion act.
	in := Columns{
		X:    []float64{0, 1},
		Y:    []float64{0, 0},
		VX:   []float64{1, 0},
		VY:   []float64{0, 1},
		Size: []float64{0, 0},
	}

	var out ForceOutput
	newFlocking(world, params, in).EvaluateAll(&out)

	confusion := 1 / (1 + params.ConfusionFactor)
	align := params.Strength * confusion
	cohesion := params.Strength * 0.5 * (1 / (1 + params.DistanceFactor)) * confusion

	wantVX := 1 + (0-1)*align + 1*cohesion
	wantVY := 0 + (1-0)*align
	if !approx(out.VX[0], wantVX) || !approx(out.VY[0], wantVY) {
		t.Errorf("agent 0 velocity = (%v,%v), want (%v,%v)", out.VX[0], out.VY[0], wantVX, wantVY)
	}

	wantVX = 0 + (1-0)*align - 1*cohesion
	wantVY = 1 + (0-1)*align
	if !approx(out.VX[1], wantVX) || !approx(out.VY[1], wantVY) {
		t.Errorf("agent 1 velocity = (%v,%v), want (%v,%v)", out.VX[1], out.VY[1], wantVX, wantVY)
	}
}

func TestFlockingSeparation(t *testing.T) {
	world := components.DefaultWorld()
	params := components.DefaultParams()
	params.Strength = 0

	in := Columns{
		X:    []float64{0, 1},
		Y:    []float64{0, 0},
		VX:   []float64{0, 0},
		VY:   []float64{0, 0},
		Size: []float64{1, 1},
	}

	var out ForceOutput
	newFlocking(world, params, in).EvaluateAll(&out)

	if !approx(out.VX[0], -params.RepulsionFactor) || !approx(out.VX[1], params.RepulsionFactor) {
		t.Errorf("separation vx = (%v,%v), want (%v,%v)",
			out.VX[0], out.VX[1], -params.RepulsionFactor, params.RepulsionFactor)
	}
	if out.Collisions[0] != 1 || out.Collisions[1] != 1 {
		t.Errorf("collisions = %v, want one each", out.Collisions)
	}
}

func TestFlockingSeparationAcrossWrap(t *testing.T) {
	world := components.DefaultWorld()
	params := components.DefaultParams()
	params.Strength = 0

	// Agent 1 sits just across the +x edge from agent 0, so agent 0 is pushed toward +x.
	in := Columns{
		X:    []float64{-99.5, 99.5},
		Y:    []float64{0, 0},
		VX:   []float64{0, 0},
		VY:   []float64{0, 0},
		Size: []float64{1, 1},
	}

	var out ForceOutput
	newFlocking(world, params, in).EvaluateAll(&out)

	if !approx(out.VX[0], params.RepulsionFactor) {
		t.Errorf("agent 0 vx = %v, want %v", out.VX[0], params.RepulsionFactor)
	}
	if !approx(out.VX[1], -params.RepulsionFactor) {
		t.Errorf("agent 1 vx = %v, want %v", out.VX[1], -params.RepulsionFactor)
	}
}

func TestFlockingCoincidentAgents(t *testing.T) {
	world := components.DefaultWorld()
	params := components.DefaultParams()

	in := Columns{
		X:    []float64{10, 10},
		Y:    []float64{10, 10},
		VX:   []float64{0.5, 0.5},
		VY:   []float64{0, 0},
		Size: []float64{7, 7},
	}

	var out ForceOutput
	newFlocking(world, params, in).EvaluateAll(&out)

	for i := range in.X {
		if math.IsNaN(out.VX[i]) || math.IsNaN(out.VY[i]) {
			t.Fatalf("agent %d velocity is NaN", i)
		}
		if out.Collisions[i] != 0 {
			t.Errorf("agent %d counted a collision at zero distance", i)
		}
		if out.Neighbors[i] != 1 {
			t.Errorf("agent %d neighbors = %d, want 1", i, out.Neighbors[i])
		}
	}
}

func TestFlockingLoneDeceleration(t *testing.T) {
	world := components.DefaultWorld()
	params := components.DefaultParams()
	params.SlowFactor = 0.25

	tests := []struct {
		name      string
		vx, vy    float64
		wantSpeed float64
	}{
		{"above minimum slows by factor", 1.2, 0, 0.95},
		{"floored at minimum", 0, 0.6, 0.5},
		{"below minimum untouched", 0.3, 0, 0.3},
		{"diagonal keeps direction", 0.6, 0.8, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Columns{
				X: []float64{0}, Y: []float64{0},
				VX: []float64{tt.vx}, VY: []float64{tt.vy},
				Size: []float64{1},
			}
			var out ForceOutput
			newFlocking(world, params, in).EvaluateAll(&out)

			speed := math.Hypot(out.VX[0], out.VY[0])
			if !approx(speed, tt.wantSpeed) {
				t.Errorf("speed = %v, want %v", speed, tt.wantSpeed)
			}
			// Direction preserved: cross product with the input is zero
			if cross := tt.vx*out.VY[0] - tt.vy*out.VX[0]; !approx(cross, 0) {
				t.Errorf("direction changed, cross = %v", cross)
			}
		})
	}
}

func TestFlockingCoarseGridCountsOnce(t *testing.T) {
	world := components.DefaultWorld()
	params := components.DefaultParams()
	params.RangeOfView = 150 // two cells per axis

	in := Columns{
		X:    []float64{-50, 50},
		Y:    []float64{0, 0},
		VX:   []float64{0, 0},
		VY:   []float64{0, 0},
		Size: []float64{0, 0},
	}

	var out ForceOutput
	newFlocking(world, params, in).EvaluateAll(&out)

	if out.Neighbors[0] != 1 || out.Neighbors[1] != 1 {
		t.Errorf("neighbors = %v, want each agent counted once", out.Neighbors)
	}
}

func TestFlockingRangesMatchFullPass(t *testing.T) {
	world := components.DefaultWorld()
	params := components.DefaultParams()
	params.RangeOfView = 8
	rng := rand.New(rand.NewSource(3))

	n := 400
	in := Columns{
		X: make([]float64, n), Y: make([]float64, n),
		VX: make([]float64, n), VY: make([]float64, n),
		Size: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		in.X[i] = world.MinX + rng.Float64()*world.Width
		in.Y[i] = world.MinY + rng.Float64()*world.Height
		in.VX[i] = rng.Float64() - 0.5
		in.VY[i] = rng.Float64() - 0.5
		in.Size[i] = 2
	}
	origVX := append([]float64(nil), in.VX...)

	f := newFlocking(world, params, in)

	var full ForceOutput
	f.EvaluateAll(&full)

	// Evaluate in reverse chunks to show agent order does not matter
	var chunked ForceOutput
	chunked.Resize(n)
	for start := n - 50; start >= 0; start -= 50 {
		f.EvaluateRange(start, start+50, &chunked)
	}

	for i := 0; i < n; i++ {
		if full.VX[i] != chunked.VX[i] || full.VY[i] != chunked.VY[i] || full.Neighbors[i] != chunked.Neighbors[i] {
			t.Fatalf("agent %d differs between full and chunked passes", i)
		}
		if in.VX[i] != origVX[i] {
			t.Fatalf("agent %d input velocity was mutated", i)
		}
	}
}
