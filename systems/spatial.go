// Package systems implements the per-step flocking kernel: spatial hashing,
// neighbor forces, speed normalization and motion.
package systems

import (
	"math"

	"github.com/pthm-cable/flock/components"
)

// GridParams describes the cell layout of the spatial hash.
type GridParams struct {
	CellSize  float64
	NumCellsX int
	NumCellsY int
}

// NewGridParams derives the cell layout from the neighbor radius.
// Cells are at least as wide as the radius so a 3x3 scan covers every neighbor.
func NewGridParams(world components.World, rangeOfView float64) GridParams {
	cellSize := math.Max(rangeOfView, 1.0)
	return GridParams{
		CellSize:  cellSize,
		NumCellsX: max(1, int(math.Ceil(world.Width/cellSize))),
		NumCellsY: max(1, int(math.Ceil(world.Height/cellSize))),
	}
}

// NumCells returns the total number of cells.
func (p GridParams) NumCells() int {
	return p.NumCellsX * p.NumCellsY
}

// Grid is a counting-sort bucket index over agent ids.
// It is rebuilt from scratch every step; the buffers are only kept to avoid reallocating.
type Grid struct {
	Params GridParams

	// CellStarts[c]..CellStarts[c+1] is the range of Sorted holding cell c.
	CellStarts []int32
	// Sorted holds agent ids ordered by cell.
	Sorted []int32
	// AgentCell holds each agent's owning cell index.
	AgentCell []int32

	cursor []int32
}

// Cell returns the ids of the agents in cell idx. Order within a cell is unspecified.
func (g *Grid) Cell(idx int) []int32 {
	return g.Sorted[g.CellStarts[idx]:g.CellStarts[idx+1]]
}

// CellCoords splits a flat cell index into column and row.
func (g *Grid) CellCoords(idx int) (cx, cy int) {
	return idx % g.Params.NumCellsX, idx / g.Params.NumCellsX
}

// CellOf returns the clamped cell coordinates for a position.
func CellOf(x, y float64, world components.World, p GridParams) (cx, cy int) {
	cx = int(math.Floor((x - world.MinX) / p.CellSize))
	cy = int(math.Floor((y - world.MinY) / p.CellSize))

	// Clamp to valid range
	if cx < 0 {
		cx = 0
	} else if cx >= p.NumCellsX {
		cx = p.NumCellsX - 1
	}
	if cy < 0 {
		cy = 0
	} else if cy >= p.NumCellsY {
		cy = p.NumCellsY - 1
	}
	return cx, cy
}

// BuildGrid indexes agents [0, len(xs)) into g, reusing g's buffers.
func BuildGrid(g *Grid, xs, ys []float64, world components.World, p GridParams) {
	n := len(xs)
	cells := p.NumCells()
	g.Params = p

	g.CellStarts = resizeInt32(g.CellStarts, cells+1)
	g.cursor = resizeInt32(g.cursor, cells)
	g.AgentCell = resizeInt32(g.AgentCell, n)
	g.Sorted = resizeInt32(g.Sorted, n)
	clear(g.CellStarts)
	clear(g.cursor)

	// Tally per cell, offset by one so the prefix sum lands in place
	for i := 0; i < n; i++ {
		cx, cy := CellOf(xs[i], ys[i], world, p)
		idx := int32(cy*p.NumCellsX + cx)
		g.AgentCell[i] = idx
		g.CellStarts[idx+1]++
	}

	for c := 0; c < cells; c++ {
		g.CellStarts[c+1] += g.CellStarts[c]
	}

	for i := 0; i < n; i++ {
		c := g.AgentCell[i]
		g.Sorted[g.CellStarts[c]+g.cursor[c]] = int32(i)
		g.cursor[c]++
	}
}

func resizeInt32(s []int32, n int) []int32 {
	if cap(s) < n {
		return make([]int32, n)
	}
	return s[:n]
}
