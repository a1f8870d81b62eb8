// Package termview renders the flock as heading glyphs in a terminal.
package termview

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/palette"
)

// Simulation is the part of the control surface the terminal viewer uses.
type Simulation interface {
	Step()
	Reset()
	AppendSnapshot(dst []components.Agent) []components.Agent
	World() components.World
	Params() components.Params
	SetWrapMode(wrap bool)
	Count() int
	Tick() int64
}

// headingGlyphs are indexed by octant, clockwise from +x with y pointing down.
var headingGlyphs = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// Viewer steps a simulation and draws it to a tcell screen.
type Viewer struct {
	screen  tcell.Screen
	sim     Simulation
	palette palette.Speed

	FrameInterval time.Duration
	StepsPerFrame int

	paused bool
	agents []components.Agent
}

// New creates a viewer. The caller owns screen and must Init and Fini it.
func New(screen tcell.Screen, s Simulation) *Viewer {
	p := s.Params()
	return &Viewer{
		screen:        screen,
		sim:           s,
		palette:       palette.NewSpeed(p.SpeedFloor(), p.MaxVelocity),
		FrameInterval: 33 * time.Millisecond,
		StepsPerFrame: 1,
	}
}

// Paused reports whether stepping is suspended.
func (v *Viewer) Paused() bool { return v.paused }

// Run steps and draws until ctx is done or the user quits.
func (v *Viewer) Run(ctx context.Context) error {
	ticker := time.NewTicker(v.FrameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return // screen finalized
			}
			events <- ev
		}
	}()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !v.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			if !v.paused {
				for i := 0; i < v.StepsPerFrame; i++ {
					v.sim.Step()
				}
			}
			v.Draw()
		}
	}
}

// HandleEvent applies one input event. Returns false when the viewer should exit.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRight:
			v.sim.Step()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				v.paused = !v.paused
			case 'r':
				v.sim.Reset()
			case '.':
				v.sim.Step()
			case 'w':
				v.sim.SetWrapMode(!v.sim.Params().WrapMode)
			case '+':
				v.StepsPerFrame = min(v.StepsPerFrame*2, 64)
			case '-':
				v.StepsPerFrame = max(v.StepsPerFrame/2, 1)
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

// Draw renders the current snapshot with a status line on the bottom row.
func (v *Viewer) Draw() {
	v.screen.Clear()
	cols, rows := v.screen.Size()
	if cols <= 0 || rows <= 1 {
		v.screen.Show()
		return
	}
	fieldRows := rows - 1

	v.agents = v.sim.AppendSnapshot(v.agents[:0])
	world := v.sim.World()
	for i := range v.agents {
		a := &v.agents[i]
		col, row := CellOf(a.X, a.Y, world, cols, fieldRows)
		r, g, b := v.palette.RGB(a.Speed())
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
		v.screen.SetContent(col, row, HeadingGlyph(a.VX, a.VY), nil, style)
	}

	mode := "wrap"
	if !v.sim.Params().WrapMode {
		mode = "bounce"
	}
	status := fmt.Sprintf(" agents %d  tick %d  %dx  %s", v.sim.Count(), v.sim.Tick(), v.StepsPerFrame, mode)
	if v.paused {
		status += "  PAUSED"
	}
	status += "   [space] pause [r] reset [w] edges [+/-] speed [q] quit"
	drawText(v.screen, 0, rows-1, cols, status, tcell.StyleDefault.Reverse(true))

	v.screen.Show()
}

// CellOf maps a world position onto a cols x rows character grid.
func CellOf(x, y float64, world components.World, cols, rows int) (col, row int) {
	col = int((x - world.MinX) / world.Width * float64(cols))
	row = int((y - world.MinY) / world.Height * float64(rows))
	return max(0, min(col, cols-1)), max(0, min(row, rows-1))
}

// HeadingGlyph returns the arrow closest to the direction of (vx, vy).
// A zero velocity is drawn as a dot.
func HeadingGlyph(vx, vy float64) rune {
	if vx == 0 && vy == 0 {
		return '·'
	}
	octant := int(math.Round(math.Atan2(vy, vx) / (math.Pi / 4)))
	return headingGlyphs[(octant%8+8)%8]
}

func drawText(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= width {
			return
		}
		s.SetContent(col, y, r, nil, style)
		col++
	}
	for ; col < width; col++ {
		s.SetContent(col, y, ' ', nil, style)
	}
}
