package termview

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/flock/components"
)

// fakeSim is a fixed snapshot that records control calls.
type fakeSim struct {
	agents []components.Agent
	params components.Params
	steps  int
	resets int
}

func (f *fakeSim) Step()  { f.steps++ }
func (f *fakeSim) Reset() { f.resets++ }
func (f *fakeSim) AppendSnapshot(dst []components.Agent) []components.Agent {
	return append(dst, f.agents...)
}
func (f *fakeSim) World() components.World   { return components.DefaultWorld() }
func (f *fakeSim) Params() components.Params { return f.params }
func (f *fakeSim) SetWrapMode(wrap bool)     { f.params.WrapMode = wrap }
func (f *fakeSim) Count() int                { return len(f.agents) }
func (f *fakeSim) Tick() int64               { return int64(f.steps) }

func newTestScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	s.SetSize(cols, rows)
	t.Cleanup(s.Fini)
	return s
}

func TestHeadingGlyph(t *testing.T) {
	tests := []struct {
		vx, vy float64
		want   rune
	}{
		{1, 0, '→'},
		{1, 1, '↘'},
		{0, 1, '↓'},
		{-1, 0, '←'},
		{0, -1, '↑'},
		{1, -1, '↗'},
		{-1, -1, '↖'},
		{0, 0, '·'},
	}
	for _, tt := range tests {
		if got := HeadingGlyph(tt.vx, tt.vy); got != tt.want {
			t.Errorf("HeadingGlyph(%v, %v) = %q, want %q", tt.vx, tt.vy, got, tt.want)
		}
	}
}

func TestCellOf(t *testing.T) {
	w := components.DefaultWorld()
	tests := []struct {
		x, y     float64
		col, row int
	}{
		{-100, -100, 0, 0},
		{0, 0, 20, 10},
		{100, 100, 39, 19}, // upper bound clamps into the grid
		{-150, 0, 0, 10},
	}
	for _, tt := range tests {
		col, row := CellOf(tt.x, tt.y, w, 40, 20)
		if col != tt.col || row != tt.row {
			t.Errorf("CellOf(%v, %v) = (%d, %d), want (%d, %d)", tt.x, tt.y, col, row, tt.col, tt.row)
		}
	}
}

func TestDraw(t *testing.T) {
	screen := newTestScreen(t, 40, 21)
	fs := &fakeSim{
		agents: []components.Agent{{X: 0, Y: 0, VX: 1}},
		params: components.DefaultParams(),
	}
	v := New(screen, fs)

	v.Draw()

	if r, _, _, _ := screen.GetContent(20, 10); r != '→' {
		t.Errorf("agent cell = %q, want →", r)
	}
	if r, _, _, _ := screen.GetContent(1, 20); r != 'a' {
		t.Errorf("status line starts with %q, want agents label", r)
	}
}

func TestHandleEvent(t *testing.T) {
	screen := newTestScreen(t, 40, 21)
	fs := &fakeSim{params: components.DefaultParams()}
	v := New(screen, fs)

	key := func(r rune) *tcell.EventKey {
		return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
	}

	v.HandleEvent(key(' '))
	if !v.Paused() {
		t.Error("space should pause")
	}
	v.HandleEvent(key('r'))
	v.HandleEvent(key('.'))
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	if fs.resets != 1 || fs.steps != 2 {
		t.Errorf("resets=%d steps=%d, want 1 and 2", fs.resets, fs.steps)
	}
	v.HandleEvent(key('w'))
	if fs.params.WrapMode {
		t.Error("w should toggle to bounce")
	}
	v.HandleEvent(key('+'))
	if v.StepsPerFrame != 2 {
		t.Errorf("StepsPerFrame = %d, want 2", v.StepsPerFrame)
	}
	if v.HandleEvent(key('q')) {
		t.Error("q should quit")
	}
}
