// Package server streams a running simulation to browser clients over
// websockets and exposes pause/resume/reset over HTTP.
package server

import (
	"context"
	"sync"
	"time"

	"github.com/pthm-cable/flock/components"
)

// Simulation is the control surface the runner drives.
type Simulation interface {
	Step()
	Reset()
	SetParameter(name string, value float64)
	SetCount(target int)
	Count() int
	MaxCount() int
	Tick() int64
	World() components.World
	Params() components.Params
	AppendSnapshot(dst []components.Agent) []components.Agent
}

// Runner owns a simulation and serialises every access to it.
type Runner struct {
	mu     sync.Mutex
	sim    Simulation
	paused bool
	frame  int64

	interval time.Duration
	buf      []components.Agent
}

// NewRunner creates a runner stepping s once per interval.
func NewRunner(s Simulation, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	return &Runner{sim: s, interval: interval}
}

// Run steps the simulation until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.step()
		}
	}
}

func (r *Runner) step() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.paused {
		return
	}
	r.sim.Step()
	r.frame++
}

// SetPaused pauses or resumes stepping.
func (r *Runner) SetPaused(paused bool) {
	r.mu.Lock()
	r.paused = paused
	r.mu.Unlock()
}

// TogglePause flips the pause flag and returns the new value.
func (r *Runner) TogglePause() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = !r.paused
	return r.paused
}

// Reset re-seeds the flock and zeroes the frame counter.
func (r *Runner) Reset() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame = 0
	r.sim.Reset()
	return r.stateLocked()
}

// SetParameter forwards a named parameter change.
func (r *Runner) SetParameter(name string, value float64) {
	r.mu.Lock()
	r.sim.SetParameter(name, value)
	r.mu.Unlock()
}

// SetCount forwards a population change.
func (r *Runner) SetCount(target int) {
	r.mu.Lock()
	r.sim.SetCount(target)
	r.mu.Unlock()
}

// State describes the simulation for the HTTP API.
type State struct {
	Count    int               `json:"boid_count"`
	MaxCount int               `json:"max_count"`
	Frame    int64             `json:"frame"`
	Tick     int64             `json:"tick"`
	Paused   bool              `json:"paused"`
	Params   components.Params `json:"params"`
}

// State returns a consistent view of the runner.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateLocked()
}

func (r *Runner) stateLocked() State {
	return State{
		Count:    r.sim.Count(),
		MaxCount: r.sim.MaxCount(),
		Frame:    r.frame,
		Tick:     r.sim.Tick(),
		Paused:   r.paused,
		Params:   r.sim.Params(),
	}
}

// Init returns the greeting sent to a new client.
func (r *Runner) Init() InitData {
	r.mu.Lock()
	defer r.mu.Unlock()
	w := r.sim.World()
	p := r.sim.Params()
	return InitData{
		BoidCount:   r.sim.Count(),
		GridX1:      w.MaxX(),
		GridY1:      w.MaxY(),
		GridX2:      w.MinX,
		GridY2:      w.MinY,
		MaxVelocity: p.MaxVelocity,
		MinVelocity: p.MinVelocity,
	}
}

// Frame snapshots the flock for broadcast.
func (r *Runner) Frame() BoidsData {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf = r.sim.AppendSnapshot(r.buf[:0])
	rows := make([][5]float64, len(r.buf))
	for i, a := range r.buf {
		rows[i] = [5]float64{a.X, a.Y, a.VX, a.VY, a.Size}
	}
	return BoidsData{Boids: rows, Frame: r.frame, Paused: r.paused}
}
