// Package sim owns the agent arena and the control surface around the
// flocking kernel: population changes, parameter updates, stepping and
// snapshot export.
package sim

import (
	"math/rand"
	"time"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/systems"
	"github.com/pthm-cable/flock/telemetry"
)

// Options configures a Simulation.
type Options struct {
	World        components.World
	Params       components.Params
	MaxCount     int
	InitialCount int
	InitialSpeed float64 // initial velocity is uniform in [-InitialSpeed, InitialSpeed] per axis

	// Seed for the placement and jitter source. Zero picks a time-based seed.
	Seed int64

	Workers           int // 0 = GOMAXPROCS
	ParallelThreshold int

	StatsWindow int // ticks per telemetry window
	PerfWindow  int

	// OnWindow, if set, receives each completed telemetry window.
	OnWindow func(stats telemetry.WindowStats, perf telemetry.PerfStats)
}

// OptionsFromConfig builds Options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		World:             cfg.Derived.World,
		Params:            cfg.Derived.Params,
		MaxCount:          cfg.Population.MaxCount,
		InitialCount:      cfg.Population.Initial,
		InitialSpeed:      cfg.Population.InitialSpeed,
		Workers:           cfg.Simulation.Workers,
		ParallelThreshold: cfg.Simulation.ParallelThreshold,
		StatsWindow:       cfg.Telemetry.StatsWindow,
		PerfWindow:        cfg.Telemetry.PerfCollectorWindow,
	}
}

// Simulation is a fixed-capacity arena of agents stored as parallel columns.
// Entries at index >= Count() are inert and may hold stale values.
//
// A Simulation is not safe for concurrent use. Callers that step from one
// goroutine and read from another must serialize the calls themselves.
type Simulation struct {
	world    components.World
	params   components.Params
	grid     systems.GridParams
	maxCount int
	count    int
	tick     int64

	initialSpeed float64

	x, y   []float64
	vx, vy []float64
	size   []float64

	rng *rand.Rand

	index     systems.Grid
	forces    systems.ForceOutput
	threshold int
	pool      *workerPool

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	onWindow  func(telemetry.WindowStats, telemetry.PerfStats)
}

// New creates a simulation and adds opts.InitialCount agents.
func New(opts Options) *Simulation {
	if opts.World.Width <= 0 || opts.World.Height <= 0 {
		opts.World = components.DefaultWorld()
	}
	if opts.MaxCount < 0 {
		opts.MaxCount = 0
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	maxCount := opts.MaxCount
	s := &Simulation{
		world:        opts.World,
		params:       opts.Params,
		maxCount:     maxCount,
		initialSpeed: opts.InitialSpeed,
		x:            make([]float64, maxCount),
		y:            make([]float64, maxCount),
		vx:           make([]float64, maxCount),
		vy:           make([]float64, maxCount),
		size:         make([]float64, maxCount),
		rng:          rand.New(rand.NewSource(seed)),
		threshold:    opts.ParallelThreshold,
		pool:         newWorkerPool(opts.Workers),
		perf:         telemetry.NewPerfCollector(opts.PerfWindow),
		collector:    telemetry.NewCollector(opts.StatsWindow),
		onWindow:     opts.OnWindow,
	}
	if s.threshold <= 0 {
		s.threshold = defaultParallelThreshold
	}
	s.recomputeGrid()
	s.AddAgents(opts.InitialCount)
	return s
}

// AddAgents appends up to n agents at random positions with small random
// velocities. Requests beyond the remaining capacity are truncated.
func (s *Simulation) AddAgents(n int) {
	n = min(n, s.maxCount-s.count)
	if n <= 0 {
		return
	}

	w := s.world
	for i := s.count; i < s.count+n; i++ {
		s.x[i] = w.MinX + s.rng.Float64()*w.Width
		s.y[i] = w.MinY + s.rng.Float64()*w.Height
		s.vx[i] = (s.rng.Float64()*2 - 1) * s.initialSpeed
		s.vy[i] = (s.rng.Float64()*2 - 1) * s.initialSpeed
		s.size[i] = s.params.DefaultSize
	}
	// New agents have not been through a step yet
	if stale := s.forces.Neighbors; len(stale) > s.count {
		clear(stale[s.count:min(len(stale), s.count+n)])
	}
	s.count += n
	s.collector.RecordAdded(n)
}

// RemoveAgents drops the n highest-indexed agents. Count never goes below zero.
func (s *Simulation) RemoveAgents(n int) {
	n = min(n, s.count)
	if n <= 0 {
		return
	}
	s.count -= n
	s.collector.RecordRemoved(n)
}

// SetCount adds or removes agents to reach target, clamped to [0, MaxCount].
func (s *Simulation) SetCount(target int) {
	target = max(0, min(target, s.maxCount))
	switch {
	case target > s.count:
		s.AddAgents(target - s.count)
	case target < s.count:
		s.RemoveAgents(s.count - target)
	}
}

// Reset zeroes every column and re-adds the previously active count.
func (s *Simulation) Reset() {
	n := s.count
	clear(s.x)
	clear(s.y)
	clear(s.vx)
	clear(s.vy)
	clear(s.size)
	s.count = 0
	s.tick = 0

	s.collector.RecordReset()
	s.collector.Restart(0)
	s.AddAgents(n)
}

// Snapshot copies the active agents out in id order.
func (s *Simulation) Snapshot() []components.Agent {
	return s.AppendSnapshot(make([]components.Agent, 0, s.count))
}

// AppendSnapshot appends the active agents to dst, for callers that reuse a buffer.
func (s *Simulation) AppendSnapshot(dst []components.Agent) []components.Agent {
	for i := 0; i < s.count; i++ {
		dst = append(dst, components.Agent{
			X: s.x[i], Y: s.y[i],
			VX: s.vx[i], VY: s.vy[i],
			Size: s.size[i],
		})
	}
	return dst
}

// NeighborCounts returns a copy of each active agent's neighbor count from
// the last step. Agents added since then report zero.
func (s *Simulation) NeighborCounts() []int32 {
	out := make([]int32, s.count)
	copy(out, s.forces.Neighbors)
	return out
}

// Count returns the number of active agents.
func (s *Simulation) Count() int { return s.count }

// MaxCount returns the arena capacity.
func (s *Simulation) MaxCount() int { return s.maxCount }

// Tick returns the number of steps since creation or the last Reset.
func (s *Simulation) Tick() int64 { return s.tick }

// World returns the world rectangle.
func (s *Simulation) World() components.World { return s.world }

// Params returns a copy of the current parameter set.
func (s *Simulation) Params() components.Params { return s.params }

// GridParams returns the cell layout derived from the current range of view.
func (s *Simulation) GridParams() systems.GridParams { return s.grid }

// Perf returns the step timing collector.
func (s *Simulation) Perf() *telemetry.PerfCollector { return s.perf }

// Close stops the worker pool. The simulation may still be stepped afterwards,
// in which case the pool restarts on demand.
func (s *Simulation) Close() {
	s.pool.stop()
}
