package sim

import (
	"github.com/pthm-cable/flock/systems"
	"github.com/pthm-cable/flock/telemetry"
)

// Step advances the simulation by one tick.
func (s *Simulation) Step() {
	// Everything below reads this copy, never s.params.
	p := s.params
	gp := s.grid
	n := s.count

	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseSpatialGrid)
	systems.BuildGrid(&s.index, s.x[:n], s.y[:n], s.world, gp)

	s.perf.StartPhase(telemetry.PhaseFlocking)
	f := &systems.Flocking{
		World:  s.world,
		Params: p,
		Grid:   &s.index,
		In: systems.Columns{
			X: s.x[:n], Y: s.y[:n],
			VX: s.vx[:n], VY: s.vy[:n],
			Size: s.size[:n],
		},
	}
	s.forces.Resize(n)
	if n < s.threshold || s.pool.numWorkers < 2 {
		f.EvaluateRange(0, n, &s.forces)
	} else {
		s.pool.run(f, &s.forces, n)
	}

	s.perf.StartPhase(telemetry.PhaseIntegrate)
	for i := 0; i < n; i++ {
		vx, vy := systems.ClampSpeed(s.forces.VX[i], s.forces.VY[i], p.MinVelocity, p.MaxVelocity)
		s.vx[i] = vx + systems.Jitter(s.rng, p.RandomFactor)
		s.vy[i] = vy + systems.Jitter(s.rng, p.RandomFactor)
	}
	events := systems.Integrate(s.x[:n], s.y[:n], s.vx[:n], s.vy[:n], s.world, p.WrapMode)
	s.tick++

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.recordStep(n, events)

	s.perf.EndTick()
}

func (s *Simulation) recordStep(n int, events systems.BoundaryEvents) {
	var collisions, lone int
	for i := 0; i < n; i++ {
		collisions += int(s.forces.Collisions[i])
		if s.forces.Neighbors[i] == 0 {
			lone++
		}
	}
	s.collector.RecordStep(events.Wraps, events.Bounces, collisions, lone)

	if !s.collector.ShouldFlush(s.tick) {
		return
	}
	stats := s.collector.Flush(s.tick, s.Snapshot(), s.forces.Neighbors[:n])
	if s.onWindow != nil {
		s.onWindow(stats, s.perf.Stats())
	}
}
