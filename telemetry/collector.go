package telemetry

import "github.com/pthm-cable/flock/components"

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks     int64
	windowStartTick int64

	agentsAdded   int
	agentsRemoved int
	resets        int
	wraps         int
	bounces       int
	collisions    int
	loneSteps     int
}

// NewCollector creates a collector that flushes every windowTicks steps.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: int64(windowTicks)}
}

// RecordAdded records agents entering the arena.
func (c *Collector) RecordAdded(n int) {
	c.agentsAdded += n
}

// RecordRemoved records agents truncated from the arena.
func (c *Collector) RecordRemoved(n int) {
	c.agentsRemoved += n
}

// RecordReset records a full reset.
func (c *Collector) RecordReset() {
	c.resets++
}

// RecordStep records the per-step kernel counters.
func (c *Collector) RecordStep(wraps, bounces, collisions, lone int) {
	c.wraps += wraps
	c.bounces += bounces
	c.collisions += collisions
	c.loneSteps += lone
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats from the current agent snapshot and the
// neighbor counts of the last step, then resets counters for the next window.
func (c *Collector) Flush(currentTick int64, agents []components.Agent, neighbors []int32) WindowStats {
	speeds := make([]float64, len(agents))
	for i, a := range agents {
		speeds[i] = a.Speed()
	}
	mean, std, p10, p50, p90 := ComputeSpeedStats(speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		Count:           len(agents),

		AgentsAdded:   c.agentsAdded,
		AgentsRemoved: c.agentsRemoved,
		Resets:        c.resets,
		Wraps:         c.wraps,
		Bounces:       c.bounces,
		Collisions:    c.collisions,
		LoneSteps:     c.loneSteps,

		SpeedMean: mean,
		SpeedStd:  std,
		SpeedP10:  p10,
		SpeedP50:  p50,
		SpeedP90:  p90,

		NeighborMean: MeanNeighbors(neighbors),
		Polarization: Polarization(agents),
	}

	c.windowStartTick = currentTick
	c.agentsAdded = 0
	c.agentsRemoved = 0
	c.resets = 0
	c.wraps = 0
	c.bounces = 0
	c.collisions = 0
	c.loneSteps = 0

	return stats
}

// Restart moves the window start, used when the tick counter is reset.
func (c *Collector) Restart(tick int64) {
	c.windowStartTick = tick
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int64 {
	return c.windowTicks
}
