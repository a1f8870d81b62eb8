package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flock/components"
)

// WindowStats holds aggregated statistics for one stats window.
type WindowStats struct {
	WindowStartTick int64 `csv:"-"`
	WindowEndTick   int64 `csv:"window_end"`

	// Population at window end
	Count int `csv:"count"`

	// Events during window
	AgentsAdded   int `csv:"agents_added"`
	AgentsRemoved int `csv:"agents_removed"`
	Resets        int `csv:"resets"`
	Wraps         int `csv:"wraps"`
	Bounces       int `csv:"bounces"`
	Collisions    int `csv:"collisions"` // collision-radius contacts, counted per agent
	LoneSteps     int `csv:"lone_steps"` // agent-steps with no neighbor

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Flock structure (sampled at window end)
	NeighborMean float64 `csv:"neighbor_mean"`
	Polarization float64 `csv:"polarization"` // |mean unit heading|, 1 = fully aligned
}

// Quantile returns the empirical p-quantile of sorted. Returns 0 if sorted is empty.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = math.Max(0, math.Min(1, p))
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeSpeedStats calculates mean, std and percentiles of the agents' speeds.
func ComputeSpeedStats(speeds []float64) (mean, std, p10, p50, p90 float64) {
	n := len(speeds)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(speeds, nil)
	if n > 1 {
		std = stat.StdDev(speeds, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, speeds)
	sort.Float64s(sorted)

	return mean, std, Quantile(sorted, 0.10), Quantile(sorted, 0.50), Quantile(sorted, 0.90)
}

// Polarization returns the magnitude of the mean unit velocity.
// Stationary agents have no heading and are skipped.
func Polarization(agents []components.Agent) float64 {
	var sum r2.Vec
	moving := 0
	for _, a := range agents {
		v := r2.Vec{X: a.VX, Y: a.VY}
		if v.X == 0 && v.Y == 0 {
			continue
		}
		sum = r2.Add(sum, r2.Unit(v))
		moving++
	}
	if moving == 0 {
		return 0
	}
	return r2.Norm(r2.Scale(1/float64(moving), sum))
}

// MeanNeighbors averages the per-agent neighbor counts.
func MeanNeighbors(counts []int32) float64 {
	if len(counts) == 0 {
		return 0
	}
	values := make([]float64, len(counts))
	for i, c := range counts {
		values[i] = float64(c)
	}
	return stat.Mean(values, nil)
}

// LogStats logs window statistics.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"count", s.Count,
		"agents_added", s.AgentsAdded,
		"agents_removed", s.AgentsRemoved,
		"resets", s.Resets,
		"wraps", s.Wraps,
		"bounces", s.Bounces,
		"collisions", s.Collisions,
		"lone_steps", s.LoneSteps,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"speed_p10", s.SpeedP10,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"neighbor_mean", s.NeighborMean,
		"polarization", s.Polarization,
	)
}
