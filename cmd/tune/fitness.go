package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/sim"
	"github.com/pthm-cable/flock/telemetry"
)

// Quality shaping.
const (
	targetNeighbors = 6.0 // preferred mean neighbor count
	neighborWidth   = 4.0

	qualityWeightNeighbors = 0.5
	qualityWeightCoverage  = 0.5
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	baseConfig  *config.Config
	ticks       int
	warmupTicks int
	statsWindow int
	seeds       []int64

	mu          sync.Mutex
	lastQuality float64
	lastOrder   float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, seeds []int64) *FitnessEvaluator {
	tc := baseCfg.Tune
	return &FitnessEvaluator{
		params:      params,
		baseConfig:  baseCfg,
		ticks:       tc.Ticks,
		warmupTicks: tc.WarmupTicks,
		statsWindow: 50,
		seeds:       seeds,
	}
}

// LastQuality returns the quality and mean polarization of the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() (quality, order float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality, fe.lastOrder
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	order   float64
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows := fe.runSimulation(x, s)
			results[idx] = scoreWindows(windows, int64(fe.warmupTicks), int64(fe.statsWindow))
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality, totalOrder float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		totalOrder += r.order
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.lastOrder = totalOrder / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes one headless run and returns its telemetry windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) []telemetry.WindowStats {
	opts := sim.OptionsFromConfig(fe.baseConfig)
	opts.Params = fe.params.ApplyToParams(opts.Params, x)
	opts.InitialCount = fe.baseConfig.Tune.Population
	opts.Seed = seed
	opts.StatsWindow = fe.statsWindow
	// Seeds already run in parallel
	opts.Workers = 1

	var windows []telemetry.WindowStats
	opts.OnWindow = func(stats telemetry.WindowStats, _ telemetry.PerfStats) {
		windows = append(windows, stats)
	}

	s := sim.New(opts)
	defer s.Close()
	for i := 0; i < fe.ticks; i++ {
		s.Step()
	}
	return windows
}

// scoreWindows turns a run's telemetry into a fitness.
// Fitness = -(polarization × (1 + 0.2 × quality)). Alignment dominates;
// quality rewards local clustering so a frozen single-file line does not win.
func scoreWindows(windows []telemetry.WindowStats, warmupTicks, windowTicks int64) seedResult {
	var order, neighbors, coverage []float64
	for _, w := range windows {
		if w.WindowEndTick <= warmupTicks || w.Count == 0 {
			continue
		}
		order = append(order, w.Polarization)
		neighbors = append(neighbors, w.NeighborMean)

		agentSteps := float64(w.Count) * float64(windowTicks)
		coverage = append(coverage, 1-float64(w.LoneSteps)/agentSteps)
	}
	if len(order) == 0 {
		return seedResult{}
	}

	meanOrder := stat.Mean(order, nil)
	d := (stat.Mean(neighbors, nil) - targetNeighbors) / neighborWidth
	quality := qualityWeightNeighbors*math.Exp(-d*d) +
		qualityWeightCoverage*clamp01(stat.Mean(coverage, nil))
	quality = clamp01(quality)

	return seedResult{
		fitness: -(meanOrder * (1.0 + 0.2*quality)),
		quality: quality,
		order:   meanOrder,
	}
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return max(0, min(x, 1))
}
