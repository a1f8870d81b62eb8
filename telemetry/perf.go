package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies one timed section of a simulation step.
type Phase int

// Step phases in execution order.
const (
	PhaseSpatialGrid Phase = iota
	PhaseFlocking
	PhaseIntegrate
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{
	PhaseSpatialGrid: "spatial_grid",
	PhaseFlocking:    "flocking",
	PhaseIntegrate:   "integrate",
	PhaseTelemetry:   "telemetry",
}

// String returns the phase's log key.
func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// Phases returns every phase in execution order.
func Phases() []Phase {
	out := make([]Phase, numPhases)
	for i := range out {
		out[i] = Phase(i)
	}
	return out
}

// perfSample holds timing data for a single tick.
type perfSample struct {
	tick   time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector tracks step timings over a rolling window.
// Not safe for concurrent use; the stepping goroutine owns it.
type PerfCollector struct {
	samples []perfSample
	next    int
	filled  int

	current    perfSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame time.Time
	frame     time.Duration

	now func() time.Time
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{samples: make([]perfSample, windowSize), now: time.Now}
}

// StartTick begins timing a new step.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.current = perfSample{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := p.now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.inPhase = true
}

// EndTick closes the step and stores it in the window.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.current.tick = now.Sub(p.tickStart)

	p.samples[p.next] = p.current
	p.next = (p.next + 1) % len(p.samples)
	if p.filled < len(p.samples) {
		p.filled++
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.phase >= 0 && p.phase < numPhases {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.inPhase = false
}

// RecordFrame records render-frame timing for the viewer.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Average duration and share of tick time per phase
	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{FrameDuration: p.frame}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	var phaseSum [numPhases]time.Duration
	for i, sample := range p.samples[:p.filled] {
		total += sample.tick
		if i == 0 || sample.tick < s.MinTickDuration {
			s.MinTickDuration = sample.tick
		}
		if sample.tick > s.MaxTickDuration {
			s.MaxTickDuration = sample.tick
		}
		for ph, d := range sample.phases {
			phaseSum[ph] += d
		}
	}

	n := time.Duration(p.filled)
	s.AvgTickDuration = total / n
	for ph := range phaseSum {
		s.PhaseAvg[ph] = phaseSum[ph] / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "perf", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd      int64   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	SpatialGridPct float64 `csv:"spatial_grid_pct"`
	FlockingPct    float64 `csv:"flocking_pct"`
	IntegratePct   float64 `csv:"integrate_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		SpatialGridPct: s.PhasePct[PhaseSpatialGrid],
		FlockingPct:    s.PhasePct[PhaseFlocking],
		IntegratePct:   s.PhasePct[PhaseIntegrate],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
	}
}
