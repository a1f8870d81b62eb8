package game

import (
	"log/slog"

	"github.com/pthm-cable/flock/telemetry"
)

// flushTelemetry receives each completed stats window from the simulation.
func (g *Game) flushTelemetry(stats telemetry.WindowStats, perfStats telemetry.PerfStats) {
	g.lastStats = stats

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// LastStats returns the most recent stats window.
func (g *Game) LastStats() telemetry.WindowStats {
	return g.lastStats
}
