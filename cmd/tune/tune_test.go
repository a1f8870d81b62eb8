package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()

	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-12 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestParamVectorDefaultsMatchParams(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromParams(components.DefaultParams())
	for i, spec := range pv.Specs {
		if got[i] != spec.Default {
			t.Errorf("%s default = %v, params have %v", spec.Name, spec.Default, got[i])
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	values := pv.DefaultVector()
	values[0] = 100 // range_of_view above max
	values[1] = -1  // strength below min

	pv.ApplyToConfig(cfg, values)

	if cfg.Flock.RangeOfView != 12 || cfg.Derived.Params.RangeOfView != 12 {
		t.Errorf("range_of_view = %v, want clamped to 12", cfg.Flock.RangeOfView)
	}
	if cfg.Flock.Strength != 0.01 {
		t.Errorf("strength = %v, want clamped to 0.01", cfg.Flock.Strength)
	}
	if cfg.Flock.MaxVelocity != 1.5 {
		t.Error("fixed parameters should be left alone")
	}
}

func TestScoreWindows(t *testing.T) {
	windows := []telemetry.WindowStats{
		// Warmup window is ignored
		{WindowEndTick: 50, Count: 10, Polarization: 0.0},
		{WindowEndTick: 100, Count: 10, Polarization: 0.8, NeighborMean: 6},
		{WindowEndTick: 150, Count: 10, Polarization: 0.6, NeighborMean: 6},
	}

	r := scoreWindows(windows, 50, 50)

	if math.Abs(r.order-0.7) > 1e-9 {
		t.Errorf("order = %v, want 0.7", r.order)
	}
	// Neighbors on target and no lone steps
	if math.Abs(r.quality-1) > 1e-9 {
		t.Errorf("quality = %v, want 1", r.quality)
	}
	if math.Abs(r.fitness-(-0.7*1.2)) > 1e-9 {
		t.Errorf("fitness = %v, want %v", r.fitness, -0.7*1.2)
	}

	if empty := scoreWindows(windows[:1], 50, 50); empty.fitness != 0 {
		t.Errorf("warmup-only fitness = %v, want 0", empty.fitness)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(90e9); got != "1m30s" {
		t.Errorf("formatDuration(90s) = %q", got)
	}
}
