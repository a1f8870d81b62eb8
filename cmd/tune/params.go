package main

import (
	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
// Order must match ApplyToParams and ExtractFromParams.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable flocking parameters.
// Velocity bounds, size and boundary mode are held fixed.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "range_of_view", Path: "flock.range_of_view", Min: 1.0, Max: 12.0, Default: 3.0},
			{Name: "strength", Path: "flock.strength", Min: 0.01, Max: 0.6, Default: 0.15},
			{Name: "repulsion_factor", Path: "flock.repulsion_factor", Min: 0.0, Max: 0.2, Default: 0.03},
			{Name: "random_factor", Path: "flock.random_factor", Min: 0.0, Max: 0.6, Default: 0.25},
			{Name: "slow_factor", Path: "flock.slow_factor", Min: 0.0, Max: 1.5, Default: 1.0},
			{Name: "confusion_factor", Path: "flock.confusion_factor", Min: 0.0, Max: 1.0, Default: 0.20},
			{Name: "distance_factor", Path: "flock.distance_factor", Min: 0.0, Max: 0.3, Default: 0.05},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = max(spec.Min, min(v[i], spec.Max))
	}
	return clamped
}

// ApplyToParams writes clamped values into a copy of p.
func (pv *ParamVector) ApplyToParams(p components.Params, values []float64) components.Params {
	c := pv.Clamp(values)
	p.RangeOfView = c[0]
	p.Strength = c[1]
	p.RepulsionFactor = c[2]
	p.RandomFactor = c[3]
	p.SlowFactor = c[4]
	p.ConfusionFactor = c[5]
	p.DistanceFactor = c[6]
	return p
}

// ExtractFromParams reads the tunable values out of p.
func (pv *ParamVector) ExtractFromParams(p components.Params) []float64 {
	return []float64{
		p.RangeOfView,
		p.Strength,
		p.RepulsionFactor,
		p.RandomFactor,
		p.SlowFactor,
		p.ConfusionFactor,
		p.DistanceFactor,
	}
}

// ApplyToConfig applies parameter values to the flock section of cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	cfg.Flock.SetParams(pv.ApplyToParams(cfg.Flock.Params(), values))
	cfg.Derived.Params = cfg.Flock.Params()
}
