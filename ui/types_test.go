package ui

import (
	"testing"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/sim"
)

func TestDefaultSlidersCoverParams(t *testing.T) {
	seen := make(map[sim.ParamID]bool)
	p := components.DefaultParams()
	defaults := map[sim.ParamID]float64{
		sim.ParamMaxVelocity:     p.MaxVelocity,
		sim.ParamMinVelocity:     p.MinVelocity,
		sim.ParamRangeOfView:     p.RangeOfView,
		sim.ParamStrength:        p.Strength,
		sim.ParamRepulsionFactor: p.RepulsionFactor,
		sim.ParamRandomFactor:    p.RandomFactor,
		sim.ParamSlowFactor:      p.SlowFactor,
		sim.ParamConfusionFactor: p.ConfusionFactor,
		sim.ParamDistanceFactor:  p.DistanceFactor,
		sim.ParamDefaultSize:     p.DefaultSize,
	}

	for _, sd := range DefaultSliders() {
		if seen[sd.Param] {
			t.Errorf("%v has two sliders", sd.Param)
		}
		seen[sd.Param] = true

		if sd.Min >= sd.Max {
			t.Errorf("%v: empty range [%v, %v]", sd.Param, sd.Min, sd.Max)
		}
		if v := float32(defaults[sd.Param]); v < sd.Min || v > sd.Max {
			t.Errorf("%v: default %v outside [%v, %v]", sd.Param, v, sd.Min, sd.Max)
		}
	}

	for id := sim.ParamID(0); id < sim.NumParams; id++ {
		if id != sim.ParamWrapMode && !seen[id] {
			t.Errorf("%v has no slider", id)
		}
	}
}

func TestSliderRangeCoversValue(t *testing.T) {
	sd := SliderDescriptor{Param: sim.ParamRangeOfView, Min: 1, Max: 20}

	tests := []struct {
		name   string
		value  float32
		lo, hi float32
	}{
		{"inside", 3, 1, 20},
		{"above max", 30, 1, 30},
		{"below min", 0.5, 0.5, 20},
		{"on bound", 20, 1, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := sd.Range(tt.value)
			if lo != tt.lo || hi != tt.hi {
				t.Errorf("Range(%v) = [%v, %v], want [%v, %v]", tt.value, lo, hi, tt.lo, tt.hi)
			}
			if tt.value < lo || tt.value > hi {
				t.Errorf("value %v outside [%v, %v]", tt.value, lo, hi)
			}
		})
	}
}
