package sim

import (
	"strings"

	"github.com/pthm-cable/flock/systems"
)

// ParamID names one shared flocking parameter.
type ParamID int

// Parameters settable through the control surface.
const (
	ParamMaxVelocity ParamID = iota
	ParamMinVelocity
	ParamRangeOfView
	ParamStrength
	ParamRepulsionFactor
	ParamRandomFactor
	ParamSlowFactor
	ParamConfusionFactor
	ParamDistanceFactor
	ParamDefaultSize
	ParamWrapMode
	NumParams
)

var paramNames = [NumParams]string{
	ParamMaxVelocity:     "maxVelocity",
	ParamMinVelocity:     "minVelocity",
	ParamRangeOfView:     "rangeOfView",
	ParamStrength:        "strength",
	ParamRepulsionFactor: "repulsionFactor",
	ParamRandomFactor:    "randomFactor",
	ParamSlowFactor:      "slowFactor",
	ParamConfusionFactor: "confusionFactor",
	ParamDistanceFactor:  "distanceFactor",
	ParamDefaultSize:     "defaultSize",
	ParamWrapMode:        "wrapMode",
}

// paramLookup maps both the camelCase and snake_case spelling of each name.
var paramLookup = func() map[string]ParamID {
	m := make(map[string]ParamID, 2*int(NumParams))
	for id := ParamID(0); id < NumParams; id++ {
		m[paramNames[id]] = id
		m[id.SnakeName()] = id
	}
	return m
}()

// String returns the camelCase parameter name.
func (id ParamID) String() string {
	if id < 0 || id >= NumParams {
		return "unknown"
	}
	return paramNames[id]
}

// SnakeName returns the snake_case parameter name, e.g. "range_of_view".
func (id ParamID) SnakeName() string {
	name := id.String()
	var b strings.Builder
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseParam resolves a parameter name in either spelling.
func ParseParam(name string) (ParamID, bool) {
	id, ok := paramLookup[name]
	return id, ok
}

// SetParameter sets a parameter by name. Unknown names are ignored.
// For wrapMode any non-zero value selects wrap.
func (s *Simulation) SetParameter(name string, value float64) {
	id, ok := ParseParam(name)
	if !ok {
		return
	}
	s.SetParam(id, value)
}

// SetParam sets one parameter. The new value takes effect at the next step.
func (s *Simulation) SetParam(id ParamID, value float64) {
	p := &s.params
	switch id {
	case ParamMaxVelocity:
		p.MaxVelocity = value
	case ParamMinVelocity:
		p.MinVelocity = value
	case ParamRangeOfView:
		p.RangeOfView = value
		s.recomputeGrid()
	case ParamStrength:
		p.Strength = value
	case ParamRepulsionFactor:
		p.RepulsionFactor = value
	case ParamRandomFactor:
		p.RandomFactor = value
	case ParamSlowFactor:
		p.SlowFactor = value
	case ParamConfusionFactor:
		p.ConfusionFactor = value
	case ParamDistanceFactor:
		p.DistanceFactor = value
	case ParamDefaultSize:
		p.DefaultSize = value
		s.applyDefaultSize()
	case ParamWrapMode:
		p.WrapMode = value != 0
	}
}

// SetWrapMode selects the boundary policy: wrap when true, bounce otherwise.
func (s *Simulation) SetWrapMode(wrap bool) {
	s.params.WrapMode = wrap
}

// Param returns the current value of one parameter. wrapMode reads as 0 or 1.
func (s *Simulation) Param(id ParamID) float64 {
	p := s.params
	switch id {
	case ParamMaxVelocity:
		return p.MaxVelocity
	case ParamMinVelocity:
		return p.MinVelocity
	case ParamRangeOfView:
		return p.RangeOfView
	case ParamStrength:
		return p.Strength
	case ParamRepulsionFactor:
		return p.RepulsionFactor
	case ParamRandomFactor:
		return p.RandomFactor
	case ParamSlowFactor:
		return p.SlowFactor
	case ParamConfusionFactor:
		return p.ConfusionFactor
	case ParamDistanceFactor:
		return p.DistanceFactor
	case ParamDefaultSize:
		return p.DefaultSize
	case ParamWrapMode:
		if p.WrapMode {
			return 1
		}
	}
	return 0
}

// recomputeGrid rederives the cell layout after a range-of-view change.
// Agents are not moved; the next step rebuilds the index.
func (s *Simulation) recomputeGrid() {
	s.grid = systems.NewGridParams(s.world, s.params.RangeOfView)
}

// applyDefaultSize overwrites the size of every active agent.
func (s *Simulation) applyDefaultSize() {
	for i := 0; i < s.count; i++ {
		s.size[i] = s.params.DefaultSize
	}
}
