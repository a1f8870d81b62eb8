package server

import "encoding/json"

// Event names carried in the websocket envelope.
const (
	EventInit              = "init"
	EventBoids             = "boids"
	EventPaused            = "paused"
	EventSimulationPaused  = "simulation_paused"
	EventSimulationResumed = "simulation_resumed"
	EventSimulationReset   = "simulation_reset"

	EventPause            = "pause"
	EventUpdateParam      = "update_param"
	EventSetBoidCount     = "set_boid_count"
	EventPauseSimulation  = "pause_simulation"
	EventResumeSimulation = "resume_simulation"
	EventResetSimulation  = "reset_simulation"
)

// Envelope is one websocket message in either direction.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope encodes data under the given event type.
func NewEnvelope(typ string, data any) (Envelope, error) {
	env := Envelope{Type: typ}
	if data == nil {
		return env, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return env, err
	}
	env.Data = raw
	return env, nil
}

// InitData is sent to each client on connect.
// The x1/y1 pair is the upper corner and x2/y2 the lower corner.
type InitData struct {
	BoidCount   int     `json:"boid_count"`
	GridX1      float64 `json:"grid_x1"`
	GridY1      float64 `json:"grid_y1"`
	GridX2      float64 `json:"grid_x2"`
	GridY2      float64 `json:"grid_y2"`
	MaxVelocity float64 `json:"max_velocity"`
	MinVelocity float64 `json:"min_velocity"`
}

// BoidsData is one broadcast frame: rows of [x, y, vx, vy, size].
type BoidsData struct {
	Boids  [][5]float64 `json:"b"`
	Frame  int64        `json:"f"`
	Paused bool         `json:"p"`
}

// RunStatus acknowledges pause and resume.
type RunStatus struct {
	Status string `json:"status"`
}

// StatusData acknowledges a reset. Both counters are always sent.
type StatusData struct {
	Status    string `json:"status"`
	BoidCount int    `json:"boid_count"`
	Frame     int64  `json:"frame"`
}

// UpdateParam is a client request to change one parameter.
// Value is a number, or a boolean for wrap mode.
type UpdateParam struct {
	Param string `json:"param"`
	Value any    `json:"value"`
}

// Float returns the numeric form of Value. Booleans map to 0 and 1.
func (u UpdateParam) Float() (float64, bool) {
	switch v := u.Value.(type) {
	case float64:
		return v, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// SetBoidCount is a client request to change the population.
type SetBoidCount struct {
	Count int `json:"count"`
}
