package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/sim"
)

func newTestServer(t *testing.T) (*Server, *Runner) {
	t.Helper()
	s := sim.New(sim.Options{
		World:        components.DefaultWorld(),
		Params:       components.DefaultParams(),
		MaxCount:     100,
		InitialCount: 20,
		InitialSpeed: 0.1,
		Seed:         7,
		StatsWindow:  1000,
	})
	t.Cleanup(s.Close)

	runner := NewRunner(s, time.Millisecond)
	return New(runner, config.ServerConfig{WriteTimeout: time.Second}), runner
}

func postJSON(t *testing.T, url string) map[string]any {
	t.Helper()
	resp, err := http.Post(url, "application/json", nil)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST %s: status %d", url, resp.StatusCode)
	}
	var status map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return status
}

func TestHTTPPauseResume(t *testing.T) {
	srv, runner := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	if got := postJSON(t, ts.URL+"/api/pause"); got["status"] != "paused" {
		t.Errorf("pause status = %v", got["status"])
	}
	if !runner.State().Paused {
		t.Error("runner not paused")
	}

	if got := postJSON(t, ts.URL+"/api/resume"); got["status"] != "running" {
		t.Errorf("resume status = %v", got["status"])
	}
	if runner.State().Paused {
		t.Error("runner still paused")
	}

	resp, err := http.Get(ts.URL + "/api/pause")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/pause status = %d, want 405", resp.StatusCode)
	}
}

func TestHTTPResetAndState(t *testing.T) {
	srv, runner := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	for i := 0; i < 3; i++ {
		runner.step()
	}
	postJSON(t, ts.URL+"/api/reset")

	resp, err := http.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var st State
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decoding state: %v", err)
	}
	if st.Frame != 0 || st.Tick != 0 {
		t.Errorf("frame=%d tick=%d after reset, want 0", st.Frame, st.Tick)
	}
	if st.Count != 20 || st.MaxCount != 100 {
		t.Errorf("count=%d max=%d, want 20/100", st.Count, st.MaxCount)
	}
	if st.Params.RangeOfView != 3 {
		t.Errorf("params.rangeOfView = %v, want 3", st.Params.RangeOfView)
	}
}

func TestRunnerPauseSkipsSteps(t *testing.T) {
	_, runner := newTestServer(t)

	runner.SetPaused(true)
	runner.step()
	if st := runner.State(); st.Tick != 0 || st.Frame != 0 {
		t.Errorf("paused runner stepped: %+v", st)
	}

	if runner.TogglePause() {
		t.Error("TogglePause should resume")
	}
	runner.step()
	if st := runner.State(); st.Tick != 1 || st.Frame != 1 {
		t.Errorf("tick=%d frame=%d, want 1", st.Tick, st.Frame)
	}
}

func TestRunnerFrame(t *testing.T) {
	_, runner := newTestServer(t)

	frame := runner.Frame()
	if len(frame.Boids) != 20 {
		t.Fatalf("frame has %d rows, want 20", len(frame.Boids))
	}
	if size := frame.Boids[0][4]; size != 7 {
		t.Errorf("size column = %v, want 7", size)
	}
}

func TestResetReportsEmptyFlock(t *testing.T) {
	srv, runner := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	runner.SetCount(0)
	runner.step()
	got := postJSON(t, ts.URL+"/api/reset")

	if got["status"] != "reset" {
		t.Errorf("status = %v, want reset", got["status"])
	}
	// Zero values are still sent
	for _, key := range []string{"boid_count", "frame"} {
		v, ok := got[key]
		if !ok {
			t.Errorf("%s missing from %v", key, got)
			continue
		}
		if v != float64(0) {
			t.Errorf("%s = %v, want 0", key, v)
		}
	}
}

func TestHandleMessage(t *testing.T) {
	srv, runner := newTestServer(t)

	msg := func(typ, data string) Envelope {
		env := Envelope{Type: typ}
		if data != "" {
			env.Data = json.RawMessage(data)
		}
		return env
	}

	tests := []struct {
		name    string
		env     Envelope
		wantErr bool
		check   func(State) bool
	}{
		{"snake case param", msg(EventUpdateParam, `{"param":"range_of_view","value":10}`), false,
			func(s State) bool { return s.Params.RangeOfView == 10 }},
		{"boolean param", msg(EventUpdateParam, `{"param":"wrap_mode","value":false}`), false,
			func(s State) bool { return !s.Params.WrapMode }},
		{"unknown param", msg(EventUpdateParam, `{"param":"gravity","value":1}`), false,
			func(s State) bool { return s.Params.RangeOfView == 10 }},
		{"string value", msg(EventUpdateParam, `{"param":"strength","value":"high"}`), true, nil},
		{"set count", msg(EventSetBoidCount, `{"count":5}`), false,
			func(s State) bool { return s.Count == 5 }},
		{"count above capacity", msg(EventSetBoidCount, `{"count":500}`), false,
			func(s State) bool { return s.Count == 100 }},
		{"bad count", msg(EventSetBoidCount, `{"count":"many"}`), true, nil},
		{"toggle pause", msg(EventPause, ""), false,
			func(s State) bool { return s.Paused }},
		{"resume", msg(EventResumeSimulation, ""), false,
			func(s State) bool { return !s.Paused }},
		{"pause", msg(EventPauseSimulation, ""), false,
			func(s State) bool { return s.Paused }},
		{"unknown type", msg("teleport", `{}`), false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := srv.handleMessage(tt.env)
			if (err != nil) != tt.wantErr {
				t.Fatalf("handleMessage error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(runner.State()) {
				t.Errorf("unexpected state %+v", runner.State())
			}
		})
	}
}

func TestWebsocketSession(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var env Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("reading init: %v", err)
	}
	if env.Type != EventInit {
		t.Fatalf("first message = %q, want init", env.Type)
	}
	var init InitData
	if err := json.Unmarshal(env.Data, &init); err != nil {
		t.Fatal(err)
	}
	if init.BoidCount != 20 || init.GridX1 != 100 || init.GridX2 != -100 || init.MaxVelocity != 1.5 {
		t.Errorf("init = %+v", init)
	}

	if err := conn.WriteJSON(Envelope{Type: EventPause}); err != nil {
		t.Fatalf("writing pause: %v", err)
	}
	for {
		var reply Envelope
		if err := conn.ReadJSON(&reply); err != nil {
			t.Fatalf("waiting for paused: %v", err)
		}
		if reply.Type != EventPaused {
			continue
		}
		var paused bool
		if err := json.Unmarshal(reply.Data, &paused); err != nil {
			t.Fatal(err)
		}
		if !paused {
			t.Error("paused broadcast = false, want true")
		}
		return
	}
}

func TestUpdateParamFloat(t *testing.T) {
	tests := []struct {
		value any
		want  float64
		ok    bool
	}{
		{2.5, 2.5, true},
		{true, 1, true},
		{false, 0, true},
		{"x", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := UpdateParam{Value: tt.value}.Float()
		if got != tt.want || ok != tt.ok {
			t.Errorf("Float(%v) = %v, %v; want %v, %v", tt.value, got, ok, tt.want, tt.ok)
		}
	}
}
