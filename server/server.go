package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/flock/config"
)

// Server exposes a Runner over HTTP and websockets.
type Server struct {
	runner   *Runner
	hub      *hub
	cfg      config.ServerConfig
	upgrader websocket.Upgrader
}

// New creates a server for runner.
func New(runner *Runner, cfg config.ServerConfig) *Server {
	return &Server{
		runner: runner,
		hub:    newHub(cfg.WriteTimeout),
		cfg:    cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/pause", s.handlePause)
	mux.HandleFunc("POST /api/resume", s.handleResume)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

// Run steps the simulation, broadcasts frames and serves HTTP until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.Handler()}

	// The runner must be stopped before the caller releases the simulation
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	wg.Add(2)
	go func() {
		defer wg.Done()
		s.runner.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		s.broadcastLoop(ctx)
	}()

	errc := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

func (s *Server) broadcastLoop(ctx context.Context) {
	interval := s.cfg.BroadcastInterval
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.hub.count() == 0 {
				continue
			}
			s.broadcast(EventBoids, s.runner.Frame())
		}
	}
}

func (s *Server) broadcast(typ string, data any) {
	env, err := NewEnvelope(typ, data)
	if err != nil {
		slog.Error("encoding broadcast", "type", typ, "error", err)
		return
	}
	s.hub.broadcast(env)
}

func (s *Server) pause() RunStatus {
	s.runner.SetPaused(true)
	status := RunStatus{Status: "paused"}
	s.broadcast(EventSimulationPaused, status)
	return status
}

func (s *Server) resume() RunStatus {
	s.runner.SetPaused(false)
	status := RunStatus{Status: "running"}
	s.broadcast(EventSimulationResumed, status)
	return status
}

func (s *Server) reset() StatusData {
	st := s.runner.Reset()
	status := StatusData{Status: "reset", BoidCount: st.Count, Frame: st.Frame}
	s.broadcast(EventSimulationReset, status)
	return status
}

func (s *Server) handlePause(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.pause())
}

func (s *Server) handleResume(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.resume())
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.reset())
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.runner.State())
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := s.hub.register(conn)
	defer s.hub.unregister(c)

	if env, err := NewEnvelope(EventInit, s.runner.Init()); err == nil {
		s.hub.sendTo(c, env)
	}

	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("websocket read failed", "error", err)
			}
			return
		}
		if err := s.handleMessage(env); err != nil {
			slog.Warn("bad client message", "type", env.Type, "error", err)
		}
	}
}

// handleMessage applies one client message. Unknown types are ignored.
func (s *Server) handleMessage(env Envelope) error {
	switch env.Type {
	case EventPause:
		s.broadcast(EventPaused, s.runner.TogglePause())

	case EventUpdateParam:
		var msg UpdateParam
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			return fmt.Errorf("decoding %s: %w", env.Type, err)
		}
		value, ok := msg.Float()
		if !ok {
			return fmt.Errorf("param %q: value %v is not a number or boolean", msg.Param, msg.Value)
		}
		s.runner.SetParameter(msg.Param, value)

	case EventSetBoidCount:
		var msg SetBoidCount
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			return fmt.Errorf("decoding %s: %w", env.Type, err)
		}
		s.runner.SetCount(msg.Count)

	case EventPauseSimulation:
		s.pause()
	case EventResumeSimulation:
		s.resume()
	case EventResetSimulation:
		s.reset()
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("writing response", "error", err)
	}
}
