// Package game runs the interactive flocking viewer and the headless loop
// that share one simulation and telemetry pipeline.
package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/camera"
	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/renderer"
	"github.com/pthm-cable/flock/sim"
	"github.com/pthm-cable/flock/telemetry"
	"github.com/pthm-cable/flock/ui"
)

// maxStepsPerUpdate caps the speed multiplier.
const maxStepsPerUpdate = 64

// Options configures a Game.
type Options struct {
	Seed           int64
	LogStats       bool
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
}

// Game holds the simulation plus everything needed to show it.
type Game struct {
	sim *sim.Simulation

	// Rendering (nil when headless)
	camera             *camera.Camera
	agentRenderer      *renderer.AgentRenderer
	backgroundRenderer *renderer.BackgroundRenderer

	// UI
	hud        *ui.HUD
	controls   *ui.ControlsPanel
	statsPanel *ui.StatsPanel
	perfPanel  *ui.PerfPanel
	overlays   *ui.OverlayRegistry

	// Telemetry
	logStats      bool
	outputManager *telemetry.OutputManager
	lastStats     telemetry.WindowStats

	agents         []components.Agent
	paused         bool
	stepsPerUpdate int

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game from the global config.
// A window must already be open unless opts.Headless is set.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()

	g := &Game{
		logStats:       opts.LogStats,
		stepsPerUpdate: max(1, min(opts.StepsPerUpdate, maxStepsPerUpdate)),
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	} else if om != nil {
		g.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
	}

	simOpts := sim.OptionsFromConfig(cfg)
	simOpts.Seed = opts.Seed
	simOpts.OnWindow = g.flushTelemetry
	g.sim = sim.New(simOpts)

	if !opts.Headless {
		g.initView(cfg)
	}
	return g
}

// initView builds the camera, renderers and panels for the current window size.
func (g *Game) initView(cfg *config.Config) {
	g.screenWidth = float32(rl.GetScreenWidth())
	g.screenHeight = float32(rl.GetScreenHeight())

	p := g.sim.Params()
	g.camera = camera.New(g.screenWidth, g.screenHeight, g.sim.World())
	g.camera.Wrap = p.WrapMode
	g.agentRenderer = renderer.NewAgentRenderer(p.MinVelocity, p.MaxVelocity)
	g.backgroundRenderer = renderer.NewBackgroundRenderer()

	g.hud = ui.NewHUD()
	g.overlays = ui.NewOverlayRegistry()
	g.controls = ui.NewControlsPanel(int32(g.screenWidth)-panelWidth-10, 10, panelWidth)
	g.statsPanel = ui.NewStatsPanel(10, 80, statsWidth)
	g.perfPanel = ui.NewPerfPanel(10, 300, statsWidth)
}

// Update advances the simulation by one frame's worth of steps and handles input.
func (g *Game) Update() {
	g.handleInput()

	if !g.paused {
		for i := 0; i < g.stepsPerUpdate; i++ {
			g.sim.Step()
		}
	}
	g.agents = g.sim.AppendSnapshot(g.agents[:0])
}

// UpdateHeadless advances the simulation without touching raylib.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.sim.Step()
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 {
	return g.sim.Tick()
}

// Simulation returns the underlying simulation.
func (g *Game) Simulation() *sim.Simulation {
	return g.sim
}

// Unload releases resources.
func (g *Game) Unload() {
	g.sim.Close()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
