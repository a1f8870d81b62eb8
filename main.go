package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/game"
	"github.com/pthm-cable/flock/server"
	"github.com/pthm-cable/flock/termview"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	serveAddr := flag.String("serve", "", "Stream the simulation over websocket on this address (e.g. :5000)")
	term := flag.Bool("term", false, "Render in the terminal instead of a window")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		Headless:       *headless || *serveAddr != "" || *term,
		StepsPerUpdate: *stepsPerUpdate,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *serveAddr != "":
		runServer(ctx, opts, cfg, *serveAddr)
	case *term:
		runTerm(ctx, opts)
	case *headless:
		runHeadless(ctx, opts, *maxTicks)
	default:
		runWindow(opts, cfg, *maxTicks)
	}
}

// runHeadless steps the simulation with no output beyond telemetry.
func runHeadless(ctx context.Context, opts game.Options, maxTicks int) {
	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	for ctx.Err() == nil {
		g.UpdateHeadless()

		if maxTicks > 0 && g.Tick() >= int64(maxTicks) {
			slog.Info("max ticks reached", "tick", g.Tick())
			return
		}
	}
	slog.Info("interrupted", "tick", g.Tick())
}

// runServer streams the simulation to websocket clients until interrupted.
func runServer(ctx context.Context, opts game.Options, cfg *config.Config, addr string) {
	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	srvCfg := cfg.Server
	srvCfg.Addr = addr

	runner := server.NewRunner(g.Simulation(), srvCfg.TickInterval)
	srv := server.New(runner, srvCfg)

	slog.Info("starting server", "addr", addr, "seed", opts.Seed)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// runTerm renders the flock as terminal cells.
func runTerm(ctx context.Context, opts game.Options) {
	screen, err := tcell.NewScreen()
	if err != nil {
		slog.Error("failed to create terminal screen", "error", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		slog.Error("failed to initialize terminal screen", "error", err)
		os.Exit(1)
	}

	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	v := termview.New(screen, g.Simulation())
	v.StepsPerFrame = max(1, opts.StepsPerUpdate)
	err = v.Run(ctx)
	screen.Fini()
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("terminal viewer stopped", "error", err)
	}
}

// runWindow opens the raylib viewer.
func runWindow(opts game.Options, cfg *config.Config, maxTicks int) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Flock")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if maxTicks > 0 && g.Tick() >= int64(maxTicks) {
			break
		}
	}
}
