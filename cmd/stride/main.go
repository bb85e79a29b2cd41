package main

import (
	"context"
	"flag"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/Versifine/stride/internal/body"
	"github.com/Versifine/stride/internal/config"
	"github.com/Versifine/stride/internal/debug"
	"github.com/Versifine/stride/internal/event"
	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/locomotion"
	"github.com/Versifine/stride/internal/logger"
	"github.com/Versifine/stride/internal/sim"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration")
	console := flag.Bool("debug", false, "drive the character from the terminal")
	realtime := flag.Bool("realtime", false, "run the script at the configured tick rate instead of as fast as possible")
	watch := flag.Bool("watch", false, "reload locomotion settings when the config file changes")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logCfg := logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	if cfg.Logging.File != "" {
		f, err := logger.OpenFile(cfg.Logging.File)
		if err != nil {
			slog.Error("Failed to open log file", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		logCfg.Output = f
	}
	logger.Init(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := event.NewBus()
	char, err := newCharacter(cfg, bus)
	if err != nil {
		slog.Error("Failed to build character", "error", err)
		os.Exit(1)
	}
	stats := subscribeStats(bus)

	if *watch {
		go func() {
			err := config.Watch(ctx, *configPath, func(next *config.Config) {
				if err := char.Reconfigure(next.Settings()); err != nil {
					slog.Error("Failed to apply config", "error", err)
					return
				}
				char.SetSpeeds(next.Speeds(), next.Locomotion.SpeedBlend)
				bus.Publish(event.EventConfig, event.ConfigEvent{Path: *configPath})
			})
			if err != nil {
				slog.Error("Config watcher stopped", "error", err)
			}
		}()
	}

	if *console {
		if err := debug.NewConsole(char, cfg.Simulation.TickRate).Start(ctx); err != nil {
			slog.Error("Debug console failed", "error", err)
			os.Exit(1)
		}
		return
	}

	runner := &sim.Runner{
		Character: char,
		Source:    input.NewScript(cfg.Steps()...),
		TickRate:  cfg.Simulation.TickRate,
		MaxTicks:  cfg.Simulation.Ticks,
		OnTick: func(tick int, _ input.Intent, r locomotion.Report) {
			slog.Debug("Tick", "tick", tick, "grounding", r.Grounding, "velocity", r.Velocity, "phase", r.JumpPhase)
		},
	}
	slog.Info("Simulation started", "backend", cfg.Simulation.Backend, "tick_rate", cfg.Simulation.TickRate, "steps", len(cfg.Script))
	if *realtime {
		err = runner.Run(ctx)
	} else {
		_, err = runner.RunFor(math.MaxInt)
	}
	if err != nil {
		slog.Error("Simulation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Simulation finished",
		"ticks", runner.Ticks(),
		"position", char.Position(),
		"jumps", stats.jumps,
		"landings", stats.landings,
		"snaps", stats.snaps,
	)
}

type runStats struct {
	jumps    int
	landings int
	snaps    int
}

// subscribeStats counts locomotion events. Handlers run on the tick
// goroutine.
func subscribeStats(bus *event.Bus) *runStats {
	stats := &runStats{}
	bus.Subscribe(event.EventJumped, func(any) { stats.jumps++ })
	bus.Subscribe(event.EventLanded, func(any) { stats.landings++ })
	bus.Subscribe(event.EventSnapped, func(any) { stats.snaps++ })
	bus.Subscribe(event.EventConfig, func(raw any) {
		if evt, ok := raw.(event.ConfigEvent); ok {
			slog.Info("Locomotion settings applied", "path", evt.Path)
		}
	})
	return stats
}

func newCharacter(cfg *config.Config, bus *event.Bus) (*body.Character, error) {
	opts := body.Options{
		Settings: cfg.Settings(),
		Speeds:   cfg.Speeds(),
		Blend:    cfg.Locomotion.SpeedBlend,
		Spawn:    cfg.Simulation.Spawn,
		Bus:      bus,
	}
	switch cfg.Simulation.Backend {
	case config.BackendChipmunk:
		world := buildChipmunk(cfg)
		opts.Body, opts.Prober, opts.Stepper = world, world, world
	default:
		grid, b := buildVoxel(cfg)
		opts.Body, opts.Prober, opts.Stepper = b, grid, b
	}
	return body.New(opts)
}
