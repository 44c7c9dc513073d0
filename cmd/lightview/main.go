// Command lightview explores a level in the terminal, painting the light map as
// cell colors.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/torchlight/internal/game"
	"chosenoffset.com/torchlight/internal/logger"
	"chosenoffset.com/torchlight/internal/render/terminal"
	"chosenoffset.com/torchlight/internal/simulation"
	"chosenoffset.com/torchlight/internal/world/maploader"
)

func main() {
	configPath := flag.String("config", "torchlight.json", "Lighting config file (defaults are used if missing)")
	mapPath := flag.String("map", "", "Level file to load (built-in crypt if empty)")
	fogPath := flag.String("fog", "", "Explored-map file: restored at start if present, written with f")
	logPath := flag.String("log", "", "Write logs to this file (discarded if empty)")
	flag.Parse()

	if err := run(*configPath, *mapPath, *fogPath, *logPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, mapPath, fogPath, logPath string) error {
	logger.Init()
	// The terminal belongs to tcell; logs must not go to stderr.
	var out io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger.Log.SetOutput(out)

	cfg, err := simulation.LoadConfig(configPath)
	if err != nil {
		return err
	}

	var m *maploader.Map
	if mapPath == "" {
		m, err = maploader.Default()
	} else {
		m, err = maploader.LoadMap(mapPath)
	}
	if err != nil {
		return err
	}

	level, err := game.NewLevel(cfg, m)
	if err != nil {
		return err
	}
	if fogPath != "" {
		if _, statErr := os.Stat(fogPath); statErr == nil {
			if err := level.LoadFog(fogPath); err != nil {
				logger.Component("main").WithError(err).Warn("ignoring explored-map file")
			}
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	view := terminal.NewView(screen, level, cfg.Display.TickInterval())
	view.FogPath = fogPath
	if err := view.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
