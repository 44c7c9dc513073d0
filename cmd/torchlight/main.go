package main

import (
	"errors"
	"flag"
	"os"

	"chosenoffset.com/torchlight/internal/game"
	"chosenoffset.com/torchlight/internal/logger"
	ebitenrender "chosenoffset.com/torchlight/internal/render/ebiten"
	"chosenoffset.com/torchlight/internal/simulation"
	"chosenoffset.com/torchlight/internal/world/maploader"
)

func main() {
	configPath := flag.String("config", "torchlight.json", "Lighting config file (defaults are used if missing)")
	mapPath := flag.String("map", "", "Level file to load (built-in crypt if empty)")
	fogPath := flag.String("fog", "", "Explored-map file: restored at start if present, written with F")
	flag.Parse()

	logger.Init()
	log := logger.Component("main")

	cfg, err := simulation.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	m, err := loadMap(*mapPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load map")
	}

	level, err := game.NewLevel(cfg, m)
	if err != nil {
		log.WithError(err).Fatal("failed to build level")
	}
	if *fogPath != "" {
		if _, statErr := os.Stat(*fogPath); statErr == nil {
			if err := level.LoadFog(*fogPath); err != nil {
				log.WithError(err).Warn("ignoring explored-map file")
			}
		}
	}

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	g := game.NewGame(level, renderer, inputMgr, cfg.Display.ScreenWidth, cfg.Display.ScreenHeight)
	g.FogPath = *fogPath

	// Set up the window
	engine.SetWindowSize(cfg.Display.ScreenWidth, cfg.Display.ScreenHeight)
	engine.SetWindowTitle("Torchlight - " + m.Data.Name)
	engine.SetWindowResizable(true)

	log.Info("starting game")
	if err := engine.RunGame(g); err != nil && !errors.Is(err, game.ErrQuit) {
		log.WithError(err).Fatal("game exited")
	}
}

func loadMap(path string) (*maploader.Map, error) {
	if path == "" {
		return maploader.Default()
	}
	return maploader.LoadMap(path)
}
