package game

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"chosenoffset.com/torchlight/internal/core/fog"
	"chosenoffset.com/torchlight/internal/core/occlusion"
	"chosenoffset.com/torchlight/internal/logger"
	"chosenoffset.com/torchlight/internal/render/lighting"
	"chosenoffset.com/torchlight/internal/simulation"
	"chosenoffset.com/torchlight/internal/world/maploader"
)

// PlayerLightID is the emitter id of the torch the player carries. Levels may not
// place a light under this id.
const PlayerLightID = lighting.EmitterID(maploader.PlayerLightID)

// Level is one loaded map with its lights, fog and player. Step advances it one
// frame; everything else only records intent for the next Step.
type Level struct {
	Map    *maploader.Map
	Lights *lighting.System
	Fog    *fog.Tracker
	Grid   *occlusion.Grid
	Player Player
	Camera Camera

	cfg        *simulation.Config
	tileSize   float64
	torchColor lighting.Color
	viewW      float64
	viewH      float64

	log *logrus.Entry
}

// NewLevel builds the lighting system and fog tracker for m. The map's tile size
// overrides the configured one.
func NewLevel(cfg *simulation.Config, m *maploader.Map, opts ...lighting.SystemOption) (*Level, error) {
	grid, err := m.Grid()
	if err != nil {
		return nil, fmt.Errorf("failed to build occlusion grid for %s: %w", m.Data.Name, err)
	}

	torchColor, err := lighting.ParseHexColor(cfg.Player.Color)
	if err != nil {
		return nil, fmt.Errorf("player light: %w", err)
	}

	lc := cfg.Lighting
	lc.TileSize = m.Data.TileSize
	tileSize := float64(m.Data.TileSize)

	l := &Level{
		Map:        m,
		Lights:     lighting.NewSystem(lc, opts...),
		Fog:        fog.NewTracker(m.Data.Width, m.Data.Height, tileSize),
		Grid:       grid,
		cfg:        cfg,
		tileSize:   tileSize,
		torchColor: torchColor,
		viewW:      float64(cfg.Display.ScreenWidth),
		viewH:      float64(cfg.Display.ScreenHeight),
		log:        logger.Component("level"),
		Player: Player{
			TileX:   m.Data.PlayerSpawn.X,
			TileY:   m.Data.PlayerSpawn.Y,
			Facing:  DirEast,
			TorchOn: true,
		},
	}
	l.Lights.SetOcclusionGrid(grid)
	m.PlaceLights(l.Lights)

	l.log.WithFields(logrus.Fields{
		"name":   m.Data.Name,
		"width":  m.Data.Width,
		"height": m.Data.Height,
		"lights": l.Lights.Len(),
	}).Info("level loaded")
	return l, nil
}

// SetViewSize sets the size of the visible area in world units.
func (l *Level) SetViewSize(w, h float64) {
	l.viewW, l.viewH = w, h
}

// ViewSize returns the size of the visible area in world units.
func (l *Level) ViewSize() (float64, float64) {
	return l.viewW, l.viewH
}

// TileSize returns world units per tile.
func (l *Level) TileSize() float64 { return l.tileSize }

// PlayerPosition returns the center of the player's tile in world units.
func (l *Level) PlayerPosition() (float64, float64) {
	return occlusion.TileCenter(l.Player.TileX, l.Player.TileY, l.tileSize)
}

// Step advances the level to now: the torch follows the player, emitters animate,
// the camera moves, the light map is rebuilt for the view and fog is updated.
func (l *Level) Step(now time.Time) {
	l.syncTorch()
	l.Lights.Tick(now)

	px, py := l.PlayerPosition()
	worldW := float64(l.Map.Data.Width) * l.tileSize
	worldH := float64(l.Map.Data.Height) * l.tileSize
	l.Camera.Follow(px, py, l.viewW, l.viewH, worldW, worldH)

	l.Lights.Recompute(l.Camera.Viewport(l.viewW, l.viewH))
	l.Fog.UpdateVisibility(px, py, l.cfg.Fog.Radius)
}

// MovePlayer turns the player to face dir and steps if the target is floor.
// It reports whether the player moved.
func (l *Level) MovePlayer(dir Direction) bool {
	if dir == DirNone {
		return false
	}
	l.Player.Facing = dir
	nx, ny := l.Player.TileX+dir.DX, l.Player.TileY+dir.DY
	if !l.Map.IsWalkable(nx, ny) {
		return false
	}
	l.Player.TileX, l.Player.TileY = nx, ny
	return true
}

// ToggleTorch switches the player's light and returns the new state.
func (l *Level) ToggleTorch() bool {
	l.Player.TorchOn = !l.Player.TorchOn
	return l.Player.TorchOn
}

// syncTorch keeps the player emitter in step with Player.
func (l *Level) syncTorch() {
	if !l.Player.TorchOn {
		l.Lights.RemoveLight(PlayerLightID)
		return
	}

	px, py := l.PlayerPosition()
	if _, ok := l.Lights.Emitter(PlayerLightID); !ok {
		p := l.cfg.Player
		e := lighting.Emitter{
			X:             px,
			Y:             py,
			Radius:        p.Radius * l.tileSize,
			Color:         l.torchColor,
			BaseIntensity: p.Intensity,
			Flicker:       p.Flicker,
			Pulse:         p.Pulse,
			Kind:          lighting.KindPoint,
		}
		if p.ConeDegrees > 0 {
			e.Kind = lighting.KindDirectional
			e.Direction = facingVector(l.Player.Facing)
			e.HalfAngle = p.ConeHalfAngle()
		}
		l.Lights.AddWorldLight(PlayerLightID, e)
		return
	}

	l.Lights.MoveLight(PlayerLightID, px, py)
	f := facingVector(l.Player.Facing)
	l.Lights.AimLight(PlayerLightID, f[0], f[1])
}

func facingVector(d Direction) mgl64.Vec2 {
	return mgl64.Vec2{float64(d.DX), float64(d.DY)}
}

// LightAtTile returns the buffered light for a tile.
func (l *Level) LightAtTile(tx, ty int) lighting.Cell {
	c, _ := l.Lights.Cell(tx, ty)
	return c
}

// SaveFog writes the explored grid to path.
func (l *Level) SaveFog(path string) error {
	if err := l.Fog.Save(path); err != nil {
		return err
	}
	l.log.WithFields(logrus.Fields{
		"path":     path,
		"explored": l.Fog.ExploredCount(),
	}).Info("fog saved")
	return nil
}

// LoadFog restores an explored grid written by SaveFog.
func (l *Level) LoadFog(path string) error {
	if err := l.Fog.Load(path); err != nil {
		return err
	}
	l.log.WithFields(logrus.Fields{
		"path":     path,
		"explored": l.Fog.ExploredCount(),
	}).Info("fog restored")
	return nil
}
