package lighting

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"chosenoffset.com/torchlight/internal/core/occlusion"
	"chosenoffset.com/torchlight/internal/logger"
	"chosenoffset.com/torchlight/internal/simulation"
)

// System is the lighting engine for one level: the emitter registry, the viewport
// cache and the light map behind one lock. Mutations take the write lock, so a
// reader on another goroutine only ever sees the buffer between two passes.
type System struct {
	mu deadlock.RWMutex

	tileSize   float64
	liveBuffer float64
	now        func() time.Time

	registry *Registry
	viewport *ViewportCache
	lightMap *LightMap

	log *logrus.Entry
}

// SystemOption customizes a System.
type SystemOption func(*System)

// WithClock replaces time.Now as the source of creation timestamps.
func WithClock(now func() time.Time) SystemOption {
	return func(s *System) { s.now = now }
}

// NewSystem builds a System from the lighting config. Until SetOcclusionGrid is
// called the light map uses the default map size and nothing blocks light.
func NewSystem(cfg simulation.LightingConfig, opts ...SystemOption) *System {
	tileSize := float64(cfg.TileSize)
	s := &System{
		tileSize:   tileSize,
		liveBuffer: cfg.LiveBuffer,
		now:        time.Now,
		registry:   NewRegistry(cfg),
		viewport:   NewViewportCache(),
		lightMap:   NewLightMap(cfg.DefaultMapWidth, cfg.DefaultMapHeight, tileSize, cfg.Ambient, NewConeModel(cfg)),
		log:        logger.Component("lighting"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LightOption adjusts an emitter created by AddLight.
type LightOption func(*Emitter)

// WithDirection makes the light a cone facing (dx, dy) with the given half-angle
// in radians.
func WithDirection(dx, dy, halfAngle float64) LightOption {
	return func(e *Emitter) {
		e.Kind = KindDirectional
		e.Direction = mgl64.Vec2{dx, dy}
		e.HalfAngle = halfAngle
	}
}

// WithCreatedAt pins the phase origin of the flicker and pulse waves.
func WithCreatedAt(t time.Time) LightOption {
	return func(e *Emitter) { e.CreatedAt = t }
}

// AddLight places a light at the center of tile (tileX, tileY). The radius is in
// tiles. An existing light with the same id is replaced.
func (s *System) AddLight(id EmitterID, tileX, tileY int, radiusTiles float64, color Color, intensity, flicker, pulse float64, opts ...LightOption) {
	x, y := occlusion.TileCenter(tileX, tileY, s.tileSize)
	e := Emitter{
		X:             x,
		Y:             y,
		Radius:        radiusTiles * s.tileSize,
		Color:         color,
		BaseIntensity: intensity,
		Flicker:       flicker,
		Pulse:         pulse,
		Kind:          KindPoint,
	}
	for _, opt := range opts {
		opt(&e)
	}
	s.AddWorldLight(id, e)
}

// AddWorldLight stores an emitter given in world units.
func (s *System) AddWorldLight(id EmitterID, e Emitter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	s.registry.Add(id, e)
}

// RemoveLight deletes a light. Removing an unknown id is a no-op.
func (s *System) RemoveLight(id EmitterID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry.Remove(id)
}

// MoveLight repositions a light in world units. It reports whether id exists.
func (s *System) MoveLight(id EmitterID, x, y float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.registry.Get(id)
	if !ok {
		return false
	}
	e.X, e.Y = x, y
	return true
}

// AimLight turns a directional light to face (dx, dy). A zero vector or a point
// light leaves it unchanged; the result reports whether the light was turned.
func (s *System) AimLight(id EmitterID, dx, dy float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.registry.Get(id)
	if !ok {
		return false
	}
	switch e.Kind {
	case KindPoint:
		return false
	case KindDirectional:
		d := mgl64.Vec2{dx, dy}
		if d.Len() == 0 || !finite(d.Len()) {
			return false
		}
		e.Direction = d.Normalize()
		return true
	default:
		return false
	}
}

// Emitter returns a copy of the light stored under id.
func (s *System) Emitter(id EmitterID) (Emitter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.registry.Get(id)
	if !ok {
		return Emitter{}, false
	}
	return *e, true
}

// Len returns the number of lights.
func (s *System) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Len()
}

// ClearLights removes every light.
func (s *System) ClearLights() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry.Clear()
}

// Tick advances flicker and pulse. It is throttled; see Registry.Tick.
func (s *System) Tick(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Tick(now)
}

// SetOcclusionGrid installs the level's walls and resizes the light map to fit.
// Passing nil removes occlusion.
func (s *System) SetOcclusionGrid(g *occlusion.Grid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lightMap.SetGrid(g)
	if g != nil {
		s.log.WithFields(logrus.Fields{
			"width":  g.Width(),
			"height": g.Height(),
		}).Info("occlusion grid set")
	}
}

// Recompute rebuilds the light map for the tiles under vp.
func (s *System) Recompute(vp Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.Set(vp)
	live := s.viewport.Live(s.registry, s.liveBuffer)
	s.lightMap.Recompute(vp, live)
}

// RecomputeAll rebuilds the whole light map regardless of the camera.
func (s *System) RecomputeAll() {
	s.Recompute(Viewport{
		W: float64(s.MapWidth()) * s.tileSize,
		H: float64(s.MapHeight()) * s.tileSize,
	})
}

// IsLive reports whether id could reach the viewport at the last recompute.
func (s *System) IsLive(id EmitterID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewport.IsLive(id)
}

// LiveCount returns how many lights took part in the last recompute.
func (s *System) LiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewport.LiveCount()
}

// Cell returns the buffered light for tile (tx, ty).
func (s *System) Cell(tx, ty int) (Cell, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lightMap.At(tx, ty)
}

// CopyCells copies the whole light map into dst.
func (s *System) CopyCells(dst []Cell) []Cell {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lightMap.CopyCells(dst)
}

// LightAt evaluates every light at the exact world point.
func (s *System) LightAt(x, y float64) Cell {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lightMap.Sample(x, y, func(fn func(e *Emitter)) {
		s.registry.Each(func(_ EmitterID, e *Emitter) { fn(e) })
	})
}

// LightIntensity returns the intensity at a world point, in [0, MaxIntensity].
func (s *System) LightIntensity(x, y float64) float64 {
	return s.LightAt(x, y).Intensity
}

// LightColor returns the intensity-scaled color at a world point.
func (s *System) LightColor(x, y float64) (r, g, b float64) {
	c := s.LightAt(x, y)
	return c.R, c.G, c.B
}

// TileSize returns world units per tile.
func (s *System) TileSize() float64 { return s.tileSize }

// MapWidth returns the light map width in tiles.
func (s *System) MapWidth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lightMap.Width()
}

// MapHeight returns the light map height in tiles.
func (s *System) MapHeight() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lightMap.Height()
}
