package lighting

import (
	"math"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"chosenoffset.com/torchlight/internal/logger"
	"chosenoffset.com/torchlight/internal/simulation"
)

// Registry owns emitter state and animates flicker and pulse.
type Registry struct {
	emitters map[EmitterID]*Emitter
	order    []EmitterID // sorted ids, kept in step with emitters

	minInterval  time.Duration
	flickerRate  float64
	pulseRate    float64
	maxIntensity float64
	ambient      float64

	lastTick time.Time
	ticked   bool

	log *logrus.Entry
}

// NewRegistry creates an empty registry using the lighting config.
func NewRegistry(cfg simulation.LightingConfig) *Registry {
	return &Registry{
		emitters:     make(map[EmitterID]*Emitter),
		minInterval:  cfg.MinTickInterval(),
		flickerRate:  cfg.FlickerRate,
		pulseRate:    cfg.PulseRate,
		maxIntensity: cfg.MaxIntensity,
		ambient:      cfg.Ambient,
		log:          logger.Component("lighting.registry"),
	}
}

// Add stores e under id, replacing any emitter already there.
// The emitter is sanitized: colors are clamped to [0,1], the direction of a
// directional light is normalized, and the current intensity starts at the base.
func (r *Registry) Add(id EmitterID, e Emitter) {
	r.sanitize(id, &e)
	e.Intensity = r.settle(id, &e, e.BaseIntensity)

	if _, exists := r.emitters[id]; !exists {
		i, _ := slices.BinarySearch(r.order, id)
		r.order = slices.Insert(r.order, i, id)
	}
	r.emitters[id] = &e

	r.log.WithFields(logrus.Fields{
		"id":        id,
		"kind":      e.Kind,
		"x":         e.X,
		"y":         e.Y,
		"radius":    e.Radius,
		"intensity": e.BaseIntensity,
	}).Debug("light added")
}

// Remove deletes id and reports whether it existed.
func (r *Registry) Remove(id EmitterID) bool {
	if _, ok := r.emitters[id]; !ok {
		return false
	}
	delete(r.emitters, id)
	if i, found := slices.BinarySearch(r.order, id); found {
		r.order = slices.Delete(r.order, i, i+1)
	}
	r.log.WithField("id", id).Debug("light removed")
	return true
}

// Get returns the live emitter for id. Callers must not keep the pointer past
// the next Add for the same id.
func (r *Registry) Get(id EmitterID) (*Emitter, bool) {
	e, ok := r.emitters[id]
	return e, ok
}

// Len returns the number of emitters.
func (r *Registry) Len() int { return len(r.emitters) }

// IDs returns a sorted copy of the emitter ids.
func (r *Registry) IDs() []EmitterID {
	return slices.Clone(r.order)
}

// Each calls fn for every emitter in id order.
func (r *Registry) Each(fn func(id EmitterID, e *Emitter)) {
	for _, id := range r.order {
		fn(id, r.emitters[id])
	}
}

// Clear removes every emitter (called when loading a new level).
func (r *Registry) Clear() {
	clear(r.emitters)
	r.order = r.order[:0]
}

// Tick recomputes every emitter's current intensity from its flicker and pulse
// waves. Calls made sooner than the minimum interval after the last applied tick
// are ignored; Tick reports whether it did any work.
func (r *Registry) Tick(now time.Time) bool {
	if r.ticked && now.Sub(r.lastTick) < r.minInterval {
		return false
	}
	r.ticked = true
	r.lastTick = now

	for _, id := range r.order {
		e := r.emitters[id]
		elapsed := float64(now.Sub(e.CreatedAt)) / float64(time.Millisecond)
		e.Intensity = r.settle(id, e, r.intensityAt(e, elapsed))
	}
	return true
}

// intensityAt is the unclamped animated intensity elapsed ms after creation.
func (r *Registry) intensityAt(e *Emitter, elapsed float64) float64 {
	flicker := math.Sin(elapsed*r.flickerRate) * e.Flicker
	pulse := math.Sin(elapsed*r.pulseRate) * e.Pulse * 0.5
	return e.BaseIntensity + flicker + pulse
}

// settle clamps v to [0, max], replacing a non-finite value with a baseline.
func (r *Registry) settle(id EmitterID, e *Emitter, v float64) float64 {
	if finite(v) {
		return clamp(v, 0, r.maxIntensity)
	}
	baseline := r.ambient
	if finite(e.BaseIntensity) {
		baseline = clamp(e.BaseIntensity, 0, r.maxIntensity)
	}
	if !e.warned {
		e.warned = true
		r.log.WithFields(logrus.Fields{
			"id":       id,
			"value":    v,
			"baseline": baseline,
		}).Warn("non-finite light intensity replaced")
	}
	return baseline
}

func (r *Registry) sanitize(id EmitterID, e *Emitter) {
	for i, c := range e.Color {
		if !finite(c) {
			c = 1
		}
		e.Color[i] = clamp(c, 0, 1)
	}
	if !finite(e.Radius) || e.Radius < 0 {
		r.log.WithFields(logrus.Fields{"id": id, "radius": e.Radius}).Warn("invalid light radius, light disabled")
		e.Radius = 0
	}
	if !finite(e.Flicker) {
		e.Flicker = 0
	}
	if !finite(e.Pulse) {
		e.Pulse = 0
	}

	switch e.Kind {
	case KindPoint:
		e.Direction = mgl64.Vec2{}
		e.HalfAngle = 0
	case KindDirectional:
		if l := e.Direction.Len(); l == 0 || !finite(l) || !finite(e.HalfAngle) {
			r.log.WithField("id", id).Warn("directional light without a usable direction, treating as point")
			e.Kind = KindPoint
			e.Direction = mgl64.Vec2{}
			e.HalfAngle = 0
		} else {
			e.Direction = e.Direction.Normalize()
			e.HalfAngle = clamp(e.HalfAngle, 0, math.Pi)
		}
	default:
		r.log.WithFields(logrus.Fields{"id": id, "kind": e.Kind}).Warn("unknown light kind, treating as point")
		e.Kind = KindPoint
		e.Direction = mgl64.Vec2{}
		e.HalfAngle = 0
	}
}
