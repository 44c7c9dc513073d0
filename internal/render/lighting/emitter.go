// Package lighting maintains light emitters and the per-tile light map.
package lighting

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// EmitterID identifies a light, e.g. "player" or a torch's placement id.
type EmitterID string

// Kind is the closed set of emitter shapes.
type Kind uint8

const (
	// KindPoint lights every direction equally.
	KindPoint Kind = iota
	// KindDirectional lights a cone around Direction.
	KindDirectional
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindDirectional:
		return "directional"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Color is a normalized RGB triple.
type Color [3]float64

// TorchColor is the warm orange used when a light has no color of its own.
var TorchColor = Color{1, 200.0 / 255, 100.0 / 255}

// Emitter is one light source in world space (pixels).
type Emitter struct {
	X, Y          float64
	Radius        float64 // World units
	Color         Color
	BaseIntensity float64
	Intensity     float64 // Current value, recomputed by Registry.Tick
	Flicker       float64 // Amplitude of the fast wave
	Pulse         float64 // Amplitude of the slow wave
	CreatedAt     time.Time

	Kind      Kind
	Direction mgl64.Vec2 // Unit vector, only for KindDirectional
	HalfAngle float64    // Radians, only for KindDirectional

	warned bool
}

// Bounds returns the emitter's square of influence grown by pad world units.
func (e *Emitter) Bounds(pad float64) (minX, minY, maxX, maxY float64) {
	r := e.Radius + pad
	return e.X - r, e.Y - r, e.X + r, e.Y + r
}

// ParseHexColor parses "RRGGBB" or "#RRGGBB" into a normalized color.
func ParseHexColor(s string) (Color, error) {
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid light color %q: %w", s, err)
	}
	return Color{c.R, c.G, c.B}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
