package lighting

import (
	"fmt"
	"math"

	"chosenoffset.com/torchlight/internal/simulation"
)

// ConeModel attenuates directional emitters by the angle to the target.
type ConeModel struct {
	OriginOffset  float64 // How far ahead of the emitter the beam starts
	OutsideFactor float64 // Light kept outside the beam so its edge is not pitch black
	Exponent      float64 // Falloff power; above 1 gives a hot center and soft edges
}

// NewConeModel reads the cone tunables from the lighting config.
func NewConeModel(cfg simulation.LightingConfig) ConeModel {
	return ConeModel{
		OriginOffset:  cfg.ConeOffset,
		OutsideFactor: cfg.ConeOutside,
		Exponent:      cfg.ConeExponent,
	}
}

// Origin returns where the beam of e starts.
func (c ConeModel) Origin(e *Emitter) (float64, float64) {
	switch e.Kind {
	case KindPoint:
		return e.X, e.Y
	case KindDirectional:
		return e.X + e.Direction[0]*c.OriginOffset, e.Y + e.Direction[1]*c.OriginOffset
	default:
		panic(fmt.Sprintf("lighting: unhandled emitter kind %v", e.Kind))
	}
}

// Attenuate scales base for the target point (tx, ty). Point emitters are returned
// unchanged.
func (c ConeModel) Attenuate(e *Emitter, tx, ty, base float64) float64 {
	switch e.Kind {
	case KindPoint:
		return base
	case KindDirectional:
		ox, oy := c.Origin(e)
		toTarget := math.Atan2(ty-oy, tx-ox)
		facing := math.Atan2(e.Direction[1], e.Direction[0])
		diff := AngleBetween(toTarget, facing)
		if diff > e.HalfAngle || e.HalfAngle <= 0 {
			return base * c.OutsideFactor
		}
		return base * math.Pow(1-diff/e.HalfAngle, c.Exponent)
	default:
		panic(fmt.Sprintf("lighting: unhandled emitter kind %v", e.Kind))
	}
}

// AngleBetween returns the absolute difference of two angles folded into [0, pi].
func AngleBetween(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}
