package lighting

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func deg(d float64) float64 { return d * math.Pi / 180 }

func TestAngleBetween(t *testing.T) {
	cases := []struct {
		name string
		a, b float64
		want float64
	}{
		{"same", 1, 1, 0},
		{"quarter", 0, math.Pi / 2, math.Pi / 2},
		{"wraps across pi", math.Pi - 0.1, -math.Pi + 0.1, 0.2},
		{"opposite", 0, math.Pi, math.Pi},
		{"more than a turn", 0, 2*math.Pi + 0.3, 0.3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AngleBetween(tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("AngleBetween(%v,%v) = %v; want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestConePointLightUnchanged(t *testing.T) {
	c := ConeModel{OriginOffset: 12, OutsideFactor: 0.03, Exponent: 1.5}
	e := &Emitter{X: 10, Y: 10, Kind: KindPoint}
	if got := c.Attenuate(e, -50, 300, 0.7); got != 0.7 {
		t.Errorf("Expected point light to pass through, got %v", got)
	}
}

func TestConeFalloff(t *testing.T) {
	c := ConeModel{OriginOffset: 0, OutsideFactor: 0.03, Exponent: 1.5}
	e := &Emitter{Kind: KindDirectional, Direction: mgl64.Vec2{1, 0}, HalfAngle: deg(30)}
	at := func(d float64) float64 {
		return c.Attenuate(e, 100*math.Cos(deg(d)), 100*math.Sin(deg(d)), 1)
	}

	if got := at(0); math.Abs(got-1) > 1e-12 {
		t.Errorf("Expected full light on axis, got %v", got)
	}
	want10 := math.Pow(1-10.0/30.0, 1.5)
	if got := at(10); math.Abs(got-want10) > 1e-9 {
		t.Errorf("Expected %v at 10 degrees, got %v", want10, got)
	}
	if got := at(-10); math.Abs(got-want10) > 1e-9 {
		t.Errorf("Expected the cone to be symmetric, got %v", got)
	}
	if got := at(40); got != 0.03 {
		t.Errorf("Expected outside factor at 40 degrees, got %v", got)
	}
	if got := at(180); got != 0.03 {
		t.Errorf("Expected outside factor behind the light, got %v", got)
	}
	// Non-linear: halfway across the beam keeps less than half the light.
	if got := at(15); got >= 0.5 {
		t.Errorf("Expected falloff steeper than linear, got %v at 15 degrees", got)
	}
}

func TestConeOriginIsAheadOfEmitter(t *testing.T) {
	c := ConeModel{OriginOffset: 20, OutsideFactor: 0.03, Exponent: 1.5}
	e := &Emitter{X: 0, Y: 0, Kind: KindDirectional, Direction: mgl64.Vec2{0, 1}, HalfAngle: deg(20)}
	ox, oy := c.Origin(e)
	if ox != 0 || oy != 20 {
		t.Errorf("Expected origin (0,20), got (%v,%v)", ox, oy)
	}
	// A point beside the emitter but level with the origin lies 90 degrees off
	// the beam when measured from the origin.
	if got := c.Attenuate(e, 15, 20, 1); got != 0.03 {
		t.Errorf("Expected the offset origin to be used, got %v", got)
	}
	if got := c.Attenuate(e, 5, 200, 1); got <= 0.03 {
		t.Errorf("Expected light down the beam, got %v", got)
	}
}
