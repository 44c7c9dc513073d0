package game

import (
	"github.com/lucasb-eyer/go-colorful"

	"chosenoffset.com/torchlight/internal/render/lighting"
)

// Base tile colors before lighting.
var (
	FloorColor = colorful.Color{R: 0.42, G: 0.37, B: 0.31}
	WallColor  = colorful.Color{R: 0.62, G: 0.58, B: 0.52}
)

// lightGain lets a fully lit tile render brighter than its base color.
const lightGain = 1.6

// memoryDim is how far explored tiles out of sight fade toward black.
const memoryDim = 0.55

// Shade tints base by the light in c. Tiles outside the fog's visible set are
// faded, as the player only remembers them.
func Shade(base colorful.Color, c lighting.Cell, visible bool) colorful.Color {
	lit := colorful.Color{
		R: base.R * c.R * lightGain,
		G: base.G * c.G * lightGain,
		B: base.B * c.B * lightGain,
	}
	if !visible {
		lit = lit.BlendRgb(colorful.Color{}, memoryDim)
	}
	return lit.Clamped()
}

// TileColor returns the base color for a tile.
func TileColor(wall bool) colorful.Color {
	if wall {
		return WallColor
	}
	return FloorColor
}
