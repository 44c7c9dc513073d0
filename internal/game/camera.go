package game

import "chosenoffset.com/torchlight/internal/render/lighting"

// Follow centers the camera on (px, py) without showing space past the world
// edge. A world smaller than the view is centered instead.
func (c *Camera) Follow(px, py, viewW, viewH, worldW, worldH float64) {
	c.X = follow(px, viewW, worldW)
	c.Y = follow(py, viewH, worldH)
}

func follow(p, view, world float64) float64 {
	if world <= view {
		return (world - view) / 2
	}
	v := p - view/2
	if v < 0 {
		return 0
	}
	if v > world-view {
		return world - view
	}
	return v
}

// Viewport returns the world rectangle the camera shows.
func (c Camera) Viewport(viewW, viewH float64) lighting.Viewport {
	return lighting.Viewport{X: c.X, Y: c.Y, W: viewW, H: viewH}
}

// ToScreen converts world coordinates to screen coordinates.
func (c Camera) ToScreen(wx, wy float64) (float64, float64) {
	return wx - c.X, wy - c.Y
}
