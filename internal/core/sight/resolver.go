// Package sight answers tile-grid line-of-sight queries between world points.
package sight

import "chosenoffset.com/torchlight/internal/core/occlusion"

// Resolver walks Bresenham lines over an occlusion grid.
// A Resolver with a nil Grid treats every line as unblocked so a level can light
// itself before its map is wired in.
type Resolver struct {
	Grid     *occlusion.Grid
	TileSize float64
}

// Blocked reports whether any wall tile lies on the raster line from a to b,
// including both end tiles. Either point falling outside the grid counts as blocked.
func (r Resolver) Blocked(ax, ay, bx, by float64) bool {
	if r.Grid == nil {
		return false
	}
	x0, y0 := occlusion.TileAt(ax, ay, r.TileSize)
	x1, y1 := occlusion.TileAt(bx, by, r.TileSize)
	if !r.Grid.InBounds(x0, y0) || !r.Grid.InBounds(x1, y1) {
		return true
	}
	blocked := false
	Line(x0, y0, x1, y1, func(x, y int) bool {
		if r.Grid.IsWall(x, y) {
			blocked = true
			return false
		}
		return true
	})
	return blocked
}

// Visible is the negation of Blocked.
func (r Resolver) Visible(ax, ay, bx, by float64) bool {
	return !r.Blocked(ax, ay, bx, by)
}

// Line visits every tile from (x0, y0) to (x1, y1) inclusive, stopping early when
// visit returns false. Ties step x when 2*err > -dy and y when 2*err < dx, so a
// diagonal step moves both axes at once.
func Line(x0, y0, x1, y1 int, visit func(x, y int) bool) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for {
		if !visit(x0, y0) {
			return
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
