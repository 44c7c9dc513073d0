package lighting

import (
	"math"

	"chosenoffset.com/torchlight/internal/core/occlusion"
	"chosenoffset.com/torchlight/internal/core/sight"
)

// Cell is the light reaching one tile: color already scaled by intensity, and the
// intensity itself.
type Cell struct {
	R, G, B   float64
	Intensity float64
}

// merge keeps the brighter value per channel. Overlapping lights never add up.
func (c *Cell) merge(col Color, v float64) {
	c.R = math.Max(c.R, col[0]*v)
	c.G = math.Max(c.G, col[1]*v)
	c.B = math.Max(c.B, col[2]*v)
	c.Intensity = math.Max(c.Intensity, v)
}

// Viewport is the camera rectangle in world units.
type Viewport struct {
	X, Y, W, H float64
}

// Intersects reports whether the viewport overlaps the given box.
func (v Viewport) Intersects(minX, minY, maxX, maxY float64) bool {
	return minX <= v.X+v.W && maxX >= v.X && minY <= v.Y+v.H && maxY >= v.Y
}

// LightMap is the per-tile light buffer. It is rebuilt for the viewport's tiles on
// every Recompute and never reallocated while the map size stays the same.
type LightMap struct {
	width, height int
	tileSize      float64
	ambient       float64
	cells         []Cell

	grid *occlusion.Grid
	los  sight.Resolver
	cone ConeModel
}

// NewLightMap allocates a width x height buffer filled with ambient light.
func NewLightMap(width, height int, tileSize, ambient float64, cone ConeModel) *LightMap {
	m := &LightMap{
		tileSize: tileSize,
		ambient:  ambient,
		cone:     cone,
		los:      sight.Resolver{TileSize: tileSize},
	}
	m.resize(width, height)
	return m
}

func (m *LightMap) resize(width, height int) {
	m.width, m.height = width, height
	if cap(m.cells) >= width*height {
		m.cells = m.cells[:width*height]
	} else {
		m.cells = make([]Cell, width*height)
	}
	amb := m.ambientCell()
	for i := range m.cells {
		m.cells[i] = amb
	}
}

// SetGrid switches occlusion to g and resizes the buffer to match it. A nil grid
// keeps the current size and disables occlusion.
func (m *LightMap) SetGrid(g *occlusion.Grid) {
	m.grid = g
	m.los.Grid = g
	if g != nil {
		m.resize(g.Width(), g.Height())
	}
}

// Width returns the buffer width in tiles.
func (m *LightMap) Width() int { return m.width }

// Height returns the buffer height in tiles.
func (m *LightMap) Height() int { return m.height }

func (m *LightMap) ambientCell() Cell {
	return Cell{R: m.ambient, G: m.ambient, B: m.ambient, Intensity: m.ambient}
}

// At returns the cell for tile (tx, ty).
func (m *LightMap) At(tx, ty int) (Cell, bool) {
	if tx < 0 || tx >= m.width || ty < 0 || ty >= m.height {
		return Cell{}, false
	}
	return m.cells[ty*m.width+tx], true
}

// CopyCells copies the buffer into dst, growing it if needed, and returns it.
func (m *LightMap) CopyCells(dst []Cell) []Cell {
	return append(dst[:0], m.cells...)
}

// TileRect returns the half-open tile range covered by vp, clipped to the map.
func (m *LightMap) TileRect(vp Viewport) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(vp.X / m.tileSize))
	y0 = int(math.Floor(vp.Y / m.tileSize))
	x1 = int(math.Ceil((vp.X + vp.W) / m.tileSize))
	y1 = int(math.Ceil((vp.Y + vp.H) / m.tileSize))
	x0, x1 = clampInt(x0, 0, m.width), clampInt(x1, 0, m.width)
	y0, y1 = clampInt(y0, 0, m.height), clampInt(y1, 0, m.height)
	return x0, y0, x1, y1
}

// Recompute resets the viewport's tiles to ambient and merges in every live
// emitter. Tiles outside the viewport keep their previous values.
func (m *LightMap) Recompute(vp Viewport, live []*Emitter) {
	x0, y0, x1, y1 := m.TileRect(vp)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	amb := m.ambientCell()
	for ty := y0; ty < y1; ty++ {
		row := m.cells[ty*m.width+x0 : ty*m.width+x1]
		for i := range row {
			row[i] = amb
		}
	}

	for _, e := range live {
		if !(e.Radius > 0) {
			continue
		}
		// Capped before the int conversion so huge radii cannot overflow.
		reach := int(math.Min(math.Ceil(e.Radius/m.tileSize), float64(max(m.width, m.height))))
		ex, ey := occlusion.TileAt(e.X, e.Y, m.tileSize)
		tx0, tx1 := max(ex-reach, x0), min(ex+reach+1, x1)
		ty0, ty1 := max(ey-reach, y0), min(ey+reach+1, y1)

		for ty := ty0; ty < ty1; ty++ {
			for tx := tx0; tx < tx1; tx++ {
				cx, cy := occlusion.TileCenter(tx, ty, m.tileSize)
				v := m.contribution(e, cx, cy)
				if v <= 0 {
					continue
				}
				m.cells[ty*m.width+tx].merge(e.Color, v)
			}
		}
	}
}

// contribution is the light e adds at world point (px, py), or 0.
func (m *LightMap) contribution(e *Emitter, px, py float64) float64 {
	if !(e.Radius > 0) {
		return 0
	}
	d := math.Hypot(px-e.X, py-e.Y)
	if d > e.Radius {
		return 0
	}
	v := (1 - d/e.Radius) * e.Intensity
	v = m.cone.Attenuate(e, px, py, v)
	if !finite(v) || v <= 0 {
		return 0
	}
	if m.los.Blocked(e.X, e.Y, px, py) {
		return 0
	}
	// Walls are never lit, even where the ray test lets light through.
	if m.grid != nil && m.grid.WallAt(px, py, m.tileSize) {
		return 0
	}
	return v
}

// Sample evaluates the light at an exact world point using the same rules as the
// tile pass. Points outside the occlusion grid are dark.
func (m *LightMap) Sample(px, py float64, emitters func(fn func(e *Emitter))) Cell {
	if m.grid != nil {
		tx, ty := occlusion.TileAt(px, py, m.tileSize)
		if !m.grid.InBounds(tx, ty) {
			return Cell{}
		}
	}
	c := m.ambientCell()
	emitters(func(e *Emitter) {
		if v := m.contribution(e, px, py); v > 0 {
			c.merge(e.Color, v)
		}
	})
	return c
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
