// Package occlusion is a read-only view of the dungeon's wall/floor layout.
package occlusion

import (
	"errors"
	"fmt"
	"math"
)

// Tile values accepted by New.
const (
	Floor uint8 = 0
	Wall  uint8 = 1
)

var (
	// ErrEmpty is returned for a grid with no rows or no columns.
	ErrEmpty = errors.New("occlusion grid is empty")
	// ErrRagged is returned when rows differ in length.
	ErrRagged = errors.New("occlusion grid rows differ in length")
)

// Grid stores wall flags row-major in a flat slice.
type Grid struct {
	width, height int
	walls         []bool
}

// New copies cells (indexed [row][col]) into a Grid. Any non-zero cell is a wall.
func New(cells [][]uint8) (*Grid, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, ErrEmpty
	}
	width := len(cells[0])
	g := &Grid{
		width:  width,
		height: len(cells),
		walls:  make([]bool, width*len(cells)),
	}
	for y, row := range cells {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", y, len(row), width, ErrRagged)
		}
		for x, v := range row {
			g.walls[y*width+x] = v != Floor
		}
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (tx, ty) is a tile of the grid.
func (g *Grid) InBounds(tx, ty int) bool {
	return tx >= 0 && tx < g.width && ty >= 0 && ty < g.height
}

// IsWall reports whether (tx, ty) blocks light. Out-of-bounds tiles are walls.
func (g *Grid) IsWall(tx, ty int) bool {
	if !g.InBounds(tx, ty) {
		return true
	}
	return g.walls[ty*g.width+tx]
}

// TileAt converts a world position to tile coordinates.
func TileAt(wx, wy, tileSize float64) (int, int) {
	return int(math.Floor(wx / tileSize)), int(math.Floor(wy / tileSize))
}

// TileCenter returns the world position of the middle of tile (tx, ty).
func TileCenter(tx, ty int, tileSize float64) (float64, float64) {
	return (float64(tx) + 0.5) * tileSize, (float64(ty) + 0.5) * tileSize
}

// WallAt reports whether the world point lies inside a wall or outside the grid.
func (g *Grid) WallAt(wx, wy, tileSize float64) bool {
	tx, ty := TileAt(wx, wy, tileSize)
	return g.IsWall(tx, ty)
}
