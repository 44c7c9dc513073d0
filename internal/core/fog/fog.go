// Package fog tracks which tiles the player has explored and which are in view.
//
// Visibility here is a pure radius test around the player and ignores walls. That is
// intended: the occlusion-aware lighting pass is what hides geometry behind walls, fog
// only answers "has the player been near here".
package fog

import (
	"math"

	"chosenoffset.com/torchlight/internal/core/occlusion"
)

// Tracker holds the explored and visible flags for every tile of one level.
type Tracker struct {
	width, height int
	tileSize      float64
	explored      []bool
	visible       []bool
}

// NewTracker allocates flags for a width x height tile map.
func NewTracker(width, height int, tileSize float64) *Tracker {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Tracker{
		width:    width,
		height:   height,
		tileSize: tileSize,
		explored: make([]bool, width*height),
		visible:  make([]bool, width*height),
	}
}

// Width returns the number of columns tracked.
func (t *Tracker) Width() int { return t.width }

// Height returns the number of rows tracked.
func (t *Tracker) Height() int { return t.height }

func (t *Tracker) inBounds(tx, ty int) bool {
	return tx >= 0 && tx < t.width && ty >= 0 && ty < t.height
}

// UpdateVisibility clears every visible flag and marks the tiles within radius
// tiles of the player (Euclidean, inclusive) as visible and explored.
func (t *Tracker) UpdateVisibility(playerX, playerY float64, radius int) {
	clear(t.visible)
	if radius < 0 || t.tileSize <= 0 {
		return
	}

	px, py := occlusion.TileAt(playerX, playerY, t.tileSize)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if math.Sqrt(float64(dx*dx+dy*dy)) > float64(radius) {
				continue
			}
			tx, ty := px+dx, py+dy
			if !t.inBounds(tx, ty) {
				continue
			}
			i := ty*t.width + tx
			t.visible[i] = true
			t.explored[i] = true
		}
	}
}

// IsExplored reports whether the tile has ever been visible. False out of bounds.
func (t *Tracker) IsExplored(tx, ty int) bool {
	if !t.inBounds(tx, ty) {
		return false
	}
	return t.explored[ty*t.width+tx]
}

// IsVisible reports whether the tile was within radius at the last update.
func (t *Tracker) IsVisible(tx, ty int) bool {
	if !t.inBounds(tx, ty) {
		return false
	}
	return t.visible[ty*t.width+tx]
}

// ExploredCount returns the number of explored tiles.
func (t *Tracker) ExploredCount() int {
	n := 0
	for _, e := range t.explored {
		if e {
			n++
		}
	}
	return n
}

// Reset forgets everything. Only used when a new level replaces this one.
func (t *Tracker) Reset() {
	clear(t.explored)
	clear(t.visible)
}
