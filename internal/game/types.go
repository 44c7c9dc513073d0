package game

import "time"

// Direction is a one-tile step on the grid.
type Direction struct {
	DX, DY int
}

// Grid directions
var (
	DirNone  = Direction{}
	DirNorth = Direction{0, -1}
	DirSouth = Direction{0, 1}
	DirWest  = Direction{-1, 0}
	DirEast  = Direction{1, 0}
)

// Player represents the player's position, facing and torch.
type Player struct {
	// Grid position for turn-based movement
	TileX, TileY int
	Facing       Direction
	TorchOn      bool
}

// Camera tracks the viewport position for scrolling large levels.
type Camera struct {
	X, Y float64 // Camera position (top-left corner of viewport in world coords)
}

// Message is an on-screen message shown until Expires.
type Message struct {
	Text    string
	Expires time.Time
}
