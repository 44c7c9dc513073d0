// Package maploader reads level files: the wall layout, the player spawn and the
// light sources placed in the level.
package maploader

import (
	"embed"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"chosenoffset.com/torchlight/internal/core/occlusion"
	"chosenoffset.com/torchlight/internal/render/lighting"
)

// WallRune marks a wall in a tile row. Every other rune is floor.
const WallRune = '#'

// DefaultLightColor is used when a light source has no color.
const DefaultLightColor = "ffc864"

// PlayerLightID is the light id reserved for the torch the player carries.
const PlayerLightID = "player"

//go:embed levels/*.json
var levels embed.FS

// SpawnPoint defines the player's starting tile
type SpawnPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Vector is a direction in tile space
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LightData describes a light source placed in the level. Positions and radius
// are in tiles.
type LightData struct {
	ID          string  `json:"id"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Radius      float64 `json:"radius"`
	Color       string  `json:"color"`     // Hex "RRGGBB"
	Intensity   float64 `json:"intensity"` // Base intensity
	Flicker     float64 `json:"flicker"`
	Pulse       float64 `json:"pulse"`
	Direction   *Vector `json:"direction,omitempty"`    // Present for directional lights
	ConeDegrees float64 `json:"cone_degrees,omitempty"` // Half-angle of the beam
}

// MapData represents the loaded map configuration
type MapData struct {
	Name        string      `json:"name"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	TileSize    int         `json:"tile_size"` // World units per tile
	PlayerSpawn SpawnPoint  `json:"player_spawn"`
	Tiles       []string    `json:"tiles"` // One string per row, '#' for walls
	Lights      []LightData `json:"lights"`
}

// Map is a validated level
type Map struct {
	Data  *MapData
	walls []bool // row-major, decoded once from Tiles
}

// LoadMap loads a map from a JSON file
func LoadMap(mapPath string) (*Map, error) {
	data, err := os.ReadFile(mapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file %s: %w", mapPath, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("map file %s: %w", mapPath, err)
	}
	return m, nil
}

// Default returns the built-in demo level.
func Default() (*Map, error) {
	data, err := levels.ReadFile("levels/crypt.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in level: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a map from JSON.
func Parse(data []byte) (*Map, error) {
	var mapData MapData
	if err := json.Unmarshal(data, &mapData); err != nil {
		return nil, fmt.Errorf("failed to parse map: %w", err)
	}
	if err := validateMapData(&mapData); err != nil {
		return nil, fmt.Errorf("invalid map data: %w", err)
	}

	walls := make([]bool, mapData.Width*mapData.Height)
	for y, row := range mapData.Tiles {
		for x, r := range []rune(row) {
			walls[y*mapData.Width+x] = r == WallRune
		}
	}
	return &Map{Data: &mapData, walls: walls}, nil
}

// validateMapData checks if the map data is valid
func validateMapData(data *MapData) error {
	if data.Width <= 0 || data.Height <= 0 {
		return fmt.Errorf("invalid map dimensions: %dx%d", data.Width, data.Height)
	}

	if data.TileSize <= 0 {
		return fmt.Errorf("invalid tile size: %d", data.TileSize)
	}

	if len(data.Tiles) != data.Height {
		return fmt.Errorf("tiles array height mismatch: expected %d, got %d", data.Height, len(data.Tiles))
	}

	for y, row := range data.Tiles {
		if n := len([]rune(row)); n != data.Width {
			return fmt.Errorf("tiles array width mismatch at row %d: expected %d, got %d", y, data.Width, n)
		}
	}

	sx, sy := data.PlayerSpawn.X, data.PlayerSpawn.Y
	if sx < 0 || sx >= data.Width || sy < 0 || sy >= data.Height {
		return fmt.Errorf("player spawn out of bounds: (%d, %d)", sx, sy)
	}
	if []rune(data.Tiles[sy])[sx] == WallRune {
		return fmt.Errorf("player spawn inside a wall: (%d, %d)", sx, sy)
	}

	seen := make(map[string]bool, len(data.Lights))
	for i, l := range data.Lights {
		if l.ID == "" {
			return fmt.Errorf("light %d has no id", i)
		}
		if l.ID == PlayerLightID {
			return fmt.Errorf("light id %q is reserved for the player", l.ID)
		}
		if seen[l.ID] {
			return fmt.Errorf("duplicate light id %q", l.ID)
		}
		seen[l.ID] = true
		if l.X < 0 || l.X >= data.Width || l.Y < 0 || l.Y >= data.Height {
			return fmt.Errorf("light %q out of bounds: (%d, %d)", l.ID, l.X, l.Y)
		}
		if l.Radius <= 0 {
			return fmt.Errorf("light %q has invalid radius %v", l.ID, l.Radius)
		}
		if l.Color != "" {
			if _, err := lighting.ParseHexColor(l.Color); err != nil {
				return err
			}
		}
		if l.Direction != nil {
			if l.Direction.X == 0 && l.Direction.Y == 0 {
				return fmt.Errorf("light %q has a zero direction", l.ID)
			}
			if !(l.ConeDegrees > 0) {
				return fmt.Errorf("light %q has a direction but no cone angle", l.ID)
			}
		}
	}

	return nil
}

// IsWall reports whether the tile is a wall. Out of bounds counts as wall.
func (m *Map) IsWall(x, y int) bool {
	if x < 0 || x >= m.Data.Width || y < 0 || y >= m.Data.Height {
		return true
	}
	return m.walls[y*m.Data.Width+x]
}

// IsWalkable returns whether the player may stand on the tile
func (m *Map) IsWalkable(x, y int) bool {
	return !m.IsWall(x, y)
}

// Occlusion converts the tile rows into the cell layout the occlusion grid reads.
func (m *Map) Occlusion() [][]uint8 {
	cells := make([][]uint8, m.Data.Height)
	for y := range cells {
		cells[y] = make([]uint8, m.Data.Width)
		for x := range cells[y] {
			if m.walls[y*m.Data.Width+x] {
				cells[y][x] = occlusion.Wall
			}
		}
	}
	return cells
}

// Grid builds the occlusion grid for the level.
func (m *Map) Grid() (*occlusion.Grid, error) {
	return occlusion.New(m.Occlusion())
}

// Light converts a placed light into emitter parameters. The color falls back to
// DefaultLightColor.
func (l LightData) Light() (lighting.Color, []lighting.LightOption) {
	hex := l.Color
	if hex == "" {
		hex = DefaultLightColor
	}
	color, err := lighting.ParseHexColor(hex)
	if err != nil {
		color = lighting.TorchColor
	}
	var opts []lighting.LightOption
	if l.Direction != nil {
		opts = append(opts, lighting.WithDirection(l.Direction.X, l.Direction.Y, l.ConeDegrees*math.Pi/180))
	}
	return color, opts
}

// PlaceLights adds every light in the level to sys.
func (m *Map) PlaceLights(sys *lighting.System) {
	for _, l := range m.Data.Lights {
		color, opts := l.Light()
		sys.AddLight(lighting.EmitterID(l.ID), l.X, l.Y, l.Radius, color, l.Intensity, l.Flicker, l.Pulse, opts...)
	}
}
