// Package simulation provides configuration for the lighting and visibility rules.
// Values are loaded from a JSON data file so each level pack can tune its own look.
package simulation

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"
)

// Config holds all tunables for a game
type Config struct {
	// Light emitters and the light map
	Lighting LightingConfig `json:"lighting"`

	// Exploration tracking
	Fog FogConfig `json:"fog"`

	// The light the player carries
	Player PlayerLightConfig `json:"player"`

	// Window and terminal output
	Display DisplayConfig `json:"display"`
}

// LightingConfig defines how emitters are animated and accumulated
type LightingConfig struct {
	TileSize         int     `json:"tile_size"`          // World units per tile (e.g., 32)
	Ambient          float64 `json:"ambient"`            // Baseline intensity for every tile (0.0 = pitch black)
	MaxIntensity     float64 `json:"max_intensity"`      // Ceiling for emitter and tile intensity
	MinTickMS        int     `json:"min_tick_ms"`        // Minimum time between emitter updates
	FlickerRate      float64 `json:"flicker_rate"`       // Radians per millisecond of the flicker wave
	PulseRate        float64 `json:"pulse_rate"`         // Radians per millisecond of the pulse wave
	LiveBuffer       float64 `json:"live_buffer"`        // Extra world units around an emitter when testing the viewport
	ConeOffset       float64 `json:"cone_offset"`        // Distance the beam origin sits ahead of a directional emitter
	ConeOutside      float64 `json:"cone_outside"`       // Fraction of light kept outside the beam
	ConeExponent     float64 `json:"cone_exponent"`      // Falloff power across the beam
	DefaultMapWidth  int     `json:"default_map_width"`  // Light map size before an occlusion grid is set
	DefaultMapHeight int     `json:"default_map_height"` // Light map size before an occlusion grid is set
}

// FogConfig defines how exploration is tracked
type FogConfig struct {
	Radius int `json:"radius"` // Visibility radius around the player in tiles
}

// PlayerLightConfig describes the torch the player holds
type PlayerLightConfig struct {
	Radius      float64 `json:"radius"`       // In tiles
	Intensity   float64 `json:"intensity"`    // Base intensity
	Flicker     float64 `json:"flicker"`      // Flicker amplitude
	Pulse       float64 `json:"pulse"`        // Pulse amplitude
	ConeDegrees float64 `json:"cone_degrees"` // Half-angle of the beam; 0 makes the torch omni-directional
	Color       string  `json:"color"`        // Hex "RRGGBB"
}

// DisplayConfig defines output sizes
type DisplayConfig struct {
	ScreenWidth  int `json:"screen_width"`
	ScreenHeight int `json:"screen_height"`
	TickMS       int `json:"tick_ms"` // Terminal redraw cadence
}

// DefaultConfig returns sensible defaults for a torch-lit dungeon
func DefaultConfig() *Config {
	return &Config{
		Lighting: LightingConfig{
			TileSize:         32,
			Ambient:          0.15,
			MaxIntensity:     1.0,
			MinTickMS:        150,
			FlickerRate:      0.01,
			PulseRate:        0.003,
			LiveBuffer:       64,
			ConeOffset:       12,
			ConeOutside:      0.03,
			ConeExponent:     1.5,
			DefaultMapWidth:  64,
			DefaultMapHeight: 64,
		},
		Fog: FogConfig{
			Radius: 6,
		},
		Player: PlayerLightConfig{
			Radius:      6,
			Intensity:   0.9,
			Flicker:     0.05,
			Pulse:       0.0,
			ConeDegrees: 35,
			Color:       "ffd28c",
		},
		Display: DisplayConfig{
			ScreenWidth:  1280,
			ScreenHeight: 800,
			TickMS:       50,
		},
	}
}

// LoadConfig loads config from a JSON file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return defaults if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read simulation config: %w", err)
	}

	config := DefaultConfig() // Start with defaults
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse simulation config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config %s: %w", path, err)
	}

	return config, nil
}

// Validate checks values that would make the light map meaningless
func (c *Config) Validate() error {
	l := c.Lighting
	if l.TileSize <= 0 {
		return fmt.Errorf("invalid tile size: %d", l.TileSize)
	}
	if l.MaxIntensity <= 0 || math.IsNaN(l.MaxIntensity) || math.IsInf(l.MaxIntensity, 0) {
		return fmt.Errorf("invalid max intensity: %v", l.MaxIntensity)
	}
	if l.Ambient < 0 || l.Ambient > l.MaxIntensity || math.IsNaN(l.Ambient) {
		return fmt.Errorf("ambient %v outside [0, %v]", l.Ambient, l.MaxIntensity)
	}
	if l.MinTickMS < 0 {
		return fmt.Errorf("invalid min tick: %dms", l.MinTickMS)
	}
	if l.DefaultMapWidth <= 0 || l.DefaultMapHeight <= 0 {
		return fmt.Errorf("invalid default map size: %dx%d", l.DefaultMapWidth, l.DefaultMapHeight)
	}
	if c.Fog.Radius < 0 {
		return fmt.Errorf("invalid fog radius: %d", c.Fog.Radius)
	}
	return nil
}

// MinTickInterval returns the emitter throttle as a duration
func (l LightingConfig) MinTickInterval() time.Duration {
	return time.Duration(l.MinTickMS) * time.Millisecond
}

// ConeHalfAngle returns the player beam half-angle in radians
func (p PlayerLightConfig) ConeHalfAngle() float64 {
	return p.ConeDegrees * math.Pi / 180
}

// TickInterval returns the terminal redraw cadence
func (d DisplayConfig) TickInterval() time.Duration {
	if d.TickMS <= 0 {
		return 50 * time.Millisecond
	}
	return time.Duration(d.TickMS) * time.Millisecond
}
