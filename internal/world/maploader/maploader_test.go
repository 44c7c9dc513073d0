package maploader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chosenoffset.com/torchlight/internal/render/lighting"
	"chosenoffset.com/torchlight/internal/simulation"
)

const smallMap = `{
	"name": "test",
	"width": 5,
	"height": 3,
	"tile_size": 32,
	"player_spawn": {"x": 1, "y": 1},
	"tiles": ["#####", "#...#", "#####"],
	"lights": [
		{"id": "torch", "x": 2, "y": 1, "radius": 3, "intensity": 0.8},
		{"id": "beam", "x": 3, "y": 1, "radius": 4, "color": "#0000ff", "intensity": 1,
		 "direction": {"x": -1, "y": 0}, "cone_degrees": 30}
	]
}`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(smallMap))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.Data.Name != "test" {
		t.Errorf("Expected name 'test', got '%s'", m.Data.Name)
	}
	if !m.IsWall(0, 0) || m.IsWall(2, 1) {
		t.Error("Wall layout not read correctly")
	}
	if !m.IsWall(-1, 1) || !m.IsWall(5, 1) {
		t.Error("Out of bounds should be wall")
	}
	if !m.IsWalkable(1, 1) {
		t.Error("Spawn tile should be walkable")
	}
	for x := 0; x < 5; x++ {
		if !m.IsWall(x, 0) || !m.IsWall(x, 2) {
			t.Errorf("Expected border wall at column %d", x)
		}
	}

	cells := m.Occlusion()
	if len(cells) != 3 || len(cells[0]) != 5 {
		t.Fatalf("Expected 5x3 occlusion cells, got %dx%d", len(cells[0]), len(cells))
	}
	if cells[1][0] != 1 || cells[1][1] != 0 {
		t.Errorf("Unexpected occlusion row %v", cells[1])
	}
	cells[1][1] = 1
	if m.IsWall(1, 1) {
		t.Error("Editing the occlusion cells must not change the map")
	}
	g, err := m.Grid()
	if err != nil {
		t.Fatalf("Grid failed: %v", err)
	}
	if g.Width() != 5 || g.Height() != 3 {
		t.Errorf("Expected 5x3 grid, got %dx%d", g.Width(), g.Height())
	}
}

func TestLightDefaults(t *testing.T) {
	m, err := Parse([]byte(smallMap))
	if err != nil {
		t.Fatal(err)
	}
	color, opts := m.Data.Lights[0].Light()
	want, _ := lighting.ParseHexColor(DefaultLightColor)
	if color != want {
		t.Errorf("Expected default torch color %v, got %v", want, color)
	}
	if len(opts) != 0 {
		t.Errorf("Expected a point light, got %d options", len(opts))
	}

	_, opts = m.Data.Lights[1].Light()
	if len(opts) != 1 {
		t.Errorf("Expected a direction option, got %d", len(opts))
	}
}

func TestPlaceLights(t *testing.T) {
	m, err := Parse([]byte(smallMap))
	if err != nil {
		t.Fatal(err)
	}
	cfg := simulation.DefaultConfig().Lighting
	sys := lighting.NewSystem(cfg)
	m.PlaceLights(sys)

	if sys.Len() != 2 {
		t.Fatalf("Expected 2 lights, got %d", sys.Len())
	}
	beam, ok := sys.Emitter("beam")
	if !ok {
		t.Fatal("beam light missing")
	}
	if beam.Kind != lighting.KindDirectional {
		t.Errorf("Expected directional beam, got %v", beam.Kind)
	}
	if beam.Radius != 4*float64(cfg.TileSize) {
		t.Errorf("Expected radius in world units, got %v", beam.Radius)
	}
	if beam.Color != (lighting.Color{0, 0, 1}) {
		t.Errorf("Expected blue beam, got %v", beam.Color)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		replace [2]string
		wantErr string
	}{
		{"bad width", [2]string{`"width": 5`, `"width": 0`}, "invalid map dimensions"},
		{"bad tile size", [2]string{`"tile_size": 32`, `"tile_size": -1`}, "invalid tile size"},
		{"short row", [2]string{`"#...#"`, `"#..#"`}, "width mismatch at row 1"},
		{"spawn in wall", [2]string{`{"x": 1, "y": 1}`, `{"x": 0, "y": 0}`}, "inside a wall"},
		{"spawn outside", [2]string{`{"x": 1, "y": 1}`, `{"x": 9, "y": 1}`}, "out of bounds"},
		{"duplicate light", [2]string{`"id": "beam"`, `"id": "torch"`}, "duplicate light id"},
		{"bad color", [2]string{`"#0000ff"`, `"nope"`}, "invalid light color"},
		{"zero direction", [2]string{`{"x": -1, "y": 0}`, `{"x": 0, "y": 0}`}, "zero direction"},
		{"zero radius", [2]string{`"radius": 3`, `"radius": 0`}, "invalid radius"},
		{"direction without cone", [2]string{`"cone_degrees": 30`, `"cone_degrees": 0`}, "no cone angle"},
		{"reserved id", [2]string{`"id": "torch"`, `"id": "player"`}, "reserved for the player"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data := strings.Replace(smallMap, tc.replace[0], tc.replace[1], 1)
			if data == smallMap {
				t.Fatalf("replacement %q did not apply", tc.replace[0])
			}
			_, err := Parse([]byte(data))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.json")
	if err := os.WriteFile(path, []byte(smallMap), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMap(path); err != nil {
		t.Fatalf("LoadMap failed: %v", err)
	}
	if _, err := LoadMap(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestDefaultLevel(t *testing.T) {
	m, err := Default()
	if err != nil {
		t.Fatalf("built-in level is invalid: %v", err)
	}
	if len(m.Data.Lights) == 0 {
		t.Error("Expected the built-in level to place lights")
	}
	if !m.IsWalkable(m.Data.PlayerSpawn.X, m.Data.PlayerSpawn.Y) {
		t.Error("Spawn should be walkable")
	}
}
