package game

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"chosenoffset.com/torchlight/internal/logger"
	"chosenoffset.com/torchlight/internal/render"
	"chosenoffset.com/torchlight/internal/render/lighting"
	"chosenoffset.com/torchlight/internal/simulation"
	"chosenoffset.com/torchlight/internal/world/maploader"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

const testMap = `{
	"name": "test hall",
	"width": 10,
	"height": 6,
	"tile_size": 32,
	"player_spawn": {"x": 2, "y": 2},
	"tiles": [
		"##########",
		"#........#",
		"#........#",
		"#...#....#",
		"#........#",
		"##########"
	],
	"lights": [
		{"id": "sconce", "x": 7, "y": 4, "radius": 2, "color": "ff0000", "intensity": 0.8}
	]
}`

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestLevel(t *testing.T) *Level {
	t.Helper()
	m, err := maploader.Parse([]byte(testMap))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	cfg := simulation.DefaultConfig()
	cfg.Player.Flicker = 0
	l, err := NewLevel(cfg, m, lighting.WithClock(func() time.Time { return epoch }))
	if err != nil {
		t.Fatalf("NewLevel failed: %v", err)
	}
	return l
}

func TestNewLevelPlacesLights(t *testing.T) {
	l := newTestLevel(t)
	if l.Lights.Len() != 1 {
		t.Errorf("Expected map light only before the first step, got %d", l.Lights.Len())
	}
	if l.Lights.MapWidth() != 10 || l.Lights.MapHeight() != 6 {
		t.Errorf("Expected light map sized to the level, got %dx%d", l.Lights.MapWidth(), l.Lights.MapHeight())
	}
}

func TestStepLightsAheadOfPlayer(t *testing.T) {
	l := newTestLevel(t)
	l.Step(epoch)

	if _, ok := l.Lights.Emitter(PlayerLightID); !ok {
		t.Fatal("Expected the player torch after a step")
	}
	ahead := l.LightAtTile(3, 2)
	behind := l.LightAtTile(1, 2)
	if ahead.Intensity <= 0.5 {
		t.Errorf("Expected the tile in front of the player to be lit, got %v", ahead.Intensity)
	}
	if behind.Intensity != 0.15 {
		t.Errorf("Expected the tile behind the player to sit at ambient, got %v", behind.Intensity)
	}
	if !l.Fog.IsExplored(2, 2) || !l.Fog.IsVisible(8, 2) {
		t.Error("Expected fog to be updated around the player")
	}
}

func TestMovePlayer(t *testing.T) {
	l := newTestLevel(t)
	l.Step(epoch)

	if !l.MovePlayer(DirNorth) {
		t.Fatal("Expected to move onto floor")
	}
	if l.MovePlayer(DirNorth) {
		t.Error("Expected the wall to stop the player")
	}
	if l.Player.TileX != 2 || l.Player.TileY != 1 {
		t.Errorf("Expected player at (2,1), got (%d,%d)", l.Player.TileX, l.Player.TileY)
	}
	if l.Player.Facing != DirNorth {
		t.Errorf("Expected player to face north, got %v", l.Player.Facing)
	}

	l.Step(epoch.Add(time.Second))
	e, _ := l.Lights.Emitter(PlayerLightID)
	if e.Direction[0] != 0 || e.Direction[1] != -1 {
		t.Errorf("Expected torch aimed north, got %v", e.Direction)
	}
	px, py := l.PlayerPosition()
	if e.X != px || e.Y != py {
		t.Errorf("Expected torch at the player (%v,%v), got (%v,%v)", px, py, e.X, e.Y)
	}
}

func TestToggleTorch(t *testing.T) {
	l := newTestLevel(t)
	l.Step(epoch)

	if l.ToggleTorch() {
		t.Fatal("Expected torch off")
	}
	l.Step(epoch.Add(time.Second))
	if _, ok := l.Lights.Emitter(PlayerLightID); ok {
		t.Error("Expected the torch emitter to be removed")
	}
	if got := l.LightAtTile(3, 2).Intensity; got != 0.15 {
		t.Errorf("Expected ambient without the torch, got %v", got)
	}

	l.ToggleTorch()
	l.Step(epoch.Add(2 * time.Second))
	if _, ok := l.Lights.Emitter(PlayerLightID); !ok {
		t.Error("Expected the torch emitter back")
	}
}

func TestFogSaveLoad(t *testing.T) {
	l := newTestLevel(t)
	l.Step(epoch)
	path := filepath.Join(t.TempDir(), "fog.json")
	if err := l.SaveFog(path); err != nil {
		t.Fatalf("SaveFog failed: %v", err)
	}

	fresh := newTestLevel(t)
	if err := fresh.LoadFog(path); err != nil {
		t.Fatalf("LoadFog failed: %v", err)
	}
	if fresh.Fog.ExploredCount() != l.Fog.ExploredCount() {
		t.Errorf("Expected %d explored tiles, got %d", l.Fog.ExploredCount(), fresh.Fog.ExploredCount())
	}
}

func TestCameraFollow(t *testing.T) {
	tests := []struct {
		name   string
		px, py float64
		wantX  float64
		wantY  float64
	}{
		{"centered", 500, 400, 400, 300},
		{"clamped low", 10, 10, 0, 0},
		{"clamped high", 990, 790, 800, 600},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var c Camera
			c.Follow(tc.px, tc.py, 200, 200, 1000, 800)
			if c.X != tc.wantX || c.Y != tc.wantY {
				t.Errorf("Expected (%v,%v), got (%v,%v)", tc.wantX, tc.wantY, c.X, c.Y)
			}
		})
	}

	var c Camera
	c.Follow(50, 50, 400, 400, 100, 200)
	if c.X != -150 || c.Y != -100 {
		t.Errorf("Expected a small world to be centered, got (%v,%v)", c.X, c.Y)
	}
}

type fakeInput struct {
	pressed map[render.Key]bool
}

func (f *fakeInput) IsKeyJustPressed(k render.Key) bool { return f.pressed[k] }

func TestGameUpdate(t *testing.T) {
	l := newTestLevel(t)
	input := &fakeInput{pressed: map[render.Key]bool{}}
	g := NewGame(l, nil, input, 640, 480)
	now := epoch
	g.Clock = func() time.Time { return now }

	input.pressed[render.KeyRight] = true
	if err := g.Update(); err != nil {
		t.Fatal(err)
	}
	if l.Player.TileX != 3 {
		t.Errorf("Expected the player to step east, got x=%d", l.Player.TileX)
	}

	input.pressed = map[render.Key]bool{render.KeyL: true}
	if err := g.Update(); err != nil {
		t.Fatal(err)
	}
	if l.Player.TorchOn || len(g.Messages) != 1 {
		t.Errorf("Expected torch off with a message, got on=%v messages=%d", l.Player.TorchOn, len(g.Messages))
	}

	input.pressed = map[render.Key]bool{}
	now = now.Add(messageTTL)
	if err := g.Update(); err != nil {
		t.Fatal(err)
	}
	if len(g.Messages) != 0 {
		t.Errorf("Expected the message to expire, got %d", len(g.Messages))
	}

	input.pressed[render.KeyEscape] = true
	if err := g.Update(); err != ErrQuit {
		t.Errorf("Expected ErrQuit, got %v", err)
	}
}
