package game

import (
	"errors"
	"fmt"
	"time"

	"chosenoffset.com/torchlight/internal/render"
)

// ErrQuit is returned from Update when the player asks to leave.
var ErrQuit = errors.New("quit")

// messageTTL is how long on-screen messages stay up.
const messageTTL = 3 * time.Second

// Game holds the running level and the backend it draws with.
type Game struct {
	ScreenWidth  int
	ScreenHeight int
	Level        *Level
	Renderer     render.Renderer
	InputMgr     render.InputManager

	// FogPath is where F saves the explored grid; empty disables saving.
	FogPath string

	// Clock replaces time.Now, for tests.
	Clock func() time.Time

	// UI state
	Messages []Message
	minimap  render.Image
}

// NewGame wires a level to a renderer and input source.
func NewGame(level *Level, r render.Renderer, input render.InputManager, width, height int) *Game {
	level.SetViewSize(float64(width), float64(height))
	return &Game{
		ScreenWidth:  width,
		ScreenHeight: height,
		Level:        level,
		Renderer:     r,
		InputMgr:     input,
		Clock:        time.Now,
	}
}

// Update handles game logic updates.
func (g *Game) Update() error {
	now := g.Clock()

	if g.InputMgr.IsKeyJustPressed(render.KeyEscape) {
		return ErrQuit
	}

	// Direct movement with WASD or arrows
	var dir Direction
	switch {
	case g.justPressed(render.KeyW, render.KeyUp):
		dir = DirNorth
	case g.justPressed(render.KeyS, render.KeyDown):
		dir = DirSouth
	case g.justPressed(render.KeyA, render.KeyLeft):
		dir = DirWest
	case g.justPressed(render.KeyD, render.KeyRight):
		dir = DirEast
	}
	g.Level.MovePlayer(dir)

	if g.InputMgr.IsKeyJustPressed(render.KeyL) {
		if g.Level.ToggleTorch() {
			g.AddMessage(now, "You light your torch.")
		} else {
			g.AddMessage(now, "You snuff out your torch.")
		}
	}

	if g.InputMgr.IsKeyJustPressed(render.KeyF) && g.FogPath != "" {
		if err := g.Level.SaveFog(g.FogPath); err != nil {
			g.AddMessage(now, fmt.Sprintf("Could not save map: %v", err))
		} else {
			g.AddMessage(now, "Map saved.")
		}
	}

	g.Level.Step(now)
	g.updateMessages(now)
	return nil
}

func (g *Game) justPressed(keys ...render.Key) bool {
	for _, k := range keys {
		if g.InputMgr.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

// AddMessage shows text for a few seconds.
func (g *Game) AddMessage(now time.Time, text string) {
	g.Messages = append(g.Messages, Message{Text: text, Expires: now.Add(messageTTL)})
}

func (g *Game) updateMessages(now time.Time) {
	kept := g.Messages[:0]
	for _, m := range g.Messages {
		if now.Before(m.Expires) {
			kept = append(kept, m)
		}
	}
	g.Messages = kept
}

// Layout returns the logical screen size and resizes the level's view to match.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.ScreenWidth || outsideHeight != g.ScreenHeight {
		g.ScreenWidth, g.ScreenHeight = outsideWidth, outsideHeight
		g.Level.SetViewSize(float64(outsideWidth), float64(outsideHeight))
	}
	return g.ScreenWidth, g.ScreenHeight
}
