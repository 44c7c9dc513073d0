// Package terminal draws a level's light map onto a tcell screen. Each tile is
// two columns wide so the map keeps a square aspect.
package terminal

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"

	"chosenoffset.com/torchlight/internal/game"
	"chosenoffset.com/torchlight/internal/logger"
)

// hudRows is the number of rows reserved below the map.
const hudRows = 2

// Glyphs
const (
	glyphFloor  = "·"
	glyphWall   = "▓"
	glyphPlayer = "@"
	glyphLight  = "*"
)

// View renders a game.Level on a tcell screen and drives it from the keyboard.
type View struct {
	screen   tcell.Screen
	level    *game.Level
	interval time.Duration
	now      func() time.Time

	// FogPath is where 'f' saves the explored grid; empty disables saving.
	FogPath string

	status string
	log    *logrus.Entry
}

// NewView creates a View that steps level every interval.
func NewView(screen tcell.Screen, level *game.Level, interval time.Duration) *View {
	v := &View{
		screen:   screen,
		level:    level,
		interval: interval,
		now:      time.Now,
		log:      logger.Component("terminal"),
	}
	v.Resize()
	return v
}

// Resize matches the level's view to the screen size.
func (v *View) Resize() {
	w, h := v.screen.Size()
	cols, rows := w/2, h-hudRows
	if rows < 1 {
		rows = 1
	}
	ts := v.level.TileSize()
	v.level.SetViewSize(float64(cols)*ts, float64(rows)*ts)
}

// Run polls input and redraws until the player quits or ctx is done.
func (v *View) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	v.level.Step(v.now())
	v.Draw()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				v.Resize()
				v.screen.Sync()
			case *tcell.EventKey:
				if v.HandleKey(ev) {
					return nil
				}
			}
		case <-ticker.C:
			v.level.Step(v.now())
			v.Draw()
		}
	}
}

// HandleKey applies one key press and reports whether the player asked to quit.
func (v *View) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		v.level.MovePlayer(game.DirNorth)
	case tcell.KeyDown:
		v.level.MovePlayer(game.DirSouth)
	case tcell.KeyLeft:
		v.level.MovePlayer(game.DirWest)
	case tcell.KeyRight:
		v.level.MovePlayer(game.DirEast)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'w', 'k':
			v.level.MovePlayer(game.DirNorth)
		case 's', 'j':
			v.level.MovePlayer(game.DirSouth)
		case 'a', 'h':
			v.level.MovePlayer(game.DirWest)
		case 'd', 'l':
			v.level.MovePlayer(game.DirEast)
		case 't':
			if v.level.ToggleTorch() {
				v.status = "torch lit"
			} else {
				v.status = "torch out"
			}
		case 'f':
			v.saveFog()
		}
	}
	return false
}

func (v *View) saveFog() {
	if v.FogPath == "" {
		v.status = "no fog file set"
		return
	}
	if err := v.level.SaveFog(v.FogPath); err != nil {
		v.log.WithError(err).Error("fog save failed")
		v.status = "fog save failed"
		return
	}
	v.status = "map saved"
}

// Draw paints the explored tiles in view and the status line.
func (v *View) Draw() {
	v.screen.Clear()

	l := v.level
	ts := l.TileSize()
	_, h := v.screen.Size()
	viewW, viewH := l.ViewSize()
	cols := int(viewW / ts)
	rows := int(viewH / ts)
	originX := int(math.Floor(l.Camera.X / ts))
	originY := int(math.Floor(l.Camera.Y / ts))

	lit := make(map[[2]int]bool)
	for _, src := range l.Map.Data.Lights {
		lit[[2]int{src.X, src.Y}] = true
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			tx, ty := originX+col, originY+row
			if !l.Fog.IsExplored(tx, ty) {
				continue
			}
			wall := l.Map.IsWall(tx, ty)
			visible := l.Fog.IsVisible(tx, ty)
			bg := game.Shade(game.TileColor(wall), l.LightAtTile(tx, ty), visible)

			glyph := glyphFloor
			if wall {
				glyph = glyphWall
			} else if lit[[2]int{tx, ty}] && visible {
				glyph = glyphLight
			}
			v.putGlyph(col*2, row, glyph, CellStyle(bg))
		}
	}

	// Player
	pc, pr := l.Player.TileX-originX, l.Player.TileY-originY
	if pc >= 0 && pc < cols && pr >= 0 && pr < rows {
		bg := game.Shade(game.FloorColor, l.LightAtTile(l.Player.TileX, l.Player.TileY), true)
		style := CellStyle(bg).Foreground(tcell.ColorWhite).Bold(true)
		v.putGlyph(pc*2, pr, glyphPlayer, style)
	}

	v.drawHUD(h - hudRows)
	v.screen.Show()
}

func (v *View) drawHUD(y int) {
	l := v.level
	torch := "out"
	if l.Player.TorchOn {
		torch = "lit"
	}
	line := fmt.Sprintf("%s | torch %s | lights %d/%d | explored %d",
		l.Map.Data.Name, torch, l.Lights.LiveCount(), l.Lights.Len(), l.Fog.ExploredCount())
	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 210, 140))
	drawText(v.screen, 0, y, line, style)

	help := "move: arrows/wasd  t: torch  f: save map  q: quit"
	if v.status != "" {
		help = v.status + " | " + help
	}
	drawText(v.screen, 0, y+1, help, tcell.StyleDefault.Foreground(tcell.ColorGray))
}

// CellStyle returns a style with bg as background and a foreground light enough
// to read on it.
func CellStyle(bg colorful.Color) tcell.Style {
	fg := bg.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, 0.35).Clamped()
	return tcell.StyleDefault.Background(toTcell(bg)).Foreground(toTcell(fg))
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// putGlyph writes glyph at (x, y), padding to two columns.
func (v *View) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	v.screen.SetContent(x, y, runes[0], runes[1:], style)
	if runewidth.StringWidth(glyph) < 2 {
		// Fill the second column so the tile is square.
		v.screen.SetContent(x+1, y, ' ', nil, style)
	}
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
