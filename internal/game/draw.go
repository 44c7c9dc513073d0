package game

import (
	"fmt"
	"image/color"
	"math"

	"chosenoffset.com/torchlight/internal/render"
)

// minimapScale is the size of one tile on the minimap, in pixels.
const minimapScale = 3

// Draw renders the game to the screen.
func (g *Game) Draw(screen render.Image) {
	screen.Fill(color.Black)

	g.drawTiles(screen)
	g.drawPlayer(screen)

	// UI elements on top (unaffected by lighting)
	g.drawMinimap(screen)
	g.drawUI(screen)
}

// drawTiles paints every explored tile in view, tinted by the light map.
func (g *Game) drawTiles(screen render.Image) {
	l := g.Level
	ts := l.TileSize()
	viewW, viewH := l.ViewSize()

	x0 := int(math.Floor(l.Camera.X / ts))
	y0 := int(math.Floor(l.Camera.Y / ts))
	x1 := int(math.Ceil((l.Camera.X + viewW) / ts))
	y1 := int(math.Ceil((l.Camera.Y + viewH) / ts))

	for ty := max(y0, 0); ty < min(y1, l.Map.Data.Height); ty++ {
		for tx := max(x0, 0); tx < min(x1, l.Map.Data.Width); tx++ {
			if !l.Fog.IsExplored(tx, ty) {
				continue
			}
			c := Shade(TileColor(l.Map.IsWall(tx, ty)), l.LightAtTile(tx, ty), l.Fog.IsVisible(tx, ty))
			sx, sy := l.Camera.ToScreen(float64(tx)*ts, float64(ty)*ts)
			g.Renderer.FillRect(screen, float32(sx), float32(sy), float32(ts), float32(ts), c)
		}
	}
}

func (g *Game) drawPlayer(screen render.Image) {
	l := g.Level
	px, py := l.PlayerPosition()
	sx, sy := l.Camera.ToScreen(px, py)
	r := float32(l.TileSize() * 0.3)

	clr := color.RGBA{200, 200, 210, 255}
	if l.Player.TorchOn {
		clr = color.RGBA{255, 210, 140, 255}
	}
	g.Renderer.FillCircle(screen, float32(sx), float32(sy), r, clr)

	// Facing marker
	fx := sx + float64(l.Player.Facing.DX)*l.TileSize()*0.35
	fy := sy + float64(l.Player.Facing.DY)*l.TileSize()*0.35
	g.Renderer.FillCircle(screen, float32(fx), float32(fy), r/3, color.White)
}

// drawMinimap shows explored tiles in the top-right corner.
func (g *Game) drawMinimap(screen render.Image) {
	l := g.Level
	w := l.Map.Data.Width * minimapScale
	h := l.Map.Data.Height * minimapScale

	if g.minimap == nil || needsResize(g.minimap, w, h) {
		if g.minimap != nil {
			g.minimap.Dispose()
		}
		g.minimap = g.Renderer.NewImage(w, h)
	}
	g.minimap.Fill(color.RGBA{0, 0, 0, 160})

	for ty := 0; ty < l.Map.Data.Height; ty++ {
		for tx := 0; tx < l.Map.Data.Width; tx++ {
			if !l.Fog.IsExplored(tx, ty) {
				continue
			}
			clr := color.RGBA{90, 80, 70, 255}
			switch {
			case l.Map.IsWall(tx, ty):
				clr = color.RGBA{150, 140, 130, 255}
			case l.Fog.IsVisible(tx, ty):
				clr = color.RGBA{190, 160, 110, 255}
			}
			g.Renderer.FillRect(g.minimap, float32(tx*minimapScale), float32(ty*minimapScale), minimapScale, minimapScale, clr)
		}
	}
	g.Renderer.FillRect(g.minimap, float32(l.Player.TileX*minimapScale), float32(l.Player.TileY*minimapScale), minimapScale, minimapScale, color.White)

	screenW, _ := screen.Size()
	screen.DrawImage(g.minimap, float64(screenW-w-10), 10)
}

func (g *Game) drawUI(screen render.Image) {
	l := g.Level
	torch := "off"
	if l.Player.TorchOn {
		torch = "on"
	}
	status := fmt.Sprintf("%s  torch: %s  lights: %d/%d  explored: %d",
		l.Map.Data.Name, torch, l.Lights.LiveCount(), l.Lights.Len(), l.Fog.ExploredCount())
	g.Renderer.DrawText(screen, status, 10, 10, color.White, 1)

	_, screenH := screen.Size()
	y := screenH - 20
	for i := len(g.Messages) - 1; i >= 0; i-- {
		g.Renderer.DrawText(screen, g.Messages[i].Text, 10, y, color.White, 1)
		y -= 16
	}
}

func needsResize(img render.Image, w, h int) bool {
	bounds := img.Bounds()
	return bounds.Dx() != w || bounds.Dy() != h
}
