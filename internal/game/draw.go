package game

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"chosenoffset.com/stardodge/internal/core/geom"
	"chosenoffset.com/stardodge/internal/render"
)

var (
	timeColor    = color.RGBA{255, 255, 0, 255}
	caughtColor  = color.RGBA{255, 0, 0, 255}
	buttonColor  = color.RGBA{255, 0, 0, 255}
	buttonText   = color.RGBA{255, 255, 255, 255}
	hintColor    = color.RGBA{200, 200, 200, 255}
	fallbackSky  = color.RGBA{20, 24, 48, 255}
	fallbackHero = color.RGBA{250, 215, 40, 255}
	fallbackBall = color.RGBA{220, 30, 40, 255}
)

// Draw renders the current phase to the screen.
func (g *Game) Draw(screen render.Image) {
	switch g.Phase {
	case PhaseRunning:
		g.drawRun(screen)
	case PhaseCaught:
		g.drawGameOver(screen)
	}
}

// drawRun draws background, elapsed time, player and obstacles, in that order.
func (g *Game) drawRun(screen render.Image) {
	w, h := g.Rules.Window.Width, g.Rules.Window.Height
	g.drawSprite(screen, g.Assets.Background, geom.NewRect(0, 0, w, h), fallbackSky)

	g.Renderer.DrawText(screen, fmt.Sprintf("Time: %ds", roundSeconds(g.Run.Elapsed)), 10, 10, timeColor, g.fontSize())

	g.drawSprite(screen, g.Assets.Player, g.Run.Player, fallbackHero)
	for _, o := range g.Run.Obstacles {
		g.drawSprite(screen, g.Assets.Obstacle, o, fallbackBall)
	}
}

// drawGameOver draws the caught screen with its restart button.
func (g *Game) drawGameOver(screen render.Image) {
	w, h := g.Rules.Window.Width, g.Rules.Window.Height
	size := g.fontSize()

	screen.Fill(color.Black)

	g.drawCentered(screen, "YOU GOT CAUGHT!", h/2-100, caughtColor, size*1.25)

	button := RestartButton(w, h)
	g.Renderer.FillRect(screen, float32(button.X), float32(button.Y), float32(button.W), float32(button.H), buttonColor)
	g.drawCentered(screen, "Play Again", h/2+10, buttonText, size)

	g.drawCentered(screen, "Press ENTER to Restart", h/2+80, hintColor, size*1.25)

	summary := fmt.Sprintf("Survived %ds  Best %ds", roundSeconds(g.Run.Elapsed), roundSeconds(g.BestTime))
	g.drawCentered(screen, summary, h/2+150, hintColor, size*0.75)
}

func (g *Game) drawCentered(screen render.Image, text string, y int, clr color.Color, size float64) {
	tw, _ := g.Renderer.MeasureText(text, size)
	g.Renderer.DrawText(screen, text, g.Rules.Window.Width/2-tw/2, y, clr, size)
}

// drawSprite scales img to fill rect. Without an image the rect is filled
// with the fallback color.
func (g *Game) drawSprite(screen render.Image, img render.Image, rect geom.Rect, fallback color.Color) {
	if img == nil {
		g.Renderer.FillRect(screen, float32(rect.X), float32(rect.Y), float32(rect.W), float32(rect.H), fallback)
		return
	}

	iw, ih := img.Size()
	if iw == 0 || ih == 0 {
		return
	}
	geoM := g.Renderer.NewGeoM()
	geoM.Scale(float64(rect.W)/float64(iw), float64(rect.H)/float64(ih))
	geoM.Translate(float64(rect.X), float64(rect.Y))
	screen.DrawImage(img, &render.DrawImageOptions{GeoM: geoM})
}

func (g *Game) fontSize() float64 {
	return g.Rules.Assets.FontSize
}

func roundSeconds(d time.Duration) int {
	return int(math.Round(d.Seconds()))
}
