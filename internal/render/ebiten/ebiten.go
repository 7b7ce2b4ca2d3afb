package ebiten

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // background images are commonly JPEG
	_ "image/png"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"chosenoffset.com/stardodge/internal/render"
)

// EbitenRenderer implements the Renderer interface using Ebiten.
type EbitenRenderer struct {
	source *text.GoTextFaceSource
	faces  map[float64]*text.GoTextFace
}

// NewRenderer creates a new Ebiten-based renderer using the Go Regular font.
func NewRenderer() (render.Renderer, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	return &EbitenRenderer{
		source: source,
		faces:  make(map[float64]*text.GoTextFace),
	}, nil
}

// NewImageFromImage uploads a decoded image.
func (r *EbitenRenderer) NewImageFromImage(src image.Image) render.Image {
	return &EbitenImage{img: ebiten.NewImageFromImage(src)}
}

// FillRect draws a filled rectangle on the destination image.
func (r *EbitenRenderer) FillRect(dst render.Image, x, y, width, height float32, clr color.Color) {
	ebitenImg := dst.(*EbitenImage).img
	vector.DrawFilledRect(ebitenImg, x, y, width, height, clr, false)
}

// DrawText draws text with its top-left corner at (x, y).
func (r *EbitenRenderer) DrawText(dst render.Image, str string, x, y int, clr color.Color, size float64) {
	ebitenImg := dst.(*EbitenImage).img

	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(ebitenImg, str, r.face(size), op)
}

// MeasureText measures the width and height of text at the given size.
func (r *EbitenRenderer) MeasureText(str string, size float64) (width, height int) {
	face := r.face(size)
	m := face.Metrics()
	w, h := text.Measure(str, face, m.HLineGap+m.HAscent+m.HDescent)
	return int(w), int(h)
}

func (r *EbitenRenderer) face(size float64) *text.GoTextFace {
	if f, ok := r.faces[size]; ok {
		return f
	}
	f := &text.GoTextFace{Source: r.source, Size: size}
	r.faces[size] = f
	return f
}

// EbitenImage wraps an ebiten.Image to implement the render.Image interface.
type EbitenImage struct {
	img *ebiten.Image
}

// Bounds returns the bounds of the image.
func (i *EbitenImage) Bounds() image.Rectangle {
	return i.img.Bounds()
}

// Size returns the width and height of the image.
func (i *EbitenImage) Size() (width, height int) {
	return i.img.Bounds().Dx(), i.img.Bounds().Dy()
}

// Fill fills the entire image with the given color.
func (i *EbitenImage) Fill(clr color.Color) {
	i.img.Fill(clr)
}

// Dispose releases the image resources.
func (i *EbitenImage) Dispose() {
	if i.img != nil {
		i.img.Deallocate()
	}
}

// DrawImage draws the source image onto this image.
func (i *EbitenImage) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	srcImg := src.(*EbitenImage).img

	if opts == nil {
		i.img.DrawImage(srcImg, nil)
		return
	}

	ebitenOpts := &ebiten.DrawImageOptions{}
	ebitenOpts.GeoM = toEbitenGeoM(opts.GeoM)
	ebitenOpts.Filter = ebiten.FilterLinear
	i.img.DrawImage(srcImg, ebitenOpts)
}

// EbitenGeoM wraps ebiten's GeoM to implement the render.GeoM interface.
type EbitenGeoM struct {
	geoM ebiten.GeoM
}

// NewGeoM creates an identity transform.
func (r *EbitenRenderer) NewGeoM() render.GeoM {
	return &EbitenGeoM{}
}

// Translate shifts the image by (tx, ty).
func (g *EbitenGeoM) Translate(tx, ty float64) {
	g.geoM.Translate(tx, ty)
}

// Scale scales the image by (sx, sy).
func (g *EbitenGeoM) Scale(sx, sy float64) {
	g.geoM.Scale(sx, sy)
}

// Apply transforms the point (x, y).
func (g *EbitenGeoM) Apply(x, y float64) (float64, float64) {
	return g.geoM.Apply(x, y)
}

// toEbitenGeoM converts any render.GeoM. Foreign implementations are
// rebuilt from the images of the origin and the unit vectors.
func toEbitenGeoM(g render.GeoM) ebiten.GeoM {
	switch m := g.(type) {
	case nil:
		return ebiten.GeoM{}
	case *EbitenGeoM:
		return m.geoM
	}
	tx, ty := g.Apply(0, 0)
	ax, cy := g.Apply(1, 0)
	bx, dy := g.Apply(0, 1)
	var m ebiten.GeoM
	m.SetElement(0, 0, ax-tx)
	m.SetElement(0, 1, bx-tx)
	m.SetElement(0, 2, tx)
	m.SetElement(1, 0, cy-ty)
	m.SetElement(1, 1, dy-ty)
	m.SetElement(1, 2, ty)
	return m
}

// EbitenInputManager implements the InputManager interface using Ebiten.
type EbitenInputManager struct {
	keys []ebiten.Key
}

// NewInputManager creates a new Ebiten-based input manager.
func NewInputManager() render.InputManager {
	return &EbitenInputManager{}
}

// IsKeyPressed returns whether the specified key is currently pressed.
func (m *EbitenInputManager) IsKeyPressed(key render.Key) bool {
	for _, k := range renderKeyToEbiten(key) {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

// PollEvents reports window close, newly pressed keys and left clicks
// observed during the current tick.
func (m *EbitenInputManager) PollEvents() []render.Event {
	var events []render.Event

	if ebiten.IsWindowBeingClosed() {
		events = append(events, render.Event{Kind: render.EventQuit})
	}

	m.keys = inpututil.AppendJustPressedKeys(m.keys[:0])
	for _, k := range m.keys {
		if key := ebitenKeyToRender(k); key != render.KeyUnknown {
			events = append(events, render.Event{Kind: render.EventKeyDown, Key: key})
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		events = append(events, render.Event{Kind: render.EventPointerDown, X: x, Y: y})
	}

	return events
}

// renderKeyToEbiten returns every physical key that maps to a render.Key.
func renderKeyToEbiten(key render.Key) []ebiten.Key {
	switch key {
	case render.KeyW:
		return []ebiten.Key{ebiten.KeyW}
	case render.KeyA:
		return []ebiten.Key{ebiten.KeyA}
	case render.KeyS:
		return []ebiten.Key{ebiten.KeyS}
	case render.KeyD:
		return []ebiten.Key{ebiten.KeyD}
	case render.KeyUp:
		return []ebiten.Key{ebiten.KeyArrowUp}
	case render.KeyDown:
		return []ebiten.Key{ebiten.KeyArrowDown}
	case render.KeyLeft:
		return []ebiten.Key{ebiten.KeyArrowLeft}
	case render.KeyRight:
		return []ebiten.Key{ebiten.KeyArrowRight}
	case render.KeyEnter:
		return []ebiten.Key{ebiten.KeyEnter, ebiten.KeyNumpadEnter}
	case render.KeySpace:
		return []ebiten.Key{ebiten.KeySpace}
	case render.KeyEscape:
		return []ebiten.Key{ebiten.KeyEscape}
	default:
		return nil
	}
}

// ebitenKeyToRender converts an ebiten.Key to a render.Key.
func ebitenKeyToRender(key ebiten.Key) render.Key {
	switch key {
	case ebiten.KeyW:
		return render.KeyW
	case ebiten.KeyA:
		return render.KeyA
	case ebiten.KeyS:
		return render.KeyS
	case ebiten.KeyD:
		return render.KeyD
	case ebiten.KeyArrowUp:
		return render.KeyUp
	case ebiten.KeyArrowDown:
		return render.KeyDown
	case ebiten.KeyArrowLeft:
		return render.KeyLeft
	case ebiten.KeyArrowRight:
		return render.KeyRight
	case ebiten.KeyEnter, ebiten.KeyNumpadEnter:
		return render.KeyEnter
	case ebiten.KeySpace:
		return render.KeySpace
	case ebiten.KeyEscape:
		return render.KeyEscape
	default:
		return render.KeyUnknown
	}
}

// EbitenResourceLoader implements the ResourceLoader interface using Ebiten.
type EbitenResourceLoader struct{}

// NewResourceLoader creates a new Ebiten-based resource loader.
func NewResourceLoader() render.ResourceLoader {
	return &EbitenResourceLoader{}
}

// LoadImage loads an image from the specified file path.
func (l *EbitenResourceLoader) LoadImage(path string) (render.Image, error) {
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return nil, err
	}
	return &EbitenImage{img: img}, nil
}

// EbitenEngine implements the Engine interface using Ebiten.
type EbitenEngine struct {
	clock *render.FrameLimiter
}

// NewEngine creates a new Ebiten-based game engine.
func NewEngine() render.Engine {
	return &EbitenEngine{clock: render.NewFrameLimiter(ebiten.DefaultTPS, false)}
}

// SetWindowSize sets the window size in pixels.
func (e *EbitenEngine) SetWindowSize(width, height int) {
	ebiten.SetWindowSize(width, height)
}

// SetWindowTitle sets the window title.
func (e *EbitenEngine) SetWindowTitle(title string) {
	ebiten.SetWindowTitle(title)
}

// SetTPS sets the update rate. Ebiten does the pacing, so the clock only
// measures.
func (e *EbitenEngine) SetTPS(tps int) {
	ebiten.SetTPS(tps)
	e.clock = render.NewFrameLimiter(tps, false)
}

// Clock returns the measuring frame clock.
func (e *EbitenEngine) Clock() render.Clock {
	return e.clock
}

// RunGame runs the game loop with the provided game.
func (e *EbitenEngine) RunGame(game render.Game) error {
	ebiten.SetWindowClosingHandled(true)
	err := ebiten.RunGame(&gameAdapter{game: game})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// gameAdapter adapts a render.Game to ebiten.Game interface.
type gameAdapter struct {
	game render.Game
}

// Update implements ebiten.Game.
func (a *gameAdapter) Update() error {
	err := a.game.Update()
	if errors.Is(err, render.ErrTerminated) {
		return ebiten.Termination
	}
	return err
}

// Draw implements ebiten.Game.
func (a *gameAdapter) Draw(screen *ebiten.Image) {
	a.game.Draw(&EbitenImage{img: screen})
}

// Layout implements ebiten.Game.
func (a *gameAdapter) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.game.Layout(outsideWidth, outsideHeight)
}
