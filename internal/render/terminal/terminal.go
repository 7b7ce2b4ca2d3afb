// Package terminal implements the render contracts on a character-cell
// terminal through tcell. The game's logical window is scaled onto the cell
// grid, sprites become solid blocks of their average colour and text is
// drawn rune by rune.
package terminal

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/stardodge/internal/render"
)

// NewScreen creates and initialises a tcell screen with mouse reporting on.
// The caller owns the screen and must call Fini.
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise terminal screen: %w", err)
	}
	screen.EnableMouse()
	screen.HideCursor()
	return screen, nil
}

// Surface is the screen seen as a logical-resolution image.
type Surface struct {
	screen     tcell.Screen
	logicalW   int
	logicalH   int
	cols, rows int
}

func newSurface(screen tcell.Screen, logicalW, logicalH int) *Surface {
	s := &Surface{screen: screen, logicalW: logicalW, logicalH: logicalH}
	s.syncSize()
	return s
}

// syncSize picks up terminal resizes.
func (s *Surface) syncSize() {
	s.cols, s.rows = s.screen.Size()
}

// Bounds returns the logical bounds of the surface.
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.logicalW, s.logicalH)
}

// Size returns the logical size of the surface.
func (s *Surface) Size() (width, height int) {
	return s.logicalW, s.logicalH
}

// Fill paints every cell with the colour.
func (s *Surface) Fill(clr color.Color) {
	style := tcell.StyleDefault.Background(toTcellColor(clr))
	for y := 0; y < s.rows; y++ {
		for x := 0; x < s.cols; x++ {
			s.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// DrawImage paints the cells covered by the transformed source as a solid
// block of the source's colour.
func (s *Surface) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	sprite, ok := src.(*Sprite)
	if !ok {
		return
	}
	var geoM render.GeoM = &render.Matrix{}
	if opts != nil && opts.GeoM != nil {
		geoM = opts.GeoM
	}
	x0, y0 := geoM.Apply(0, 0)
	x1, y1 := geoM.Apply(float64(sprite.width), float64(sprite.height))
	s.fillLogical(x0, y0, x1-x0, y1-y0, sprite.clr)
}

// Dispose is a no-op; the screen belongs to the caller.
func (s *Surface) Dispose() {}

// fillLogical fills the cells that overlap a logical rectangle.
func (s *Surface) fillLogical(x, y, w, h float64, clr color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	if _, _, _, a := clr.RGBA(); a == 0 {
		return
	}
	c0, r0, c1, r1 := s.cellSpan(x, y, w, h)
	style := tcell.StyleDefault.Background(toTcellColor(clr))
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			s.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

// cellSpan returns the inclusive cell range covering a logical rectangle,
// clipped to the screen. An empty span has c1 < c0 or r1 < r0.
func (s *Surface) cellSpan(x, y, w, h float64) (c0, r0, c1, r1 int) {
	sx, sy := s.scale()
	c0 = int(math.Floor(x * sx))
	r0 = int(math.Floor(y * sy))
	c1 = int(math.Ceil((x+w)*sx)) - 1
	r1 = int(math.Ceil((y+h)*sy)) - 1
	if c1 < c0 {
		c1 = c0
	}
	if r1 < r0 {
		r1 = r0
	}
	c0, r0 = max(c0, 0), max(r0, 0)
	c1, r1 = min(c1, s.cols-1), min(r1, s.rows-1)
	return c0, r0, c1, r1
}

// scale returns cells per logical pixel on each axis.
func (s *Surface) scale() (float64, float64) {
	if s.logicalW <= 0 || s.logicalH <= 0 {
		return 0, 0
	}
	return float64(s.cols) / float64(s.logicalW), float64(s.rows) / float64(s.logicalH)
}

// CellToLogical converts a cell position to the logical pixel at the
// cell's centre.
func (s *Surface) CellToLogical(col, row int) (int, int) {
	if s.cols <= 0 || s.rows <= 0 {
		return 0, 0
	}
	x := (float64(col) + 0.5) * float64(s.logicalW) / float64(s.cols)
	y := (float64(row) + 0.5) * float64(s.logicalH) / float64(s.rows)
	return int(x), int(y)
}

// LogicalToCell converts a logical position to the cell containing it.
func (s *Surface) LogicalToCell(x, y int) (int, int) {
	sx, sy := s.scale()
	return int(math.Floor(float64(x) * sx)), int(math.Floor(float64(y) * sy))
}

// Sprite is a loaded image reduced to its size and average colour.
type Sprite struct {
	width, height int
	clr           color.RGBA
}

// NewSprite creates a sprite from a decoded image.
func NewSprite(img image.Image) *Sprite {
	b := img.Bounds()
	return &Sprite{width: b.Dx(), height: b.Dy(), clr: AverageColor(img)}
}

// Bounds returns the source image bounds.
func (s *Sprite) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

// Size returns the source image size.
func (s *Sprite) Size() (width, height int) {
	return s.width, s.height
}

// Fill replaces the sprite colour.
func (s *Sprite) Fill(clr color.Color) {
	s.clr = color.RGBAModel.Convert(clr).(color.RGBA)
}

// DrawImage is a no-op; sprites are not composited in a terminal.
func (s *Sprite) DrawImage(render.Image, *render.DrawImageOptions) {}

// Dispose is a no-op.
func (s *Sprite) Dispose() {}

// AverageColor returns the alpha-weighted mean colour of the opaque parts
// of an image, so transparent padding around a sprite does not wash it out.
func AverageColor(img image.Image) color.RGBA {
	var r, g, b, weight uint64
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pr, pg, pb, pa := img.At(x, y).RGBA()
			if pa == 0 {
				continue
			}
			// RGBA() is alpha-premultiplied, so summing it already weights by alpha.
			r += uint64(pr)
			g += uint64(pg)
			b += uint64(pb)
			weight += uint64(pa)
		}
	}
	if weight == 0 {
		return color.RGBA{}
	}
	return color.RGBA{
		R: uint8(r * 0xff / weight),
		G: uint8(g * 0xff / weight),
		B: uint8(b * 0xff / weight),
		A: 0xff,
	}
}

func toTcellColor(clr color.Color) tcell.Color {
	c := color.RGBAModel.Convert(clr).(color.RGBA)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Renderer implements render.Renderer on a Surface.
type Renderer struct {
	surface *Surface
}

// NewImageFromImage reduces an image to a sprite.
func (r *Renderer) NewImageFromImage(src image.Image) render.Image {
	return NewSprite(src)
}

// NewGeoM returns an identity matrix.
func (r *Renderer) NewGeoM() render.GeoM {
	return &render.Matrix{}
}

// FillRect fills the cells under a logical rectangle.
func (r *Renderer) FillRect(dst render.Image, x, y, width, height float32, clr color.Color) {
	switch d := dst.(type) {
	case *Surface:
		d.fillLogical(float64(x), float64(y), float64(width), float64(height), clr)
	case *Sprite:
		d.Fill(clr)
	}
}

// DrawText writes text starting at the cell containing (x, y). The size is
// ignored; every glyph takes one cell. The cell background is kept.
func (r *Renderer) DrawText(dst render.Image, str string, x, y int, clr color.Color, size float64) {
	s, ok := dst.(*Surface)
	if !ok {
		return
	}
	col, row := s.LogicalToCell(x, y)
	if row < 0 || row >= s.rows {
		return
	}
	fg := toTcellColor(clr)
	for _, ch := range str {
		if col >= s.cols {
			break
		}
		if col >= 0 {
			_, _, style, _ := s.screen.GetContent(col, row)
			s.screen.SetContent(col, row, ch, nil, style.Foreground(fg))
		}
		col++
	}
}

// MeasureText returns the logical extent of text drawn one rune per cell.
// Without a sized surface it assumes an 8x16 cell.
func (r *Renderer) MeasureText(str string, size float64) (width, height int) {
	n := len([]rune(str))
	s := r.surface
	if s == nil || s.cols == 0 || s.rows == 0 {
		return n * 8, 16
	}
	cellW := float64(s.logicalW) / float64(s.cols)
	cellH := float64(s.logicalH) / float64(s.rows)
	return int(math.Ceil(float64(n) * cellW)), int(math.Ceil(cellH))
}

// ResourceLoader decodes image files into sprites.
type ResourceLoader struct{}

// NewResourceLoader creates a terminal resource loader.
func NewResourceLoader() render.ResourceLoader {
	return &ResourceLoader{}
}

// LoadImage decodes a PNG or JPEG file.
func (l *ResourceLoader) LoadImage(path string) (render.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return NewSprite(img), nil
}
