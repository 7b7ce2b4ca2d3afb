package placeholders

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
)

// SpriteSize is the edge length of generated player and obstacle sprites.
// Sprites are scaled to their configured rectangle when drawn.
const SpriteSize = 64

// ColorPalette defines colors for the generated sprites
var ColorPalette = struct {
	// Player
	PlayerBody    color.RGBA
	PlayerOutline color.RGBA
	PlayerCheek   color.RGBA

	// Obstacle
	ObstacleTop    color.RGBA
	ObstacleBottom color.RGBA
	ObstacleBand   color.RGBA

	// Background
	SkyTop    color.RGBA
	SkyBottom color.RGBA
	Star      color.RGBA
}{
	PlayerBody:    color.RGBA{250, 215, 40, 255},
	PlayerOutline: color.RGBA{120, 90, 10, 255},
	PlayerCheek:   color.RGBA{230, 60, 50, 255},

	ObstacleTop:    color.RGBA{220, 30, 40, 255},
	ObstacleBottom: color.RGBA{245, 245, 245, 255},
	ObstacleBand:   color.RGBA{20, 20, 20, 255},

	SkyTop:    color.RGBA{10, 12, 40, 255},
	SkyBottom: color.RGBA{50, 80, 60, 255},
	Star:      color.RGBA{255, 250, 220, 255},
}

// CreateCircle creates a round sprite on a transparent square.
func CreateCircle(size int, fillColor, outlineColor color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	// Make background transparent
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 0}}, image.Point{}, draw.Src)

	center := size / 2
	radius := size/2 - 2

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := x - center
			dy := y - center
			distSq := dx*dx + dy*dy

			if distSq <= radius*radius {
				img.Set(x, y, fillColor)
			} else if distSq <= (radius+1)*(radius+1) {
				img.Set(x, y, outlineColor)
			}
		}
	}

	return img
}

// Player creates the player sprite: a round yellow body with red cheeks.
func Player() *image.RGBA {
	img := CreateCircle(SpriteSize, ColorPalette.PlayerBody, ColorPalette.PlayerOutline)

	cheek := SpriteSize / 8
	for _, cx := range []int{SpriteSize / 4, 3 * SpriteSize / 4} {
		cy := 3 * SpriteSize / 5
		for y := cy - cheek; y <= cy+cheek; y++ {
			for x := cx - cheek; x <= cx+cheek; x++ {
				dx, dy := x-cx, y-cy
				if dx*dx+dy*dy <= cheek*cheek {
					img.Set(x, y, ColorPalette.PlayerCheek)
				}
			}
		}
	}

	eye := SpriteSize / 16
	for _, cx := range []int{SpriteSize / 3, 2 * SpriteSize / 3} {
		cy := 2 * SpriteSize / 5
		for y := cy - eye; y <= cy+eye; y++ {
			for x := cx - eye; x <= cx+eye; x++ {
				img.Set(x, y, ColorPalette.ObstacleBand)
			}
		}
	}

	return img
}

// Obstacle creates the falling ball sprite: red over white with a black band.
func Obstacle() *image.RGBA {
	img := CreateCircle(SpriteSize, ColorPalette.ObstacleTop, ColorPalette.ObstacleBand)

	mid := SpriteSize / 2
	band := SpriteSize / 16
	for y := mid; y < SpriteSize; y++ {
		for x := 0; x < SpriteSize; x++ {
			if img.RGBAAt(x, y) == ColorPalette.ObstacleTop {
				img.Set(x, y, ColorPalette.ObstacleBottom)
			}
		}
	}
	for y := mid - band; y <= mid+band; y++ {
		for x := 0; x < SpriteSize; x++ {
			if img.RGBAAt(x, y).A != 0 {
				img.Set(x, y, ColorPalette.ObstacleBand)
			}
		}
	}

	return img
}

// Background creates a vertical sky gradient sprinkled with stars. The
// star field is seeded so every run draws the same sky.
func Background(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		t := float64(y) / float64(max(height-1, 1))
		row := Mix(ColorPalette.SkyTop, ColorPalette.SkyBottom, t)
		for x := 0; x < width; x++ {
			img.Set(x, y, row)
		}
	}

	rng := rand.New(rand.NewSource(9))
	stars := width * height / 4000
	for i := 0; i < stars; i++ {
		x := rng.Intn(width)
		y := rng.Intn(height * 2 / 3)
		img.Set(x, y, ColorPalette.Star)
	}

	return img
}

// SavePNG saves an image to a PNG file
func SavePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// GenerateAndSave writes player.png, obstacle.png and background.png into
// dir, creating it if needed. It returns the written paths.
func GenerateAndSave(dir string, width, height int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	images := []struct {
		name string
		img  image.Image
	}{
		{"player.png", Player()},
		{"obstacle.png", Obstacle()},
		{"background.png", Background(width, height)},
	}

	var written []string
	for _, entry := range images {
		path := filepath.Join(dir, entry.name)
		if err := SavePNG(entry.img, path); err != nil {
			return written, fmt.Errorf("failed to save %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// Mix linearly interpolates between two colors; t=0 gives a, t=1 gives b.
func Mix(a, b color.RGBA, t float64) color.RGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{
		R: lerp(a.R, b.R),
		G: lerp(a.G, b.G),
		B: lerp(a.B, b.B),
		A: lerp(a.A, b.A),
	}
}
