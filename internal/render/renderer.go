package render

import (
	"errors"
	"image"
	"image/color"
)

// ErrTerminated is returned from Game.Update to end the game loop cleanly.
var ErrTerminated = errors.New("game terminated")

// Renderer is the main rendering interface that abstracts the underlying
// graphics engine. This allows swapping rendering backends without changing
// game logic.
type Renderer interface {
	// Image operations
	NewImageFromImage(src image.Image) Image

	// NewGeoM creates an identity transform usable with this backend's images.
	NewGeoM() GeoM

	// Shape operations
	FillRect(dst Image, x, y, width, height float32, clr color.Color)

	// Text operations. Size is the font size in logical pixels; y is the top
	// of the text line.
	DrawText(dst Image, text string, x, y int, clr color.Color, size float64)
	MeasureText(text string, size float64) (width, height int)
}

// Image represents a renderable image surface that can be drawn to or drawn from.
// It abstracts the underlying image implementation.
type Image interface {
	// Properties
	Bounds() image.Rectangle
	Size() (width, height int)

	// Fill operations
	Fill(clr color.Color)

	// Drawing operations
	DrawImage(src Image, opts *DrawImageOptions)

	// Resource management
	Dispose()
}

// DrawImageOptions contains options for drawing an image. A nil GeoM is
// the identity.
type DrawImageOptions struct {
	GeoM GeoM
}

// InputManager handles input from the user (keyboard, mouse, window).
type InputManager interface {
	// IsKeyPressed reports whether the key is currently held.
	IsKeyPressed(key Key) bool

	// PollEvents drains the discrete events observed since the previous call.
	PollEvents() []Event
}

// Key represents a keyboard key.
type Key int

// Key constants for the keys the game reads
const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeySpace
	KeyEscape
)

// String returns a short name for logging.
func (k Key) String() string {
	switch k {
	case KeyW:
		return "W"
	case KeyA:
		return "A"
	case KeyS:
		return "S"
	case KeyD:
		return "D"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyEnter:
		return "Enter"
	case KeySpace:
		return "Space"
	case KeyEscape:
		return "Escape"
	default:
		return "Unknown"
	}
}

// EventKind identifies a discrete input event.
type EventKind int

const (
	EventQuit EventKind = iota
	EventKeyDown
	EventPointerDown
)

// Event is a discrete input event. X and Y are logical screen coordinates
// and are only set for EventPointerDown.
type Event struct {
	Kind EventKind
	Key  Key
	X, Y int
}

// ResourceLoader handles loading resources like images from disk.
type ResourceLoader interface {
	LoadImage(path string) (Image, error)
}

// Game represents the game interface that the engine will call.
// This is typically implemented by the main game struct.
type Game interface {
	// Update updates the game logic. It is called every tick.
	// Returning ErrTerminated stops the engine without an error.
	Update() error

	// Draw draws the game screen. It is called every frame.
	Draw(screen Image)

	// Layout accepts the outside size (e.g., window size) and returns the logical screen size.
	// The logical screen size is used for rendering and input coordinates.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine represents the game engine that manages the game loop and window.
// The engine presents each frame after Draw returns.
type Engine interface {
	// SetWindowSize sets the window size in pixels.
	SetWindowSize(width, height int)

	// SetWindowTitle sets the window title.
	SetWindowTitle(title string)

	// SetTPS sets the target number of updates per second.
	SetTPS(tps int)

	// Clock returns the frame clock the game should sample once per update.
	Clock() Clock

	// RunGame runs the game loop with the provided game.
	// This is a blocking call that runs until the game ends.
	RunGame(game Game) error
}
