package game

import (
	"chosenoffset.com/stardodge/internal/render"
)

// Phase is the top-level state of the game loop.
type Phase int

const (
	// PhaseRunning advances the current run every tick.
	PhaseRunning Phase = iota
	// PhaseCaught freezes the run on the game-over screen until a restart
	// signal arrives.
	PhaseCaught
	// PhaseTerminated ends the loop.
	PhaseTerminated
)

// String returns the phase name for logging.
func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseCaught:
		return "caught"
	case PhaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Keys is the directional input sampled for one frame.
type Keys struct {
	Left, Right, Up, Down bool
}

// KeysFrom samples the arrow keys and their WASD equivalents.
func KeysFrom(input render.InputManager) Keys {
	return Keys{
		Left:  input.IsKeyPressed(render.KeyLeft) || input.IsKeyPressed(render.KeyA),
		Right: input.IsKeyPressed(render.KeyRight) || input.IsKeyPressed(render.KeyD),
		Up:    input.IsKeyPressed(render.KeyUp) || input.IsKeyPressed(render.KeyW),
		Down:  input.IsKeyPressed(render.KeyDown) || input.IsKeyPressed(render.KeyS),
	}
}

// Music is the background track control the loop drives.
type Music interface {
	Play()
	Stop()
}

// Assets holds the images drawn each frame. A nil image is drawn as a
// solid rectangle instead.
type Assets struct {
	Background render.Image
	Player     render.Image
	Obstacle   render.Image
}
