package terminal

import (
	"errors"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/stardodge/internal/render"
)

// defaultLogicalW and defaultLogicalH are used until the game's Layout
// reports its logical size.
const (
	defaultLogicalW = 640
	defaultLogicalH = 480
)

// Engine runs a render.Game on a tcell screen. Update and Draw run on the
// calling goroutine; a single pump goroutine forwards tcell events.
type Engine struct {
	screen   tcell.Screen
	surface  *Surface
	renderer *Renderer
	input    *InputManager
	clock    *render.FrameLimiter
	title    string
}

// NewEngine creates an engine drawing on an initialised screen.
func NewEngine(screen tcell.Screen) *Engine {
	surface := newSurface(screen, defaultLogicalW, defaultLogicalH)
	return &Engine{
		screen:   screen,
		surface:  surface,
		renderer: &Renderer{surface: surface},
		input:    newInputManager(surface),
		clock:    render.NewFrameLimiter(60, true),
	}
}

// Renderer returns the renderer bound to this engine's screen.
func (e *Engine) Renderer() render.Renderer {
	return e.renderer
}

// InputManager returns the input manager fed by this engine's event pump.
func (e *Engine) InputManager() render.InputManager {
	return e.input
}

// SetWindowSize is a no-op; the terminal decides its own size.
func (e *Engine) SetWindowSize(width, height int) {}

// SetWindowTitle records the title for logging.
func (e *Engine) SetWindowTitle(title string) {
	e.title = title
}

// SetTPS sets the frame rate the clock paces to.
func (e *Engine) SetTPS(tps int) {
	e.clock = render.NewFrameLimiter(tps, true)
}

// Clock returns the sleeping frame limiter. The game must Tick it once per
// update; that call is what paces the loop.
func (e *Engine) Clock() render.Clock {
	return e.clock
}

// RunGame runs update/draw/show until the game returns an error.
// render.ErrTerminated ends the loop with a nil error.
func (e *Engine) RunGame(game render.Game) error {
	stop := make(chan struct{})
	defer close(stop)
	go e.pump(stop)

	log.Printf("Terminal engine running %q", e.title)
	for {
		e.surface.syncSize()
		e.surface.logicalW, e.surface.logicalH = game.Layout(e.surface.cols, e.surface.rows)

		if err := game.Update(); err != nil {
			if errors.Is(err, render.ErrTerminated) {
				return nil
			}
			return err
		}

		e.screen.Clear()
		game.Draw(e.surface)
		e.screen.Show()
	}
}

// pump forwards tcell events until the screen is finalised or stop closes.
func (e *Engine) pump(stop <-chan struct{}) {
	for {
		ev := e.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case e.input.events <- ev:
		case <-stop:
			return
		}
	}
}

// Terminals send no key-up, only auto-repeat, so held keys are inferred.
// A first key-down holds the key past the usual auto-repeat delay; once
// repeats arrive each one only needs to bridge the repeat interval.
const (
	firstPressHold = 550 * time.Millisecond
	repeatHold     = 150 * time.Millisecond
)

// keyHold is the hold state of one key.
type keyHold struct {
	at        time.Time
	repeating bool
}

// InputManager converts tcell events into render input.
type InputManager struct {
	events  chan tcell.Event
	surface *Surface
	pressed map[render.Key]keyHold
	now     func() time.Time
}

func newInputManager(surface *Surface) *InputManager {
	return &InputManager{
		events:  make(chan tcell.Event, 100),
		surface: surface,
		pressed: make(map[render.Key]keyHold),
		now:     time.Now,
	}
}

// IsKeyPressed reports whether a key-down for the key arrived recently
// enough for the key to still count as held.
func (m *InputManager) IsKeyPressed(key render.Key) bool {
	h, ok := m.pressed[key]
	return ok && m.now().Sub(h.at) < h.window()
}

func (h keyHold) window() time.Duration {
	if h.repeating {
		return repeatHold
	}
	return firstPressHold
}

// PollEvents drains queued tcell events without blocking.
func (m *InputManager) PollEvents() []render.Event {
	var out []render.Event
	for {
		select {
		case ev := <-m.events:
			if e, ok := m.translate(ev); ok {
				out = append(out, e)
			}
		default:
			return out
		}
	}
}

func (m *InputManager) translate(ev tcell.Event) (render.Event, bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return render.Event{Kind: render.EventQuit}, true
		}
		key := tcellKeyToRender(ev)
		if key == render.KeyUnknown {
			return render.Event{}, false
		}
		now := m.now()
		prev, held := m.pressed[key]
		held = held && now.Sub(prev.at) < prev.window()
		m.pressed[key] = keyHold{at: now, repeating: held}
		return render.Event{Kind: render.EventKeyDown, Key: key}, true
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 == 0 {
			return render.Event{}, false
		}
		col, row := ev.Position()
		x, y := m.surface.CellToLogical(col, row)
		return render.Event{Kind: render.EventPointerDown, X: x, Y: y}, true
	}
	return render.Event{}, false
}

// tcellKeyToRender converts a tcell key event to a render.Key.
func tcellKeyToRender(ev *tcell.EventKey) render.Key {
	switch ev.Key() {
	case tcell.KeyUp:
		return render.KeyUp
	case tcell.KeyDown:
		return render.KeyDown
	case tcell.KeyLeft:
		return render.KeyLeft
	case tcell.KeyRight:
		return render.KeyRight
	case tcell.KeyEnter:
		return render.KeyEnter
	case tcell.KeyEscape:
		return render.KeyEscape
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return render.KeyW
		case 'a', 'A':
			return render.KeyA
		case 's', 'S':
			return render.KeyS
		case 'd', 'D':
			return render.KeyD
		case ' ':
			return render.KeySpace
		}
	}
	return render.KeyUnknown
}
