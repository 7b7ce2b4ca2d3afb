package game

import (
	"log"
	"math/rand"
	"time"

	"chosenoffset.com/stardodge/internal/core/geom"
	"chosenoffset.com/stardodge/internal/render"
	"chosenoffset.com/stardodge/internal/simulation"
)

// Game holds all game state and logic. It owns the current run and moves
// between the Running, Caught and Terminated phases on a single update path.
type Game struct {
	Rules    *simulation.Config
	Assets   Assets
	Renderer render.Renderer
	InputMgr render.InputManager
	Clock    render.Clock
	Music    Music

	Phase    Phase
	Run      *Run
	Runs     int           // Runs started this session
	BestTime time.Duration // Longest run this session

	rng *rand.Rand
}

// New creates a game. Call StartRun before the first Update.
func New(rules *simulation.Config, assets Assets, r render.Renderer, input render.InputManager, clock render.Clock, music Music, rng *rand.Rand) *Game {
	return &Game{
		Rules:    rules,
		Assets:   assets,
		Renderer: r,
		InputMgr: input,
		Clock:    clock,
		Music:    music,
		rng:      rng,
	}
}

// StartRun resets the run state and starts the background track.
func (g *Game) StartRun() {
	g.Run = NewRun(g.Rules, g.rng)
	g.setPhase(PhaseRunning)
	g.Runs++
	g.Music.Play()
	log.Printf("Run %d started (id %s)", g.Runs, g.Run.ID)
}

// Update handles one frame of game logic.
func (g *Game) Update() error {
	if g.Phase == PhaseTerminated {
		return render.ErrTerminated
	}

	events := g.InputMgr.PollEvents()
	if quitRequested(events) {
		g.setPhase(PhaseTerminated)
		g.Music.Stop()
		log.Printf("Quit requested after %d run(s), best %.1fs", g.Runs, g.BestTime.Seconds())
		return render.ErrTerminated
	}

	dt := g.Clock.Tick()

	switch g.Phase {
	case PhaseRunning:
		if g.Run.Tick(dt) {
			log.Printf("Run %s: spawned batch, %d obstacles live, next interval %v",
				g.Run.ID, len(g.Run.Obstacles), g.Run.SpawnInterval)
		}
		g.Run.ApplyInput(KeysFrom(g.InputMgr))
		if g.Run.AdvanceObstacles() {
			g.enterCaught()
		}
	case PhaseCaught:
		if g.restartRequested(events) {
			g.StartRun()
		}
	}

	return nil
}

// Layout returns the game's logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.Rules.Window.Width, g.Rules.Window.Height
}

// setPhase switches phase and logs the transition.
func (g *Game) setPhase(p Phase) {
	if g.Phase != p {
		log.Printf("Phase %s -> %s", g.Phase, p)
	}
	g.Phase = p
}

func (g *Game) enterCaught() {
	g.setPhase(PhaseCaught)
	g.Music.Stop()
	if g.Run.Elapsed > g.BestTime {
		g.BestTime = g.Run.Elapsed
	}
	log.Printf("Run %s caught after %.1fs", g.Run.ID, g.Run.Elapsed.Seconds())
}

func quitRequested(events []render.Event) bool {
	for _, ev := range events {
		if ev.Kind == render.EventQuit {
			return true
		}
		if ev.Kind == render.EventKeyDown && ev.Key == render.KeyEscape {
			return true
		}
	}
	return false
}

// restartRequested reports whether the events contain Enter, Space or a
// pointer press on the restart button.
func (g *Game) restartRequested(events []render.Event) bool {
	button := RestartButton(g.Rules.Window.Width, g.Rules.Window.Height)
	for _, ev := range events {
		switch ev.Kind {
		case render.EventKeyDown:
			if ev.Key == render.KeyEnter || ev.Key == render.KeySpace {
				log.Printf("Restart requested via %s", ev.Key)
				return true
			}
		case render.EventPointerDown:
			if button.Contains(geom.Point{X: ev.X, Y: ev.Y}) {
				log.Printf("Restart requested via click at (%d, %d)", ev.X, ev.Y)
				return true
			}
		}
	}
	return false
}

// RestartButton returns the clickable "Play Again" area for a screen size.
func RestartButton(width, height int) geom.Rect {
	return geom.NewRect(width/2-100, height/2, 200, 60)
}
