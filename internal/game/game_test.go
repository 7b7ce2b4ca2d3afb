package game

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"math/rand"
	"os"
	"strings"
	"testing"
	"time"

	"chosenoffset.com/stardodge/internal/core/geom"
	"chosenoffset.com/stardodge/internal/render"
	"chosenoffset.com/stardodge/internal/simulation"
)

// drawLog collects draw calls in the order they were issued.
type drawLog struct {
	calls []string
}

func (l *drawLog) add(format string, args ...any) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

type fakeImage struct {
	name string
	w, h int
	log  *drawLog
}

func (i *fakeImage) Bounds() image.Rectangle { return image.Rect(0, 0, i.w, i.h) }
func (i *fakeImage) Size() (int, int)        { return i.w, i.h }
func (i *fakeImage) Fill(clr color.Color)    { i.log.add("fill") }
func (i *fakeImage) Dispose()                {}
func (i *fakeImage) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	s := src.(*fakeImage)
	x, y := opts.GeoM.Apply(0, 0)
	x2, y2 := opts.GeoM.Apply(float64(s.w), float64(s.h))
	i.log.add("image %s %.0f,%.0f %.0fx%.0f", s.name, x, y, x2-x, y2-y)
}

type fakeRenderer struct {
	log *drawLog
}

func (r *fakeRenderer) NewImageFromImage(src image.Image) render.Image {
	b := src.Bounds()
	return &fakeImage{name: "new", w: b.Dx(), h: b.Dy(), log: r.log}
}

func (r *fakeRenderer) NewGeoM() render.GeoM {
	return &render.Matrix{}
}

func (r *fakeRenderer) FillRect(dst render.Image, x, y, width, height float32, clr color.Color) {
	r.log.add("rect %.0f,%.0f %.0fx%.0f", x, y, width, height)
}

func (r *fakeRenderer) DrawText(dst render.Image, text string, x, y int, clr color.Color, size float64) {
	r.log.add("text %q", text)
}

func (r *fakeRenderer) MeasureText(text string, size float64) (int, int) {
	return len(text) * 10, int(size)
}

type fakeInput struct {
	pressed map[render.Key]bool
	events  []render.Event
}

func (in *fakeInput) IsKeyPressed(key render.Key) bool { return in.pressed[key] }

func (in *fakeInput) PollEvents() []render.Event {
	events := in.events
	in.events = nil
	return events
}

type fakeClock struct {
	dt time.Duration
}

func (c *fakeClock) Tick() time.Duration { return c.dt }

type fakeMusic struct {
	plays, stops int
	playing      bool
}

func (m *fakeMusic) Play() { m.plays++; m.playing = true }
func (m *fakeMusic) Stop() { m.stops++; m.playing = false }

type fixture struct {
	game  *Game
	log   *drawLog
	input *fakeInput
	clock *fakeClock
	music *fakeMusic
}

func newFixture(t *testing.T, withAssets bool) *fixture {
	t.Helper()
	dl := &drawLog{}
	f := &fixture{
		log:   dl,
		input: &fakeInput{pressed: map[render.Key]bool{}},
		clock: &fakeClock{dt: 10 * time.Millisecond},
		music: &fakeMusic{},
	}

	var assets Assets
	if withAssets {
		assets = Assets{
			Background: &fakeImage{name: "bg", w: 500, h: 400, log: dl},
			Player:     &fakeImage{name: "player", w: 64, h: 64, log: dl},
			Obstacle:   &fakeImage{name: "obstacle", w: 64, h: 64, log: dl},
		}
	}

	f.game = New(simulation.DefaultConfig(), assets, &fakeRenderer{log: dl}, f.input, f.clock, f.music, rand.New(rand.NewSource(1)))
	f.game.StartRun()
	return f
}

func (f *fixture) update(t *testing.T) {
	t.Helper()
	if err := f.game.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
}

// catch places an obstacle just above the player and advances one frame.
func (f *fixture) catch(t *testing.T) {
	t.Helper()
	p := f.game.Run.Player
	f.game.Run.Obstacles = append(f.game.Run.Obstacles, geom.NewRect(p.X, p.Y-30, 35, 30))
	f.update(t)
	if f.game.Phase != PhaseCaught {
		t.Fatalf("Expected phase caught, got %v", f.game.Phase)
	}
}

func TestStartRunPlaysMusic(t *testing.T) {
	f := newFixture(t, false)

	if f.game.Phase != PhaseRunning {
		t.Errorf("Expected phase running, got %v", f.game.Phase)
	}
	if !f.music.playing || f.music.plays != 1 {
		t.Errorf("Expected music playing once, got playing=%v plays=%d", f.music.playing, f.music.plays)
	}
	if f.game.Runs != 1 {
		t.Errorf("Expected 1 run, got %d", f.game.Runs)
	}
}

func TestFirstBatchArrivesAfterInitialInterval(t *testing.T) {
	f := newFixture(t, false)

	for i := 0; i < 300; i++ {
		f.update(t)
	}
	if len(f.game.Run.Obstacles) != 0 {
		t.Fatalf("Expected no obstacles at exactly 3s, got %d", len(f.game.Run.Obstacles))
	}

	f.update(t)
	if len(f.game.Run.Obstacles) != 4 {
		t.Fatalf("Expected 4 obstacles after 3.01s, got %d", len(f.game.Run.Obstacles))
	}
	// Spawned at y=-30 then advanced once in the same frame.
	for i, o := range f.game.Run.Obstacles {
		if o.Y != -27 {
			t.Errorf("Obstacle %d: expected y=-27, got %d", i, o.Y)
		}
	}
}

func TestHeldKeyMovesPlayerToEdge(t *testing.T) {
	f := newFixture(t, false)
	f.input.pressed[render.KeyA] = true

	for i := 0; i < 100; i++ {
		f.update(t)
	}
	if f.game.Run.Player.X != 0 {
		t.Errorf("Expected player at x=0, got %d", f.game.Run.Player.X)
	}
}

func TestCaughtStopsMusicAndFreezesRun(t *testing.T) {
	f := newFixture(t, false)
	for i := 0; i < 50; i++ {
		f.update(t)
	}
	f.catch(t)

	if f.music.playing {
		t.Error("Expected music stopped after being caught")
	}
	if f.game.BestTime != f.game.Run.Elapsed {
		t.Errorf("Expected best time %v, got %v", f.game.Run.Elapsed, f.game.BestTime)
	}

	elapsed := f.game.Run.Elapsed
	player := f.game.Run.Player
	obstacles := len(f.game.Run.Obstacles)
	f.input.pressed[render.KeyRight] = true

	for i := 0; i < 500; i++ {
		f.update(t)
	}

	if f.game.Phase != PhaseCaught {
		t.Errorf("Expected to stay caught, got %v", f.game.Phase)
	}
	if f.game.Run.Elapsed != elapsed {
		t.Errorf("Expected elapsed frozen at %v, got %v", elapsed, f.game.Run.Elapsed)
	}
	if f.game.Run.Player != player {
		t.Errorf("Expected player frozen at %+v, got %+v", player, f.game.Run.Player)
	}
	if len(f.game.Run.Obstacles) != obstacles {
		t.Errorf("Expected %d obstacles, got %d", obstacles, len(f.game.Run.Obstacles))
	}
}

func TestEnterRestartsRun(t *testing.T) {
	f := newFixture(t, false)
	for i := 0; i < 400; i++ {
		f.update(t)
	}
	f.catch(t)
	firstID := f.game.Run.ID

	f.input.events = []render.Event{{Kind: render.EventKeyDown, Key: render.KeyEnter}}
	f.update(t)

	if f.game.Phase != PhaseRunning {
		t.Fatalf("Expected phase running, got %v", f.game.Phase)
	}
	if f.game.Run.Elapsed != 0 {
		t.Errorf("Expected elapsed reset, got %v", f.game.Run.Elapsed)
	}
	if len(f.game.Run.Obstacles) != 0 {
		t.Errorf("Expected no obstacles, got %d", len(f.game.Run.Obstacles))
	}
	if f.game.Run.SpawnInterval != 3*time.Second {
		t.Errorf("Expected interval reset to 3s, got %v", f.game.Run.SpawnInterval)
	}
	if f.game.Run.ID == firstID {
		t.Error("Expected a new run id")
	}
	if !f.music.playing || f.music.plays != 2 {
		t.Errorf("Expected music restarted, got playing=%v plays=%d", f.music.playing, f.music.plays)
	}
	if f.game.Runs != 2 {
		t.Errorf("Expected 2 runs, got %d", f.game.Runs)
	}
}

func TestPhaseTransitionsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	f := newFixture(t, false)
	f.catch(t)
	f.input.events = []render.Event{{Kind: render.EventKeyDown, Key: render.KeySpace}}
	f.update(t)
	f.input.events = []render.Event{{Kind: render.EventQuit}}
	f.game.Update()

	out := buf.String()
	for _, want := range []string{
		"Phase running -> caught",
		"Restart requested via Space",
		"Phase caught -> running",
		"Phase running -> terminated",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected log to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRestartKeyIgnoredWhileRunning(t *testing.T) {
	f := newFixture(t, false)
	for i := 0; i < 20; i++ {
		f.update(t)
	}
	id := f.game.Run.ID

	f.input.events = []render.Event{{Kind: render.EventKeyDown, Key: render.KeyEnter}}
	f.update(t)

	if f.game.Run.ID != id || f.game.Runs != 1 {
		t.Error("Expected Enter to be ignored while running")
	}
}

func TestPointerRestart(t *testing.T) {
	tests := []struct {
		name    string
		x, y    int
		restart bool
	}{
		{"button center", 500, 430, true},
		{"button top left", 400, 400, true},
		{"right of button", 600, 430, false},
		{"above button", 500, 399, false},
		{"top of screen", 10, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			f.catch(t)

			f.input.events = []render.Event{{Kind: render.EventPointerDown, X: tt.x, Y: tt.y}}
			f.update(t)

			if got := f.game.Phase == PhaseRunning; got != tt.restart {
				t.Errorf("Click at (%d, %d): expected restart=%v, got phase %v", tt.x, tt.y, tt.restart, f.game.Phase)
			}
		})
	}
}

func TestQuitEndsLoop(t *testing.T) {
	tests := []struct {
		name   string
		caught bool
		event  render.Event
	}{
		{"close while running", false, render.Event{Kind: render.EventQuit}},
		{"close while caught", true, render.Event{Kind: render.EventQuit}},
		{"escape while running", false, render.Event{Kind: render.EventKeyDown, Key: render.KeyEscape}},
		{"escape while caught", true, render.Event{Kind: render.EventKeyDown, Key: render.KeyEscape}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			if tt.caught {
				f.catch(t)
			}

			f.input.events = []render.Event{tt.event}
			if err := f.game.Update(); !errors.Is(err, render.ErrTerminated) {
				t.Fatalf("Expected ErrTerminated, got %v", err)
			}
			if f.game.Phase != PhaseTerminated {
				t.Errorf("Expected phase terminated, got %v", f.game.Phase)
			}
			if f.music.playing {
				t.Error("Expected music stopped on quit")
			}

			if err := f.game.Update(); !errors.Is(err, render.ErrTerminated) {
				t.Errorf("Expected ErrTerminated on later updates, got %v", err)
			}
		})
	}
}

func TestQuitWinsOverRestart(t *testing.T) {
	f := newFixture(t, false)
	f.catch(t)

	f.input.events = []render.Event{
		{Kind: render.EventKeyDown, Key: render.KeyEnter},
		{Kind: render.EventQuit},
	}
	if err := f.game.Update(); !errors.Is(err, render.ErrTerminated) {
		t.Fatalf("Expected ErrTerminated, got %v", err)
	}
	if f.game.Runs != 1 {
		t.Errorf("Expected no new run, got %d runs", f.game.Runs)
	}
}

func TestDrawRunOrder(t *testing.T) {
	f := newFixture(t, true)
	f.game.Run.Obstacles = []geom.Rect{
		geom.NewRect(100, 50, 35, 30),
		geom.NewRect(300, 60, 35, 30),
	}
	f.game.Run.Elapsed = 2600 * time.Millisecond

	screen := &fakeImage{name: "screen", w: 1000, h: 800, log: f.log}
	f.game.Draw(screen)

	want := []string{
		"image bg 0,0 1000x800",
		`text "Time: 3s"`,
		"image player 180,725 75x75",
		"image obstacle 100,50 35x30",
		"image obstacle 300,60 35x30",
	}
	if len(f.log.calls) != len(want) {
		t.Fatalf("Expected %d draw calls, got %d: %v", len(want), len(f.log.calls), f.log.calls)
	}
	for i := range want {
		if f.log.calls[i] != want[i] {
			t.Errorf("Call %d: expected %s, got %s", i, want[i], f.log.calls[i])
		}
	}
}

func TestDrawRunWithoutAssetsUsesRects(t *testing.T) {
	f := newFixture(t, false)
	f.game.Run.Obstacles = []geom.Rect{geom.NewRect(100, 50, 35, 30)}

	screen := &fakeImage{name: "screen", w: 1000, h: 800, log: f.log}
	f.game.Draw(screen)

	want := []string{
		"rect 0,0 1000x800",
		`text "Time: 0s"`,
		"rect 180,725 75x75",
		"rect 100,50 35x30",
	}
	if strings.Join(f.log.calls, "|") != strings.Join(want, "|") {
		t.Errorf("Expected %v, got %v", want, f.log.calls)
	}
}

func TestDrawGameOver(t *testing.T) {
	f := newFixture(t, true)
	f.catch(t)
	f.log.calls = nil

	screen := &fakeImage{name: "screen", w: 1000, h: 800, log: f.log}
	f.game.Draw(screen)

	if len(f.log.calls) == 0 || f.log.calls[0] != "fill" {
		t.Fatalf("Expected the screen to be cleared first, got %v", f.log.calls)
	}

	joined := strings.Join(f.log.calls, "|")
	for _, want := range []string{
		`text "YOU GOT CAUGHT!"`,
		"rect 400,400 200x60",
		`text "Play Again"`,
		`text "Press ENTER to Restart"`,
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("Expected draw call %s, got %v", want, f.log.calls)
		}
	}
	if strings.Contains(joined, "image player") {
		t.Error("Expected no sprites on the game over screen")
	}

	// The button must be drawn before its label so the label stays visible.
	if strings.Index(joined, "rect 400,400") > strings.Index(joined, `"Play Again"`) {
		t.Error("Expected the button before its label")
	}
}

func TestLayoutUsesWindowSize(t *testing.T) {
	f := newFixture(t, false)

	w, h := f.game.Layout(1920, 1080)
	if w != 1000 || h != 800 {
		t.Errorf("Expected 1000x800, got %dx%d", w, h)
	}
}

func TestRestartButton(t *testing.T) {
	b := RestartButton(1000, 800)
	if b != geom.NewRect(400, 400, 200, 60) {
		t.Errorf("Expected button at (400, 400) 200x60, got %+v", b)
	}
}

func TestKeysFrom(t *testing.T) {
	in := &fakeInput{pressed: map[render.Key]bool{render.KeyA: true, render.KeyUp: true}}

	keys := KeysFrom(in)
	if !keys.Left || !keys.Up || keys.Right || keys.Down {
		t.Errorf("Expected left and up only, got %+v", keys)
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseCaught.String() != "caught" {
		t.Errorf("Expected caught, got %s", PhaseCaught.String())
	}
	if Phase(9).String() != "unknown" {
		t.Errorf("Expected unknown, got %s", Phase(9).String())
	}
}
