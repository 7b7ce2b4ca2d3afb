package game

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"chosenoffset.com/stardodge/internal/core/geom"
	"chosenoffset.com/stardodge/internal/simulation"
)

// Run is the state of one play-through, from reset until the player is
// caught or quits.
type Run struct {
	ID            uuid.UUID
	Player        geom.Rect
	Obstacles     []geom.Rect
	Elapsed       time.Duration
	SpawnInterval time.Duration // Current threshold; shrinks after every batch
	Caught        bool

	spawnAccum time.Duration
	rules      *simulation.Config
	bounds     geom.Rect
	rng        *rand.Rand
}

// NewRun creates a fresh run: player on the bottom row, no obstacles,
// spawn interval at its initial value.
func NewRun(rules *simulation.Config, rng *rand.Rand) *Run {
	bounds := geom.NewRect(0, 0, rules.Window.Width, rules.Window.Height)
	player := geom.NewRect(
		rules.Player.StartX,
		rules.Window.Height-rules.Player.Height,
		rules.Player.Width,
		rules.Player.Height,
	).ClampInside(bounds)

	return &Run{
		ID:            uuid.New(),
		Player:        player,
		SpawnInterval: rules.InitialInterval(),
		rules:         rules,
		bounds:        bounds,
		rng:           rng,
	}
}

// Tick advances the run clock by dt. Once the accumulated time exceeds the
// spawn interval a batch of obstacles is added above the top edge, the
// interval shrinks by one step (never below the floor) and the accumulator
// restarts from zero. It reports whether a batch was spawned.
func (r *Run) Tick(dt time.Duration) bool {
	r.spawnAccum += dt
	r.Elapsed += dt

	if r.spawnAccum <= r.SpawnInterval {
		return false
	}

	w, h := r.rules.Obstacles.Width, r.rules.Obstacles.Height
	for i := 0; i < r.rules.Obstacles.BatchSize; i++ {
		x := r.rng.Intn(r.bounds.W - w + 1)
		r.Obstacles = append(r.Obstacles, geom.NewRect(x, -h, w, h))
	}

	r.SpawnInterval = max(r.rules.IntervalFloor(), r.SpawnInterval-r.rules.IntervalStep())
	r.spawnAccum = 0
	return true
}

// ApplyInput moves the player one step along each pressed axis and keeps
// the player fully inside the window. Opposing keys cancel out.
func (r *Run) ApplyInput(keys Keys) {
	vel := r.rules.Player.Velocity
	dx, dy := 0, 0
	if keys.Left {
		dx -= vel
	}
	if keys.Right {
		dx += vel
	}
	if keys.Up {
		dy -= vel
	}
	if keys.Down {
		dy += vel
	}
	r.Player = r.Player.Translate(dx, dy).ClampInside(r.bounds)
}

// AdvanceObstacles moves every obstacle down one step. Obstacles that have
// left through the bottom edge are dropped. The first obstacle that overlaps
// the player is removed, the run is marked caught and the remaining
// obstacles are left untouched for this frame. It reports whether the
// player was hit.
func (r *Run) AdvanceObstacles() bool {
	vel := r.rules.Obstacles.Velocity
	kept := r.Obstacles[:0]

	for i, o := range r.Obstacles {
		o.Y += vel
		if o.Y > r.bounds.Bottom() {
			continue
		}
		if o.Intersects(r.Player) {
			r.Caught = true
			r.Obstacles = append(kept, r.Obstacles[i+1:]...)
			return true
		}
		kept = append(kept, o)
	}

	r.Obstacles = kept
	return false
}
