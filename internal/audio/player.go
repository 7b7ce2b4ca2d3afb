package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// Player loops one Track through the speaker.
type Player struct {
	mu     sync.Mutex
	track  *Track
	ctrl   *beep.Ctrl
	volume *effects.Volume
}

// NewPlayer opens the speaker and prepares the track, initially stopped.
func NewPlayer(track *Track, volume float64) (*Player, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}

	p := &Player{track: track}
	p.ctrl = &beep.Ctrl{Streamer: track.Loop(), Paused: true}
	p.volume = &effects.Volume{Streamer: p.ctrl, Base: 2}
	applyVolume(p.volume, volume)

	speaker.Play(p.volume)
	return p, nil
}

// Play restarts the track from the beginning.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()

	speaker.Lock()
	p.ctrl.Streamer = p.track.Loop()
	p.ctrl.Paused = false
	speaker.Unlock()
}

// Stop pauses playback.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
}

// Close stops playback and releases the device.
func (p *Player) Close() {
	p.Stop()
	speaker.Clear()
	speaker.Close()
}

// applyVolume maps a linear volume onto beep's base-2 exponent.
func applyVolume(v *effects.Volume, volume float64) {
	v.Silent = volume <= 0
	if v.Silent {
		v.Volume = 0
		return
	}
	v.Volume = math.Log2(math.Min(volume, 1))
}

// Mute has the same controls as Player without producing sound. It is used when audio is
// disabled or no device is available.
type Mute struct {
	Playing bool
}

// Play marks the track as playing.
func (m *Mute) Play() { m.Playing = true }

// Stop marks the track as stopped.
func (m *Mute) Stop() { m.Playing = false }
