// Package audio plays the looping background track.
package audio

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
)

// SampleRate is the output rate of the speaker.
const SampleRate = beep.SampleRate(44100)

// resampleQuality is passed to beep.Resample for files at other rates.
const resampleQuality = 4

// Track is a fully buffered, loopable piece of audio.
type Track struct {
	buffer *beep.Buffer
}

// Len returns the track length in samples.
func (t *Track) Len() int {
	return t.buffer.Len()
}

// Duration returns the track length.
func (t *Track) Duration() time.Duration {
	return t.buffer.Format().SampleRate.D(t.buffer.Len())
}

// Loop returns a streamer that plays the track from the start forever.
func (t *Track) Loop() beep.Streamer {
	return beep.Loop(-1, t.buffer.Streamer(0, t.buffer.Len()))
}

// decoder turns an open file into a beep stream. The stream owns the file.
type decoder func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// decoders maps lower-case file extensions to their decoder.
var decoders = map[string]decoder{
	".mp3": mp3.Decode,
	".wav": func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		return wav.Decode(rc)
	},
}

// LoadTrack decodes an MP3 or WAV file into memory, resampled to
// SampleRate. The format is chosen by extension. An empty path returns the
// built-in synthesized tune.
func LoadTrack(path string) (*Track, error) {
	if path == "" {
		return SynthTrack()
	}

	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported music format %q for %s (want .mp3 or .wav)", ext, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open music %s: %w", path, err)
	}
	streamer, format, err := decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode %s music %s: %w", strings.TrimPrefix(ext, "."), path, err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != SampleRate {
		src = beep.Resample(resampleQuality, format.SampleRate, SampleRate, streamer)
	}

	buffer := beep.NewBuffer(beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2})
	buffer.Append(src)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("failed to read music %s: %w", path, err)
	}
	if buffer.Len() == 0 {
		return nil, fmt.Errorf("music %s is empty", path)
	}
	return &Track{buffer: buffer}, nil
}

// note is one step of the synthesized tune. A zero frequency is a rest.
type note struct {
	freq  float64
	beats float64
}

// tune is a short pentatonic loop in beats of 250ms.
var tune = []note{
	{392.00, 1}, {440.00, 1}, {523.25, 1}, {440.00, 1},
	{392.00, 1}, {329.63, 1}, {293.66, 2},
	{329.63, 1}, {392.00, 1}, {440.00, 1}, {392.00, 1},
	{329.63, 1}, {293.66, 1}, {261.63, 2},
}

const beat = 250 * time.Millisecond

// SynthTrack builds the built-in tune from sine tones with a short
// attack/release on every note so the joins do not click.
func SynthTrack() (*Track, error) {
	buffer := beep.NewBuffer(beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2})
	for _, n := range tune {
		length := SampleRate.N(time.Duration(n.beats * float64(beat)))
		if n.freq == 0 {
			buffer.Append(beep.Silence(length))
			continue
		}
		tone, err := generators.SineTone(SampleRate, n.freq)
		if err != nil {
			return nil, fmt.Errorf("failed to synthesize %gHz: %w", n.freq, err)
		}
		buffer.Append(&envelope{
			streamer: beep.Take(length, tone),
			total:    length,
			ramp:     SampleRate.N(10 * time.Millisecond),
			gain:     0.25,
		})
	}
	return &Track{buffer: buffer}, nil
}

// envelope applies a linear fade in and out over ramp samples.
type envelope struct {
	streamer beep.Streamer
	pos      int
	total    int
	ramp     int
	gain     float64
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		level := e.gain
		if e.ramp > 0 {
			fromStart := float64(e.pos) / float64(e.ramp)
			fromEnd := float64(e.total-e.pos) / float64(e.ramp)
			level *= math.Min(1, math.Min(fromStart, fromEnd))
		}
		samples[i][0] *= level
		samples[i][1] *= level
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error {
	return e.streamer.Err()
}
