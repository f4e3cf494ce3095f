// Package beepsink plays game effects through the system speaker.
package beepsink

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/yaahc/tetris/internal/sound"
)

const sampleRate = beep.SampleRate(48000)

// tone describes a synthesized cue: a pitch glide over a fixed duration.
type tone struct {
	from, to float64 // Hz
	length   time.Duration
}

var tones = map[sound.Effect]tone{
	sound.Move:      {from: 880, to: 880, length: 15 * time.Millisecond},
	sound.Rotate:    {from: 660, to: 990, length: 25 * time.Millisecond},
	sound.HardDrop:  {from: 220, to: 110, length: 60 * time.Millisecond},
	sound.Lock:      {from: 330, to: 330, length: 30 * time.Millisecond},
	sound.Hold:      {from: 520, to: 390, length: 40 * time.Millisecond},
	sound.LineClear: {from: 520, to: 1040, length: 120 * time.Millisecond},
	sound.Spin:      {from: 780, to: 1560, length: 200 * time.Millisecond},
	sound.Countdown: {from: 440, to: 440, length: 90 * time.Millisecond},
	sound.Go:        {from: 880, to: 880, length: 180 * time.Millisecond},
	sound.GameOver:  {from: 330, to: 82, length: 600 * time.Millisecond},
	sound.Finish:    {from: 660, to: 1320, length: 400 * time.Millisecond},
}

// Sink mixes effect tones into a single speaker stream.
type Sink struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64
	closed bool
}

// New initializes the speaker and starts the mixer. Volume is a gain offset
// applied to every tone; 0 keeps the synthesized level.
func New(volume float64) (*Sink, error) {
	s := &Sink{mixer: &beep.Mixer{}, volume: volume}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("beepsink: cannot init speaker: %w", err)
	}
	speaker.Play(s.mixer)
	return s, nil
}

// Play queues the tone for e. Unknown effects are ignored.
func (s *Sink) Play(e sound.Effect) {
	t, ok := tones[e]
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	n := sampleRate.N(t.length)
	streamer := &effects.Gain{
		Streamer: beep.Take(n, newGlide(sampleRate, t.from, t.to, n)),
		Gain:     s.volume,
	}
	speaker.Lock()
	s.mixer.Add(streamer)
	speaker.Unlock()
}

// Close silences the mixer. Further Play calls are dropped.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
}

// glide is a sine oscillator sweeping linearly between two pitches with a
// short attack and a linear release.
type glide struct {
	sr       beep.SampleRate
	from, to float64
	total    int
	pos      int
	phase    float64
}

func newGlide(sr beep.SampleRate, from, to float64, total int) *glide {
	return &glide{sr: sr, from: from, to: to, total: max(total, 1)}
}

func (g *glide) Stream(samples [][2]float64) (n int, ok bool) {
	attack := g.sr.N(3 * time.Millisecond)
	for i := range samples {
		progress := float64(g.pos) / float64(g.total)
		freq := g.from + (g.to-g.from)*progress
		g.phase += 2 * math.Pi * freq / float64(g.sr)

		env := 1 - progress
		if g.pos < attack {
			env *= float64(g.pos) / float64(attack)
		}
		v := 0.2 * env * math.Sin(g.phase)

		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *glide) Err() error {
	return nil
}
