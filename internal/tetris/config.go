package tetris

import (
	"time"

	"github.com/yaahc/tetris/internal/event"
)

// FrameRate is the rate all Config timings are expressed in.
const FrameRate = 60

// Frames converts a frame count at FrameRate into a duration.
func Frames(n int) time.Duration {
	return time.Duration(n) * time.Second / FrameRate
}

// Config holds the handling settings. Every value is in frames.
type Config struct {
	Das      int
	Arr      int
	Gravity  int // frames per row; 0 disables gravity
	SoftDrop int
	// LockDelay is the rest delay before a grounded piece locks, the window
	// in which moving resets that delay, and the absolute cap per piece.
	LockDelay [3]int
	Ghost     bool
}

// DefaultConfig returns the handling a fresh install starts with.
func DefaultConfig() Config {
	return Config{
		Das:       6,
		Arr:       0,
		Gravity:   60,
		SoftDrop:  1,
		LockDelay: [3]int{60, 300, 1200},
		Ghost:     true,
	}
}

// Apply returns c with the setting s applied.
func (c Config) Apply(s event.Setting) Config {
	switch v := s.(type) {
	case event.Das:
		c.Das = v.Frames
	case event.Arr:
		c.Arr = v.Frames
	case event.GravityChange:
		c.Gravity = v.Frames
	case event.SoftDrop:
		c.SoftDrop = v.Frames
	case event.LockDelayChange:
		c.LockDelay = v.Stages
	case event.Ghost:
		c.Ghost = v.Visible
	}
	return c
}

// Settings returns the setting events that reproduce c.
func (c Config) Settings() []event.Setting {
	return []event.Setting{
		event.Das{Frames: c.Das},
		event.Arr{Frames: c.Arr},
		event.GravityChange{Frames: c.Gravity},
		event.SoftDrop{Frames: c.SoftDrop},
		event.LockDelayChange{Stages: c.LockDelay},
		event.Ghost{Visible: c.Ghost},
	}
}
