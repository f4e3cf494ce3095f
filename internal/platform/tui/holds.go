package tui

import (
	"sync"
	"time"

	"github.com/yaahc/tetris/internal/event"
)

// Terminals report key repeats but no key releases. A held key repeats after
// the keyboard's initial delay, then every few tens of milliseconds.
const (
	DefaultReleaseDelay  = 550 * time.Millisecond
	DefaultReleaseRepeat = 90 * time.Millisecond
)

// HoldTracker turns the terminal's key stream into press and release events.
// The first press of a held action is forwarded; repeats are swallowed while
// they keep coming, and a release is sent once they stop. Releases are sent
// from timer goroutines, so the tracker is one of the channel's producers.
type HoldTracker struct {
	events event.Sender
	delay  time.Duration
	repeat time.Duration

	mu     sync.Mutex
	held   map[event.Input]*time.Timer
	closed bool
}

// NewHoldTracker creates a tracker. delay bounds the wait for the first
// repeat, repeat the wait between later ones.
func NewHoldTracker(events event.Sender, delay, repeat time.Duration) *HoldTracker {
	return &HoldTracker{
		events: events,
		delay:  delay,
		repeat: repeat,
		held:   make(map[event.Input]*time.Timer),
	}
}

// Press handles one key message's input.
func (h *HoldTracker) Press(in event.Input) {
	release, holdable := in.Release()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if !holdable {
		h.events.Send(in)
		return
	}

	wait := h.delay
	if t, ok := h.held[in]; ok {
		t.Stop()
		wait = h.repeat
	} else {
		h.events.Send(in)
	}

	var t *time.Timer
	t = time.AfterFunc(wait, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.closed || h.held[in] != t {
			return
		}
		delete(h.held, in)
		h.events.Send(release)
	})
	h.held[in] = t
}

// Held reports whether in is currently held.
func (h *HoldTracker) Held(in event.Input) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.held[in]
	return ok
}

// Close stops every pending release. Later presses are ignored.
func (h *HoldTracker) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for in, t := range h.held {
		t.Stop()
		delete(h.held, in)
	}
}
