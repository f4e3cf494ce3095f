// Package loop drives a game once per frame: it merges player input, settings
// changes and the game's own timers into game updates, runs the spin search
// for each new piece and hands the result to the render targets.
package loop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaahc/tetris/internal/event"
	"github.com/yaahc/tetris/internal/piece"
	"github.com/yaahc/tetris/internal/search"
	"github.com/yaahc/tetris/internal/sound"
	"github.com/yaahc/tetris/internal/tetris"
	"github.com/yaahc/tetris/internal/timer"
)

// SessionLimit is how long a session may run before the loop stops.
const SessionLimit = 20 * time.Minute

// ExpiredMessage replaces the timer text when the session limit is reached.
const ExpiredMessage = "DONE! Gaming time is over. Please stretch"

// Game is the rules engine the scheduler drives.
type Game interface {
	Start(seed *int64, now time.Time, sink sound.Sink)
	// Handle applies an event and reports whether a new piece spawned.
	Handle(ev event.Event, now time.Time, sink sound.Sink) bool
	State() tetris.GameState
	SearchEnabled() bool
	Timers() *timer.Queue
	SearchInput() (search.State, []piece.Kind)
	SetSpins(nodes []search.Node)
	DisplaySpins() string
	Elapsed(now time.Time) time.Duration
	LinesRemaining() (int, bool)
	Frame() tetris.Frame
}

// Searcher generates placements and runs the bounded search over them.
type Searcher interface {
	Movegen(st search.State, k piece.Kind) []search.Placement
	Search(st search.State, locations []search.Placement, queue []piece.Kind) ([]search.Node, error)
}

// Source is the consumer side of the event channel.
type Source interface {
	TryReceive() (event.Event, bool)
	Discard() int
}

// Options configures a Scheduler. Game, Events and every target are required.
type Options struct {
	Game     Game
	Searcher Searcher // defaults to search.NewEngine()
	Events   Source
	Targets  Targets
	Sound    sound.Sink  // defaults to sound.NullSink
	Logger   *log.Logger // defaults to a discarding logger
	Seed     *int64      // seed for every start; nil picks a fresh one
}

// Scheduler runs one tick of the game per host frame.
type Scheduler struct {
	game     Game
	searcher Searcher
	events   Source
	targets  Targets
	sink     sound.Sink
	logger   *log.Logger
	seed     *int64

	fps     FPSCounter
	gate    *SearchGate
	start   time.Time
	expired bool
}

// NewScheduler validates opts and builds a scheduler.
// Missing render targets are reported as a *MissingTargetsError.
func NewScheduler(opts Options) (*Scheduler, error) {
	if opts.Game == nil {
		return nil, errors.New("loop: game is required")
	}
	if opts.Events == nil {
		return nil, errors.New("loop: event source is required")
	}
	if err := opts.Targets.Validate(); err != nil {
		return nil, err
	}

	s := &Scheduler{
		game:     opts.Game,
		searcher: opts.Searcher,
		events:   opts.Events,
		targets:  opts.Targets,
		sink:     opts.Sound,
		logger:   opts.Logger,
		seed:     opts.Seed,
	}
	if s.searcher == nil {
		s.searcher = search.NewEngine()
	}
	if s.sink == nil {
		s.sink = sound.NullSink{}
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.gate = NewSearchGate(s.logger)
	return s, nil
}

// Start starts the game and the session clock.
func (s *Scheduler) Start(now time.Time) {
	s.start = now
	s.game.Start(s.seed, now, s.sink)
	s.gate.Reset()
}

// Expired reports whether the session limit has been reached.
func (s *Scheduler) Expired() bool { return s.expired }

// Gate exposes the search gate.
func (s *Scheduler) Gate() *SearchGate { return s.gate }

// Tick advances the game to now. It returns false once the session has
// expired; every later call is a no-op returning false.
func (s *Scheduler) Tick(now time.Time) bool {
	if s.expired {
		return false
	}
	if s.start.IsZero() {
		s.start = now
	}

	s.targets.FPS.SetText(fmt.Sprintf("fps: %.0f", s.fps.Tick(now)))
	s.targets.Timer.SetText(fmt.Sprintf("%.2f", s.game.Elapsed(now).Seconds()))
	if remaining, ok := s.game.LinesRemaining(); ok {
		s.targets.Lines.SetText(strconv.Itoa(remaining))
	}

	s.drain(now)
	if s.gate.Run(s.game, s.searcher) {
		s.logger.Debug("searched new piece")
	}
	s.fireTimers(now)
	s.render()

	if now.Sub(s.start) > SessionLimit {
		s.targets.Timer.SetText(ExpiredMessage)
		s.expired = true
		s.logger.Info("session limit reached", "limit", SessionLimit)
		return false
	}
	return true
}

// Run ticks once per frame signal until ctx is cancelled or the session
// expires. A tick in progress always completes.
func (s *Scheduler) Run(ctx context.Context, frames <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-frames:
			if !ok {
				return nil
			}
			if !s.Tick(now) {
				return nil
			}
		}
	}
}

// drain dispatches the queued events. Restart starts a new game and drops
// whatever was queued behind it.
func (s *Scheduler) drain(now time.Time) {
	for {
		ev, ok := s.events.TryReceive()
		if !ok {
			return
		}
		if err := event.Validate(ev); err != nil {
			s.logger.Warn("skipping event", "err", err)
			continue
		}

		if in, ok := ev.(event.Input); ok && in == event.Restart {
			s.game.Start(s.seed, now, s.sink)
			s.gate.Reset()
			if n := s.events.Discard(); n > 0 {
				s.logger.Debug("restart dropped queued events", "count", n)
			}
			return
		}
		if !s.admits(ev) {
			continue
		}
		s.gate.Observe(s.game.Handle(ev, now, s.sink))
	}
}

// admits reports whether ev may reach the game in its current state.
// During the countdown only left and right get through so DAS can be
// charged. Settings dropped here are still persisted by their handler.
func (s *Scheduler) admits(ev event.Event) bool {
	switch s.game.State() {
	case tetris.Running:
		return true
	case tetris.Startup:
		in, ok := ev.(event.Input)
		return ok && in.IsDirectional()
	default:
		return false
	}
}

// fireTimers dispatches the due entries that were queued before this tick's
// pass began. Entries a handler schedules for now wait for the next tick.
func (s *Scheduler) fireTimers(now time.Time) {
	timers := s.game.Timers()
	mark := timers.Mark()
	for {
		if s.game.State() == tetris.Done {
			timers.Clear()
			return
		}
		e, ok := timers.Front()
		if !ok || e.At.After(now) || !e.ScheduledBefore(mark) {
			return
		}
		timers.PopFront()
		s.gate.Observe(s.game.Handle(e.Kind, now, s.sink))
	}
}

func (s *Scheduler) render() {
	f := s.game.Frame()
	surfaces := [...]struct {
		name string
		s    Surface
	}{
		{"board", s.targets.Board},
		{"queue", s.targets.Queue},
		{"hold", s.targets.Hold},
	}
	for _, sf := range surfaces {
		if err := sf.s.Draw(f); err != nil {
			s.logger.Warn("draw failed", "target", sf.name, "err", err)
		}
	}
	s.targets.Spins.SetText(s.game.DisplaySpins())
}
