package loop

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/yaahc/tetris/internal/event"
	"github.com/yaahc/tetris/internal/search"
	"github.com/yaahc/tetris/internal/tetris"
)

func TestFPSCounter(t *testing.T) {
	var c FPSCounter
	var fps float64
	for i := 0; i < 60; i++ {
		fps = c.Tick(t0.Add(time.Duration(i) * time.Second / 60))
	}
	if fps != 60 {
		t.Errorf("Tick() after 60 frames in one second = %v, expected 60", fps)
	}

	fps = c.Tick(t0.Add(3 * time.Second))
	if fps != 1 {
		t.Errorf("Tick() after a pause = %v, expected 1", fps)
	}
	if len(c.frames) != 1 {
		t.Errorf("retained %d timestamps, expected 1", len(c.frames))
	}
}

// spinNode builds a node whose spin happens after prefix plain moves.
func spinNode(prefix, score int) search.Node {
	n := search.Node{Score: score}
	for i := 0; i < prefix; i++ {
		n.Moves = append(n.Moves, search.Move{})
	}
	n.Moves = append(n.Moves, search.Move{
		Placement: search.Placement{Spun: true},
		Info:      search.PlacementInfo{LinesCleared: 2, Spin: true},
	})
	return n
}

type rankKey struct{ prefix, score int }

func keys(nodes []search.Node) []rankKey {
	out := make([]rankKey, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, rankKey{SpinPrefix(n), n.Score})
	}
	return out
}

func TestRankSpins(t *testing.T) {
	plainClear := search.Node{Score: 1, Moves: []search.Move{{Info: search.PlacementInfo{LinesCleared: 1}}}}
	noClear := search.Node{Score: 2, Moves: []search.Move{{Placement: search.Placement{Spun: true}}}}
	spunLater := search.Node{Score: 3, Moves: []search.Move{
		{Info: search.PlacementInfo{LinesCleared: 1}},
		{Placement: search.Placement{Spun: true}, Info: search.PlacementInfo{LinesCleared: 2, Spin: true}},
	}}

	tests := []struct {
		name     string
		nodes    []search.Node
		expected []rankKey
	}{
		{
			name:     "prefix then score",
			nodes:    []search.Node{spinNode(0, 50), spinNode(1, 10), spinNode(0, 20)},
			expected: []rankKey{{0, 20}, {0, 50}, {1, 10}},
		},
		{
			name:     "drops nodes whose first clear is not spun",
			nodes:    []search.Node{plainClear, spinNode(2, 5), noClear, spunLater},
			expected: []rankKey{{2, 5}},
		},
		{
			name:     "extreme scores",
			nodes:    []search.Node{spinNode(0, math.MaxInt), spinNode(0, math.MinInt), spinNode(0, 0)},
			expected: []rankKey{{0, math.MinInt}, {0, 0}, {0, math.MaxInt}},
		},
		{
			name:     "empty",
			nodes:    nil,
			expected: []rankKey{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keys(RankSpins(tt.nodes))
			if !slices.Equal(got, tt.expected) {
				t.Errorf("RankSpins() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestRankSpinsIdempotent(t *testing.T) {
	nodes := []search.Node{spinNode(1, 30), spinNode(0, 50), spinNode(1, 10), spinNode(0, 50), spinNode(2, 0)}
	once := RankSpins(nodes)
	twice := RankSpins(once)
	if !slices.Equal(keys(once), keys(twice)) {
		t.Errorf("RankSpins(RankSpins(x)) = %v, expected %v", keys(twice), keys(once))
	}
}

func TestSpinPrefixWithoutSpin(t *testing.T) {
	n := search.Node{Moves: make([]search.Move, 3)}
	if got := SpinPrefix(n); got != 3 {
		t.Errorf("SpinPrefix() = %d, expected 3", got)
	}
}

func TestSearchGate(t *testing.T) {
	game := newFakeGame(tetris.Running)
	searcher := &fakeSearcher{nodes: []search.Node{spinNode(0, 1)}}
	gate := NewSearchGate(nil)

	gate.Observe(false)
	if gate.State() != SearchIdle {
		t.Fatalf("State() = %v, expected %v", gate.State(), SearchIdle)
	}
	gate.Observe(true)
	if gate.State() != AwaitingSearch {
		t.Fatalf("State() = %v, expected %v", gate.State(), AwaitingSearch)
	}

	if gate.Run(game, searcher) {
		t.Error("Run() searched with search disabled")
	}
	if gate.State() != AwaitingSearch {
		t.Error("disabled search should leave the gate waiting")
	}

	game.search = true
	if !gate.Run(game, searcher) {
		t.Fatal("Run() did not search")
	}
	if gate.Run(game, searcher) {
		t.Error("second Run() searched again for the same piece")
	}
	if searcher.searches != 1 || len(game.spins) != 1 {
		t.Errorf("searches = %d, spins = %d, expected 1 and 1", searcher.searches, len(game.spins))
	}

	gate.Observe(true)
	gate.Reset()
	if gate.State() != SearchIdle {
		t.Errorf("State() after Reset() = %v, expected %v", gate.State(), SearchIdle)
	}
}

func TestSearchGateFailures(t *testing.T) {
	tests := []struct {
		name     string
		searcher *fakeSearcher
	}{
		{"error", &fakeSearcher{nodes: []search.Node{spinNode(0, 1)}, err: errSearch}},
		{"panic", &fakeSearcher{panics: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := newFakeGame(tetris.Running)
			game.search = true
			game.spins = []search.Node{spinNode(0, 9)}
			gate := NewSearchGate(discardLogger())

			gate.Observe(true)
			if !gate.Run(game, tt.searcher) {
				t.Fatal("Run() did not attempt a search")
			}
			if len(game.spins) != 0 || game.setSpins != 1 {
				t.Errorf("spins = %d after %d updates, expected an empty list set once", len(game.spins), game.setSpins)
			}
			if gate.State() != SearchIdle {
				t.Errorf("State() = %v, expected %v", gate.State(), SearchIdle)
			}
		})
	}
}

func TestNewSchedulerMissingTargets(t *testing.T) {
	_, err := NewScheduler(Options{
		Game:    newFakeGame(tetris.Running),
		Events:  event.NewChannel(),
		Targets: Targets{Board: &surface{}, FPS: &textTarget{}},
	})

	var missing *MissingTargetsError
	if !errors.As(err, &missing) {
		t.Fatalf("NewScheduler() error = %v, expected *MissingTargetsError", err)
	}
	expected := []string{"queue", "hold", "timer", "lines", "spins"}
	if !slices.Equal(missing.Missing, expected) {
		t.Errorf("Missing = %v, expected %v", missing.Missing, expected)
	}
}

func TestTickStartupOnlyDirectional(t *testing.T) {
	h := newHarness(tetris.Startup)
	h.events.Send(event.PressUp)
	h.events.Send(event.PressLeft)
	h.events.Send(event.RotateCW)
	h.events.Send(event.ReleaseLeft)
	h.events.Send(event.Das{Frames: 3})

	h.sched.Tick(t0)

	expected := []event.Event{event.PressLeft, event.ReleaseLeft}
	if !slices.Equal(h.game.handled, expected) {
		t.Errorf("handled = %v, expected %v", h.game.handled, expected)
	}
	if h.events.Len() != 0 {
		t.Errorf("channel still holds %d events", h.events.Len())
	}
}

func TestTickDoneDropsEvents(t *testing.T) {
	h := newHarness(tetris.Done)
	h.events.Send(event.PressLeft)
	h.events.Send(event.Ghost{Visible: false})
	h.game.timers.Schedule(t0.Add(-time.Second), event.Gravity)
	h.game.timers.Schedule(t0.Add(time.Second), event.LockDelay)

	h.sched.Tick(t0)

	if len(h.game.handled) != 0 {
		t.Errorf("handled = %v, expected nothing", h.game.handled)
	}
	if h.game.timers.Len() != 0 {
		t.Errorf("timers left = %d, expected 0", h.game.timers.Len())
	}
}

func TestTickRestartDiscardsRest(t *testing.T) {
	h := newHarness(tetris.Running)
	h.game.spawnsOn[event.PressUp] = true
	h.game.search = true
	h.events.Send(event.PressUp)
	h.events.Send(event.Restart)
	h.events.Send(event.PressRight)
	h.events.Send(event.Das{Frames: 1})

	h.sched.Tick(t0)

	if !slices.Equal(h.game.handled, []event.Event{event.PressUp}) {
		t.Errorf("handled = %v, expected only PressUp", h.game.handled)
	}
	if h.game.starts != 1 {
		t.Errorf("starts = %d, expected 1", h.game.starts)
	}
	if h.events.Len() != 0 {
		t.Errorf("channel still holds %d events", h.events.Len())
	}
	if h.searcher.searches != 0 {
		t.Errorf("searches = %d, expected restart to cancel the pending search", h.searcher.searches)
	}
}

func TestTickDefersTimersScheduledDuringPass(t *testing.T) {
	h := newHarness(tetris.Running)
	h.game.rearmOn[event.LockCap] = true
	h.game.timers.Schedule(t0, event.LockCap)

	for i := 1; i <= 3; i++ {
		h.sched.Tick(t0.Add(time.Duration(i) * time.Millisecond))
		if len(h.game.handled) != i {
			t.Fatalf("tick %d handled %d timers, expected %d", i, len(h.game.handled), i)
		}
	}
	if h.game.timers.Len() != 1 {
		t.Errorf("timers left = %d, expected 1", h.game.timers.Len())
	}
}

func TestTickDoneMidPassDiscardsTimers(t *testing.T) {
	h := newHarness(tetris.Running)
	h.game.endsOn[event.LockDelay] = true
	h.game.timers.Schedule(t0.Add(-time.Second), event.LockDelay)
	h.game.timers.Schedule(t0.Add(-time.Millisecond), event.Gravity)
	h.game.timers.Schedule(t0.Add(time.Second), event.DasLeft)

	h.sched.Tick(t0)

	if !slices.Equal(h.game.handled, []event.Event{event.LockDelay}) {
		t.Errorf("handled = %v, expected only LockDelay", h.game.handled)
	}
	if h.game.timers.Len() != 0 {
		t.Errorf("timers left = %d, expected 0", h.game.timers.Len())
	}
}

func TestTickSkipsInvalidEvents(t *testing.T) {
	h := newHarness(tetris.Running)
	h.events.Send(event.Input(99))
	h.events.Send(nil)
	h.events.Send(event.Arr{Frames: -1})
	h.events.Send(event.PressLeft)

	h.sched.Tick(t0)

	if !slices.Equal(h.game.handled, []event.Event{event.PressLeft}) {
		t.Errorf("handled = %v, expected only PressLeft", h.game.handled)
	}
}

func TestTickFiresDueTimers(t *testing.T) {
	h := newHarness(tetris.Running)
	h.game.timers.Schedule(t0.Add(time.Millisecond), event.Gravity)
	h.game.timers.Schedule(t0, event.DasLeft)
	h.game.timers.Schedule(t0.Add(-time.Millisecond), event.LockDelay)

	h.sched.Tick(t0)

	expected := []event.Event{event.LockDelay, event.DasLeft}
	if !slices.Equal(h.game.handled, expected) {
		t.Errorf("handled = %v, expected %v", h.game.handled, expected)
	}
	if h.game.timers.Len() != 1 {
		t.Errorf("timers left = %d, expected 1", h.game.timers.Len())
	}
}

func TestTickSearchesOncePerSpawn(t *testing.T) {
	h := newHarness(tetris.Running)
	h.game.search = true
	h.game.spawnsOn[event.PressUp] = true
	h.game.spawnsOn[event.LockDelay] = true
	h.searcher.nodes = []search.Node{spinNode(0, 5)}

	h.events.Send(event.PressUp)
	h.events.Send(event.PressUp)
	h.sched.Tick(t0)
	if h.searcher.searches != 1 {
		t.Fatalf("searches = %d, expected 1", h.searcher.searches)
	}

	h.sched.Tick(t0.Add(time.Millisecond))
	if h.searcher.searches != 1 {
		t.Errorf("searches = %d without a new piece, expected 1", h.searcher.searches)
	}

	// A spawn from a timer is searched on the following tick.
	h.game.timers.Schedule(t0.Add(2*time.Millisecond), event.LockDelay)
	h.sched.Tick(t0.Add(2 * time.Millisecond))
	if h.searcher.searches != 1 {
		t.Errorf("searches = %d in the spawning tick, expected 1", h.searcher.searches)
	}
	h.sched.Tick(t0.Add(3 * time.Millisecond))
	if h.searcher.searches != 2 {
		t.Errorf("searches = %d, expected 2", h.searcher.searches)
	}
}

func TestTickTexts(t *testing.T) {
	h := newHarness(tetris.Running)
	h.game.elapsed = 1500 * time.Millisecond
	h.sched.Tick(t0)

	if h.fps.text != "fps: 1" {
		t.Errorf("fps text = %q, expected %q", h.fps.text, "fps: 1")
	}
	if h.timer.text != "1.50" {
		t.Errorf("timer text = %q, expected %q", h.timer.text, "1.50")
	}
	if h.lines.sets != 0 {
		t.Errorf("lines text set %d times outside a sprint", h.lines.sets)
	}
	if h.spins.text != "spins" || h.board.draws != 1 {
		t.Errorf("spins = %q, board draws = %d", h.spins.text, h.board.draws)
	}

	h.game.sprint = 7
	h.sched.Tick(t0.Add(time.Millisecond))
	if h.lines.text != "7" {
		t.Errorf("lines text = %q, expected %q", h.lines.text, "7")
	}
}

func TestTickDrawErrorDoesNotAbort(t *testing.T) {
	h := newHarness(tetris.Running)
	h.board.err = errors.New("canvas gone")
	if !h.sched.Tick(t0) {
		t.Fatal("Tick() = false, expected true")
	}
	if h.spins.sets != 1 {
		t.Errorf("spins text set %d times, expected 1", h.spins.sets)
	}
}

func TestSessionLimit(t *testing.T) {
	h := newHarness(tetris.Running)
	h.sched.Start(t0)
	if h.game.starts != 1 {
		t.Fatalf("starts = %d, expected 1", h.game.starts)
	}
	h.game.state = tetris.Running

	if !h.sched.Tick(t0.Add(SessionLimit)) {
		t.Fatal("Tick() at the limit = false, expected true")
	}
	if h.sched.Tick(t0.Add(SessionLimit + time.Millisecond)) {
		t.Fatal("Tick() past the limit = true, expected false")
	}
	if h.timer.text != ExpiredMessage {
		t.Errorf("timer text = %q, expected %q", h.timer.text, ExpiredMessage)
	}
	sets := h.timer.sets

	h.events.Send(event.PressLeft)
	if h.sched.Tick(t0.Add(SessionLimit + time.Second)) {
		t.Error("Tick() after expiry = true, expected false")
	}
	if h.timer.sets != sets {
		t.Error("timer text changed after expiry")
	}
	if len(h.game.handled) != 0 || h.events.Len() != 1 {
		t.Errorf("expired tick handled %d events", len(h.game.handled))
	}
	if !h.sched.Expired() {
		t.Error("Expired() = false, expected true")
	}
}

func TestRun(t *testing.T) {
	t.Run("cancelled", func(t *testing.T) {
		h := newHarness(tetris.Running)
		ctx, cancel := context.WithCancel(context.Background())
		frames := make(chan time.Time)
		done := make(chan error, 1)
		go func() { done <- h.sched.Run(ctx, frames) }()

		frames <- t0
		cancel()
		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, expected context.Canceled", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		h := newHarness(tetris.Running)
		frames := make(chan time.Time, 3)
		frames <- t0
		frames <- t0.Add(time.Minute)
		frames <- t0.Add(SessionLimit + time.Minute)
		if err := h.sched.Run(context.Background(), frames); err != nil {
			t.Errorf("Run() = %v, expected nil", err)
		}
		if !h.sched.Expired() {
			t.Error("Expired() = false, expected true")
		}
	})
}
