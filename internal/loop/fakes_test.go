package loop

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaahc/tetris/internal/event"
	"github.com/yaahc/tetris/internal/piece"
	"github.com/yaahc/tetris/internal/search"
	"github.com/yaahc/tetris/internal/sound"
	"github.com/yaahc/tetris/internal/tetris"
	"github.com/yaahc/tetris/internal/timer"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type fakeGame struct {
	state    tetris.GameState
	search   bool
	timers   timer.Queue
	spawnsOn map[event.Event]bool
	rearmOn  map[event.Timer]bool // reschedules the same timer for now
	endsOn   map[event.Event]bool
	handled  []event.Event
	starts   int
	spins    []search.Node
	setSpins int
	elapsed  time.Duration
	sprint   int // lines remaining, negative when not a sprint
}

func newFakeGame(state tetris.GameState) *fakeGame {
	return &fakeGame{
		state:    state,
		spawnsOn: map[event.Event]bool{},
		rearmOn:  map[event.Timer]bool{},
		endsOn:   map[event.Event]bool{},
		sprint:   -1,
	}
}

func (g *fakeGame) Start(seed *int64, now time.Time, sink sound.Sink) {
	g.starts++
	g.state = tetris.Startup
}

func (g *fakeGame) Handle(ev event.Event, now time.Time, sink sound.Sink) bool {
	g.handled = append(g.handled, ev)
	if t, ok := ev.(event.Timer); ok && g.rearmOn[t] {
		g.timers.Schedule(now, t)
	}
	if g.endsOn[ev] {
		g.state = tetris.Done
	}
	return g.spawnsOn[ev]
}

func (g *fakeGame) State() tetris.GameState { return g.state }
func (g *fakeGame) SearchEnabled() bool     { return g.search }
func (g *fakeGame) Timers() *timer.Queue    { return &g.timers }

func (g *fakeGame) SearchInput() (search.State, []piece.Kind) {
	return search.State{}, []piece.Kind{piece.T, piece.I}
}

func (g *fakeGame) SetSpins(nodes []search.Node) {
	g.spins = nodes
	g.setSpins++
}

func (g *fakeGame) DisplaySpins() string                { return "spins" }
func (g *fakeGame) Elapsed(now time.Time) time.Duration { return g.elapsed }

func (g *fakeGame) LinesRemaining() (int, bool) {
	return g.sprint, g.sprint >= 0
}

func (g *fakeGame) Frame() tetris.Frame { return tetris.Frame{State: g.state} }

type fakeSearcher struct {
	nodes    []search.Node
	err      error
	panics   bool
	searches int
}

func (s *fakeSearcher) Movegen(st search.State, k piece.Kind) []search.Placement {
	return []search.Placement{{Kind: k}}
}

func (s *fakeSearcher) Search(st search.State, locations []search.Placement, queue []piece.Kind) ([]search.Node, error) {
	s.searches++
	if s.panics {
		panic("search exploded")
	}
	return s.nodes, s.err
}

var errSearch = errors.New("search failed")

type textTarget struct {
	text string
	sets int
}

func (t *textTarget) SetText(s string) {
	t.text = s
	t.sets++
}

type surface struct {
	draws int
	err   error
}

func (s *surface) Draw(tetris.Frame) error {
	s.draws++
	return s.err
}

type harness struct {
	game     *fakeGame
	searcher *fakeSearcher
	events   *event.Channel
	board    *surface
	timer    *textTarget
	fps      *textTarget
	lines    *textTarget
	spins    *textTarget
	sched    *Scheduler
}

func newHarness(state tetris.GameState) *harness {
	h := &harness{
		game:     newFakeGame(state),
		searcher: &fakeSearcher{},
		events:   event.NewChannel(),
		board:    &surface{},
		timer:    &textTarget{},
		fps:      &textTarget{},
		lines:    &textTarget{},
		spins:    &textTarget{},
	}
	sched, err := NewScheduler(Options{
		Game:     h.game,
		Searcher: h.searcher,
		Events:   h.events,
		Targets: Targets{
			Board: h.board,
			Queue: &surface{},
			Hold:  &surface{},
			Timer: h.timer,
			FPS:   h.fps,
			Lines: h.lines,
			Spins: h.spins,
		},
	})
	if err != nil {
		panic(err)
	}
	h.sched = sched
	return h
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
