package loop

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/yaahc/tetris/internal/search"
)

// ErrEmptyQueue is reported when a search is due but the game has no piece.
var ErrEmptyQueue = errors.New("loop: no piece to search")

// GateState is the state of the search gate.
type GateState int

const (
	SearchIdle GateState = iota
	AwaitingSearch
)

func (s GateState) String() string {
	if s == AwaitingSearch {
		return "awaiting-search"
	}
	return "idle"
}

// SearchGate runs the spin search at most once for each newly spawned piece.
type SearchGate struct {
	state  GateState
	logger *log.Logger
}

// NewSearchGate creates an idle gate. A nil logger discards output.
func NewSearchGate(logger *log.Logger) *SearchGate {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SearchGate{logger: logger}
}

// State returns the gate state.
func (g *SearchGate) State() GateState { return g.state }

// Observe records the result of a dispatched event.
func (g *SearchGate) Observe(spawned bool) {
	if spawned {
		g.state = AwaitingSearch
	}
}

// Reset returns the gate to idle.
func (g *SearchGate) Reset() {
	g.state = SearchIdle
}

// Run searches the game when a piece is waiting and the mode allows it,
// replacing the game's spin list with the ranked result. A failed search
// yields an empty list. It reports whether a search ran.
func (g *SearchGate) Run(game Game, s Searcher) bool {
	if g.state != AwaitingSearch || !game.SearchEnabled() {
		return false
	}
	g.state = SearchIdle

	nodes, err := runSearch(game, s)
	if err != nil {
		g.logger.Warn("spin search failed", "err", err)
		nodes = nil
	}
	spins := RankSpins(nodes)
	g.logger.Debug("spin search", "nodes", len(nodes), "spins", len(spins))
	game.SetSpins(spins)
	return true
}

func runSearch(game Game, s Searcher) (nodes []search.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			nodes, err = nil, fmt.Errorf("loop: search panicked: %v", r)
		}
	}()

	st, queue := game.SearchInput()
	if len(queue) == 0 {
		return nil, ErrEmptyQueue
	}
	locations := s.Movegen(st, queue[0])
	return s.Search(st, locations, queue)
}
