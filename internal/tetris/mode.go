// Package tetris implements the rules engine the frame loop drives: piece
// movement, timers, locking, line clears and the spin recommendation list.
package tetris

import "fmt"

// GameState is the lifecycle phase of a game.
type GameState int

const (
	Startup GameState = iota // countdown running
	Running
	Done
)

func (s GameState) String() string {
	switch s {
	case Startup:
		return "startup"
	case Running:
		return "running"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("GameState(%d)", int(s))
	}
}

// Mode selects the win condition and whether spin search runs.
type Mode interface {
	// SearchEnabled reports whether a search runs for each new piece.
	SearchEnabled() bool
	mode()
}

// Sprint ends the game once TargetLines lines have been cleared.
type Sprint struct {
	TargetLines int
}

// Lookahead bounds the spin search: how many upcoming pieces it may place
// after the current one and how many recommendations are displayed.
type Lookahead struct {
	Pieces int
	Limit  int
}

// DefaultLookahead is used by training modes that do not set one.
var DefaultLookahead = Lookahead{Pieces: 2, Limit: 5}

// TrainingLab is an endless practice mode. With Search set the game shows
// spins reachable from each new piece. MinoMode counts immobile spins of
// every piece, not only T.
type TrainingLab struct {
	Search    bool
	Lookahead *Lookahead
	MinoMode  bool
}

func (Sprint) mode()      {}
func (TrainingLab) mode() {}

// SearchEnabled is always false for sprints.
func (Sprint) SearchEnabled() bool { return false }

// SearchEnabled reports whether the lab runs spin search.
func (m TrainingLab) SearchEnabled() bool { return m.Search }

func (m TrainingLab) lookahead() Lookahead {
	if m.Lookahead == nil {
		return DefaultLookahead
	}
	return *m.Lookahead
}
