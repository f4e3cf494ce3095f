package search

import (
	"cmp"
	"errors"
	"math"
	"slices"

	"github.com/yaahc/tetris/internal/piece"
)

// ErrNoPlacements is returned when the first piece has nowhere to go.
var ErrNoPlacements = errors.New("search: no legal placements")

// State is the search's view of a game: the board and what it carries
// between placements.
type State struct {
	Board    Board
	Hold     piece.Kind
	HoldUsed bool // hold already spent on the current piece
	B2B      bool
	AllSpin  bool
}

// PlacementInfo describes the result of locking a placement.
type PlacementInfo struct {
	LinesCleared int
	Spin         bool
	Mini         bool
}

// Move is one placement in a node's sequence and what it produced.
type Move struct {
	Placement Placement
	Info      PlacementInfo
}

// Node is a search outcome: the resulting state, the moves that led to it and
// its cost. Lower scores are better.
type Node struct {
	State State
	Moves []Move
	Score int

	reward float64
	next   int // index of the next queue piece to place
}

// Search runs a beam search over queue starting with the given placements for
// queue[0]. Each layer keeps the beamWidth cheapest nodes; expansion stops when
// the queue is exhausted or nodeBudget nodes have been evaluated. It returns
// the deepest evaluated layer ordered by ascending score.
func Search(st State, locations []Placement, queue []piece.Kind, ev *Eval, beamWidth, nodeBudget int) ([]Node, error) {
	if len(locations) == 0 || len(queue) == 0 {
		return nil, ErrNoPlacements
	}
	if ev == nil {
		ev = DefaultEval()
	}
	beamWidth = max(beamWidth, 1)

	root := Node{State: st}
	evaluated := 0

	layer := make([]Node, 0, len(locations))
	for _, p := range locations {
		layer = append(layer, expand(root, p, 1, ev))
	}
	evaluated += len(layer)
	if !st.HoldUsed {
		for _, child := range holdChildren(root, queue, ev) {
			layer = append(layer, child)
			evaluated++
		}
	}
	sortNodes(layer)

	for evaluated < nodeBudget {
		beam := layer[:min(beamWidth, len(layer))]
		var next []Node
		for _, parent := range beam {
			if evaluated >= nodeBudget {
				break
			}
			if parent.next >= len(queue) {
				continue
			}
			k := queue[parent.next]
			for _, p := range Movegen(parent.State, k) {
				next = append(next, expand(parent, p, parent.next+1, ev))
				evaluated++
			}
			for _, child := range holdChildren(parent, queue, ev) {
				next = append(next, child)
				evaluated++
			}
		}
		if len(next) == 0 {
			break
		}
		sortNodes(next)
		layer = next
	}
	return layer, nil
}

// holdChildren expands parent by swapping the next piece with the hold slot.
// An empty hold takes the next piece and plays the one after it.
func holdChildren(parent Node, queue []piece.Kind, ev *Eval) []Node {
	i := parent.next
	if i >= len(queue) {
		return nil
	}

	held := parent.State.Hold
	play, next := held, i+1
	if held == piece.None {
		if i+1 >= len(queue) {
			return nil
		}
		play, next = queue[i+1], i+2
	}
	if play == queue[i] {
		return nil
	}

	swapped := parent
	swapped.State.Hold = queue[i]

	var out []Node
	for _, p := range Movegen(swapped.State, play) {
		out = append(out, expand(swapped, p, next, ev))
	}
	return out
}

// expand locks p onto a copy of parent's state.
func expand(parent Node, p Placement, next int, ev *Eval) Node {
	st := parent.State
	st.HoldUsed = false

	spin, mini := Classify(&st.Board, p, st.AllSpin)
	lines := st.Board.Place(p.Kind, p.Rot, p.X, p.Y)
	info := PlacementInfo{LinesCleared: lines, Spin: spin, Mini: mini}

	b2b := false
	if lines > 0 {
		difficult := lines == 4 || spin
		b2b = difficult && st.B2B
		st.B2B = difficult
	}

	moves := make([]Move, len(parent.Moves), len(parent.Moves)+1)
	copy(moves, parent.Moves)
	moves = append(moves, Move{Placement: p, Info: info})

	reward := parent.reward + ev.Clear(info, b2b)
	value := reward + ev.Board(&st.Board)
	return Node{
		State:  st,
		Moves:  moves,
		Score:  int(math.Round(-value)),
		reward: reward,
		next:   next,
	}
}

func sortNodes(nodes []Node) {
	slices.SortStableFunc(nodes, func(a, b Node) int {
		return cmp.Compare(a.Score, b.Score)
	})
}

// Engine binds an evaluator and the search limits.
type Engine struct {
	Eval       *Eval
	BeamWidth  int
	NodeBudget int
}

// Default beam limits.
const (
	DefaultBeamWidth  = 7
	DefaultNodeBudget = 3000
)

// NewEngine returns an engine with the default evaluator and limits.
func NewEngine() *Engine {
	return &Engine{
		Eval:       DefaultEval(),
		BeamWidth:  DefaultBeamWidth,
		NodeBudget: DefaultNodeBudget,
	}
}

// Movegen lists placements for k in st.
func (e *Engine) Movegen(st State, k piece.Kind) []Placement {
	return Movegen(st, k)
}

// Search runs the beam search with the engine's limits.
func (e *Engine) Search(st State, locations []Placement, queue []piece.Kind) ([]Node, error) {
	return Search(st, locations, queue, e.Eval, e.BeamWidth, e.NodeBudget)
}
