package tetris

import (
	"fmt"
	"strings"

	"github.com/yaahc/tetris/internal/piece"
	"github.com/yaahc/tetris/internal/search"
)

func (g *Game) lookahead() Lookahead {
	if m, ok := g.mode.(TrainingLab); ok {
		return m.lookahead()
	}
	return DefaultLookahead
}

// SearchInput snapshots the game for the spin search. The queue starts with
// the current piece followed by the upcoming pieces the lookahead allows.
// The queue is empty when no piece is in play.
func (g *Game) SearchInput() (search.State, []piece.Kind) {
	st := search.State{
		Board:    g.field.bits,
		Hold:     g.hold,
		HoldUsed: g.holdUsed,
		B2B:      g.b2b,
		AllSpin:  g.allSpin(),
	}
	if !g.hasPiece {
		return st, nil
	}
	n := min(max(g.lookahead().Pieces, 0), len(g.next))
	queue := make([]piece.Kind, 0, n+1)
	queue = append(queue, g.cur.kind)
	queue = append(queue, g.next[:n]...)
	return st, queue
}

// SetSpins replaces the recommendation list.
func (g *Game) SetSpins(nodes []search.Node) {
	g.spins = nodes
}

// Spins returns the current recommendation list.
func (g *Game) Spins() []search.Node {
	return g.spins
}

// DisplaySpins renders the recommendations, one per line, up to the
// lookahead limit.
func (g *Game) DisplaySpins() string {
	limit := g.lookahead().Limit
	var sb strings.Builder
	for i, n := range g.spins {
		if i >= limit {
			break
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(formatSpin(i+1, n))
	}
	return sb.String()
}

// formatSpin describes the first clearing move of a node, e.g.
// "1. T-spin double in 2 (L T) cost 412".
func formatSpin(rank int, n search.Node) string {
	at := len(n.Moves) - 1
	for i, m := range n.Moves {
		if m.Info.LinesCleared > 0 {
			at = i
			break
		}
	}
	if at < 0 {
		return fmt.Sprintf("%d. nothing cost %d", rank, n.Score)
	}

	kinds := make([]string, 0, at+1)
	for _, m := range n.Moves[:at+1] {
		kinds = append(kinds, m.Placement.Kind.String())
	}
	m := n.Moves[at]
	return fmt.Sprintf("%d. %s in %d (%s) cost %d",
		rank, describeClear(m.Placement.Kind, m.Info), at+1, strings.Join(kinds, " "), n.Score)
}

var clearNames = [...]string{"", "single", "double", "triple", "quad"}

// describeClear names a lock result, e.g. "T-spin mini single" or "triple".
func describeClear(k piece.Kind, info search.PlacementInfo) string {
	lines := ""
	if info.LinesCleared > 0 && info.LinesCleared < len(clearNames) {
		lines = clearNames[info.LinesCleared]
	}
	if !info.Spin {
		return lines
	}

	name := k.String() + "-spin"
	if info.Mini {
		name += " mini"
	}
	if lines != "" {
		name += " " + lines
	}
	return name
}
