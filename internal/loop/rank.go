package loop

import (
	"cmp"
	"slices"

	"github.com/yaahc/tetris/internal/search"
)

// RankSpins keeps the nodes whose first line clear was reached by a rotation
// and orders them by how soon the spin happens, then by cost.
func RankSpins(nodes []search.Node) []search.Node {
	spins := make([]search.Node, 0, len(nodes))
	for _, n := range nodes {
		for _, m := range n.Moves {
			if m.Info.LinesCleared > 0 {
				if m.Placement.Spun {
					spins = append(spins, n)
				}
				break
			}
		}
	}

	slices.SortStableFunc(spins, func(a, b search.Node) int {
		return cmp.Compare(a.Score, b.Score)
	})
	slices.SortStableFunc(spins, func(a, b search.Node) int {
		return cmp.Compare(SpinPrefix(a), SpinPrefix(b))
	})
	return spins
}

// SpinPrefix counts the leading moves of n that are not spins.
func SpinPrefix(n search.Node) int {
	for i, m := range n.Moves {
		if m.Info.Spin {
			return i
		}
	}
	return len(n.Moves)
}
