package tetris

import (
	"github.com/yaahc/tetris/internal/piece"
	"github.com/yaahc/tetris/internal/search"
)

// field is the playfield: a bitboard for collision and the piece kind of
// every filled cell for drawing. Both are kept in step.
type field struct {
	bits  search.Board
	kinds [search.Height][search.Width]piece.Kind
}

func (f *field) collides(k piece.Kind, r piece.Rotation, x, y int) bool {
	return f.bits.Collides(k, r, x, y)
}

// lock adds the piece and clears full rows, returning how many were cleared.
func (f *field) lock(k piece.Kind, r piece.Rotation, x, y int) int {
	for _, c := range piece.Cells(k, r) {
		cx, cy := x+c.X, y+c.Y
		if cy >= 0 && cy < search.Height && cx >= 0 && cx < search.Width {
			f.kinds[cy][cx] = k
		}
	}

	cleared := f.bits.Place(k, r, x, y)
	if cleared == 0 {
		return 0
	}

	dst := 0
	for y := 0; y < search.Height; y++ {
		if f.full(y) {
			continue
		}
		f.kinds[dst] = f.kinds[y]
		dst++
	}
	for ; dst < search.Height; dst++ {
		f.kinds[dst] = [search.Width]piece.Kind{}
	}
	return cleared
}

func (f *field) full(y int) bool {
	for _, k := range f.kinds[y] {
		if k == piece.None {
			return false
		}
	}
	return true
}

func (f *field) at(x, y int) piece.Kind {
	if x < 0 || x >= search.Width || y < 0 || y >= search.Height {
		return piece.None
	}
	return f.kinds[y][x]
}
