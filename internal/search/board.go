// Package search generates placements for a piece and runs a bounded beam
// search over the upcoming queue, producing ranked candidate outcomes.
package search

import (
	"math/bits"

	"github.com/yaahc/tetris/internal/piece"
)

// Board dimensions. Rows above VisibleHeight are buffer rows.
const (
	Width         = 10
	Height        = 40
	VisibleHeight = 20
)

// Spawn position of every piece's rotation center.
const (
	SpawnX = 4
	SpawnY = VisibleHeight
)

// Board is a column bitboard: bit y of Cols[x] is set when cell (x, y) is filled.
type Board struct {
	Cols [Width]uint64
}

// Occupied reports whether (x, y) is filled or outside the walls and floor.
func (b *Board) Occupied(x, y int) bool {
	if x < 0 || x >= Width || y < 0 {
		return true
	}
	if y >= 64 {
		return false
	}
	return b.Cols[x]&(1<<uint(y)) != 0
}

// Set fills (x, y). Out of range cells are ignored.
func (b *Board) Set(x, y int) {
	if x < 0 || x >= Width || y < 0 || y >= 64 {
		return
	}
	b.Cols[x] |= 1 << uint(y)
}

// Collides reports whether piece k in rotation r centered at (x, y) overlaps
// filled cells, the walls or the floor.
func (b *Board) Collides(k piece.Kind, r piece.Rotation, x, y int) bool {
	for _, c := range piece.Cells(k, r) {
		if b.Occupied(x+c.X, y+c.Y) {
			return true
		}
	}
	return false
}

// Place fills the piece's cells, clears full rows and returns how many were cleared.
func (b *Board) Place(k piece.Kind, r piece.Rotation, x, y int) int {
	for _, c := range piece.Cells(k, r) {
		b.Set(x+c.X, y+c.Y)
	}
	return b.ClearLines()
}

// ClearLines removes full rows, shifting everything above them down.
func (b *Board) ClearLines() int {
	full := ^uint64(0)
	for _, col := range b.Cols {
		full &= col
	}
	if full == 0 {
		return 0
	}

	cleared := bits.OnesCount64(full)
	for full != 0 {
		// Remove the highest full row first so lower indices stay valid.
		y := 63 - bits.LeadingZeros64(full)
		low := uint64(1)<<uint(y) - 1
		for x := range b.Cols {
			col := b.Cols[x]
			b.Cols[x] = col&low | (col>>1)&^low
		}
		full &^= 1 << uint(y)
	}
	return cleared
}

// ColumnHeight returns one past the highest filled cell of column x.
func (b *Board) ColumnHeight(x int) int {
	return 64 - bits.LeadingZeros64(b.Cols[x])
}

// Empty reports whether no cell is filled.
func (b *Board) Empty() bool {
	for _, col := range b.Cols {
		if col != 0 {
			return false
		}
	}
	return true
}

// DropDistance returns how far the piece can fall before resting.
func (b *Board) DropDistance(k piece.Kind, r piece.Rotation, x, y int) int {
	d := 0
	for !b.Collides(k, r, x, y-d-1) {
		d++
	}
	return d
}

// tCorners are the diagonal neighbours of a T's center, front pair first per rotation.
var tCorners = [4][4]piece.Point{
	piece.North: {{X: -1, Y: 1}, {X: 1, Y: 1}, {X: -1, Y: -1}, {X: 1, Y: -1}},
	piece.East:  {{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}},
	piece.South: {{X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1}},
	piece.West:  {{X: -1, Y: 1}, {X: -1, Y: -1}, {X: 1, Y: 1}, {X: 1, Y: -1}},
}

// Classify decides whether a placement, evaluated on the board before the piece
// is added, counts as a spin. T pieces use the three-corner rule (mini when a
// front corner is open); with allSpin any other piece that was rotated into a
// spot it cannot shift out of is a spin too.
func Classify(b *Board, p Placement, allSpin bool) (spin, mini bool) {
	if !p.Spun {
		return false, false
	}

	if p.Kind == piece.T {
		corners := tCorners[p.Rot]
		filled, front := 0, 0
		for i, c := range corners {
			if b.Occupied(p.X+c.X, p.Y+c.Y) {
				filled++
				if i < 2 {
					front++
				}
			}
		}
		if filled < 3 {
			return false, false
		}
		return true, front < 2
	}

	if !allSpin {
		return false, false
	}
	immobile := b.Collides(p.Kind, p.Rot, p.X-1, p.Y) &&
		b.Collides(p.Kind, p.Rot, p.X+1, p.Y) &&
		b.Collides(p.Kind, p.Rot, p.X, p.Y+1)
	return immobile, false
}
