package tetris

import (
	"github.com/yaahc/tetris/internal/piece"
	"github.com/yaahc/tetris/internal/search"
)

// FrameRows is how many rows a Frame shows: the visible field plus two
// buffer rows where pieces spawn.
const FrameRows = search.VisibleHeight + 2

// Cell is one square of a rendered frame.
type Cell struct {
	Kind   piece.Kind
	Active bool // part of the falling piece
	Ghost  bool // where the falling piece would land
}

// Frame is a snapshot of everything drawn for one tick.
// Board is indexed [y][x] with y = 0 the bottom row.
type Frame struct {
	State     GameState
	Board     [FrameRows][search.Width]Cell
	Hold      piece.Kind
	HoldUsed  bool
	Next      []piece.Kind
	Countdown int
	Lines     int
	Pieces    int
	LastClear string
}

// Frame snapshots the game for rendering.
func (g *Game) Frame() Frame {
	f := Frame{
		State:     g.state,
		Hold:      g.hold,
		HoldUsed:  g.holdUsed,
		Next:      append([]piece.Kind(nil), g.next[:min(NextCount, len(g.next))]...),
		Lines:     g.lines,
		Pieces:    g.pieces,
		LastClear: g.lastClear,
	}
	if g.state == Startup {
		f.Countdown = g.countdownLeft
	}

	for y := 0; y < FrameRows; y++ {
		for x := 0; x < search.Width; x++ {
			f.Board[y][x].Kind = g.field.at(x, y)
		}
	}
	if !g.hasPiece {
		return f
	}

	if g.config.Ghost {
		gy := g.cur.y - g.field.bits.DropDistance(g.cur.kind, g.cur.rot, g.cur.x, g.cur.y)
		for _, c := range piece.Cells(g.cur.kind, g.cur.rot) {
			if cell := f.cell(g.cur.x+c.X, gy+c.Y); cell != nil {
				cell.Kind = g.cur.kind
				cell.Ghost = true
			}
		}
	}
	for _, c := range piece.Cells(g.cur.kind, g.cur.rot) {
		if cell := f.cell(g.cur.x+c.X, g.cur.y+c.Y); cell != nil {
			cell.Kind = g.cur.kind
			cell.Ghost = false
			cell.Active = true
		}
	}
	return f
}

func (f *Frame) cell(x, y int) *Cell {
	if x < 0 || x >= search.Width || y < 0 || y >= FrameRows {
		return nil
	}
	return &f.Board[y][x]
}
