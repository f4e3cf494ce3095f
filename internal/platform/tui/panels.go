package tui

import (
	"strconv"

	"github.com/yaahc/tetris/internal/core"
	"github.com/yaahc/tetris/internal/piece"
	"github.com/yaahc/tetris/internal/search"
	"github.com/yaahc/tetris/internal/tetris"
)

// Each board cell is two characters wide so squares look square.
const cellWidth = 2

const (
	blockGlyph = "██"
	ghostGlyph = "░░"
	emptyGlyph = " ."
)

// previewRows is the height of one piece in the next and hold panels,
// including a spacer row.
const previewRows = 3

// BoardPanel draws the playfield.
type BoardPanel struct {
	screen *core.Screen
	skin   Skin
	clear  string
}

// NewBoardPanel creates the playfield surface.
func NewBoardPanel(skin Skin) *BoardPanel {
	return &BoardPanel{
		screen: core.NewScreen(search.Width*cellWidth, tetris.FrameRows),
		skin:   skin,
	}
}

// Draw renders the board with the ghost, the active piece and the countdown.
func (p *BoardPanel) Draw(f tetris.Frame) error {
	p.screen.Clear()
	for y := 0; y < tetris.FrameRows; y++ {
		row := tetris.FrameRows - 1 - y
		for x := 0; x < search.Width; x++ {
			c := f.Board[y][x]
			sx := x * cellWidth
			switch {
			case c.Kind == piece.None:
				if y < search.VisibleHeight {
					p.screen.DrawTextColor(sx, row, emptyGlyph, p.skin.Empty)
				}
			case c.Ghost:
				p.screen.DrawTextColor(sx, row, ghostGlyph, p.skin.Ghost)
			default:
				p.screen.DrawTextColor(sx, row, blockGlyph, p.skin.Piece(c.Kind))
			}
		}
	}

	switch {
	case f.State == tetris.Startup && f.Countdown > 0:
		p.overlay(strconv.Itoa(f.Countdown))
	case f.State == tetris.Done:
		p.overlay("DONE", "r to restart")
	}
	p.clear = f.LastClear
	return nil
}

// overlay draws a boxed message whose first line sits on the middle row.
func (p *BoardPanel) overlay(lines ...string) {
	w := 0
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	w = core.Clamp(w+4, 0, p.screen.Width())
	box := core.NewRect((p.screen.Width()-w)/2, tetris.FrameRows/2-1, w, len(lines)+2)

	p.screen.DrawRect(box, ' ', p.skin.Accent)
	p.screen.DrawBox(box, p.skin.Accent)
	inner := box.Inset(1)
	for i, l := range lines {
		p.screen.DrawTextCentered(inner.Y+i, l, p.skin.Accent)
	}
}

// Screen returns the drawn board.
func (p *BoardPanel) Screen() *core.Screen { return p.screen }

// LastClear returns the name of the last line clear, if any.
func (p *BoardPanel) LastClear() string { return p.clear }

// QueuePanel draws the next pieces.
type QueuePanel struct {
	screen *core.Screen
	skin   Skin
}

// NewQueuePanel creates the next queue surface.
func NewQueuePanel(skin Skin) *QueuePanel {
	return &QueuePanel{
		screen: core.NewScreen(4*cellWidth, tetris.NextCount*previewRows),
		skin:   skin,
	}
}

// Draw renders up to tetris.NextCount upcoming pieces, nearest first.
func (p *QueuePanel) Draw(f tetris.Frame) error {
	p.screen.Clear()
	for i, k := range f.Next {
		if i == tetris.NextCount {
			break
		}
		drawPreview(p.screen, k, i*previewRows, p.skin.Piece(k))
	}
	return nil
}

// Screen returns the drawn queue.
func (p *QueuePanel) Screen() *core.Screen { return p.screen }

// HoldPanel draws the held piece, grayed out while hold is spent.
type HoldPanel struct {
	screen *core.Screen
	skin   Skin
}

// NewHoldPanel creates the hold surface.
func NewHoldPanel(skin Skin) *HoldPanel {
	return &HoldPanel{
		screen: core.NewScreen(4*cellWidth, previewRows-1),
		skin:   skin,
	}
}

// Draw renders the hold slot.
func (p *HoldPanel) Draw(f tetris.Frame) error {
	p.screen.Clear()
	if f.Hold == piece.None {
		return nil
	}
	color := p.skin.Piece(f.Hold)
	if f.HoldUsed {
		color = p.skin.Ghost
	}
	drawPreview(p.screen, f.Hold, 0, color)
	return nil
}

// Screen returns the drawn hold slot.
func (p *HoldPanel) Screen() *core.Screen { return p.screen }

// drawPreview draws k in spawn orientation with its top row at top.
func drawPreview(s *core.Screen, k piece.Kind, top int, color core.Color) {
	cells := piece.Cells(k, piece.North)
	minX, maxY := cells[0].X, cells[0].Y
	for _, c := range cells[1:] {
		minX = min(minX, c.X)
		maxY = max(maxY, c.Y)
	}
	for _, c := range cells {
		s.DrawTextColor((c.X-minX)*cellWidth, top+maxY-c.Y, blockGlyph, color)
	}
}

// TextLine is a single line of text set by the frame loop.
type TextLine struct {
	text string
}

// SetText replaces the line.
func (t *TextLine) SetText(s string) { t.text = s }

// String returns the line.
func (t *TextLine) String() string { return t.text }
