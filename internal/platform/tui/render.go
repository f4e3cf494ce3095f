package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaahc/tetris/internal/core"
)

// Painter turns screens into styled text for one terminal. SSH sessions each
// get their own renderer so color detection follows the client.
type Painter struct {
	renderer *lipgloss.Renderer
	styles   map[core.Color]lipgloss.Style
}

// NewPainter creates a painter for r, or for the default renderer when r is nil.
func NewPainter(r *lipgloss.Renderer) *Painter {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Painter{
		renderer: r,
		styles:   make(map[core.Color]lipgloss.Style),
	}
}

// NewStyle returns a style bound to the painter's renderer.
func (p *Painter) NewStyle() lipgloss.Style {
	return p.renderer.NewStyle()
}

// Style returns the foreground style for c.
func (p *Painter) Style(c core.Color) lipgloss.Style {
	if s, ok := p.styles[c]; ok {
		return s
	}
	s := p.renderer.NewStyle()
	if c != core.ColorDefault {
		s = s.Foreground(lipgloss.Color(c))
	}
	p.styles[c] = s
	return s
}

// Screen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func (p *Painter) Screen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			sb.WriteString(p.Style(color).Render(run.String()))
		}
	}
	return sb.String()
}
