package tui

import (
	"github.com/yaahc/tetris/internal/config"
	"github.com/yaahc/tetris/internal/core"
	"github.com/yaahc/tetris/internal/piece"
)

// Skin holds the colors the panels draw with.
type Skin struct {
	Pieces map[piece.Kind]core.Color
	Ghost  core.Color
	Empty  core.Color
	Border core.Color
	Accent core.Color
}

var defaultPieceColors = map[piece.Kind]core.Color{
	piece.I: core.ColorCyan,
	piece.O: core.ColorYellow,
	piece.T: core.ColorMagenta,
	piece.L: core.ColorOrange,
	piece.J: core.ColorBlue,
	piece.S: core.ColorGreen,
	piece.Z: core.ColorRed,
}

// NewSkin builds a skin from the configured colors. Unset colors fall back
// to the terminal palette.
func NewSkin(cfg config.SkinConfig) Skin {
	s := Skin{
		Pieces: make(map[piece.Kind]core.Color, len(piece.Kinds)),
		Ghost:  core.Color(cfg.Ghost).Or(core.ColorGray),
		Empty:  core.Color(cfg.Empty).Or(core.ColorGray),
		Border: core.Color(cfg.Border).Or(core.ColorBlue),
		Accent: core.Color(cfg.Accent).Or(core.ColorBrightMagenta),
	}
	for _, k := range piece.Kinds {
		s.Pieces[k] = core.Color(cfg.Color(k.String(), string(defaultPieceColors[k])))
	}
	return s
}

// Piece returns the color of a piece kind.
func (s Skin) Piece(k piece.Kind) core.Color {
	return s.Pieces[k].Or(core.ColorWhite)
}
