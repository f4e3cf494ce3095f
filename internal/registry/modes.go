package registry

import (
	"github.com/yaahc/tetris/internal/config"
	"github.com/yaahc/tetris/internal/tetris"
)

func lookahead(cfg config.ModeConfig) *tetris.Lookahead {
	return &tetris.Lookahead{Pieces: cfg.Lookahead.Pieces, Limit: cfg.Lookahead.Limit}
}

func init() {
	Register(ModeInfo{
		ID:          "training",
		Title:       "Training Lab",
		Description: "Endless practice with T-spin recommendations for every piece",
	}, func(cfg config.ModeConfig) tetris.Mode {
		return tetris.TrainingLab{Search: true, Lookahead: lookahead(cfg)}
	})

	Register(ModeInfo{
		ID:          "training-mino",
		Title:       "Training Lab (all spins)",
		Description: "Endless practice where any immobile piece counts as a spin",
	}, func(cfg config.ModeConfig) tetris.Mode {
		return tetris.TrainingLab{Search: true, Lookahead: lookahead(cfg), MinoMode: true}
	})

	Register(ModeInfo{
		ID:          "free",
		Title:       "Free Play",
		Description: "Endless play without recommendations",
	}, func(cfg config.ModeConfig) tetris.Mode {
		return tetris.TrainingLab{}
	})

	Register(ModeInfo{
		ID:          "sprint",
		Title:       "Sprint",
		Description: "Clear the configured number of lines (40 by default) as fast as possible",
	}, func(cfg config.ModeConfig) tetris.Mode {
		lines := cfg.SprintLines
		if lines <= 0 {
			lines = 40
		}
		return tetris.Sprint{TargetLines: lines}
	})

	Register(ModeInfo{
		ID:          "sprint20",
		Title:       "Sprint 20",
		Description: "Clear 20 lines as fast as possible",
	}, func(cfg config.ModeConfig) tetris.Mode {
		return tetris.Sprint{TargetLines: 20}
	})
}
