package config

import (
	_ "embed"

	"github.com/yaahc/tetris/internal/search"
)

//go:embed defaults/trainer.yaml
var defaultTrainerYAML []byte

// DefaultTrainerConfig returns the hard-coded trainer configuration.
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		Mode: ModeConfig{
			Default:     "training",
			SprintLines: 40,
			Lookahead: LookaheadConfig{
				Pieces: 2,
				Limit:  5,
			},
		},
		Search: SearchConfig{
			BeamWidth:  search.DefaultBeamWidth,
			NodeBudget: search.DefaultNodeBudget,
			Weights:    *search.DefaultEval(),
		},
		Countdown: CountdownConfig{
			Steps:  3,
			StepMS: 1000,
		},
		Skin: SkinConfig{
			Pieces: map[string]string{
				"I": "#0fb5c8",
				"O": "#e8c619",
				"T": "#a63fd6",
				"L": "#e8871e",
				"J": "#2b5fd9",
				"S": "#4cc23a",
				"Z": "#d9333f",
			},
			Ghost:  "240",
			Empty:  "236",
			Border: "62",
			Accent: "205",
		},
	}
}
