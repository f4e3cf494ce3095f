// Package config provides YAML-based trainer configuration loading: the
// default mode, search limits and weights, countdown and skin colors.
package config

import (
	"time"

	"github.com/yaahc/tetris/internal/search"
)

// TrainerConfig contains all configuration for the trainer.
type TrainerConfig struct {
	Mode      ModeConfig      `yaml:"mode"`
	Search    SearchConfig    `yaml:"search"`
	Countdown CountdownConfig `yaml:"countdown"`
	Skin      SkinConfig      `yaml:"skin"`
}

// ModeConfig selects the default mode and tunes the built-in ones.
type ModeConfig struct {
	Default     string          `yaml:"default"`
	SprintLines int             `yaml:"sprint_lines"`
	Lookahead   LookaheadConfig `yaml:"lookahead"`
}

// LookaheadConfig bounds the spin search of training modes.
type LookaheadConfig struct {
	Pieces int `yaml:"pieces"` // upcoming pieces placed after the current one
	Limit  int `yaml:"limit"`  // recommendations shown
}

// SearchConfig defines the beam search limits and evaluation weights.
type SearchConfig struct {
	BeamWidth  int         `yaml:"beam_width"`
	NodeBudget int         `yaml:"node_budget"`
	Weights    search.Eval `yaml:"weights"`
}

// Engine builds a search engine from the configuration.
func (c SearchConfig) Engine() *search.Engine {
	e := search.NewEngine()
	if c.BeamWidth > 0 {
		e.BeamWidth = c.BeamWidth
	}
	if c.NodeBudget > 0 {
		e.NodeBudget = c.NodeBudget
	}
	weights := c.Weights
	e.Eval = &weights
	return e
}

// CountdownConfig defines the start countdown.
type CountdownConfig struct {
	Steps  int `yaml:"steps"`
	StepMS int `yaml:"step_ms"`
}

// Step returns the length of one countdown step.
func (c CountdownConfig) Step() time.Duration {
	return time.Duration(c.StepMS) * time.Millisecond
}

// SkinConfig maps piece letters and board elements to terminal colors
// (ANSI numbers or hex strings).
type SkinConfig struct {
	Pieces map[string]string `yaml:"pieces"`
	Ghost  string            `yaml:"ghost"`
	Empty  string            `yaml:"empty"`
	Border string            `yaml:"border"`
	Accent string            `yaml:"accent"`
}

// Color returns the configured color for a piece letter, or fallback.
func (s SkinConfig) Color(piece, fallback string) string {
	if c, ok := s.Pieces[piece]; ok && c != "" {
		return c
	}
	return fallback
}
