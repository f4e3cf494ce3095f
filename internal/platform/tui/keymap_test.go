package tui

import (
	"testing"

	"github.com/yaahc/tetris/internal/event"
)

func TestKeyMapInput(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		key      string
		expected event.Input
		ok       bool
	}{
		{"left", event.PressLeft, true},
		{"l", event.PressRight, true},
		{"down", event.PressDown, true},
		{"space", event.PressUp, true},
		{"up", event.RotateCW, true},
		{"z", event.RotateCCW, true},
		{"a", event.Rotate180, true},
		{"c", event.Hold, true},
		{"r", event.Restart, true},
		{"tab", 0, false},
		{"q", 0, false},
		{"p", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := km.Input(keyMsg(tt.key))
			if got != tt.expected || ok != tt.ok {
				t.Errorf("Input(%q) = %v, %v, expected %v, %v", tt.key, got, ok, tt.expected, tt.ok)
			}
		})
	}
}
