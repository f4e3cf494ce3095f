package settings

import (
	"fmt"

	"github.com/yaahc/tetris/internal/event"
)

// Handler applies edits from the settings panel: it persists each value and
// forwards the matching setting event to the game. One handler lives for one
// session.
type Handler struct {
	store  Store
	events event.Sender
}

// NewHandler creates a handler writing to store and sending to events.
func NewHandler(store Store, events event.Sender) *Handler {
	return &Handler{store: store, events: events}
}

// Change parses raw for key, stores it and enqueues the setting event.
// Nothing is stored or sent when raw is invalid.
func (h *Handler) Change(key, raw string) error {
	s, err := Parse(key, raw)
	if err != nil {
		return err
	}
	if err := h.store.Set(key, Encode(s)); err != nil {
		return fmt.Errorf("settings: cannot save %s: %w", key, err)
	}
	h.events.Send(s)
	return nil
}
