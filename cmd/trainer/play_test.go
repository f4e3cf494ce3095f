package main

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/yaahc/tetris/internal/settings"
	"github.com/yaahc/tetris/internal/tetris"
)

var errUnreadable = errors.New("database is locked")

type unreadableStore struct{ *settings.MemoryStore }

func (unreadableStore) Get(string) (string, bool, error) { return "", false, errUnreadable }

func TestLoadHandling(t *testing.T) {
	logger := log.New(io.Discard)

	store := settings.NewMemoryStore()
	store.Set("das", "4")
	store.Set("arr", "soon")
	cfg, err := loadHandling(store, logger)
	if err != nil {
		t.Fatalf("loadHandling() error = %v", err)
	}
	expected := tetris.DefaultConfig()
	expected.Das = 4
	if cfg != expected {
		t.Errorf("loadHandling() = %+v, expected %+v", cfg, expected)
	}

	_, err = loadHandling(unreadableStore{settings.NewMemoryStore()}, logger)
	if !errors.Is(err, errUnreadable) {
		t.Errorf("loadHandling() error = %v, expected it to wrap %v", err, errUnreadable)
	}
}
