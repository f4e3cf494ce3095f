package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yaahc/tetris/internal/storage"
)

type fakeHistory struct {
	runs map[string][]storage.Run
	err  error
}

func (f fakeHistory) RecentRuns(mode string, _ int) ([]storage.Run, error) {
	return f.runs[mode], f.err
}

func (f fakeHistory) BestRun(mode string) (*storage.Run, error) {
	var best *storage.Run
	for i, r := range f.runs[mode] {
		if r.Completed && (best == nil || r.Duration < best.Duration) {
			best = &f.runs[mode][i]
		}
	}
	return best, nil
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{0, "0:00.00"},
		{83456 * time.Millisecond, "1:23.45"},
		{10*time.Minute + 5*time.Second, "10:05.00"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.expected {
			t.Errorf("FormatDuration(%v) = %q, expected %q", tt.d, got, tt.expected)
		}
	}
}

func TestRunBoard(t *testing.T) {
	history := fakeHistory{runs: map[string][]storage.Run{
		"sprint": {
			{Mode: "sprint", Lines: 40, Pieces: 101, Duration: 83456 * time.Millisecond, Completed: true},
			{Mode: "sprint", Lines: 12, Pieces: 35, Duration: 30 * time.Second},
		},
	}}

	m := NewRunBoardModel(history, "sprint", 120, 40)
	if m.Mode() != "sprint" {
		t.Fatalf("Mode() = %q, expected sprint", m.Mode())
	}
	view := m.View()
	for _, want := range []string{"RUNS - Sprint", "1:23.45", "finished", "Best: 1:23.45 (101 pieces)"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	next, _ := m.Update(keyMsg("tab"))
	m = next.(RunBoardModel)
	if m.Mode() != "sprint20" {
		t.Errorf("Mode() after tab = %q, expected sprint20", m.Mode())
	}
	if !strings.Contains(m.View(), "No runs recorded yet.") {
		t.Error("empty mode should show the empty message")
	}

	next, _ = m.Update(keyMsg("left"))
	m = next.(RunBoardModel)
	if m.Mode() != "sprint" {
		t.Errorf("Mode() after left = %q, expected sprint", m.Mode())
	}

	next, cmd := m.Update(keyMsg("q"))
	if cmd == nil || next.(RunBoardModel).View() != "" {
		t.Error("q should quit the board")
	}
}

func TestRunBoardError(t *testing.T) {
	m := NewRunBoardModel(fakeHistory{err: errors.New("database is locked")}, "", 60, 30)
	if m.Mode() != "free" {
		t.Errorf("Mode() = %q, expected the first mode", m.Mode())
	}
	if !strings.Contains(m.View(), "database is locked") {
		t.Error("View() should show the load error")
	}
}
