package tui

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaahc/tetris/internal/config"
	"github.com/yaahc/tetris/internal/event"
	"github.com/yaahc/tetris/internal/loop"
	"github.com/yaahc/tetris/internal/settings"
	"github.com/yaahc/tetris/internal/storage"
	"github.com/yaahc/tetris/internal/tetris"
)

type fakeRuns struct {
	runs []storage.Run
	err  error
}

func (f *fakeRuns) SaveRun(run storage.Run) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.runs = append(f.runs, run)
	return "run-1", nil
}

func newTestModel(t *testing.T, mode tetris.Mode, runs RunStore) Model {
	t.Helper()
	seed := int64(3)
	m, err := NewModel(Options{
		ModeID:    "sprint",
		Mode:      mode,
		Handling:  tetris.DefaultConfig(),
		Countdown: config.CountdownConfig{Steps: 1, StepMS: 1},
		Settings:  settings.NewMemoryStore(),
		Runs:      runs,
		Skin:      testSkin(),
		Painter:   NewPainter(lipgloss.NewRenderer(io.Discard)),
		Seed:      &seed,
		FPS:       60,
	})
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	return m
}

func update(t *testing.T, m Model, msg any) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func TestNewModelRequiresModeAndSettings(t *testing.T) {
	if _, err := NewModel(Options{Settings: settings.NewMemoryStore()}); err == nil {
		t.Error("NewModel() without a mode should fail")
	}
	if _, err := NewModel(Options{Mode: tetris.Sprint{TargetLines: 40}}); err == nil {
		t.Error("NewModel() without a settings store should fail")
	}
}

func TestModelPlaysAndRecordsRun(t *testing.T) {
	runs := &fakeRuns{}
	m := newTestModel(t, tetris.Sprint{TargetLines: 40}, runs)
	m.Init()

	now := time.Now().Add(time.Second)
	m = update(t, m, TickMsg(now))
	if m.Game().State() != tetris.Running {
		t.Fatalf("State() = %v after the countdown, expected Running", m.Game().State())
	}

	// Hard drop in the middle until the stack reaches the spawn rows.
	for i := 0; i < 200 && m.Game().State() != tetris.Done; i++ {
		m = update(t, m, keyMsg("space"))
		now = now.Add(16 * time.Millisecond)
		m = update(t, m, TickMsg(now))
	}
	if m.Game().State() != tetris.Done {
		t.Fatal("game never topped out")
	}
	// Later ticks must not record the same run again.
	m = update(t, m, TickMsg(now.Add(time.Second)))

	if len(runs.runs) != 1 {
		t.Fatalf("saved %d runs, expected 1", len(runs.runs))
	}
	r := runs.runs[0]
	if r.Mode != "sprint" || r.Completed || r.Pieces != m.Game().Pieces() || r.Pieces == 0 {
		t.Errorf("run = %+v", r)
	}
	if !strings.Contains(m.View(), "DONE") {
		t.Error("View() should show the game over overlay")
	}
}

func TestModelSaveRunFailure(t *testing.T) {
	runs := &fakeRuns{err: errors.New("disk full")}
	m := newTestModel(t, tetris.Sprint{TargetLines: 40}, runs)
	m.Init()

	now := time.Now().Add(time.Second)
	m = update(t, m, TickMsg(now))
	for i := 0; i < 200 && m.Game().State() != tetris.Done; i++ {
		m = update(t, m, keyMsg("space"))
		now = now.Add(16 * time.Millisecond)
		m = update(t, m, TickMsg(now))
	}
	if m.Game().State() != tetris.Done {
		t.Fatal("game never topped out")
	}
	if len(runs.runs) != 0 {
		t.Errorf("saved %d runs, expected none", len(runs.runs))
	}
}

func editDas(t *testing.T, m Model, value string) Model {
	t.Helper()
	m = update(t, m, keyMsg("tab"))
	if !m.settings.IsOpen() {
		t.Fatal("tab should open the settings panel")
	}
	if !strings.Contains(m.View(), "SETTINGS") {
		t.Error("View() should show the settings panel")
	}

	m = update(t, m, keyMsg("enter")) // das
	m = update(t, m, keyMsg("backspace"))
	m = update(t, m, keyMsg(value))
	m = update(t, m, keyMsg("enter"))
	m = update(t, m, keyMsg("esc"))
	if m.settings.IsOpen() {
		t.Fatal("esc should close the settings panel")
	}
	return m
}

func TestModelSettingsReachGame(t *testing.T) {
	m := newTestModel(t, tetris.TrainingLab{}, nil)
	m.Init()

	now := time.Now().Add(time.Second)
	m = update(t, m, TickMsg(now))
	if got := m.Game().State(); got != tetris.Running {
		t.Fatalf("State() = %v, expected %v", got, tetris.Running)
	}

	m = editDas(t, m, "9")
	m = update(t, m, TickMsg(now.Add(time.Second)))
	if got := m.Game().Config().Das; got != 9 {
		t.Errorf("Config().Das = %d, expected 9", got)
	}
}

func TestModelSettingsDuringCountdownOnlyPersist(t *testing.T) {
	m := newTestModel(t, tetris.TrainingLab{}, nil)
	m.Init()

	m = editDas(t, m, "9")
	m = update(t, m, TickMsg(time.Now().Add(time.Second)))

	if got, expected := m.Game().Config().Das, tetris.DefaultConfig().Das; got != expected {
		t.Errorf("Config().Das = %d, expected %d", got, expected)
	}
	if got, ok, err := m.settings.store.Get("das"); err != nil || !ok || got != "9" {
		t.Errorf("store das = %q, %v, %v, expected \"9\"", got, ok, err)
	}
}

func TestModelExpires(t *testing.T) {
	m := newTestModel(t, tetris.TrainingLab{}, nil)
	m.Init()

	m = update(t, m, TickMsg(time.Now().Add(time.Second)))
	next, cmd := m.Update(TickMsg(time.Now().Add(loop.SessionLimit + time.Minute)))
	m = next.(Model)
	if !m.Expired() {
		t.Fatal("Expired() = false past the session limit")
	}
	if cmd != nil {
		t.Error("ticking should stop once the session expired")
	}
	if !strings.Contains(m.View(), "Gaming time is over") {
		t.Error("View() should show the expiry message")
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, tetris.TrainingLab{}, nil)
	next, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should return tea.Quit")
	}
	if v := next.(Model).View(); v != "" {
		t.Errorf("View() after quit = %q, expected empty", v)
	}
	// Presses after quitting are dropped.
	m.holds.Press(event.PressLeft)
	if m.holds.Held(event.PressLeft) {
		t.Error("hold tracker still tracking after quit")
	}
}

func TestModelScreenshot(t *testing.T) {
	m := newTestModel(t, tetris.Sprint{TargetLines: 40}, nil)
	m.Init()
	m = update(t, m, TickMsg(time.Now().Add(time.Second)))

	shot := m.Screenshot()
	for _, want := range []string{"mode: sprint", "lines: 40", "HOLD", "NEXT", "┌", "██"} {
		if !strings.Contains(shot, want) {
			t.Errorf("Screenshot() missing %q:\n%s", want, shot)
		}
	}

	// Header, then the board frame of FrameRows plus two border rows.
	rows := strings.Split(strings.TrimRight(shot, "\n"), "\n")
	if len(rows) < tetris.FrameRows+3 {
		t.Fatalf("Screenshot() has %d rows, expected at least %d", len(rows), tetris.FrameRows+3)
	}
	if !strings.HasPrefix(rows[2], "┌") {
		t.Errorf("row 2 = %q, expected the hold frame", rows[2])
	}
}
