package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yaahc/tetris/internal/event"
	"github.com/yaahc/tetris/internal/settings"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestPanel() (*SettingsPanel, *settings.MemoryStore, *event.Channel) {
	store := settings.NewMemoryStore()
	events := event.NewChannel()
	return NewSettingsPanel(store, settings.NewHandler(store, events)), store, events
}

func TestSettingsPanelEdit(t *testing.T) {
	p, store, events := newTestPanel()
	p.Open()
	if !p.IsOpen() {
		t.Fatal("IsOpen() = false after Open")
	}

	// das is first, arr second.
	p.Update(keyMsg("down"))
	p.Update(keyMsg("enter"))
	if !p.Editing() {
		t.Fatal("Editing() = false after enter")
	}
	p.Update(keyMsg("backspace"))
	p.Update(keyMsg("2"))
	p.Update(keyMsg("enter"))

	if p.Editing() {
		t.Error("Editing() = true after saving")
	}
	if err := p.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	if v, ok, _ := store.Get("arr"); !ok || v != "2" {
		t.Errorf("stored arr = %q, %v, expected \"2\"", v, ok)
	}
	e, ok := events.TryReceive()
	if !ok || e != (event.Arr{Frames: 2}) {
		t.Errorf("sent %v, %v, expected Arr{2}", e, ok)
	}
}

func TestSettingsPanelRejectsInvalid(t *testing.T) {
	p, store, events := newTestPanel()
	p.Open()

	p.Update(keyMsg("enter")) // das
	p.Update(keyMsg("backspace"))
	p.Update(keyMsg("-"))
	p.Update(keyMsg("enter"))

	if p.Err() == nil {
		t.Error("Err() = nil, expected a parse error")
	}
	if !p.Editing() {
		t.Error("an invalid value should keep the editor open")
	}
	if _, ok, _ := store.Get("das"); ok {
		t.Error("invalid value was stored")
	}
	if events.Len() != 0 {
		t.Errorf("events.Len() = %d, expected 0", events.Len())
	}

	p.Update(keyMsg("esc"))
	if p.Editing() || !p.IsOpen() {
		t.Error("esc should cancel the edit and keep the panel open")
	}
	p.Update(keyMsg("esc"))
	if p.IsOpen() {
		t.Error("esc should close the panel")
	}
}

func TestSettingsPanelView(t *testing.T) {
	p, store, _ := newTestPanel()
	if err := store.Set("ghost", "false"); err != nil {
		t.Fatal(err)
	}
	p.Open()
	p.Update(keyMsg("up")) // stays on the first entry

	view := p.View(NewPainter(lipgloss.NewRenderer(io.Discard)), testSkin())
	for _, want := range []string{"SETTINGS", "> das", "(default)", "ghost      false"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "ghost      false (default)") {
		t.Error("stored value shown as default")
	}
}
