package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yaahc/tetris/internal/core"
	"github.com/yaahc/tetris/internal/settings"
)

// SettingsKeyMap defines the key bindings of the settings panel.
type SettingsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Edit   key.Binding
	Cancel key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SettingsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Edit, k.Cancel}
}

// FullHelp returns key bindings for the full help view.
func (k SettingsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultSettingsKeyMap returns default key bindings.
func DefaultSettingsKeyMap() SettingsKeyMap {
	return SettingsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit/save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "tab"),
			key.WithHelp("esc", "close"),
		),
	}
}

// SettingsPanel edits the handling settings while the game runs. Saved values
// reach the game as setting events through the handler.
type SettingsPanel struct {
	store   settings.Store
	handler *settings.Handler
	keys    SettingsKeyMap

	entries []settings.Entry
	cursor  int
	input   textinput.Model
	editing bool
	open    bool
	status  string
	err     error
}

// NewSettingsPanel creates a closed panel.
func NewSettingsPanel(store settings.Store, handler *settings.Handler) *SettingsPanel {
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 32
	return &SettingsPanel{
		store:   store,
		handler: handler,
		keys:    DefaultSettingsKeyMap(),
		input:   in,
	}
}

// Open shows the panel with the current values.
func (p *SettingsPanel) Open() {
	p.open = true
	p.editing = false
	p.status = ""
	p.reload()
}

// Close hides the panel, dropping an unfinished edit.
func (p *SettingsPanel) Close() {
	p.open = false
	p.editing = false
	p.input.Blur()
}

// IsOpen reports whether the panel is shown.
func (p *SettingsPanel) IsOpen() bool { return p.open }

// Editing reports whether a value is being edited.
func (p *SettingsPanel) Editing() bool { return p.editing }

// Keys returns the panel's key bindings.
func (p *SettingsPanel) Keys() SettingsKeyMap { return p.keys }

// Err returns the last load or save error.
func (p *SettingsPanel) Err() error { return p.err }

func (p *SettingsPanel) reload() {
	entries, err := settings.List(p.store)
	if err != nil {
		p.err = err
		return
	}
	p.entries = entries
	p.err = nil
	p.cursor = min(p.cursor, len(p.entries)-1)
}

// Update handles a key while the panel is open.
func (p *SettingsPanel) Update(msg tea.KeyMsg) tea.Cmd {
	if p.editing {
		switch {
		case key.Matches(msg, p.keys.Edit):
			p.save()
			return nil
		case msg.Type == tea.KeyEsc:
			p.editing = false
			p.input.Blur()
			return nil
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, p.keys.Cancel):
		p.Close()
	case key.Matches(msg, p.keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, p.keys.Down):
		if p.cursor < len(p.entries)-1 {
			p.cursor++
		}
	case key.Matches(msg, p.keys.Edit):
		if len(p.entries) == 0 {
			return nil
		}
		p.editing = true
		p.status = ""
		p.input.SetValue(p.entries[p.cursor].Value)
		return p.input.Focus()
	}
	return nil
}

func (p *SettingsPanel) save() {
	k := p.entries[p.cursor].Key
	if err := p.handler.Change(k, p.input.Value()); err != nil {
		p.err = err
		return
	}
	p.editing = false
	p.input.Blur()
	p.reload()
	p.status = fmt.Sprintf("%s = %s", k, p.entries[p.cursor].Value)
}

// View renders the panel.
func (p *SettingsPanel) View(painter *Painter, skin Skin) string {
	accent := painter.Style(skin.Accent)
	dim := painter.Style(skin.Ghost)

	var b strings.Builder
	b.WriteString(accent.Bold(true).Render("SETTINGS"))
	b.WriteString("\n")
	for i, e := range p.entries {
		cursor := "  "
		if i == p.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-10s %s", cursor, e.Key, e.Value)
		if !e.Stored {
			line += dim.Render(" (default)")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if p.editing {
		b.WriteString(p.input.View())
		b.WriteString("\n")
	}
	switch {
	case p.err != nil:
		b.WriteString(painter.Style(core.ColorRed).Render(p.err.Error()))
	case p.status != "":
		b.WriteString(dim.Render(p.status))
	}
	return b.String()
}
