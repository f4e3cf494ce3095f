package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/yaahc/tetris/internal/config"
	"github.com/yaahc/tetris/internal/core"
	"github.com/yaahc/tetris/internal/event"
	"github.com/yaahc/tetris/internal/loop"
	"github.com/yaahc/tetris/internal/settings"
	"github.com/yaahc/tetris/internal/sound"
	"github.com/yaahc/tetris/internal/storage"
	"github.com/yaahc/tetris/internal/tetris"
)

// Minimum terminal size that fits every panel.
const (
	MinWidth  = 60
	MinHeight = 30
)

// RunStore records finished games.
type RunStore interface {
	SaveRun(run storage.Run) (string, error)
}

// Options configures one trainer session.
type Options struct {
	ModeID    string
	Mode      tetris.Mode
	Handling  tetris.Config
	Countdown config.CountdownConfig
	Searcher  loop.Searcher
	Settings  settings.Store // required
	Runs      RunStore       // nil disables run history
	Skin      Skin
	Painter   *Painter
	Sound     sound.Sink
	Logger    *log.Logger
	Seed      *int64
	FPS       int
}

type panels struct {
	board *BoardPanel
	queue *QueuePanel
	hold  *HoldPanel

	timer TextLine
	fps   TextLine
	lines TextLine
	spins TextLine
}

// Model is the Bubble Tea model of a trainer session. It feeds keys to the
// event channel and runs one scheduler tick per host frame.
type Model struct {
	sched    *loop.Scheduler
	game     *tetris.Game
	holds    *HoldTracker
	settings *SettingsPanel
	panels   *panels
	painter  *Painter
	skin     Skin
	keys     KeyMap
	help     help.Model
	runs     RunStore
	logger   *log.Logger
	modeID   string
	fps      int

	recorded bool // run saved for the current Done state
	expired  bool
	quitting bool
}

// NewModel builds a session: the game, its event channel, the scheduler and
// the panels it renders into.
func NewModel(opts Options) (Model, error) {
	if opts.Mode == nil {
		return Model{}, errors.New("tui: mode is required")
	}
	if opts.Settings == nil {
		return Model{}, errors.New("tui: settings store is required")
	}
	if opts.Painter == nil {
		opts.Painter = NewPainter(nil)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Skin.Pieces == nil {
		opts.Skin = NewSkin(config.SkinConfig{})
	}

	events := event.NewChannel()
	var gameOpts []tetris.Option
	if opts.Countdown.Steps > 0 {
		gameOpts = append(gameOpts, tetris.WithCountdown(opts.Countdown.Steps, opts.Countdown.Step()))
	}
	game := tetris.New(opts.Mode, opts.Handling, gameOpts...)

	p := &panels{
		board: NewBoardPanel(opts.Skin),
		queue: NewQueuePanel(opts.Skin),
		hold:  NewHoldPanel(opts.Skin),
	}
	sched, err := loop.NewScheduler(loop.Options{
		Game:     game,
		Searcher: opts.Searcher,
		Events:   events,
		Targets: loop.Targets{
			Board: p.board,
			Queue: p.queue,
			Hold:  p.hold,
			Timer: &p.timer,
			FPS:   &p.fps,
			Lines: &p.lines,
			Spins: &p.spins,
		},
		Sound:  opts.Sound,
		Logger: opts.Logger,
		Seed:   opts.Seed,
	})
	if err != nil {
		return Model{}, err
	}

	h := help.New()
	h.ShowAll = false

	return Model{
		sched:    sched,
		game:     game,
		holds:    NewHoldTracker(events, DefaultReleaseDelay, DefaultReleaseRepeat),
		settings: NewSettingsPanel(opts.Settings, settings.NewHandler(opts.Settings, events)),
		panels:   p,
		painter:  opts.Painter,
		skin:     opts.Skin,
		keys:     DefaultKeyMap(),
		help:     h,
		runs:     opts.Runs,
		logger:   opts.Logger,
		modeID:   opts.ModeID,
		fps:      opts.FPS,
	}, nil
}

// Init starts the game and the tick loop.
func (m Model) Init() tea.Cmd {
	m.sched.Start(time.Now())
	return tickCmd(m.fps)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.settings.IsOpen() {
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		return m, m.settings.Update(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Settings):
		m.settings.Open()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if in, ok := m.keys.Input(msg); ok {
		m.holds.Press(in)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.holds.Close()
	m.quitting = true
	return m, tea.Quit
}

// handleTick runs one frame. Ticking stops once the session has expired.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if !m.sched.Tick(now) {
		m.expired = true
		m.holds.Close()
		return m, nil
	}
	m = m.recordRun(now)
	return m, tickCmd(m.fps)
}

// recordRun saves the run once when the game reaches Done.
func (m Model) recordRun(now time.Time) Model {
	if m.game.State() != tetris.Done {
		m.recorded = false
		return m
	}
	if m.recorded {
		return m
	}
	m.recorded = true
	if m.runs == nil || m.game.Pieces() == 0 {
		return m
	}

	remaining, sprint := m.game.LinesRemaining()
	run := storage.Run{
		Mode:      m.modeID,
		Lines:     m.game.Lines(),
		Pieces:    m.game.Pieces(),
		Spins:     m.game.SpinCount(),
		Duration:  m.game.Elapsed(now),
		Completed: sprint && remaining == 0,
	}
	id, err := m.runs.SaveRun(run)
	if err != nil {
		m.logger.Warn("could not save run", "err", err)
		return m
	}
	m.logger.Info("run saved", "id", id, "mode", m.modeID, "lines", run.Lines, "duration", run.Duration)
	return m
}

// Expired reports whether the session limit ended the session.
func (m Model) Expired() bool { return m.expired }

// Game returns the session's game.
func (m Model) Game() *tetris.Game { return m.game }

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	border := m.painter.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.skin.Border))
	title := m.painter.Style(m.skin.Accent).Bold(true)

	left := lipgloss.JoinVertical(lipgloss.Left,
		title.Render("HOLD"),
		border.Render(m.painter.Screen(m.panels.hold.Screen())),
		"",
		fmt.Sprintf("lines  %d", m.game.Lines()),
		"left   "+m.panels.lines.String(),
		"time   "+m.panels.timer.String(),
		m.painter.Style(m.skin.Ghost).Render(m.panels.fps.String()),
	)
	center := border.Render(m.painter.Screen(m.panels.board.Screen()))
	right := lipgloss.JoinVertical(lipgloss.Left,
		title.Render("NEXT"),
		border.Render(m.painter.Screen(m.panels.queue.Screen())),
	)

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", center, " ", right))
	b.WriteString("\n")
	if c := m.panels.board.LastClear(); c != "" {
		b.WriteString(title.Render(c))
	}
	b.WriteString("\n")

	if m.settings.IsOpen() {
		b.WriteString(m.settings.View(m.painter, m.skin))
		b.WriteString("\n")
		b.WriteString(m.help.View(m.settings.Keys()))
		return b.String()
	}

	if spins := m.panels.spins.String(); spins != "" {
		b.WriteString(spins)
		b.WriteString("\n")
	}
	b.WriteString(m.painter.Style(m.skin.Ghost).Render(m.help.View(m.keys)))
	return b.String()
}

// Screenshot returns the panels side by side as plain text, framed the way
// View lays them out.
func (m Model) Screenshot() string {
	hold := m.panels.hold.Screen()
	board := m.panels.board.Screen()
	queue := m.panels.queue.Screen()

	holdBox := core.NewRect(0, 1, hold.Width()+2, hold.Height()+2)
	boardBox := core.NewRect(holdBox.Right()+1, 0, board.Width()+2, board.Height()+2)
	queueBox := core.NewRect(boardBox.Right()+1, 1, queue.Width()+2, queue.Height()+2)

	shot := core.NewScreen(queueBox.Right(), max(boardBox.Bottom(), queueBox.Bottom()))
	shot.DrawText(holdBox.X, 0, "HOLD")
	shot.DrawText(queueBox.X, 0, "NEXT")
	for _, p := range []struct {
		box core.Rect
		src *core.Screen
	}{
		{holdBox, hold},
		{boardBox, board},
		{queueBox, queue},
	} {
		shot.DrawBox(p.box, core.ColorDefault)
		shot.Blit(p.src, p.box.Inset(1))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "mode: %s  lines: %s  time: %s\n", m.modeID, m.panels.lines.String(), m.panels.timer.String())
	for y := range shot.Height() {
		b.WriteString(strings.TrimRight(shot.Row(y), " "))
		b.WriteString("\n")
	}
	if spins := m.panels.spins.String(); spins != "" {
		b.WriteString(spins)
		b.WriteString("\n")
	}
	return b.String()
}

// saveScreenshot saves the current frame to a file.
func (m Model) saveScreenshot() {
	dir := filepath.Join(config.Dir(), "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.modeID, timestamp))
	if err := os.WriteFile(path, []byte(m.Screenshot()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// Run starts the Bubble Tea program for a local session.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
