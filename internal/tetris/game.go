package tetris

import (
	"time"

	"github.com/yaahc/tetris/internal/event"
	"github.com/yaahc/tetris/internal/piece"
	"github.com/yaahc/tetris/internal/search"
	"github.com/yaahc/tetris/internal/sound"
	"github.com/yaahc/tetris/internal/timer"
)

// NextCount is how many upcoming pieces the game keeps revealed.
const NextCount = 5

// Countdown defaults.
const (
	DefaultCountdownSteps = 3
	DefaultCountdownStep  = time.Second
)

// active is the falling piece.
type active struct {
	kind piece.Kind
	rot  piece.Rotation
	x, y int
	spun bool // last successful action was a rotation
}

// Game is a single player game. It is not safe for concurrent use; the frame
// loop owns it.
type Game struct {
	mode   Mode
	config Config

	countdownSteps int
	countdownStep  time.Duration
	countdownLeft  int

	state    GameState
	field    field
	bag      *piece.Bag
	next     []piece.Kind
	hold     piece.Kind
	holdUsed bool
	cur      active
	hasPiece bool
	b2b      bool
	timers   timer.Queue

	// held inputs
	left, right, soft bool
	dir               int // most recently pressed direction, -1 or 1, 0 when none

	// lock delay bookkeeping for the current piece
	groundedAt time.Time
	lowestY    int

	lines     int
	pieces    int
	spinCount int
	lastClear string
	start     time.Time
	end       time.Time

	spins []search.Node
}

// Option configures a Game.
type Option func(*Game)

// WithCountdown sets the number of countdown steps and their length.
// At least one step always runs.
func WithCountdown(steps int, step time.Duration) Option {
	return func(g *Game) {
		g.countdownSteps = max(steps, 1)
		if step > 0 {
			g.countdownStep = step
		}
	}
}

// New creates a game in mode with the given handling. Call Start before use.
func New(mode Mode, cfg Config, opts ...Option) *Game {
	g := &Game{
		mode:           mode,
		config:         cfg,
		countdownSteps: DefaultCountdownSteps,
		countdownStep:  DefaultCountdownStep,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Start resets the game and begins the countdown. A nil seed derives one from now.
func (g *Game) Start(seed *int64, now time.Time, sink sound.Sink) {
	s := now.UnixNano()
	if seed != nil {
		s = *seed
	}

	g.state = Startup
	g.field = field{}
	g.bag = piece.NewBag(s)
	g.next = g.next[:0]
	g.fillNext()
	g.hold = piece.None
	g.holdUsed = false
	g.cur = active{}
	g.hasPiece = false
	g.b2b = false
	g.timers.Clear()
	g.left, g.right, g.soft = false, false, false
	g.dir = 0
	g.groundedAt = time.Time{}
	g.lines = 0
	g.pieces = 0
	g.spinCount = 0
	g.lastClear = ""
	g.start = time.Time{}
	g.end = time.Time{}
	g.spins = nil

	g.countdownLeft = g.countdownSteps
	g.timers.Schedule(now.Add(g.countdownStep), event.Countdown)
	sink.Play(sound.Countdown)
}

// Handle applies ev at now. It reports whether a new piece spawned.
func (g *Game) Handle(ev event.Event, now time.Time, sink sound.Sink) bool {
	switch e := ev.(type) {
	case event.Input:
		return g.handleInput(e, now, sink)
	case event.Timer:
		return g.handleTimer(e, now, sink)
	case event.Setting:
		g.handleSetting(e, now)
	}
	return false
}

// State returns the lifecycle phase.
func (g *Game) State() GameState { return g.state }

// Mode returns the game mode.
func (g *Game) Mode() Mode { return g.mode }

// Config returns the current handling.
func (g *Game) Config() Config { return g.config }

// SearchEnabled reports whether the mode runs spin search.
func (g *Game) SearchEnabled() bool { return g.mode.SearchEnabled() }

// Timers returns the game's pending timers.
func (g *Game) Timers() *timer.Queue { return &g.timers }

// Lines returns the number of cleared lines.
func (g *Game) Lines() int { return g.lines }

// Pieces returns the number of locked pieces.
func (g *Game) Pieces() int { return g.pieces }

// SpinCount returns how many spins cleared lines this game.
func (g *Game) SpinCount() int { return g.spinCount }

// Elapsed returns play time: zero before the countdown ends and frozen once
// the game is done.
func (g *Game) Elapsed(now time.Time) time.Duration {
	switch {
	case g.start.IsZero():
		return 0
	case !g.end.IsZero():
		return g.end.Sub(g.start)
	default:
		return now.Sub(g.start)
	}
}

// LinesRemaining returns the lines left to clear in a sprint.
func (g *Game) LinesRemaining() (int, bool) {
	s, ok := g.mode.(Sprint)
	if !ok {
		return 0, false
	}
	return max(s.TargetLines-g.lines, 0), true
}

func (g *Game) fillNext() {
	for len(g.next) < NextCount+1 {
		g.next = append(g.next, g.bag.Next())
	}
}

func (g *Game) allSpin() bool {
	m, ok := g.mode.(TrainingLab)
	return ok && m.MinoMode
}

func (g *Game) handleInput(in event.Input, now time.Time, sink sound.Sink) bool {
	switch in {
	case event.PressLeft:
		g.left = true
		g.press(-1, now, sink)
	case event.PressRight:
		g.right = true
		g.press(1, now, sink)
	case event.ReleaseLeft:
		g.left = false
		g.release(-1, now)
	case event.ReleaseRight:
		g.right = false
		g.release(1, now)
	}
	if g.state != Running || !g.hasPiece {
		return false
	}

	switch in {
	case event.PressDown:
		g.soft = true
		g.softStep(now)
	case event.ReleaseDown:
		g.soft = false
		g.timers.Cancel(event.SoftDropTick)
	case event.PressUp:
		g.drop()
		sink.Play(sound.HardDrop)
		return g.lock(now, sink)
	case event.RotateCW:
		g.rotate(g.cur.rot.CW(), now, sink)
	case event.RotateCCW:
		g.rotate(g.cur.rot.CCW(), now, sink)
	case event.Rotate180:
		g.rotate(g.cur.rot.Flip(), now, sink)
	case event.Hold:
		return g.swapHold(now, sink)
	}
	return false
}

func (g *Game) handleTimer(t event.Timer, now time.Time, sink sound.Sink) bool {
	if t == event.Countdown {
		return g.countdown(now, sink)
	}
	if g.state != Running || !g.hasPiece {
		return false
	}

	switch t {
	case event.Gravity:
		if g.tryMove(0, -1) {
			g.settle(now)
		}
		g.scheduleGravity(now)
	case event.SoftDropTick:
		if g.soft {
			g.softStep(now)
		}
	case event.DasLeft, event.ArrLeft:
		if g.dir == -1 {
			g.autoShift(now, sink)
		}
	case event.DasRight, event.ArrRight:
		if g.dir == 1 {
			g.autoShift(now, sink)
		}
	case event.LockDelay:
		if g.grounded() {
			return g.lock(now, sink)
		}
	case event.LockCap:
		g.drop()
		return g.lock(now, sink)
	}
	return false
}

func (g *Game) handleSetting(s event.Setting, now time.Time) {
	g.config = g.config.Apply(s)
	if g.state != Running || !g.hasPiece {
		return
	}
	switch s.(type) {
	case event.GravityChange:
		g.scheduleGravity(now)
	case event.SoftDrop:
		if g.soft {
			g.timers.Cancel(event.SoftDropTick)
			g.timers.Schedule(now.Add(Frames(g.config.SoftDrop)), event.SoftDropTick)
		}
	}
}

func (g *Game) countdown(now time.Time, sink sound.Sink) bool {
	if g.state != Startup {
		return false
	}
	g.countdownLeft--
	if g.countdownLeft > 0 {
		g.timers.Schedule(now.Add(g.countdownStep), event.Countdown)
		sink.Play(sound.Countdown)
		return false
	}
	g.state = Running
	g.start = now
	sink.Play(sound.Go)
	return g.spawn(now, sink)
}

// spawn deals the next piece. A blocked spawn ends the game.
func (g *Game) spawn(now time.Time, sink sound.Sink) bool {
	k := g.next[0]
	g.next = g.next[1:]
	g.fillNext()
	return g.place(k, now, sink)
}

func (g *Game) place(k piece.Kind, now time.Time, sink sound.Sink) bool {
	g.cur = active{kind: k, rot: piece.North, x: search.SpawnX, y: search.SpawnY}
	g.hasPiece = true
	for _, t := range []event.Timer{event.Gravity, event.SoftDropTick, event.LockDelay, event.LockCap} {
		g.timers.Cancel(t)
	}

	if g.field.collides(k, g.cur.rot, g.cur.x, g.cur.y) {
		g.finish(now)
		sink.Play(sound.GameOver)
		return false
	}

	g.groundedAt = time.Time{}
	g.lowestY = g.cur.y
	g.timers.Schedule(now.Add(Frames(g.config.LockDelay[2])), event.LockCap)
	g.scheduleGravity(now)
	if g.soft {
		g.softStep(now)
	}
	// A charged DAS carries over to the new piece.
	if g.dir != 0 && !g.timers.Pending(dasTimer(g.dir)) {
		g.timers.Cancel(arrTimer(g.dir))
		g.autoShift(now, sink)
	}
	g.settle(now)
	return true
}

func (g *Game) finish(now time.Time) {
	g.state = Done
	g.end = now
	g.hasPiece = false
	g.timers.Clear()
}

func (g *Game) press(dir int, now time.Time, sink sound.Sink) {
	g.dir = dir
	for _, t := range []event.Timer{event.DasLeft, event.DasRight, event.ArrLeft, event.ArrRight} {
		g.timers.Cancel(t)
	}
	if g.state == Running && g.hasPiece && g.tryMove(dir, 0) {
		sink.Play(sound.Move)
		g.settle(now)
	}
	g.timers.Schedule(now.Add(Frames(g.config.Das)), dasTimer(dir))
}

func (g *Game) release(dir int, now time.Time) {
	g.timers.Cancel(dasTimer(dir))
	g.timers.Cancel(arrTimer(dir))
	if g.dir != dir {
		return
	}
	g.dir = 0
	// Fall back to the other direction if it is still held.
	other := -dir
	if (other == -1 && g.left) || (other == 1 && g.right) {
		g.dir = other
		g.timers.Schedule(now.Add(Frames(g.config.Das)), dasTimer(other))
	}
}

// autoShift moves one column per ARR period, or to the wall when ARR is 0.
func (g *Game) autoShift(now time.Time, sink sound.Sink) {
	moved := false
	if g.config.Arr == 0 {
		for g.tryMove(g.dir, 0) {
			moved = true
		}
	} else {
		moved = g.tryMove(g.dir, 0)
		g.timers.Schedule(now.Add(Frames(g.config.Arr)), arrTimer(g.dir))
	}
	if moved {
		sink.Play(sound.Move)
		g.settle(now)
	}
}

func (g *Game) softStep(now time.Time) {
	g.timers.Cancel(event.SoftDropTick)
	if g.config.SoftDrop == 0 {
		g.drop()
	} else {
		g.tryMove(0, -1)
		g.timers.Schedule(now.Add(Frames(g.config.SoftDrop)), event.SoftDropTick)
	}
	g.settle(now)
}

func (g *Game) scheduleGravity(now time.Time) {
	g.timers.Cancel(event.Gravity)
	if g.config.Gravity > 0 {
		g.timers.Schedule(now.Add(Frames(g.config.Gravity)), event.Gravity)
	}
}

func (g *Game) tryMove(dx, dy int) bool {
	if g.field.collides(g.cur.kind, g.cur.rot, g.cur.x+dx, g.cur.y+dy) {
		return false
	}
	g.cur.x += dx
	g.cur.y += dy
	g.cur.spun = false
	return true
}

// drop moves the piece straight down until it rests.
func (g *Game) drop() {
	if d := g.field.bits.DropDistance(g.cur.kind, g.cur.rot, g.cur.x, g.cur.y); d > 0 {
		g.cur.y -= d
		g.cur.spun = false
	}
}

func (g *Game) rotate(to piece.Rotation, now time.Time, sink sound.Sink) {
	x, y, ok := search.Rotate(&g.field.bits, g.cur.kind, g.cur.rot, to, g.cur.x, g.cur.y)
	if !ok {
		return
	}
	g.cur.rot, g.cur.x, g.cur.y = to, x, y
	g.cur.spun = true
	sink.Play(sound.Rotate)
	g.settle(now)
}

func (g *Game) grounded() bool {
	return g.field.collides(g.cur.kind, g.cur.rot, g.cur.x, g.cur.y-1)
}

// settle maintains the lock delay after the piece moved. Reaching a new
// lowest row restarts the reset window; once the window has passed, moving
// no longer postpones the lock.
func (g *Game) settle(now time.Time) {
	if !g.grounded() {
		g.timers.Cancel(event.LockDelay)
		return
	}
	if g.groundedAt.IsZero() || g.cur.y < g.lowestY {
		g.groundedAt = now
		g.lowestY = g.cur.y
	}
	window := Frames(g.config.LockDelay[1])
	if now.Sub(g.groundedAt) > window && g.timers.Pending(event.LockDelay) {
		return
	}
	g.timers.Cancel(event.LockDelay)
	g.timers.Schedule(now.Add(Frames(g.config.LockDelay[0])), event.LockDelay)
}

func (g *Game) swapHold(now time.Time, sink sound.Sink) bool {
	if g.holdUsed {
		return false
	}
	held := g.hold
	g.hold = g.cur.kind
	g.holdUsed = true
	sink.Play(sound.Hold)
	if held == piece.None {
		return g.spawn(now, sink)
	}
	return g.place(held, now, sink)
}

// lock places the current piece, clears lines and spawns the next one.
func (g *Game) lock(now time.Time, sink sound.Sink) bool {
	p := search.Placement{Kind: g.cur.kind, Rot: g.cur.rot, X: g.cur.x, Y: g.cur.y, Spun: g.cur.spun}
	spin, mini := search.Classify(&g.field.bits, p, g.allSpin())
	cleared := g.field.lock(p.Kind, p.Rot, p.X, p.Y)

	g.pieces++
	g.lines += cleared
	g.holdUsed = false
	g.hasPiece = false

	switch {
	case cleared > 0 && spin:
		g.spinCount++
		sink.Play(sound.Spin)
	case cleared > 0:
		sink.Play(sound.LineClear)
	default:
		sink.Play(sound.Lock)
	}
	if cleared > 0 || spin {
		g.lastClear = describeClear(p.Kind, search.PlacementInfo{LinesCleared: cleared, Spin: spin, Mini: mini})
	}
	if cleared > 0 {
		g.b2b = cleared == 4 || spin
	}

	if s, ok := g.mode.(Sprint); ok && g.lines >= s.TargetLines {
		g.finish(now)
		sink.Play(sound.Finish)
		return false
	}
	return g.spawn(now, sink)
}

func dasTimer(dir int) event.Timer {
	if dir < 0 {
		return event.DasLeft
	}
	return event.DasRight
}

func arrTimer(dir int) event.Timer {
	if dir < 0 {
		return event.ArrLeft
	}
	return event.ArrRight
}
