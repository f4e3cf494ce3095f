// Package sound defines the effects the game emits and the sinks that play them.
package sound

// Effect is a short cue emitted by the game.
type Effect int

const (
	Move Effect = iota + 1
	Rotate
	HardDrop
	Lock
	Hold
	LineClear
	Spin
	Countdown
	Go
	GameOver
	Finish
)

func (e Effect) String() string {
	switch e {
	case Move:
		return "move"
	case Rotate:
		return "rotate"
	case HardDrop:
		return "hard-drop"
	case Lock:
		return "lock"
	case Hold:
		return "hold"
	case LineClear:
		return "line-clear"
	case Spin:
		return "spin"
	case Countdown:
		return "countdown"
	case Go:
		return "go"
	case GameOver:
		return "game-over"
	case Finish:
		return "finish"
	default:
		return "unknown"
	}
}

// Sink plays effects. Play must not block the caller.
type Sink interface {
	Play(e Effect)
}

// NullSink discards every effect.
type NullSink struct{}

// Play does nothing.
func (NullSink) Play(Effect) {}

// Recorder keeps the effects it was asked to play, in order.
type Recorder struct {
	Effects []Effect
}

// Play appends e.
func (r *Recorder) Play(e Effect) {
	r.Effects = append(r.Effects, e)
}

// Count returns how many times e was played.
func (r *Recorder) Count(e Effect) int {
	n := 0
	for _, got := range r.Effects {
		if got == e {
			n++
		}
	}
	return n
}
