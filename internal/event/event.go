// Package event defines the discrete events consumed by the frame loop and the
// channel producers use to hand them over.
package event

import (
	"errors"
	"fmt"
)

// Event is a tagged union of Input, the Setting variants and Timer.
// Events are immutable values; a producer sends one and the loop consumes it once.
type Event interface {
	event()
}

// ErrInvalidEvent is wrapped by Validate for events the loop cannot interpret.
var ErrInvalidEvent = errors.New("event: invalid event")

// Input is a press or release of a player action.
type Input int

const (
	PressLeft Input = iota + 1
	ReleaseLeft
	PressRight
	ReleaseRight
	PressDown
	ReleaseDown
	PressUp // hard drop
	RotateCW
	RotateCCW
	Rotate180
	Hold
	Restart
)

func (Input) event() {}

// IsDirectional reports whether the event presses or releases left or right.
func (i Input) IsDirectional() bool {
	switch i {
	case PressLeft, ReleaseLeft, PressRight, ReleaseRight:
		return true
	}
	return false
}

// IsRelease reports whether the event ends a held action.
func (i Input) IsRelease() bool {
	return i == ReleaseLeft || i == ReleaseRight || i == ReleaseDown
}

// Release returns the release counterpart of a held press, or false.
func (i Input) Release() (Input, bool) {
	switch i {
	case PressLeft:
		return ReleaseLeft, true
	case PressRight:
		return ReleaseRight, true
	case PressDown:
		return ReleaseDown, true
	}
	return 0, false
}

func (i Input) String() string {
	switch i {
	case PressLeft:
		return "PressLeft"
	case ReleaseLeft:
		return "ReleaseLeft"
	case PressRight:
		return "PressRight"
	case ReleaseRight:
		return "ReleaseRight"
	case PressDown:
		return "PressDown"
	case ReleaseDown:
		return "ReleaseDown"
	case PressUp:
		return "PressUp"
	case RotateCW:
		return "RotateCW"
	case RotateCCW:
		return "RotateCCW"
	case Rotate180:
		return "Rotate180"
	case Hold:
		return "Hold"
	case Restart:
		return "Restart"
	default:
		return fmt.Sprintf("Input(%d)", int(i))
	}
}

// Timer is an internally scheduled trigger.
type Timer int

const (
	Countdown Timer = iota + 1
	Gravity
	SoftDropTick
	LockDelay
	LockCap
	DasLeft
	DasRight
	ArrLeft
	ArrRight
)

func (Timer) event() {}

func (t Timer) String() string {
	switch t {
	case Countdown:
		return "Countdown"
	case Gravity:
		return "Gravity"
	case SoftDropTick:
		return "SoftDrop"
	case LockDelay:
		return "LockDelay"
	case LockCap:
		return "LockCap"
	case DasLeft:
		return "DasLeft"
	case DasRight:
		return "DasRight"
	case ArrLeft:
		return "ArrLeft"
	case ArrRight:
		return "ArrRight"
	default:
		return fmt.Sprintf("Timer(%d)", int(t))
	}
}

// Setting is a configuration change. Every variant carries the new value.
type Setting interface {
	Event
	// Key is the persisted settings key for the variant.
	Key() string
}

// Das sets the delayed auto shift in frames.
type Das struct{ Frames int }

// Arr sets the auto repeat rate in frames; 0 shifts instantly to the wall.
type Arr struct{ Frames int }

// GravityChange sets frames per row; 0 disables gravity.
type GravityChange struct{ Frames int }

// SoftDrop sets frames per row while soft dropping; 0 drops instantly.
type SoftDrop struct{ Frames int }

// LockDelayChange sets the three lock delay stages in frames.
type LockDelayChange struct{ Stages [3]int }

// Ghost toggles the ghost piece.
type Ghost struct{ Visible bool }

func (Das) event()             {}
func (Arr) event()             {}
func (GravityChange) event()   {}
func (SoftDrop) event()        {}
func (LockDelayChange) event() {}
func (Ghost) event()           {}

func (Das) Key() string             { return "das" }
func (Arr) Key() string             { return "arr" }
func (GravityChange) Key() string   { return "gravity" }
func (SoftDrop) Key() string        { return "soft-drop" }
func (LockDelayChange) Key() string { return "lock-delay" }
func (Ghost) Key() string           { return "ghost" }

// Validate reports whether the loop can interpret e.
func Validate(e Event) error {
	switch v := e.(type) {
	case nil:
		return fmt.Errorf("%w: nil", ErrInvalidEvent)
	case Input:
		if v < PressLeft || v > Restart {
			return fmt.Errorf("%w: unknown input %d", ErrInvalidEvent, int(v))
		}
	case Timer:
		if v < Countdown || v > ArrRight {
			return fmt.Errorf("%w: unknown timer %d", ErrInvalidEvent, int(v))
		}
	case Das:
		return checkFrames(v.Key(), v.Frames)
	case Arr:
		return checkFrames(v.Key(), v.Frames)
	case GravityChange:
		return checkFrames(v.Key(), v.Frames)
	case SoftDrop:
		return checkFrames(v.Key(), v.Frames)
	case LockDelayChange:
		for _, f := range v.Stages {
			if err := checkFrames(v.Key(), f); err != nil {
				return err
			}
		}
		if v.Stages[2] == 0 {
			return fmt.Errorf("%w: %s cap must be at least one frame", ErrInvalidEvent, v.Key())
		}
	case Ghost:
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidEvent, e)
	}
	return nil
}

// MaxFrames bounds every frame count a setting may carry (one hour at 60 Hz).
const MaxFrames = 60 * 60 * 60

func checkFrames(key string, frames int) error {
	if frames < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidEvent, key, frames)
	}
	if frames > MaxFrames {
		return fmt.Errorf("%w: %s must be at most %d, got %d", ErrInvalidEvent, key, MaxFrames, frames)
	}
	return nil
}
