package loop

import (
	"strings"

	"github.com/yaahc/tetris/internal/tetris"
)

// Surface draws part of a frame: the board, the next queue or the hold slot.
type Surface interface {
	Draw(f tetris.Frame) error
}

// TextTarget displays a line of text.
type TextTarget interface {
	SetText(s string)
}

// Targets are the render outputs the scheduler writes every tick.
type Targets struct {
	Board Surface
	Queue Surface
	Hold  Surface

	Timer TextTarget
	FPS   TextTarget
	Lines TextTarget
	Spins TextTarget
}

// MissingTargetsError lists the render targets that were not provided.
type MissingTargetsError struct {
	Missing []string
}

func (e *MissingTargetsError) Error() string {
	return "loop: missing render targets: " + strings.Join(e.Missing, ", ")
}

// Validate returns a *MissingTargetsError naming every absent target.
func (t Targets) Validate() error {
	var missing []string
	check := func(name string, present bool) {
		if !present {
			missing = append(missing, name)
		}
	}
	check("board", t.Board != nil)
	check("queue", t.Queue != nil)
	check("hold", t.Hold != nil)
	check("timer", t.Timer != nil)
	check("fps", t.FPS != nil)
	check("lines", t.Lines != nil)
	check("spins", t.Spins != nil)

	if len(missing) > 0 {
		return &MissingTargetsError{Missing: missing}
	}
	return nil
}
