// Package settings persists the handling configuration and turns edits into
// setting events for the running game.
package settings

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yaahc/tetris/internal/event"
	"github.com/yaahc/tetris/internal/tetris"
)

// Keys lists every persisted setting in display order.
var Keys = []string{"das", "arr", "gravity", "soft-drop", "lock-delay", "ghost"}

// Store is a string key/value store for setting values. Values are JSON.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// Parse converts a raw value for key into its setting event. Frame counts are
// JSON integers, gravity also accepts null (disabled), lock-delay is a JSON
// array of three integers or a bare comma separated list, ghost is a boolean.
func Parse(key, raw string) (event.Setting, error) {
	raw = strings.TrimSpace(raw)
	var s event.Setting

	switch key {
	case "das", "arr", "soft-drop":
		var n int
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			return nil, fmt.Errorf("settings: %s: %w", key, err)
		}
		switch key {
		case "das":
			s = event.Das{Frames: n}
		case "arr":
			s = event.Arr{Frames: n}
		default:
			s = event.SoftDrop{Frames: n}
		}
	case "gravity":
		var n *int
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			return nil, fmt.Errorf("settings: %s: %w", key, err)
		}
		frames := 0
		if n != nil {
			frames = *n
		}
		s = event.GravityChange{Frames: frames}
	case "lock-delay":
		if !strings.HasPrefix(raw, "[") {
			raw = "[" + raw + "]"
		}
		var stages [3]int
		var list []int
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil, fmt.Errorf("settings: %s: %w", key, err)
		}
		if len(list) != len(stages) {
			return nil, fmt.Errorf("settings: %s: expected 3 stages, got %d", key, len(list))
		}
		copy(stages[:], list)
		s = event.LockDelayChange{Stages: stages}
	case "ghost":
		var b bool
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			return nil, fmt.Errorf("settings: %s: %w", key, err)
		}
		s = event.Ghost{Visible: b}
	default:
		return nil, fmt.Errorf("settings: unknown key %q", key)
	}

	if err := event.Validate(s); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	return s, nil
}

// Encode returns the stored form of s.
func Encode(s event.Setting) string {
	var v any
	switch e := s.(type) {
	case event.Das:
		v = e.Frames
	case event.Arr:
		v = e.Frames
	case event.GravityChange:
		if e.Frames == 0 {
			return "null"
		}
		v = e.Frames
	case event.SoftDrop:
		v = e.Frames
	case event.LockDelayChange:
		v = e.Stages
	case event.Ghost:
		v = e.Visible
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// Load reads the handling configuration from store. Missing keys take their
// default; a value that does not parse falls back to the default for that
// key alone and is reported to logger, which may be nil. Only a failing
// store is an error.
func Load(store Store, logger *log.Logger) (tetris.Config, error) {
	cfg := tetris.DefaultConfig()
	for _, key := range Keys {
		raw, ok, err := store.Get(key)
		if err != nil {
			return tetris.DefaultConfig(), fmt.Errorf("settings: cannot read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		s, err := Parse(key, raw)
		if err != nil {
			if logger != nil {
				logger.Warn("ignoring stored setting", "key", key, "value", raw, "err", err)
			}
			continue
		}
		cfg = cfg.Apply(s)
	}
	return cfg, nil
}

// Entry is one setting as shown to the user.
type Entry struct {
	Key    string
	Value  string
	Stored bool // false when the default is in effect
}

// List returns every setting with its effective value.
func List(store Store) ([]Entry, error) {
	defaults := make(map[string]string, len(Keys))
	for _, s := range tetris.DefaultConfig().Settings() {
		defaults[s.Key()] = Encode(s)
	}

	entries := make([]Entry, 0, len(Keys))
	for _, key := range Keys {
		raw, ok, err := store.Get(key)
		if err != nil {
			return nil, fmt.Errorf("settings: cannot read %s: %w", key, err)
		}
		if !ok {
			raw = defaults[key]
		}
		entries = append(entries, Entry{Key: key, Value: raw, Stored: ok})
	}
	return entries, nil
}

// Reset removes every stored setting.
func Reset(store Store) error {
	for _, key := range Keys {
		if err := store.Delete(key); err != nil {
			return fmt.Errorf("settings: cannot reset %s: %w", key, err)
		}
	}
	return nil
}
