package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaahc/tetris/internal/platform/tui"
	"github.com/yaahc/tetris/internal/registry"
	"github.com/yaahc/tetris/internal/settings"
	"github.com/yaahc/tetris/internal/sound"
	"github.com/yaahc/tetris/internal/sound/beepsink"
	"github.com/yaahc/tetris/internal/storage"
	"github.com/yaahc/tetris/internal/tetris"
)

var (
	flagSound  bool
	flagVolume float64
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing the given mode, or the config's default mode.

Controls:
  Left/Right (h/l)  - Move (hold for auto shift)
  Down (j)          - Soft drop
  Space             - Hard drop
  Up/X, Z, A        - Rotate clockwise, counterclockwise, 180
  C                 - Hold
  R                 - Restart
  Tab               - Settings
  Ctrl+S            - Screenshot to ~/.tetris/screenshots
  Q/Ctrl+C          - Quit

Sessions end after 20 minutes of play.

Examples:
  trainer play
  trainer play training-mino
  trainer play sprint --seed 42
  trainer play sprint20 --sound`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagSound, "sound", false, "Play sound effects")
	playCmd.Flags().Float64Var(&flagVolume, "volume", -0.5, "Sound effect gain offset (0 = full, -0.5 = half, -1 = silent)")
}

func runPlay(_ *cobra.Command, args []string) {
	if err := play(args); err != nil {
		fail("running trainer: %v", err)
	}
}

func play(args []string) error {
	cfg := loadConfig()

	modeID := cfg.Mode.Default
	if len(args) == 1 {
		modeID = args[0]
	}
	mode, err := registry.Create(modeID, cfg.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'trainer modes' to see available modes.")
		os.Exit(1)
	}

	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil && (w < tui.MinWidth || h < tui.MinHeight) {
		fmt.Fprintf(os.Stderr, "Warning: terminal is %dx%d, the trainer needs at least %dx%d\n",
			w, h, tui.MinWidth, tui.MinHeight)
	}

	logger, closeLog := openLogger()
	defer closeLog()

	opts := tui.Options{
		ModeID:    modeID,
		Mode:      mode,
		Countdown: cfg.Countdown,
		Searcher:  cfg.Search.Engine(),
		Skin:      tui.NewSkin(cfg.Skin),
		Sound:     sound.NullSink{},
		Logger:    logger,
		Seed:      seed(),
		FPS:       flagFPS,
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		logger.Warn("settings will not persist", "err", err)
		opts.Settings = settings.NewMemoryStore()
	} else {
		defer store.Close()
		opts.Settings = store
		opts.Runs = store
	}

	opts.Handling, err = loadHandling(opts.Settings, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		return err
	}

	if flagSound {
		sink, soundErr := beepsink.New(flagVolume)
		if soundErr != nil {
			logger.Warn("sound disabled", "err", soundErr)
		} else {
			defer sink.Close()
			opts.Sound = sink
		}
	}

	logger.Info("session starting", "mode", modeID, "fps", flagFPS)
	if err := tui.Run(opts); err != nil {
		logger.Error("session failed", "err", err)
		return err
	}
	return nil
}

// loadHandling reads the persisted handling. An unreadable store aborts
// startup; a bad value only falls back to its own default.
func loadHandling(store settings.Store, logger *log.Logger) (tetris.Config, error) {
	cfg, err := settings.Load(store, logger)
	if err != nil {
		return tetris.Config{}, fmt.Errorf("cannot load settings: %w", err)
	}
	return cfg, nil
}
