// trainer is a terminal trainer for falling-block spins: it plays the game,
// recommends spin setups for every new piece and keeps a run history.
//
// Usage:
//
//	trainer modes                     - List available modes
//	trainer play [mode]               - Play a mode (default from config)
//	trainer serve                     - Start SSH server for remote play
//	trainer settings                  - Show handling settings
//	trainer settings set <key> <val>  - Change a handling setting
//	trainer settings reset            - Restore default handling
//	trainer runs [mode]               - Show run history
//
// Global flags:
//
//	--fps <rate>        - Set frame rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible piece order
//	--db <path>         - Set database path (default: ~/.tetris/trainer.db)
//	--config <path>     - Use a custom trainer config YAML
//	--log <path>        - Set log file (default: ~/.tetris/trainer.log)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaahc/tetris/internal/config"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogPath  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "trainer",
	Short: "Spin trainer - practice T-spins and friends in your terminal",
	Long: `The spin trainer plays a falling-block game in your terminal and
suggests spin setups for every new piece.

Available commands:
  modes     - Show all available modes
  play      - Play a mode
  serve     - Start SSH server for remote play
  settings  - Show or change handling settings (DAS, ARR, gravity, ...)
  runs      - View run history

Examples:
  trainer modes
  trainer play
  trainer play sprint
  trainer settings set das 8
  trainer serve --ssh :2222
  trainer runs sprint`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tetris/trainer.db", "Path to settings and runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom trainer config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "~/.tetris/trainer.log", "Path to log file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(runsCmd)
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig loads the trainer config, exiting on a broken file.
func loadConfig() config.TrainerConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	return cfg
}

// seed returns the --seed value, or nil for a time-based seed.
func seed() *int64 {
	if flagSeed == 0 {
		return nil
	}
	s := flagSeed
	return &s
}

func logLevel() log.Level {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fail("invalid --log-level %q", flagLogLevel)
	}
	return level
}

// openLogger opens the log file. The terminal belongs to the game, so
// logs never go to stdout or stderr while playing.
func openLogger() (*log.Logger, func()) {
	path := expandHome(flagLogPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fail("cannot create log directory: %v", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fail("cannot open log file: %v", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "trainer",
		Level:           logLevel(),
	})
	return logger, func() { f.Close() }
}

// expandHome expands a leading ~ to the home directory.
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
