package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaahc/tetris/internal/platform/tui"
	"github.com/yaahc/tetris/internal/registry"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagServeMode   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the trainer SSH server",
	Long: `Start an SSH server that lets users connect and train.

Each SSH connection gets its own game and frame loop. Handling settings
changed in a session last for that session only; finished runs are
stored in the server's database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.tetris/host_key

Examples:
  trainer serve                           # Listen on :23234 with auto-generated key
  trainer serve --ssh :2222               # Listen on port 2222
  trainer serve --mode sprint             # Everyone plays sprint
  trainer serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeMode, "mode", "", "Mode every session plays (default from config)")
}

func runServe(_ *cobra.Command, _ []string) {
	trainer := loadConfig()

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.FPS = flagFPS
	cfg.Trainer = trainer
	cfg.LogLevel = logLevel()
	cfg.ModeID = trainer.Mode.Default
	if flagServeMode != "" {
		cfg.ModeID = flagServeMode
	}
	if !registry.Exists(cfg.ModeID) {
		fail("unknown mode %q, run 'trainer modes' to see available modes", cfg.ModeID)
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fail("creating server: %v", err)
	}

	fmt.Printf("Starting trainer SSH server on %s (mode %s)\n", server.Addr(), cfg.ModeID)
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fail("server: %v", err)
	}
}
