package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaahc/tetris/internal/settings"
	"github.com/yaahc/tetris/internal/storage"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show handling settings",
	Long: `Show the handling settings used by 'trainer play'. Values are in frames
at 60 frames per second.

Keys:
  das         delayed auto shift
  arr         auto repeat rate (0 = instant)
  gravity     frames per row (null or 0 = off)
  soft-drop   frames per row while soft dropping (0 = instant)
  lock-delay  three stages, e.g. [60,300,1200]
  ghost       show the ghost piece (true/false)`,
	Args: cobra.NoArgs,
	Run:  runSettings,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a handling setting",
	Long: `Validate and store a handling setting.

Examples:
  trainer settings set das 8
  trainer settings set arr 0
  trainer settings set gravity null
  trainer settings set lock-delay 30,120,600
  trainer settings set ghost false`,
	Args: cobra.ExactArgs(2),
	Run:  runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default handling",
	Args:  cobra.NoArgs,
	Run:   runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
}

func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening database: %v", err)
	}
	return store
}

func runSettings(_ *cobra.Command, _ []string) {
	store := openStore()
	defer store.Close()

	entries, err := settings.List(store)
	if err != nil {
		store.Close()
		fail("%v", err)
	}
	printSettings(entries)
}

func printSettings(entries []settings.Entry) {
	fmt.Printf("  %-10s  %s\n", "Key", "Value")
	fmt.Printf("  %-10s  %s\n", "---", "-----")
	for _, e := range entries {
		note := ""
		if !e.Stored {
			note = "  (default)"
		}
		fmt.Printf("  %-10s  %s%s\n", e.Key, e.Value, note)
	}
}

func runSettingsSet(_ *cobra.Command, args []string) {
	key, raw := args[0], args[1]

	s, err := settings.Parse(key, raw)
	if err != nil {
		fail("%v\nValid keys: %s", err, strings.Join(settings.Keys, ", "))
	}

	store := openStore()
	defer store.Close()

	value := settings.Encode(s)
	if err := store.Set(key, value); err != nil {
		store.Close()
		fail("%v", err)
	}
	fmt.Printf("%s = %s\n", key, value)
}

func runSettingsReset(_ *cobra.Command, _ []string) {
	store := openStore()
	defer store.Close()

	if err := settings.Reset(store); err != nil {
		store.Close()
		fail("%v", err)
	}
	fmt.Println("Handling settings restored to defaults.")
}
