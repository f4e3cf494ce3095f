package main

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaahc/tetris/internal/platform/tui"
	"github.com/yaahc/tetris/internal/registry"
	"github.com/yaahc/tetris/internal/storage"
)

var (
	flagRunsLimit  int
	flagRunsBrowse bool
	flagRunsClear  bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [mode]",
	Short: "Show run history",
	Long: `Display recent runs, newest first, and the best finished run of a mode.
Without a mode, shows per-mode totals.

Examples:
  trainer runs
  trainer runs sprint
  trainer runs sprint --limit 50
  trainer runs --browse
  trainer runs sprint20 --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsBrowse, "browse", false, "Browse runs interactively")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete the history of the mode")
}

func runRuns(_ *cobra.Command, args []string) {
	mode := ""
	if len(args) == 1 {
		mode = args[0]
		if !registry.Exists(mode) {
			fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", mode)
			fmt.Fprintln(os.Stderr, "Run 'trainer modes' to see available modes.")
			os.Exit(1)
		}
	}

	store := openStore()
	defer store.Close()

	switch {
	case flagRunsClear:
		if mode == "" {
			store.Close()
			fail("--clear needs a mode")
		}
		if err := store.ClearRuns(mode); err != nil {
			store.Close()
			fail("%v", err)
		}
		fmt.Printf("Cleared the %s history.\n", mode)

	case flagRunsBrowse:
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		if err := tui.RunBoard(store, mode, width, height); err != nil {
			store.Close()
			fail("%v", err)
		}

	case mode == "":
		printModeStats(store)

	default:
		printRuns(store, mode)
	}
}

func printRuns(store *storage.Store, mode string) {
	runs, err := store.RecentRuns(mode, flagRunsLimit)
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("Runs - %s\n", mode)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'trainer play %s' to record one!\n", mode)
		return
	}

	fmt.Printf("  %-10s  %-6s  %-6s  %-5s  %-8s  %s\n", "Time", "Lines", "Pieces", "Spins", "Result", "Date")
	fmt.Printf("  %-10s  %-6s  %-6s  %-5s  %-8s  %s\n", "----", "-----", "------", "-----", "------", "----")
	for _, r := range runs {
		result := "-"
		if r.Completed {
			result = "finished"
		}
		fmt.Printf("  %-10s  %-6d  %-6d  %-5d  %-8s  %s\n",
			tui.FormatDuration(r.Duration), r.Lines, r.Pieces, r.Spins, result,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	best, err := store.BestRun(mode)
	if err == nil && best != nil {
		fmt.Println()
		fmt.Printf("Best: %s (%d pieces)\n", tui.FormatDuration(best.Duration), best.Pieces)
	}
}

func printModeStats(store *storage.Store) {
	stats, err := store.AllModeStats()
	if err != nil {
		fail("%v", err)
	}
	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	fmt.Printf("  %-14s  %-5s  %-7s  %-6s  %s\n", "Mode", "Runs", "Lines", "Spins", "Last played")
	fmt.Printf("  %-14s  %-5s  %-7s  %-6s  %s\n", "----", "----", "-----", "-----", "-----------")
	for _, mode := range slices.Sorted(maps.Keys(stats)) {
		st := stats[mode]
		fmt.Printf("  %-14s  %-5d  %-7d  %-6d  %s\n",
			mode, st.Runs, st.Lines, st.Spins, st.LastPlayed.Format("2006-01-02 15:04"))
	}
	fmt.Println()
	fmt.Println("Run 'trainer runs <mode>' for a mode's history.")
}
