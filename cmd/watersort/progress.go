package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
)

var flagProgressReset bool

var progressCmd = &cobra.Command{
	Use:   "progress [player]",
	Short: "Show or reset a player's progress",
	Long: `Show the levels a player has completed and their best move counts.

Examples:
  watersort progress
  watersort progress alice
  watersort progress alice --reset`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProgress,
}

func init() {
	progressCmd.Flags().BoolVar(&flagProgressReset, "reset", false, "Delete the player's progress")
}

// defaultPlayer picks the local player name when none is given.
func defaultPlayer() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "player"
}

func runProgress(_ *cobra.Command, args []string) error {
	player := defaultPlayer()
	if len(args) == 1 {
		player = args[0]
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	store := a.openStore()
	if store == nil {
		return fmt.Errorf("database unavailable at %s", a.cfg.Storage.DBPath)
	}
	defer store.Close()

	if flagProgressReset {
		if err := store.ResetProgress(player); err != nil {
			return err
		}
		fmt.Printf("Progress for %s cleared.\n", player)
		return nil
	}

	p, err := store.LoadProgress(player)
	if err != nil {
		return err
	}

	fmt.Printf("Progress - %s\n\n", player)
	if len(p.BestMoves) == 0 {
		fmt.Println("No levels completed yet.")
		fmt.Println()
		fmt.Println("Run 'watersort play' to start with level 1!")
		return nil
	}

	fmt.Printf("  Current level: %d\n", p.LastLevel)
	fmt.Printf("  Completed:     %d\n\n", len(p.BestMoves))

	ids := make([]int, 0, len(p.BestMoves))
	for id := range p.BestMoves {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	fmt.Printf("  %-5s  %s\n", "Level", "Best")
	fmt.Printf("  %-5s  %s\n", "-----", "----")
	for _, id := range ids {
		fmt.Printf("  %-5d  %d\n", id, p.BestMoves[id])
	}
	return nil
}
