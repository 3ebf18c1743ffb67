package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagLevelsLimit int

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the level catalogue",
	Long: `List catalogue levels with their difficulty band and size.

Examples:
  watersort levels
  watersort levels --limit 20
  watersort levels --difficulty easy`,
	Args: cobra.NoArgs,
	RunE: runLevels,
}

func init() {
	levelsCmd.Flags().IntVar(&flagLevelsLimit, "limit", 0, "Show at most this many levels (0 = all)")
}

func runLevels(_ *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	store := a.openStore()
	if store != nil {
		defer store.Close()
	}
	provider, err := a.provider(store)
	if err != nil {
		return err
	}

	ids := provider.IDs()
	if flagLevelsLimit > 0 && len(ids) > flagLevelsLimit {
		ids = ids[:flagLevelsLimit]
	}
	if len(ids) == 0 {
		fmt.Println("The catalogue is empty.")
		return nil
	}

	fmt.Printf("  %-5s  %-10s  %-7s  %-7s  %s\n", "Level", "Band", "Bottles", "Colours", "Verified")
	fmt.Printf("  %-5s  %-10s  %-7s  %-7s  %s\n", "-----", "----", "-------", "-------", "--------")
	for _, id := range ids {
		l, err := provider.Level(id)
		if err != nil {
			return err
		}
		verified := "no"
		if l.Verified {
			verified = "yes"
		}
		fmt.Printf("  %-5d  %-10s  %-7d  %-7d  %s\n",
			l.ID, a.curve.BandName(l.ID), len(l.Bottles), l.NumColors(), verified)
	}
	return nil
}
