package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	flagResultsLevel int
	flagResultsLimit int
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show finished multiplayer rooms",
	Long: `Show the most recent finished races stored by the server.

Examples:
  watersort results
  watersort results --level 12
  watersort results --limit 50`,
	Args: cobra.NoArgs,
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().IntVar(&flagResultsLevel, "level", 0, "Only show races on this level")
	resultsCmd.Flags().IntVar(&flagResultsLimit, "limit", 10, "Number of races to show")
}

func runResults(_ *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	store := a.openStore()
	if store == nil {
		return fmt.Errorf("database unavailable at %s", a.cfg.Storage.DBPath)
	}
	defer store.Close()

	results, err := store.RecentRoomResults(flagResultsLevel, flagResultsLimit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No finished races recorded yet.")
		return nil
	}

	fmt.Printf("  %-6s  %-5s  %-12s  %-5s  %-8s  %-24s  %s\n", "Room", "Level", "Winner", "Moves", "Duration", "Players", "Date")
	fmt.Printf("  %-6s  %-5s  %-12s  %-5s  %-8s  %-24s  %s\n", "----", "-----", "------", "-----", "--------", "-------", "----")
	for _, r := range results {
		names := make([]string, 0, len(r.Players))
		for _, p := range r.Players {
			names = append(names, p.Name)
		}
		winner := r.WinnerName
		if winner == "" {
			winner = "-"
		}
		fmt.Printf("  %-6s  %-5d  %-12s  %-5d  %-8s  %-24s  %s\n",
			r.RoomID, r.LevelID, winner, r.WinnerMoves,
			fmt.Sprintf("%ds", r.DurationSecs), strings.Join(names, ", "),
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
