// watersort serves and plays the water sort puzzle.
//
// Usage:
//
//	watersort serve              - Start the HTTP API (and optionally the SSH client)
//	watersort play [level]       - Play in the terminal
//	watersort generate           - Generate a level catalogue file
//	watersort solve <level>      - Run the solver on a level
//	watersort levels             - List the catalogue
//	watersort progress <player>  - Show or reset a player's progress
//	watersort results            - Show finished multiplayer rooms
//
// Global flags:
//
//	--config <path>      - Configuration file (default: search path)
//	--difficulty <name>  - Difficulty preset: easy, normal, hard
//	--db <path>          - Override the database path
//	--log-level <level>  - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig     string
	flagDifficulty string
	flagDBPath     string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "watersort",
	Short: "Water Sort - pour liquids until every bottle holds one colour",
	Long: `Water Sort is a colour sorting puzzle with a level generator, a greedy
solver, an HTTP API with two-player races and a terminal client.

Available commands:
  serve     - Start the HTTP API and optional SSH server
  play      - Play in the terminal
  generate  - Generate a level catalogue file
  solve     - Run the solver on a level
  levels    - List the catalogue
  progress  - Show or reset a player's progress
  results   - Show finished multiplayer rooms

Examples:
  watersort serve
  watersort play 12
  watersort generate --count 200 --out levels.yaml
  watersort solve 40 --difficulty hard`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to configuration YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resultsCmd)
}
