package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/watersort/internal/platform/tui"
)

var (
	flagPlayer     string
	flagMonochrome bool
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play in the terminal",
	Long: `Open the terminal client. Without a level the level picker is shown.

Controls:
  Left/Right, h/l  - Move between bottles
  1-9              - Jump to a bottle and pick/pour
  Space/Enter      - Pick the bottle, then pour into another
  u                - Undo
  r                - Restart
  ?                - Hint
  n                - Next level (after solving)
  Esc              - Back to levels
  q/Ctrl+C         - Quit

Progress is saved per player in the database.

Examples:
  watersort play
  watersort play 25
  watersort play --player alice --difficulty easy`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayer, "player", "", "Player name for progress (default: $USER)")
	playCmd.Flags().BoolVar(&flagMonochrome, "mono", false, "Draw liquids as letters without colour")
}

func runPlay(_ *cobra.Command, args []string) error {
	start := 0
	if len(args) == 1 {
		id, err := strconv.Atoi(args[0])
		if err != nil || id < 1 {
			return fmt.Errorf("invalid level %q", args[0])
		}
		start = id
	}

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

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	player := flagPlayer
	if player == "" {
		player = defaultPlayer()
	}

	theme := tui.DefaultTheme()
	if flagMonochrome {
		theme = tui.MonochromeTheme()
	}

	cfg := tui.SessionConfig{
		Levels:     provider,
		Player:     player,
		Theme:      theme,
		Logger:     a.logger,
		Width:      width,
		Height:     height,
		StartLevel: start,
	}
	if store != nil {
		cfg.Progress = store
	}
	return tui.Run(cfg)
}
