package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
	"github.com/vovakirdan/watersort/internal/platform/tui"
)

var (
	flagSolveBudget int
	flagSolveSteps  bool
)

var solveCmd = &cobra.Command{
	Use:   "solve <level>",
	Short: "Run the greedy solver on a level",
	Long: `Run the greedy solver on a catalogue level and print its moves.

The solver is a fast heuristic: when it gives up the level may still be
solvable.

Examples:
  watersort solve 1
  watersort solve 80 --budget 500
  watersort solve 12 --steps`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().IntVar(&flagSolveBudget, "budget", 0, "Iteration budget (default: generator.solver_budget)")
	solveCmd.Flags().BoolVar(&flagSolveSteps, "steps", false, "Print the board after every move")
}

func runSolve(_ *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid level %q", args[0])
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

	l, err := provider.Level(id)
	if err != nil {
		return err
	}

	params := a.cfg.GenParams().Solver
	if flagSolveBudget > 0 {
		params.Budget = flagSolveBudget
	}
	res := core.Solve(l, params)

	fmt.Printf("Level %d (%s), capacity %d\n", l.ID, a.curve.BandName(l.ID), l.Capacity)
	fmt.Print(tui.RenderPlain(l))
	fmt.Println()

	state := l
	for i, m := range res.Moves {
		fmt.Printf("%3d. %d -> %d\n", i+1, m.From+1, m.To+1)
		if flagSolveSteps {
			state, _, err = core.Pour(state, m.From, m.To)
			if err != nil {
				return err
			}
			fmt.Print(tui.RenderPlain(state))
		}
	}

	if res.Solved {
		fmt.Printf("\nSolved in %d moves\n", len(res.Moves))
	} else {
		fmt.Printf("\nSolver gave up after %d moves; the level may still be solvable\n", res.Iterations)
		fmt.Print(tui.RenderPlain(res.Final))
	}
	return nil
}
