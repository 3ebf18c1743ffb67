package core

// DefaultSolverBudget is the iteration limit used when SolverParams.Budget is zero.
const DefaultSolverBudget = 200

// SolverParams configures the greedy solver.
type SolverParams struct {
	Budget int // Maximum iterations (moves) before giving up
}

// DefaultSolverParams returns the standard solver settings.
func DefaultSolverParams() SolverParams {
	return SolverParams{Budget: DefaultSolverBudget}
}

// SolveResult is the outcome of a solver run.
// Solved is false when the heuristic got stuck or ran out of budget; that
// says nothing about whether the level is solvable.
type SolveResult struct {
	Moves      []Move
	Final      Level
	Solved     bool
	Iterations int
}

// Solve runs the greedy solver on a copy of the level.
// Each iteration applies exactly one move chosen by fixed priority:
//  1. finish a bottle that is one unit short of complete,
//  2. move a mixed bottle's top run into an empty bottle,
//  3. stack onto a non-empty bottle with the same top colour.
//
// Ties go to the lowest source index, then the lowest destination index.
// Complete bottles are never poured out, and a move leading back to a state
// already seen in this run is skipped.
func Solve(l Level, p SolverParams) SolveResult {
	budget := p.Budget
	if budget <= 0 {
		budget = DefaultSolverBudget
	}

	state := l.Clone()
	seen := map[string]bool{state.Key(): true}
	result := SolveResult{Moves: []Move{}}

	for result.Iterations < budget && !state.IsSolved() {
		move, next, ok := nextMove(state, seen)
		if !ok {
			break
		}
		state = next
		seen[state.Key()] = true
		result.Moves = append(result.Moves, move)
		result.Iterations++
	}

	result.Final = state
	result.Solved = state.IsSolved()
	return result
}

// Hint returns the move the solver would play first.
// ok is false if the level is already solved or no rule applies.
func Hint(l Level) (Move, bool) {
	if l.IsSolved() {
		return Move{}, false
	}
	seen := map[string]bool{l.Key(): true}
	move, _, ok := nextMove(l, seen)
	return move, ok
}

// moveRule decides whether a legal pour qualifies for a priority tier.
type moveRule func(l Level, from, to int) bool

var solverRules = []moveRule{
	finishesBottle,
	relocatesToEmpty,
	stacksSameColor,
}

// nextMove scans the rules in priority order and returns the first candidate
// whose resulting state is new.
func nextMove(l Level, seen map[string]bool) (Move, Level, bool) {
	for _, rule := range solverRules {
		for from := range l.Bottles {
			if l.Bottles[from].IsComplete(l.Capacity) {
				continue
			}
			for to := range l.Bottles {
				if !CanPour(l, from, to) || !rule(l, from, to) {
					continue
				}
				next, _, err := Pour(l, from, to)
				if err != nil || seen[next.Key()] {
					continue
				}
				return Move{From: from, To: to}, next, true
			}
		}
	}
	return Move{}, Level{}, false
}

// finishesBottle matches when the destination holds capacity-1 units of the
// source's top colour.
func finishesBottle(l Level, from, to int) bool {
	dst := l.Bottles[to]
	if dst.IsEmpty() || len(dst) != l.Capacity-1 || !dst.IsUniform() {
		return false
	}
	srcTop, _ := l.Bottles[from].Top()
	dstTop, _ := dst.Top()
	return srcTop == dstTop
}

// relocatesToEmpty matches a mixed source poured into an empty destination.
func relocatesToEmpty(l Level, from, to int) bool {
	return l.Bottles[to].IsEmpty() && !l.Bottles[from].IsUniform()
}

// stacksSameColor matches a pour onto a non-empty destination.
// CanPour already guarantees the tops are equal.
func stacksSameColor(l Level, _, to int) bool {
	return !l.Bottles[to].IsEmpty()
}
