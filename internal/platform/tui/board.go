package tui

import (
	"github.com/vovakirdan/watersort/internal/games/watersort/core"
)

// Board is the interactive state of one level: the working copy, a cursor,
// the picked source bottle and the undo history.
type Board struct {
	template core.Level
	state    core.Level
	history  []core.Level
	cursor   int
	selected int // -1 when nothing is picked
	hint     *core.Move
}

// NewBoard starts a fresh board on a copy of l.
func NewBoard(l core.Level) *Board {
	return &Board{
		template: l.Clone(),
		state:    l.Clone(),
		selected: -1,
	}
}

// State returns the current working state.
func (b *Board) State() core.Level { return b.state }

// LevelID returns the id of the level being played.
func (b *Board) LevelID() int { return b.template.ID }

// Moves returns the number of pours on the current line of play.
func (b *Board) Moves() int { return len(b.history) }

// Cursor returns the highlighted bottle.
func (b *Board) Cursor() int { return b.cursor }

// Selected returns the picked source bottle, or -1.
func (b *Board) Selected() int { return b.selected }

// Hint returns the last requested hint, if any.
func (b *Board) Hint() (core.Move, bool) {
	if b.hint == nil {
		return core.Move{}, false
	}
	return *b.hint, true
}

// Solved reports whether the working state is terminal.
func (b *Board) Solved() bool { return b.state.IsSolved() }

// MoveCursor shifts the cursor by delta, wrapping around.
func (b *Board) MoveCursor(delta int) {
	n := len(b.state.Bottles)
	if n == 0 {
		return
	}
	b.cursor = ((b.cursor+delta)%n + n) % n
}

// SetCursor moves the cursor to bottle i if it exists.
func (b *Board) SetCursor(i int) bool {
	if i < 0 || i >= len(b.state.Bottles) {
		return false
	}
	b.cursor = i
	return true
}

// Select picks the bottle under the cursor, or pours the picked bottle into
// it. Picking an empty bottle and selecting the picked bottle again both
// clear the selection. A rejected pour clears the selection, leaves the
// state unchanged and returns the *core.IllegalMoveError.
func (b *Board) Select() (moved int, err error) {
	if b.Solved() {
		return 0, nil
	}
	if b.selected < 0 {
		if !b.state.Bottles[b.cursor].IsEmpty() {
			b.selected = b.cursor
		}
		return 0, nil
	}
	if b.selected == b.cursor {
		b.selected = -1
		return 0, nil
	}

	from := b.selected
	b.selected = -1
	return b.Pour(from, b.cursor)
}

// Pour applies a pour directly.
func (b *Board) Pour(from, to int) (int, error) {
	next, moved, err := core.Pour(b.state, from, to)
	if err != nil {
		return 0, err
	}
	b.history = append(b.history, b.state)
	b.state = next
	b.hint = nil
	return moved, nil
}

// ClearSelection drops the picked bottle.
func (b *Board) ClearSelection() {
	b.selected = -1
}

// Undo reverts the last pour. It reports false when there is nothing to undo.
func (b *Board) Undo() bool {
	if len(b.history) == 0 {
		return false
	}
	b.state = b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]
	b.selected = -1
	b.hint = nil
	return true
}

// Restart returns to the starting layout.
func (b *Board) Restart() {
	b.state = b.template.Clone()
	b.history = nil
	b.selected = -1
	b.hint = nil
}

// RequestHint asks the solver for the next move and moves the cursor to its
// source. It reports false when the solver has no suggestion.
func (b *Board) RequestHint() bool {
	move, ok := core.Hint(b.state)
	if !ok {
		b.hint = nil
		return false
	}
	b.hint = &move
	b.cursor = move.From
	b.selected = -1
	return true
}
