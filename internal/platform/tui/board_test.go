package tui

import (
	"errors"
	"testing"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
)

const (
	R = core.ColorRed
	B = core.ColorBlue
)

// smallLevel is solved by 0->2, 1->0, 1->2.
func smallLevel() core.Level {
	return core.NewLevel(1, 2, []core.Bottle{{R, B}, {B, R}, {}})
}

// clashLevel has room in bottle 1 but its top colour differs from bottle 0.
func clashLevel() core.Level {
	return core.NewLevel(1, 3, []core.Bottle{{R, B}, {B, R}, {}})
}

func TestBoardSelectAndPour(t *testing.T) {
	b := NewBoard(smallLevel())

	if _, err := b.Select(); err != nil {
		t.Fatalf("pick: %v", err)
	}
	if b.Selected() != 0 {
		t.Fatalf("expected bottle 0 picked, got %d", b.Selected())
	}

	b.SetCursor(2)
	moved, err := b.Select()
	if err != nil {
		t.Fatalf("pour: %v", err)
	}
	if moved != 1 {
		t.Errorf("expected 1 unit moved, got %d", moved)
	}
	if b.Selected() != -1 {
		t.Errorf("selection should clear after a pour")
	}
	if b.Moves() != 1 {
		t.Errorf("expected 1 move, got %d", b.Moves())
	}
	if got := b.State().Bottles[2]; len(got) != 1 || got[0] != B {
		t.Errorf("bottle 2 = %v, want [blue]", got)
	}
}

func TestBoardPickEmptyAndDeselect(t *testing.T) {
	b := NewBoard(smallLevel())

	b.SetCursor(2)
	b.Select()
	if b.Selected() != -1 {
		t.Errorf("picking an empty bottle should do nothing")
	}

	b.SetCursor(0)
	b.Select()
	b.Select()
	if b.Selected() != -1 {
		t.Errorf("selecting the picked bottle again should clear the selection")
	}
	if b.Moves() != 0 {
		t.Errorf("no pour expected, got %d moves", b.Moves())
	}
}

func TestBoardIllegalPourKeepsState(t *testing.T) {
	tests := []struct {
		name   string
		level  core.Level
		reason string
	}{
		{"color clash", clashLevel(), core.ReasonColorClash},
		{"destination full", smallLevel(), core.ReasonDestFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard(tt.level)
			before := b.State().Key()

			b.SetCursor(0)
			b.Select()
			b.SetCursor(1)
			_, err := b.Select()

			var illegal *core.IllegalMoveError
			if !errors.As(err, &illegal) {
				t.Fatalf("expected IllegalMoveError, got %v", err)
			}
			if illegal.Reason != tt.reason {
				t.Errorf("reason = %q, want %q", illegal.Reason, tt.reason)
			}
			if b.State().Key() != before {
				t.Errorf("state changed after an illegal pour")
			}
			if b.Selected() != -1 {
				t.Errorf("selection should clear after a rejected pour")
			}
			if b.Moves() != 0 {
				t.Errorf("illegal pour counted as a move")
			}
		})
	}
}

func TestBoardUndoRestart(t *testing.T) {
	b := NewBoard(smallLevel())
	start := b.State().Key()

	if b.Undo() {
		t.Errorf("undo on a fresh board should report false")
	}

	if _, err := b.Pour(0, 2); err != nil {
		t.Fatal(err)
	}
	afterFirst := b.State().Key()
	if _, err := b.Pour(1, 0); err != nil {
		t.Fatal(err)
	}

	if !b.Undo() {
		t.Fatal("undo should succeed")
	}
	if b.State().Key() != afterFirst || b.Moves() != 1 {
		t.Errorf("undo did not restore the previous state")
	}

	b.Restart()
	if b.State().Key() != start || b.Moves() != 0 {
		t.Errorf("restart did not restore the starting layout")
	}
}

func TestBoardSolvedStopsInput(t *testing.T) {
	b := NewBoard(smallLevel())
	for _, m := range []core.Move{{From: 0, To: 2}, {From: 1, To: 0}, {From: 1, To: 2}} {
		if _, err := b.Pour(m.From, m.To); err != nil {
			t.Fatalf("pour %v: %v", m, err)
		}
	}
	if !b.Solved() {
		t.Fatal("level should be solved")
	}

	b.SetCursor(0)
	b.Select()
	if b.Selected() != -1 {
		t.Errorf("a solved board should ignore picks")
	}
}

func TestBoardCursorWraps(t *testing.T) {
	b := NewBoard(smallLevel())
	b.MoveCursor(-1)
	if b.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", b.Cursor())
	}
	b.MoveCursor(1)
	if b.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", b.Cursor())
	}
	if b.SetCursor(3) {
		t.Errorf("SetCursor out of range should fail")
	}
}

func TestBoardHint(t *testing.T) {
	b := NewBoard(smallLevel())
	if !b.RequestHint() {
		t.Fatal("expected a hint")
	}
	hint, ok := b.Hint()
	if !ok || hint != (core.Move{From: 0, To: 2}) {
		t.Errorf("hint = %v, want 0->2", hint)
	}
	if b.Cursor() != 0 {
		t.Errorf("cursor should move to the hint source")
	}

	b.Pour(0, 2)
	if _, ok := b.Hint(); ok {
		t.Errorf("a pour should clear the hint")
	}
}
