// Package core provides the puzzle state and move engine for the water sort game.
// This package is UI-agnostic and deterministic.
package core

import (
	"fmt"
	"strings"
)

// DefaultCapacity is the number of units a bottle holds unless a level says otherwise.
const DefaultCapacity = 4

// Bottle is an ordered stack of colour units, bottom first.
type Bottle []Color

// Len returns the number of units in the bottle.
func (b Bottle) Len() int {
	return len(b)
}

// IsEmpty returns true if the bottle holds no units.
func (b Bottle) IsEmpty() bool {
	return len(b) == 0
}

// Top returns the top unit. ok is false for an empty bottle.
func (b Bottle) Top() (c Color, ok bool) {
	if len(b) == 0 {
		return 0, false
	}
	return b[len(b)-1], true
}

// IsUniform returns true if every unit has the same colour.
// An empty bottle is uniform.
func (b Bottle) IsUniform() bool {
	for i := 1; i < len(b); i++ {
		if b[i] != b[0] {
			return false
		}
	}
	return true
}

// IsComplete returns true if the bottle is full and uniform.
func (b Bottle) IsComplete(capacity int) bool {
	return len(b) == capacity && b.IsUniform()
}

// TopRun returns the number of consecutive units on top sharing the top colour.
func (b Bottle) TopRun() int {
	top, ok := b.Top()
	if !ok {
		return 0
	}
	n := 0
	for i := len(b) - 1; i >= 0 && b[i] == top; i-- {
		n++
	}
	return n
}

// Clone returns an independent copy of the bottle.
func (b Bottle) Clone() Bottle {
	if b == nil {
		return Bottle{}
	}
	out := make(Bottle, len(b))
	copy(out, b)
	return out
}

// String renders the bottle as "[R B B]".
func (b Bottle) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteRune(c.Char())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Level is an ordered collection of bottles with a uniform capacity.
// A Level handed out by a catalogue is a template; play works on a Clone.
type Level struct {
	ID       int
	Capacity int
	Bottles  []Bottle
	Verified bool // solver demonstrated a solution when the level was generated
}

// NewLevel creates a level from bottles. Capacity <= 0 selects DefaultCapacity.
// The bottles are copied.
func NewLevel(id, capacity int, bottles []Bottle) Level {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	l := Level{ID: id, Capacity: capacity, Bottles: make([]Bottle, len(bottles))}
	for i, b := range bottles {
		l.Bottles[i] = b.Clone()
	}
	return l
}

// Clone returns a deep copy suitable for use as a working state.
func (l Level) Clone() Level {
	out := l
	out.Bottles = make([]Bottle, len(l.Bottles))
	for i, b := range l.Bottles {
		out.Bottles[i] = b.Clone()
	}
	return out
}

// NumBottles returns the number of bottles.
func (l Level) NumBottles() int {
	return len(l.Bottles)
}

// NumEmpty returns the number of empty bottles.
func (l Level) NumEmpty() int {
	n := 0
	for _, b := range l.Bottles {
		if b.IsEmpty() {
			n++
		}
	}
	return n
}

// NumColors returns the number of distinct colours present.
func (l Level) NumColors() int {
	return len(l.CountByColor())
}

// CountByColor returns the total number of units per colour.
func (l Level) CountByColor() map[Color]int {
	counts := make(map[Color]int)
	for _, b := range l.Bottles {
		for _, c := range b {
			counts[c]++
		}
	}
	return counts
}

// TotalUnits returns the number of units across all bottles.
func (l Level) TotalUnits() int {
	n := 0
	for _, b := range l.Bottles {
		n += len(b)
	}
	return n
}

// IsSolved returns true if every bottle is empty or complete.
// This is the single terminal-state predicate used by players and the solver.
func (l Level) IsSolved() bool {
	for _, b := range l.Bottles {
		if !b.IsEmpty() && !b.IsComplete(l.Capacity) {
			return false
		}
	}
	return true
}

// Key returns a canonical string for the bottle contents, usable as a map key.
func (l Level) Key() string {
	var sb strings.Builder
	sb.Grow(l.TotalUnits() + len(l.Bottles))
	for _, b := range l.Bottles {
		for _, c := range b {
			sb.WriteByte(byte('a' + c))
		}
		sb.WriteByte('|')
	}
	return sb.String()
}

// String renders the level on one line.
func (l Level) String() string {
	parts := make([]string, len(l.Bottles))
	for i, b := range l.Bottles {
		parts[i] = b.String()
	}
	return fmt.Sprintf("level %d (cap %d): %s", l.ID, l.Capacity, strings.Join(parts, " "))
}

// Move is a pour request from one bottle index to another.
type Move struct {
	From int `json:"from" yaml:"from"`
	To   int `json:"to" yaml:"to"`
}

// String returns "from->to".
func (m Move) String() string {
	return fmt.Sprintf("%d->%d", m.From, m.To)
}
