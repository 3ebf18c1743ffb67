// Package levels provides the level catalogue for Water Sort.
// This package depends on core but core does not depend on levels.
package levels

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
)

// ErrNotFound is returned when a level id is outside the catalogue.
var ErrNotFound = errors.New("level not found")

// Provider serves template levels by id.
// Returned levels are independent copies; callers may mutate them freely.
type Provider interface {
	Level(id int) (core.Level, error)
	IDs() []int
}

// Catalogue is a fixed set of levels keyed by id.
type Catalogue struct {
	levels map[int]core.Level
	ids    []int
}

// NewCatalogue builds a catalogue. A later level with a duplicate id replaces
// the earlier one.
func NewCatalogue(levels []core.Level) *Catalogue {
	c := &Catalogue{levels: make(map[int]core.Level, len(levels))}
	for _, l := range levels {
		if _, dup := c.levels[l.ID]; !dup {
			c.ids = append(c.ids, l.ID)
		}
		c.levels[l.ID] = l.Clone()
	}
	sort.Ints(c.ids)
	return c
}

// Level returns a copy of the level with the given id.
func (c *Catalogue) Level(id int) (core.Level, error) {
	l, ok := c.levels[id]
	if !ok {
		return core.Level{}, fmt.Errorf("level %d: %w", id, ErrNotFound)
	}
	return l.Clone(), nil
}

// IDs returns all level ids in ascending order.
func (c *Catalogue) IDs() []int {
	out := make([]int, len(c.ids))
	copy(out, c.ids)
	return out
}

// Len returns the number of levels.
func (c *Catalogue) Len() int {
	return len(c.ids)
}

// Levels returns copies of all levels ordered by id.
func (c *Catalogue) Levels() []core.Level {
	out := make([]core.Level, len(c.ids))
	for i, id := range c.ids {
		out[i] = c.levels[id].Clone()
	}
	return out
}
