// Package formats provides pluggable level catalogue codecs.
package formats

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
)

// Record is one catalogue entry as stored on disk.
// Bottles hold colour tokens bottom first.
type Record struct {
	LevelID  int        `json:"level_id" yaml:"level_id"`
	Bottles  [][]string `json:"bottles" yaml:"bottles"`
	Capacity int        `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	Verified bool       `json:"verified,omitempty" yaml:"verified,omitempty"`
}

// Document is a whole catalogue keyed by the decimal level id.
type Document map[string]Record

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".json", ".yaml", ".yml"}
}

// FromLevel converts a level to its on-disk record.
func FromLevel(l core.Level) Record {
	r := Record{
		LevelID:  l.ID,
		Bottles:  make([][]string, len(l.Bottles)),
		Capacity: l.Capacity,
		Verified: l.Verified,
	}
	for i, b := range l.Bottles {
		tokens := make([]string, len(b))
		for j, c := range b {
			tokens[j] = c.String()
		}
		r.Bottles[i] = tokens
	}
	return r
}

// ToLevel converts a record back to a level. Unknown tokens are an error.
func (r Record) ToLevel() (core.Level, error) {
	bottles := make([]core.Bottle, len(r.Bottles))
	for i, tokens := range r.Bottles {
		b := make(core.Bottle, len(tokens))
		for j, tok := range tokens {
			c, ok := core.ParseColor(tok)
			if !ok {
				return core.Level{}, fmt.Errorf("level %d bottle %d: unknown color %q", r.LevelID, i, tok)
			}
			b[j] = c
		}
		bottles[i] = b
	}
	l := core.NewLevel(r.LevelID, r.Capacity, bottles)
	l.Verified = r.Verified
	return l, nil
}

// FromLevels builds a document from levels.
func FromLevels(levels []core.Level) Document {
	doc := make(Document, len(levels))
	for _, l := range levels {
		doc[strconv.Itoa(l.ID)] = FromLevel(l)
	}
	return doc
}

// Levels decodes every record, sorted by id.
// A record without level_id takes its id from the map key.
func (d Document) Levels() ([]core.Level, error) {
	levels := make([]core.Level, 0, len(d))
	for key, r := range d {
		if r.LevelID == 0 {
			id, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("level key %q: %w", key, err)
			}
			r.LevelID = id
		}
		l, err := r.ToLevel()
		if err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})
	return levels, nil
}
