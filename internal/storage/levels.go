package storage

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
	"github.com/vovakirdan/watersort/internal/games/watersort/levels/formats"
)

// SaveLevels replaces the stored catalogue snapshot with levels.
func (s *Store) SaveLevels(levels []core.Level) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM levels"); err != nil {
		return fmt.Errorf("storage: cannot clear levels: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO levels (id, capacity, bottles, verified) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("storage: cannot prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range levels {
		bottles, err := json.Marshal(formats.FromLevel(l).Bottles)
		if err != nil {
			return fmt.Errorf("storage: cannot encode level %d: %w", l.ID, err)
		}
		if _, err := stmt.Exec(l.ID, l.Capacity, string(bottles), l.Verified); err != nil {
			return fmt.Errorf("storage: cannot save level %d: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit levels: %w", err)
	}
	return nil
}

// LoadLevels returns the stored catalogue ordered by id.
func (s *Store) LoadLevels() ([]core.Level, error) {
	rows, err := s.db.Query("SELECT id, capacity, bottles, verified FROM levels ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query levels: %w", err)
	}
	defer rows.Close()

	var out []core.Level
	for rows.Next() {
		var r formats.Record
		var bottles string
		if err := rows.Scan(&r.LevelID, &r.Capacity, &bottles, &r.Verified); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if err := json.Unmarshal([]byte(bottles), &r.Bottles); err != nil {
			return nil, fmt.Errorf("storage: cannot decode level %d: %w", r.LevelID, err)
		}
		l, err := r.ToLevel()
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		out = append(out, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// LevelCount returns the number of stored levels.
func (s *Store) LevelCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM levels").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count levels: %w", err)
	}
	return n, nil
}
