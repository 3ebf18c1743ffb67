package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// Progress is a player's single-player record.
type Progress struct {
	Player    string      `json:"player"`
	LastLevel int         `json:"last_level"`
	BestMoves map[int]int `json:"best_moves"` // level id -> fewest moves
}

// Completed reports whether the player has finished a level.
func (p Progress) Completed(levelID int) bool {
	_, ok := p.BestMoves[levelID]
	return ok
}

// CompleteLevel records a finished level, keeps the fewest moves and moves
// the player on to the next level.
func (s *Store) CompleteLevel(player string, levelID, moves int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO progress (player, level_id, best_moves) VALUES (?, ?, ?)
		 ON CONFLICT(player, level_id) DO UPDATE SET
		   best_moves = MIN(best_moves, excluded.best_moves),
		   completions = completions + 1,
		   updated_at = CURRENT_TIMESTAMP`,
		player, levelID, moves,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save progress: %w", err)
	}

	if err := setLastLevel(tx, player, levelID+1); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit progress: %w", err)
	}
	return nil
}

// SetCurrentLevel records the level the player is on.
func (s *Store) SetCurrentLevel(player string, levelID int) error {
	return setLastLevel(s.db, player, levelID)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func setLastLevel(db execer, player string, levelID int) error {
	_, err := db.Exec(
		`INSERT INTO players (player, last_level) VALUES (?, ?)
		 ON CONFLICT(player) DO UPDATE SET last_level = excluded.last_level, updated_at = CURRENT_TIMESTAMP`,
		player, levelID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save last level: %w", err)
	}
	return nil
}

// LoadProgress returns a player's progress. Unknown players start at level 1
// with nothing completed.
func (s *Store) LoadProgress(player string) (Progress, error) {
	p := Progress{Player: player, LastLevel: 1, BestMoves: make(map[int]int)}

	err := s.db.QueryRow("SELECT last_level FROM players WHERE player = ?", player).Scan(&p.LastLevel)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Progress{}, fmt.Errorf("storage: cannot query player: %w", err)
	}

	rows, err := s.db.Query("SELECT level_id, best_moves FROM progress WHERE player = ?", player)
	if err != nil {
		return Progress{}, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var levelID, moves int
		if err := rows.Scan(&levelID, &moves); err != nil {
			return Progress{}, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		p.BestMoves[levelID] = moves
	}

	if err := rows.Err(); err != nil {
		return Progress{}, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return p, nil
}

// ResetProgress deletes everything recorded for a player.
func (s *Store) ResetProgress(player string) error {
	if _, err := s.db.Exec("DELETE FROM progress WHERE player = ?", player); err != nil {
		return fmt.Errorf("storage: cannot clear progress: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM players WHERE player = ?", player); err != nil {
		return fmt.Errorf("storage: cannot clear player: %w", err)
	}
	return nil
}
