package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/watersort/internal/multiplayer"
)

// RoomResult is a persisted finished room.
type RoomResult struct {
	ID           int64
	RoomID       string
	LevelID      int
	WinnerID     string
	WinnerName   string
	WinnerMoves  int
	Players      []multiplayer.PlayerView
	DurationSecs int
	CreatedAt    time.Time
}

// SaveRoomResult implements multiplayer.ResultSaver.
// This adapter allows the room manager to save results without direct storage dependency.
func (s *Store) SaveRoomResult(data multiplayer.RoomResult) error {
	players, err := json.Marshal(data.Players)
	if err != nil {
		return fmt.Errorf("storage: cannot encode players: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO room_results
		 (room_id, level_id, winner_id, winner_name, winner_moves, players, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(data.RoomID),
		data.LevelID,
		string(data.WinnerID),
		data.WinnerName,
		data.WinnerMoves,
		string(players),
		data.DurationSecs,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save room result: %w", err)
	}
	return nil
}

// Ensure Store implements ResultSaver
var _ multiplayer.ResultSaver = (*Store)(nil)

// RoomResultByID retrieves a finished room. Returns nil if it was never saved.
func (s *Store) RoomResultByID(roomID string) (*RoomResult, error) {
	row := s.db.QueryRow(
		`SELECT id, room_id, level_id, winner_id, winner_name, winner_moves, players, duration_secs, created_at
		 FROM room_results
		 WHERE room_id = ?`,
		roomID,
	)
	result, err := scanRoomResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RecentRoomResults returns the most recent finished rooms, optionally for
// one level (levelID > 0).
func (s *Store) RecentRoomResults(levelID, limit int) ([]RoomResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, room_id, level_id, winner_id, winner_name, winner_moves, players, duration_secs, created_at
		 FROM room_results
		 WHERE ? = 0 OR level_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		levelID, levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query room results: %w", err)
	}
	defer rows.Close()

	var results []RoomResult
	for rows.Next() {
		result, err := scanRoomResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRoomResult(row scanner) (RoomResult, error) {
	var result RoomResult
	var players string
	var createdAt any

	err := row.Scan(
		&result.ID,
		&result.RoomID,
		&result.LevelID,
		&result.WinnerID,
		&result.WinnerName,
		&result.WinnerMoves,
		&players,
		&result.DurationSecs,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return result, err
	}
	if err != nil {
		return result, fmt.Errorf("storage: cannot scan row: %w", err)
	}

	if err := json.Unmarshal([]byte(players), &result.Players); err != nil {
		return result, fmt.Errorf("storage: cannot decode players: %w", err)
	}
	result.CreatedAt = parseTime(createdAt)
	return result, nil
}
