// Package storage provides SQLite-based persistence for the level catalogue,
// finished multiplayer rooms and single-player progress.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/watersort/internal/config"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// busyTimeout lets concurrent writers (HTTP handlers, SSH sessions and the
// room result saver) wait for the lock instead of failing with SQLITE_BUSY.
const busyTimeout = "5000"

// Open opens the database at dbPath, creating it and its directory on first
// use, and brings the schema up to date.
func Open(dbPath string) (*Store, error) {
	dbPath = config.ExpandHome(dbPath)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout("+busyTimeout+")&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", dbPath, err)
	}

	store := &Store{db: db}
	if err := store.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	const schema = `
		CREATE TABLE IF NOT EXISTS levels (
			id INTEGER PRIMARY KEY,
			capacity INTEGER NOT NULL,
			bottles TEXT NOT NULL,
			verified INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS room_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			room_id TEXT NOT NULL UNIQUE,
			level_id INTEGER NOT NULL,
			winner_id TEXT NOT NULL,
			winner_name TEXT NOT NULL,
			winner_moves INTEGER NOT NULL DEFAULT 0,
			players TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_room_results_level ON room_results(level_id);

		CREATE TABLE IF NOT EXISTS progress (
			player TEXT NOT NULL,
			level_id INTEGER NOT NULL,
			best_moves INTEGER NOT NULL,
			completions INTEGER NOT NULL DEFAULT 1,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (player, level_id)
		);

		CREATE TABLE IF NOT EXISTS players (
			player TEXT PRIMARY KEY,
			last_level INTEGER NOT NULL DEFAULT 1,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping() error {
	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("storage: ping: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string values returned by the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
