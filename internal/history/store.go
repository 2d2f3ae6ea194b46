// Package history keeps a local archive of completed turns so past
// exchanges survive across CLI runs without another server round trip.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/storychat/storychat/internal/chat"
)

// Store archives turns per lesson in a local SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the archive at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_journal=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS turns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lesson_id INTEGER NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		flagged INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_turns_lesson ON turns(lesson_id, id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveTurn appends one turn to the lesson's archive.
func (s *Store) SaveTurn(ctx context.Context, lessonID int64, turn chat.Turn) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (lesson_id, role, content, flagged, created_at) VALUES (?, ?, ?, ?, ?)`,
		lessonID, string(turn.Role), turn.Content, turn.Flagged, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("archive turn: %w", err)
	}
	return nil
}

// Recent returns up to n of the latest turns for a lesson, oldest first.
func (s *Store) Recent(ctx context.Context, lessonID int64, n int) ([]chat.Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, flagged FROM turns
		 WHERE lesson_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		lessonID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []chat.Turn
	for rows.Next() {
		var turn chat.Turn
		var role string
		if err := rows.Scan(&role, &turn.Content, &turn.Flagged); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turn.Role = chat.Role(role)
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	// Reverse into chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
