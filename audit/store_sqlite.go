// Package audit persists a history of tool invocations so operators can see
// what ran, when, and how it ended.
package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const storeSchema = `
CREATE TABLE IF NOT EXISTS tool_invocations (
	id TEXT PRIMARY KEY,
	tool_name TEXT NOT NULL,
	success INTEGER NOT NULL,
	error_code TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL,
	started_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tool_invocations_started_at
	ON tool_invocations (started_at);`

const (
	defaultStoreDir = ".remodern"
	defaultStoreDB  = "remodern.db"
)

// Entry is one recorded invocation.
type Entry struct {
	ID         string
	ToolName   string
	Success    bool
	ErrorCode  string
	DurationMS int64
	StartedAt  time.Time
}

// StoreConfig configures the SQLite-backed invocation store.
type StoreConfig struct {
	DSN string
}

// Store persists invocation entries in SQLite.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the default SQLite path under the user's home.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("audit: resolve user home: %w", err)
	}
	return filepath.Join(home, defaultStoreDir, defaultStoreDB), nil
}

// NewStore opens (or creates) a SQLite-backed invocation store.
func NewStore(cfg StoreConfig) (*Store, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, errors.New("audit: store dsn is required")
	}
	if dir := filepath.Dir(cfg.DSN); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("audit: create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("audit: store open: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("audit: store set WAL mode: %w", err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("audit: store create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record inserts one invocation entry.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if s == nil || s.db == nil {
		return errors.New("audit: store is nil")
	}
	if strings.TrimSpace(entry.ID) == "" {
		return errors.New("audit: entry id is required")
	}
	if entry.StartedAt.IsZero() {
		entry.StartedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO tool_invocations (id, tool_name, success, error_code, duration_ms, started_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.ToolName,
		boolToInt(entry.Success),
		entry.ErrorCode,
		entry.DurationMS,
		entry.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("audit: record invocation: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("audit: store is nil")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, tool_name, success, error_code, duration_ms, started_at
FROM tool_invocations
ORDER BY started_at DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: list invocations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry      Entry
			successRaw int
			startedRaw string
		)
		if err := rows.Scan(&entry.ID, &entry.ToolName, &successRaw, &entry.ErrorCode, &entry.DurationMS, &startedRaw); err != nil {
			return nil, fmt.Errorf("audit: scan invocation: %w", err)
		}
		entry.Success = successRaw == 1
		startedAt, err := time.Parse(time.RFC3339Nano, startedRaw)
		if err != nil {
			return nil, fmt.Errorf("audit: parse started_at %q: %w", startedRaw, err)
		}
		entry.StartedAt = startedAt
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: iterate invocations: %w", err)
	}
	return entries, nil
}

// Prune deletes entries older than the cutoff and returns how many were
// removed.
func (s *Store) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("audit: store is nil")
	}

	result, err := s.db.ExecContext(ctx, `
DELETE FROM tool_invocations
WHERE started_at < ?`, olderThan.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("audit: prune invocations: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("audit: prune rows affected: %w", err)
	}
	return removed, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
