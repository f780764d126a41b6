// Package journal persists a run log in a local SQLite database so past
// agent runs and workflow invocations can be reviewed from the CLI.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one journal record.
type Entry struct {
	ID        int64          `json:"id"`
	Kind      string         `json:"kind"` // e.g. "agent_run", "docs_run", "research"
	AgentID   string         `json:"agent_id,omitempty"`
	Summary   string         `json:"summary"`
	Detail    map[string]any `json:"detail,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Store writes and reads journal entries. A nil Store is a valid no-op, so
// callers do not branch on whether journaling is configured.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS journal (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    kind       TEXT NOT NULL,
    agent_id   TEXT NOT NULL DEFAULT '',
    summary    TEXT NOT NULL,
    detail     TEXT NOT NULL DEFAULT '{}',
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS journal_created_at ON journal (created_at);
`

// Open creates or opens the journal database at path. An empty path disables
// journaling and returns a nil Store.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("journal: create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Record appends an entry. Nil stores drop the entry silently.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if s == nil {
		return nil
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	detail := "{}"
	if len(entry.Detail) > 0 {
		data, err := json.Marshal(entry.Detail)
		if err != nil {
			return fmt.Errorf("journal: encode detail: %w", err)
		}
		detail = string(data)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO journal (kind, agent_id, summary, detail, created_at) VALUES (?, ?, ?, ?, ?)`,
		entry.Kind, entry.AgentID, entry.Summary, detail, entry.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("journal: record: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. Nil stores return nothing.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if s == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, agent_id, summary, detail, created_at FROM journal ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var detail, createdAt string
		if err := rows.Scan(&entry.ID, &entry.Kind, &entry.AgentID, &entry.Summary, &detail, &createdAt); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		if detail != "" && detail != "{}" {
			_ = json.Unmarshal([]byte(detail), &entry.Detail)
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			entry.CreatedAt = ts
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Close releases the database. Safe on nil stores.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}
