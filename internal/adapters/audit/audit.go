// Package audit keeps a trail of configuration cell writes.
package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("audit log closed")

// Outcomes of a cell write.
const (
	Applied = "applied"
	Failed  = "failed"
)

// Entry is one attempted cell write.
type Entry struct {
	ID      string    `json:"id"`
	Batch   string    `json:"batch"`
	Table   string    `json:"table"`
	Entity  string    `json:"entity"`
	Field   string    `json:"field"`
	Cell    string    `json:"cell"`
	Value   string    `json:"value"`
	Outcome string    `json:"outcome"`
	Error   string    `json:"error,omitempty"`
	At      time.Time `json:"at"`
}

// Recorder stores and lists entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// NewBatch returns an id grouping the writes of one commit.
func NewBatch() string { return uuid.NewString() }

// Open returns a SQLite recorder at path, or a no-op recorder when path
// is empty.
func Open(ctx context.Context, path string) (Recorder, error) {
	if path == "" {
		return Nop{}, nil
	}
	return OpenSQLite(ctx, path)
}

// Nop discards entries.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Entry) error { return nil }

// Recent implements Recorder.
func (Nop) Recent(context.Context, int) ([]Entry, error) { return []Entry{}, nil }

// Close implements Recorder.
func (Nop) Close() error { return nil }

const schema = `
CREATE TABLE IF NOT EXISTS config_writes (
	id       TEXT PRIMARY KEY,
	batch    TEXT NOT NULL,
	tbl      TEXT NOT NULL,
	entity   TEXT NOT NULL,
	field    TEXT NOT NULL,
	cell     TEXT NOT NULL,
	value    TEXT NOT NULL,
	outcome  TEXT NOT NULL,
	error    TEXT NOT NULL DEFAULT '',
	at       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS config_writes_at ON config_writes(at);
`

// SQLite stores entries in a SQLite database.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLite{db: db, now: time.Now}, nil
}

// Record implements Recorder. Missing ids and timestamps are filled in.
func (s *SQLite) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO config_writes (id, batch, tbl, entity, field, cell, value, outcome, error, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Batch, e.Table, e.Entity, e.Field, e.Cell, e.Value, e.Outcome, e.Error, e.At.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// Recent implements Recorder, newest first.
func (s *SQLite) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, batch, tbl, entity, field, cell, value, outcome, error, at
		 FROM config_writes ORDER BY at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		var at int64
		if err := rows.Scan(&e.ID, &e.Batch, &e.Table, &e.Entity, &e.Field, &e.Cell, &e.Value, &e.Outcome, &e.Error, &at); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.At = time.UnixMilli(at).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close implements Recorder.
func (s *SQLite) Close() error {
	if s.db == nil {
		return ErrClosed
	}
	err := s.db.Close()
	s.db = nil
	return err
}
