package trace

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// ErrRunNotFound is returned when a run token has no row in the store.
var ErrRunNotFound = errors.New("trace: run not found")

// Store is a SQLite-backed run log. It persists run metadata and trace
// events; it never persists the engine's graph.
type Store struct {
	db *sql.DB
}

// RunInfo summarizes one logged run.
type RunInfo struct {
	Token     string `json:"token"`
	Scenario  string `json:"scenario"`
	Ticks     int    `json:"ticks"`
	CreatedAt string `json:"created_at"`
}

// Open creates or opens a SQLite run log at the given path and applies
// pragmas and the schema. Use ":memory:" for tests.
//
// The database is configured for a single writer:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout
//   - foreign key enforcement
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect run log: %w", err)
	}

	// SQLite supports one writer at a time; a second connection would
	// only buy SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply run log schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun inserts a run and its events in one transaction. Recording
// the same token twice is idempotent: the second write is silently
// ignored rather than duplicated.
func (s *Store) RecordRun(ctx context.Context, snap *Snapshot, ticks int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (token, scenario, ticks)
		VALUES (?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`, snap.Token, snap.Scenario, ticks)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Token already recorded; keep the original log.
		return nil
	}

	for _, e := range snap.Events {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO events (run_token, seq, tick, type, step)
			VALUES (?, ?, ?, ?, ?)
		`, snap.Token, e.Seq, e.Tick, string(e.Type), e.Step); err != nil {
			return fmt.Errorf("record event seq %d: %w", e.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record run: commit: %w", err)
	}
	return nil
}

// ReadRun returns the snapshot for a run token, events ordered by seq.
// Unknown tokens report ErrRunNotFound.
func (s *Store) ReadRun(ctx context.Context, token string) (*Snapshot, error) {
	var scenario string
	err := s.db.QueryRowContext(ctx, `
		SELECT scenario FROM runs WHERE token = ?
	`, token).Scan(&scenario)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, token)
	}
	if err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, tick, type, step
		FROM events
		WHERE run_token = ?
		ORDER BY seq ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("read run events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var e Event
		var typ string
		if err := rows.Scan(&e.Seq, &e.Tick, &typ, &e.Step); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Type = EventType(typ)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return &Snapshot{Scenario: scenario, Token: token, Events: events}, nil
}

// ListRuns returns every logged run, most recent token order last.
func (s *Store) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, scenario, ticks, created_at
		FROM runs
		ORDER BY created_at ASC, token ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []RunInfo{}
	for rows.Next() {
		var r RunInfo
		if err := rows.Scan(&r.Token, &r.Scenario, &r.Ticks, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
