package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    task_kind   TEXT NOT NULL,
    provider    TEXT NOT NULL DEFAULT '',
    model       TEXT NOT NULL DEFAULT '',
    reason      TEXT NOT NULL,
    success     INTEGER NOT NULL,
    error_kind  TEXT NOT NULL DEFAULT '',
    tokens_in   INTEGER NOT NULL DEFAULT 0,
    tokens_out  INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL,
    created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_runs_provider ON runs(provider);
`

// SQLiteStore persists runs in a SQLite database file.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) the database at path, enables WAL
// mode, and ensures the schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database %q: %w", path, err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	s := &SQLiteStore{
		db:     db,
		logger: slog.Default().With("component", "history.sqlite"),
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("history store initialized", "path", path)
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := s.db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Insert persists one run.
func (s *SQLiteStore) Insert(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, task_kind, provider, model, reason, success,
			error_kind, tokens_in, tokens_out, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.TaskKind, run.Provider, run.Model, run.Reason,
		boolToInt(run.Success), run.ErrorKind, run.TokensIn, run.TokensOut,
		run.Duration, run.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_kind, provider, model, reason, success,
			error_kind, tokens_in, tokens_out, duration_ms, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var success int
		if err := rows.Scan(&run.ID, &run.TaskKind, &run.Provider, &run.Model,
			&run.Reason, &success, &run.ErrorKind, &run.TokensIn,
			&run.TokensOut, &run.Duration, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Success = success != 0
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Prune deletes runs older than cutoff, then trims the table down to
// maxRecords keeping the newest rows.
func (s *SQLiteStore) Prune(ctx context.Context, cutoff time.Time, maxRecords int64) (int64, error) {
	var deleted int64

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune by age: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		deleted += n
	}

	if maxRecords > 0 {
		res, err = s.db.ExecContext(ctx, `
			DELETE FROM runs WHERE id NOT IN (
				SELECT id FROM runs ORDER BY created_at DESC LIMIT ?
			)`, maxRecords)
		if err != nil {
			return deleted, fmt.Errorf("failed to prune by count: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			deleted += n
		}
	}

	return deleted, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
