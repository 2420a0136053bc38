// Package history records harness runs in a SQLite database.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"modelcheck/pkg/types"
)

//go:embed schema.sql
var schema string

// DefaultLimit is used by List when limit <= 0.
const DefaultLimit = 20

// Store persists run summaries and their failures.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Record stores one run and its failures in a single transaction.
func (s *Store) Record(ctx context.Context, rep types.RunReport) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("history is not configured")
	}
	if rep.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, status, started_at, finished_at, models, formats) VALUES (?, ?, ?, ?, ?, ?)`,
		rep.RunID, rep.Status, toMillis(rep.StartedAt), toMillis(rep.FinishedAt), rep.Models, strings.Join(rep.Formats, ","),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for i, f := range rep.Failures {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO failures (run_id, seq, phase, key, label, format, path, kind, message) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rep.RunID, i, f.Phase, f.Key, f.Label, f.Format, f.Path, f.Kind, f.Message,
		); err != nil {
			return fmt.Errorf("insert failure %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// List returns up to limit runs, most recent first.
func (s *Store) List(ctx context.Context, limit int) ([]types.RunSummary, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("history is not configured")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT r.run_id, r.status, r.started_at, r.finished_at, r.models, r.formats,
		        (SELECT COUNT(*) FROM failures f WHERE f.run_id = r.run_id)
		   FROM runs r
		  ORDER BY r.started_at DESC, r.rowid DESC
		  LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []types.RunSummary
	for rows.Next() {
		var (
			sum               types.RunSummary
			started, finished int64
		)
		if err := rows.Scan(&sum.RunID, &sum.Status, &started, &finished, &sum.Models, &sum.Formats, &sum.Failures); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		sum.StartedAt = fromMillis(started)
		sum.FinishedAt = fromMillis(finished)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Failures returns the recorded failures of one run in step order.
// An unknown run id yields an empty slice.
func (s *Store) Failures(ctx context.Context, runID string) ([]types.FailureReport, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("history is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT phase, key, label, format, path, kind, message FROM failures WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	defer rows.Close()

	out := []types.FailureReport{}
	for rows.Next() {
		var f types.FailureReport
		if err := rows.Scan(&f.Phase, &f.Key, &f.Label, &f.Format, &f.Path, &f.Kind, &f.Message); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
