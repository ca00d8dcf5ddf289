// Package history persists a ledger of past runs in SQLite.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"vidshrink/internal/config"
	"vidshrink/internal/stats"
)

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one recorded invocation.
type Run struct {
	ID           string
	StartedAt    time.Time
	Elapsed      time.Duration
	SourceRoot   string
	DestRoot     string
	Format       string
	MaxDimension int
	Quality      int
	Discovered   int
	Encoded      int
	Failed       int
	SourceBytes  int64
	DestBytes    int64
	Cancelled    bool
}

// File is the outcome of one file within a run.
type File struct {
	Seq         int
	RelPath     string
	Outcome     string
	SourceBytes int64
	DestBytes   int64
	Error       string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond

	// timeLayout is fixed width so started_at sorts lexicographically.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// NewRunID returns a fresh identifier for a run.
func NewRunID() string {
	return uuid.NewString()
}

// FromStats converts a finished run into ledger rows.
func FromStats(id string, run config.Run, s stats.RunStatistics, results []stats.FileResult) (Run, []File) {
	rec := Run{
		ID:           id,
		StartedAt:    s.Started,
		Elapsed:      s.Elapsed,
		SourceRoot:   run.SourceRoot,
		DestRoot:     run.DestRoot,
		Format:       run.Format,
		MaxDimension: run.MaxDimension,
		Quality:      run.Quality,
		Discovered:   s.Discovered,
		Encoded:      s.Processed,
		Failed:       s.Failed,
		SourceBytes:  s.SourceBytes,
		DestBytes:    s.DestBytes,
		Cancelled:    s.Cancelled,
	}
	files := make([]File, 0, len(results))
	for i, r := range results {
		f := File{
			Seq:         i + 1,
			RelPath:     r.RelPath,
			Outcome:     string(r.Outcome),
			SourceBytes: r.SourceBytes,
			DestBytes:   r.DestBytes,
		}
		if r.Err != nil {
			f.Error = r.Err.Error()
		}
		files = append(files, f)
	}
	return rec, files
}

// OpenFromConfig opens the ledger at the configured state directory.
func OpenFromConfig(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureStateDir(); err != nil {
		return nil, err
	}
	return Open(cfg.HistoryPath())
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// RecordRun stores a run and its per-file outcomes in one transaction.
func (s *Store) RecordRun(ctx context.Context, run Run, files []File) error {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("record run: empty id")
	}
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin run tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		_, err = tx.ExecContext(ctx, `INSERT INTO runs (
			id, started_at, elapsed_ms, source_root, dest_root, format, max_dimension, quality,
			discovered, encoded, failed, source_bytes, dest_bytes, cancelled
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, run.StartedAt.UTC().Format(timeLayout), run.Elapsed.Milliseconds(),
			run.SourceRoot, run.DestRoot, run.Format, run.MaxDimension, run.Quality,
			run.Discovered, run.Encoded, run.Failed, run.SourceBytes, run.DestBytes, boolToInt(run.Cancelled),
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_files (
			run_id, seq, rel_path, outcome, source_bytes, dest_bytes, error
		) VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare file insert: %w", err)
		}
		defer stmt.Close()
		for _, f := range files {
			if _, err := stmt.ExecContext(ctx, run.ID, f.Seq, f.RelPath, f.Outcome, f.SourceBytes, f.DestBytes, f.Error); err != nil {
				return fmt.Errorf("insert file %s: %w", f.RelPath, err)
			}
		}
		return tx.Commit()
	})
}

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, started_at, elapsed_ms, source_root, dest_root, format, max_dimension, quality,
		discovered, encoded, failed, source_bytes, dest_bytes, cancelled
		FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			started   string
			elapsedMs int64
			cancelled int
		)
		if err := rows.Scan(&r.ID, &started, &elapsedMs, &r.SourceRoot, &r.DestRoot, &r.Format,
			&r.MaxDimension, &r.Quality, &r.Discovered, &r.Encoded, &r.Failed,
			&r.SourceBytes, &r.DestBytes, &cancelled); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parse started_at for run %s: %w", r.ID, err)
		}
		r.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		r.Cancelled = cancelled != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Files returns the per-file outcomes of a run in processing order.
func (s *Store) Files(ctx context.Context, runID string) ([]File, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT seq, rel_path, outcome, source_bytes, dest_bytes, error
		FROM run_files WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("list run files: %w", err)
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.Seq, &f.RelPath, &f.Outcome, &f.SourceBytes, &f.DestBytes, &f.Error); err != nil {
			return nil, fmt.Errorf("scan run file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := range busyRetryAttempts {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
