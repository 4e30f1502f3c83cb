package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"chkexport/internal/config"
)

// Store persists run and invocation history backed by SQLite. It is purely
// observability: skip decisions always come from the plain-text ledger.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database in the log directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
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

	store := &Store{db: db, path: dbPath}
	if err := store.applySchema(context.Background()); err != nil {
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

func (s *Store) applySchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Counts summarizes one run's outcome.
type Counts struct {
	Discovered int
	Processed  int
	Skipped    int
	Failed     int
	Changed    int
}

// Run is one recorded batch run.
type Run struct {
	ID         string
	InputPath  string
	StartedAt  time.Time
	FinishedAt time.Time
	Finished   bool
	Counts     Counts
}

// BeginRun inserts the run row before processing starts.
func (s *Store) BeginRun(ctx context.Context, id, inputPath string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, input_path, started_at) VALUES (?, ?, ?)`,
		id,
		inputPath,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordInvocation appends one attempted (non-skipped) input's outcome.
func (s *Store) RecordInvocation(ctx context.Context, runID, sourcePath string, exitCode int, duration time.Duration, succeeded bool) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO invocations (run_id, source_path, exit_code, duration_ms, succeeded, recorded_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		runID,
		sourcePath,
		exitCode,
		float64(duration.Microseconds())/1000.0,
		boolToInt(succeeded),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert invocation: %w", err)
	}
	return nil
}

// FinishRun stamps the run row with its final counters.
func (s *Store) FinishRun(ctx context.Context, id string, counts Counts) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET finished_at = ?, discovered = ?, processed = ?, skipped = ?, failed = ?, changed = ?
         WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		counts.Discovered,
		counts.Processed,
		counts.Skipped,
		counts.Failed,
		counts.Changed,
		id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run: unknown run id %q", id)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, input_path, started_at, finished_at, discovered, processed, skipped, failed, changed
         FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			startedAt  string
			finishedAt sql.NullString
		)
		if err := rows.Scan(
			&run.ID,
			&run.InputPath,
			&startedAt,
			&finishedAt,
			&run.Counts.Discovered,
			&run.Counts.Processed,
			&run.Counts.Skipped,
			&run.Counts.Failed,
			&run.Counts.Changed,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if finishedAt.Valid && finishedAt.String != "" {
			run.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parse finished_at: %w", err)
			}
			run.Finished = true
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// InvocationCount returns the number of invocation rows recorded for a run.
func (s *Store) InvocationCount(ctx context.Context, runID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM invocations WHERE run_id = ?`,
		runID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count invocations: %w", err)
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
