// Package store records pipeline run history in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	video_path     TEXT NOT NULL,
	status         TEXT NOT NULL,
	stage_failures TEXT NOT NULL DEFAULT '{}',
	error          TEXT NOT NULL DEFAULT '',
	started_at     INTEGER NOT NULL,
	finished_at    INTEGER
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
`

const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Run is one recorded pipeline invocation. StageFailures maps stage names to
// truncated error messages; an empty map means a clean run.
type Run struct {
	ID            string            `json:"id"`
	VideoPath     string            `json:"video_path"`
	Status        string            `json:"status"`
	StageFailures map[string]string `json:"stage_failures"`
	Error         string            `json:"error,omitempty"`
	StartedAt     time.Time         `json:"started_at"`
	FinishedAt    *time.Time        `json:"finished_at,omitempty"`
}

type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the run database under dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "runs.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{db: db, path: dbPath}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// StartRun records a run in the running state.
func (s *Store) StartRun(ctx context.Context, id, videoPath string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, video_path, status, started_at) VALUES (?, ?, ?, ?)`,
		id, videoPath, StatusRunning, startedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun marks a run done or failed and records its stage failures.
func (s *Store) FinishRun(ctx context.Context, id, status string, stageFailures map[string]string, runErr string, finishedAt time.Time) error {
	if stageFailures == nil {
		stageFailures = map[string]string{}
	}
	fb, err := json.Marshal(stageFailures)
	if err != nil {
		return fmt.Errorf("marshal stage failures: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, stage_failures = ?, error = ?, finished_at = ? WHERE id = ?`,
		status, string(fb), runErr, finishedAt.UnixMilli(), id,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, video_path, status, stage_failures, error, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r        Run
			failures string
			started  int64
			finished sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.VideoPath, &r.Status, &failures, &r.Error, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(failures), &r.StageFailures); err != nil {
			r.StageFailures = map[string]string{}
		}
		r.StartedAt = time.UnixMilli(started)
		if finished.Valid {
			t := time.UnixMilli(finished.Int64)
			r.FinishedAt = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
