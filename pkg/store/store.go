// Package store keeps a history of analysis runs in SQLite.
//
// Each run stores the full report as JSON next to a few summary columns,
// so listing runs never decodes reports.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ranaumarnadeem/opentestability/pkg/errors"
	"github.com/ranaumarnadeem/opentestability/pkg/report"
)

// Store is a run history database.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Run is one stored analysis.
type Run struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	InputHash string         `json:"input_hash"`
	CreatedAt time.Time      `json:"created_at"`
	Summary   report.Summary `json:"summary"`

	// Report is only populated by GetRun.
	Report *report.Report `json:"report,omitempty"`
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	input_hash TEXT NOT NULL,
	created_at TEXT NOT NULL,
	summary_json TEXT NOT NULL,
	report_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_runs_hash ON runs(input_hash);
`

// Open opens or creates the database at path, creating its directory.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create store directory")
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open store %s", path)
	}
	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "enable WAL")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create tables")
	}
	return &Store{db: db, path: path, now: time.Now}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// SaveRun stores a report under a new random ID.
func (s *Store) SaveRun(ctx context.Context, name, inputHash string, r *report.Report) (Run, error) {
	summary, err := json.Marshal(r.Summary)
	if err != nil {
		return Run{}, errors.Wrap(errors.ErrCodeInternal, err, "encode summary")
	}
	body, err := json.Marshal(r)
	if err != nil {
		return Run{}, errors.Wrap(errors.ErrCodeInternal, err, "encode report")
	}

	run := Run{
		ID:        uuid.NewString(),
		Name:      name,
		InputHash: inputHash,
		CreatedAt: s.now().UTC(),
		Summary:   r.Summary,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, name, input_hash, created_at, summary_json, report_json) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Name, run.InputHash, run.CreatedAt.Format(time.RFC3339Nano), string(summary), string(body))
	if err != nil {
		return Run{}, errors.Wrap(errors.ErrCodeInternal, err, "insert run")
	}
	return run, nil
}

// ListRuns returns the newest runs first, at most limit of them. A
// non-positive limit returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, input_hash, created_at, summary_json FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run           Run
			created, summ string
		)
		if err := rows.Scan(&run.ID, &run.Name, &run.InputHash, &created, &summ); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "scan run")
		}
		if err := decodeRun(&run, created, summ); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list runs")
	}
	return runs, nil
}

// GetRun returns one run with its full report. An unknown ID is a
// NOT_FOUND error.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	var (
		run                 Run
		created, summ, body string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, input_hash, created_at, summary_json, report_json FROM runs WHERE id = ?`, id).
		Scan(&run.ID, &run.Name, &run.InputHash, &created, &summ, &body)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Run{}, errors.New(errors.ErrCodeNotFound, "run %s not found", id)
	}
	if err != nil {
		return Run{}, errors.Wrap(errors.ErrCodeInternal, err, "get run %s", id)
	}
	if err := decodeRun(&run, created, summ); err != nil {
		return Run{}, err
	}
	run.Report = new(report.Report)
	if err := json.Unmarshal([]byte(body), run.Report); err != nil {
		return Run{}, errors.Wrap(errors.ErrCodeFormat, err, "decode report of run %s", id)
	}
	return run, nil
}

func decodeRun(run *Run, created, summary string) error {
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFormat, err, "run %s timestamp", run.ID)
	}
	run.CreatedAt = t
	if err := json.Unmarshal([]byte(summary), &run.Summary); err != nil {
		return errors.Wrap(errors.ErrCodeFormat, err, "run %s summary", run.ID)
	}
	return nil
}
