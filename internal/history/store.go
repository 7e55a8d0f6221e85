// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records scraping runs in a SQLite database so earlier
// outcomes can be listed without re-reading log files.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/inscrap/pkg/types"
)

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path, creating its parent
// directory and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			input TEXT NOT NULL,
			kind TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			started TEXT NOT NULL,
			finished TEXT NOT NULL,
			targets INTEGER NOT NULL,
			missing INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS targets (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			identifier INTEGER NOT NULL,
			page_url TEXT NOT NULL,
			found INTEGER NOT NULL,
			fetch_error TEXT,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			identifier INTEGER NOT NULL,
			url TEXT NOT NULL,
			path TEXT NOT NULL,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_targets_identifier ON targets(identifier)`,
		`CREATE INDEX IF NOT EXISTS idx_files_run_id ON files(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a finished run with its per-target outcomes and download
// attempts, and returns the new run id.
func (s *Store) Record(ctx context.Context, outDir string, res types.RunResult) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	r, err := tx.ExecContext(ctx,
		`INSERT INTO runs (input, kind, output_dir, started, finished, targets, missing)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.Targets.Input, string(res.Targets.Kind), outDir,
		res.Started.UTC().Format(time.RFC3339Nano), res.Finished.UTC().Format(time.RFC3339Nano),
		len(res.Pages), len(res.Missing),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := r.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for i, p := range res.Pages {
		var fetchErr sql.NullString
		if p.FetchErr != nil {
			fetchErr = sql.NullString{String: p.FetchErr.Error(), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO targets (run_id, seq, identifier, page_url, found, fetch_error)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, i, int64(p.ID), p.PageURL, p.Found(), fetchErr,
		); err != nil {
			return 0, fmt.Errorf("inserting target %s: %w", p.ID, err)
		}

		for _, d := range p.Downloads {
			var dlErr sql.NullString
			if d.Err != nil {
				dlErr = sql.NullString{String: d.Err.Error(), Valid: true}
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO files (run_id, identifier, url, path, error) VALUES (?, ?, ?, ?, ?)`,
				runID, int64(p.ID), d.URL, d.Path, dlErr,
			); err != nil {
				return 0, fmt.Errorf("inserting file %s: %w", d.URL, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Run is a stored run summary.
type Run struct {
	ID        int64
	Input     string
	Kind      types.InputKind
	OutputDir string
	Started   time.Time
	Finished  time.Time
	Targets   int
	Missing   int
}

// Target is one stored per-identifier outcome.
type Target struct {
	ID         types.Identifier
	PageURL    string
	Found      bool
	FetchError string
	Files      []string
}

// Runs returns the most recent runs, newest first. limit <= 0 means 20.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input, kind, output_dir, started, finished, targets, missing
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var kind, started, finished string
		if err := rows.Scan(&r.ID, &r.Input, &kind, &r.OutputDir, &started, &finished, &r.Targets, &r.Missing); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Kind = types.InputKind(kind)
		r.Started, _ = time.Parse(time.RFC3339Nano, started)
		r.Finished, _ = time.Parse(time.RFC3339Nano, finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Targets returns the per-identifier outcomes of a run in processing order,
// each with the paths of the files it saved.
func (s *Store) Targets(ctx context.Context, runID int64) ([]Target, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT identifier, page_url, found, fetch_error FROM targets
		 WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying targets: %w", err)
	}
	defer rows.Close()

	var out []Target
	for rows.Next() {
		var t Target
		var id int64
		var fetchErr sql.NullString
		if err := rows.Scan(&id, &t.PageURL, &t.Found, &fetchErr); err != nil {
			return nil, fmt.Errorf("scanning target: %w", err)
		}
		t.ID = types.Identifier(id)
		t.FetchError = fetchErr.String
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	files, err := s.savedFiles(ctx, runID)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Files = files[out[i].ID]
	}
	return out, nil
}

func (s *Store) savedFiles(ctx context.Context, runID int64) (map[types.Identifier][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT identifier, path FROM files WHERE run_id = ? AND error IS NULL ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	files := make(map[types.Identifier][]string)
	for rows.Next() {
		var id int64
		var path string
		if err := rows.Scan(&id, &path); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		files[types.Identifier(id)] = append(files[types.Identifier(id)], path)
	}
	return files, rows.Err()
}
