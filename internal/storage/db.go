package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"inventox/internal"
)

// DB is the run ledger: one row per preparer run, successful or not.
type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL UNIQUE,
  input TEXT NOT NULL,
  spreadsheet TEXT,
  csv TEXT,
  status TEXT NOT NULL,
  error TEXT,
  countsJson TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_input ON runs(input);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertRun(run internal.RunRecord) error {
	countsJSON, _ := json.Marshal(run.Counts)
	timingsJSON, _ := json.Marshal(run.Timings)
	_, err := d.conn.Exec(`
INSERT INTO runs (runId, input, spreadsheet, csv, status, error, countsJson, timingsJson)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, run.ID, run.Input, nullable(run.Spreadsheet), nullable(run.CSV), run.Status, nullable(run.Error), string(countsJSON), string(timingsJSON))
	return err
}

// ListRuns returns up to limit runs, most recent first.
func (d *DB) ListRuns(limit int) ([]internal.RunRecord, error) {
	rows, err := d.conn.Query(`
SELECT runId, input, spreadsheet, csv, status, error, countsJson, timingsJson, createdAt
FROM runs ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (d *DB) GetRun(runID string) (*internal.RunRecord, error) {
	row := d.conn.QueryRow(`
SELECT runId, input, spreadsheet, csv, status, error, countsJson, timingsJson, createdAt
FROM runs WHERE runId = ?
`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (internal.RunRecord, error) {
	var run internal.RunRecord
	var spreadsheet, csvPath, errMsg sql.NullString
	var countsJSON, timingsJSON string
	if err := s.Scan(&run.ID, &run.Input, &spreadsheet, &csvPath, &run.Status, &errMsg, &countsJSON, &timingsJSON, &run.CreatedAt); err != nil {
		return internal.RunRecord{}, err
	}
	run.Spreadsheet = spreadsheet.String
	run.CSV = csvPath.String
	run.Error = errMsg.String
	_ = json.Unmarshal([]byte(countsJSON), &run.Counts)
	_ = json.Unmarshal([]byte(timingsJSON), &run.Timings)
	return run, nil
}

func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
