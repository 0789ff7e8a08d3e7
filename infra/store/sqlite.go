package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/microgrid/core/export"
)

// SQLiteStore persists run summaries and ledger cells to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    scenario TEXT,
    mode TEXT,
    start_ts INTEGER,
    covered INTEGER,
    summary TEXT
);
CREATE TABLE IF NOT EXISTS ledger (
    run_id TEXT,
    step INTEGER,
    ts INTEGER,
    column_name TEXT,
    value REAL,
    PRIMARY KEY (run_id, step, column_name)
);`

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Export writes the summary and every ledger cell in one transaction.
func (s *SQLiteStore) Export(ctx context.Context, run *export.Run) (err error) {
	sum, err := json.Marshal(run.Summary)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	covered := 0
	if run.Summary.SystemCovered {
		covered = 1
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (run_id, scenario, mode, start_ts, covered, summary) VALUES (?, ?, ?, ?, ?, ?)`,
		run.Summary.RunID, run.Summary.Scenario, run.Summary.Mode, run.Summary.Start.Unix(), covered, string(sum)); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO ledger (run_id, step, ts, column_name, value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range stepRecords(run) {
		for name, v := range r.Values {
			if _, err = stmt.ExecContext(ctx, r.RunID, r.Step, r.Time.Unix(), name, v); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Query returns step records matching q ordered by run and step.
func (s *SQLiteStore) Query(ctx context.Context, q StepQuery) ([]StepRecord, error) {
	var args []any
	query := `SELECT l.run_id, r.scenario, l.step, l.ts, l.column_name, l.value
        FROM ledger l JOIN runs r ON r.run_id = l.run_id WHERE 1=1`
	if q.RunID != "" {
		query += ` AND l.run_id = ?`
		args = append(args, q.RunID)
	}
	if !q.Start.IsZero() {
		query += ` AND l.ts >= ?`
		args = append(args, q.Start.Unix())
	}
	if !q.End.IsZero() {
		query += ` AND l.ts <= ?`
		args = append(args, q.End.Unix())
	}
	query += ` ORDER BY l.run_id, l.step`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []StepRecord
	for rows.Next() {
		var (
			runID, scenario, name string
			step                  int
			ts                    int64
			v                     float64
		)
		if err := rows.Scan(&runID, &scenario, &step, &ts, &name, &v); err != nil {
			return nil, err
		}
		if n := len(res); n == 0 || res[n-1].RunID != runID || res[n-1].Step != step {
			res = append(res, StepRecord{
				RunID:    runID,
				Scenario: scenario,
				Step:     step,
				Time:     unixUTC(ts),
				Values:   map[string]float64{},
			})
		}
		res[len(res)-1].Values[name] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Summary returns the stored summary of a run.
func (s *SQLiteStore) Summary(ctx context.Context, runID string) (export.Summary, error) {
	var data string
	var sum export.Summary
	err := s.db.QueryRowContext(ctx, `SELECT summary FROM runs WHERE run_id = ?`, runID).Scan(&data)
	if err != nil {
		return sum, err
	}
	if err := json.Unmarshal([]byte(data), &sum); err != nil {
		return sum, fmt.Errorf("unmarshal summary: %w", err)
	}
	return sum, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
