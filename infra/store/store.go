// Package store persists dispatch runs: step records as rotating JSONL or in
// SQLite, and ledgers as CSV.
package store

import (
	"context"
	"time"

	"github.com/kilianp07/microgrid/core/export"
)

// StepRecord is one ledger row of a run.
type StepRecord struct {
	RunID    string             `json:"run_id"`
	Scenario string             `json:"scenario,omitempty"`
	Step     int                `json:"step"`
	Time     time.Time          `json:"time"`
	Values   map[string]float64 `json:"values"`
}

// StepQuery defines filters for retrieving records.
type StepQuery struct {
	RunID string
	Start time.Time
	End   time.Time
}

func (q StepQuery) match(r StepRecord) bool {
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	if !q.Start.IsZero() && r.Time.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Time.After(q.End) {
		return false
	}
	return true
}

// StepStore persists step records and supports querying.
type StepStore interface {
	export.ResultSink
	Query(ctx context.Context, q StepQuery) ([]StepRecord, error)
	Close() error
}

// stepRecords flattens a run into one record per step.
func stepRecords(run *export.Run) []StepRecord {
	l := run.Ledger
	if l == nil {
		return nil
	}
	recs := make([]StepRecord, 0, l.Len())
	for step := 0; step < l.Len(); step++ {
		row := l.Row(step)
		recs = append(recs, StepRecord{
			RunID:    run.Summary.RunID,
			Scenario: run.Summary.Scenario,
			Step:     row.Step,
			Time:     row.Time,
			Values:   row.Values,
		})
	}
	return recs
}
