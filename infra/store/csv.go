package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kilianp07/microgrid/core/export"
	"github.com/kilianp07/microgrid/core/ledger"
)

// WriteLedgerCSV writes one row per step: index, timestamp, then every
// ledger column in registration order.
func WriteLedgerCSV(w io.Writer, l *ledger.Ledger) error {
	cw := csv.NewWriter(w)
	cols := l.Columns()
	header := make([]string, 0, len(cols)+2)
	header = append(header, "step", "time")
	for _, c := range cols {
		header = append(header, c.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	h := l.Horizon()
	for step := 0; step < l.Len(); step++ {
		rec := make([]string, 0, len(header))
		rec = append(rec, strconv.Itoa(step), h.At(step).Format(time.RFC3339))
		for _, c := range cols {
			rec = append(rec, fmtFloat(l.Get(c.Name, step)))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

// CSVSink writes each run's ledger to <dir>/<run_id>.csv.
type CSVSink struct {
	dir string
}

// NewCSVSink creates dir if needed.
func NewCSVSink(dir string) (*CSVSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("csv sink: dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &CSVSink{dir: dir}, nil
}

// Path returns the file a run is written to.
func (s *CSVSink) Path(runID string) string {
	return filepath.Join(s.dir, runID+".csv")
}

// Export writes the run's ledger.
func (s *CSVSink) Export(ctx context.Context, run *export.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if run.Ledger == nil {
		return nil
	}
	f, err := os.Create(s.Path(run.Summary.RunID))
	if err != nil {
		return err
	}
	if err := WriteLedgerCSV(f, run.Ledger); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func unixUTC(ts int64) time.Time { return time.Unix(ts, 0).UTC() }
