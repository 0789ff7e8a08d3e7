package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLedgerCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLedgerCSV(&buf, testRun(t, "r1").Ledger))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"step", "time", "pv", "grid"}, rows[0])
	assert.Equal(t, []string{"2", "2024-06-01T01:00:00Z", "3.000000", "7.000000"}, rows[3])
}

func TestCSVSink_Export(t *testing.T) {
	sink, err := NewCSVSink(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, sink.Export(context.Background(), testRun(t, "abc")))
	data, err := os.ReadFile(sink.Path("abc"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "step,time,pv,grid")

	_, err = NewCSVSink("")
	assert.Error(t, err)
}
