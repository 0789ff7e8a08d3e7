package series

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/microgrid/core/horizon"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func hours(t *testing.T, n int) horizon.Horizon {
	t.Helper()
	h, err := horizon.FromSteps(t0, time.Hour, n)
	require.NoError(t, err)
	return h
}

func TestLoadInline(t *testing.T) {
	got, err := Load(Source{Values: []float64{1, 2, 3}, Scale: 2}, hours(t, 3))
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4, 6}, got)
}

func TestLoadConstant(t *testing.T) {
	v := 7.5
	got, err := Load(Source{Constant: &v}, hours(t, 4))
	require.NoError(t, err)
	assert.Equal(t, []float64{7.5, 7.5, 7.5, 7.5}, got)
}

func TestLoadRepeat(t *testing.T) {
	got, err := Load(Source{Values: []float64{1, 2}, Repeat: true}, hours(t, 5))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 1, 2, 1}, got)
}

func TestLoadLengthMismatch(t *testing.T) {
	_, err := Load(Source{Values: []float64{1, 2}}, hours(t, 3))
	assert.ErrorIs(t, err, ErrLength)
}

func TestSourceValidate(t *testing.T) {
	v := 1.0
	assert.Error(t, Source{}.Validate())
	assert.Error(t, Source{Values: []float64{1}, Constant: &v}.Validate())
	assert.Error(t, Source{Values: []float64{1}, Scale: -1}.Validate())
	assert.NoError(t, Source{File: "x.csv"}.Validate())
	assert.True(t, Source{}.IsZero())
}

func TestReadPositional(t *testing.T) {
	csv := "load,pv\n10,1\n20,2\n30,3\n"
	got, err := Read(strings.NewReader(csv), "pv", hours(t, 3))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, got)

	got, err = Read(strings.NewReader(csv), "", hours(t, 3))
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30}, got)
}

func TestReadAlignsOnTime(t *testing.T) {
	csv := "time,load\n" +
		"2023-12-31T23:00:00Z,99\n" +
		"2024-01-01T01:00:00Z,20\n" +
		"2024-01-01T00:00:00Z,10\n" +
		"2024-01-01T02:00:00Z,30\n" +
		"2024-01-01T03:00:00Z,40\n"
	got, err := Read(strings.NewReader(csv), "load", hours(t, 3))
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30}, got)
}

func TestReadMissingStep(t *testing.T) {
	csv := "time,load\n2024-01-01T00:00:00Z,10\n2024-01-01T02:00:00Z,30\n"
	_, err := Read(strings.NewReader(csv), "load", hours(t, 3))
	assert.ErrorIs(t, err, ErrLength)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader("load\n"), "", hours(t, 1))
	assert.Error(t, err)
	_, err = Read(strings.NewReader("load\n1\n"), "pv", hours(t, 1))
	assert.Error(t, err)
	_, err = Read(strings.NewReader("load\nabc\n"), "", hours(t, 1))
	assert.Error(t, err)
}

func TestRejectsNonFinite(t *testing.T) {
	for _, v := range []string{"NaN", "Inf", "-inf"} {
		_, err := Read(strings.NewReader("load\n1\n"+v+"\n"), "", hours(t, 2))
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "row 3")
	}
	_, err := Read(strings.NewReader("time,load\n2024-01-01T00:00:00Z,nan\n"), "load", hours(t, 1))
	assert.ErrorContains(t, err, "row 2")

	_, err = Load(Source{Values: []float64{1, math.NaN()}}, hours(t, 2))
	assert.ErrorContains(t, err, "index 1")
	inf := math.Inf(1)
	_, err = Load(Source{Constant: &inf}, hours(t, 2))
	assert.Error(t, err)
}

func TestLoadFlagsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blackout.csv")
	require.NoError(t, os.WriteFile(path, []byte("blackout\nfalse\ntrue\n0\n1\n"), 0o644))
	got, err := LoadFlags(Source{File: path}, hours(t, 4))
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, false, true}, got)
}
