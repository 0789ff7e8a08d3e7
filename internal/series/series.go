// Package series loads per-step input profiles (load, renewable output,
// blackout flags) either inline from configuration or from CSV files, and
// aligns them to a simulation horizon.
package series

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/microgrid/core/horizon"
)

// ErrLength is returned when a series does not cover the horizon.
var ErrLength = errors.New("series length does not match horizon")

// Source describes where a series comes from. Exactly one of Values,
// Constant or File must be set.
type Source struct {
	Values   []float64 `json:"values"`
	Constant *float64  `json:"constant"`
	// File is a CSV with a header row. When a "time" column is present rows
	// are aligned on timestamps, otherwise they are taken positionally.
	File   string `json:"file"`
	Column string `json:"column"`
	// Scale multiplies every value; zero means 1.
	Scale float64 `json:"scale"`
	// Repeat tiles a shorter profile (e.g. one day) over the horizon.
	Repeat bool `json:"repeat"`
}

// IsZero reports whether no source is configured.
func (s Source) IsZero() bool {
	return len(s.Values) == 0 && s.Constant == nil && s.File == ""
}

// Validate checks that exactly one origin is set.
func (s Source) Validate() error {
	n := 0
	if len(s.Values) > 0 {
		n++
	}
	if s.Constant != nil {
		n++
	}
	if s.File != "" {
		n++
	}
	switch {
	case n == 0:
		return errors.New("series: one of values, constant or file is required")
	case n > 1:
		return errors.New("series: values, constant and file are mutually exclusive")
	}
	if s.Scale < 0 {
		return fmt.Errorf("series: negative scale %v", s.Scale)
	}
	return nil
}

// Load resolves src into exactly h.Len() values.
func Load(src Source, h horizon.Horizon) ([]float64, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	var (
		raw []float64
		err error
	)
	switch {
	case src.Constant != nil:
		raw = make([]float64, h.Len())
		for i := range raw {
			raw[i] = *src.Constant
		}
	case src.File != "":
		raw, err = ReadFile(src.File, src.Column, h)
		if err != nil {
			return nil, err
		}
	default:
		raw = append([]float64(nil), src.Values...)
	}
	for i, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("series: non-finite value %v at index %d", v, i)
		}
	}
	out, err := fit(raw, h.Len(), src.Repeat)
	if err != nil {
		return nil, err
	}
	if src.Scale != 0 && src.Scale != 1 {
		for i := range out {
			out[i] *= src.Scale
		}
	}
	return out, nil
}

// LoadFlags resolves src into per-step booleans; any non-zero value is true.
func LoadFlags(src Source, h horizon.Horizon) ([]bool, error) {
	values, err := Load(src, h)
	if err != nil {
		return nil, err
	}
	flags := make([]bool, len(values))
	for i, v := range values {
		flags[i] = v != 0
	}
	return flags, nil
}

func fit(raw []float64, n int, repeat bool) ([]float64, error) {
	switch {
	case len(raw) == n:
		return raw, nil
	case repeat && len(raw) > 0:
		out := make([]float64, n)
		for i := range out {
			out[i] = raw[i%len(raw)]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: got %d values for %d steps", ErrLength, len(raw), n)
	}
}

// ReadFile opens path and parses it with Read.
func ReadFile(path, column string, h horizon.Horizon) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	values, err := Read(f, column, h)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return values, nil
}

// Read parses a CSV series. The value column is column, or the first column
// that is not "time" when column is empty. With a time column, rows outside
// h are skipped and every step of h must be present; without one the values
// are returned in file order.
func Read(r io.Reader, column string, h horizon.Horizon) ([]float64, error) {
	rdr := csv.NewReader(r)
	rdr.TrimLeadingSpace = true
	records, err := rdr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.New("csv needs a header and at least one row")
	}
	timeCol, valueCol := -1, -1
	for i, name := range records[0] {
		name = strings.ToLower(strings.TrimSpace(name))
		switch {
		case name == "time" || name == "timestamp":
			timeCol = i
		case column != "" && name == strings.ToLower(column):
			valueCol = i
		case column == "" && valueCol == -1:
			valueCol = i
		}
	}
	if valueCol == -1 {
		if column == "" {
			return nil, errors.New("no value column")
		}
		return nil, fmt.Errorf("column %q not found", column)
	}

	if timeCol == -1 {
		out := make([]float64, 0, len(records)-1)
		for i, rec := range records[1:] {
			v, err := parseValue(rec[valueCol])
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+2, err)
			}
			out = append(out, v)
		}
		return out, nil
	}

	out := make([]float64, h.Len())
	seen := make([]bool, h.Len())
	for i, rec := range records[1:] {
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(rec[timeCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		idx, ok := h.Index(ts)
		if !ok {
			continue
		}
		v, err := parseValue(rec[valueCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out[idx] = v
		seen[idx] = true
	}
	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("%w: no value for %s", ErrLength, h.At(i).Format(time.RFC3339))
		}
	}
	return out, nil
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "true":
		return 1, nil
	case "false", "":
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}
