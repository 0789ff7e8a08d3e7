// Package ledger holds the per-step, per-component record of power produced
// by a dispatch run.
package ledger

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/microgrid/core/horizon"
)

// Role classifies a column. Only power columns take part in the balance of a
// step; trace columns carry auxiliary per-step state such as SOC.
type Role int

const (
	RolePower Role = iota
	RoleTrace
)

// Column describes one ledger column.
type Column struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Role Role   `json:"role"`
}

// Ledger is a fixed-size table with one row per horizon step. Columns are
// registered once, zero-initialised for every step, then filled in place.
type Ledger struct {
	h       horizon.Horizon
	columns []Column
	index   map[string]int
	values  [][]float64
}

// New returns an empty ledger sized for h.
func New(h horizon.Horizon) *Ledger {
	return &Ledger{h: h, index: make(map[string]int)}
}

// Register appends a column. Registration order is preserved by every
// accessor and by exporters.
func (l *Ledger) Register(c Column) error {
	if c.Name == "" {
		return fmt.Errorf("ledger: column name is required")
	}
	if _, ok := l.index[c.Name]; ok {
		return fmt.Errorf("ledger: column %q already registered", c.Name)
	}
	l.index[c.Name] = len(l.columns)
	l.columns = append(l.columns, c)
	l.values = append(l.values, make([]float64, l.h.Len()))
	return nil
}

// Horizon returns the time grid of the ledger.
func (l *Ledger) Horizon() horizon.Horizon { return l.h }

// Len returns the number of rows.
func (l *Ledger) Len() int { return l.h.Len() }

// Columns returns the registered columns in registration order.
func (l *Ledger) Columns() []Column {
	return append([]Column(nil), l.columns...)
}

// Has reports whether name is a registered column.
func (l *Ledger) Has(name string) bool {
	_, ok := l.index[name]
	return ok
}

func (l *Ledger) cell(name string, step int) (*float64, bool) {
	i, ok := l.index[name]
	if !ok || step < 0 || step >= l.h.Len() {
		return nil, false
	}
	return &l.values[i][step], true
}

// Set overwrites the value of column name at step.
func (l *Ledger) Set(name string, step int, v float64) {
	if c, ok := l.cell(name, step); ok {
		*c = v
	}
}

// Add accumulates v into column name at step.
func (l *Ledger) Add(name string, step int, v float64) {
	if c, ok := l.cell(name, step); ok {
		*c += v
	}
}

// Get returns the value of column name at step, zero when unknown.
func (l *Ledger) Get(name string, step int) float64 {
	if c, ok := l.cell(name, step); ok {
		return *c
	}
	return 0
}

// Column returns a copy of the values of column name.
func (l *Ledger) Column(name string) []float64 {
	i, ok := l.index[name]
	if !ok {
		return nil
	}
	return append([]float64(nil), l.values[i]...)
}

// Row is one step of the ledger.
type Row struct {
	Step   int                `json:"step"`
	Time   time.Time          `json:"time"`
	Values map[string]float64 `json:"values"`
}

// Row returns step as a Row.
func (l *Ledger) Row(step int) Row {
	r := Row{Step: step, Time: l.h.At(step), Values: make(map[string]float64, len(l.columns))}
	for i, c := range l.columns {
		r.Values[c.Name] = l.values[i][step]
	}
	return r
}

// StepSum returns the sum of all power columns at step.
func (l *Ledger) StepSum(step int) float64 {
	var sum float64
	for i, c := range l.columns {
		if c.Role == RolePower {
			sum += l.values[i][step]
		}
	}
	return sum
}

// Equal reports whether both ledgers have the same columns and bit-identical values.
func (l *Ledger) Equal(o *Ledger) bool {
	if len(l.columns) != len(o.columns) || l.h != o.h {
		return false
	}
	for i, c := range l.columns {
		if o.columns[i] != c {
			return false
		}
		if !floats.Same(l.values[i], o.values[i]) {
			return false
		}
	}
	return true
}
