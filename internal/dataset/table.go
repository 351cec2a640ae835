package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies what a single cell holds.
type Kind int

const (
	KindMissing Kind = iota
	KindFloat
	KindString
	KindBool
	KindTime
)

// Value is one cell of a table column. The zero value is a missing cell.
type Value struct {
	kind Kind
	f    float64
	s    string
	b    bool
	t    time.Time
}

// Missing is the canonical missing cell.
var Missing = Value{}

func Float(v float64) Value     { return Value{kind: KindFloat, f: v} }
func String(s string) Value     { return Value{kind: KindString, s: s} }
func Bool(b bool) Value         { return Value{kind: KindBool, b: b} }
func Time(t time.Time) Value    { return Value{kind: KindTime, t: t} }
func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float64 returns the numeric reading of the cell. Bool cells read as 0/1.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Str returns the string content for string cells.
func (v Value) Str() (string, bool) {
	if v.kind == KindString {
		return v.s, true
	}
	return "", false
}

// Timestamp returns the time content for time cells.
func (v Value) Timestamp() (time.Time, bool) {
	if v.kind == KindTime {
		return v.t, true
	}
	return time.Time{}, false
}

// Format renders the cell for CSV output and categorical keys.
// Missing cells render as the empty string.
func (v Value) Format() string {
	switch v.kind {
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTime:
		return v.t.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Equal reports cell equality, used for duplicate-row detection.
// Two missing cells compare equal; NaN floats compare equal to each other.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindFloat:
		if math.IsNaN(v.f) && math.IsNaN(o.f) {
			return true
		}
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindBool:
		return v.b == o.b
	case KindTime:
		return v.t.Equal(o.t)
	default:
		return true
	}
}

// Column is a named, ordered sequence of cells.
type Column struct {
	Name  string
	Cells []Value
}

// Kind reports the column-level kind: KindFloat when every non-missing cell is
// numeric (float or bool), KindTime when every non-missing cell is a time, and
// KindString otherwise. All-missing columns report KindMissing.
func (c *Column) Kind() Kind {
	seen := KindMissing
	for _, v := range c.Cells {
		if v.IsMissing() {
			continue
		}
		k := v.kind
		if k == KindBool {
			k = KindFloat
		}
		if seen == KindMissing {
			seen = k
			continue
		}
		if seen != k {
			return KindString
		}
	}
	return seen
}

// IsNumeric reports whether the column holds numeric values.
func (c *Column) IsNumeric() bool { return c.Kind() == KindFloat }

// Floats extracts the non-missing numeric values in row order.
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, len(c.Cells))
	for _, v := range c.Cells {
		if f, ok := v.Float64(); ok {
			out = append(out, f)
		}
	}
	return out
}

// MissingCount counts missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Cells {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

// DistinctNonMissing counts distinct non-missing values by formatted key.
func (c *Column) DistinctNonMissing() int {
	seen := make(map[string]struct{})
	for _, v := range c.Cells {
		if v.IsMissing() {
			continue
		}
		seen[v.Format()] = struct{}{}
	}
	return len(seen)
}

// Table is an ordered collection of equally sized named columns.
type Table struct {
	cols  []*Column
	index map[string]int
}

// New returns an empty table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// NumRows returns the row count (0 for an empty table).
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Cells)
}

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// ColumnNames returns names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or nil if absent.
func (t *Table) Column(name string) *Column {
	if i, ok := t.index[name]; ok {
		return t.cols[i]
	}
	return nil
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Columns returns the underlying columns in table order.
func (t *Table) Columns() []*Column { return t.cols }

// AddColumn appends a column. The cell count must match existing columns and
// the name must be unique.
func (t *Table) AddColumn(name string, cells []Value) error {
	if _, ok := t.index[name]; ok {
		return fmt.Errorf("column %q already exists", name)
	}
	if len(t.cols) > 0 && len(cells) != t.NumRows() {
		return fmt.Errorf("column %q has %d cells, table has %d rows", name, len(cells), t.NumRows())
	}
	t.index[name] = len(t.cols)
	t.cols = append(t.cols, &Column{Name: name, Cells: cells})
	return nil
}

// DropColumn removes the named column if present.
func (t *Table) DropColumn(name string) {
	i, ok := t.index[name]
	if !ok {
		return
	}
	t.cols = append(t.cols[:i], t.cols[i+1:]...)
	delete(t.index, name)
	for j := i; j < len(t.cols); j++ {
		t.index[t.cols[j].Name] = j
	}
}

// Copy deep-copies the table. Transforming stages operate on copies so the
// source table is never mutated in place.
func (t *Table) Copy() *Table {
	out := New()
	for _, c := range t.cols {
		cells := make([]Value, len(c.Cells))
		copy(cells, c.Cells)
		_ = out.AddColumn(c.Name, cells)
	}
	return out
}

// Select returns a new table with only the named columns, in the given order.
// Unknown names are skipped.
func (t *Table) Select(names []string) *Table {
	out := New()
	for _, name := range names {
		c := t.Column(name)
		if c == nil {
			continue
		}
		cells := make([]Value, len(c.Cells))
		copy(cells, c.Cells)
		_ = out.AddColumn(c.Name, cells)
	}
	return out
}

// NumericColumnNames returns names of numeric columns in table order.
func (t *Table) NumericColumnNames() []string {
	var names []string
	for _, c := range t.cols {
		if c.IsNumeric() {
			names = append(names, c.Name)
		}
	}
	return names
}

// DuplicateRows counts rows that are exact duplicates of an earlier row
// across every column.
func (t *Table) DuplicateRows() int {
	rows := t.NumRows()
	if rows == 0 {
		return 0
	}
	seen := make(map[string]struct{}, rows)
	dups := 0
	var b strings.Builder
	for i := 0; i < rows; i++ {
		b.Reset()
		for _, c := range t.cols {
			b.WriteString(c.Cells[i].Format())
			b.WriteByte('\x1f')
			b.WriteByte(byte(c.Cells[i].kind))
			b.WriteByte('\x1e')
		}
		key := b.String()
		if _, ok := seen[key]; ok {
			dups++
		} else {
			seen[key] = struct{}{}
		}
	}
	return dups
}

// EstimateMemoryMB estimates the deep in-memory footprint in megabytes.
func (t *Table) EstimateMemoryMB() float64 {
	var bytes int
	for _, c := range t.cols {
		bytes += len(c.Name)
		for _, v := range c.Cells {
			// struct overhead plus string payload
			bytes += 48 + len(v.s)
		}
	}
	return float64(bytes) / (1024 * 1024)
}

// Validate checks basic structure: at least minRows rows, all required columns
// present, and at least one column. Failures are reported via the boolean
// return so the caller decides whether to proceed.
func (t *Table) Validate(minRows int, required []string) (bool, string) {
	if t == nil || len(t.cols) == 0 {
		return false, "table has no columns"
	}
	if t.NumRows() < minRows {
		return false, fmt.Sprintf("table has fewer than %d rows", minRows)
	}
	var missing []string
	for _, name := range required {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return false, fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return true, ""
}
