// Package table provides the in-memory tabular data model shared by the
// pipeline stages: an ordered column list plus rows of typed scalar values.
//
// Tables are treated as immutable by convention. Stage functions build a new
// Table rather than mutating their input, so each stage can be tested in
// isolation and intermediate results can be inspected safely.
package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind discriminates the scalar variants a cell can hold.
type Kind int

const (
	// KindMissing is the zero Value: no data for this cell.
	KindMissing Kind = iota
	KindNumber
	KindText
	KindDate
)

// Value is a tagged scalar cell. The zero Value is Missing.
type Value struct {
	kind Kind
	num  float64
	text string
	date time.Time
}

// Missing returns the missing sentinel value.
func Missing() Value { return Value{} }

// Number wraps a float64.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text wraps a string.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Date wraps a calendar date. Time-of-day and location are normalized away
// so two Dates on the same calendar day always compare equal.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Kind reports which variant the value holds.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the value is the missing sentinel.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float returns the numeric payload. ok is false for non-number values.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Str returns the text payload. ok is false for non-text values.
func (v Value) Str() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// Time returns the date payload. ok is false for non-date values.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}
	return v.date, true
}

// Equal reports deep equality of two values.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindText:
		return v.text == o.text
	case KindDate:
		return v.date.Equal(o.date)
	default:
		return true
	}
}

// Key renders the value as a canonical string suitable for use as a map key.
// Distinct values of different kinds never collide.
func (v Value) Key() string {
	switch v.kind {
	case KindNumber:
		return "n:" + strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return "t:" + v.text
	case KindDate:
		return "d:" + v.date.Format("2006-01-02")
	default:
		return ""
	}
}

// String renders the value for output serialization. Missing renders empty,
// dates render as YYYY-MM-DD, numbers use the shortest round-trip form.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	case KindDate:
		return v.date.Format("2006-01-02")
	default:
		return ""
	}
}

// Table is an ordered set of named columns over rows of Values.
// Every row has exactly len(Columns()) cells, aligned by position.
type Table struct {
	cols []string
	idx  map[string]int
	rows [][]Value
}

// New constructs an empty table with the given column order.
func New(columns []string) *Table {
	t := &Table{
		cols: append([]string(nil), columns...),
		idx:  make(map[string]int, len(columns)),
	}
	for i, c := range t.cols {
		t.idx[c] = i
	}
	return t
}

// Columns returns the column names in order. The caller must not modify it.
func (t *Table) Columns() []string { return t.cols }

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.rows) }

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.idx[name]; ok {
		return i
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.idx[name]
	return ok
}

// AppendRow adds a row. It panics if the cell count does not match the
// column count; rows are always constructed aligned, so a mismatch is a
// programming error.
func (t *Table) AppendRow(row []Value) {
	if len(row) != len(t.cols) {
		panic(fmt.Sprintf("table: row has %d cells, table has %d columns", len(row), len(t.cols)))
	}
	t.rows = append(t.rows, row)
}

// Row returns the i-th row. The caller must not modify it.
func (t *Table) Row(i int) []Value { return t.rows[i] }

// Cell returns the value at (row, column name). Missing if the column does
// not exist.
func (t *Table) Cell(row int, name string) Value {
	i := t.ColumnIndex(name)
	if i < 0 {
		return Missing()
	}
	return t.rows[row][i]
}

// Clone returns a deep copy: new column slice, new row slices.
func (t *Table) Clone() *Table {
	out := New(t.cols)
	out.rows = make([][]Value, len(t.rows))
	for i, r := range t.rows {
		out.rows[i] = append([]Value(nil), r...)
	}
	return out
}

// WithColumn returns a copy of the table with the named column appended,
// populated by fn(row index). If the column already exists the values are
// replaced in place of the existing position.
func (t *Table) WithColumn(name string, fn func(row int) Value) *Table {
	if i := t.ColumnIndex(name); i >= 0 {
		out := t.Clone()
		for r := range out.rows {
			out.rows[r][i] = fn(r)
		}
		return out
	}
	out := New(append(append([]string(nil), t.cols...), name))
	out.rows = make([][]Value, len(t.rows))
	for r, row := range t.rows {
		out.rows[r] = append(append([]Value(nil), row...), fn(r))
	}
	return out
}

// Renamed returns a copy with column from renamed to to. It is a no-op copy
// when from is absent.
func (t *Table) Renamed(from, to string) *Table {
	out := t.Clone()
	if i := out.ColumnIndex(from); i >= 0 {
		out.cols[i] = to
		delete(out.idx, from)
		out.idx[to] = i
	}
	return out
}

// Dropped returns a copy with the named columns removed. Unknown names are
// ignored.
func (t *Table) Dropped(names ...string) *Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var keep []string
	var keepIdx []int
	for i, c := range t.cols {
		if !drop[c] {
			keep = append(keep, c)
			keepIdx = append(keepIdx, i)
		}
	}
	out := New(keep)
	out.rows = make([][]Value, len(t.rows))
	for r, row := range t.rows {
		nr := make([]Value, len(keepIdx))
		for j, i := range keepIdx {
			nr[j] = row[i]
		}
		out.rows[r] = nr
	}
	return out
}

// RowKey joins the values of the given column indexes into one composite
// map key. Indexes must be valid for the table.
func (t *Table) RowKey(row int, colIdx []int) string {
	parts := make([]string, len(colIdx))
	for i, c := range colIdx {
		parts[i] = t.rows[row][c].Key()
	}
	return strings.Join(parts, "\x1f")
}
