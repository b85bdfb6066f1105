// Package dataframe holds the ephemeral table type passed between ingestion,
// the query engines and the HTTP surface. A Table lives for a single request
// and is never persisted.
package dataframe

import (
	"fmt"
	"sort"
	"strings"
)

// ColumnSpec describes one column in the shape the frontend table component
// expects.
type ColumnSpec struct {
	Title     string `json:"title"`
	DataIndex string `json:"dataIndex"`
	Key       string `json:"key"`
}

// Record is one row keyed by column name.
type Record map[string]interface{}

// Table is a named-column, position-ordered collection of rows. Cell values
// are nil, bool, float64 or string.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]interface{}
}

func New(columns ...string) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range t.columns {
		t.index[c] = i
	}
	return t
}

// FromRecords builds a Table from row records. Go maps carry no key order, so
// columns are sorted lexicographically to keep output deterministic.
func FromRecords(records []Record) *Table {
	seen := map[string]bool{}
	var columns []string
	for _, rec := range records {
		for col := range rec {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}
	sort.Strings(columns)

	t := New(columns...)
	for _, rec := range records {
		row := make([]interface{}, len(columns))
		for i, col := range columns {
			row[i] = normalize(rec[col])
		}
		t.rows = append(t.rows, row)
	}
	return t
}

// normalize funnels JSON-decoded values into the cell types a Table carries.
func normalize(v interface{}) interface{} {
	switch v := v.(type) {
	case nil, bool, float64, string:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

func (t *Table) NumRows() int {
	return len(t.rows)
}

// AppendRow adds a row, padding or truncating to the column count.
func (t *Table) AppendRow(values ...interface{}) {
	row := make([]interface{}, len(t.columns))
	for i := range row {
		if i < len(values) {
			row[i] = normalize(values[i])
		}
	}
	t.rows = append(t.rows, row)
}

// Cell returns the value at (row, column name).
func (t *Table) Cell(row int, column string) (interface{}, error) {
	i, ok := t.index[column]
	if !ok {
		return nil, fmt.Errorf("no such column: %s", column)
	}
	if row < 0 || row >= len(t.rows) {
		return nil, fmt.Errorf("row %d out of range", row)
	}
	return t.rows[row][i], nil
}

// Row returns row i keyed by column name, the shape govaluate expressions
// are evaluated against.
func (t *Table) Row(i int) Record {
	rec := make(Record, len(t.columns))
	for j, col := range t.columns {
		rec[col] = t.rows[i][j]
	}
	return rec
}

// Records materialises every row as a Record.
func (t *Table) Records() []Record {
	out := make([]Record, 0, len(t.rows))
	for i := range t.rows {
		out = append(out, t.Row(i))
	}
	return out
}

// Schema returns the column specs in table order.
func (t *Table) Schema() []ColumnSpec {
	specs := make([]ColumnSpec, 0, len(t.columns))
	for _, col := range t.columns {
		specs = append(specs, ColumnSpec{Title: col, DataIndex: col, Key: col})
	}
	return specs
}

// Head returns a new Table with at most n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.rows) {
		n = len(t.rows)
	}
	out := New(t.columns...)
	for _, row := range t.rows[:n] {
		out.rows = append(out.rows, append([]interface{}(nil), row...))
	}
	return out
}

// Select projects the named columns, in the given order.
func (t *Table) Select(columns ...string) (*Table, error) {
	idx := make([]int, len(columns))
	for i, col := range columns {
		j, ok := t.index[col]
		if !ok {
			return nil, fmt.Errorf("no such column: %s", col)
		}
		idx[i] = j
	}
	out := New(columns...)
	for _, row := range t.rows {
		newRow := make([]interface{}, len(idx))
		for i, j := range idx {
			newRow[i] = row[j]
		}
		out.rows = append(out.rows, newRow)
	}
	return out, nil
}

// Drop removes the named columns.
func (t *Table) Drop(columns ...string) (*Table, error) {
	dropped := map[string]bool{}
	for _, col := range columns {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("no such column: %s", col)
		}
		dropped[col] = true
	}
	var keep []string
	for _, col := range t.columns {
		if !dropped[col] {
			keep = append(keep, col)
		}
	}
	return t.Select(keep...)
}

// Rename renames a single column in place of the old name.
func (t *Table) Rename(from, to string) (*Table, error) {
	if !t.HasColumn(from) {
		return nil, fmt.Errorf("no such column: %s", from)
	}
	columns := t.Columns()
	for i, col := range columns {
		if col == from {
			columns[i] = to
		}
	}
	out := New(columns...)
	for _, row := range t.rows {
		out.rows = append(out.rows, append([]interface{}(nil), row...))
	}
	return out, nil
}

// Filter keeps rows for which keep returns true.
func (t *Table) Filter(keep func(Record) (bool, error)) (*Table, error) {
	out := New(t.columns...)
	for i, row := range t.rows {
		ok, err := keep(t.Row(i))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if ok {
			out.rows = append(out.rows, append([]interface{}(nil), row...))
		}
	}
	return out, nil
}

// WithColumn appends a column computed per row. An existing column of the
// same name is replaced.
func (t *Table) WithColumn(name string, compute func(Record) (interface{}, error)) (*Table, error) {
	columns := t.Columns()
	replace, exists := t.index[name]
	if !exists {
		columns = append(columns, name)
	}
	out := New(columns...)
	for i, row := range t.rows {
		v, err := compute(t.Row(i))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		newRow := append([]interface{}(nil), row...)
		if exists {
			newRow[replace] = normalize(v)
		} else {
			newRow = append(newRow, normalize(v))
		}
		out.rows = append(out.rows, newRow)
	}
	return out, nil
}

// SortBy orders rows by the named column. Numbers sort numerically, all
// other values by their string form; nil sorts first. The sort is stable.
func (t *Table) SortBy(column string, descending bool) (*Table, error) {
	j, ok := t.index[column]
	if !ok {
		return nil, fmt.Errorf("no such column: %s", column)
	}
	out := New(t.columns...)
	for _, row := range t.rows {
		out.rows = append(out.rows, append([]interface{}(nil), row...))
	}
	sort.SliceStable(out.rows, func(a, b int) bool {
		less := lessValue(out.rows[a][j], out.rows[b][j])
		if descending {
			return lessValue(out.rows[b][j], out.rows[a][j])
		}
		return less
	})
	return out, nil
}

func lessValue(a, b interface{}) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		return af < bf
	}
	return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b)) < 0
}
