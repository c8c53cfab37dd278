package domain

import "fmt"

// Row is a single record mapping column name to cell value. Cell values are
// string, float64, int64, or nil for null.
type Row map[string]any

// Table is an in-memory row set with a uniform column schema. Column order is
// tracked for stable output; it carries no semantic meaning.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable creates an empty table with the given column set.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table schema contains name.
func (t *Table) HasColumn(name string) bool {
	return t.columnIndex(name) >= 0
}

func (t *Table) columnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Append adds a row. The caller is responsible for schema uniformity.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// AddColumn appends a new column with one value per existing row.
func (t *Table) AddColumn(name string, values []any) error {
	if t.HasColumn(name) {
		return fmt.Errorf("add column %q: already exists", name)
	}
	if len(values) != len(t.Rows) {
		return fmt.Errorf("add column %q: %d values for %d rows", name, len(values), len(t.Rows))
	}
	t.Columns = append(t.Columns, name)
	for i, r := range t.Rows {
		r[name] = values[i]
	}
	return nil
}

// DropColumn removes a column and its values. Dropping an absent column is a no-op.
func (t *Table) DropColumn(name string) {
	idx := t.columnIndex(name)
	if idx < 0 {
		return
	}
	t.Columns = append(t.Columns[:idx], t.Columns[idx+1:]...)
	for _, r := range t.Rows {
		delete(r, name)
	}
}

// Clone returns a deep copy: mutating the copy's rows leaves the original untouched.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[k] = v
		}
		out.Rows[i] = nr
	}
	return out
}
