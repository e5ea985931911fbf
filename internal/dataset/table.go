// Package dataset holds the tabular value type shared by every pipeline stage.
// Transformations never modify their input and always return a new Table.
package dataset

import (
	"fmt"
	"strconv"

	"debatetxt/internal"
)

type Kind int

const (
	String Kind = iota
	Int
)

type Column struct {
	Name string
	Kind Kind
}

type Table struct {
	Columns []Column
	Rows    [][]string
}

func New(columns ...Column) *Table {
	return &Table{Columns: append([]Column(nil), columns...)}
}

// StringColumns builds string-typed columns from names.
func StringColumns(names ...string) []Column {
	out := make([]Column, 0, len(names))
	for _, n := range names {
		out = append(out, Column{Name: n, Kind: String})
	}
	return out
}

func (t *Table) Len() int {
	return len(t.Rows)
}

func (t *Table) Names() []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		out = append(out, c.Name)
	}
	return out
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (t *Table) Has(name string) bool {
	return t.Index(name) >= 0
}

func (t *Table) Append(row ...string) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(row), len(t.Columns))
	}
	for i, c := range t.Columns {
		if c.Kind == Int {
			if _, err := strconv.Atoi(row[i]); err != nil {
				return fmt.Errorf("column %s: %q is not an integer", c.Name, row[i])
			}
		}
	}
	t.Rows = append(t.Rows, append([]string(nil), row...))
	return nil
}

// Column returns a copy of the named column's values.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", internal.ErrMissingColumn, name)
	}
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, row[idx])
	}
	return out, nil
}

// IntColumn returns the named column parsed as integers.
func (t *Table) IntColumn(name string) ([]int, error) {
	values, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(values))
	for i, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("column %s row %d: %w", name, i, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]Column(nil), t.Columns...),
		Rows:    make([][]string, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		out.Rows = append(out.Rows, append([]string(nil), row...))
	}
	return out
}

// Head returns the first n rows; n <= 0 keeps every row.
func (t *Table) Head(n int) *Table {
	out := t.Clone()
	if n > 0 && n < len(out.Rows) {
		out.Rows = out.Rows[:n]
	}
	return out
}

// Drop returns the table without the named columns. Unknown names are ignored.
func (t *Table) Drop(names ...string) *Table {
	drop := map[string]struct{}{}
	for _, n := range names {
		drop[n] = struct{}{}
	}
	keep := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if _, ok := drop[c.Name]; !ok {
			keep = append(keep, c.Name)
		}
	}
	out, _ := t.Project(keep...)
	return out
}

// Project returns the named columns in the given order.
func (t *Table) Project(names ...string) (*Table, error) {
	idxs := make([]int, 0, len(names))
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		idx := t.Index(n)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", internal.ErrMissingColumn, n)
		}
		idxs = append(idxs, idx)
		cols = append(cols, t.Columns[idx])
	}
	out := &Table{Columns: cols, Rows: make([][]string, 0, len(t.Rows))}
	for _, row := range t.Rows {
		next := make([]string, 0, len(idxs))
		for _, idx := range idxs {
			next = append(next, row[idx])
		}
		out.Rows = append(out.Rows, next)
	}
	return out, nil
}

// Concat appends the rows of tables sharing the same columns, in order.
func Concat(columns []Column, parts ...*Table) (*Table, error) {
	out := New(columns...)
	for _, part := range parts {
		if part == nil {
			continue
		}
		if len(part.Columns) != len(columns) {
			return nil, fmt.Errorf("concat: table has %d columns, want %d", len(part.Columns), len(columns))
		}
		for i, c := range part.Columns {
			if c.Name != columns[i].Name {
				return nil, fmt.Errorf("concat: column %d is %s, want %s", i, c.Name, columns[i].Name)
			}
		}
		for _, row := range part.Rows {
			out.Rows = append(out.Rows, append([]string(nil), row...))
		}
	}
	return out, nil
}
