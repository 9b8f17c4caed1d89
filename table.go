package qvd

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/qvd-go/qvd/errs"
)

// Table is an in-memory QVD data table: a rectangular grid of Values with
// named columns. It replaces original_source/pyqvd's QvdTable, whose
// Python `__getitem__`/`__setitem__` overloading is re-expressed here as
// explicit named methods.
type Table struct {
	columns []string
	rows    [][]Value
}

// NewTable validates and constructs a Table. Every row must have exactly
// len(columns) values, and column names must be unique.
func NewTable(columns []string, rows [][]Value) (*Table, error) {
	if len(columns) == 0 {
		return nil, errs.ErrNoColumns
	}

	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("%w: %q", errs.ErrDuplicateColumnName, c)
		}

		seen[c] = struct{}{}
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d values, table has %d columns",
				errs.ErrColumnCountMismatch, i, len(row), len(columns))
		}
	}

	cols := make([]string, len(columns))
	copy(cols, columns)

	return &Table{columns: cols, rows: rows}, nil
}

// Columns returns the table's column names, in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)

	return out
}

// Shape returns the number of rows and columns.
func (t *Table) Shape() (rows, cols int) {
	return len(t.rows), len(t.columns)
}

// Size returns the total number of cells (rows * columns).
func (t *Table) Size() int {
	return len(t.rows) * len(t.columns)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.rows) == 0
}

func (t *Table) columnIndex(name string) (int, error) {
	for i, c := range t.columns {
		if c == name {
			return i, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errs.ErrFieldNotFound, name)
}

// Head returns a new Table holding the table's first n rows (or all rows
// if n exceeds the row count).
func (t *Table) Head(n int) *Table {
	if n > len(t.rows) {
		n = len(t.rows)
	}

	return &Table{columns: t.columns, rows: append([][]Value(nil), t.rows[:n]...)}
}

// Tail returns a new Table holding the table's last n rows (or all rows if
// n exceeds the row count).
func (t *Table) Tail(n int) *Table {
	if n > len(t.rows) {
		n = len(t.rows)
	}

	return &Table{columns: t.columns, rows: append([][]Value(nil), t.rows[len(t.rows)-n:]...)}
}

// Row returns a copy of the values at row index i.
func (t *Table) Row(i int) ([]Value, error) {
	if i < 0 || i >= len(t.rows) {
		return nil, fmt.Errorf("%w: %d", errs.ErrRowIndexOutOfRange, i)
	}

	out := make([]Value, len(t.rows[i]))
	copy(out, t.rows[i])

	return out, nil
}

// Column returns every row's value for the named column, in row order.
func (t *Table) Column(name string) ([]Value, error) {
	idx, err := t.columnIndex(name)
	if err != nil {
		return nil, err
	}

	out := make([]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx]
	}

	return out, nil
}

// At returns the value at the given row and column name.
func (t *Table) At(row int, column string) (Value, error) {
	if row < 0 || row >= len(t.rows) {
		return nil, fmt.Errorf("%w: %d", errs.ErrRowIndexOutOfRange, row)
	}

	idx, err := t.columnIndex(column)
	if err != nil {
		return nil, err
	}

	return t.rows[row][idx], nil
}

// Set replaces the value at the given row and column name.
func (t *Table) Set(row int, column string, v Value) error {
	if row < 0 || row >= len(t.rows) {
		return fmt.Errorf("%w: %d", errs.ErrRowIndexOutOfRange, row)
	}

	idx, err := t.columnIndex(column)
	if err != nil {
		return err
	}

	t.rows[row][idx] = v

	return nil
}

// Select returns a new Table projected onto the given column names, in the
// order given.
func (t *Table) Select(columns ...string) (*Table, error) {
	indices := make([]int, len(columns))

	for i, c := range columns {
		idx, err := t.columnIndex(c)
		if err != nil {
			return nil, err
		}

		indices[i] = idx
	}

	rows := make([][]Value, len(t.rows))
	for i, row := range t.rows {
		projected := make([]Value, len(indices))
		for j, idx := range indices {
			projected[j] = row[idx]
		}

		rows[i] = projected
	}

	return NewTable(columns, rows)
}

// Append adds row to the end of the table.
func (t *Table) Append(row []Value) error {
	if len(row) != len(t.columns) {
		return fmt.Errorf("%w: row has %d values, table has %d columns",
			errs.ErrColumnCountMismatch, len(row), len(t.columns))
	}

	t.rows = append(t.rows, row)

	return nil
}

// Insert adds row at index at, shifting subsequent rows down.
func (t *Table) Insert(at int, row []Value) error {
	if at < 0 || at > len(t.rows) {
		return fmt.Errorf("%w: %d", errs.ErrRowIndexOutOfRange, at)
	}

	if len(row) != len(t.columns) {
		return fmt.Errorf("%w: row has %d values, table has %d columns",
			errs.ErrColumnCountMismatch, len(row), len(t.columns))
	}

	t.rows = append(t.rows, nil)
	copy(t.rows[at+1:], t.rows[at:])
	t.rows[at] = row

	return nil
}

// Drop removes the row at index at.
func (t *Table) Drop(at int) error {
	if at < 0 || at >= len(t.rows) {
		return fmt.Errorf("%w: %d", errs.ErrRowIndexOutOfRange, at)
	}

	t.rows = append(t.rows[:at], t.rows[at+1:]...)

	return nil
}

// ToDict renders the table as one map per row, keyed by column name, with
// each value reduced to its DisplayValue (or nil for a null cell).
func (t *Table) ToDict() []map[string]any {
	out := make([]map[string]any, len(t.rows))

	for i, row := range t.rows {
		m := make(map[string]any, len(t.columns))

		for j, col := range t.columns {
			if row[j] == nil {
				m[col] = nil
			} else {
				m[col] = row[j].DisplayValue()
			}
		}

		out[i] = m
	}

	return out
}

// TableFromDict is the inverse of ToDict: it builds a Table from a slice
// of row maps and an explicit column order (maps do not have one). Values
// are carried through as-is; a caller wanting QVD-typed cells should
// convert display values to Value implementations before calling this.
func TableFromDict(rows []map[string]any, columns []string) (*Table, error) {
	built := make([][]Value, len(rows))

	for i, m := range rows {
		row := make([]Value, len(columns))

		for j, col := range columns {
			raw, ok := m[col]
			if !ok || raw == nil {
				continue
			}

			v, ok := raw.(Value)
			if !ok {
				return nil, fmt.Errorf("qvd: column %q row %d: %T does not implement qvd.Value", col, i, raw)
			}

			row[j] = v
		}

		built[i] = row
	}

	return NewTable(columns, built)
}

// Hash returns a content fingerprint over the table's columns and its
// rows' canonical byte encodings (null cells contribute a single 0x00
// marker byte, which cannot otherwise start a symbol's canonical
// encoding, since every tag byte is non-zero).
func (t *Table) Hash() uint64 {
	h := xxhash.New()

	for _, c := range t.columns {
		_, _ = h.WriteString(c)
		_, _ = h.Write([]byte{0})
	}

	for _, row := range t.rows {
		for _, v := range row {
			if v == nil {
				_, _ = h.Write([]byte{0x00})
				continue
			}

			_, _ = h.Write(v.Bytes())
		}
	}

	return h.Sum64()
}
