package table

import (
	"fmt"
)

// ResultTable is the materialization of one stored-procedure query result: an
// ordered set of columns and an ordered list of rows of tagged cells. A table
// is immutable once built; a new parameter submission replaces it wholesale.
type ResultTable struct {
	columns  []string
	colIndex map[string]int
	kinds    []Kind
	rows     [][]Value
}

// NewResultTable builds a table from an ordered column list and row data.
// Every row must have exactly one cell per column. The per-column kind is
// inferred from the first non-null cell, with integer promoted to float when
// a column mixes the two.
func NewResultTable(columns []string, rows [][]Value) (*ResultTable, error) {
	colIndex := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := colIndex[name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		colIndex[name] = i
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i, len(row), len(columns))
		}
	}

	t := &ResultTable{
		columns:  append([]string(nil), columns...),
		colIndex: colIndex,
		kinds:    make([]Kind, len(columns)),
		rows:     rows,
	}

	for c := range columns {
		t.kinds[c] = inferColumnKind(rows, c)
	}
	return t, nil
}

// inferColumnKind scans a column for its scalar kind. A column of nothing but
// nulls is treated as text so downstream filter selection stays sane.
func inferColumnKind(rows [][]Value, col int) Kind {
	kind := KindNull
	for _, row := range rows {
		cell := row[col]
		if cell.IsNull() {
			continue
		}
		switch {
		case kind == KindNull:
			kind = cell.Kind()
		case kind == KindInt && cell.Kind() == KindFloat,
			kind == KindFloat && cell.Kind() == KindInt:
			kind = KindFloat
		case kind != cell.Kind():
			return KindText
		}
	}
	if kind == KindNull {
		return KindText
	}
	return kind
}

// Columns returns the ordered column names.
func (t *ResultTable) Columns() []string {
	return append([]string(nil), t.columns...)
}

// ColumnIndex returns the position of a column by name.
func (t *ResultTable) ColumnIndex(name string) (int, bool) {
	i, ok := t.colIndex[name]
	return i, ok
}

// ColumnKind returns the inferred scalar kind of a column.
func (t *ResultTable) ColumnKind(name string) (Kind, bool) {
	i, ok := t.colIndex[name]
	if !ok {
		return KindNull, false
	}
	return t.kinds[i], true
}

// KindAt returns the inferred scalar kind of the column at a position.
func (t *ResultTable) KindAt(col int) Kind {
	return t.kinds[col]
}

// NumRows returns the row count.
func (t *ResultTable) NumRows() int {
	return len(t.rows)
}

// NumColumns returns the column count.
func (t *ResultTable) NumColumns() int {
	return len(t.columns)
}

// At returns the cell at a row and column position.
func (t *ResultTable) At(row, col int) Value {
	return t.rows[row][col]
}

// Cell returns the cell at a row position for a named column.
func (t *ResultTable) Cell(row int, column string) (Value, bool) {
	i, ok := t.colIndex[column]
	if !ok {
		return Null(), false
	}
	return t.rows[row][i], true
}

// RowMap renders one row as a column-name-to-cell mapping, the shape the grid
// wire contract uses for rowData.
func (t *ResultTable) RowMap(row int) map[string]Value {
	out := make(map[string]Value, len(t.columns))
	for i, name := range t.columns {
		out[name] = t.rows[row][i]
	}
	return out
}
