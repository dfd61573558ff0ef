package domain

import (
	"fmt"
)

// ColumnKind is the inferred type of a column
type ColumnKind string

const (
	ColumnKindNumeric ColumnKind = "numeric"
	ColumnKindText    ColumnKind = "text"
)

// Cell is a single scalar value as read from the input file
type Cell struct {
	Raw     string `json:"raw"`
	Missing bool   `json:"missing"`
}

// MissingCell returns a cell with no value
func MissingCell() Cell {
	return Cell{Missing: true}
}

// Column is a named sequence of cells
type Column struct {
	Name  string `json:"name"`
	Cells []Cell `json:"cells"`
}

// MissingCount returns the number of missing cells in the column
func (c Column) MissingCount() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.Missing {
			n++
		}
	}
	return n
}

// Table is an in-memory, column-oriented copy of an input file.
// All columns have the same length and unique names.
type Table struct {
	Source  string   `json:"source"`
	Columns []Column `json:"columns"`
}

// NumRows returns the shared row count of the table
func (t *Table) NumRows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// NumColumns returns the number of columns
func (t *Table) NumColumns() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// ColumnNames returns the column names in order
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, t.NumColumns())
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

// Validate checks that columns are equally long and uniquely named
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("table is nil")
	}
	rows := t.NumRows()
	seen := make(map[string]struct{}, len(t.Columns))
	for i, c := range t.Columns {
		if len(c.Cells) != rows {
			return fmt.Errorf("column %q has %d rows, expected %d", c.Name, len(c.Cells), rows)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("duplicate column name %q at index %d", c.Name, i)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}
