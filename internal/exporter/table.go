package exporter

import (
	"fedlease/pkg/contracts/domain"
)

// Table holds records column by column, one column per entry of
// domain.RecordColumns. It is not safe for concurrent use.
type Table struct {
	columns [][]*string
}

// NewTable returns an empty table
func NewTable() *Table {
	return &Table{columns: make([][]*string, len(domain.RecordColumns))}
}

// Append adds each field of r to its column
func (t *Table) Append(r domain.Record) {
	for i, v := range r.Values() {
		t.columns[i] = append(t.columns[i], v)
	}
}

// Len is the number of records
func (t *Table) Len() int {
	if len(t.columns) == 0 {
		return 0
	}
	return len(t.columns[0])
}

// Headers returns the column headers
func (t *Table) Headers() []string {
	return append([]string(nil), domain.RecordColumns...)
}

// Column returns the values of column i
func (t *Table) Column(i int) []*string {
	return t.columns[i]
}

// Rows returns the records as string rows; absent values become "".
func (t *Table) Rows() [][]string {
	rows := make([][]string, t.Len())
	for r := range rows {
		row := make([]string, len(t.columns))
		for c, col := range t.columns {
			if v := col[r]; v != nil {
				row[c] = *v
			}
		}
		rows[r] = row
	}
	return rows
}

// cells returns row r with nil for absent values
func (t *Table) cells(r int) []interface{} {
	row := make([]interface{}, len(t.columns))
	for c, col := range t.columns {
		if v := col[r]; v != nil {
			row[c] = *v
		}
	}
	return row
}
