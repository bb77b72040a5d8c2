// Package ingest loads heterogeneous tabular transaction exports and maps
// them onto the canonical column schema used by the rest of the pipeline.
package ingest

// Table is a simple column-named grid of string cells. Rows may be ragged on
// input; readers pad them to the header width.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, column name). Missing columns and short
// rows read as the empty string.
func (t Table) Cell(row int, name string) string {
	i := t.ColumnIndex(name)
	if i < 0 || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][i]
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}
