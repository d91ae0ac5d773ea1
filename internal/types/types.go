// =============================================================================
// INFRA3 Curator - Shared Types
// =============================================================================
//
// This package contains the tabular types shared by the readers, the
// conversion engine and the workbook writer:
//   - SourceTable : the single input sheet, addressed by header name
//   - Table       : one output sheet with a fixed column order
//
// Keeping them here avoids import cycles between xlsxparser, converter and
// xlsxwriter.
//
// =============================================================================

package types

import "strings"

// =============================================================================
// SOURCE TABLE
// =============================================================================

// SourceRow is one record of the input sheet, keyed by column header.
type SourceRow map[string]string

// SourceTable is the parsed first sheet of an input file.
type SourceTable struct {
	// Headers holds the column headers in sheet order, trimmed.
	Headers []string

	// Rows holds the data rows as header -> cell value.
	Rows []SourceRow

	// RowNumbers holds the 1-based sheet row of each entry in Rows.
	RowNumbers []int

	// SourceFile is the path or upload name the table was read from.
	SourceFile string

	columns map[string]bool
}

// NewSourceTable builds a SourceTable from a header row on sheet row 1 and
// the raw data rows that follow it.
func NewSourceTable(headers []string, raw [][]string) *SourceTable {
	return NewSourceTableAt(headers, raw, 2)
}

// NewSourceTableAt is NewSourceTable for data starting on sheet row
// firstRow. Rows whose cells are all blank are skipped but still counted.
func NewSourceTableAt(headers []string, raw [][]string, firstRow int) *SourceTable {
	numbers := make([]int, len(raw))
	for i := range raw {
		numbers[i] = firstRow + i
	}
	return NewSourceTableLines(headers, raw, numbers)
}

// NewSourceTableLines builds a SourceTable where numbers[i] is the 1-based
// sheet row (or file line) of raw[i]. Duplicate headers keep their first
// occurrence; blank headers are dropped; all-blank rows are skipped.
func NewSourceTableLines(headers []string, raw [][]string, numbers []int) *SourceTable {
	t := &SourceTable{columns: make(map[string]bool, len(headers))}

	index := make([]int, 0, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" || t.columns[h] {
			continue
		}
		t.columns[h] = true
		t.Headers = append(t.Headers, h)
		index = append(index, i)
	}

	for i, cells := range raw {
		if isBlankRow(cells) {
			continue
		}
		row := make(SourceRow, len(t.Headers))
		for n, col := range index {
			if col < len(cells) {
				row[t.Headers[n]] = cells[col]
			}
		}
		t.Rows = append(t.Rows, row)
		t.RowNumbers = append(t.RowNumbers, numbers[i])
	}

	return t
}

// RowNumber returns the sheet row of Rows[i]. Tables built without row
// numbers fall back to i+2.
func (t *SourceTable) RowNumber(i int) int {
	if i < len(t.RowNumbers) {
		return t.RowNumbers[i]
	}
	return i + 2
}

// Has reports whether the source schema contains the named column.
func (t *SourceTable) Has(column string) bool {
	return t.columns[column]
}

// Get returns the trimmed value of a column, or "" when the column is absent.
func (r SourceRow) Get(column string) string {
	return strings.TrimSpace(r[column])
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// OUTPUT TABLE
// =============================================================================

// Row is one output record; cells are in the owning table's column order.
type Row []string

// Table is one output sheet.
type Table struct {
	// Name is the sheet name in the output workbook.
	Name string

	// Columns is the fixed header row.
	Columns []string

	// Rows holds the records in emission order.
	Rows []Row
}

// NewTable creates an empty table with the given sheet name and header.
func NewTable(name string, columns []string) *Table {
	return &Table{Name: name, Columns: columns}
}

// ColumnIndex returns the position of a column, or -1.
func (t *Table) ColumnIndex(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Value returns the cell of row i in the named column.
func (t *Table) Value(i int, column string) string {
	c := t.ColumnIndex(column)
	if c < 0 || i < 0 || i >= len(t.Rows) || c >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][c]
}

// Column returns every value of the named column in row order.
func (t *Table) Column(column string) []string {
	out := make([]string, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Value(i, column)
	}
	return out
}

// Append adds a record built from a column -> value map. Columns missing from
// the map are left blank.
func (t *Table) Append(fields map[string]string) {
	row := make(Row, len(t.Columns))
	for i, c := range t.Columns {
		row[i] = fields[c]
	}
	t.Rows = append(t.Rows, row)
}
