// =============================================================================
// INFRA3 Curator - Workbook Writer
// =============================================================================
//
// This module renders the output tables as one .xlsx workbook, one sheet per
// table in the order given.
//
// SHEET LAYOUT:
//   - Row 1 is the header row, in bold, frozen in place
//   - Data rows follow in emission order
//   - Columns listed as numeric are written as numbers when the cell parses
//     (thousands separators are stripped first); anything else stays text
//   - Column widths fit the longest cell, clamped to [MinColWidth, MaxColWidth]
//
// Sheets with no rows are still written with their header.
//
// =============================================================================

package xlsxwriter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/infra3-curator/internal/types"
)

// Column width bounds, in characters.
const (
	MinColWidth = 8
	MaxColWidth = 80
)

// defaultSheet is the sheet excelize creates with every new file.
const defaultSheet = "Sheet1"

// ErrNoTables is returned when there is nothing to write.
var ErrNoTables = errors.New("no tables to write")

// =============================================================================
// WRITER
// =============================================================================

// Writer renders tables into a workbook.
type Writer struct {
	// Numeric names the columns stored as numbers.
	Numeric map[string]bool
}

// New creates a Writer that stores the given columns as numbers.
func New(numeric map[string]bool) *Writer {
	return &Writer{Numeric: numeric}
}

// Build renders tables into a new in-memory workbook. The caller owns the
// returned file and must Close it.
func (w *Writer) Build(tables []*types.Table) (*excelize.File, error) {
	if len(tables) == 0 {
		return nil, ErrNoTables
	}

	f := excelize.NewFile()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, t := range tables {
		if i == 0 {
			err = f.SetSheetName(defaultSheet, t.Name)
		} else {
			_, err = f.NewSheet(t.Name)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", t.Name, err)
		}

		if err := w.writeSheet(f, t, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write sheet %s: %w", t.Name, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteTo renders tables and streams the workbook to out.
func (w *Writer) WriteTo(out io.Writer, tables []*types.Table) error {
	f, err := w.Build(tables)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to encode workbook: %w", err)
	}
	return nil
}

// Bytes renders tables and returns the encoded workbook.
func (w *Writer) Bytes(tables []*types.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.WriteTo(&buf, tables); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// =============================================================================
// SHEET RENDERING
// =============================================================================

func (w *Writer) writeSheet(f *excelize.File, t *types.Table, headerStyle int) error {
	widths := make([]int, len(t.Columns))

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
		widths[i] = utf8.RuneCountInString(c)
	}
	if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(t.Name, 1, 1, headerStyle); err != nil {
		return err
	}

	for r, row := range t.Rows {
		cells := make([]interface{}, len(t.Columns))
		for i, col := range t.Columns {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			cells[i] = w.cellValue(col, v)
			if n := utf8.RuneCountInString(v); n > widths[i] {
				widths[i] = n
			}
		}

		addr, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.Name, addr, &cells); err != nil {
			return err
		}
	}

	for i, width := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(t.Name, name, name, ColumnWidth(width)); err != nil {
			return err
		}
	}

	return f.SetPanes(t.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// cellValue returns the value stored for one cell. Blank cells are left
// empty rather than written as zero.
func (w *Writer) cellValue(column, v string) interface{} {
	if v == "" || !w.Numeric[column] {
		return v
	}
	if n, ok := ParseNumber(v); ok {
		return n
	}
	return v
}

// ParseNumber parses a display number such as "1,250.5".
func ParseNumber(v string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ColumnWidth converts a character count into a clamped column width.
func ColumnWidth(chars int) float64 {
	w := chars + 2
	if w < MinColWidth {
		w = MinColWidth
	}
	if w > MaxColWidth {
		w = MaxColWidth
	}
	return float64(w)
}
