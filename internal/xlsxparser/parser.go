// =============================================================================
// INFRA3 Curator - Spreadsheet Source Parser
// =============================================================================
//
// This module reads the source workbook into a types.SourceTable. Only the
// first sheet is used, whatever its name. Row 1 is the header row; every
// following non-blank row is a transaction.
//
// SUPPORTED FORMATS:
//   - .xlsx / .xlsm : Office Open XML, read with excelize
//   - .xls          : legacy BIFF workbooks, read with extrame/xls
//
// Cells are read as raw values, so dates arrive as Excel serial numbers and
// numbers without display formatting (no thousands separators). The
// normalize package turns them into output values. Boolean cells, which raw
// mode reports as 1/0, are restored to TRUE/FALSE.
//
// =============================================================================

package xlsxparser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/infra3-curator/internal/types"
)

// ErrUnsupportedFormat is returned for file extensions no reader handles.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// ErrNoData is returned when the first sheet has no header row.
var ErrNoData = errors.New("first sheet contains no data")

// xlsCharset is used for legacy workbooks that carry no code page.
const xlsCharset = "utf-8"

// =============================================================================
// FORMAT DETECTION
// =============================================================================

// Format identifies a spreadsheet container.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// DetectFormat maps a file name to its spreadsheet format.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a spreadsheet held in data. The name is only used for format
// detection and bookkeeping.
func Parse(data []byte, name string) (*types.SourceTable, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}

	var table *types.SourceTable
	switch format {
	case FormatXLS:
		table, err = ParseXLS(bytes.NewReader(data))
	default:
		table, err = ParseXLSX(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}

	table.SourceFile = name
	return table, nil
}

// ParseXLSX reads the first sheet of an Office Open XML workbook.
func ParseXLSX(r io.Reader) (*types.SourceTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if err := restoreBooleans(f, sheet, rows); err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	return buildTable(rows)
}

// restoreBooleans rewrites raw 1/0 values of boolean cells in place.
func restoreBooleans(f *excelize.File, sheet string, rows [][]string) error {
	for r, row := range rows {
		for c, v := range row {
			if v != "1" && v != "0" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			typ, err := f.GetCellType(sheet, cell)
			if err != nil {
				return err
			}
			if typ != excelize.CellTypeBool {
				continue
			}
			if v == "1" {
				row[c] = "TRUE"
			} else {
				row[c] = "FALSE"
			}
		}
	}
	return nil
}

// ParseXLS reads the first sheet of a legacy BIFF workbook.
func ParseXLS(r io.ReadSeeker) (*types.SourceTable, error) {
	wb, err := xls.OpenReader(r, xlsCharset)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("failed to read first sheet")
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}

	return buildTable(rows)
}

// buildTable treats the first non-blank row as the header.
func buildTable(rows [][]string) (*types.SourceTable, error) {
	for i, row := range rows {
		if isRowEmpty(row) {
			continue
		}
		return types.NewSourceTableAt(row, rows[i+1:], i+2), nil
	}
	return nil, ErrNoData
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
