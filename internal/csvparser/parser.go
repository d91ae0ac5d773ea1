// =============================================================================
// INFRA3 Curator - CSV Source Parser
// =============================================================================
//
// Some analysts export the source sheet as CSV instead of a workbook. This
// module reads such files into the same types.SourceTable the spreadsheet
// parser produces, so the conversion engine does not care where the rows came
// from.
//
// FEATURES:
//   - Configurable delimiter (comma, semicolon, pipe, tab)
//   - Windows-1252 / ISO-8859-1 decoding for legacy exports
//   - UTF-8 byte order mark stripped from the first header
//   - Ragged rows tolerated
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/infra3-curator/internal/config"
	"github.com/ginjaninja78/infra3-curator/internal/types"
)

const utf8BOM = "\ufeff"

// ErrEmpty is returned when the file holds no header record.
var ErrEmpty = errors.New("CSV file is empty")

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads CSV data from r. The first non-blank record is the header.
func Parse(r io.Reader, name string, settings config.CSVSettings) (*types.SourceTable, error) {
	csvReader := csv.NewReader(bufio.NewReader(decoder(r, settings.Encoding)))
	configureReader(csvReader, settings)

	var (
		header  []string
		records [][]string
		lines   []int
	)
	for {
		rec, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line, _ := csvReader.FieldPos(0)

		if header == nil {
			if isRecordEmpty(rec) {
				continue
			}
			rec[0] = strings.TrimPrefix(rec[0], utf8BOM)
			header = rec
			continue
		}
		records = append(records, rec)
		lines = append(lines, line)
	}

	if header != nil {
		table := types.NewSourceTableLines(header, records, lines)
		table.SourceFile = name
		return table, nil
	}

	return nil, ErrEmpty
}

// decoder wraps r so it yields UTF-8.
func decoder(r io.Reader, encoding string) io.Reader {
	switch strings.ToUpper(strings.TrimSpace(encoding)) {
	case "WINDOWS-1252", "CP1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder())
	case "ISO-8859-1", "LATIN1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return r
	}
}

// configureReader applies the delimiter and leniency settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Exports are not strict about row length or quoting.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
}

func isRecordEmpty(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
