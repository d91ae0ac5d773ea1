// =============================================================================
// INFRA3 Curator - Source Checks
// =============================================================================
//
// The conversion is best-effort: almost nothing in the source row is
// mandatory. The exception is the transaction identifier, which is the join
// key of every output sheet. This module checks it before conversion:
//   - the "Transaction Upload ID" column is missing  -> fatal
//   - a row has a blank identifier                    -> warning
//   - two rows share an identifier                    -> warning
//
// Warnings are reported to the caller and logged; they never stop the
// conversion.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/infra3-curator/internal/types"
)

// IdentifierColumn is the source column every output table is keyed on.
const IdentifierColumn = "Transaction Upload ID"

// ErrMissingIdentifier is returned when the source has no identifier column.
var ErrMissingIdentifier = errors.New("required column \"" + IdentifierColumn + "\" is missing")

// ErrNoRows is returned when the source sheet has a header but no data.
var ErrNoRows = errors.New("source sheet has no data rows")

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError is one finding about the source table.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Field is the source column the finding is about.
	Field string

	// Value is the offending cell value.
	Value string

	// Message is a human-readable description.
	Message string

	// RowNumber is the 1-based spreadsheet row (the header is row 1).
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.RowNumber > 0 {
		return fmt.Sprintf("[%s] row %d, field '%s': %s (value: '%s')",
			strings.ToUpper(e.Severity), e.RowNumber, e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("[%s] field '%s': %s", strings.ToUpper(e.Severity), e.Field, e.Message)
}

// ValidationResult collects the findings of one check run.
type ValidationResult struct {
	Errors       []*ValidationError
	ErrorCount   int
	WarningCount int
}

// IsValid is true when no fatal finding was recorded.
func (r *ValidationResult) IsValid() bool {
	return r.ErrorCount == 0
}

// Warnings returns the non-fatal findings.
func (r *ValidationResult) Warnings() []*ValidationError {
	var out []*ValidationError
	for _, e := range r.Errors {
		if e.Severity == SeverityWarning {
			out = append(out, e)
		}
	}
	return out
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityError {
		r.ErrorCount++
	} else {
		r.WarningCount++
	}
}

// =============================================================================
// CHECKS
// =============================================================================

// CheckSource inspects the identifier column of src. The returned error is
// non-nil only for fatal problems and wraps ErrMissingIdentifier or ErrNoRows.
func CheckSource(src *types.SourceTable) (*ValidationResult, error) {
	result := &ValidationResult{}

	if !src.Has(IdentifierColumn) {
		result.add(&ValidationError{
			Severity: SeverityError,
			Field:    IdentifierColumn,
			Message:  "column not found in source header",
		})
		return result, ErrMissingIdentifier
	}
	if len(src.Rows) == 0 {
		return result, ErrNoRows
	}

	seen := make(map[string]int, len(src.Rows))
	for i, row := range src.Rows {
		rowNumber := src.RowNumber(i)
		id := row.Get(IdentifierColumn)

		if id == "" {
			result.add(&ValidationError{
				Severity:  SeverityWarning,
				Field:     IdentifierColumn,
				Message:   "blank identifier; output rows for this transaction cannot be joined",
				RowNumber: rowNumber,
			})
			continue
		}

		if first, dup := seen[id]; dup {
			result.add(&ValidationError{
				Severity:  SeverityWarning,
				Field:     IdentifierColumn,
				Value:     id,
				Message:   fmt.Sprintf("duplicate identifier, first seen on row %d", first),
				RowNumber: rowNumber,
			})
			continue
		}
		seen[id] = rowNumber
	}

	return result, nil
}
