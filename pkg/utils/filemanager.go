// =============================================================================
// INFRA3 Curator - File Manager Utility
// =============================================================================
//
// This module provides the file handling used by the CLI and the HTTP
// surface:
//   - Directory management
//   - Output file naming
//   - Atomic output writes (temp file + rename)
//   - Source warning logs written next to the output workbook
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the {timestamp} placeholder format.
const TimestampLayout = "20060102_150405"

// now is replaced in tests.
var now = time.Now

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir and its parents if they don't exist.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// =============================================================================
// FILE NAMING
// =============================================================================

// BaseName returns the file name of path without directory or extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// GenerateOutputFileName generates an output workbook name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {base}      - Input file name without extension
//     {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Current date (YYYYMMDD)
//     {uuid}      - A random UUID
//   - base: The value of {base}.
//
// RETURNS:
//   - The generated file name, always ending in ".xlsx".
//
// EXAMPLE:
//
//	format: "{base}_INFRA3_{timestamp}.xlsx"
//	base:   "pipeline"
//	output: "pipeline_INFRA3_20240115_143022.xlsx"
func GenerateOutputFileName(format, base string) string {
	t := now()

	result := format
	result = strings.ReplaceAll(result, "{base}", base)
	result = strings.ReplaceAll(result, "{timestamp}", t.Format(TimestampLayout))
	result = strings.ReplaceAll(result, "{date}", t.Format("20060102"))
	if strings.Contains(result, "{uuid}") {
		result = strings.ReplaceAll(result, "{uuid}", uuid.New().String())
	}

	if !strings.HasSuffix(strings.ToLower(result), ".xlsx") {
		result += ".xlsx"
	}
	return result
}

// =============================================================================
// OUTPUT WRITING
// =============================================================================

// WriteFileAtomic writes data to a temporary file in the target directory and
// renames it into place, so readers never observe a partial workbook.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// =============================================================================
// WARNING LOG GENERATION
// =============================================================================

// WarningLogEntry represents a single source finding.
type WarningLogEntry struct {
	RowNumber  int
	FieldName  string
	FieldValue string
	Message    string
}

// WarningLogPath returns the log path written alongside a workbook.
func WarningLogPath(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + "_warnings.txt"
}

// WriteWarningLog writes source findings to path.
//
// PARAMETERS:
//   - entries: The findings to write. Nothing is written when empty.
//   - sourceFile: The input file the findings are about.
//   - path: The log file to create.
//
// RETURNS:
//   - An error if writing fails.
func WriteWarningLog(entries []WarningLogEntry, sourceFile, path string) error {
	if len(entries) == 0 {
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create warning log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "INFRA3 Curator - Source Warnings\n"+
		"Source:    %s\n"+
		"Generated: %s\n"+
		"Total:     %d\n"+
		"================================================================================\n\n",
		sourceFile,
		now().Format("2006-01-02 15:04:05"),
		len(entries))

	for i, entry := range entries {
		fmt.Fprintf(writer, "Warning #%d\n", i+1)
		if entry.RowNumber > 0 {
			fmt.Fprintf(writer, "  Row Number: %d\n", entry.RowNumber)
		}
		if entry.FieldName != "" {
			fmt.Fprintf(writer, "  Field:      %s\n", entry.FieldName)
		}
		if entry.FieldValue != "" {
			fmt.Fprintf(writer, "  Value:      %s\n", entry.FieldValue)
		}
		fmt.Fprintf(writer, "  Message:    %s\n\n", entry.Message)
	}

	writer.WriteString("================================================================================\n" +
		"End of Warning Log\n")

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush warning log: %w", err)
	}
	return nil
}
