// =============================================================================
// INFRA3 Curator - Converter Module
// =============================================================================
//
// This module orchestrates the conversion of one source sheet into the
// INFRA3 upload workbook.
//
// CONVERSION PIPELINE:
//   1. Read the source (CSV, XLSX or XLS) into a SourceTable
//   2. Check the identifier column (fatal when missing, warnings otherwise)
//   3. Build Transaction, Events, Bidders_Any and Tranches
//   4. Build Tranche_Roles_Any and back-fill role types from Tranches
//   5. Render all seven sheets into one workbook
//   6. Write the workbook (only after every step above succeeded)
//
// CONCURRENCY:
//   A Converter holds no per-conversion state. One instance may serve many
//   goroutines, which is how the HTTP surface uses it.
//
// =============================================================================

package converter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ginjaninja78/infra3-curator/internal/config"
	"github.com/ginjaninja78/infra3-curator/internal/csvparser"
	"github.com/ginjaninja78/infra3-curator/internal/types"
	"github.com/ginjaninja78/infra3-curator/internal/validation"
	"github.com/ginjaninja78/infra3-curator/internal/xlsxparser"
	"github.com/ginjaninja78/infra3-curator/internal/xlsxwriter"
	"github.com/ginjaninja78/infra3-curator/pkg/utils"
)

// ErrRender is returned when the workbook cannot be encoded.
var ErrRender = errors.New("failed to render workbook")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Output holds the converted sheets of one source file.
type Output struct {
	Transaction  *types.Table
	Events       *types.Table
	Bidders      *types.Table
	Tranches     *types.Table
	TrancheRoles *types.Table

	// Warnings are the non-fatal source findings.
	Warnings []*validation.ValidationError

	Stats Stats
}

// Stats contains statistics about one conversion.
type Stats struct {
	SourceRows   int
	Transactions int
	Events       int
	Bidders      int
	Tranches     int
	TrancheRoles int
	Warnings     int

	// Duration is the time spent transforming, excluding I/O.
	Duration time.Duration
}

// Sheets returns every output sheet in workbook order, including the empty
// Underlying_Asset and Tranche_Pricings placeholders.
func (o *Output) Sheets() []*types.Table {
	return []*types.Table{
		o.Transaction,
		types.NewTable(SheetUnderlyingAsset, UnderlyingAssetColumns),
		o.Events,
		o.Bidders,
		o.Tranches,
		types.NewTable(SheetTranchePricings, TranchePricingColumns),
		o.TrancheRoles,
	}
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter converts source sheets into INFRA3 workbooks.
type Converter struct {
	opts   Options
	csv    config.CSVSettings
	writer *xlsxwriter.Writer
	logger *log.Logger
}

// New creates a Converter from the application configuration. A nil logger
// discards log output.
func New(cfg *config.Config, logger *log.Logger) *Converter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Converter{
		opts:   OptionsFrom(cfg.Conversion),
		csv:    cfg.CSV,
		writer: xlsxwriter.New(NumericColumns),
		logger: logger,
	}
}

// =============================================================================
// INPUT
// =============================================================================

// LoadSource parses one input file held in data. The format is picked from
// the file name extension.
func (c *Converter) LoadSource(data []byte, name string) (*types.SourceTable, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return csvparser.Parse(bytes.NewReader(data), name, c.csv)
	default:
		return xlsxparser.Parse(data, name)
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// Convert runs the transformers over src. It fails only when the source
// cannot be keyed; every other irregularity degrades to blank cells or
// skipped records.
func (c *Converter) Convert(src *types.SourceTable) (*Output, error) {
	start := time.Now()
	logger := c.logger.With("source", src.SourceFile)

	check, err := validation.CheckSource(src)
	if err != nil {
		return nil, fmt.Errorf("source check failed: %w", err)
	}
	warnings := check.Warnings()
	for _, w := range warnings {
		logger.Warn("source check", "detail", w.Error())
	}

	out := &Output{Warnings: warnings}
	out.Transaction = TransformTransactions(src)
	out.Events = TransformEvents(src)
	out.Bidders = TransformBidders(src)
	out.Tranches = TransformTranches(src, c.opts)
	out.TrancheRoles = TransformTrancheRoles(src, out.Tranches, c.opts)

	out.Stats = Stats{
		SourceRows:   len(src.Rows),
		Transactions: len(out.Transaction.Rows),
		Events:       len(out.Events.Rows),
		Bidders:      len(out.Bidders.Rows),
		Tranches:     len(out.Tranches.Rows),
		TrancheRoles: len(out.TrancheRoles.Rows),
		Warnings:     len(warnings),
		Duration:     time.Since(start),
	}

	logger.Debug("converted",
		"rows", out.Stats.SourceRows,
		"events", out.Stats.Events,
		"bidders", out.Stats.Bidders,
		"tranches", out.Stats.Tranches,
		"roles", out.Stats.TrancheRoles,
		"took", out.Stats.Duration,
	)
	return out, nil
}

// Render encodes the output sheets as an .xlsx workbook.
func (c *Converter) Render(out *Output) ([]byte, error) {
	data, err := c.writer.Bytes(out.Sheets())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return data, nil
}

// ConvertBytes loads, converts and renders one input file held in memory.
func (c *Converter) ConvertBytes(data []byte, name string) ([]byte, *Output, error) {
	src, err := c.LoadSource(data, name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	out, err := c.Convert(src)
	if err != nil {
		return nil, nil, err
	}

	workbook, err := c.Render(out)
	if err != nil {
		return nil, nil, err
	}
	return workbook, out, nil
}

// ConvertFile converts the file at inputPath and writes the workbook to
// outputPath. Nothing is written unless the whole workbook was built.
func (c *Converter) ConvertFile(inputPath, outputPath string) (*Output, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	workbook, out, err := c.ConvertBytes(data, filepath.Base(inputPath))
	if err != nil {
		return nil, err
	}

	if err := utils.EnsureDir(filepath.Dir(outputPath)); err != nil {
		return nil, err
	}
	if err := utils.WriteFileAtomic(outputPath, workbook); err != nil {
		return nil, fmt.Errorf("failed to write output file: %w", err)
	}

	c.logger.Info("wrote workbook", "output", outputPath, "transactions", out.Stats.Transactions)
	return out, nil
}
