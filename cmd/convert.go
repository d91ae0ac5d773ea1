// =============================================================================
// INFRA3 Curator - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, which turns one or more pipeline
// exports into INFRA3 upload workbooks.
//
// COMMAND USAGE:
//   infra3 convert [flags] <input>...
//
// FLAGS:
//   -o, --output  : Output path (only with a single input)
//   --dry-run     : Convert in memory and report counts without writing
//
// Each input is converted in its own goroutine. A failure in one file does
// not affect the others; the command exits non-zero if any file failed.
// Source warnings are written next to the workbook as <name>_warnings.txt.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/infra3-curator/internal/converter"
	"github.com/ginjaninja78/infra3-curator/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// outputPath overrides the generated output path.
var outputPath string

// dryRun converts without writing output files.
var dryRun bool

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

var convertCmd = &cobra.Command{
	Use:   "convert [flags] <input>...",
	Short: "Convert pipeline exports into INFRA3 upload workbooks",
	Long: `The convert command reads each input file (.xlsx, .xlsm, .xls or .csv),
builds the seven INFRA3 sheets and writes them as one .xlsx workbook.

Without --output, workbooks are written to the configured output directory
using the configured file name format.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputPath != "" && len(args) > 1 {
			return errors.New("--output requires exactly one input file")
		}
		return runConvert(cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(
		&outputPath,
		"output",
		"o",
		"",
		"Output workbook path (single input only)",
	)

	convertCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Convert in memory and report counts without writing output files",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// fileResult is the outcome of converting one input.
type fileResult struct {
	input  string
	output string
	out    *converter.Output
	err    error
}

func runConvert(w io.Writer, inputs []string) error {
	startTime := time.Now()
	conv := converter.New(cfg, logger)

	targets := outputTargets(inputs)

	var wg sync.WaitGroup
	results := make(chan fileResult, len(inputs))

	for i, input := range inputs {
		wg.Add(1)
		go func(input, output string) {
			defer wg.Done()
			results <- convertOne(conv, input, output)
		}(input, targets[i])
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var failed int
	for res := range results {
		name := filepath.Base(res.input)
		if res.err != nil {
			failed++
			logger.Error("conversion failed", "file", name, "err", res.err)
			fmt.Fprintf(w, "  ✗ %s: %v\n", name, res.err)
			continue
		}

		s := res.out.Stats
		target := res.output
		if dryRun {
			target = "(dry run)"
		}
		fmt.Fprintf(w, "  ✓ %s -> %s\n", name, target)
		fmt.Fprintf(w, "      transactions=%d events=%d bidders=%d tranches=%d roles=%d warnings=%d\n",
			s.Transactions, s.Events, s.Bidders, s.Tranches, s.TrancheRoles, s.Warnings)
	}

	fmt.Fprintf(w, "\nFiles: %d  Successful: %d  Errors: %d  Elapsed: %s\n",
		len(inputs), len(inputs)-failed, failed, time.Since(startTime).Round(time.Millisecond))

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(inputs))
	}
	return nil
}

// outputTargets picks the output path of every input before any conversion
// starts. Inputs that would land on the same path get a -2, -3, ... suffix.
func outputTargets(inputs []string) []string {
	targets := make([]string, len(inputs))
	if outputPath != "" {
		targets[0] = outputPath
		return targets
	}

	taken := make(map[string]bool, len(inputs))
	for i, input := range inputs {
		base := filepath.Join(cfg.OutputDir, utils.GenerateOutputFileName(cfg.OutputNameFormat, utils.BaseName(input)))
		target := base
		ext := filepath.Ext(base)
		for n := 2; taken[target]; n++ {
			target = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(base, ext), n, ext)
		}
		taken[target] = true
		targets[i] = target
	}
	return targets
}

// convertOne converts a single input according to the command flags.
func convertOne(conv *converter.Converter, input, output string) fileResult {
	res := fileResult{input: input}

	if dryRun {
		data, err := os.ReadFile(input)
		if err != nil {
			res.err = fmt.Errorf("failed to read input file: %w", err)
			return res
		}
		src, err := conv.LoadSource(data, filepath.Base(input))
		if err != nil {
			res.err = err
			return res
		}
		res.out, res.err = conv.Convert(src)
		return res
	}

	res.output = output
	res.out, res.err = conv.ConvertFile(input, res.output)
	if res.err != nil {
		return res
	}

	if err := writeWarnings(res.out, input, res.output); err != nil {
		logger.Warn("failed to write warning log", "file", input, "err", err)
	}
	return res
}

// writeWarnings writes the source findings of out next to the workbook.
func writeWarnings(out *converter.Output, input, output string) error {
	entries := make([]utils.WarningLogEntry, 0, len(out.Warnings))
	for _, w := range out.Warnings {
		entries = append(entries, utils.WarningLogEntry{
			RowNumber:  w.RowNumber,
			FieldName:  w.Field,
			FieldValue: w.Value,
			Message:    w.Message,
		})
	}
	return utils.WriteWarningLog(entries, input, utils.WarningLogPath(output))
}
