// =============================================================================
// INFRA3 Curator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (infra3)
//   ├── convertCmd (infra3 convert)
//   ├── serveCmd   (infra3 serve)
//   └── versionCmd (infra3 version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the configuration (defaults, --config YAML, INFRA3_* env)
//   2. Sets up the logger at the configured level (--verbose forces debug)
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/infra3-curator/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the optional YAML configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// cfg is the loaded configuration, available to subcommands.
var cfg *config.Config

// logger is the application logger, available to subcommands.
var logger *log.Logger

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "infra3",
	Short: "INFRA3 Curator - Convert pipeline exports into INFRA3 upload workbooks",
	Long: `INFRA3 Curator converts a project-finance pipeline export (one row per
transaction) into the multi-sheet workbook expected by the INFRA3 bulk upload.

Output sheets:
  Transaction, Underlying_Asset, Events, Bidders_Any, Tranches,
  Tranche_Pricings, Tranche_Roles_Any

Example Usage:
  infra3 convert pipeline.xlsx                 # Write to the output directory
  infra3 convert pipeline.xlsx -o infra3.xlsx  # Write to an explicit path
  infra3 convert --dry-run pipeline.csv        # Report counts only
  infra3 serve --addr :9000                    # Start the upload page`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp(cmd.ErrOrStderr())
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to a YAML configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initApp loads the configuration and builds the logger.
func initApp(w io.Writer) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger, err = newLogger(w, level)
	return err
}

// newLogger builds the key-value logger used across the application.
func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "infra3",
	})
	l.SetLevel(lvl)
	return l, nil
}
