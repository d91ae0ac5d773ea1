// =============================================================================
// INFRA3 Curator - Serve Command
// =============================================================================
//
// This file defines the 'serve' command, which starts the upload page and
// the conversion API.
//
// COMMAND USAGE:
//   infra3 serve [--addr :8080]
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/infra3-curator/internal/server"
)

// serveAddr overrides the configured listen address.
var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload page and conversion API",
	Long: `The serve command starts an HTTP server with:

  GET  /             upload form
  POST /api/convert  multipart "file" upload, returns the INFRA3 workbook
  GET  /healthz      liveness
  GET  /metrics      Prometheus metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}
		return server.New(cfg, logger).Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(
		&serveAddr,
		"addr",
		"",
		"Listen address (overrides server.addr)",
	)
}
