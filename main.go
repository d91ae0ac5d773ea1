// =============================================================================
// INFRA3 Curator - Main Entry Point
// =============================================================================
//
// USAGE:
//   infra3 convert <input>...  - Convert pipeline exports to INFRA3 workbooks
//   infra3 serve               - Serve the upload page and conversion API
//   infra3 version             - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Readers, conversion engine, workbook writer, HTTP surface
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/infra3-curator/cmd"
)

func main() {
	cmd.Execute()
}
