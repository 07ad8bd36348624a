// =============================================================================
// CAMEO to CSV Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the CAMEO to CSV Converter CLI. It hands
// control to the Cobra root command in the cmd package.
//
// USAGE:
//   cameo2csv               - Convert the CAMEO listing to CSV on stdout
//   cameo2csv convert       - Same as above, as an explicit subcommand
//   cameo2csv version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Conversion logic, source loading, writers, config
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/cameo-to-csv/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
