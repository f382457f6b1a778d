// =============================================================================
// csv2xlsx - Main Entry Point
// =============================================================================
//
// This is the main entry point for the csv2xlsx CLI application. It delegates
// command execution to the cmd package.
//
// USAGE:
//   csv2xlsx [flags] INPUT...
//
// ARCHITECTURE:
//   - cmd/                 : Cobra root command, flag handling, exit codes
//   - internal/config      : Defaults, config file loading, settings
//   - internal/csvparser   : Decoding and CSV reading
//   - internal/sniffer     : Delimiter/quote detection and confirmation
//   - internal/xlsxwriter  : Workbooks, worksheets, sheet naming, layout
//   - internal/converter   : Batch orchestration over files and directories
//   - pkg/utils            : Filesystem helpers
//
// =============================================================================

package main

import (
	"github.com/sin4ts/csv2xlsx/cmd"
)

func main() {
	cmd.Execute()
}
