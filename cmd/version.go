// =============================================================================
// csv2xlsx - Version Information
// =============================================================================
//
// Version and BuildDate are set at build time using ldflags:
//   go build -ldflags "-X 'github.com/sin4ts/csv2xlsx/cmd.Version=1.2'"
//
// OUTPUT (--version):
//   csv2xlsx 1.2
//
// With --verbose the build date and Go runtime are printed as well.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"runtime"
)

// Version is the application version.
var Version = "1.2"

// BuildDate is the date the application was built.
var BuildDate = "unknown"

// printVersion writes the version line.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "csv2xlsx %s\n", Version)
}

// printBuildInfo writes the build details shown with --version --verbose.
func printBuildInfo(w io.Writer) {
	fmt.Fprintf(w, "Build Date: %s\n", BuildDate)
	fmt.Fprintf(w, "Go Version: %s\n", runtime.Version())
}
