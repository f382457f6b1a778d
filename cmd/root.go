// =============================================================================
// csv2xlsx - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. csv2xlsx has no
// subcommands: the root command takes the input paths as positional
// arguments and runs the conversion (see convert.go).
//
// COMMAND USAGE:
//   csv2xlsx [flags] INPUT...
//
// EXIT CODES:
//   0 : success, --version, or no input given
//   1 : configuration conflict, invalid option, or any other failure
//   2 : an output workbook already exists and --overwrite was not given
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sin4ts/csv2xlsx/internal/types"
	"github.com/sin4ts/csv2xlsx/internal/xlsxwriter"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// flags holds the raw command-line values. Only the flags the user actually
// set override the config file; see applyFlags.
type flags struct {
	cfgFile string
	version bool

	output         string
	delimiter      string
	quoteChar      string
	encoding       string
	encodingErrors string
	filter         string

	noHeader   bool
	noVerify   bool
	noMerge    bool
	noAutoSize bool
	noFilter   bool
	noFreeze   bool
	overwrite  bool
	recurse    bool
	assumeYes  bool
	wideChars  bool
	verbose    bool
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// newRootCmd builds the root command. stdin is where interactive answers
// are read from.
func newRootCmd(stdin io.Reader) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "csv2xlsx [flags] INPUT...",
		Short: "Convert CSV files into XLSX workbooks",
		Long: `csv2xlsx converts delimited text files into Excel workbooks.

Each input file becomes one worksheet. By default all inputs are merged into
a single workbook; --no-merge writes one workbook per file. Directories are
scanned for files matching --filter, and descended into with --recurse.

Before each file is read, the delimiter and quote character are checked
against the file's first line and a better candidate is offered for
confirmation. Use --no-verify to skip this, or --yes to accept every
suggestion.

Example Usage:
  csv2xlsx report.csv                     # writes report.xlsx
  csv2xlsx -o all.xlsx jan.csv feb.csv    # one workbook, two sheets
  csv2xlsx --no-merge -o out/ exports/    # one workbook per file in out/
  csv2xlsx -d ';' -e latin1 legacy.csv    # semicolons, ISO-8859-1 input`,

		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, f, args, stdin)
		},
	}

	// ==========================================================================
	// OUTPUT AND INPUT FORMAT
	// ==========================================================================

	fs := cmd.Flags()
	fs.StringVarP(&f.output, "output", "o", "", "Output file or directory")
	fs.StringVarP(&f.delimiter, "delimiter", "d", ",", "Field delimiter (TAB for a tab character)")
	fs.StringVarP(&f.quoteChar, "quotechar", "q", `"`, "Quote character (NONE to disable quoting)")
	fs.StringVarP(&f.encoding, "encoding", "e", "utf-8", "Input character encoding")
	fs.StringVar(&f.encodingErrors, "encoding-errors", "strict",
		"Decoding error handling: strict|ignore|replace|backslashreplace|surrogateescape")

	// ==========================================================================
	// BEHAVIOUR
	// ==========================================================================

	fs.BoolVar(&f.noHeader, "no-header", false, "Treat the first row as data")
	fs.BoolVar(&f.noVerify, "no-verify", false, "Do not check the delimiter and quote character")
	fs.BoolVarP(&f.assumeYes, "yes", "y", false, "Accept every delimiter/quote suggestion without asking")
	fs.BoolVar(&f.noMerge, "no-merge", false, "Write one workbook per input file")
	fs.StringVarP(&f.filter, "filter", "f", `(?i).*\.csv$`, "Regular expression selecting files inside directories")
	fs.BoolVarP(&f.overwrite, "overwrite", "O", false, "Overwrite existing output files")
	fs.BoolVarP(&f.recurse, "recurse", "r", false, "Descend into subdirectories")

	// ==========================================================================
	// LAYOUT
	// ==========================================================================

	fs.BoolVar(&f.noAutoSize, "no-autosize", false, "Do not size columns to their content")
	fs.BoolVar(&f.noFilter, "no-filter", false, "Do not add an autofilter to the header row")
	fs.BoolVar(&f.noFreeze, "no-freeze", false, "Do not freeze the header row")
	fs.BoolVar(&f.wideChars, "wide-chars", false, "Measure column widths in terminal cells")

	// ==========================================================================
	// MISC
	// ==========================================================================

	fs.StringVar(&f.cfgFile, "config", "", "Path to a YAML or JSON configuration file")
	fs.BoolVar(&f.verbose, "verbose", false, "Enable debug logging on stderr")
	fs.BoolVarP(&f.version, "version", "v", false, "Print the version and exit")

	return cmd
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI with the process arguments and exits with the
// resulting status. It is called by main.main().
func Execute() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// execute runs the root command and maps its error to an exit code.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdin)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return int(types.ExitSuccess)
	}

	return reportError(stderr, err)
}

// reportError prints err for the user and returns the exit code it maps to.
func reportError(w io.Writer, err error) int {
	var exists *xlsxwriter.DestinationExistsError
	var cliErr *types.CLIError

	switch {
	case errors.As(err, &exists):
		fmt.Fprintln(w, exists.Error())
		fmt.Fprintln(w, "Export aborted")
		return int(types.ExitDestinationExists)

	case errors.Is(err, context.Canceled):
		fmt.Fprintln(w, "Interrupted")
		fmt.Fprintln(w, "Export aborted")
		return int(types.ExitGeneralError)

	case errors.As(err, &cliErr):
		fmt.Fprintf(w, "Error: %v\n", cliErr)
		return int(cliErr.Code)

	default:
		fmt.Fprintf(w, "Error: %v\n", err)
		return int(types.ExitGeneralError)
	}
}
