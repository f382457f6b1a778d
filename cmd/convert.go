// =============================================================================
// csv2xlsx - Conversion Command
// =============================================================================
//
// This file holds the body of the root command: it builds the run settings
// and hands the inputs to the converter.
//
// PROCESSING PIPELINE:
//   1. Handle --version and an empty input list
//   2. Load the config file (if any) and apply explicitly set flags
//   3. Validate and resolve the settings
//   4. Resolve the output path (merge default, --no-merge conflict)
//   5. Choose how sniffer suggestions are confirmed
//   6. Run the converter until done or interrupted
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sin4ts/csv2xlsx/internal/config"
	"github.com/sin4ts/csv2xlsx/internal/converter"
	"github.com/sin4ts/csv2xlsx/internal/csvparser"
	"github.com/sin4ts/csv2xlsx/internal/sniffer"
	"github.com/sin4ts/csv2xlsx/internal/types"
)

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runConvert is the RunE of the root command.
func runConvert(cmd *cobra.Command, f *flags, args []string, stdin io.Reader) error {
	out := cmd.OutOrStdout()

	if f.version {
		printVersion(out)
		if f.verbose {
			printBuildInfo(out)
		}
		return nil
	}

	if len(args) == 0 {
		fmt.Fprintln(out, "No input provided")
		return nil
	}

	// =========================================================================
	// STEP 1: BUILD SETTINGS
	// =========================================================================

	opts := config.Default()
	if f.cfgFile != "" {
		loaded, err := config.Load(f.cfgFile)
		if err != nil {
			return types.WrapCLIError(types.ExitGeneralError, "invalid configuration", err)
		}
		opts = loaded
	}
	applyFlags(cmd, f, &opts)

	settings, err := opts.Resolve()
	if err != nil {
		return types.WrapCLIError(types.ExitGeneralError, "invalid option", err)
	}
	if _, err := csvparser.LookupEncoding(settings.CSV.Encoding); err != nil {
		return types.WrapCLIError(types.ExitGeneralError, "invalid option", err)
	}

	// =========================================================================
	// STEP 2: RESOLVE OUTPUT
	// =========================================================================

	settings.Output, err = converter.ResolveOutput(args, settings)
	if err != nil {
		return err
	}

	logger := converter.NewLogger(cmd.ErrOrStderr(), settings.Verbose)
	logger.Debug("output %q, merge %t, verify %t, filter %v", settings.Output, settings.Merge, settings.Verify, settings.Filter)

	// =========================================================================
	// STEP 3: RUN
	// =========================================================================

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	conv := converter.New(settings, chooseConfirmer(settings, stdin, out), out, logger)
	result, err := conv.Run(ctx, args)
	if err != nil {
		return err
	}

	logger.Debug("converted %d file(s) into %d workbook(s)", result.FilesConverted, len(result.Outputs))
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// applyFlags copies every explicitly set flag over the loaded options, so a
// config file supplies defaults and the command line has the last word.
func applyFlags(cmd *cobra.Command, f *flags, opts *config.Options) {
	changed := cmd.Flags().Changed

	strs := []struct {
		name string
		dst  *string
		src  string
	}{
		{"output", &opts.Output, f.output},
		{"delimiter", &opts.Delimiter, f.delimiter},
		{"quotechar", &opts.QuoteChar, f.quoteChar},
		{"encoding", &opts.Encoding, f.encoding},
		{"encoding-errors", &opts.EncodingErrors, f.encodingErrors},
		{"filter", &opts.Filter, f.filter},
	}
	for _, s := range strs {
		if changed(s.name) {
			*s.dst = s.src
		}
	}

	bools := []struct {
		name string
		dst  *bool
		src  bool
	}{
		{"no-header", &opts.NoHeader, f.noHeader},
		{"no-verify", &opts.NoVerify, f.noVerify},
		{"no-merge", &opts.NoMerge, f.noMerge},
		{"no-autosize", &opts.NoAutoSize, f.noAutoSize},
		{"no-filter", &opts.NoFilter, f.noFilter},
		{"no-freeze", &opts.NoFreeze, f.noFreeze},
		{"overwrite", &opts.Overwrite, f.overwrite},
		{"recurse", &opts.Recurse, f.recurse},
		{"yes", &opts.AssumeYes, f.assumeYes},
		{"wide-chars", &opts.WideChars, f.wideChars},
		{"verbose", &opts.Verbose, f.verbose},
	}
	for _, b := range bools {
		if changed(b.name) {
			*b.dst = b.src
		}
	}
}

// chooseConfirmer picks how sniffer suggestions are answered: --yes accepts
// them all, a terminal on stdin is asked, and anything else keeps the
// configured values.
func chooseConfirmer(settings *config.Settings, stdin io.Reader, out io.Writer) sniffer.Confirmer {
	if settings.AssumeYes {
		return sniffer.AutoAccept{}
	}
	if file, ok := stdin.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return sniffer.NewInteractive(stdin, out)
	}
	return sniffer.AutoReject{}
}
