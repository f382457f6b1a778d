// =============================================================================
// csv2xlsx - Converter Module
// =============================================================================
//
// This module is the batch orchestrator. It walks the input paths, loads each
// selected file, writes it as a worksheet and decides when workbooks are
// opened and flushed.
//
// CONVERSION PIPELINE (per input file):
//   1. Resolve the input: directory, file, or skip
//   2. Optionally sniff the delimiter and quote character
//   3. Load the file into a row buffer
//   4. Open a workbook if none is open
//   5. Write the rows as a new worksheet
//   6. Flush the workbook now (no merge) or keep it for the next file (merge)
//
// TRAVERSAL:
//   Directories are walked depth-first with an explicit stack, so deep trees
//   do not grow the call stack. The single open workbook lives on the
//   Converter and is handed from file to file; nothing else holds it.
//
// FAILURES:
//   Any failure stops the whole run. An open workbook that was not yet
//   flushed is discarded, so no partial output is written for it.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sin4ts/csv2xlsx/internal/config"
	"github.com/sin4ts/csv2xlsx/internal/csvparser"
	"github.com/sin4ts/csv2xlsx/internal/sniffer"
	"github.com/sin4ts/csv2xlsx/internal/xlsxwriter"
	"github.com/sin4ts/csv2xlsx/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result summarizes a completed run.
type Result struct {
	// Outputs lists the workbooks written, in the order they were flushed.
	Outputs []string

	// FilesConverted is the number of input files written as worksheets.
	FilesConverted int

	// Sheets maps each output workbook to its worksheet names.
	Sheets map[string][]string
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs one batch conversion. It is not safe for concurrent use.
type Converter struct {
	settings *config.Settings

	// confirmer answers the sniffer's questions.
	confirmer sniffer.Confirmer

	// out receives the progress lines shown to the user.
	out io.Writer

	logger Logger

	// current is the open workbook, or nil between workbooks.
	current *xlsxwriter.Workbook

	result Result
}

// workItem is one pending path of the traversal.
type workItem struct {
	path string

	// topLevel marks paths named on the command line. They are converted
	// regardless of the filename filter.
	topLevel bool
}

// New creates a Converter.
//
// PARAMETERS:
//   - settings: The resolved run settings. Output must already have been
//     through ResolveOutput.
//   - confirmer: Answers sniffer questions; ignored when settings.Verify is off.
//   - out: Receives progress lines.
//   - logger: Receives diagnostics. Nil discards them.
func New(settings *config.Settings, confirmer sniffer.Confirmer, out io.Writer, logger Logger) *Converter {
	if confirmer == nil {
		confirmer = sniffer.AutoReject{}
	}
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = NopLogger()
	}

	return &Converter{
		settings:  settings,
		confirmer: confirmer,
		out:       out,
		logger:    logger,
		result:    Result{Sheets: make(map[string][]string)},
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run converts every input path, in order.
//
// RETURNS:
//   - A Result describing what was written.
//   - The first error encountered; the run stops there.
func (c *Converter) Run(ctx context.Context, inputs []string) (result Result, err error) {
	defer func() {
		if err != nil && c.current != nil {
			c.logger.Debug("discarding unsaved workbook %s", c.current.Path())
			_ = c.current.Discard()
			c.current = nil
		}
	}()

	for _, input := range inputs {
		if err := c.processInput(ctx, input); err != nil {
			return c.result, err
		}
	}

	if c.current != nil {
		if err := c.flush(); err != nil {
			return c.result, err
		}
	}

	return c.result, nil
}

// processInput walks one command-line path.
func (c *Converter) processInput(ctx context.Context, input string) error {
	stack := []workItem{{path: input, topLevel: true}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		info, err := os.Stat(item.path)
		if err != nil {
			if item.topLevel {
				return c.fail(item.path, err)
			}
			c.logger.Debug("skipping %s: %v", item.path, err)
			continue
		}

		switch {
		case info.IsDir():
			if !item.topLevel && !c.settings.Recurse {
				c.logger.Debug("skipping directory %s (recursion disabled)", item.path)
				continue
			}

			names, err := utils.ListDir(item.path)
			if err != nil {
				return err
			}

			// Pushed in reverse so entries are handled in listing order.
			for i := len(names) - 1; i >= 0; i-- {
				stack = append(stack, workItem{path: filepath.Join(item.path, names[i])})
			}

		case item.topLevel || (info.Mode().IsRegular() && c.accepts(info.Name())):
			if err := c.processFile(item.path); err != nil {
				return err
			}

		default:
			c.logger.Debug("skipping %s (filtered)", item.path)
		}
	}

	return nil
}

// accepts reports whether a directory entry passes the filename filter.
func (c *Converter) accepts(name string) bool {
	return c.settings.Filter == nil || c.settings.Filter.MatchString(name)
}

// processFile converts one input file into a worksheet of the current
// workbook, opening and flushing workbooks as the merge mode requires.
func (c *Converter) processFile(path string) error {
	csvSettings := c.settings.CSV

	if c.settings.Verify {
		var err error
		csvSettings, err = sniffer.Sniff(path, csvSettings, c.confirmer, c.out)
		if err != nil {
			return c.fail(path, err)
		}
	}

	c.logger.Debug("loading %s (delimiter %s, quote %s, encoding %s)", path,
		sniffer.DisplayRune(csvSettings.Delimiter), sniffer.DisplayRune(csvSettings.QuoteChar), csvSettings.Encoding)

	rows, err := csvparser.Load(path, csvSettings)
	if err != nil {
		return c.fail(path, err)
	}

	if c.current == nil {
		if err := c.open(path); err != nil {
			return c.fail(path, err)
		}
	}

	sheet, err := xlsxwriter.WriteSheet(c.current, SheetTitle(path), rows, c.sheetOptions())
	if err != nil {
		return c.fail(path, err)
	}

	c.logger.Debug("wrote %d row(s) from %s to sheet %q of %s", len(rows), path, sheet, c.current.Path())
	fmt.Fprintf(c.out, "Imported: %s\n", path)
	c.result.FilesConverted++
	c.result.Sheets[c.current.Path()] = c.current.SheetNames()

	outcome, err := xlsxwriter.Finish(c.current, !c.settings.Merge)
	if err != nil {
		c.current = nil
		return c.fail(path, err)
	}
	c.handle(outcome)

	return nil
}

// fail reports a file that could not be converted and returns the error
// that aborts the run.
func (c *Converter) fail(path string, err error) error {
	fmt.Fprintf(c.out, "Failed to process file: %s\n", path)
	c.logger.Error("failed to process file %s: %v", path, err)
	return fmt.Errorf("failed to process file %s: %w", path, err)
}

// open creates the workbook that the next sheets are written to.
func (c *Converter) open(inputPath string) error {
	if c.settings.Output != "" {
		if err := utils.EnsureParentDir(c.settings.Output); err != nil {
			return err
		}
	}

	outputPath := OutputPath(inputPath, c.settings.Output)
	wb, err := xlsxwriter.Create(outputPath, c.settings.Overwrite)
	if err != nil {
		return err
	}

	c.logger.Debug("opened workbook %s", outputPath)
	c.current = wb
	return nil
}

// flush saves and releases the current workbook.
func (c *Converter) flush() error {
	outcome, err := xlsxwriter.Finish(c.current, true)
	if err != nil {
		c.current = nil
		return err
	}
	c.handle(outcome)
	return nil
}

// handle records the state of the current workbook after a write.
func (c *Converter) handle(outcome xlsxwriter.Outcome) {
	switch o := outcome.(type) {
	case xlsxwriter.Ongoing:
		c.current = o.Workbook
	case xlsxwriter.Completed:
		c.current = nil
		c.logger.Info("saved workbook %s", o.Path)
		fmt.Fprintf(c.out, "Data written to %s\n", o.Path)
		c.result.Outputs = append(c.result.Outputs, o.Path)
	}
}

func (c *Converter) sheetOptions() xlsxwriter.SheetOptions {
	return xlsxwriter.SheetOptions{
		Header:         c.settings.Header,
		AutoSize:       c.settings.AutoSize,
		FilterFirstRow: c.settings.FilterFirstRow,
		FreezeFirstRow: c.settings.FreezeFirstRow,
		WideChars:      c.settings.WideChars,
	}
}
