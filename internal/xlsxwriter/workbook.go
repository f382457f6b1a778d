// =============================================================================
// csv2xlsx - XLSX Workbook Writer
// =============================================================================
//
// This module wraps an excelize workbook bound to one output path. A Workbook
// is created when the first sheet of a run (or of a non-merged file) is about
// to be written, receives one worksheet per input file, and is closed exactly
// once: either flushed to disk (Close) or dropped (Discard).
//
// SAVING:
//   The workbook is serialized to a uniquely named temporary file beside the
//   destination and renamed into place. A failed save never leaves a partial
//   workbook and never touches an earlier output.
//
// =============================================================================

package xlsxwriter

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/sin4ts/csv2xlsx/pkg/utils"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrDestinationExists matches every DestinationExistsError.
var ErrDestinationExists = errors.New("destination already exists")

// ErrWorkbookClosed is returned when a closed workbook is used again.
var ErrWorkbookClosed = errors.New("workbook already closed")

// DestinationExistsError reports an output path that already exists while
// overwriting was not requested.
type DestinationExistsError struct {
	Path string
}

func (e *DestinationExistsError) Error() string {
	return fmt.Sprintf("File already exists: %s", e.Path)
}

func (e *DestinationExistsError) Is(target error) bool {
	return target == ErrDestinationExists
}

// =============================================================================
// WORKBOOK
// =============================================================================

// Workbook is an append-only set of worksheets bound to one output path.
type Workbook struct {
	file      *excelize.File
	path      string
	overwrite bool
	sheets    []string

	// headerStyle is the bold style ID, created on first use.
	headerStyle int

	closed bool
}

// Create starts a new, empty workbook that will be saved to path.
//
// RETURNS:
//   - The workbook.
//   - A *DestinationExistsError if path exists and overwrite is false.
func Create(path string, overwrite bool) (*Workbook, error) {
	if !overwrite && utils.FileExists(path) {
		return nil, &DestinationExistsError{Path: path}
	}

	return &Workbook{
		file:      excelize.NewFile(),
		path:      path,
		overwrite: overwrite,
	}, nil
}

// Path returns the output path the workbook is bound to.
func (w *Workbook) Path() string {
	return w.path
}

// SheetNames returns the worksheet names in creation order.
func (w *Workbook) SheetNames() []string {
	return append([]string(nil), w.sheets...)
}

// addSheet creates a worksheet with a unique name derived from title.
func (w *Workbook) addSheet(title string) (string, error) {
	if w.closed {
		return "", ErrWorkbookClosed
	}

	name := UniqueSheetName(SanitizeSheetTitle(title), w.sheets)

	// A new excelize file starts with one default sheet; the first worksheet
	// takes it over instead of leaving it empty.
	if len(w.sheets) == 0 {
		if err := w.file.SetSheetName(w.file.GetSheetName(0), name); err != nil {
			return "", fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return "", fmt.Errorf("failed to create sheet %q: %w", name, err)
	}

	w.sheets = append(w.sheets, name)
	return name, nil
}

// boldStyle returns the header style, creating it once per workbook.
func (w *Workbook) boldStyle() (int, error) {
	if w.headerStyle != 0 {
		return w.headerStyle, nil
	}

	style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, fmt.Errorf("failed to create header style: %w", err)
	}
	w.headerStyle = style
	return style, nil
}

// Close flushes the workbook to its path and releases it.
func (w *Workbook) Close() error {
	if w.closed {
		return ErrWorkbookClosed
	}
	w.closed = true
	defer w.file.Close()

	if !w.overwrite && utils.FileExists(w.path) {
		return &DestinationExistsError{Path: w.path}
	}

	err := utils.AtomicWrite(w.path, func(out io.Writer) error {
		_, err := w.file.WriteTo(out)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", w.path, err)
	}
	return nil
}

// Discard releases the workbook without writing anything.
func (w *Workbook) Discard() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}
