package xlsxwriter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sin4ts/csv2xlsx/internal/types"
)

// SheetOptions controls the layout of a written worksheet.
type SheetOptions struct {
	// Header styles row 0 in bold. FilterFirstRow and FreezeFirstRow only
	// apply when Header is set.
	Header bool

	// AutoSize sets each column width to its longest value, capped at
	// MaxColumnWidth.
	AutoSize bool

	FilterFirstRow bool
	FreezeFirstRow bool

	// WideChars measures widths in terminal cells rather than runes.
	WideChars bool
}

// CoerceCell returns the value to store for a raw field: an int64 when the
// whole field (surrounding spaces allowed) is a base-10 integer that fits in
// 64 bits, otherwise the field unchanged.
func CoerceCell(raw string) interface{} {
	if n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
		return n
	}
	return raw
}

// WriteSheet adds one worksheet holding rows to wb.
//
// PARAMETERS:
//   - wb: The open workbook.
//   - title: The desired worksheet name; made unique within wb.
//   - rows: The rows to write, possibly empty or ragged.
//   - opts: Layout options.
//
// RETURNS:
//   - The worksheet name actually used.
//   - An error if the workbook rejects a write.
func WriteSheet(wb *Workbook, title string, rows types.RowBuffer, opts SheetOptions) (string, error) {
	maxCols := rows.MaxColumns()
	filtered := opts.Header && opts.FilterFirstRow && maxCols > 0

	// The autofilter range is stored as a defined name that quotes the
	// sheet name, so the name must not contain apostrophes of its own.
	if filtered {
		title = FilterSafeTitle(title)
	}

	name, err := wb.addSheet(title)
	if err != nil {
		return "", err
	}
	f := wb.file

	for rowIndex, row := range rows {
		if len(row) == 0 {
			continue
		}

		values := make([]interface{}, len(row))
		for i, cell := range row {
			values[i] = CoerceCell(cell)
		}

		start, err := excelize.CoordinatesToCellName(1, rowIndex+1)
		if err != nil {
			return name, err
		}
		if err := f.SetSheetRow(name, start, &values); err != nil {
			return name, fmt.Errorf("failed to write row %d: %w", rowIndex+1, err)
		}

		if rowIndex == 0 && opts.Header {
			if err := styleHeader(wb, name, len(row)); err != nil {
				return name, err
			}
		}
	}

	if filtered {
		if err := autoFilter(f, name, len(rows), maxCols); err != nil {
			return name, err
		}
	}
	if opts.Header && opts.FreezeFirstRow && maxCols > 0 {
		if err := freezeFirstRow(f, name); err != nil {
			return name, err
		}
	}

	if opts.AutoSize {
		for i, width := range ColumnWidths(rows, opts.WideChars) {
			col, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return name, err
			}
			if err := f.SetColWidth(name, col, col, float64(min(width, MaxColumnWidth))); err != nil {
				return name, fmt.Errorf("failed to size column %s: %w", col, err)
			}
		}
	}

	return name, nil
}

func styleHeader(wb *Workbook, sheet string, cols int) error {
	style, err := wb.boldStyle()
	if err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	if err := wb.file.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}
	return nil
}

func autoFilter(f *excelize.File, sheet string, rows, cols int) error {
	last, err := excelize.CoordinatesToCellName(cols, rows)
	if err != nil {
		return err
	}
	if err := f.AutoFilter(sheet, "A1:"+last, nil); err != nil {
		return fmt.Errorf("failed to add autofilter: %w", err)
	}
	return nil
}

func freezeFirstRow(f *excelize.File, sheet string) error {
	err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
		Selection: []excelize.Selection{
			{SQRef: "A2", ActiveCell: "A2", Pane: "bottomLeft"},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}
	return nil
}
