package xlsxwriter

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/sin4ts/csv2xlsx/internal/types"
)

// MaxColumnWidth caps auto-sized column widths.
const MaxColumnWidth = 150

// WidthProfile tracks the longest value seen in each column.
// Rows shorter than the profile leave the remaining columns untouched.
type WidthProfile struct {
	widths  []int
	measure func(string) int
}

// NewWidthProfile returns an empty profile. With wide set, values are
// measured in terminal cells, so East Asian wide runes count double.
func NewWidthProfile(wide bool) *WidthProfile {
	measure := utf8.RuneCountInString
	if wide {
		measure = runewidth.StringWidth
	}
	return &WidthProfile{measure: measure}
}

// Observe folds one row into the running maximums.
func (p *WidthProfile) Observe(row types.Row) {
	for i, cell := range row {
		width := p.measure(cell)
		if i >= len(p.widths) {
			p.widths = append(p.widths, width)
			continue
		}
		if width > p.widths[i] {
			p.widths[i] = width
		}
	}
}

// Widths returns the uncapped maximum per column.
func (p *WidthProfile) Widths() []int {
	return append([]int(nil), p.widths...)
}

// ColumnWidths computes the uncapped width profile of a whole buffer.
func ColumnWidths(rows types.RowBuffer, wide bool) []int {
	profile := NewWidthProfile(wide)
	for _, row := range rows {
		profile.Observe(row)
	}
	return profile.Widths()
}
