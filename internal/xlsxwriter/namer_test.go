package xlsxwriter

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestUniqueSheetName(t *testing.T) {
	assert.Equal(t, "report", UniqueSheetName("report", nil))
	assert.Equal(t, "report001", UniqueSheetName("report", []string{"report"}))
	assert.Equal(t, "report002", UniqueSheetName("report", []string{"report", "report001"}))
}

// TestUniqueSheetNameCaseInsensitive verifies names differing only in case
// count as collisions, as they do inside a workbook.
func TestUniqueSheetNameCaseInsensitive(t *testing.T) {
	assert.Equal(t, "report001", UniqueSheetName("report", []string{"REPORT"}))
}

func TestUniqueSheetNameTruncates(t *testing.T) {
	title := strings.Repeat("x", 40)

	first := UniqueSheetName(title, nil)
	assert.Equal(t, strings.Repeat("x", MaxSheetNameLength), first)

	second := UniqueSheetName(title, []string{first})
	assert.Equal(t, strings.Repeat("x", 28)+"001", second)
	assert.Len(t, second, MaxSheetNameLength)
}

func TestUniqueSheetNameBeyond999(t *testing.T) {
	title := strings.Repeat("y", 31)
	existing := []string{title}
	for i := 1; i <= 999; i++ {
		existing = append(existing, fmt.Sprintf("%s%03d", strings.Repeat("y", 28), i))
	}

	name := UniqueSheetName(title, existing)
	assert.Equal(t, strings.Repeat("y", 27)+"1000", name)
	assert.LessOrEqual(t, utf8.RuneCountInString(name), MaxSheetNameLength)
}

func TestUniqueSheetNameCountsRunes(t *testing.T) {
	title := strings.Repeat("é", 35)
	name := UniqueSheetName(title, nil)
	assert.Equal(t, MaxSheetNameLength, utf8.RuneCountInString(name))
}

func TestSanitizeSheetTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"sales", "sales"},
		{"2024/01:sales", "2024_01_sales"},
		{"[draft]*?", "_draft___"},
		{`a\b`, "a_b"},
		{"'quoted", "_quoted"},
		{"", DefaultSheetTitle},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeSheetTitle(tt.input), "input %q", tt.input)
	}
}

func TestFilterSafeTitle(t *testing.T) {
	assert.Equal(t, "bob_s data", FilterSafeTitle("bob's data"))
	assert.Equal(t, "plain", FilterSafeTitle("plain"))
}

func TestClipReplacesTrailingApostrophe(t *testing.T) {
	title := strings.Repeat("a", 30) + "'b"
	name := UniqueSheetName(title, nil)
	assert.Equal(t, strings.Repeat("a", 30)+"_", name)
}
