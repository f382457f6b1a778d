package xlsxwriter

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxSheetNameLength is the longest worksheet name a workbook accepts.
	MaxSheetNameLength = 31

	// DefaultSheetTitle replaces a title that sanitizes to nothing.
	DefaultSheetTitle = "Sheet"
)

// invalidSheetNameChars may not appear anywhere in a worksheet name.
var invalidSheetNameChars = strings.NewReplacer(
	"[", "_", "]", "_", ":", "_", "*", "_",
	"?", "_", "/", "_", `\`, "_",
)

// UniqueSheetName returns title, truncated to MaxSheetNameLength, or on
// collision the first characters of title followed by a zero-padded counter
// ("report001", "report002", ...). Existing names are compared
// case-insensitively. The counter widens past 999 and the prefix shrinks so
// the name never exceeds MaxSheetNameLength.
func UniqueSheetName(title string, existing []string) string {
	name := clip(title, MaxSheetNameLength)
	for index := 1; containsFold(existing, name); index++ {
		suffix := fmt.Sprintf("%03d", index)
		name = clip(title, MaxSheetNameLength-len(suffix)) + suffix
	}
	return name
}

// SanitizeSheetTitle replaces characters a worksheet name may not contain.
func SanitizeSheetTitle(title string) string {
	title = invalidSheetNameChars.Replace(title)
	if strings.HasPrefix(title, "'") {
		title = "_" + title[1:]
	}
	if title == "" {
		return DefaultSheetTitle
	}
	return title
}

// FilterSafeTitle replaces every apostrophe in title with an underscore.
func FilterSafeTitle(title string) string {
	return strings.ReplaceAll(title, "'", "_")
}

// clip truncates s to at most n runes. A trailing apostrophe left by the cut
// becomes an underscore, since a worksheet name may not end with one.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) > n {
		s = string([]rune(s)[:n])
	}
	if strings.HasSuffix(s, "'") {
		s = s[:len(s)-1] + "_"
	}
	return s
}

func containsFold(names []string, name string) bool {
	for _, existing := range names {
		if strings.EqualFold(existing, name) {
			return true
		}
	}
	return false
}
