// =============================================================================
// csv2xlsx - Delimiter/Quote Sniffer
// =============================================================================
//
// The sniffer looks at the first line of an input file and checks whether the
// configured delimiter and quote character are plausible. Each candidate is
// scored by the number of pieces a plain split of the line produces; the
// candidate with the strictly highest score is suggested. When a suggestion
// differs from the configured value, a Confirmer decides whether to use it.
//
// CANDIDATES:
//   Delimiters: ','  ';'  '|'  TAB
//   Quotes:     '"'  '\''
//
// =============================================================================

package sniffer

import (
	"fmt"
	"io"
	"strings"

	"github.com/sin4ts/csv2xlsx/internal/config"
	"github.com/sin4ts/csv2xlsx/internal/csvparser"
)

// CommonDelimiters are tried, in order, against the configured delimiter.
var CommonDelimiters = []rune{',', ';', '|', '\t'}

// CommonQuoteChars are tried, in order, against the configured quote.
var CommonQuoteChars = []rune{'"', '\''}

// Suggest returns the delimiter and quote character that split line into
// the most pieces. The configured values win ties. A zero quote (quoting
// disabled) scores one piece.
func Suggest(line string, delimiter, quote rune) (rune, rune) {
	suggestedDelimiter := best(line, delimiter, CommonDelimiters)
	suggestedQuote := best(line, quote, CommonQuoteChars)
	return suggestedDelimiter, suggestedQuote
}

func best(line string, current rune, candidates []rune) rune {
	suggested := current
	maxCount := splitCount(line, current)
	for _, candidate := range candidates {
		if count := splitCount(line, candidate); count > maxCount {
			maxCount = count
			suggested = candidate
		}
	}
	return suggested
}

func splitCount(line string, sep rune) int {
	if sep == 0 {
		return 1
	}
	return strings.Count(line, string(sep)) + 1
}

// Sniff checks settings against the first line of filePath and returns the
// settings to parse the file with. Notices are written to out; each
// differing suggestion is put to confirmer.
//
// RETURNS:
//   - The settings with the accepted suggestions applied.
//   - An error if the file cannot be read or the confirmer fails.
func Sniff(filePath string, settings config.CSVSettings, confirmer Confirmer, out io.Writer) (config.CSVSettings, error) {
	line, err := csvparser.ReadFirstLine(filePath, settings)
	if err != nil {
		return settings, fmt.Errorf("failed to sniff %s: %w", filePath, err)
	}

	delimiter, quote := Suggest(line, settings.Delimiter, settings.QuoteChar)
	delimiterDiffers := delimiter != settings.Delimiter
	quoteDiffers := quote != settings.QuoteChar

	switch {
	case delimiterDiffers && quoteDiffers:
		fmt.Fprintf(out, "It looks like the delimiter and quotechar you have specified are not valid for %s. The following were detected:\n", filePath)
	case delimiterDiffers:
		fmt.Fprintf(out, "It looks like the delimiter you have specified is not valid for %s. The following was detected:\n", filePath)
	case quoteDiffers:
		fmt.Fprintf(out, "It looks like the quotechar you have specified is not valid for %s. The following was detected:\n", filePath)
	}

	if delimiterDiffers {
		ok, err := confirmer.Confirm(fmt.Sprintf("Delimiter: %s ?", DisplayRune(delimiter)))
		if err != nil {
			return settings, err
		}
		if ok {
			settings.Delimiter = delimiter
		}
	}

	if quoteDiffers {
		ok, err := confirmer.Confirm(fmt.Sprintf("Quotechar: %s ?", DisplayRune(quote)))
		if err != nil {
			return settings, err
		}
		if ok {
			settings.QuoteChar = quote
		}
	}

	return settings, nil
}

// DisplayRune renders a delimiter or quote for humans.
func DisplayRune(r rune) string {
	switch r {
	case '\t':
		return "TAB"
	case 0:
		return "NONE"
	}
	return string(r)
}
