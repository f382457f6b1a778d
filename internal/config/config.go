// =============================================================================
// csv2xlsx - Configuration Module
// =============================================================================
//
// This module owns every user-tunable setting of a conversion run. Settings
// come from three layers, later layers winning:
//   1. Built-in defaults (Default)
//   2. An optional config file (--config), YAML or JSON with comments
//   3. Command-line flags that were explicitly set
//
// The raw Options struct mirrors the CLI surface. Resolve turns it into the
// typed Settings consumed by the parser, the sniffer, the sheet writer and the
// batch orchestrator.
//
// =============================================================================

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultOutputFilename is used when several inputs are merged and no
	// --output was given.
	DefaultOutputFilename = "csv2xlsx-output.xlsx"

	// DefaultDelimiter is the field separator assumed for input files.
	DefaultDelimiter = ","

	// DefaultQuoteChar is the quote character assumed for input files.
	DefaultQuoteChar = `"`

	// DefaultFileRegex selects the files taken from a directory listing.
	DefaultFileRegex = `(?i).*\.csv$`

	// DefaultEncoding is the character set of input files.
	DefaultEncoding = "utf-8"

	// DefaultEncodingErrors is the decoding error policy.
	DefaultEncodingErrors = "strict"

	// OutputExtension is appended to every output path that lacks it.
	OutputExtension = ".xlsx"
)

// EncodingErrorModes lists the accepted values of --encoding-errors.
var EncodingErrorModes = []string{"strict", "ignore", "replace", "backslashreplace", "surrogateescape"}

// =============================================================================
// OPTIONS STRUCTURE
// =============================================================================

// Options holds the raw run configuration, as written in a config file or
// given on the command line.
type Options struct {
	// Output is the explicit output file or directory. Empty means derived.
	Output string `yaml:"output" json:"output"`

	// Delimiter is the field separator. "TAB" selects a tab character.
	Delimiter string `yaml:"delimiter" json:"delimiter"`

	// QuoteChar is the quote character. "NONE" or empty disables quoting.
	QuoteChar string `yaml:"quote_char" json:"quote_char"`

	// Encoding is any WHATWG encoding label ("utf-8", "latin1", ...).
	Encoding string `yaml:"encoding" json:"encoding"`

	// EncodingErrors is one of EncodingErrorModes.
	EncodingErrors string `yaml:"encoding_errors" json:"encoding_errors"`

	// Filter is a regular expression matched against directory entries.
	// Empty or blank disables filtering.
	Filter string `yaml:"filter" json:"filter"`

	NoHeader   bool `yaml:"no_header" json:"no_header"`
	NoVerify   bool `yaml:"no_verify" json:"no_verify"`
	NoMerge    bool `yaml:"no_merge" json:"no_merge"`
	NoAutoSize bool `yaml:"no_autosize" json:"no_autosize"`
	NoFilter   bool `yaml:"no_filter" json:"no_filter"`
	NoFreeze   bool `yaml:"no_freeze" json:"no_freeze"`
	Overwrite  bool `yaml:"overwrite" json:"overwrite"`
	Recurse    bool `yaml:"recurse" json:"recurse"`

	// AssumeYes accepts every sniffer suggestion without prompting.
	AssumeYes bool `yaml:"assume_yes" json:"assume_yes"`

	// WideChars measures column widths in terminal cells instead of runes.
	WideChars bool `yaml:"wide_chars" json:"wide_chars"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// Default returns the built-in configuration.
func Default() Options {
	return Options{
		Delimiter:      DefaultDelimiter,
		QuoteChar:      DefaultQuoteChar,
		Encoding:       DefaultEncoding,
		EncodingErrors: DefaultEncodingErrors,
		Filter:         DefaultFileRegex,
	}
}

// =============================================================================
// RESOLVED SETTINGS
// =============================================================================

// CSVSettings describes how to read one delimited text file.
type CSVSettings struct {
	// Delimiter separates fields.
	Delimiter rune

	// QuoteChar encloses fields containing delimiters or line breaks.
	// Zero means quoting is disabled.
	QuoteChar rune

	// Encoding is the WHATWG label of the input character set.
	Encoding string

	// EncodingErrors is the decoding error policy.
	EncodingErrors string
}

// Settings is the validated, typed form of Options.
type Settings struct {
	CSV CSVSettings

	// Output is the explicit output path, or empty.
	Output string

	// Filter selects directory entries. Nil accepts everything.
	Filter *regexp.Regexp

	Header         bool
	Verify         bool
	Merge          bool
	AutoSize       bool
	FilterFirstRow bool
	FreezeFirstRow bool
	Overwrite      bool
	Recurse        bool
	AssumeYes      bool
	WideChars      bool
	Verbose        bool
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Load reads a config file over the built-in defaults. Keys absent from the
// file keep their default value. The format is chosen by extension:
// .yaml/.yml are YAML, .json/.jsonc are JSON with comments allowed.
func Load(path string) (Options, error) {
	opts := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &opts); err != nil {
			return opts, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &opts); err != nil {
			return opts, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyDefaults(&opts)
	return opts, nil
}

// applyDefaults fills settings that must never be blank.
func applyDefaults(opts *Options) {
	if opts.Delimiter == "" {
		opts.Delimiter = DefaultDelimiter
	}
	if strings.TrimSpace(opts.Encoding) == "" {
		opts.Encoding = DefaultEncoding
	}
	if strings.TrimSpace(opts.EncodingErrors) == "" {
		opts.EncodingErrors = DefaultEncodingErrors
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Resolve validates the options and converts them into Settings.
func (o Options) Resolve() (*Settings, error) {
	applyDefaults(&o)

	delimiter, err := ParseDelimiter(o.Delimiter)
	if err != nil {
		return nil, err
	}

	quote, err := ParseQuoteChar(o.QuoteChar)
	if err != nil {
		return nil, err
	}

	if quote != 0 && quote == delimiter {
		return nil, fmt.Errorf("delimiter and quote character must differ (both are %q)", delimiter)
	}

	mode := strings.ToLower(strings.TrimSpace(o.EncodingErrors))
	if !isKnownErrorMode(mode) {
		return nil, fmt.Errorf("invalid encoding errors mode %q (must be one of %s)",
			o.EncodingErrors, strings.Join(EncodingErrorModes, "|"))
	}

	filter, err := CompileFilter(o.Filter)
	if err != nil {
		return nil, err
	}

	header := !o.NoHeader
	return &Settings{
		CSV: CSVSettings{
			Delimiter:      delimiter,
			QuoteChar:      quote,
			Encoding:       strings.TrimSpace(o.Encoding),
			EncodingErrors: mode,
		},
		Output:         o.Output,
		Filter:         filter,
		Header:         header,
		Verify:         !o.NoVerify,
		Merge:          !o.NoMerge,
		AutoSize:       !o.NoAutoSize,
		FilterFirstRow: !o.NoFilter,
		FreezeFirstRow: !o.NoFreeze,
		Overwrite:      o.Overwrite,
		Recurse:        o.Recurse,
		AssumeYes:      o.AssumeYes,
		WideChars:      o.WideChars,
		Verbose:        o.Verbose,
	}, nil
}

// ParseDelimiter converts a --delimiter value into a rune.
// "TAB" (any case) and the two-character escape `\t` select a tab.
func ParseDelimiter(value string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "tab", `\t`:
		return '\t', nil
	}

	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", value)
	}

	r, _ := utf8.DecodeRuneInString(value)
	if r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid delimiter %q", value)
	}
	return r, nil
}

// ParseQuoteChar converts a --quotechar value into a rune.
// "NONE" (any case) or an empty value disables quoting and yields zero.
func ParseQuoteChar(value string) (rune, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" || trimmed == "none" {
		return 0, nil
	}

	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("quote character must be a single character, got %q", value)
	}

	r, _ := utf8.DecodeRuneInString(value)
	if r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid quote character %q", value)
	}
	return r, nil
}

// CompileFilter compiles a filename filter. The expression must match from
// the start of the filename; a blank expression disables filtering.
func CompileFilter(expr string) (*regexp.Regexp, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}

	re, err := regexp.Compile(`^(?:` + expr + `)`)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression %q: %w", expr, err)
	}
	return re, nil
}

func isKnownErrorMode(mode string) bool {
	for _, m := range EncodingErrorModes {
		if m == mode {
			return true
		}
	}
	return false
}
