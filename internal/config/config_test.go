package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultResolve verifies the built-in configuration resolves to the
// documented defaults.
func TestDefaultResolve(t *testing.T) {
	settings, err := Default().Resolve()
	require.NoError(t, err)

	assert.Equal(t, ',', settings.CSV.Delimiter)
	assert.Equal(t, '"', settings.CSV.QuoteChar)
	assert.Equal(t, "utf-8", settings.CSV.Encoding)
	assert.Equal(t, "strict", settings.CSV.EncodingErrors)
	assert.Empty(t, settings.Output)

	assert.True(t, settings.Header)
	assert.True(t, settings.Verify)
	assert.True(t, settings.Merge)
	assert.True(t, settings.AutoSize)
	assert.True(t, settings.FilterFirstRow)
	assert.True(t, settings.FreezeFirstRow)
	assert.False(t, settings.Overwrite)
	assert.False(t, settings.Recurse)

	require.NotNil(t, settings.Filter)
	assert.True(t, settings.Filter.MatchString("report.csv"))
	assert.True(t, settings.Filter.MatchString("REPORT.CSV"))
	assert.False(t, settings.Filter.MatchString("report.txt"))
	assert.False(t, settings.Filter.MatchString("report.csv.bak"))
}

func TestResolveNegatedFlags(t *testing.T) {
	opts := Default()
	opts.NoHeader = true
	opts.NoVerify = true
	opts.NoMerge = true
	opts.NoAutoSize = true
	opts.NoFilter = true
	opts.NoFreeze = true

	settings, err := opts.Resolve()
	require.NoError(t, err)

	assert.False(t, settings.Header)
	assert.False(t, settings.Verify)
	assert.False(t, settings.Merge)
	assert.False(t, settings.AutoSize)
	assert.False(t, settings.FilterFirstRow)
	assert.False(t, settings.FreezeFirstRow)
}

func TestResolveRejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"quote equals delimiter", func(o *Options) { o.Delimiter = "'"; o.QuoteChar = "'" }},
		{"multi-character delimiter", func(o *Options) { o.Delimiter = ";;" }},
		{"unknown error mode", func(o *Options) { o.EncodingErrors = "bogus" }},
		{"bad filter", func(o *Options) { o.Filter = "([a-z" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Default()
			tt.mutate(&opts)
			_, err := opts.Resolve()
			assert.Error(t, err)
		})
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		input string
		want  rune
	}{
		{",", ','},
		{";", ';'},
		{"|", '|'},
		{"TAB", '\t'},
		{"tab", '\t'},
		{`\t`, '\t'},
		{"\t", '\t'},
	}

	for _, tt := range tests {
		got, err := ParseDelimiter(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}

	_, err := ParseDelimiter("")
	assert.Error(t, err)
	_, err = ParseDelimiter("\n")
	assert.Error(t, err)
}

func TestParseQuoteChar(t *testing.T) {
	for _, input := range []string{"", "NONE", "none", "  "} {
		got, err := ParseQuoteChar(input)
		require.NoError(t, err)
		assert.Equal(t, rune(0), got, "input %q disables quoting", input)
	}

	got, err := ParseQuoteChar("'")
	require.NoError(t, err)
	assert.Equal(t, '\'', got)

	_, err = ParseQuoteChar(`""`)
	assert.Error(t, err)
}

// TestCompileFilter verifies the filter must match from the start of the
// filename but not necessarily up to its end.
func TestCompileFilter(t *testing.T) {
	re, err := CompileFilter("data")
	require.NoError(t, err)
	assert.True(t, re.MatchString("data_2024.csv"))
	assert.False(t, re.MatchString("my_data.csv"))

	re, err = CompileFilter("   ")
	require.NoError(t, err)
	assert.Nil(t, re, "a blank filter accepts everything")
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "csv2xlsx.yaml")
	content := "delimiter: ';'\nno_merge: true\nencoding: latin1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	opts, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ";", opts.Delimiter)
	assert.True(t, opts.NoMerge)
	assert.Equal(t, "latin1", opts.Encoding)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, DefaultQuoteChar, opts.QuoteChar)
	assert.Equal(t, DefaultFileRegex, opts.Filter)
	assert.Equal(t, DefaultEncodingErrors, opts.EncodingErrors)
}

func TestLoadJSONWithComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "csv2xlsx.jsonc")
	content := `{
  // semicolon exports from the billing system
  "delimiter": "TAB",
  "quote_char": "NONE",
  "recurse": true,
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	opts, err := Load(path)
	require.NoError(t, err)

	settings, err := opts.Resolve()
	require.NoError(t, err)
	assert.Equal(t, '\t', settings.CSV.Delimiter)
	assert.Equal(t, rune(0), settings.CSV.QuoteChar)
	assert.True(t, settings.Recurse)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("delimiter: [unterminated\n"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}
