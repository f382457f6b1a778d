package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// runCLI executes the command line and returns the exit code and both
// output streams.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(args, strings.NewReader(""), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestVersion(t *testing.T) {
	for _, flag := range []string{"--version", "-v"} {
		code, stdout, _ := runCLI(t, flag)
		assert.Equal(t, 0, code)
		assert.Equal(t, "csv2xlsx "+Version+"\n", stdout)
	}
}

func TestNoInput(t *testing.T) {
	code, stdout, _ := runCLI(t)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "No input provided")
}

// TestNoInputIgnoresOptionErrors verifies an empty input list is reported
// before option values are checked.
func TestNoInputIgnoresOptionErrors(t *testing.T) {
	code, stdout, stderr := runCLI(t, "-e", "bogus", "--encoding-errors", "loud")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "No input provided")
	assert.Empty(t, stderr)
}

func TestConvertSingleFile(t *testing.T) {
	dir := t.TempDir()
	input := writeCSV(t, dir, "report.csv", "id,name\n1,alice\n")
	output := filepath.Join(dir, "out", "report.xlsx")

	code, stdout, stderr := runCLI(t, "--no-verify", "-o", output, input)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Imported: "+input)
	assert.Contains(t, stdout, "Data written to "+output)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"report"}, f.GetSheetList())
}

// TestSnifferWithoutTerminalKeepsSettings verifies a non-interactive run
// does not adopt suggestions unless --yes is given.
func TestSnifferWithoutTerminalKeepsSettings(t *testing.T) {
	dir := t.TempDir()
	input := writeCSV(t, dir, "semi.csv", "a;b\n1;2\n")

	code, stdout, stderr := runCLI(t, input)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "delimiter you have specified is not valid")

	f, err := excelize.OpenFile(filepath.Join(dir, "semi.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	value, err := f.GetCellValue("semi", "A1")
	require.NoError(t, err)
	assert.Equal(t, "a;b", value)
}

func TestSnifferAssumeYes(t *testing.T) {
	dir := t.TempDir()
	input := writeCSV(t, dir, "semi.csv", "a;b\n1;2\n")

	code, _, stderr := runCLI(t, "--yes", input)
	require.Equal(t, 0, code, stderr)

	f, err := excelize.OpenFile(filepath.Join(dir, "semi.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	value, err := f.GetCellValue("semi", "B1")
	require.NoError(t, err)
	assert.Equal(t, "b", value)
}

func TestNoMergeWithFileOutputConflicts(t *testing.T) {
	dir := t.TempDir()
	a := writeCSV(t, dir, "a.csv", "x\n")
	b := writeCSV(t, dir, "b.csv", "y\n")

	code, _, stderr := runCLI(t, "--no-merge", "-o", filepath.Join(dir, "all.xlsx"), a, b)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "disabled merging")
	assert.NoFileExists(t, filepath.Join(dir, "a.xlsx"))
}

func TestDestinationExistsExitCode(t *testing.T) {
	dir := t.TempDir()
	input := writeCSV(t, dir, "a.csv", "x\n1\n")
	existing := writeCSV(t, dir, "a.xlsx", "keep")

	code, _, stderr := runCLI(t, "--no-verify", input)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "File already exists: "+existing)
	assert.Contains(t, stderr, "Export aborted")

	content, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(content))

	code, _, stderr = runCLI(t, "--no-verify", "--overwrite", input)
	assert.Equal(t, 0, code, stderr)
}

func TestInvalidOptions(t *testing.T) {
	input := writeCSV(t, t.TempDir(), "a.csv", "x\n")

	tests := [][]string{
		{"-e", "klingon", input},
		{"--encoding-errors", "loud", input},
		{"-d", ";;", input},
		{"-d", ";", "-q", ";", input},
		{"-f", "([", input},
	}
	for _, args := range tests {
		code, _, stderr := runCLI(t, args...)
		assert.Equal(t, 1, code, "args %v", args)
		assert.Contains(t, stderr, "Error:", "args %v", args)
	}
}

// TestConfigFileLayering verifies config file values apply and explicitly
// set flags override them.
func TestConfigFileLayering(t *testing.T) {
	dir := t.TempDir()
	input := writeCSV(t, dir, "pipes.csv", "a|b\n1|2\n")
	cfg := writeCSV(t, dir, "csv2xlsx.yaml", "delimiter: '|'\nno_verify: true\nno_merge: true\n")

	code, _, stderr := runCLI(t, "--config", cfg, input)
	require.Equal(t, 0, code, stderr)

	f, err := excelize.OpenFile(filepath.Join(dir, "pipes.xlsx"))
	require.NoError(t, err)
	value, err := f.GetCellValue("pipes", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", value)
	require.NoError(t, f.Close())

	code, _, stderr = runCLI(t, "--config", cfg, "-d", ",", "-O", input)
	require.Equal(t, 0, code, stderr)

	f, err = excelize.OpenFile(filepath.Join(dir, "pipes.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	value, err = f.GetCellValue("pipes", "A2")
	require.NoError(t, err)
	assert.Equal(t, "1|2", value)
}

func TestMissingConfigFile(t *testing.T) {
	input := writeCSV(t, t.TempDir(), "a.csv", "x\n")
	code, _, stderr := runCLI(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), input)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid configuration")
}
