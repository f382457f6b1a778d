package converter

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sin4ts/csv2xlsx/internal/config"
	"github.com/sin4ts/csv2xlsx/internal/types"
	"github.com/sin4ts/csv2xlsx/pkg/utils"
)

const csvExtension = ".csv"

// SheetTitle returns the worksheet title for an input file: the filename
// without a .csv extension (any case), or the full filename otherwise.
func SheetTitle(inputPath string) string {
	base := filepath.Base(inputPath)
	if hasSuffixFold(base, csvExtension) {
		return base[:len(base)-len(csvExtension)]
	}
	return base
}

// OutputFilename returns the workbook filename derived from an input file.
func OutputFilename(inputPath string) string {
	base := filepath.Base(inputPath)
	if hasSuffixFold(base, csvExtension) {
		base = base[:len(base)-len(csvExtension)]
	}
	return base + config.OutputExtension
}

// OutputPath returns where the workbook for inputPath is written.
//
// DERIVATION:
//   - no explicit output: beside the input, named after it
//   - explicit output that is a directory: inside it, named after the input
//   - any other explicit output: used as is
//
// The result always ends in .xlsx.
func OutputPath(inputPath, output string) string {
	var path string
	switch {
	case output == "":
		path = filepath.Join(filepath.Dir(inputPath), OutputFilename(inputPath))
	case utils.IsDir(output):
		path = filepath.Join(output, OutputFilename(inputPath))
	default:
		path = output
	}

	if !hasSuffixFold(path, config.OutputExtension) {
		path += config.OutputExtension
	}
	return path
}

// ResolveOutput applies the run-level output rules before any processing:
//   - merging several inputs (or a directory) without --output writes to
//     DefaultOutputFilename
//   - --no-merge combined with an output that names a single file is a
//     configuration conflict
func ResolveOutput(inputs []string, settings *config.Settings) (string, error) {
	output := settings.Output

	if settings.Merge && output == "" && (len(inputs) > 1 || (len(inputs) == 1 && utils.IsDir(inputs[0]))) {
		return config.DefaultOutputFilename, nil
	}

	if !settings.Merge && output != "" && !utils.IsDir(output) && !endsWithSeparator(output) {
		return "", types.NewCLIError(types.ExitConfigConflict,
			"you have provided a single file output path and disabled merging; "+
				"please enable merging or provide a directory as output path")
	}

	return output, nil
}

func endsWithSeparator(path string) bool {
	return strings.HasSuffix(path, string(os.PathSeparator)) || strings.HasSuffix(path, "/")
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}
