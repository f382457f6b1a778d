// =============================================================================
// csv2xlsx - CSV Parser Module
// =============================================================================
//
// This module loads one delimited text file into a RowBuffer. It handles:
//   - Any single-character delimiter (comma, semicolon, pipe, tab, ...)
//   - Any quote character, or no quoting at all
//   - Any WHATWG character set, with a configurable decoding error policy
//   - Ragged rows (rows keep however many fields they have)
//
// The whole file is read into memory; a workbook sheet is built from the
// complete buffer so column widths can be known before writing.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sin4ts/csv2xlsx/internal/config"
	"github.com/sin4ts/csv2xlsx/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Load reads a delimited text file and returns all of its rows.
//
// PARAMETERS:
//   - filePath: The path to the input file.
//   - settings: Delimiter, quote character and decoding settings.
//
// RETURNS:
//   - The rows in source order.
//   - An error if the file cannot be opened, decoded or read.
func Load(filePath string, settings config.CSVSettings) (types.RowBuffer, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file, settings)
}

// Parse reads rows from an already opened source.
func Parse(src io.Reader, settings config.CSVSettings) (types.RowBuffer, error) {
	decoded, err := NewDecodingReader(src, settings.Encoding, settings.EncodingErrors)
	if err != nil {
		return nil, err
	}

	reader := NewReader(decoded)
	configureReader(reader, settings)

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV at line %d: %w", reader.Line()+1, err)
	}
	return rows, nil
}

// configureReader applies the delimiter and quote settings to the reader.
func configureReader(reader *Reader, settings config.CSVSettings) {
	reader.Comma = settings.Delimiter
	if reader.Comma == 0 {
		reader.Comma = ','
	}
	reader.Quote = settings.QuoteChar
}

// ReadFirstLine returns the first line of a file, decoded, without its line
// terminator. An empty file yields an empty string.
func ReadFirstLine(filePath string, settings config.CSVSettings) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	decoded, err := NewDecodingReader(file, settings.Encoding, settings.EncodingErrors)
	if err != nil {
		return "", err
	}

	line, err := bufio.NewReader(decoded).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read first line: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
