// =============================================================================
// csv2xlsx - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser  (produces RowBuffers)
//   - xlsxwriter (consumes RowBuffers)
//   - converter  (threads RowBuffers between the two)
//   - cmd        (maps CLIErrors to process exit codes)
//
// =============================================================================

package types

import "fmt"

// =============================================================================
// ROW TYPES
// =============================================================================

// Row is one parsed record of a delimited text file.
// Fields are kept as raw strings; type coercion happens at write time.
type Row []string

// RowBuffer is the in-memory representation of one source file.
// Rows keep their source order and may have different lengths.
type RowBuffer []Row

// MaxColumns returns the length of the widest row in the buffer.
func (b RowBuffer) MaxColumns() int {
	widest := 0
	for _, row := range b {
		if len(row) > widest {
			widest = len(row)
		}
	}
	return widest
}

// =============================================================================
// EXIT CODES
// =============================================================================

// ExitCode is the process exit status reported by the CLI.
type ExitCode int

const (
	// ExitSuccess covers normal completion, --version and an empty input list.
	ExitSuccess ExitCode = 0

	// ExitGeneralError covers I/O failures and invalid option values.
	ExitGeneralError ExitCode = 1

	// ExitConfigConflict is returned when flags contradict each other,
	// e.g. a single output file combined with --no-merge.
	ExitConfigConflict ExitCode = 1

	// ExitDestinationExists is returned when an output workbook already
	// exists and --overwrite was not given.
	ExitDestinationExists ExitCode = 2
)

// =============================================================================
// CLI ERROR
// =============================================================================

// CLIError is an error that carries the exit code the CLI should use.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError without an underlying cause.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a CLIError wrapping err.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
