// =============================================================================
// csv2xlsx - File Manager Utility
// =============================================================================
//
// This module provides the filesystem helpers used by the converter:
//   - Existence and type checks
//   - Sorted directory listing
//   - Parent directory creation for explicit output paths
//   - Atomic replacement of output files
//
// ATOMIC WRITES:
//   Output is written to a hidden temporary file in the destination
//   directory, named with a random UUID, then renamed over the destination.
//   Readers never observe a half-written file.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// =============================================================================
// EXISTENCE CHECKS
// =============================================================================

// FileExists checks if a path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// ListDir returns the entries of a directory sorted by name.
//
// RETURNS:
//   - The entry names (not full paths).
//   - An error if the directory cannot be read.
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory %s: %w", dir, err)
	}

	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name()
	}
	return names, nil
}

// EnsureParentDir creates the directory that will contain path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// AtomicWrite calls write with a temporary file and renames it to path once
// write succeeds. On failure the temporary file is removed and path is left
// as it was.
func AtomicWrite(path string, write func(io.Writer) error) (err error) {
	tmpPath := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if err = write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
