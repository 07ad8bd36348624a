// =============================================================================
// CAMEO to CSV Converter - File Manager Utility
// =============================================================================
//
// This module provides the file handling the converter needs around the
// conversion itself:
//   - Output file naming with placeholders
//   - Atomic file creation (temp file in the same directory + rename)
//   - Directory creation for output paths
//
// ATOMIC WRITES:
//   Output files and cached downloads are written to a hidden temp file next
//   to the destination and renamed into place only when complete. A failed
//   run never leaves a truncated file at the destination path.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE NAMING
// =============================================================================

// GenerateOutputFileName expands the placeholders in a path pattern.
//
// PARAMETERS:
//   - format: The path pattern.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//   - params: Extra placeholder values, keyed without braces.
//
// RETURNS:
//   - The expanded path.
//
// EXAMPLE:
//   format: "out/cameo_{timestamp}.csv"
//   output: "out/cameo_20240115_143022.csv"
func GenerateOutputFileName(format string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	return result
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// =============================================================================
// ATOMIC FILES
// =============================================================================

// AtomicFile is a file that appears at its destination only on Commit.
//
// USAGE:
//   f, err := utils.CreateAtomic("out/codes.csv")
//   if err != nil {
//       return err
//   }
//   defer f.Abort()
//
//   // Write to f...
//
//   return f.Commit()
type AtomicFile struct {
	*os.File
	dest string
	done bool
}

// CreateAtomic creates a temp file next to dest. Parent directories are
// created as needed.
func CreateAtomic(dest string) (*AtomicFile, error) {
	if err := EnsureParentDir(dest); err != nil {
		return nil, err
	}

	tmpPath := filepath.Join(filepath.Dir(dest), "."+filepath.Base(dest)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	return &AtomicFile{File: f, dest: dest}, nil
}

// Dest returns the final path.
func (f *AtomicFile) Dest() string {
	return f.dest
}

// Commit syncs the temp file and renames it to the destination.
func (f *AtomicFile) Commit() error {
	if f.done {
		return nil
	}
	f.done = true

	tmpPath := f.Name()
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, f.dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	return nil
}

// Abort discards the temp file. It is a no-op after Commit.
func (f *AtomicFile) Abort() error {
	if f.done {
		return nil
	}
	f.done = true

	f.Close()
	return os.Remove(f.Name())
}

// WriteFileAtomic copies r into path atomically.
func WriteFileAtomic(path string, r io.Reader) error {
	f, err := CreateAtomic(path)
	if err != nil {
		return err
	}
	defer f.Abort()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return f.Commit()
}
