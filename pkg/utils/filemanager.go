// =============================================================================
// Sales Analytics - File Manager Utility
// =============================================================================
//
// This module provides small file helpers shared by the writers and the CLI:
//   - Run identifiers
//   - Output path templating
//   - Directory management
//   - File inspection
//
// OUTPUT NAMING:
//   Output paths in the configuration may contain placeholders, so repeated
//   runs can keep their reports side by side instead of overwriting them.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// RUN IDENTIFIERS
// =============================================================================

// NewRunID returns a random identifier for a pipeline run.
func NewRunID() string {
	return uuid.New().String()
}

// ShortID returns the first block of a run id, for use in file names.
func ShortID(runID string) string {
	if i := strings.IndexByte(runID, '-'); i > 0 {
		return runID[:i]
	}
	return runID
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName expands the placeholders in an output path.
//
// PARAMETERS:
//   - format: The path template. Supported placeholders are {run_id} (short
//     run id, the first block of the UUID), {timestamp} (YYYYMMDD_HHMMSS),
//     {date} (YYYYMMDD) and {time} (HHMMSS).
//   - params: Extra placeholder values, keyed without braces. A "run_id"
//     entry replaces the generated one.
//   - now: The run timestamp.
//
// RETURNS:
//   - The expanded path. A template without placeholders is returned as is.
//
// EXAMPLE:
//
//	format: "output/sales_report_{date}_{run_id}.txt"
//	output: "output/sales_report_20241201_a1b2c3d4.txt"
func GenerateOutputFileName(format string, params map[string]string, now time.Time) string {
	if !strings.Contains(format, "{") {
		return format
	}

	replacements := map[string]string{
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	if strings.Contains(format, "{run_id}") {
		replacements["{run_id}"] = ShortID(NewRunID())
	}

	for key, value := range params {
		if key == "run_id" {
			value = ShortID(value)
		}
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
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetFileSize returns the size of a file in bytes.
func GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// FormatSize renders a byte count for console output.
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
