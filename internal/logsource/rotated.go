// Package logsource locates the log files making up one logical stream:
// the primary file followed by its numeric rotations.
package logsource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxRotations caps how many numbered rotations are probed.
const maxRotations = 9

// DiscoverRotated probes <stem>.log.1 through <stem>.log.9 next to the
// primary file and returns the ones that exist, in ascending numeric order.
func DiscoverRotated(primary string) []string {
	dir := filepath.Dir(primary)
	stem := strings.TrimSuffix(filepath.Base(primary), filepath.Ext(primary))

	var rotated []string
	for i := 1; i <= maxRotations; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s.log.%d", stem, i))
		if _, err := os.Stat(candidate); err == nil {
			rotated = append(rotated, candidate)
		}
	}
	return rotated
}

// Files returns the ordered file list for one analysis pass: the primary
// file, then each existing rotation. A missing primary file is a fatal
// precondition and returns an error before any processing starts.
func Files(primary string, includeRotated bool) ([]string, error) {
	if _, err := os.Stat(primary); err != nil {
		return nil, fmt.Errorf("logsource: primary log file: %w", err)
	}

	files := []string{primary}
	if includeRotated {
		files = append(files, DiscoverRotated(primary)...)
	}
	return files, nil
}
