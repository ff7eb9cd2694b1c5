package charts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FindChartDirs enumerates chart units of work: one subdirectory per chart
// cell under the input root, sorted for stable batch ordering.
func FindChartDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read input directory %s: %w", root, err)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(root, entry.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}
