package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Discover expands each glob pattern (non-recursive), keeps regular files
// only, and returns the de-duplicated paths sorted lexicographically.
// Patterns that match no regular file are returned in unmatched.
func Discover(patterns []string) (files, unmatched []string, err error) {
	seen := make(map[string]bool)
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		found := false
		for _, m := range matches {
			fi, err := os.Stat(m)
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
			found = true
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
		if !found {
			unmatched = append(unmatched, p)
		}
	}
	sort.Strings(files)
	return files, unmatched, nil
}
