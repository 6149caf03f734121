package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/facette/natsort"
)

// Discover expands the glob patterns into the list of archives to process.
//
// A pattern that matches nothing is kept as a literal path if such a file exists. Directories are ignored, duplicates
// are removed, and the result is sorted in natural order (so "a2.zip" comes before "a10.zip"). If limit is positive,
// only the first limit archives are returned.
//
// Patterns use the syntax of filepath.Match, so "**" matches a single path element like "*" and does not recurse.
func Discover(patterns []string, limit int) ([]string, error) {
	var (
		archives []string
		seen     = make(map[string]bool)
	)

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf(`invalid pattern "%s": %w`, pattern, err)
		}
		if len(matches) == 0 {
			matches = []string{pattern}
		}

		for _, m := range matches {
			fi, err := os.Stat(m)
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}

			if m = filepath.Clean(m); !seen[m] {
				seen[m] = true
				archives = append(archives, m)
			}
		}
	}

	sort.SliceStable(archives, func(i, j int) bool {
		return natsort.Compare(archives[i], archives[j])
	})

	if limit > 0 && len(archives) > limit {
		archives = archives[:limit]
	}

	return archives, nil
}
