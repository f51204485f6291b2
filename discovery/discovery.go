// Package discovery builds the worklist of files to verify.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Discover walks every search root beneath sourceRoot and returns the
// paths of all files whose name ends with one of the suffixes. The full
// worklist is materialized before dispatch so the pool's workload is known
// up front. Entries appear in directory-walk order; no sorting is
// guaranteed. A search root that does not exist or cannot be read simply
// contributes zero entries.
func Discover(sourceRoot string, searchRoots []string, suffixes []string) ([]string, error) {
	var paths []string

	for _, root := range searchRoots {
		dir := filepath.Join(sourceRoot, root)

		if _, err := os.Stat(dir); err != nil {
			continue
		}

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if matchesSuffix(d.Name(), suffixes) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discovery: failed to walk %s: %w", dir, err)
		}
	}

	return paths, nil
}

func matchesSuffix(name string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
