// Package fsutil provides file system discovery helpers.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DiscoverLeaves expands each argument into concrete leaf fragment paths.
// An argument may be a fragment file, a directory (searched recursively
// for files named fragmentName), or a doublestar glob such as
// "live/**/stack.hcl". The result is deduplicated and sorted so batch
// runs process leaves in a stable order.
func DiscoverLeaves(args []string, fragmentName string) ([]string, error) {
	if fragmentName == "" {
		panic("fragmentName must not be empty")
	}

	seen := make(map[string]struct{})
	var leaves []string
	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if _, dup := seen[abs]; !dup {
			seen[abs] = struct{}{}
			leaves = append(leaves, abs)
		}
	}

	for _, arg := range args {
		if isGlob(arg) {
			matches, err := doublestar.FilepathGlob(arg)
			if err != nil {
				return nil, fmt.Errorf("invalid glob pattern %q: %w", arg, err)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		err = filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && d.Name() == fragmentName {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(leaves)
	return leaves, nil
}

// isGlob reports whether the path contains doublestar metacharacters.
func isGlob(path string) bool {
	for _, r := range path {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
