// Package pathres resolves the two reference forms a fragment may use:
// ancestor search ("walk upward until a file with this name is found")
// and root-relative resolution anchored at the repository root. It also
// exposes the directory-name accessors used to parameterize shared
// fragments by their call-site position.
//
// Every function takes an explicit starting location. Nothing in this
// package consults the process working directory.
package pathres

import (
	"os"
	"path/filepath"

	"github.com/specialistvlad/hclstack/internal/errs"
)

// RootFragmentName is the marker file that identifies the repository root
// for root-relative resolution. A .git directory is accepted as a
// fallback marker so trees without a root fragment still resolve.
const RootFragmentName = "root.hcl"

// FindInParentFolders walks upward from startDir, directory by directory,
// until a file with the given name is found. It returns the absolute path
// of the first match, or a NotFoundError once the filesystem root has
// been reached without one.
func FindInParentFolders(startDir, name string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	// The search starts at the parent: a fragment looking for "env.hcl"
	// wants an ancestor's copy, not a sibling in its own directory.
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &errs.NotFoundError{Name: name, Start: startDir}
		}
		dir = parent

		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
}

// FindRepoRoot walks upward from startDir until it finds a directory
// containing the root fragment or a .git directory, whichever comes
// first. It returns that directory.
func FindRepoRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, RootFragmentName)); err == nil && !info.IsDir() {
			return dir, nil
		}
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &errs.NotFoundError{Name: RootFragmentName, Start: startDir}
		}
		dir = parent
	}
}

// ResolveFromRoot resolves rel against the repository root and verifies
// the target exists.
func ResolveFromRoot(root, rel string) (string, error) {
	target := filepath.Join(root, rel)
	if _, err := os.Stat(target); err != nil {
		return "", &errs.NotFoundError{Name: rel, Start: root}
	}
	return target, nil
}

// DirName returns the name of the fragment's own directory.
func DirName(dir string) string {
	return filepath.Base(dir)
}

// ParentDirName returns the name of the directory immediately above the
// fragment's own directory.
func ParentDirName(dir string) string {
	return filepath.Base(filepath.Dir(dir))
}

// GrandparentDirName returns the name of the directory two levels above
// the fragment's own directory.
func GrandparentDirName(dir string) string {
	return filepath.Base(filepath.Dir(filepath.Dir(dir)))
}
