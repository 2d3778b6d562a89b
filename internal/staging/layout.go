// Package staging manages the rpmbuild-style working tree that holds
// the inputs, intermediates, and outputs of one preparation run.
package staging

import (
	"fmt"
	"os"
	"path/filepath"
)

// Subdirectories of the staging root, matching the layout rpmbuild expects.
var subdirs = []string{"BUILD", "RPMS", "SOURCES", "SPECS", "SRPMS"}

// Layout describes the staging tree rooted at Root.
type Layout struct {
	Root string
}

// NewLayout creates a layout description for the given root directory.
func NewLayout(root string) Layout {
	return Layout{Root: root}
}

// Ensure creates the staging root and all subdirectories.
// This is idempotent - safe to call multiple times.
func (l Layout) Ensure() error {
	if l.Root == "" {
		return fmt.Errorf("staging root cannot be empty")
	}

	dirs := []string{l.Root}
	for _, d := range subdirs {
		dirs = append(dirs, filepath.Join(l.Root, d))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

// SourcesDir returns the directory holding downloaded source artifacts.
func (l Layout) SourcesDir() string {
	return filepath.Join(l.Root, "SOURCES")
}

// SpecsDir returns the directory holding generated spec files.
func (l Layout) SpecsDir() string {
	return filepath.Join(l.Root, "SPECS")
}

// SpecPath returns the spec file path for a package name.
func (l Layout) SpecPath(packageName string) string {
	return filepath.Join(l.SpecsDir(), packageName+".spec")
}

// SourcePath returns the path of a downloaded source file.
func (l Layout) SourcePath(filename string) string {
	return filepath.Join(l.SourcesDir(), filename)
}
