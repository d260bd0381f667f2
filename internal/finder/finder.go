// Package finder searches for files from a working directory up to the filesystem root.
package finder

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// Finder looks for files starting in one directory.
type Finder struct {
	fs  billy.Filesystem
	dir string
}

// New creates a finder over fsys that starts in dir.
func New(fsys billy.Filesystem, dir string) *Finder {
	return &Finder{fs: fsys, dir: filepath.Clean(dir)}
}

// NewOS creates a finder over the real filesystem starting in dir.
// An empty dir means the current working directory.
func NewOS(dir string) (*Finder, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("finder: getwd: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("finder: abs %q: %w", dir, err)
	}
	return New(osfs.New(string(filepath.Separator)), abs), nil
}

// Dir returns the directory the search starts in.
func (f *Finder) Dir() string {
	return f.dir
}

// FindFileUp returns the files matching pattern in the nearest directory,
// walking from the start directory toward the root, that has any match.
// It returns nil when no directory matches.
func (f *Finder) FindFileUp(pattern string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("finder: pattern %q: %w", pattern, err)
	}

	dir := f.dir
	for {
		matches, err := util.Glob(f.fs, filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("finder: glob %q in %q: %w", pattern, dir, err)
		}
		if len(matches) > 0 {
			sort.Strings(matches)
			return matches, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// ReadFile returns the contents of path.
func (f *Finder) ReadFile(path string) ([]byte, error) {
	b, err := util.ReadFile(f.fs, path)
	if err != nil {
		return nil, fmt.Errorf("finder: read %q: %w", path, err)
	}
	return b, nil
}
