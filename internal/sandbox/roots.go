package sandbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"c4diagrammer/pkg/fileops"

	"golang.org/x/sync/errgroup"
)

// Roots is the immutable set of directories a server may touch.
type Roots struct {
	dirs     []string
	resolved []string
}

// NewRoots normalizes dirs and verifies, concurrently, that each one exists and is a
// directory. The first failing directory is reported as a *RootError.
func NewRoots(ctx context.Context, dirs []string) (*Roots, error) {
	if len(dirs) == 0 {
		return nil, ErrNoRoots
	}

	normalized := make([]string, len(dirs))
	for i, dir := range dirs {
		abs, err := fileops.AbsolutePath(dir)
		if err != nil {
			return nil, &RootError{Dir: dir, Err: err}
		}
		normalized[i] = abs
	}

	resolved := make([]string, len(normalized))
	g, gctx := errgroup.WithContext(ctx)
	for i, dir := range normalized {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			info, err := os.Stat(dir)
			if err != nil {
				return &RootError{Dir: dir, Err: err}
			}
			if !info.IsDir() {
				return &RootError{Dir: dir, Err: errNotDirectory}
			}
			realPath, err := filepath.EvalSymlinks(dir)
			if err != nil {
				return &RootError{Dir: dir, Err: err}
			}
			resolved[i] = realPath
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Roots{dirs: normalized, resolved: resolved}, nil
}

// Dirs returns the normalized roots in the order they were given.
func (r *Roots) Dirs() []string {
	return slices.Clone(r.dirs)
}

// Contains reports whether the absolute, cleaned path is one of the roots or lies beneath
// one. Roots match in both the form they were given and their symlink-resolved form.
func (r *Roots) Contains(path string) bool {
	for i, dir := range r.dirs {
		if fileops.IsWithin(path, dir) || fileops.IsWithin(path, r.resolved[i]) {
			return true
		}
	}
	return false
}

func (r *Roots) String() string {
	return fmt.Sprint(r.dirs)
}
