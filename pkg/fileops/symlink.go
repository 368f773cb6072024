package fileops

import (
	"fmt"
	"os"
	"path/filepath"
)

// IsSymlink checks if a given path is a symbolic link.
// This function uses lstat to examine the file without following symlinks.
//
// Usage example:
//
//	isLink, err := fileops.IsSymlink("/path/to/potential/symlink")
//	if err != nil {
//	    return fmt.Errorf("failed to check symlink: %w", err)
//	}
func IsSymlink(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, fmt.Errorf("failed to stat path: %w", err)
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}

// ResolveSymlink resolves every symbolic link in path and returns the real location.
// Unlike os.Readlink it follows whole chains and intermediate directory links.
//
// Returns an error when any component does not exist, which is how callers detect
// not-yet-created files.
func ResolveSymlink(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve symlink: %w", err)
	}
	return resolved, nil
}
