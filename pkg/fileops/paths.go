package fileops

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a path that is "~" or starts with "~/" to the user's home directory.
// Any other path, including "~user/...", is returned unchanged.
//
// Usage example:
//
//	expanded := fileops.ExpandPath("~/Documents/file.txt")
//	// Returns something like "/home/user/Documents/file.txt"
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// AbsolutePath expands the home shorthand, resolves a relative path against the current
// working directory and cleans the result. It never touches the filesystem beyond os.Getwd.
func AbsolutePath(path string) (string, error) {
	expanded := ExpandPath(path)
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// IsWithin reports whether path equals base or is located beneath it.
// Both arguments are expected to be absolute and cleaned.
//
// The comparison is a string prefix test anchored on a separator boundary:
//
//	IsWithin("/data/file.txt", "/data")  // true
//	IsWithin("/data", "/data")           // true
//	IsWithin("/data-old/x", "/data")     // false
func IsWithin(path, base string) bool {
	if path == base {
		return true
	}
	prefix := base
	if !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}
	return strings.HasPrefix(path, prefix)
}
