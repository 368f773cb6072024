package fileops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultFileMode is used for files created by AtomicWriteFile.
const DefaultFileMode os.FileMode = 0o644

// AtomicWriteFile writes data to destPath atomically. The destination either holds the
// complete new content or remains unchanged on failure.
//
// The function uses a temporary file approach:
//  1. Creates a temporary file in the destination directory
//  2. Writes all data to the temporary file
//  3. Syncs data to disk
//  4. Renames the temporary file over the destination
//
// An existing destination keeps its permission bits; new files get DefaultFileMode.
// The parent directory must already exist.
//
// Usage example:
//
//	if err := fileops.AtomicWriteFile("/sandbox/out.txt", []byte("hello")); err != nil {
//	    return fmt.Errorf("write failed: %w", err)
//	}
func AtomicWriteFile(destPath string, data []byte) error {
	mode := DefaultFileMode
	if info, err := os.Stat(destPath); err == nil {
		if info.IsDir() {
			return fmt.Errorf("destination is a directory: %s", destPath)
		}
		mode = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot access destination: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(destPath), "."+filepath.Base(destPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempPath := tempFile.Name()

	var writeSuccess bool
	defer func() {
		if !writeSuccess {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write file contents: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := tempFile.Chmod(mode); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Rename(tempPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	writeSuccess = true
	return nil
}

// EnsureDirectoryExists creates a directory and all necessary parent directories.
// This is equivalent to `mkdir -p` and is safe to call multiple times.
func EnsureDirectoryExists(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}
