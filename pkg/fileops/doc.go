// Package fileops provides the low-level file helpers used by the sandboxed file tools.
//
// The package does not decide what is allowed; callers validate paths first (see
// internal/sandbox) and then hand the validated absolute path to these helpers.
//
// # Path helpers
//
// ExpandPath expands "~" and "~/" to the user's home directory. IsWithin reports whether a
// path equals a base directory or lies beneath it, comparing on path-separator boundaries so
// that "/data-old" is never treated as inside "/data".
//
// # Symlinks
//
// IsSymlink and ResolveSymlink wrap os.Lstat and filepath.EvalSymlinks with descriptive errors.
//
// # Reading and writing
//
//	text, err := fileops.ReadTextFile(validPath, 10*1024*1024)
//	if err != nil {
//	    return fmt.Errorf("read: %w", err)
//	}
//
// ReadTextFile enforces a size limit and transcodes non-UTF-8 input to UTF-8 after charset
// detection. AtomicWriteFile writes through a temporary file in the destination directory and
// renames it into place, so readers never observe a partial file.
//
// # Directory operations
//
// ListEntries returns the immediate entries of a directory. SecureDirectoryScanner walks a tree
// confined to an os.Root with depth limits and file filters.
package fileops
