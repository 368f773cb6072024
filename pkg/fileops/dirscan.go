package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// DirectoryScanOptions configures the behavior of directory scanning operations.
type DirectoryScanOptions struct {
	// SkipUnreadableDirs determines whether to skip directories that cannot be read
	// or to return an error.
	SkipUnreadableDirs bool

	// MaxDepth limits the recursion depth. A depth of 1 scans only the immediate entries
	// of the scan root.
	MaxDepth int

	// IncludeHidden determines whether to include files and directories that start with '.'
	IncludeHidden bool

	// SkipPatterns contains directory names that should be skipped during scanning.
	// These are exact matches against directory names (not full paths).
	SkipPatterns []string

	// FileFilter is an optional function that determines whether a file should be included.
	FileFilter func(filename string) bool
}

// FileInfo represents information about a discovered file during directory scanning.
type FileInfo struct {
	// Name is the base filename without path components
	Name string

	// Path is the relative path from the scan root to this file
	Path string

	// Size is the file size in bytes
	Size int64

	// ModTime is the last modification time
	ModTime time.Time

	// Mode contains the file mode and permission bits
	Mode os.FileMode
}

// SecureDirectoryScanner walks a directory tree confined to an os.Root, so a scan can
// never be redirected outside the directory it was created for.
type SecureDirectoryScanner struct {
	root     *os.Root
	opts     *DirectoryScanOptions
	results  []FileInfo
	visited  map[string]bool
	scanRoot string
}

// NewDirectoryScanner creates a new secure directory scanner for the given path.
//
// Usage example:
//
//	opts := &fileops.DirectoryScanOptions{
//	    MaxDepth: 1,
//	    FileFilter: func(name string) bool {
//	        return strings.HasSuffix(name, ".go")
//	    },
//	}
//	scanner, err := fileops.NewDirectoryScanner("/project/src", opts)
//	if err != nil {
//	    return fmt.Errorf("failed to create scanner: %w", err)
//	}
//	defer scanner.Close()
func NewDirectoryScanner(scanPath string, opts *DirectoryScanOptions) (*SecureDirectoryScanner, error) {
	if opts == nil {
		opts = DefaultScanOptions()
	}

	if strings.TrimSpace(scanPath) == "" {
		return nil, fmt.Errorf("scan path cannot be empty")
	}

	absPath, err := AbsolutePath(scanPath)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve scan path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access scan path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan path is not a directory: %s", absPath)
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		return nil, fmt.Errorf("cannot create secure scan root: %w", err)
	}

	return &SecureDirectoryScanner{
		root:     root,
		opts:     opts,
		visited:  make(map[string]bool),
		scanRoot: absPath,
	}, nil
}

// DefaultScanOptions returns the options used when none are supplied.
func DefaultScanOptions() *DirectoryScanOptions {
	return &DirectoryScanOptions{
		SkipUnreadableDirs: true,
		MaxDepth:           20,
		IncludeHidden:      true,
		SkipPatterns:       DefaultSkipPatterns(),
	}
}

// DefaultSkipPatterns returns commonly skipped directory names.
func DefaultSkipPatterns() []string {
	return []string{
		"node_modules",
		".git",
		"vendor",
		"dist",
		".cache",
		"__pycache__",
	}
}

// Close releases the os.Root held by the scanner.
func (s *SecureDirectoryScanner) Close() error {
	if s.root != nil {
		err := s.root.Close()
		s.root = nil
		return err
	}
	return nil
}

// ScanDirectory performs a recursive scan of the configured directory and returns the
// regular files matching the configured filters.
func (s *SecureDirectoryScanner) ScanDirectory() ([]FileInfo, error) {
	if s.root == nil {
		return nil, fmt.Errorf("scanner has been closed")
	}

	s.results = []FileInfo{}
	s.visited = make(map[string]bool)

	if err := s.scanRecursive(".", 1); err != nil {
		return nil, fmt.Errorf("directory scan failed: %w", err)
	}

	resultsCopy := make([]FileInfo, len(s.results))
	copy(resultsCopy, s.results)
	return resultsCopy, nil
}

func (s *SecureDirectoryScanner) scanRecursive(relativePath string, depth int) error {
	if depth > s.opts.MaxDepth {
		return nil
	}

	cleanPath := filepath.Clean(relativePath)
	if s.visited[cleanPath] {
		return nil
	}
	s.visited[cleanPath] = true

	if s.shouldSkipDirectory(filepath.Base(relativePath)) {
		return nil
	}

	dir, err := s.root.Open(relativePath)
	if err != nil {
		if s.opts.SkipUnreadableDirs {
			return nil
		}
		return fmt.Errorf("failed to open directory %s: %w", relativePath, err)
	}
	defer dir.Close()

	entries, err := dir.ReadDir(-1)
	if err != nil {
		if s.opts.SkipUnreadableDirs {
			return nil
		}
		return fmt.Errorf("failed to read directory %s: %w", relativePath, err)
	}

	for _, entry := range entries {
		entryPath := filepath.Join(relativePath, entry.Name())

		if entry.IsDir() {
			if err := s.scanRecursive(entryPath, depth+1); err != nil {
				return err
			}
			continue
		}

		if !s.shouldIncludeFile(entry.Name()) {
			continue
		}

		// Stat through the root so symlinked files pointing outside it are rejected.
		info, err := s.root.Stat(entryPath)
		if err != nil {
			if s.opts.SkipUnreadableDirs {
				continue
			}
			return fmt.Errorf("failed to get file info for %s: %w", entryPath, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}

		s.results = append(s.results, FileInfo{
			Name:    entry.Name(),
			Path:    entryPath,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Mode:    info.Mode(),
		})
	}

	return nil
}

func (s *SecureDirectoryScanner) shouldSkipDirectory(dirName string) bool {
	if dirName == "." || dirName == ".." {
		return false
	}
	if !s.opts.IncludeHidden && strings.HasPrefix(dirName, ".") {
		return true
	}
	return slices.Contains(s.opts.SkipPatterns, dirName)
}

func (s *SecureDirectoryScanner) shouldIncludeFile(fileName string) bool {
	if !s.opts.IncludeHidden && strings.HasPrefix(fileName, ".") {
		return false
	}
	if s.opts.FileFilter != nil {
		return s.opts.FileFilter(fileName)
	}
	return true
}

// ScanWithFilter creates a scanner with a file filter and immediately performs a scan.
//
//	tsFiles, err := fileops.ScanWithFilter("/project", func(name string) bool {
//	    return strings.HasSuffix(name, ".ts")
//	}, 1)
func ScanWithFilter(scanPath string, fileFilter func(string) bool, maxDepth int) ([]FileInfo, error) {
	opts := &DirectoryScanOptions{
		SkipUnreadableDirs: true,
		MaxDepth:           maxDepth,
		IncludeHidden:      true,
		SkipPatterns:       DefaultSkipPatterns(),
		FileFilter:         fileFilter,
	}

	scanner, err := NewDirectoryScanner(scanPath, opts)
	if err != nil {
		return nil, err
	}
	defer scanner.Close()

	return scanner.ScanDirectory()
}

// Entry is one immediate child of a listed directory.
type Entry struct {
	Name  string
	IsDir bool
}

// ListEntries returns the immediate entries of dirPath, sorted by name as os.ReadDir
// returns them. Symlinks are reported as files, matching what the directory entry itself
// records.
func ListEntries(dirPath string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, e := range dirEntries {
		entries = append(entries, Entry{Name: e.Name(), IsDir: e.IsDir()})
	}
	return entries, nil
}
