package sandbox

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies why a path was rejected.
type Kind int

const (
	// KindOutside means the normalized path is not beneath any root.
	KindOutside Kind = iota
	// KindSymlinkEscape means the path, or its parent, resolves through a link to a location
	// outside every root.
	KindSymlinkEscape
	// KindParentMissing means neither the path nor its parent directory exists.
	KindParentMissing
)

func (k Kind) String() string {
	switch k {
	case KindOutside:
		return "outside allowed directories"
	case KindSymlinkEscape:
		return "symlink escape"
	case KindParentMissing:
		return "parent directory missing"
	default:
		return "unknown"
	}
}

var (
	ErrNoRoots        = errors.New("at least one allowed directory is required")
	ErrOutsideSandbox = errors.New("access denied: path outside allowed directories")
	ErrSymlinkEscape  = errors.New("access denied: symlink target outside allowed directories")
	ErrParentMissing  = errors.New("parent directory does not exist")
)

// Error is returned by Validate for every rejected path.
type Error struct {
	Kind  Kind
	Path  string
	Roots []string
	// Dir is the parent directory involved in KindParentMissing and parent escapes.
	Dir string
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindOutside:
		return fmt.Sprintf("Access denied - path outside allowed directories: %s not in %s",
			e.Path, strings.Join(e.Roots, ", "))
	case KindSymlinkEscape:
		if e.Dir != "" {
			return fmt.Sprintf("Access denied - parent directory outside allowed directories: %s", e.Dir)
		}
		return fmt.Sprintf("Access denied - symlink target outside allowed directories: %s", e.Path)
	case KindParentMissing:
		return fmt.Sprintf("Parent directory does not exist: %s", e.Dir)
	default:
		return fmt.Sprintf("invalid path: %s", e.Path)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel belonging to the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrOutsideSandbox:
		return e.Kind == KindOutside
	case ErrSymlinkEscape:
		return e.Kind == KindSymlinkEscape
	case ErrParentMissing:
		return e.Kind == KindParentMissing
	}
	return false
}

// IsViolation reports whether err is a path rejection produced by this package.
func IsViolation(err error) bool {
	var sbErr *Error
	return errors.As(err, &sbErr)
}

// RootError reports an allowed directory that failed verification at startup.
type RootError struct {
	Dir string
	Err error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("error accessing directory %s: %v", e.Dir, e.Err)
}

func (e *RootError) Unwrap() error {
	return e.Err
}

var errNotDirectory = errors.New("not a directory")
