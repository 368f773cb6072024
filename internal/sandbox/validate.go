package sandbox

import (
	"path/filepath"

	"c4diagrammer/pkg/fileops"
)

// Validate returns the location requested may be accessed at, or an *Error when it lies
// outside the roots. Existing paths come back with every symlink resolved; paths that do
// not exist yet come back in normalized form once their parent has been checked.
func (r *Roots) Validate(requested string) (string, error) {
	candidate, err := fileops.AbsolutePath(requested)
	if err != nil {
		return "", &Error{Kind: KindOutside, Path: requested, Roots: r.Dirs(), Err: err}
	}

	if !r.Contains(candidate) {
		return "", &Error{Kind: KindOutside, Path: candidate, Roots: r.Dirs()}
	}

	realPath, err := fileops.ResolveSymlink(candidate)
	if err == nil {
		if !r.Contains(realPath) {
			return "", &Error{Kind: KindSymlinkEscape, Path: candidate, Roots: r.Dirs()}
		}
		return realPath, nil
	}

	// Not there yet: the parent decides.
	parent := filepath.Dir(candidate)
	realParent, err := fileops.ResolveSymlink(parent)
	if err != nil {
		return "", &Error{Kind: KindParentMissing, Path: candidate, Dir: parent, Roots: r.Dirs(), Err: err}
	}
	if !r.Contains(realParent) {
		return "", &Error{Kind: KindSymlinkEscape, Path: candidate, Dir: realParent, Roots: r.Dirs()}
	}
	return candidate, nil
}
