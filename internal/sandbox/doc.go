// Package sandbox confines filesystem access to a fixed set of allowed directories.
//
// A Roots value is built once at startup from the directories passed on the command line
// and is never modified afterwards, so it can be shared freely between request handlers.
//
// # Validation
//
// Validate turns a client-supplied path into an absolute path that is guaranteed to lie
// inside one of the roots:
//
//   - "~" and "~/" are expanded to the home directory
//   - relative paths are resolved against the working directory and cleaned
//   - the cleaned path must equal a root or sit beneath it
//   - if the path exists, every symlink is resolved and the real location is checked again
//   - if it does not exist, its parent directory is resolved and checked instead, so new
//     files can be created but never through a link pointing outside the sandbox
//
// Membership is a prefix test anchored on a path separator: "/data-old" is not inside
// "/data". Roots are compared both in the form they were given and in their
// symlink-resolved form, which keeps sandboxes rooted under links such as /tmp on macOS
// usable.
//
// # Errors
//
// Every rejection is an *Error carrying a Kind. The sentinels ErrOutsideSandbox,
// ErrSymlinkEscape and ErrParentMissing match the kinds through errors.Is:
//
//	real, err := roots.Validate(req)
//	if sandbox.IsViolation(err) {
//	    // refuse the request
//	}
//
// The check and the subsequent file operation are not atomic. A link swapped in between
// them is not detected.
package sandbox
