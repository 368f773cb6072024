// Package readme decides when a directory's generated summary is out of date.
package readme

import (
	"os"
	"path/filepath"
	"strings"

	"c4diagrammer/pkg/fileops"
)

// ShouldRegenerate reports whether any file directly inside dir whose name ends with one
// of exts was modified at or after readmeName in the same directory. A missing readme or
// an unreadable directory yields false. The readme never counts as one of its own sources.
func ShouldRegenerate(dir string, exts []string, readmeName string) bool {
	readme, err := os.Stat(filepath.Join(dir, readmeName))
	if err != nil || !readme.Mode().IsRegular() {
		return false
	}

	sources, err := fileops.ScanWithFilter(dir, func(name string) bool {
		if name == readmeName {
			return false
		}
		for _, ext := range exts {
			if ext != "" && strings.HasSuffix(name, ext) {
				return true
			}
		}
		return false
	}, 1)
	if err != nil {
		return false
	}

	for _, src := range sources {
		if !src.ModTime.Before(readme.ModTime()) {
			return true
		}
	}
	return false
}

// Answer formats a decision the way the tool reports it.
func Answer(regenerate bool) string {
	if regenerate {
		return "True"
	}
	return "False"
}
