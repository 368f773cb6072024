package mermaid

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
)

var fenceMarker = regexp.MustCompile("```mermaid\\n|```")

// Frontmatter is the optional YAML block at the top of a diagram.
type Frontmatter struct {
	Title       string         `yaml:"title"`
	DisplayMode string         `yaml:"displayMode"`
	Config      map[string]any `yaml:"config"`
}

// Clean strips code fence markers and surrounding whitespace.
func Clean(text string) string {
	return strings.TrimSpace(fenceMarker.ReplaceAllString(text, ""))
}

// Split separates a leading frontmatter block from the diagram body. Text without
// frontmatter comes back unchanged with a zero Frontmatter. bodyOffset is the number of
// lines consumed by the frontmatter.
func Split(text string) (meta Frontmatter, body string, bodyOffset int, err error) {
	if !strings.HasPrefix(text, "---") {
		return meta, text, 0, nil
	}

	rest, err := frontmatter.Parse(strings.NewReader(text), &meta)
	if err != nil {
		return Frontmatter{}, "", 0, fmt.Errorf("invalid frontmatter: %w", err)
	}

	body = string(rest)
	consumed := strings.TrimSuffix(text, body)
	return meta, body, strings.Count(consumed, "\n"), nil
}

// isIgnorable reports lines that carry no diagram statement.
func isIgnorable(line string) bool {
	return line == "" || strings.HasPrefix(line, "%%")
}
