package ui

import (
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// WrapText word-wraps text at width, keeping paragraph and manual line breaks.
func WrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	paragraphs := strings.Split(text, "\n\n")
	wrappedParagraphs := make([]string, 0, len(paragraphs))

	for _, paragraph := range paragraphs {
		lines := strings.Split(paragraph, "\n")
		wrappedLines := make([]string, 0, len(lines))

		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" {
				wrappedLines = append(wrappedLines, "")
				continue
			}
			wrappedLines = append(wrappedLines, wordwrap.String(line, width))
		}

		wrappedParagraphs = append(wrappedParagraphs, strings.Join(wrappedLines, "\n"))
	}

	return strings.Join(wrappedParagraphs, "\n\n")
}

// WrapIndented wraps text to width and indents every line by n spaces.
func WrapIndented(text string, width int, n uint) string {
	return indent.String(WrapText(text, width-int(n)), n)
}
