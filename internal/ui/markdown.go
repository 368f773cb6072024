package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

const defaultWidth = 80

// DetectGlamourStyle picks "dark" or "light" from the terminal background. GLAMOUR_STYLE
// wins when set; detection that does not answer within timeout falls back to "dark".
func DetectGlamourStyle(out io.Writer, timeout time.Duration) string {
	defaultStyle := "dark"

	style := os.Getenv("GLAMOUR_STYLE")
	if style != "" && style != "auto" {
		return style
	}

	f, ok := out.(*os.File)
	if !ok {
		// Not a terminal, so plain output.
		return "notty"
	}

	ch := make(chan string, 1)
	go func() {
		if termenv.NewOutput(f).HasDarkBackground() {
			ch <- "dark"
			return
		}
		ch <- "light"
	}()

	select {
	case s := <-ch:
		return s
	case <-time.After(timeout):
		return defaultStyle
	}
}

// RenderMarkdown renders text with glamour using style, wrapped at width columns.
func RenderMarkdown(text, style string, width int) (string, error) {
	if width <= 0 {
		width = defaultWidth
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(text)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
