// Package ui renders command line output: lipgloss styles, glamour markdown and reflow
// wrapping. Nothing here writes to stdout while the MCP server is running.
package ui

import "github.com/charmbracelet/lipgloss"

// Centralized Lip Gloss styles for CLI output.
// All colors are specified using hex codes.

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff5fd2")).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff005f")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ff5f")).
			Bold(true)

	PathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5fd7ff"))

	HelpStyle = lipgloss.NewStyle().
			Faint(true).
			Foreground(lipgloss.Color("#a8a8a8")).
			MarginTop(1)

	// Prompt arguments are listed in a bordered box.
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5fd7ff")).
			Padding(0, 1)
)

// Check renders one line of a verification report.
func Check(ok bool, subject, detail string) string {
	mark := SuccessStyle.Render("✓")
	if !ok {
		mark = ErrorStyle.Render("✗")
	}
	line := mark + " " + PathStyle.Render(subject)
	if detail != "" {
		line += " " + SubtitleStyle.Render(detail)
	}
	return line
}
