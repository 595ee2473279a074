// Package ui renders install reports, surveys and settings for the terminal.
package ui

import "github.com/charmbracelet/lipgloss"

// Common styles used across the commands.
var (
	// Status colors
	StatusPresentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))

	StatusInstalledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("40")).
				Bold(true)

	StatusMissingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214"))

	StatusFailedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Bold(true)

	StatusUnknownStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))

	// Text styles
	BoldStyle = lipgloss.NewStyle().Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	AccentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))
)

// StatusColor returns the style for a package status name.
func StatusColor(status string) lipgloss.Style {
	switch status {
	case "already present", "ok":
		return StatusPresentStyle
	case "installed":
		return StatusInstalledStyle
	case "missing":
		return StatusMissingStyle
	case "failed", "error":
		return StatusFailedStyle
	default:
		return StatusUnknownStyle
	}
}

// RenderStatus renders a status string with appropriate coloring.
func RenderStatus(status string) string {
	return StatusColor(status).Render(status)
}
