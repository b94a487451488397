// Package cli holds the terminal styling and input helpers shared by the
// commands.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor = lipgloss.Color("#2ECC71") // ledger green
	savedColor   = lipgloss.Color("#4ECDC4")
	warnColor    = lipgloss.Color("#FFE66D")
	lossColor    = lipgloss.Color("#FF6B6B")
	infoColor    = lipgloss.Color("#95E1D3")
	subtleColor  = lipgloss.Color("#666666")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	successStyle = lipgloss.NewStyle().Foreground(savedColor)
	warningStyle = lipgloss.NewStyle().Foreground(warnColor)
	errorStyle   = lipgloss.NewStyle().Foreground(lossColor)
	infoStyle    = lipgloss.NewStyle().Foreground(infoColor)

	// SubtleStyle is for labels and footnotes.
	SubtleStyle = lipgloss.NewStyle().Foreground(subtleColor)
	// BoldStyle is for table headers.
	BoldStyle = lipgloss.NewStyle().Bold(true)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	MoneyIcon   = "💸"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return successStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return errorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return warningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return infoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a section title.
func FormatTitle(title string) string {
	return titleStyle.Render(MoneyIcon + " " + title)
}

// FormatPrompt formats a question waiting for an answer.
func FormatPrompt(prompt string) string {
	return promptStyle.Render(prompt + " → ")
}

// FormatMatch renders the marker shown next to a loan's payment: a check
// when the stated payment agrees with the terms, a cross otherwise.
func FormatMatch(matches bool) string {
	if matches {
		return successStyle.Render(SuccessIcon)
	}
	return errorStyle.Render(ErrorIcon)
}
