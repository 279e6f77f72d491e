package cmd

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "2", Dark: "2"}
	colorError   = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}
	colorPrimary = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	colorInfo    = lipgloss.AdaptiveColor{Light: "6", Dark: "6"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}
	colorWarning = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}

	styleTitle   = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Underline(true)
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	styleInfo    = lipgloss.NewStyle().Foreground(colorInfo)
	styleLabel   = lipgloss.NewStyle().Foreground(colorMuted).Width(24)
	styleBold    = lipgloss.NewStyle().Bold(true)
)

func formatSuccess(msg string) string { return styleSuccess.Render("✔ ") + msg }
func formatError(msg string) string   { return styleError.Render("✘ ") + msg }
func formatWarning(msg string) string { return styleWarning.Render("⚠ ") + msg }
func formatInfo(msg string) string    { return styleInfo.Render("ℹ " + msg) }

// formatPair renders an aligned "label value" line.
func formatPair(label string, value interface{}) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, styleLabel.Render(label), styleBold.Render(toString(value)))
}
