package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Width(14)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// Title renders a section heading.
func Title(s string) string {
	return titleStyle.Render(s)
}

// Success renders a completion message.
func Success(s string) string {
	return successStyle.Render("✓ " + s)
}

// Info renders an informational message.
func Info(s string) string {
	return infoStyle.Render(s)
}

// Warn renders a non-fatal warning.
func Warn(s string) string {
	return warnStyle.Render("! " + s)
}

// KV renders one aligned label/value line for the run summary.
func KV(label string, value interface{}) string {
	return fmt.Sprintf("%s %s", labelStyle.Render(label), valueStyle.Render(fmt.Sprintf("%v", value)))
}
