package output

import (
	"github.com/charmbracelet/lipgloss"
)

// celebration renders the banner shown when a period with sins still
// reaches the full mark.
func celebration(msg string) string {
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	return yellow.Render("✨ " + msg + " ✨")
}
