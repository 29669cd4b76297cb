package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	primary = lipgloss.Color("#7C3AED")
	muted   = lipgloss.Color("#6B7280")
	success = lipgloss.Color("#10B981")

	rootStyle    = lipgloss.NewStyle().Bold(true).Foreground(primary)
	folderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA"))
	emptyStyle   = lipgloss.NewStyle().Foreground(muted).Italic(true)
	countStyle   = lipgloss.NewStyle().Foreground(muted)
	branchStyle  = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(success)
)

func done(format string, args ...interface{}) string {
	return successStyle.Render("✓ ") + fmt.Sprintf(format, args...)
}
