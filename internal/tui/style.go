package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10171f")).
			Background(lipgloss.Color("#3fb6a8")).
			Padding(0, 1)

	editHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3fb6a8")).
			Padding(0, 1)

	removedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e5484d"))

	statusMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#1f8a7d", Dark: "#3fb6a8"}).
				Render

	completeMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#56ff4e")).
				Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)
)
