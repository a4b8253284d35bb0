package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/medwatch/internal/ui"
)

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 1)

	remainingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dueTodayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	overdueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	ongoingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	bannerStyles = map[ui.Level]lipgloss.Style{
		ui.LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		ui.LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		ui.LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		ui.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)
