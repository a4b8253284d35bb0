package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		m.viewBanner(),
		m.viewList(),
		m.help.View(m.keys),
	)
}

func (m Model) viewHeader() string {
	header := titleStyle.Render("medwatch")
	if m.status != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, statusStyle.Render(m.status))
	}
	return header
}

func (m Model) viewBanner() string {
	recent := m.banners.Recent()
	if len(recent) == 0 {
		return ""
	}
	b := recent[len(recent)-1]
	style, ok := bannerStyles[b.Level]
	if !ok {
		style = statusStyle
	}
	return style.Render(b.Text)
}

func (m Model) viewList() string {
	if m.err != nil {
		return docStyle.Render(fmt.Sprintf("Failed to load medications: %v", m.err))
	}
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return docStyle.Render("No medications yet.\nRun `medwatch run` to sync them.")
	}
	return docStyle.Render(m.list.View())
}
