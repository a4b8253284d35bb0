package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/medwatch/internal/scheduler"
	"github.com/julianstephens/medwatch/internal/ui"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil

	case tickMsg:
		m.takeFocus()
		return m, tea.Batch(m.load(), tick())

	case medsLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.setMedications(msg.meds)
		}
		return m, nil

	case checkDoneMsg:
		res := scheduler.Result(msg)
		m.status = ""
		switch {
		case res.Sent:
			m.banners.Publish(ui.LevelSuccess, "Reminder sent.")
		case res.Reason == scheduler.ReasonEmitFailed:
			m.banners.Publish(ui.LevelError, "Reminder could not be shown.")
		default:
			m.banners.Publish(ui.LevelInfo, "No reminder: "+res.Reason)
		}
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Check):
			m.status = "Checking..."
			return m, m.check()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}
