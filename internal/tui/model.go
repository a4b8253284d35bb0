// Package tui is the medication dashboard opened from reminder notifications.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/medwatch/internal/composer"
	"github.com/julianstephens/medwatch/internal/models"
	"github.com/julianstephens/medwatch/internal/notifier"
	"github.com/julianstephens/medwatch/internal/scheduler"
	"github.com/julianstephens/medwatch/internal/ui"
)

const refreshInterval = 2 * time.Second

type Store interface {
	ListMedications(ctx context.Context) ([]models.Medication, error)
}

type Checker interface {
	Check(ctx context.Context, now time.Time, opts scheduler.Options) scheduler.Result
}

type Item struct {
	Med   models.Medication
	Today time.Time
}

func (i Item) Title() string {
	marker := "○"
	if i.Med.Status.IsActive() {
		marker = "●"
	}
	return fmt.Sprintf("%s %s", marker, i.Med.Name)
}

func (i Item) Description() string {
	text, tone := composer.Countdown(i.Med, i.Today)
	if text == "" {
		return string(i.Med.Status)
	}
	return fmt.Sprintf("%s | %s", i.Med.Status, toneStyle(tone).Render(text))
}

func (i Item) FilterValue() string { return i.Med.Name }

type tickMsg time.Time

type medsLoadedMsg struct {
	meds []models.Medication
	err  error
}

type checkDoneMsg scheduler.Result

type Model struct {
	store     Store
	checker   Checker
	banners   *ui.Banners
	configDir string
	target    string
	keys      KeyMap
	help      help.Model
	list      list.Model
	status    string
	err       error
	now       func() time.Time
	quitting  bool
	width     int
	height    int
}

func NewModel(store Store, checker Checker, banners *ui.Banners, configDir, target string) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Medications"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	return Model{
		store:     store,
		checker:   checker,
		banners:   banners,
		configDir: configDir,
		target:    target,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		list:      l,
		now:       time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		meds, err := m.store.ListMedications(context.Background())
		return medsLoadedMsg{meds: meds, err: err}
	}
}

func (m Model) check() tea.Cmd {
	return func() tea.Msg {
		return checkDoneMsg(m.checker.Check(context.Background(), m.now(), scheduler.Options{BypassWindow: true}))
	}
}

func (m *Model) setMedications(meds []models.Medication) {
	models.SortForDisplay(meds)
	today := m.now()
	items := make([]list.Item, len(meds))
	for i, med := range meds {
		items[i] = Item{Med: med, Today: today}
	}
	m.list.SetItems(items)
}

// takeFocus consumes a pending activation request aimed at this dashboard.
func (m *Model) takeFocus() {
	if url, ok := notifier.TakeFocusRequest(m.configDir); ok {
		m.target = url
		m.status = "Opened from reminder"
	}
}

func toneStyle(t composer.Tone) lipgloss.Style {
	switch t {
	case composer.ToneRemaining:
		return remainingStyle
	case composer.ToneDueToday:
		return dueTodayStyle
	case composer.ToneOverdue:
		return overdueStyle
	case composer.ToneOngoing:
		return ongoingStyle
	default:
		return lipgloss.NewStyle()
	}
}
