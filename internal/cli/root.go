package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/medwatch/internal/composer"
	"github.com/julianstephens/medwatch/internal/config"
	"github.com/julianstephens/medwatch/internal/logger"
	"github.com/julianstephens/medwatch/internal/models"
	"github.com/julianstephens/medwatch/internal/notifier"
	"github.com/julianstephens/medwatch/internal/platform"
	"github.com/julianstephens/medwatch/internal/replication"
	"github.com/julianstephens/medwatch/internal/scheduler"
	"github.com/julianstephens/medwatch/internal/storage"
	"github.com/julianstephens/medwatch/internal/storage/sqlite"
	"github.com/julianstephens/medwatch/internal/strategy"
	"github.com/julianstephens/medwatch/internal/ui"
)

// Context is the shared application state handed to every command.
type Context struct {
	Config    *config.Config
	Store     storage.Provider
	Scheduler *scheduler.Scheduler
	Surface   notifier.Surface
	Waker     *platform.Waker
	Probe     *platform.Probe
	Current   *replication.Current
	Banners   *ui.Banners
	Out       io.Writer
}

// NewContext wires the application from cfg. dryRun replaces every notification sink with stdout.
func NewContext(cfg *config.Config, dryRun bool) (*Context, error) {
	store := sqlite.NewStore(cfg.Store.Path)

	surface, err := BuildSurface(cfg.Notify, dryRun, os.Stdout)
	if err != nil {
		return nil, err
	}

	window, err := scheduler.WindowFromConfig(cfg.Reminder)
	if err != nil {
		return nil, err
	}

	probe := platform.NewProbe(cfg.Wake, cfg.Platform)

	return &Context{
		Config:    cfg,
		Store:     store,
		Scheduler: scheduler.New(store, surface, platform.StaticPermission(cfg.Notify.Permission), window),
		Surface:   surface,
		Waker:     platform.NewWaker(store, probe.CapabilityPresent()).AnchorTo(window.Start, window.End),
		Probe:     probe,
		Current:   replication.NewCurrent(),
		Banners:   ui.NewBanners(),
		Out:       os.Stdout,
	}, nil
}

// BuildSurface assembles the configured notification sinks.
func BuildSurface(cfg config.NotifyConfig, dryRun bool, w io.Writer) (notifier.Surface, error) {
	if dryRun {
		return notifier.NewConsole(w), nil
	}

	var sinks notifier.Multi
	if cfg.Tray {
		sinks = append(sinks, notifier.NewTray(cfg.Timeout))
	}
	if len(cfg.URLs) > 0 {
		push, err := notifier.NewShoutrrr(cfg.URLs, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, push)
	}

	if len(sinks) == 0 {
		logger.Warn("No notification sinks configured, printing reminders to stdout")
		return notifier.NewConsole(w), nil
	}
	return sinks, nil
}

// Decision probes the host and returns the strategy it supports.
func (c *Context) Decision() strategy.Decision {
	return strategy.Select(c.Probe.CapabilityPresent(), c.Probe.Installed())
}

// FormatMedication renders one medication row with its countdown.
func FormatMedication(m models.Medication, today time.Time) string {
	countdown, _ := composer.Countdown(m, today)

	dates := "-"
	switch {
	case m.StartDate != nil && m.EndDate != nil:
		dates = fmt.Sprintf("%s → %s", m.StartDate, m.EndDate)
	case m.StartDate != nil:
		dates = fmt.Sprintf("%s →", m.StartDate)
	case m.EndDate != nil:
		dates = fmt.Sprintf("→ %s", m.EndDate)
	}

	line := fmt.Sprintf("%-24s %-10s %-25s", m.Name, m.Status, dates)
	if countdown != "" {
		line += " " + countdown
	}
	return line
}
