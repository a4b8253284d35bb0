// Package scheduler decides, from persisted state alone, whether today's morning reminder still
// has to be shown, and shows it.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/medwatch/internal/composer"
	"github.com/julianstephens/medwatch/internal/config"
	"github.com/julianstephens/medwatch/internal/constants"
	"github.com/julianstephens/medwatch/internal/logger"
	"github.com/julianstephens/medwatch/internal/models"
	"github.com/julianstephens/medwatch/internal/notifier"
	"github.com/julianstephens/medwatch/internal/platform"
)

// Store is the slice of the local store the scheduler reads and appends to.
type Store interface {
	HasLogForDate(ctx context.Context, logType, date string) (bool, error)
	ListMedications(ctx context.Context) ([]models.Medication, error)
	AppendLog(ctx context.Context, entry models.NotificationLogEntry) error
}

type State int

const (
	StateIdle State = iota
	StateTimeWindowCheck
	StateAlreadySentCheck
	StateMedicineLoad
	StateCompose
	StateEmit
	StateLogSent
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTimeWindowCheck:
		return "time-window-check"
	case StateAlreadySentCheck:
		return "already-sent-check"
	case StateMedicineLoad:
		return "medicine-load"
	case StateCompose:
		return "compose"
	case StateEmit:
		return "emit"
	case StateLogSent:
		return "log-sent"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Reasons reported in Result.
const (
	ReasonSent          = "sent"
	ReasonOutsideWindow = "outside-window"
	ReasonAlreadySent   = "already-sent"
	ReasonNoMedications = "no-medications"
	ReasonNoActive      = "no-active-medications"
	ReasonPermission    = "permission-not-granted"
	ReasonEmitFailed    = "emit-failed"
)

// Result reports the last state a check reached and why it stopped there.
type Result struct {
	State  State
	Sent   bool
	Reason string
}

type Options struct {
	// BypassWindow skips the time window check. Every other guard still applies.
	BypassWindow bool
}

// Window is a closed range of minutes after local midnight.
type Window struct {
	Start int
	End   int
}

// Contains reports whether t's local wall clock minute lies inside the window, both ends included.
func (w Window) Contains(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= w.Start && m <= w.End
}

// WindowFromConfig parses the configured HH:MM bounds.
func WindowFromConfig(cfg config.ReminderConfig) (Window, error) {
	start, err := config.ParseClock(cfg.WindowStart)
	if err != nil {
		return Window{}, err
	}
	end, err := config.ParseClock(cfg.WindowEnd)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: end}, nil
}

type Scheduler struct {
	store   Store
	surface notifier.Surface
	perms   platform.Permissions
	window  Window

	newID func() string

	mu sync.Mutex
}

func New(store Store, surface notifier.Surface, perms platform.Permissions, window Window) *Scheduler {
	return &Scheduler{
		store:   store,
		surface: surface,
		perms:   perms,
		window:  window,
		newID:   uuid.NewString,
	}
}

func (s *Scheduler) Window() Window {
	return s.window
}

// Check runs one reminder attempt at now. Checks are serialized; a log row is appended only after
// the notification was shown, so a failed attempt is retried by the next trigger.
func (s *Scheduler) Check(ctx context.Context, now time.Time, opts Options) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.check(ctx, now, opts)
	logger.Info("Reminder check finished",
		"state", res.State.String(),
		"sent", res.Sent,
		"reason", res.Reason,
		"bypass_window", opts.BypassWindow,
	)
	return res
}

func (s *Scheduler) check(ctx context.Context, now time.Time, opts Options) Result {
	if !opts.BypassWindow {
		if !s.window.Contains(now) {
			return Result{State: StateTimeWindowCheck, Reason: ReasonOutsideWindow}
		}
	}

	today := models.LocalDateKey(now)
	sent, err := s.store.HasLogForDate(ctx, constants.LogTypeDailyReminder, today)
	if err != nil {
		// Fail closed: an unreadable log must not turn into a second reminder
		logger.Warn("Failed to read notification log, assuming reminder sent", "date", today, "error", err)
		return Result{State: StateAlreadySentCheck, Reason: ReasonAlreadySent}
	}
	if sent {
		logger.Debug("Reminder already sent", "date", today)
		return Result{State: StateAlreadySentCheck, Reason: ReasonAlreadySent}
	}

	meds, err := s.store.ListMedications(ctx)
	if err != nil {
		logger.Warn("Failed to load medications", "error", err)
		meds = nil
	}
	if len(meds) == 0 {
		return Result{State: StateMedicineLoad, Reason: ReasonNoMedications}
	}

	active := models.FilterActive(meds)
	if len(active) == 0 {
		return Result{State: StateMedicineLoad, Reason: ReasonNoActive}
	}

	reminder := composer.Compose(active, now)

	if !platform.Granted(s.perms) {
		logger.Warn("Notification permission not granted, skipping reminder")
		return Result{State: StateCompose, Reason: ReasonPermission}
	}

	n := notifier.Notification{
		Title:              reminder.Title,
		Body:               reminder.Body,
		Icon:               constants.NotificationIcon,
		Badge:              constants.NotificationBadge,
		Tag:                constants.LogTypeDailyReminder,
		Vibrate:            constants.VibratePattern,
		RequireInteraction: false,
		Urgent:             reminder.Urgent,
		Data: notifier.Data{
			Type:      constants.LogTypeDailyReminder,
			Timestamp: now,
			URL:       constants.NotificationLaunchURL,
		},
	}
	if err := s.surface.Show(ctx, n); err != nil {
		logger.Error("Failed to show reminder", "error", err)
		return Result{State: StateEmit, Reason: ReasonEmitFailed}
	}

	entry := models.NewLogEntry(s.newID(), constants.LogTypeDailyReminder, constants.LogMessageSent, now)
	if err := s.store.AppendLog(ctx, entry); err != nil {
		logger.Error("Reminder shown but not logged", "date", today, "error", err)
	}

	return Result{State: StateLogSent, Sent: true, Reason: ReasonSent}
}
