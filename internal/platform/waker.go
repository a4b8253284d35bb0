// Package platform models the host's background execution facilities: recurring wake registrations,
// the wake loop that honours them, and the capability probe.
package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/medwatch/internal/constants"
	apperrors "github.com/julianstephens/medwatch/internal/errors"
	"github.com/julianstephens/medwatch/internal/logger"
	"github.com/julianstephens/medwatch/internal/models"
)

// ErrNotAllowed is returned when recurring wake is disabled by policy.
var ErrNotAllowed = fmt.Errorf("background wake is not allowed: %w", apperrors.ErrCapabilityAbsent)

// Registry persists wake registrations.
type Registry interface {
	RegisterWake(ctx context.Context, tag string, minInterval time.Duration, at time.Time) error
	UnregisterWake(ctx context.Context, tag string) error
	ListWakeTags(ctx context.Context) ([]string, error)
	ListRegistrations(ctx context.Context) ([]models.Registration, error)
	MarkWakeFired(ctx context.Context, tag string, at time.Time) error
}

// Handler runs the work for a fired tag.
type Handler func(ctx context.Context, tag string) error

type Waker struct {
	reg     Registry
	allowed bool
	now     func() time.Time

	anchored    bool
	windowStart int
	windowEnd   int
}

func NewWaker(reg Registry, allowed bool) *Waker {
	return &Waker{
		reg:     reg,
		allowed: allowed,
		now:     time.Now,
	}
}

// AnchorTo makes every registration due once a day inside [start, end] (minutes after local midnight),
// regardless of where its interval cadence falls.
func (w *Waker) AnchorTo(start, end int) *Waker {
	w.anchored = true
	w.windowStart = start
	w.windowEnd = end
	return w
}

func (w *Waker) due(r models.Registration, now time.Time) bool {
	if w.anchored {
		return r.DueInWindow(now, w.windowStart, w.windowEnd)
	}
	return r.Due(now)
}

// Register asks to be woken for tag at most once per minInterval.
func (w *Waker) Register(ctx context.Context, tag string, minInterval time.Duration) error {
	if !w.allowed {
		return ErrNotAllowed
	}
	if minInterval <= 0 {
		return fmt.Errorf("min interval must be positive, got %s", minInterval)
	}
	if err := w.reg.RegisterWake(ctx, tag, minInterval, w.now()); err != nil {
		return err
	}
	logger.Info("Wake registered", "tag", tag, "min_interval", minInterval)
	return nil
}

// RegisterOnce asks to be woken for tag once, at the next opportunity.
func (w *Waker) RegisterOnce(ctx context.Context, tag string) error {
	return w.Register(ctx, tag, time.Nanosecond)
}

// Unregister stops future wakes for tag. A wake already in flight is not cancelled.
func (w *Waker) Unregister(ctx context.Context, tag string) error {
	if err := w.reg.UnregisterWake(ctx, tag); err != nil {
		return err
	}
	logger.Info("Wake unregistered", "tag", tag)
	return nil
}

func (w *Waker) Tags(ctx context.Context) ([]string, error) {
	return w.reg.ListWakeTags(ctx)
}

// Run polls registrations every poll interval and fires the due ones until ctx is done.
func (w *Waker) Run(ctx context.Context, poll time.Duration, handle Handler) error {
	if poll <= 0 {
		poll = constants.DefaultWakePoll
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	w.tick(ctx, handle)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.tick(ctx, handle)
		}
	}
}

// tick fires each due registration once. Failures are logged; the next tick retries.
func (w *Waker) tick(ctx context.Context, handle Handler) {
	regs, err := w.reg.ListRegistrations(ctx)
	if err != nil {
		logger.Warn("Failed to list wake registrations", "error", err)
		return
	}

	for _, r := range regs {
		if ctx.Err() != nil {
			return
		}

		now := w.now()
		if !w.due(r, now) {
			continue
		}

		if err := w.reg.MarkWakeFired(ctx, r.Tag, now); err != nil {
			logger.Warn("Failed to record wake", "tag", r.Tag, "error", err)
			continue
		}

		logger.Debug("Wake fired", "tag", r.Tag)
		if err := handle(ctx, r.Tag); err != nil {
			logger.Warn("Wake handler failed", "tag", r.Tag, "error", err)
		}

		if r.Tag == constants.WakeTagOneShot {
			if err := w.reg.UnregisterWake(ctx, r.Tag); err != nil {
				logger.Warn("Failed to clear one-shot wake", "tag", r.Tag, "error", err)
			}
		}
	}
}
