package scheduler

import (
	"context"
	"time"

	"github.com/julianstephens/medwatch/internal/logger"
)

// Checker runs a reminder attempt.
type Checker interface {
	Check(ctx context.Context, now time.Time, opts Options) Result
}

// DailyTimer is the foreground fallback: it fires once a day at a fixed local time for as long as
// the process lives.
type DailyTimer struct {
	checker Checker
	at      int // minutes after local midnight

	now      func() time.Time
	newTimer func(d time.Duration) (<-chan time.Time, func() bool)
}

func NewDailyTimer(checker Checker, at int) *DailyTimer {
	return &DailyTimer{
		checker: checker,
		at:      at,
		now:     time.Now,
		newTimer: func(d time.Duration) (<-chan time.Time, func() bool) {
			t := time.NewTimer(d)
			return t.C, t.Stop
		},
	}
}

// NextFire returns the next occurrence of at minutes after midnight strictly after now, in now's location.
func NextFire(now time.Time, at int) time.Time {
	y, m, d := now.Date()
	next := time.Date(y, m, d, at/60, at%60, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(y, m, d+1, at/60, at%60, 0, 0, now.Location())
	}
	return next
}

// Run sleeps until each fire time and runs a check that ignores the reminder window,
// relying on the already-sent guard. It returns when ctx is done.
func (t *DailyTimer) Run(ctx context.Context) error {
	for {
		now := t.now()
		next := NextFire(now, t.at)
		logger.Debug("Fallback timer scheduled", "next", next.Format(time.RFC3339))

		fire, stop := t.newTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			stop()
			return nil
		case <-fire:
			t.checker.Check(ctx, t.now(), Options{BypassWindow: true})
		}
	}
}
