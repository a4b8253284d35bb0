package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))
}

func TestNextFire(t *testing.T) {
	eight := 8 * 60

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before", time.Date(2024, 1, 16, 6, 30, 0, 0, time.Local), time.Date(2024, 1, 16, 8, 0, 0, 0, time.Local)},
		{"exactly", time.Date(2024, 1, 16, 8, 0, 0, 0, time.Local), time.Date(2024, 1, 17, 8, 0, 0, 0, time.Local)},
		{"after", time.Date(2024, 1, 16, 8, 0, 1, 0, time.Local), time.Date(2024, 1, 17, 8, 0, 0, 0, time.Local)},
		{"month end", time.Date(2024, 1, 31, 22, 0, 0, 0, time.Local), time.Date(2024, 2, 1, 8, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextFire(tt.now, eight); !got.Equal(tt.want) {
				t.Errorf("NextFire() = %v, want %v", got, tt.want)
			}
		})
	}
}

type recordingChecker struct {
	mu    sync.Mutex
	calls []Options
	fired chan struct{}
}

func (r *recordingChecker) Check(_ context.Context, _ time.Time, opts Options) Result {
	r.mu.Lock()
	r.calls = append(r.calls, opts)
	r.mu.Unlock()
	r.fired <- struct{}{}
	return Result{}
}

func TestDailyTimerFiresThroughChecker(t *testing.T) {
	checker := &recordingChecker{fired: make(chan struct{}, 1)}
	timer := NewDailyTimer(checker, 8*60)

	now := time.Date(2024, 1, 16, 7, 59, 0, 0, time.Local)
	timer.now = func() time.Time { return now }

	delays := make(chan time.Duration, 2)
	fire := make(chan time.Time, 1)
	timer.newTimer = func(d time.Duration) (<-chan time.Time, func() bool) {
		delays <- d
		return fire, func() bool { return true }
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- timer.Run(ctx) }()

	if d := <-delays; d != time.Minute {
		t.Errorf("first delay = %v, want 1m", d)
	}

	fire <- now
	select {
	case <-checker.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not run a check")
	}

	// Rescheduled for the next day after firing
	<-delays
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not stop")
	}

	checker.mu.Lock()
	defer checker.mu.Unlock()
	if len(checker.calls) != 1 || !checker.calls[0].BypassWindow {
		t.Errorf("calls = %+v, want one bypass-window check", checker.calls)
	}
}

func TestDailyTimerStopsOnCancel(t *testing.T) {
	checker := &recordingChecker{fired: make(chan struct{}, 1)}
	timer := NewDailyTimer(checker, 8*60)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := timer.Run(ctx); err != nil {
		t.Errorf("Run() error = %v", err)
	}
	if len(checker.calls) != 0 {
		t.Error("cancelled timer ran a check")
	}
}
