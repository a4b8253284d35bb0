// Package host runs the background worker: a single goroutine that owns reminder checks and
// serves requests from the foreground over a message channel.
package host

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/medwatch/internal/constants"
	"github.com/julianstephens/medwatch/internal/logger"
	"github.com/julianstephens/medwatch/internal/models"
	"github.com/julianstephens/medwatch/internal/scheduler"
)

const inboxSize = 16

// ErrStopped is returned when the worker is not running.
var ErrStopped = errors.New("background worker stopped")

type Store interface {
	ReplaceMedications(ctx context.Context, meds []models.Medication) error
}

type TagLister interface {
	Tags(ctx context.Context) ([]string, error)
}

type Worker struct {
	inbox   chan Message
	done    chan struct{}
	checker scheduler.Checker
	store   Store
	tags    TagLister
	now     func() time.Time
}

func NewWorker(checker scheduler.Checker, store Store, tags TagLister) *Worker {
	return &Worker{
		inbox:   make(chan Message, inboxSize),
		done:    make(chan struct{}),
		checker: checker,
		store:   store,
		tags:    tags,
		now:     time.Now,
	}
}

// Run handles messages one at a time until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	defer close(w.done)
	logger.Info("Background worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Background worker stopped")
			return nil
		case msg := <-w.inbox:
			w.handle(ctx, msg)
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg Message) {
	logger.Debug("Worker message", "kind", msg.kind())

	switch m := msg.(type) {
	case UpdateMedicines:
		err := w.store.ReplaceMedications(ctx, m.Medicines)
		if err != nil {
			logger.Error("Failed to store medications", "error", err)
		} else {
			logger.Info("Medications updated", "count", len(m.Medicines))
		}
		reply(m.Reply, err)

	case CheckNow:
		reply(m.Reply, w.checker.Check(ctx, w.now(), scheduler.Options{BypassWindow: true}))

	case GetSyncStatus:
		tags, err := w.tags.Tags(ctx)
		reply(m.Reply, SyncStatus{
			Registered: slices.Contains(tags, constants.WakeTagPeriodic),
			Tags:       tags,
			Err:        err,
		})

	case wake:
		switch m.tag {
		case constants.WakeTagPeriodic, constants.WakeTagOneShot:
			w.checker.Check(ctx, w.now(), scheduler.Options{})
			reply(m.reply, nil)
		default:
			reply(m.reply, fmt.Errorf("unknown wake tag %q", m.tag))
		}
	}
}

func reply[T any](ch chan T, v T) {
	if ch == nil {
		return
	}
	select {
	case ch <- v:
	default:
		logger.Warn("Dropped worker reply, no receiver")
	}
}

// Send queues msg. Replies arrive on the message's own channel, which should be buffered.
func (w *Worker) Send(ctx context.Context, msg Message) error {
	select {
	case <-w.done:
		return ErrStopped
	default:
	}

	select {
	case w.inbox <- msg:
		return nil
	case <-w.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func await[T any](ctx context.Context, w *Worker, ch chan T) (T, error) {
	var zero T
	select {
	case v := <-ch:
		return v, nil
	case <-w.done:
		return zero, ErrStopped
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (w *Worker) UpdateMedicines(ctx context.Context, meds []models.Medication) error {
	ch := make(chan error, 1)
	if err := w.Send(ctx, UpdateMedicines{Medicines: meds, Reply: ch}); err != nil {
		return err
	}
	res, err := await(ctx, w, ch)
	if err != nil {
		return err
	}
	return res
}

func (w *Worker) CheckNow(ctx context.Context) (scheduler.Result, error) {
	ch := make(chan scheduler.Result, 1)
	if err := w.Send(ctx, CheckNow{Reply: ch}); err != nil {
		return scheduler.Result{}, err
	}
	return await(ctx, w, ch)
}

func (w *Worker) SyncStatus(ctx context.Context) (SyncStatus, error) {
	ch := make(chan SyncStatus, 1)
	if err := w.Send(ctx, GetSyncStatus{Reply: ch}); err != nil {
		return SyncStatus{}, err
	}
	st, err := await(ctx, w, ch)
	if err != nil {
		return SyncStatus{}, err
	}
	return st, st.Err
}

// HandleWake runs the check for a fired wake tag on the worker goroutine and waits for it.
func (w *Worker) HandleWake(ctx context.Context, tag string) error {
	ch := make(chan error, 1)
	if err := w.Send(ctx, wake{tag: tag, reply: ch}); err != nil {
		return err
	}
	res, err := await(ctx, w, ch)
	if err != nil {
		return err
	}
	return res
}
