// Package remote defines the read-only view of the remote medication store.
package remote

import (
	"context"
	"sync"

	"github.com/julianstephens/medwatch/internal/models"
)

// Source delivers the complete remote medication list, ordered by name, on start and after
// every change. Subscribe blocks until ctx is done or the source gives up.
type Source interface {
	Subscribe(ctx context.Context, onSnapshot func([]models.Medication), onError func(error)) error
}

// Static is an in-process Source. It emits its initial list on subscribe and
// then whatever is pushed or failed afterwards.
type Static struct {
	mu      sync.Mutex
	initial []models.Medication
	events  chan staticEvent
}

type staticEvent struct {
	meds []models.Medication
	err  error
}

func NewStatic(meds []models.Medication) *Static {
	return &Static{
		initial: meds,
		events:  make(chan staticEvent, 16),
	}
}

// Push queues a new snapshot.
func (s *Static) Push(meds []models.Medication) {
	s.events <- staticEvent{meds: meds}
}

// Fail queues a subscription error.
func (s *Static) Fail(err error) {
	s.events <- staticEvent{err: err}
}

func (s *Static) Subscribe(ctx context.Context, onSnapshot func([]models.Medication), onError func(error)) error {
	s.mu.Lock()
	initial := s.initial
	s.mu.Unlock()

	onSnapshot(initial)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-s.events:
			if ev.err != nil {
				onError(ev.err)
				continue
			}
			s.mu.Lock()
			s.initial = ev.meds
			s.mu.Unlock()
			onSnapshot(ev.meds)
		}
	}
}
