package replication

import (
	"sync"

	"github.com/julianstephens/medwatch/internal/models"
)

// Current holds the latest medication snapshot in memory and notifies subscribers on change.
type Current struct {
	mu     sync.RWMutex
	meds   []models.Medication
	synced bool
	subs   map[int]chan []models.Medication
	nextID int
}

func NewCurrent() *Current {
	return &Current{subs: map[int]chan []models.Medication{}}
}

func (c *Current) Set(meds []models.Medication) {
	snapshot := clone(meds)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.meds = snapshot
	c.synced = true
	for _, ch := range c.subs {
		// Keep only the newest snapshot for slow readers
		select {
		case <-ch:
		default:
		}
		ch <- clone(snapshot)
	}
}

// Get returns a copy of the latest snapshot and whether any snapshot arrived yet.
func (c *Current) Get() ([]models.Medication, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.meds), c.synced
}

// Subscribe returns a channel holding at most the latest unseen snapshot, and a cancel func.
func (c *Current) Subscribe() (<-chan []models.Medication, func()) {
	ch := make(chan []models.Medication, 1)

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}

func clone(meds []models.Medication) []models.Medication {
	if meds == nil {
		return nil
	}
	out := make([]models.Medication, len(meds))
	copy(out, meds)
	return out
}
