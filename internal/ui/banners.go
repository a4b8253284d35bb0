// Package ui carries transient user-facing messages from background components to whatever is rendering.
package ui

import (
	"sync"
	"time"

	"github.com/julianstephens/medwatch/internal/logger"
)

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

type Banner struct {
	Level Level
	Text  string
	At    time.Time
}

const recentLimit = 20

// Banners fans messages out to subscribers. Slow subscribers miss messages rather than block publishers.
type Banners struct {
	mu     sync.Mutex
	subs   map[int]chan Banner
	nextID int
	recent []Banner
}

func NewBanners() *Banners {
	return &Banners{subs: map[int]chan Banner{}}
}

func (b *Banners) Publish(level Level, text string) {
	if b == nil {
		return
	}

	banner := Banner{Level: level, Text: text, At: time.Now()}

	switch level {
	case LevelError:
		logger.Error(text)
	case LevelWarning:
		logger.Warn(text)
	default:
		logger.Info(text)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.recent = append(b.recent, banner)
	if len(b.recent) > recentLimit {
		b.recent = b.recent[len(b.recent)-recentLimit:]
	}

	for _, ch := range b.subs {
		select {
		case ch <- banner:
		default:
		}
	}
}

// Subscribe returns a channel of future banners and a func that closes it.
func (b *Banners) Subscribe(buffer int) (<-chan Banner, func()) {
	ch := make(chan Banner, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Recent returns the last banners published, oldest first.
func (b *Banners) Recent() []Banner {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Banner, len(b.recent))
	copy(out, b.recent)
	return out
}
