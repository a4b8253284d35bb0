package models

import "time"

// NotificationLogEntry records that a notification was shown. Rows are append-only.
type NotificationLogEntry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Date      string    `json:"date"` // YYYY-MM-DD, local calendar date of Timestamp
}

// NewLogEntry builds an entry whose Date is derived from the local calendar date of ts.
func NewLogEntry(id, typ, message string, ts time.Time) NotificationLogEntry {
	return NotificationLogEntry{
		ID:        id,
		Type:      typ,
		Message:   message,
		Timestamp: ts,
		Date:      LocalDateKey(ts),
	}
}

// Registration is a persisted recurring-wake registration.
type Registration struct {
	Tag          string        `json:"tag"`
	MinInterval  time.Duration `json:"min_interval"`
	RegisteredAt time.Time     `json:"registered_at"`
	LastFiredAt  *time.Time    `json:"last_fired_at,omitempty"`
}

// Due reports whether the registration may fire at now. A registration that never fired is due.
func (r Registration) Due(now time.Time) bool {
	if r.LastFiredAt == nil {
		return true
	}
	return !now.Before(r.LastFiredAt.Add(r.MinInterval))
}

// DueInWindow extends Due with a daily anchor. The first poll inside [start, end], in minutes after
// local midnight, is due whenever the last fire predates that day's window opening.
func (r Registration) DueInWindow(now time.Time, start, end int) bool {
	if r.Due(now) {
		return true
	}
	m := now.Hour()*60 + now.Minute()
	if m < start || m > end {
		return false
	}
	open := time.Date(now.Year(), now.Month(), now.Day(), start/60, start%60, 0, 0, now.Location())
	return r.LastFiredAt.Before(open)
}
