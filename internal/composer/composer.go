// Package composer turns the active medication list into the morning reminder text.
package composer

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/julianstephens/medwatch/internal/models"
)

const (
	Title    = "🌅 Ranní přehled léků"
	greeting = "🌅 Dobré ráno, admirále!\n\n"
	heading  = "Dnes užíváš:\n"
	warnHead = "\n⚠️ Upozornění:\n"

	// WarnDays is the horizon within which an ending course is called out.
	WarnDays = 7

	day = 24 * time.Hour
)

// Reminder is the composed notification content.
type Reminder struct {
	Title    string
	Body     string
	Lines    []string
	Warnings []string
	Urgent   bool
}

// RemainingDays returns the rounded number of days from today until end, both taken at local midnight.
// Rounding absorbs 23h and 25h days around DST changes.
func RemainingDays(end models.Date, today time.Time) int {
	loc := today.Location()
	diff := end.Midnight(loc).Sub(models.DateOf(today).Midnight(loc))
	return int(math.Round(float64(diff) / float64(day)))
}

// ElapsedDays returns the whole days since start, floored.
func ElapsedDays(start models.Date, today time.Time) int {
	loc := today.Location()
	diff := models.DateOf(today).Midnight(loc).Sub(start.Midnight(loc))
	return int(math.Floor(float64(diff) / float64(day)))
}

func icon(s models.Status) string {
	if s == models.StatusActiveOld {
		return "💊"
	}
	return "🔵"
}

// Compose builds the reminder for meds as of today. Inactive entries are skipped.
func Compose(meds []models.Medication, today time.Time) Reminder {
	r := Reminder{Title: Title}

	for _, m := range meds {
		if !m.Status.IsActive() {
			continue
		}

		if m.EndDate == nil {
			r.Lines = append(r.Lines, fmt.Sprintf("%s %s - dlouhodobě", icon(m.Status), m.Name))
			continue
		}

		n := RemainingDays(*m.EndDate, today)
		r.Lines = append(r.Lines, fmt.Sprintf("%s %s - zbývá %d dní", icon(m.Status), m.Name, n))

		switch {
		case n <= 0:
			r.Warnings = append(r.Warnings, fmt.Sprintf("🔴 %s - SKONČENO!", m.Name))
		case n <= WarnDays:
			r.Warnings = append(r.Warnings, fmt.Sprintf("⚠️ %s - zbývá %d dní", m.Name, n))
		}
	}

	var b strings.Builder
	b.WriteString(greeting)
	b.WriteString(heading)
	for _, l := range r.Lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	if len(r.Warnings) > 0 {
		b.WriteString(warnHead)
		for _, w := range r.Warnings {
			b.WriteString(w)
			b.WriteByte('\n')
		}
	}

	r.Body = strings.TrimSpace(b.String())
	r.Urgent = len(r.Warnings) > 0
	return r
}
