package composer

import (
	"fmt"
	"time"

	"github.com/julianstephens/medwatch/internal/models"
)

// Tone classifies a countdown for colouring.
type Tone int

const (
	ToneNone Tone = iota
	ToneRemaining
	ToneDueToday
	ToneOverdue
	ToneOngoing
)

// Countdown describes how far a medication is from its end date, or how long it has been taken.
func Countdown(m models.Medication, today time.Time) (string, Tone) {
	if m.EndDate != nil {
		n := RemainingDays(*m.EndDate, today)
		switch {
		case n > 0:
			return fmt.Sprintf("Zbývá %d dní", n), ToneRemaining
		case n == 0:
			return "Dobrání dnes!", ToneDueToday
		default:
			return fmt.Sprintf("Uplynulo %d dní", -n), ToneOverdue
		}
	}

	if m.StartDate != nil {
		if n := ElapsedDays(*m.StartDate, today); n >= 0 {
			return fmt.Sprintf("Užívá se %d dní", n), ToneOngoing
		}
	}

	return "", ToneNone
}
