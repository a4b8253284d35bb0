package models

import (
	"fmt"
	"sort"
	"strings"
)

// Status is the intake state of a medication. Values are the wire strings stored remotely.
type Status string

const (
	StatusActiveOld Status = "Beru"
	StatusActiveNew Status = "Používám"
	StatusEnded     Status = "Ukončeno"
)

// IsActive reports whether the medication is currently being taken.
func (s Status) IsActive() bool {
	return s == StatusActiveOld || s == StatusActiveNew
}

// SortOrder ranks statuses for display: active-old, active-new, ended, then anything unknown.
func (s Status) SortOrder() int {
	switch s {
	case StatusActiveOld:
		return 1
	case StatusActiveNew:
		return 2
	case StatusEnded:
		return 3
	default:
		return 99
	}
}

type Medication struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     Status `json:"status"`
	StartDate  *Date  `json:"startDate,omitempty"`
	EndDate    *Date  `json:"endDate,omitempty"`
	ColorClass string `json:"colorClass,omitempty"`
}

func (m *Medication) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("medication id cannot be empty")
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("medication name cannot be empty")
	}
	return nil
}

// FilterActive returns the medications eligible for reminders.
func FilterActive(meds []Medication) []Medication {
	var active []Medication
	for _, m := range meds {
		if m.Status.IsActive() {
			active = append(active, m)
		}
	}
	return active
}

// SortForDisplay orders medications by status rank and then by name.
func SortForDisplay(meds []Medication) {
	sort.SliceStable(meds, func(i, j int) bool {
		oi, oj := meds[i].Status.SortOrder(), meds[j].Status.SortOrder()
		if oi != oj {
			return oi < oj
		}
		return meds[i].Name < meds[j].Name
	})
}
