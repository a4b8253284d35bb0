package host

import (
	"github.com/julianstephens/medwatch/internal/models"
	"github.com/julianstephens/medwatch/internal/scheduler"
)

// Message is one of UpdateMedicines, CheckNow or GetSyncStatus.
type Message interface {
	kind() string
}

// UpdateMedicines replaces the worker's stored medication list.
type UpdateMedicines struct {
	Medicines []models.Medication
	Reply     chan error
}

// CheckNow runs a reminder check immediately, ignoring the reminder window.
type CheckNow struct {
	Reply chan scheduler.Result
}

// GetSyncStatus reports the recurring wake registration state.
type GetSyncStatus struct {
	Reply chan SyncStatus
}

type SyncStatus struct {
	Registered bool     `json:"registered"`
	Tags       []string `json:"tags"`
	Err        error    `json:"-"`
}

type wake struct {
	tag   string
	reply chan error
}

func (UpdateMedicines) kind() string { return "UPDATE_MEDICINES" }
func (CheckNow) kind() string        { return "CHECK_NOW" }
func (GetSyncStatus) kind() string   { return "GET_SYNC_STATUS" }
func (wake) kind() string            { return "WAKE" }
