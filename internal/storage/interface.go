package storage

import (
	"context"
	"time"

	"github.com/julianstephens/medwatch/internal/models"
)

type Provider interface {
	// Lifecycle
	Open(ctx context.Context) error
	Close() error
	GetConfigPath() string

	// Medications
	// ReplaceMedications atomically swaps the whole local list for meds.
	ReplaceMedications(ctx context.Context, meds []models.Medication) error
	ListMedications(ctx context.Context) ([]models.Medication, error)

	// Notification log
	AppendLog(ctx context.Context, entry models.NotificationLogEntry) error
	HasLogForDate(ctx context.Context, logType, date string) (bool, error)
	// ListLogs returns entries for date in timestamp order, or every entry when date is empty.
	ListLogs(ctx context.Context, date string) ([]models.NotificationLogEntry, error)

	// Wake registrations
	RegisterWake(ctx context.Context, tag string, minInterval time.Duration, at time.Time) error
	UnregisterWake(ctx context.Context, tag string) error
	ListWakeTags(ctx context.Context) ([]string, error)
	GetRegistration(ctx context.Context, tag string) (models.Registration, bool, error)
	ListRegistrations(ctx context.Context) ([]models.Registration, error)
	MarkWakeFired(ctx context.Context, tag string, at time.Time) error
}
