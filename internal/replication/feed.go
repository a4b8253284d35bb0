// Package replication keeps the local store and the in-memory list in step with the remote source.
package replication

import (
	"context"
	"sort"

	apperrors "github.com/julianstephens/medwatch/internal/errors"
	"github.com/julianstephens/medwatch/internal/logger"
	"github.com/julianstephens/medwatch/internal/models"
	"github.com/julianstephens/medwatch/internal/remote"
	"github.com/julianstephens/medwatch/internal/ui"
)

const syncedMessage = "Medication data synchronized."

// Store is the slice of the local store the feed writes to.
type Store interface {
	ReplaceMedications(ctx context.Context, meds []models.Medication) error
}

// ForwardFunc hands a fresh snapshot to the background worker, which persists it.
type ForwardFunc func(ctx context.Context, meds []models.Medication) error

type Feed struct {
	source  remote.Source
	store   Store
	current *Current
	banners *ui.Banners
	forward ForwardFunc
}

func NewFeed(source remote.Source, store Store, current *Current, banners *ui.Banners) *Feed {
	return &Feed{
		source:  source,
		store:   store,
		current: current,
		banners: banners,
	}
}

// SetForward installs the background hand-off. While set, the worker owns persistence and the feed
// no longer writes to the store itself. Nil restores direct writes.
func (f *Feed) SetForward(fn ForwardFunc) {
	f.forward = fn
}

// Run subscribes to the remote source until ctx is done.
func (f *Feed) Run(ctx context.Context) error {
	logger.Info("Replication feed started")
	err := f.source.Subscribe(ctx,
		func(meds []models.Medication) { f.apply(ctx, meds) },
		f.fail,
	)
	logger.Info("Replication feed stopped", "error", err)
	return err
}

func (f *Feed) apply(ctx context.Context, meds []models.Medication) {
	snapshot := clone(meds)
	sort.SliceStable(snapshot, func(i, j int) bool { return snapshot[i].Name < snapshot[j].Name })

	f.current.Set(snapshot)

	if err := f.persist(ctx, snapshot); err != nil {
		logger.Error("Failed to persist medication snapshot", "count", len(snapshot), "error", err)
		f.banners.Publish(ui.LevelError, "Failed to save medications locally.")
		return
	}

	logger.Info("Medication snapshot applied", "count", len(snapshot))
	f.banners.Publish(ui.LevelSuccess, syncedMessage)
}

func (f *Feed) persist(ctx context.Context, snapshot []models.Medication) error {
	if f.forward != nil {
		return f.forward(ctx, snapshot)
	}
	return f.store.ReplaceMedications(ctx, snapshot)
}

func (f *Feed) fail(err error) {
	kind := apperrors.ClassifyRemote(err)
	logger.Warn("Remote subscription error", "kind", string(kind), "error", err)
	f.banners.Publish(ui.LevelError, apperrors.RemoteMessage(kind))
}
