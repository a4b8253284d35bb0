package replication

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	apperrors "github.com/julianstephens/medwatch/internal/errors"
	"github.com/julianstephens/medwatch/internal/models"
	"github.com/julianstephens/medwatch/internal/remote"
	"github.com/julianstephens/medwatch/internal/storage/sqlite"
	"github.com/julianstephens/medwatch/internal/ui"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))
}

type failingStore struct{}

func (failingStore) ReplaceMedications(context.Context, []models.Medication) error {
	return errors.New("disk full")
}

type countingStore struct {
	mu    sync.Mutex
	calls int
}

func (s *countingStore) ReplaceMedications(context.Context, []models.Medication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return nil
}

func (s *countingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func waitBanner(t *testing.T, ch <-chan ui.Banner) ui.Banner {
	t.Helper()
	select {
	case b := <-ch:
		return b
	case <-time.After(2 * time.Second):
		t.Fatal("no banner published")
		return ui.Banner{}
	}
}

func TestFeedAppliesSnapshots(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "medwatch.db"))
	defer store.Close()

	source := remote.NewStatic([]models.Medication{
		{ID: "2", Name: "Zinc", Status: models.StatusActiveOld},
		{ID: "1", Name: "Aspirin", Status: models.StatusActiveNew},
	})
	banners := ui.NewBanners()
	bannerCh, stop := banners.Subscribe(8)
	defer stop()

	current := NewCurrent()
	feed := NewFeed(source, store, current, banners)

	done := make(chan error, 1)
	go func() { done <- feed.Run(ctx) }()

	if b := waitBanner(t, bannerCh); b.Text != syncedMessage {
		t.Errorf("banner = %q", b.Text)
	}

	meds, synced := current.Get()
	if !synced || len(meds) != 2 || meds[0].Name != "Aspirin" {
		t.Errorf("current = %v (synced %v)", meds, synced)
	}

	stored, err := store.ListMedications(context.Background())
	if err != nil || len(stored) != 2 {
		t.Fatalf("stored = %v, %v", stored, err)
	}

	// A later snapshot replaces everything
	source.Push([]models.Medication{{ID: "3", Name: "Iron", Status: models.StatusEnded}})
	waitBanner(t, bannerCh)

	stored, err = store.ListMedications(context.Background())
	if err != nil || len(stored) != 1 || stored[0].ID != "3" {
		t.Errorf("stored after push = %v, %v", stored, err)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}
}

func TestFeedForwardOwnsPersistence(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := remote.NewStatic([]models.Medication{
		{ID: "2", Name: "Zinc", Status: models.StatusActiveOld},
		{ID: "1", Name: "Aspirin", Status: models.StatusActiveNew},
	})
	banners := ui.NewBanners()
	bannerCh, stop := banners.Subscribe(8)
	defer stop()

	store := &countingStore{}
	var mu sync.Mutex
	var forwarded [][]models.Medication

	feed := NewFeed(source, store, NewCurrent(), banners)
	feed.SetForward(func(_ context.Context, meds []models.Medication) error {
		mu.Lock()
		defer mu.Unlock()
		forwarded = append(forwarded, meds)
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- feed.Run(ctx) }()

	if b := waitBanner(t, bannerCh); b.Text != syncedMessage {
		t.Errorf("banner = %q", b.Text)
	}
	source.Push([]models.Medication{{ID: "3", Name: "Iron", Status: models.StatusEnded}})
	waitBanner(t, bannerCh)

	cancel()
	<-done

	if n := store.count(); n != 0 {
		t.Errorf("store written %d times alongside the worker, want 0", n)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(forwarded) != 2 {
		t.Fatalf("forwarded %d snapshots, want 2", len(forwarded))
	}
	if forwarded[0][0].Name != "Aspirin" {
		t.Errorf("forwarded snapshot not sorted: %v", forwarded[0])
	}
}

func TestFeedErrorLeavesStoreUntouched(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "medwatch.db"))
	defer store.Close()

	source := remote.NewStatic([]models.Medication{{ID: "1", Name: "Keep", Status: models.StatusActiveOld}})
	banners := ui.NewBanners()
	bannerCh, stop := banners.Subscribe(8)
	defer stop()

	feed := NewFeed(source, store, NewCurrent(), banners)
	done := make(chan error, 1)
	go func() { done <- feed.Run(ctx) }()
	waitBanner(t, bannerCh)

	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: denied", apperrors.ErrPermissionDenied), apperrors.RemoteMessage(apperrors.RemotePermissionDenied)},
		{fmt.Errorf("%w: down", apperrors.ErrRemoteUnavailable), apperrors.RemoteMessage(apperrors.RemoteUnavailable)},
		{errors.New("weird"), apperrors.RemoteMessage(apperrors.RemoteOther)},
	}
	for _, tt := range tests {
		source.Fail(tt.err)
		b := waitBanner(t, bannerCh)
		if b.Text != tt.want || b.Level != ui.LevelError {
			t.Errorf("banner for %v = %+v, want %q", tt.err, b, tt.want)
		}
	}

	stored, err := store.ListMedications(context.Background())
	if err != nil || len(stored) != 1 || stored[0].Name != "Keep" {
		t.Errorf("store changed after errors: %v, %v", stored, err)
	}

	cancel()
	<-done
}

func TestFeedPersistFailures(t *testing.T) {
	tests := []struct {
		name    string
		store   Store
		forward ForwardFunc
	}{
		{"store", failingStore{}, nil},
		{"worker", &countingStore{}, func(context.Context, []models.Medication) error {
			return errors.New("worker stopped")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			source := remote.NewStatic([]models.Medication{{ID: "1", Name: "A", Status: models.StatusActiveOld}})
			banners := ui.NewBanners()
			bannerCh, stop := banners.Subscribe(8)
			defer stop()

			current := NewCurrent()
			feed := NewFeed(source, tt.store, current, banners)
			feed.SetForward(tt.forward)

			done := make(chan error, 1)
			go func() { done <- feed.Run(ctx) }()

			if b := waitBanner(t, bannerCh); b.Level != ui.LevelError {
				t.Errorf("banner = %+v, want error", b)
			}

			cancel()
			<-done

			if meds, synced := current.Get(); !synced || len(meds) != 1 {
				t.Errorf("current = %v (synced %v), want snapshot shown despite save failure", meds, synced)
			}
		})
	}
}

func TestCurrentSubscribeKeepsLatest(t *testing.T) {
	c := NewCurrent()
	ch, cancel := c.Subscribe()

	c.Set([]models.Medication{{ID: "1"}})
	c.Set([]models.Medication{{ID: "2"}, {ID: "3"}})

	got := <-ch
	if len(got) != 2 {
		t.Errorf("got %d medications, want latest snapshot of 2", len(got))
	}

	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after cancel")
	}
}
