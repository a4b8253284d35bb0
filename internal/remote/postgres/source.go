package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/lib/pq"

	"github.com/julianstephens/medwatch/internal/constants"
	apperrors "github.com/julianstephens/medwatch/internal/errors"
	"github.com/julianstephens/medwatch/internal/logger"
	"github.com/julianstephens/medwatch/internal/migration"
	"github.com/julianstephens/medwatch/internal/models"
	"github.com/julianstephens/medwatch/migrations"
)

const pingInterval = 90 * time.Second

// Source follows the remote medications table through LISTEN/NOTIFY and re-reads the full list
// on every notification.
type Source struct {
	connStr string
	channel string

	minReconnect time.Duration
	maxReconnect time.Duration
}

func New(connStr, channel string) *Source {
	if channel == "" {
		channel = constants.DefaultRemoteChannel
	}
	return &Source{
		connStr:      connStr,
		channel:      channel,
		minReconnect: constants.RemoteMinReconnectInterval,
		maxReconnect: constants.RemoteMaxReconnectInterval,
	}
}

// Migrate creates the medications table and its change trigger on the remote side.
func (s *Source) Migrate(ctx context.Context, logFn func(string)) error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return Classify(fmt.Errorf("failed to open remote database: %w", err))
	}
	defer db.Close()

	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}

	runner := migration.NewPostgresRunner(db, subFS)
	if _, err := runner.ApplyMigrations(ctx, logFn); err != nil {
		return Classify(err)
	}
	return nil
}

func (s *Source) Subscribe(ctx context.Context, onSnapshot func([]models.Medication), onError func(error)) error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return Classify(fmt.Errorf("failed to open remote database: %w", err))
	}
	defer db.Close()

	listener := pq.NewListener(s.connStr, s.minReconnect, s.maxReconnect, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			logger.Info("Remote listener connected", "channel", s.channel)
		case pq.ListenerEventReconnected:
			logger.Info("Remote listener reconnected", "channel", s.channel)
		case pq.ListenerEventDisconnected, pq.ListenerEventConnectionAttemptFailed:
			if err != nil {
				onError(Classify(err))
			}
		}
	})
	defer listener.Close()

	if err := listener.Listen(s.channel); err != nil {
		return Classify(fmt.Errorf("failed to listen on %s: %w", s.channel, err))
	}

	s.refresh(ctx, db, onSnapshot, onError)

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			// nil after a reconnect: changes may have been missed
			if n != nil {
				logger.Debug("Remote change notification", "channel", n.Channel, "op", n.Extra)
			}
			s.refresh(ctx, db, onSnapshot, onError)
		case <-ping.C:
			go func() {
				if err := listener.Ping(); err != nil {
					logger.Debug("Remote listener ping failed", "error", err)
				}
			}()
		}
	}
}

func (s *Source) refresh(ctx context.Context, db *sql.DB, onSnapshot func([]models.Medication), onError func(error)) {
	meds, err := s.fetch(ctx, db)
	if err != nil {
		if ctx.Err() == nil {
			onError(Classify(err))
		}
		return
	}
	onSnapshot(meds)
}

func (s *Source) fetch(ctx context.Context, db *sql.DB) ([]models.Medication, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, status, start_date, end_date, COALESCE(color_class, '')
		FROM medications
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query remote medications: %w", err)
	}
	defer rows.Close()

	var meds []models.Medication
	for rows.Next() {
		var m models.Medication
		var status string
		var start, end sql.NullTime
		if err := rows.Scan(&m.ID, &m.Name, &status, &start, &end, &m.ColorClass); err != nil {
			return nil, fmt.Errorf("failed to scan remote medication: %w", err)
		}
		m.Status = models.Status(status)
		if start.Valid {
			d := models.DateOf(start.Time)
			m.StartDate = &d
		}
		if end.Valid {
			d := models.DateOf(end.Time)
			m.EndDate = &d
		}
		meds = append(meds, m)
	}
	return meds, rows.Err()
}

// Classify wraps driver errors with the matching application sentinel.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "42501", "28000", "28P01":
			return fmt.Errorf("%w: %v", apperrors.ErrPermissionDenied, err)
		}
		if pqErr.Code.Class() == "08" || pqErr.Code.Class() == "57" {
			return fmt.Errorf("%w: %v", apperrors.ErrRemoteUnavailable, err)
		}
		return err
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, pq.ErrChannelNotOpen) {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteUnavailable, err)
	}
	return err
}
