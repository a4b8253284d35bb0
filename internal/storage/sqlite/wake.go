package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/medwatch/internal/models"
)

// RegisterWake inserts or refreshes a registration. Re-registering keeps the last fire time.
func (s *Store) RegisterWake(ctx context.Context, tag string, minInterval time.Duration, at time.Time) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO wake_registrations (tag, min_interval_ms, registered_at, last_fired_at)
		VALUES (?, ?, ?, NULL)
		ON CONFLICT(tag) DO UPDATE SET min_interval_ms = excluded.min_interval_ms
	`, tag, minInterval.Milliseconds(), at.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to register wake %s: %w", tag, err)
	}
	return nil
}

func (s *Store) UnregisterWake(ctx context.Context, tag string) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM wake_registrations WHERE tag = ?", tag); err != nil {
		return fmt.Errorf("failed to unregister wake %s: %w", tag, err)
	}
	return nil
}

func (s *Store) ListWakeTags(ctx context.Context) ([]string, error) {
	regs, err := s.ListRegistrations(ctx)
	if err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(regs))
	for _, r := range regs {
		tags = append(tags, r.Tag)
	}
	return tags, nil
}

func (s *Store) GetRegistration(ctx context.Context, tag string) (models.Registration, bool, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return models.Registration{}, false, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT tag, min_interval_ms, registered_at, last_fired_at
		FROM wake_registrations
		WHERE tag = ?
	`, tag)

	reg, err := scanRegistration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Registration{}, false, nil
	}
	if err != nil {
		return models.Registration{}, false, err
	}
	return reg, true, nil
}

func (s *Store) ListRegistrations(ctx context.Context) ([]models.Registration, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT tag, min_interval_ms, registered_at, last_fired_at
		FROM wake_registrations
		ORDER BY tag
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query wake registrations: %w", err)
	}
	defer rows.Close()

	var regs []models.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (s *Store) MarkWakeFired(ctx context.Context, tag string, at time.Time) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx,
		"UPDATE wake_registrations SET last_fired_at = ? WHERE tag = ?",
		at.Format(time.RFC3339Nano), tag,
	)
	if err != nil {
		return fmt.Errorf("failed to mark wake %s fired: %w", tag, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("wake registration %s not found", tag)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRegistration(row rowScanner) (models.Registration, error) {
	var reg models.Registration
	var intervalMs int64
	var registeredAt string
	var lastFired sql.NullString

	if err := row.Scan(&reg.Tag, &intervalMs, &registeredAt, &lastFired); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reg, err
		}
		return reg, fmt.Errorf("failed to scan wake registration: %w", err)
	}

	reg.MinInterval = time.Duration(intervalMs) * time.Millisecond

	var err error
	if reg.RegisteredAt, err = time.Parse(time.RFC3339Nano, registeredAt); err != nil {
		return reg, fmt.Errorf("invalid registered_at for %s: %w", reg.Tag, err)
	}
	if lastFired.Valid {
		t, err := time.Parse(time.RFC3339Nano, lastFired.String)
		if err != nil {
			return reg, fmt.Errorf("invalid last_fired_at for %s: %w", reg.Tag, err)
		}
		reg.LastFiredAt = &t
	}
	return reg, nil
}
