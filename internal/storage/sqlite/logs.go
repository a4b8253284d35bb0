package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/medwatch/internal/models"
)

// Timestamps are stored in UTC with a fixed-width fraction so text order is chronological.
const logTimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func (s *Store) AppendLog(ctx context.Context, entry models.NotificationLogEntry) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	if entry.Date == "" {
		entry.Date = models.LocalDateKey(entry.Timestamp)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO notification_log (id, type, message, timestamp, date)
		VALUES (?, ?, ?, ?, ?)
	`, entry.ID, entry.Type, entry.Message, entry.Timestamp.UTC().Format(logTimestampLayout), entry.Date)
	if err != nil {
		return fmt.Errorf("failed to append notification log: %w", err)
	}
	return nil
}

func (s *Store) HasLogForDate(ctx context.Context, logType, date string) (bool, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return false, err
	}

	var exists int
	err = db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM notification_log WHERE date = ? AND type = ?
		)
	`, date, logType).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query notification log: %w", err)
	}
	return exists == 1, nil
}

func (s *Store) ListLogs(ctx context.Context, date string) ([]models.NotificationLogEntry, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, type, message, timestamp, date FROM notification_log`
	var args []interface{}
	if date != "" {
		query += ` WHERE date = ?`
		args = append(args, date)
	}
	query += ` ORDER BY timestamp, seq`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notification log: %w", err)
	}
	defer rows.Close()

	var entries []models.NotificationLogEntry
	for rows.Next() {
		var e models.NotificationLogEntry
		var ts string
		if err := rows.Scan(&e.ID, &e.Type, &e.Message, &ts, &e.Date); err != nil {
			return nil, fmt.Errorf("failed to scan notification log: %w", err)
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("invalid timestamp on log entry %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
