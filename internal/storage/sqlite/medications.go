package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/medwatch/internal/models"
)

func (s *Store) ReplaceMedications(ctx context.Context, meds []models.Medication) error {
	for i := range meds {
		if err := meds[i].Validate(); err != nil {
			return err
		}
	}

	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM medications"); err != nil {
		return fmt.Errorf("failed to clear medications: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO medications (id, name, status, start_date, end_date, color_class)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range meds {
		if _, err := stmt.ExecContext(ctx,
			m.ID, m.Name, string(m.Status), dateString(m.StartDate), dateString(m.EndDate), m.ColorClass,
		); err != nil {
			return fmt.Errorf("failed to insert medication %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit medications: %w", err)
	}
	return nil
}

func (s *Store) ListMedications(ctx context.Context) ([]models.Medication, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, name, status, start_date, end_date, color_class
		FROM medications
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query medications: %w", err)
	}
	defer rows.Close()

	var meds []models.Medication
	for rows.Next() {
		var m models.Medication
		var status string
		var startDate, endDate sql.NullString

		if err := rows.Scan(&m.ID, &m.Name, &status, &startDate, &endDate, &m.ColorClass); err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		m.Status = models.Status(status)

		if m.StartDate, err = parseNullDate(startDate); err != nil {
			return nil, fmt.Errorf("medication %s start date: %w", m.ID, err)
		}
		if m.EndDate, err = parseNullDate(endDate); err != nil {
			return nil, fmt.Errorf("medication %s end date: %w", m.ID, err)
		}

		meds = append(meds, m)
	}

	return meds, rows.Err()
}

func dateString(d *models.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func parseNullDate(ns sql.NullString) (*models.Date, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	d, err := models.ParseDate(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
