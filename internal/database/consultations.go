package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lawdesk/internal/models"
)

// ConsultationFilter narrows ListConsultations results.
type ConsultationFilter struct {
	Status string
	Office string
	Search string // matched against name and phone
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// CreateConsultation inserts a new consultation. A unique-index violation on
// the slot index is returned as ErrConflict.
func (db *DB) CreateConsultation(ctx context.Context, c *models.Consultation) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	res, err := db.ExecContext(ctx, `
		INSERT INTO consultations (
			request_type, name, phone, email, category, message, status,
			preferred_date, preferred_time, office_location, preferred_lawyer,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.RequestType, c.Name, c.Phone, c.Email, c.Category, c.Message, c.Status,
		c.PreferredDate, c.PreferredTime, c.OfficeLocation, c.PreferredLawyer,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("create consultation: %w", err)
	}

	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create consultation: %w", err)
	}
	return nil
}

const consultationColumns = `id, request_type, name, phone,
	email, category, message, status,
	preferred_date, preferred_time,
	office_location, preferred_lawyer, created_at, updated_at`

func scanConsultation(row interface{ Scan(...any) error }) (*models.Consultation, error) {
	var c models.Consultation
	err := row.Scan(
		&c.ID, &c.RequestType, &c.Name, &c.Phone,
		&c.Email, &c.Category, &c.Message, &c.Status,
		&c.PreferredDate, &c.PreferredTime,
		&c.OfficeLocation, &c.PreferredLawyer, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetConsultation returns a consultation by id, or ErrNotFound.
func (db *DB) GetConsultation(ctx context.Context, id int64) (*models.Consultation, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+consultationColumns+` FROM consultations WHERE id = ?`, id)
	c, err := scanConsultation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get consultation %d: %w", id, err)
	}
	return c, nil
}

// ListConsultations returns consultations matching the filter, newest first.
func (db *DB) ListConsultations(ctx context.Context, f ConsultationFilter) ([]models.Consultation, error) {
	query := `SELECT ` + consultationColumns + ` FROM consultations WHERE 1=1`
	var args []any

	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.Office != "" {
		query += ` AND office_location = ?`
		args = append(args, f.Office)
	}
	if f.Search != "" {
		query += ` AND (name LIKE ? OR phone LIKE ?)`
		like := "%" + f.Search + "%"
		args = append(args, like, like)
	}
	if !f.From.IsZero() {
		query += ` AND preferred_date >= ?`
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		query += ` AND preferred_date <= ?`
		args = append(args, f.To)
	}
	query += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
		if f.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, f.Offset)
		}
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}
	defer rows.Close()

	return collectConsultations(rows)
}

// GetActiveSlotConsultations returns consultations that occupy a time slot at
// the office on the given date and are still active (pending, confirmed or
// in progress).
func (db *DB) GetActiveSlotConsultations(ctx context.Context, office string, date time.Time) ([]models.Consultation, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+consultationColumns+` FROM consultations
		WHERE office_location = ?
		AND date(preferred_date) = date(?)
		AND preferred_time != ''
		AND status IN ('pending', 'confirmed', 'in_progress')`,
		office, date,
	)
	if err != nil {
		return nil, fmt.Errorf("get active slot consultations: %w", err)
	}
	defer rows.Close()

	return collectConsultations(rows)
}

// GetPendingUpcoming returns pending consultations whose preferred date is
// after the given moment. Used by the auto-confirm sweep.
func (db *DB) GetPendingUpcoming(ctx context.Context, after time.Time) ([]models.Consultation, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+consultationColumns+` FROM consultations
		WHERE status = 'pending' AND preferred_date > ?
		ORDER BY preferred_date ASC`,
		after,
	)
	if err != nil {
		return nil, fmt.Errorf("get pending upcoming: %w", err)
	}
	defer rows.Close()

	return collectConsultations(rows)
}

func collectConsultations(rows *sql.Rows) ([]models.Consultation, error) {
	var out []models.Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consultation: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// UpdateConsultationStatus sets the status of a consultation.
func (db *DB) UpdateConsultationStatus(ctx context.Context, id int64, status string) error {
	res, err := db.ExecContext(ctx, `
		UPDATE consultations SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("update consultation status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update consultation status: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteConsultation removes a consultation permanently.
func (db *DB) DeleteConsultation(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM consultations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete consultation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete consultation: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
