package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lawdesk/internal/models"
)

const blockedTimeColumns = `id, block_type, blocked_date, blocked_time_start,
	blocked_time_end, office_location, reason, created_by, created_at, updated_at`

func scanBlockedTime(row interface{ Scan(...any) error }) (*models.BlockedTime, error) {
	var b models.BlockedTime
	err := row.Scan(
		&b.ID, &b.BlockType, &b.BlockedDate, &b.BlockedTimeStart,
		&b.BlockedTimeEnd, &b.OfficeLocation, &b.Reason, &b.CreatedBy,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBlockedTime inserts an operator-declared unavailable range.
func (db *DB) CreateBlockedTime(ctx context.Context, b *models.BlockedTime) error {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	res, err := db.ExecContext(ctx, `
		INSERT INTO blocked_times (
			block_type, blocked_date, blocked_time_start, blocked_time_end,
			office_location, reason, created_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.BlockType, b.BlockedDate, b.BlockedTimeStart, b.BlockedTimeEnd,
		b.OfficeLocation, b.Reason, b.CreatedBy, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create blocked time: %w", err)
	}
	b.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create blocked time: %w", err)
	}
	return nil
}

// GetBlockedTime returns a blocked time entry by id.
func (db *DB) GetBlockedTime(ctx context.Context, id int64) (*models.BlockedTime, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+blockedTimeColumns+` FROM blocked_times WHERE id = ?`, id)
	b, err := scanBlockedTime(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blocked time %d: %w", id, err)
	}
	return b, nil
}

// ListBlockedTimes returns all entries, optionally from a given date onward.
func (db *DB) ListBlockedTimes(ctx context.Context, from time.Time) ([]models.BlockedTime, error) {
	query := `SELECT ` + blockedTimeColumns + ` FROM blocked_times`
	var args []any
	if !from.IsZero() {
		query += ` WHERE date(blocked_date) >= date(?)`
		args = append(args, from)
	}
	query += ` ORDER BY blocked_date ASC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list blocked times: %w", err)
	}
	defer rows.Close()

	return collectBlockedTimes(rows)
}

// GetBlockedTimesForDate returns blocks that may apply to the office on the
// given date: entries for that date scoped to the office or to all offices.
func (db *DB) GetBlockedTimesForDate(ctx context.Context, office string, date time.Time) ([]models.BlockedTime, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+blockedTimeColumns+` FROM blocked_times
		WHERE date(blocked_date) = date(?)
		AND (office_location = '' OR office_location = ?)`,
		date, office,
	)
	if err != nil {
		return nil, fmt.Errorf("get blocked times for date: %w", err)
	}
	defer rows.Close()

	return collectBlockedTimes(rows)
}

func collectBlockedTimes(rows *sql.Rows) ([]models.BlockedTime, error) {
	var out []models.BlockedTime
	for rows.Next() {
		b, err := scanBlockedTime(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blocked time: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// UpdateBlockedTime overwrites an existing entry.
func (db *DB) UpdateBlockedTime(ctx context.Context, b *models.BlockedTime) error {
	b.UpdatedAt = time.Now()
	res, err := db.ExecContext(ctx, `
		UPDATE blocked_times SET
			block_type = ?, blocked_date = ?, blocked_time_start = ?,
			blocked_time_end = ?, office_location = ?, reason = ?, updated_at = ?
		WHERE id = ?`,
		b.BlockType, b.BlockedDate, b.BlockedTimeStart, b.BlockedTimeEnd,
		b.OfficeLocation, b.Reason, b.UpdatedAt, b.ID,
	)
	if err != nil {
		return fmt.Errorf("update blocked time: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update blocked time: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBlockedTime removes an entry.
func (db *DB) DeleteBlockedTime(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM blocked_times WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete blocked time: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete blocked time: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
