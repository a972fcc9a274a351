package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lawdesk/internal/models"
)

const testimonialColumns = `id, slug, title, content, client_initial, category,
	consent_given, created_at, updated_at`

func scanTestimonial(row interface{ Scan(...any) error }) (*models.TestimonialCase, error) {
	var t models.TestimonialCase
	err := row.Scan(
		&t.ID, &t.Slug, &t.Title, &t.Content, &t.ClientInitial, &t.Category,
		&t.ConsentGiven, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTestimonialCase inserts a testimonial; duplicate slug is ErrSlugTaken.
func (db *DB) CreateTestimonialCase(ctx context.Context, t *models.TestimonialCase) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	res, err := db.ExecContext(ctx, `
		INSERT INTO testimonial_cases (
			slug, title, content, client_initial, category, consent_given,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Slug, t.Title, t.Content, t.ClientInitial, t.Category, t.ConsentGiven,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("create testimonial: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create testimonial: %w", err)
	}
	return nil
}

// GetTestimonialCase returns a testimonial with its photos.
func (db *DB) GetTestimonialCase(ctx context.Context, id int64) (*models.TestimonialCase, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+testimonialColumns+` FROM testimonial_cases WHERE id = ?`, id)
	t, err := scanTestimonial(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get testimonial %d: %w", id, err)
	}
	t.Photos, err = db.ListTestimonialPhotos(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTestimonialCases returns testimonials, newest first. With PublishedOnly
// set, only consent-given rows are returned.
func (db *DB) ListTestimonialCases(ctx context.Context, f ContentFilter) ([]models.TestimonialCase, error) {
	query := `SELECT ` + testimonialColumns + ` FROM testimonial_cases WHERE 1=1`
	var args []any
	if f.PublishedOnly {
		query += ` AND consent_given = 1`
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Search != "" {
		query += ` AND (title LIKE ? OR content LIKE ?)`
		like := "%" + f.Search + "%"
		args = append(args, like, like)
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
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	var out []models.TestimonialCase
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan testimonial: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// UpdateTestimonialCase overwrites a testimonial; duplicate slug is ErrSlugTaken.
func (db *DB) UpdateTestimonialCase(ctx context.Context, t *models.TestimonialCase) error {
	t.UpdatedAt = time.Now()
	res, err := db.ExecContext(ctx, `
		UPDATE testimonial_cases SET
			slug = ?, title = ?, content = ?, client_initial = ?, category = ?,
			consent_given = ?, updated_at = ?
		WHERE id = ?`,
		t.Slug, t.Title, t.Content, t.ClientInitial, t.Category,
		t.ConsentGiven, t.UpdatedAt, t.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("update testimonial: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update testimonial: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTestimonialCase removes a testimonial; its photos cascade.
func (db *DB) DeleteTestimonialCase(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM testimonial_cases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddTestimonialPhoto attaches an evidence photo to a testimonial.
func (db *DB) AddTestimonialPhoto(ctx context.Context, p *models.TestimonialPhoto) error {
	p.CreatedAt = time.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO testimonial_photos (testimonial_id, url, caption, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.TestimonialID, p.URL, p.Caption, p.SortOrder, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("add testimonial photo: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("add testimonial photo: %w", err)
	}
	return nil
}

// GetTestimonialPhoto returns a single photo by id.
func (db *DB) GetTestimonialPhoto(ctx context.Context, id int64) (*models.TestimonialPhoto, error) {
	var p models.TestimonialPhoto
	err := db.QueryRowContext(ctx, `
		SELECT id, testimonial_id, url, caption, sort_order, created_at
		FROM testimonial_photos WHERE id = ?`, id,
	).Scan(&p.ID, &p.TestimonialID, &p.URL, &p.Caption, &p.SortOrder, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get testimonial photo %d: %w", id, err)
	}
	return &p, nil
}

// ListTestimonialPhotos returns a testimonial's photos in sort order.
func (db *DB) ListTestimonialPhotos(ctx context.Context, testimonialID int64) ([]models.TestimonialPhoto, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, testimonial_id, url, caption, sort_order, created_at
		FROM testimonial_photos WHERE testimonial_id = ? ORDER BY sort_order, id`,
		testimonialID)
	if err != nil {
		return nil, fmt.Errorf("list testimonial photos: %w", err)
	}
	defer rows.Close()

	var out []models.TestimonialPhoto
	for rows.Next() {
		var p models.TestimonialPhoto
		if err := rows.Scan(&p.ID, &p.TestimonialID, &p.URL, &p.Caption, &p.SortOrder, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan testimonial photo: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
