package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lawdesk/internal/models"
)

const caseColumns = `id, slug, title, summary, content, category, result,
	published, created_at, updated_at`

func scanCase(row interface{ Scan(...any) error }) (*models.Case, error) {
	var c models.Case
	err := row.Scan(
		&c.ID, &c.Slug, &c.Title, &c.Summary, &c.Content, &c.Category,
		&c.Result, &c.Published, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCase inserts a case study; duplicate slug is ErrSlugTaken.
func (db *DB) CreateCase(ctx context.Context, c *models.Case) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	res, err := db.ExecContext(ctx, `
		INSERT INTO cases (
			slug, title, summary, content, category, result,
			published, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Slug, c.Title, c.Summary, c.Content, c.Category, c.Result,
		c.Published, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("create case: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create case: %w", err)
	}
	return nil
}

// GetCase returns a case with its photos.
func (db *DB) GetCase(ctx context.Context, id int64) (*models.Case, error) {
	row := db.QueryRowContext(ctx, `SELECT `+caseColumns+` FROM cases WHERE id = ?`, id)
	c, err := scanCase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get case %d: %w", id, err)
	}
	c.Photos, err = db.ListCasePhotos(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCases returns cases matching the filter, newest first. Photos are not
// populated in list results.
func (db *DB) ListCases(ctx context.Context, f ContentFilter) ([]models.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE 1=1`
	var args []any
	if f.PublishedOnly {
		query += ` AND published = 1`
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
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	var out []models.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// UpdateCase overwrites a case; duplicate slug is ErrSlugTaken.
func (db *DB) UpdateCase(ctx context.Context, c *models.Case) error {
	c.UpdatedAt = time.Now()
	res, err := db.ExecContext(ctx, `
		UPDATE cases SET
			slug = ?, title = ?, summary = ?, content = ?, category = ?,
			result = ?, published = ?, updated_at = ?
		WHERE id = ?`,
		c.Slug, c.Title, c.Summary, c.Content, c.Category,
		c.Result, c.Published, c.UpdatedAt, c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("update case: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update case: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCase removes a case; its photos cascade via the foreign key.
func (db *DB) DeleteCase(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM cases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete case: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete case: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddCasePhoto attaches a photo to a case.
func (db *DB) AddCasePhoto(ctx context.Context, p *models.CasePhoto) error {
	p.CreatedAt = time.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO case_photos (case_id, url, caption, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.CaseID, p.URL, p.Caption, p.SortOrder, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("add case photo: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("add case photo: %w", err)
	}
	return nil
}

// GetCasePhoto returns a single photo by id.
func (db *DB) GetCasePhoto(ctx context.Context, id int64) (*models.CasePhoto, error) {
	var p models.CasePhoto
	err := db.QueryRowContext(ctx, `
		SELECT id, case_id, url, caption, sort_order, created_at
		FROM case_photos WHERE id = ?`, id,
	).Scan(&p.ID, &p.CaseID, &p.URL, &p.Caption, &p.SortOrder, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get case photo %d: %w", id, err)
	}
	return &p, nil
}

// ListCasePhotos returns a case's photos in sort order.
func (db *DB) ListCasePhotos(ctx context.Context, caseID int64) ([]models.CasePhoto, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, case_id, url, caption, sort_order, created_at
		FROM case_photos WHERE case_id = ? ORDER BY sort_order, id`, caseID)
	if err != nil {
		return nil, fmt.Errorf("list case photos: %w", err)
	}
	defer rows.Close()

	var out []models.CasePhoto
	for rows.Next() {
		var p models.CasePhoto
		if err := rows.Scan(&p.ID, &p.CaseID, &p.URL, &p.Caption, &p.SortOrder, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan case photo: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
