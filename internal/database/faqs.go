package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lawdesk/internal/models"
)

const faqColumns = `id, question, answer, category, sort_order, published, created_at, updated_at`

func scanFAQ(row interface{ Scan(...any) error }) (*models.FAQ, error) {
	var f models.FAQ
	err := row.Scan(
		&f.ID, &f.Question, &f.Answer, &f.Category, &f.SortOrder,
		&f.Published, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateFAQ inserts a question/answer pair.
func (db *DB) CreateFAQ(ctx context.Context, f *models.FAQ) error {
	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now

	res, err := db.ExecContext(ctx, `
		INSERT INTO faqs (question, answer, category, sort_order, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.Question, f.Answer, f.Category, f.SortOrder, f.Published, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create faq: %w", err)
	}
	f.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create faq: %w", err)
	}
	return nil
}

// GetFAQ returns an FAQ by id.
func (db *DB) GetFAQ(ctx context.Context, id int64) (*models.FAQ, error) {
	row := db.QueryRowContext(ctx, `SELECT `+faqColumns+` FROM faqs WHERE id = ?`, id)
	f, err := scanFAQ(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get faq %d: %w", id, err)
	}
	return f, nil
}

// ListFAQs returns FAQs in sort order.
func (db *DB) ListFAQs(ctx context.Context, f ContentFilter) ([]models.FAQ, error) {
	query := `SELECT ` + faqColumns + ` FROM faqs WHERE 1=1`
	var args []any
	if f.PublishedOnly {
		query += ` AND published = 1`
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Search != "" {
		query += ` AND (question LIKE ? OR answer LIKE ?)`
		like := "%" + f.Search + "%"
		args = append(args, like, like)
	}
	query += ` ORDER BY sort_order, id`
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
		return nil, fmt.Errorf("list faqs: %w", err)
	}
	defer rows.Close()

	var out []models.FAQ
	for rows.Next() {
		item, err := scanFAQ(rows)
		if err != nil {
			return nil, fmt.Errorf("scan faq: %w", err)
		}
		out = append(out, *item)
	}
	return out, rows.Err()
}

// UpdateFAQ overwrites an FAQ.
func (db *DB) UpdateFAQ(ctx context.Context, f *models.FAQ) error {
	f.UpdatedAt = time.Now()
	res, err := db.ExecContext(ctx, `
		UPDATE faqs SET question = ?, answer = ?, category = ?, sort_order = ?,
			published = ?, updated_at = ?
		WHERE id = ?`,
		f.Question, f.Answer, f.Category, f.SortOrder, f.Published, f.UpdatedAt, f.ID,
	)
	if err != nil {
		return fmt.Errorf("update faq: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update faq: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteFAQ removes an FAQ.
func (db *DB) DeleteFAQ(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM faqs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete faq: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete faq: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
