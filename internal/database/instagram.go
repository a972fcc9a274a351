package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lawdesk/internal/models"
)

const instagramColumns = `id, slug, permalink, image_url, caption, posted_at,
	published, created_at, updated_at`

func scanInstagramPost(row interface{ Scan(...any) error }) (*models.InstagramPost, error) {
	var p models.InstagramPost
	err := row.Scan(
		&p.ID, &p.Slug, &p.Permalink, &p.ImageURL, &p.Caption, &p.PostedAt,
		&p.Published, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateInstagramPost inserts a mirrored post; duplicate slug is ErrSlugTaken.
func (db *DB) CreateInstagramPost(ctx context.Context, p *models.InstagramPost) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	res, err := db.ExecContext(ctx, `
		INSERT INTO instagram_posts (
			slug, permalink, image_url, caption, posted_at, published,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Permalink, p.ImageURL, p.Caption, p.PostedAt, p.Published,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("create instagram post: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create instagram post: %w", err)
	}
	return nil
}

// GetInstagramPost returns a mirrored post by id.
func (db *DB) GetInstagramPost(ctx context.Context, id int64) (*models.InstagramPost, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+instagramColumns+` FROM instagram_posts WHERE id = ?`, id)
	p, err := scanInstagramPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get instagram post %d: %w", id, err)
	}
	return p, nil
}

// ListInstagramPosts returns mirrored posts, most recent post first.
func (db *DB) ListInstagramPosts(ctx context.Context, f ContentFilter) ([]models.InstagramPost, error) {
	query := `SELECT ` + instagramColumns + ` FROM instagram_posts WHERE 1=1`
	var args []any
	if f.PublishedOnly {
		query += ` AND published = 1`
	}
	if f.Search != "" {
		query += ` AND caption LIKE ?`
		args = append(args, "%"+f.Search+"%")
	}
	query += ` ORDER BY posted_at DESC, id DESC`
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
		return nil, fmt.Errorf("list instagram posts: %w", err)
	}
	defer rows.Close()

	var out []models.InstagramPost
	for rows.Next() {
		p, err := scanInstagramPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan instagram post: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// UpdateInstagramPost overwrites a mirrored post.
func (db *DB) UpdateInstagramPost(ctx context.Context, p *models.InstagramPost) error {
	p.UpdatedAt = time.Now()
	res, err := db.ExecContext(ctx, `
		UPDATE instagram_posts SET
			slug = ?, permalink = ?, image_url = ?, caption = ?, posted_at = ?,
			published = ?, updated_at = ?
		WHERE id = ?`,
		p.Slug, p.Permalink, p.ImageURL, p.Caption, p.PostedAt,
		p.Published, p.UpdatedAt, p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("update instagram post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update instagram post: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteInstagramPost removes a mirrored post.
func (db *DB) DeleteInstagramPost(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM instagram_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete instagram post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete instagram post: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
