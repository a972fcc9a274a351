package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lawdesk/internal/models"
)

// ContentFilter narrows content listings. PublishedOnly is set for public
// reads; admin listings see everything.
type ContentFilter struct {
	Category      string
	Search        string
	PublishedOnly bool
	Limit         int
	Offset        int
}

const blogColumns = `id, slug, title, content, excerpt, category, thumbnail,
	published, published_at, created_at, updated_at`

func scanBlogPost(row interface{ Scan(...any) error }) (*models.BlogPost, error) {
	var p models.BlogPost
	err := row.Scan(
		&p.ID, &p.Slug, &p.Title, &p.Content, &p.Excerpt, &p.Category,
		&p.Thumbnail, &p.Published, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateBlogPost inserts a post; duplicate slug is ErrSlugTaken.
func (db *DB) CreateBlogPost(ctx context.Context, p *models.BlogPost) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Published && p.PublishedAt.IsZero() {
		p.PublishedAt = now
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO blog_posts (
			slug, title, content, excerpt, category, thumbnail,
			published, published_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, p.Content, p.Excerpt, p.Category, p.Thumbnail,
		p.Published, p.PublishedAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("create blog post: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create blog post: %w", err)
	}
	return nil
}

// GetBlogPost returns a post by id.
func (db *DB) GetBlogPost(ctx context.Context, id int64) (*models.BlogPost, error) {
	row := db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE id = ?`, id)
	p, err := scanBlogPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blog post %d: %w", id, err)
	}
	return p, nil
}

// GetBlogPostBySlug returns a post by slug.
func (db *DB) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	row := db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE slug = ?`, slug)
	p, err := scanBlogPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blog post %q: %w", slug, err)
	}
	return p, nil
}

// ListBlogPosts returns posts matching the filter, newest first.
func (db *DB) ListBlogPosts(ctx context.Context, f ContentFilter) ([]models.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts WHERE 1=1`
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
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	defer rows.Close()

	var out []models.BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog post: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// UpdateBlogPost overwrites a post; duplicate slug is ErrSlugTaken.
func (db *DB) UpdateBlogPost(ctx context.Context, p *models.BlogPost) error {
	p.UpdatedAt = time.Now()
	if p.Published && p.PublishedAt.IsZero() {
		p.PublishedAt = p.UpdatedAt
	}
	res, err := db.ExecContext(ctx, `
		UPDATE blog_posts SET
			slug = ?, title = ?, content = ?, excerpt = ?, category = ?,
			thumbnail = ?, published = ?, published_at = ?, updated_at = ?
		WHERE id = ?`,
		p.Slug, p.Title, p.Content, p.Excerpt, p.Category,
		p.Thumbnail, p.Published, p.PublishedAt, p.UpdatedAt, p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("update blog post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update blog post: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBlogPost removes a post permanently.
func (db *DB) DeleteBlogPost(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
