package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lawdesk/internal/models"
)

// GetTemplateByCode returns the message template for a transition code.
func (db *DB) GetTemplateByCode(ctx context.Context, code string) (*models.MessageTemplate, error) {
	var t models.MessageTemplate
	err := db.QueryRowContext(ctx, `
		SELECT id, code, title, body, created_at, updated_at
		FROM message_templates WHERE code = ?`, code,
	).Scan(&t.ID, &t.Code, &t.Title, &t.Body, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get template %q: %w", code, err)
	}
	return &t, nil
}

// UpsertTemplate creates or replaces a template by code.
func (db *DB) UpsertTemplate(ctx context.Context, t *models.MessageTemplate) error {
	now := time.Now()
	t.UpdatedAt = now
	_, err := db.ExecContext(ctx, `
		INSERT INTO message_templates (code, title, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET title = excluded.title,
			body = excluded.body, updated_at = excluded.updated_at`,
		t.Code, t.Title, t.Body, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert template %q: %w", t.Code, err)
	}
	return nil
}

// ListTemplates returns all templates ordered by code.
func (db *DB) ListTemplates(ctx context.Context) ([]models.MessageTemplate, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, code, title, body, created_at, updated_at
		FROM message_templates ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var out []models.MessageTemplate
	for rows.Next() {
		var t models.MessageTemplate
		if err := rows.Scan(&t.ID, &t.Code, &t.Title, &t.Body, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// InsertMessageLog records a dispatch attempt.
func (db *DB) InsertMessageLog(ctx context.Context, l *models.MessageLog) error {
	l.CreatedAt = time.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO message_logs (consultation_id, phone, kind, template_code, body, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ConsultationID, l.Phone, l.Kind, l.TemplateCode, l.Body, l.Status, l.Error, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message log: %w", err)
	}
	l.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert message log: %w", err)
	}
	return nil
}

// ListMessageLogs returns dispatch history for a consultation, newest first.
// A zero consultationID returns the most recent logs across all consultations.
func (db *DB) ListMessageLogs(ctx context.Context, consultationID int64, limit int) ([]models.MessageLog, error) {
	query := `SELECT id, consultation_id, phone, kind, template_code, body, status, error, created_at
		FROM message_logs`
	var args []any
	if consultationID > 0 {
		query += ` WHERE consultation_id = ?`
		args = append(args, consultationID)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list message logs: %w", err)
	}
	defer rows.Close()

	var out []models.MessageLog
	for rows.Next() {
		var l models.MessageLog
		if err := rows.Scan(&l.ID, &l.ConsultationID, &l.Phone, &l.Kind, &l.TemplateCode,
			&l.Body, &l.Status, &l.Error, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message log: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
