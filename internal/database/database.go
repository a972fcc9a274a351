package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// DB wraps the sql connection pool and owns query construction for every
// entity. It holds no business logic.
type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("slot already taken")
	ErrSlugTaken = errors.New("slug already in use")
)

// NewDB opens the sqlite database, creating the file and schema if needed.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL mode, busy timeout and enforced foreign keys (photo cascades).
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	instance := &DB{DB: db, logger: logger}
	if err := instance.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("Database initialized")
	return instance, nil
}

func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS consultations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			request_type TEXT NOT NULL DEFAULT 'callback',
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			preferred_date DATETIME NOT NULL DEFAULT '0001-01-01 00:00:00+00:00',
			preferred_time TEXT NOT NULL DEFAULT '',
			office_location TEXT NOT NULL DEFAULT '',
			preferred_lawyer TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS blocked_times (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			block_type TEXT NOT NULL,
			blocked_date DATETIME NOT NULL,
			blocked_time_start TEXT NOT NULL DEFAULT '',
			blocked_time_end TEXT NOT NULL DEFAULT '',
			office_location TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL DEFAULT '',
			created_by TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS blog_posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slug TEXT UNIQUE NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			excerpt TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			thumbnail TEXT NOT NULL DEFAULT '',
			published BOOLEAN NOT NULL DEFAULT 0,
			published_at DATETIME NOT NULL DEFAULT '0001-01-01 00:00:00+00:00',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS cases (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slug TEXT UNIQUE NOT NULL,
			title TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			result TEXT NOT NULL DEFAULT '',
			published BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS case_photos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			case_id INTEGER NOT NULL,
			url TEXT NOT NULL,
			caption TEXT NOT NULL DEFAULT '',
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (case_id) REFERENCES cases(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS faqs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			sort_order INTEGER NOT NULL DEFAULT 0,
			published BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS testimonial_cases (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slug TEXT UNIQUE NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			client_initial TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			consent_given BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS testimonial_photos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			testimonial_id INTEGER NOT NULL,
			url TEXT NOT NULL,
			caption TEXT NOT NULL DEFAULT '',
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (testimonial_id) REFERENCES testimonial_cases(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS instagram_posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slug TEXT UNIQUE NOT NULL,
			permalink TEXT NOT NULL,
			image_url TEXT NOT NULL,
			caption TEXT NOT NULL DEFAULT '',
			posted_at DATETIME NOT NULL DEFAULT '0001-01-01 00:00:00+00:00',
			published BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS message_templates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT UNIQUE NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS message_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			consultation_id INTEGER NOT NULL DEFAULT 0,
			phone TEXT NOT NULL,
			kind TEXT NOT NULL,
			template_code TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sync_queue (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task_type TEXT NOT NULL,
			consultation_id INTEGER NOT NULL,
			payload TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			retry_count INTEGER NOT NULL DEFAULT 0,
			last_error TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			processed_at DATETIME,
			next_retry_at DATETIME
		)`,

		`CREATE INDEX IF NOT EXISTS idx_consultations_status ON consultations(status)`,
		`CREATE INDEX IF NOT EXISTS idx_consultations_date ON consultations(preferred_date)`,
		`CREATE INDEX IF NOT EXISTS idx_consultations_office ON consultations(office_location)`,
		`CREATE INDEX IF NOT EXISTS idx_consultations_phone ON consultations(phone)`,
		`CREATE INDEX IF NOT EXISTS idx_blocked_times_date ON blocked_times(blocked_date)`,
		`CREATE INDEX IF NOT EXISTS idx_blog_posts_published ON blog_posts(published)`,
		`CREATE INDEX IF NOT EXISTS idx_cases_category ON cases(category)`,
		`CREATE INDEX IF NOT EXISTS idx_case_photos_case ON case_photos(case_id)`,
		`CREATE INDEX IF NOT EXISTS idx_faqs_sort ON faqs(sort_order, id)`,
		`CREATE INDEX IF NOT EXISTS idx_testimonial_photos_parent ON testimonial_photos(testimonial_id)`,
		`CREATE INDEX IF NOT EXISTS idx_message_logs_consultation ON message_logs(consultation_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sync_queue_status ON sync_queue(status)`,
		`CREATE INDEX IF NOT EXISTS idx_sync_queue_next_retry ON sync_queue(next_retry_at)`,

		// Closes the double-booking race at the storage layer: two concurrent
		// creations for the same office/date/time both pass validation, but
		// only one insert commits.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_consultations_slot
			ON consultations(office_location, preferred_date, preferred_time)
			WHERE status IN ('pending', 'confirmed', 'in_progress')
			AND preferred_time != ''`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
