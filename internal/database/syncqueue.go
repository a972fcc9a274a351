package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SyncTask is a queued consultation-ledger sync operation. Tasks are retried
// with backoff until MaxSyncRetries is reached.
type SyncTask struct {
	ID             int64
	TaskType       string // "upsert" or "delete"
	ConsultationID int64
	Payload        string
	Status         string // pending, done, failed
	RetryCount     int
	LastError      string
	CreatedAt      time.Time
	ProcessedAt    sql.NullTime
	NextRetryAt    sql.NullTime
}

// MaxSyncRetries is the number of attempts before a task is marked failed.
const MaxSyncRetries = 5

// EnqueueSync adds a ledger sync task for a consultation.
func (db *DB) EnqueueSync(ctx context.Context, taskType string, consultationID int64, payload string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO sync_queue (task_type, consultation_id, payload, status, created_at)
		VALUES (?, ?, ?, 'pending', ?)`,
		taskType, consultationID, payload, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("enqueue sync: %w", err)
	}
	return nil
}

// DequeueSyncTasks returns pending tasks whose retry time has passed, oldest
// first.
func (db *DB) DequeueSyncTasks(ctx context.Context, limit int) ([]SyncTask, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, task_type, consultation_id, payload, status, retry_count,
			last_error, created_at, processed_at, next_retry_at
		FROM sync_queue
		WHERE status = 'pending'
		AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY id ASC
		LIMIT ?`,
		time.Now(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("dequeue sync tasks: %w", err)
	}
	defer rows.Close()

	var out []SyncTask
	for rows.Next() {
		var t SyncTask
		if err := rows.Scan(&t.ID, &t.TaskType, &t.ConsultationID, &t.Payload,
			&t.Status, &t.RetryCount, &t.LastError, &t.CreatedAt,
			&t.ProcessedAt, &t.NextRetryAt); err != nil {
			return nil, fmt.Errorf("scan sync task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// MarkSyncDone marks a task as processed.
func (db *DB) MarkSyncDone(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx, `
		UPDATE sync_queue SET status = 'done', processed_at = ? WHERE id = ?`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("mark sync done: %w", err)
	}
	return nil
}

// MarkSyncFailed records a failed attempt. The task stays pending with an
// exponential backoff until the retry budget is exhausted.
func (db *DB) MarkSyncFailed(ctx context.Context, id int64, retryCount int, lastError string) error {
	if retryCount >= MaxSyncRetries {
		_, err := db.ExecContext(ctx, `
			UPDATE sync_queue SET status = 'failed', retry_count = ?, last_error = ?, processed_at = ?
			WHERE id = ?`,
			retryCount, lastError, time.Now(), id,
		)
		if err != nil {
			return fmt.Errorf("mark sync failed: %w", err)
		}
		return nil
	}

	backoff := time.Duration(1<<retryCount) * time.Minute
	_, err := db.ExecContext(ctx, `
		UPDATE sync_queue SET retry_count = ?, last_error = ?, next_retry_at = ?
		WHERE id = ?`,
		retryCount, lastError, time.Now().Add(backoff), id,
	)
	if err != nil {
		return fmt.Errorf("mark sync failed: %w", err)
	}
	return nil
}
