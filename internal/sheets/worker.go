package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"lawdesk/internal/database"
	"lawdesk/internal/models"
)

// Ledger is the spreadsheet side of the sync. Satisfied by *Service.
type Ledger interface {
	Upsert(ctx context.Context, c *models.Consultation) error
	Remove(ctx context.Context, consultationID int64) error
}

// Worker drains the sync_queue table into the ledger.
type Worker struct {
	db        *database.DB
	ledger    Ledger
	logger    *zerolog.Logger
	batchSize int
}

func NewWorker(db *database.DB, ledger Ledger, logger *zerolog.Logger) *Worker {
	return &Worker{db: db, ledger: ledger, logger: logger, batchSize: 20}
}

// Enqueue queues a ledger write for the consultation. Cancelled consultations
// are queued as deletions so the sheet only shows live work.
func (w *Worker) Enqueue(ctx context.Context, c *models.Consultation) error {
	if !mirrorable(c.Status) {
		return w.db.EnqueueSync(ctx, TaskDelete, c.ID, "")
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal sync payload: %w", err)
	}
	return w.db.EnqueueSync(ctx, TaskUpsert, c.ID, string(payload))
}

// EnqueueDelete queues removal of a consultation's ledger row.
func (w *Worker) EnqueueDelete(ctx context.Context, consultationID int64) error {
	return w.db.EnqueueSync(ctx, TaskDelete, consultationID, "")
}

// ProcessOnce handles one batch of due tasks. Per-task failures are recorded
// for retry and never stop the batch.
func (w *Worker) ProcessOnce(ctx context.Context) (int, error) {
	tasks, err := w.db.DequeueSyncTasks(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, task := range tasks {
		if err := w.process(ctx, &task); err != nil {
			w.logger.Error().Err(err).
				Int64("task_id", task.ID).
				Str("task_type", task.TaskType).
				Int("retry_count", task.RetryCount+1).
				Msg("ledger sync task failed")
			if mErr := w.db.MarkSyncFailed(ctx, task.ID, task.RetryCount+1, err.Error()); mErr != nil {
				w.logger.Error().Err(mErr).Int64("task_id", task.ID).Msg("mark sync failed errored")
			}
			continue
		}
		if err := w.db.MarkSyncDone(ctx, task.ID); err != nil {
			w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("mark sync done errored")
			continue
		}
		done++
	}
	return done, nil
}

func (w *Worker) process(ctx context.Context, task *database.SyncTask) error {
	switch task.TaskType {
	case TaskUpsert:
		var c models.Consultation
		if err := json.Unmarshal([]byte(task.Payload), &c); err != nil {
			return fmt.Errorf("unmarshal sync payload: %w", err)
		}
		return w.ledger.Upsert(ctx, &c)
	case TaskDelete:
		return w.ledger.Remove(ctx, task.ConsultationID)
	}
	return fmt.Errorf("unknown task type %q", task.TaskType)
}

// Run drains the queue on a fixed interval until the context is cancelled.
func (w *Worker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info().Dur("interval", interval).Msg("ledger sync worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("ledger sync worker stopped")
			return
		case <-ticker.C:
			if _, err := w.ProcessOnce(ctx); err != nil {
				w.logger.Error().Err(err).Msg("ledger sync batch failed")
			}
		}
	}
}
