package booking

import (
	"context"
	"errors"
	"time"

	"lawdesk/internal/database"
	"lawdesk/internal/metrics"
	"lawdesk/internal/models"
)

// Sweep item results.
const (
	SweepConfirmed = "confirmed"
	SweepSkipped   = "skipped"
	SweepFailed    = "failed"
)

// SweepItem is the outcome for one pending consultation.
type SweepItem struct {
	ConsultationID int64  `json:"consultation_id"`
	Name           string `json:"name"`
	Result         string `json:"result"`
	Reason         string `json:"reason,omitempty"`
}

// SweepResult summarizes one auto-confirm run.
type SweepResult struct {
	TotalProcessed int         `json:"total_processed"`
	Confirmed      int         `json:"confirmed"`
	Skipped        int         `json:"skipped"`
	Failed         int         `json:"failed"`
	Items          []SweepItem `json:"items"`
}

// RunAutoConfirm promotes pending consultations with an upcoming,
// uncontested slot to confirmed. Conflicted ones stay pending with the
// reason recorded in the result; a persistence failure on one item never
// stops the batch.
func (s *Service) RunAutoConfirm(ctx context.Context) (*SweepResult, error) {
	start := time.Now()
	metrics.IncSweepRun()
	defer func() {
		metrics.ObserveSweepDuration(time.Since(start).Seconds())
	}()

	pending, err := s.db.GetPendingUpcoming(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Items: []SweepItem{}}
	for i := range pending {
		c := &pending[i]
		result.TotalProcessed++
		item := SweepItem{ConsultationID: c.ID, Name: c.Name}

		reason, err := s.slotConflict(ctx, c)
		switch {
		case err != nil:
			result.Failed++
			item.Result = SweepFailed
			item.Reason = err.Error()
			s.logger.Error().Err(err).Int64("id", c.ID).Msg("sweep conflict check failed")

		case reason != "":
			result.Skipped++
			item.Result = SweepSkipped
			item.Reason = reason

		default:
			if err := s.db.UpdateConsultationStatus(ctx, c.ID, models.StatusConfirmed); err != nil {
				if errors.Is(err, database.ErrConflict) {
					// Lost the slot between check and update.
					result.Skipped++
					item.Result = SweepSkipped
					item.Reason = "slot taken"
				} else {
					result.Failed++
					item.Result = SweepFailed
					item.Reason = err.Error()
					s.logger.Error().Err(err).Int64("id", c.ID).Msg("sweep confirm failed")
				}
				break
			}
			c.Status = models.StatusConfirmed
			result.Confirmed++
			item.Result = SweepConfirmed
			metrics.IncTransition(models.StatusConfirmed)
			if s.notifier != nil {
				s.notifier.NotifyTransition(ctx, c, models.StatusConfirmed)
			}
			s.enqueueSync(ctx, c)
		}

		result.Items = append(result.Items, item)
	}

	metrics.AddSweepConfirmed(result.Confirmed)
	s.logger.Info().
		Int("processed", result.TotalProcessed).
		Int("confirmed", result.Confirmed).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("auto-confirm sweep finished")
	return result, nil
}

// RunSweepLoop runs the auto-confirm sweep on a fixed interval until the
// context is cancelled.
func (s *Service) RunSweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", interval).Msg("auto-confirm sweep loop started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("auto-confirm sweep loop stopped")
			return
		case <-ticker.C:
			if _, err := s.RunAutoConfirm(ctx); err != nil {
				s.logger.Error().Err(err).Msg("auto-confirm sweep failed")
			}
		}
	}
}
