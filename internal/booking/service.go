// Package booking holds the intake rules for consultations: validation,
// slot conflict detection against existing bookings and blocked times, and
// the status lifecycle with its auto-confirm sweep.
package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lawdesk/internal/database"
	"lawdesk/internal/metrics"
	"lawdesk/internal/models"
)

// ValidationError marks a request the client can fix.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErr(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Notifier dispatches customer and back-office messages. Failures are the
// notifier's problem; booking never waits on delivery outcomes.
type Notifier interface {
	NotifyReceived(ctx context.Context, c *models.Consultation)
	NotifyTransition(ctx context.Context, c *models.Consultation, newStatus string)
}

// Syncer queues consultation-ledger mirror updates. Satisfied by the sheets
// worker; nil disables mirroring.
type Syncer interface {
	Enqueue(ctx context.Context, c *models.Consultation) error
	EnqueueDelete(ctx context.Context, consultationID int64) error
}

// Config carries the booking window settings.
type Config struct {
	SlotDuration time.Duration
	MinAdvance   time.Duration
	MaxAdvance   time.Duration
}

// Service implements consultation intake and lifecycle operations.
type Service struct {
	db       *database.DB
	notifier Notifier
	syncer   Syncer
	logger   *zerolog.Logger
	cfg      Config
}

func NewService(db *database.DB, notifier Notifier, logger *zerolog.Logger, cfg Config) *Service {
	if cfg.SlotDuration <= 0 {
		cfg.SlotDuration = time.Hour
	}
	return &Service{db: db, notifier: notifier, logger: logger, cfg: cfg}
}

// SetSyncer enables consultation-ledger mirroring.
func (s *Service) SetSyncer(syncer Syncer) {
	s.syncer = syncer
}

func (s *Service) enqueueSync(ctx context.Context, c *models.Consultation) {
	if s.syncer == nil {
		return
	}
	if err := s.syncer.Enqueue(ctx, c); err != nil {
		s.logger.Error().Err(err).Int64("id", c.ID).Msg("ledger sync enqueue failed")
	}
}

// Create validates and persists a new consultation request. Slot-typed
// requests (visit, video) are checked for conflicts before insert; the
// partial unique index on the slot closes the remaining race, surfacing as
// ErrConflict from the insert itself.
func (s *Service) Create(ctx context.Context, c *models.Consultation) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)

	if c.Name == "" {
		return validationErr("name is required")
	}
	if c.Phone == "" {
		return validationErr("phone is required")
	}
	if !models.ValidRequestType(c.RequestType) {
		return validationErr("unknown request type %q", c.RequestType)
	}

	if c.RequiresSlot() {
		if c.PreferredDate.IsZero() || c.PreferredTime == "" {
			return validationErr("%s consultations require a preferred date and time", c.RequestType)
		}
		if _, err := models.ParseClock(c.PreferredTime); err != nil {
			return validationErr("invalid preferred time %q: expected HH:MM", c.PreferredTime)
		}
		if err := s.checkAdvanceWindow(c); err != nil {
			return err
		}
		if reason, err := s.slotConflict(ctx, c); err != nil {
			return err
		} else if reason != "" {
			metrics.IncConflict()
			return fmt.Errorf("%w: %s", database.ErrConflict, reason)
		}
	} else {
		// Callbacks and info requests never hold a slot.
		c.PreferredTime = ""
	}

	c.Status = models.StatusPending
	if err := s.db.CreateConsultation(ctx, c); err != nil {
		if err == database.ErrConflict {
			metrics.IncConflict()
		}
		return err
	}

	metrics.IncConsultationCreated(c.RequestType)
	s.logger.Info().
		Int64("id", c.ID).
		Str("request_type", c.RequestType).
		Str("office", c.OfficeLocation).
		Msg("consultation created")

	if s.notifier != nil {
		s.notifier.NotifyReceived(ctx, c)
	}
	s.enqueueSync(ctx, c)
	return nil
}

// checkAdvanceWindow rejects slots in the past, too soon, or too far out.
func (s *Service) checkAdvanceWindow(c *models.Consultation) error {
	startMin, _ := models.ParseClock(c.PreferredTime)
	y, m, d := c.PreferredDate.Date()
	slot := time.Date(y, m, d, startMin/60, startMin%60, 0, 0, time.Local)

	now := time.Now()
	if s.cfg.MinAdvance > 0 && slot.Before(now.Add(s.cfg.MinAdvance)) {
		return validationErr("slot must be booked at least %s in advance", s.cfg.MinAdvance)
	}
	if s.cfg.MaxAdvance > 0 && slot.After(now.Add(s.cfg.MaxAdvance)) {
		return validationErr("slot is too far in the future")
	}
	return nil
}

// slotConflict returns a human-readable reason when the consultation's slot
// collides with an active booking or a blocked time, or "" when free.
func (s *Service) slotConflict(ctx context.Context, c *models.Consultation) (string, error) {
	startMin, endMin, ok := c.SlotRange(s.cfg.SlotDuration)
	if !ok {
		return "", nil
	}

	existing, err := s.db.GetActiveSlotConsultations(ctx, c.OfficeLocation, c.PreferredDate)
	if err != nil {
		return "", err
	}
	for i := range existing {
		if existing[i].ID == c.ID {
			continue
		}
		if c.OverlapsWith(&existing[i], s.cfg.SlotDuration) {
			return fmt.Sprintf("slot %s already booked", c.PreferredTime), nil
		}
	}

	blocks, err := s.db.GetBlockedTimesForDate(ctx, c.OfficeLocation, c.PreferredDate)
	if err != nil {
		return "", err
	}
	for i := range blocks {
		if blocks[i].Blocks(c.OfficeLocation, c.PreferredDate, startMin, endMin) {
			reason := blocks[i].Reason
			if reason == "" {
				reason = "time is unavailable"
			}
			return reason, nil
		}
	}
	return "", nil
}

// UpdateStatus moves a consultation through its lifecycle and dispatches the
// matching notification. Invalid transitions are a ValidationError; moving
// into an occupied slot state surfaces as ErrConflict from the unique index.
func (s *Service) UpdateStatus(ctx context.Context, id int64, to string) (*models.Consultation, error) {
	if !models.ValidStatus(to) {
		return nil, validationErr("unknown status %q", to)
	}

	c, err := s.db.GetConsultation(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == to {
		return c, nil
	}
	if !models.CanTransition(c.Status, to) {
		return nil, validationErr("cannot transition from %s to %s", c.Status, to)
	}

	if err := s.db.UpdateConsultationStatus(ctx, id, to); err != nil {
		return nil, err
	}
	c.Status = to
	metrics.IncTransition(to)
	s.logger.Info().Int64("id", id).Str("status", to).Msg("consultation status updated")

	if s.notifier != nil {
		s.notifier.NotifyTransition(ctx, c, to)
	}
	s.enqueueSync(ctx, c)
	return c, nil
}

// Get returns a single consultation.
func (s *Service) Get(ctx context.Context, id int64) (*models.Consultation, error) {
	return s.db.GetConsultation(ctx, id)
}

// List returns consultations matching the filter.
func (s *Service) List(ctx context.Context, f database.ConsultationFilter) ([]models.Consultation, error) {
	return s.db.ListConsultations(ctx, f)
}

// Delete removes a consultation permanently.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.db.DeleteConsultation(ctx, id); err != nil {
		return err
	}
	if s.syncer != nil {
		if err := s.syncer.EnqueueDelete(ctx, id); err != nil {
			s.logger.Error().Err(err).Int64("id", id).Msg("ledger delete enqueue failed")
		}
	}
	return nil
}
