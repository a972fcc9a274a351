package notify

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"lawdesk/internal/database"
	"lawdesk/internal/metrics"
	"lawdesk/internal/models"
)

// Alerter pushes back-office notifications about new intakes.
type Alerter interface {
	AlertNewConsultation(c *models.Consultation)
}

// Dispatcher resolves templates and fires notifications for consultation
// lifecycle events. A nil gateway disables customer messages; a nil alerter
// disables back-office alerts.
type Dispatcher struct {
	store   TemplateStore
	gateway Gateway
	alerter Alerter
	logger  *zerolog.Logger
}

func NewDispatcher(store TemplateStore, gateway Gateway, alerter Alerter, logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		store:   store,
		gateway: gateway,
		alerter: alerter,
		logger:  logger,
	}
}

// NotifyTransition sends the customer message for a consultation that just
// moved to newStatus. Send failures are recorded in the message log and never
// returned to the caller: the status transition already happened and stays.
func (d *Dispatcher) NotifyTransition(ctx context.Context, c *models.Consultation, newStatus string) {
	code := TransitionCode(newStatus)
	if code == "" {
		return
	}
	d.send(ctx, c, code)
}

// NotifyReceived sends the intake acknowledgement and alerts the back office.
func (d *Dispatcher) NotifyReceived(ctx context.Context, c *models.Consultation) {
	if d.alerter != nil {
		d.alerter.AlertNewConsultation(c)
	}
	d.send(ctx, c, CodeReceived)
}

func (d *Dispatcher) send(ctx context.Context, c *models.Consultation, code string) {
	if d.gateway == nil || c.Phone == "" {
		return
	}

	tpl := d.template(ctx, code)
	body := Render(tpl.Body, c)
	msg := Message{
		Phone: c.Phone,
		Title: tpl.Title,
		Body:  body,
		Kind:  KindFor(body),
	}

	log := &models.MessageLog{
		ConsultationID: c.ID,
		Phone:          c.Phone,
		Kind:           msg.Kind,
		TemplateCode:   code,
		Body:           body,
	}

	if err := d.gateway.Send(ctx, msg); err != nil {
		log.Status = models.MessageFailed
		log.Error = err.Error()
		metrics.IncNotification("sms", "failed")
		d.logger.Error().Err(err).
			Int64("consultation_id", c.ID).
			Str("code", code).
			Msg("notification send failed")
	} else {
		log.Status = models.MessageSent
		metrics.IncNotification("sms", "sent")
		d.logger.Info().
			Int64("consultation_id", c.ID).
			Str("code", code).
			Str("kind", msg.Kind).
			Msg("notification sent")
	}

	if err := d.store.InsertMessageLog(ctx, log); err != nil {
		d.logger.Error().Err(err).Int64("consultation_id", c.ID).Msg("message log write failed")
	}
}

// template returns the operator-customized template, or the built-in default.
func (d *Dispatcher) template(ctx context.Context, code string) models.MessageTemplate {
	tpl, err := d.store.GetTemplateByCode(ctx, code)
	if err == nil {
		return *tpl
	}
	if !errors.Is(err, database.ErrNotFound) {
		d.logger.Error().Err(err).Str("code", code).Msg("template lookup failed")
	}
	return defaultTemplates[code]
}
