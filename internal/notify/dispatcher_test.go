package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawdesk/internal/database"
	"lawdesk/internal/models"
)

type fakeStore struct {
	templates map[string]*models.MessageTemplate
	logs      []*models.MessageLog
}

func (s *fakeStore) GetTemplateByCode(_ context.Context, code string) (*models.MessageTemplate, error) {
	if tpl, ok := s.templates[code]; ok {
		return tpl, nil
	}
	return nil, database.ErrNotFound
}

func (s *fakeStore) InsertMessageLog(_ context.Context, l *models.MessageLog) error {
	s.logs = append(s.logs, l)
	return nil
}

type fakeGateway struct {
	sent []Message
	err  error
}

func (g *fakeGateway) Send(_ context.Context, msg Message) error {
	g.sent = append(g.sent, msg)
	return g.err
}

func testConsultation() *models.Consultation {
	return &models.Consultation{
		ID:            7,
		Name:          "테스트",
		Phone:         "010-1234-5678",
		RequestType:   models.RequestVisit,
		Status:        models.StatusConfirmed,
		PreferredDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		PreferredTime: "14:00",
	}
}

func TestDispatcherUsesDefaultTemplate(t *testing.T) {
	store := &fakeStore{}
	gw := &fakeGateway{}
	logger := zerolog.Nop()
	d := NewDispatcher(store, gw, nil, &logger)

	d.NotifyTransition(context.Background(), testConsultation(), models.StatusConfirmed)

	require.Len(t, gw.sent, 1)
	assert.Contains(t, gw.sent[0].Body, "테스트")
	assert.Contains(t, gw.sent[0].Body, "2026-09-15")
	assert.Contains(t, gw.sent[0].Body, "14:00")

	require.Len(t, store.logs, 1)
	assert.Equal(t, models.MessageSent, store.logs[0].Status)
	assert.Equal(t, CodeConfirmed, store.logs[0].TemplateCode)
	assert.Equal(t, int64(7), store.logs[0].ConsultationID)
}

func TestDispatcherPrefersStoredTemplate(t *testing.T) {
	store := &fakeStore{templates: map[string]*models.MessageTemplate{
		CodeConfirmed: {Code: CodeConfirmed, Title: "확정", Body: "{{name}}님 안내"},
	}}
	gw := &fakeGateway{}
	logger := zerolog.Nop()
	d := NewDispatcher(store, gw, nil, &logger)

	d.NotifyTransition(context.Background(), testConsultation(), models.StatusConfirmed)

	require.Len(t, gw.sent, 1)
	assert.Equal(t, "테스트님 안내", gw.sent[0].Body)
	assert.Equal(t, "확정", gw.sent[0].Title)
}

func TestDispatcherRecordsFailure(t *testing.T) {
	store := &fakeStore{}
	gw := &fakeGateway{err: errors.New("gateway down")}
	logger := zerolog.Nop()
	d := NewDispatcher(store, gw, nil, &logger)

	// Failure is swallowed, not returned.
	d.NotifyTransition(context.Background(), testConsultation(), models.StatusCancelled)

	require.Len(t, store.logs, 1)
	assert.Equal(t, models.MessageFailed, store.logs[0].Status)
	assert.Equal(t, "gateway down", store.logs[0].Error)
}

func TestDispatcherSkipsSilentTransitions(t *testing.T) {
	store := &fakeStore{}
	gw := &fakeGateway{}
	logger := zerolog.Nop()
	d := NewDispatcher(store, gw, nil, &logger)

	d.NotifyTransition(context.Background(), testConsultation(), models.StatusInProgress)

	assert.Empty(t, gw.sent)
	assert.Empty(t, store.logs)
}

func TestDispatcherWithoutGateway(t *testing.T) {
	store := &fakeStore{}
	logger := zerolog.Nop()
	d := NewDispatcher(store, nil, nil, &logger)

	d.NotifyReceived(context.Background(), testConsultation())

	assert.Empty(t, store.logs)
}
