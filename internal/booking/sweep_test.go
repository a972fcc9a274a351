package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawdesk/internal/models"
)

func TestAutoConfirmSweep(t *testing.T) {
	svc, db, notifier := newTestService(t)
	ctx := context.Background()

	// Uncontested pending visit.
	free := visitRequest()
	free.PreferredTime = "10:00"
	require.NoError(t, db.CreateConsultation(ctx, withStatus(free, models.StatusPending)))

	// Pending visit overlapping an already confirmed one.
	confirmed := visitRequest()
	confirmed.PreferredTime = "14:00"
	require.NoError(t, db.CreateConsultation(ctx, withStatus(confirmed, models.StatusConfirmed)))

	contested := visitRequest()
	contested.PreferredTime = "14:30"
	require.NoError(t, db.CreateConsultation(ctx, withStatus(contested, models.StatusPending)))

	result, err := svc.RunAutoConfirm(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 1, result.Confirmed)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.Items, 2)

	byID := map[int64]SweepItem{}
	for _, item := range result.Items {
		byID[item.ConsultationID] = item
	}
	assert.Equal(t, SweepConfirmed, byID[free.ID].Result)
	assert.Equal(t, SweepSkipped, byID[contested.ID].Result)
	assert.NotEmpty(t, byID[contested.ID].Reason)

	got, err := db.GetConsultation(ctx, free.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	got, err = db.GetConsultation(ctx, contested.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)

	// Exactly one notification for the one confirmed consultation.
	assert.Equal(t, []string{models.StatusConfirmed}, notifier.transitions)
}

func TestSweepRespectsBlockedTimes(t *testing.T) {
	svc, db, notifier := newTestService(t)
	ctx := context.Background()

	c := visitRequest()
	require.NoError(t, db.CreateConsultation(ctx, withStatus(c, models.StatusPending)))

	require.NoError(t, db.CreateBlockedTime(ctx, &models.BlockedTime{
		BlockType:   models.BlockDate,
		BlockedDate: c.PreferredDate,
		Reason:      "휴무",
		CreatedBy:   "admin",
	}))

	result, err := svc.RunAutoConfirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Confirmed)
	assert.Empty(t, notifier.transitions)

	got, err := db.GetConsultation(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestSweepIgnoresSlotlessPending(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	callback := &models.Consultation{
		RequestType: models.RequestCallback,
		Name:        "김철수",
		Phone:       "010-9999-8888",
		Status:      models.StatusPending,
	}
	require.NoError(t, db.CreateConsultation(ctx, callback))

	result, err := svc.RunAutoConfirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalProcessed)
}

func TestSweepIsIdempotent(t *testing.T) {
	svc, db, notifier := newTestService(t)
	ctx := context.Background()

	c := visitRequest()
	require.NoError(t, db.CreateConsultation(ctx, withStatus(c, models.StatusPending)))

	first, err := svc.RunAutoConfirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Confirmed)

	second, err := svc.RunAutoConfirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.TotalProcessed)

	assert.Len(t, notifier.transitions, 1)
}

func TestSweepLoopStopsOnCancel(t *testing.T) {
	svc, _, _ := newTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.RunSweepLoop(ctx, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweep loop did not stop")
	}
}

func withStatus(c *models.Consultation, status string) *models.Consultation {
	c.Status = status
	return c
}
