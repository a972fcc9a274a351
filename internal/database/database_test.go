package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawdesk/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestConsultationCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	c := &models.Consultation{
		RequestType: models.RequestCallback,
		Name:        "테스트",
		Phone:       "010-1234-5678",
		Status:      models.StatusPending,
	}
	require.NoError(t, db.CreateConsultation(ctx, c))
	require.NotZero(t, c.ID)

	got, err := db.GetConsultation(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "테스트", got.Name)
	assert.Equal(t, "010-1234-5678", got.Phone)
	assert.Equal(t, models.StatusPending, got.Status)

	require.NoError(t, db.UpdateConsultationStatus(ctx, c.ID, models.StatusCompleted))
	got, err = db.GetConsultation(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)

	require.NoError(t, db.DeleteConsultation(ctx, c.ID))
	_, err = db.GetConsultation(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConsultationSlotUniqueIndex(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	day := testDate(2025, 6, 2)

	first := &models.Consultation{
		RequestType:    models.RequestVisit,
		Name:           "김철수",
		Phone:          "010-1111-2222",
		Status:         models.StatusPending,
		PreferredDate:  day,
		PreferredTime:  "14:00",
		OfficeLocation: "seoul",
	}
	require.NoError(t, db.CreateConsultation(ctx, first))

	// Identical slot loses at commit time even though validation already passed.
	second := &models.Consultation{
		RequestType:    models.RequestVisit,
		Name:           "이영희",
		Phone:          "010-3333-4444",
		Status:         models.StatusPending,
		PreferredDate:  day,
		PreferredTime:  "14:00",
		OfficeLocation: "seoul",
	}
	assert.ErrorIs(t, db.CreateConsultation(ctx, second), ErrConflict)

	// Same slot at a different office is fine.
	second.OfficeLocation = "busan"
	assert.NoError(t, db.CreateConsultation(ctx, second))

	// Cancelling the first frees the slot.
	require.NoError(t, db.UpdateConsultationStatus(ctx, first.ID, models.StatusCancelled))
	third := &models.Consultation{
		RequestType:    models.RequestVisit,
		Name:           "박민수",
		Phone:          "010-5555-6666",
		Status:         models.StatusPending,
		PreferredDate:  day,
		PreferredTime:  "14:00",
		OfficeLocation: "seoul",
	}
	assert.NoError(t, db.CreateConsultation(ctx, third))
}

func TestConsultationQueries(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	day := testDate(2025, 6, 2)

	seed := []models.Consultation{
		{RequestType: models.RequestVisit, Name: "a", Phone: "010-0000-0001",
			Status: models.StatusPending, PreferredDate: day, PreferredTime: "10:00", OfficeLocation: "seoul"},
		{RequestType: models.RequestVisit, Name: "b", Phone: "010-0000-0002",
			Status: models.StatusConfirmed, PreferredDate: day, PreferredTime: "11:00", OfficeLocation: "seoul"},
		{RequestType: models.RequestVisit, Name: "c", Phone: "010-0000-0003",
			Status: models.StatusCancelled, PreferredDate: day, PreferredTime: "12:00", OfficeLocation: "seoul"},
		{RequestType: models.RequestCallback, Name: "d", Phone: "010-0000-0004",
			Status: models.StatusPending},
	}
	for i := range seed {
		require.NoError(t, db.CreateConsultation(ctx, &seed[i]))
	}

	active, err := db.GetActiveSlotConsultations(ctx, "seoul", day)
	require.NoError(t, err)
	assert.Len(t, active, 2) // cancelled excluded, callback has no slot

	pending, err := db.ListConsultations(ctx, ConsultationFilter{Status: models.StatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	found, err := db.ListConsultations(ctx, ConsultationFilter{Search: "0000-0004"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "d", found[0].Name)

	upcoming, err := db.GetPendingUpcoming(ctx, testDate(2025, 6, 1))
	require.NoError(t, err)
	assert.Len(t, upcoming, 1)
	assert.Equal(t, "a", upcoming[0].Name)
}

func TestBlockedTimeCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	day := testDate(2025, 6, 2)

	b := &models.BlockedTime{
		BlockType:        models.BlockTimeSlot,
		BlockedDate:      day,
		BlockedTimeStart: "12:00",
		BlockedTimeEnd:   "13:00",
		OfficeLocation:   "seoul",
		Reason:           "court appearance",
		CreatedBy:        "admin",
	}
	require.NoError(t, db.CreateBlockedTime(ctx, b))

	all := &models.BlockedTime{
		BlockType:   models.BlockDate,
		BlockedDate: day.AddDate(0, 0, 1),
		Reason:      "holiday",
		CreatedBy:   "admin",
	}
	require.NoError(t, db.CreateBlockedTime(ctx, all))

	forDay, err := db.GetBlockedTimesForDate(ctx, "seoul", day)
	require.NoError(t, err)
	require.Len(t, forDay, 1)
	assert.Equal(t, "court appearance", forDay[0].Reason)

	// Office-less blocks apply to every office.
	forNext, err := db.GetBlockedTimesForDate(ctx, "busan", day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, forNext, 1)

	b.Reason = "rescheduled hearing"
	require.NoError(t, db.UpdateBlockedTime(ctx, b))
	got, err := db.GetBlockedTime(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "rescheduled hearing", got.Reason)

	require.NoError(t, db.DeleteBlockedTime(ctx, b.ID))
	_, err = db.GetBlockedTime(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
