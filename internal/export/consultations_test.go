package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"lawdesk/internal/models"
)

func TestWriteConsultationReport(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	consultations := []models.Consultation{
		{
			ID:             1,
			RequestType:    models.RequestVisit,
			Name:           "테스트",
			Phone:          "010-1234-5678",
			Status:         models.StatusConfirmed,
			PreferredDate:  time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
			PreferredTime:  "14:00",
			OfficeLocation: "서울",
			CreatedAt:      now,
		},
		{
			ID:          2,
			RequestType: models.RequestCallback,
			Name:        "김철수",
			Phone:       "010-9999-8888",
			Status:      models.StatusPending,
			CreatedAt:   now,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteConsultationReport(&buf, NewExcelizeWriter(), consultations))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "요약")
	assert.Contains(t, sheets, "확정")
	assert.Contains(t, sheets, "접수대기")

	name, err := f.GetCellValue("확정", "C2")
	require.NoError(t, err)
	assert.Equal(t, "테스트", name)

	kind, err := f.GetCellValue("확정", "B2")
	require.NoError(t, err)
	assert.Equal(t, "방문상담", kind)

	total, err := f.GetCellValue("요약", "B7")
	require.NoError(t, err)
	assert.Equal(t, "2", total)
}

func TestConsultationFilename(t *testing.T) {
	assert.Equal(t, "상담내역_2026-08-31.xlsx",
		ConsultationFilename(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)))
}
