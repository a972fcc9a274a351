package export

import (
	"fmt"
	"io"
	"time"

	"lawdesk/internal/models"
)

// Sheet titles used in the consultation workbook.
const (
	summarySheet = "요약"
)

var statusSheets = []struct {
	status string
	title  string
}{
	{models.StatusPending, "접수대기"},
	{models.StatusConfirmed, "확정"},
	{models.StatusInProgress, "진행중"},
	{models.StatusCompleted, "완료"},
	{models.StatusCancelled, "취소"},
}

var consultationHeader = []string{
	"번호", "유형", "이름", "연락처", "이메일", "분야",
	"희망일", "희망시간", "사무소", "담당변호사", "접수일시",
}

// ConsultationFilename names the export like "상담내역_2026-08-31.xlsx".
func ConsultationFilename(t time.Time) string {
	return fmt.Sprintf("상담내역_%s.xlsx", t.Format("2006-01-02"))
}

// WriteConsultationReport builds the admin consultation workbook: a summary
// sheet with per-status counts followed by one sheet per status.
func WriteConsultationReport(w io.Writer, writer ExcelWriter, consultations []models.Consultation) error {
	defer writer.Close()

	byStatus := map[string][]models.Consultation{}
	for _, c := range consultations {
		byStatus[c.Status] = append(byStatus[c.Status], c)
	}

	if err := writer.AddSheet(summarySheet); err != nil {
		return err
	}
	if err := writer.WriteHeader([]string{"상태", "건수"}); err != nil {
		return err
	}
	for _, s := range statusSheets {
		if err := writer.WriteRow([]interface{}{s.title, len(byStatus[s.status])}); err != nil {
			return err
		}
	}
	if err := writer.WriteRow([]interface{}{"전체", len(consultations)}); err != nil {
		return err
	}

	for _, s := range statusSheets {
		if err := writer.AddSheet(s.title); err != nil {
			return err
		}
		if err := writer.WriteHeader(consultationHeader); err != nil {
			return err
		}
		for _, c := range byStatus[s.status] {
			if err := writer.WriteRow(consultationRow(&c)); err != nil {
				return err
			}
		}
	}

	return writer.Save(w)
}

func consultationRow(c *models.Consultation) []interface{} {
	date := ""
	if !c.PreferredDate.IsZero() {
		date = c.PreferredDate.Format("2006-01-02")
	}
	return []interface{}{
		c.ID, requestTypeLabel(c.RequestType), c.Name, c.Phone, c.Email, c.Category,
		date, c.PreferredTime, c.OfficeLocation, c.PreferredLawyer,
		c.CreatedAt.Format("2006-01-02 15:04"),
	}
}

func requestTypeLabel(t string) string {
	switch t {
	case models.RequestCallback:
		return "전화상담"
	case models.RequestVisit:
		return "방문상담"
	case models.RequestVideo:
		return "화상상담"
	case models.RequestInfo:
		return "자료요청"
	}
	return t
}
