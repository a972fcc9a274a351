// Package notify sends SMS/LMS messages on consultation status transitions.
// Delivery is best effort: a failed send is logged and recorded, never
// propagated back to the transition that triggered it.
package notify

import (
	"context"
	"strings"

	"lawdesk/internal/models"
)

// Template codes dispatched on lifecycle events.
const (
	CodeReceived  = "consultation_received"
	CodeConfirmed = "consultation_confirmed"
	CodeCompleted = "consultation_completed"
	CodeCancelled = "consultation_cancelled"
)

// Message is one outbound text message.
type Message struct {
	Phone string
	Title string
	Body  string
	Kind  string // sms or lms
}

// Gateway delivers a message through the external SMS provider.
type Gateway interface {
	Send(ctx context.Context, msg Message) error
}

// TemplateStore provides message templates and records dispatch attempts.
type TemplateStore interface {
	GetTemplateByCode(ctx context.Context, code string) (*models.MessageTemplate, error)
	InsertMessageLog(ctx context.Context, l *models.MessageLog) error
}

// defaultTemplates are used when the operator has not customized a template.
var defaultTemplates = map[string]models.MessageTemplate{
	CodeReceived: {
		Code:  CodeReceived,
		Title: "상담 접수 안내",
		Body:  "{{name}}님, 상담 신청이 접수되었습니다. 확인 후 연락드리겠습니다.",
	},
	CodeConfirmed: {
		Code:  CodeConfirmed,
		Title: "상담 확정 안내",
		Body:  "{{name}}님, {{date}} {{time}} 상담이 확정되었습니다.",
	},
	CodeCompleted: {
		Code:  CodeCompleted,
		Title: "상담 완료 안내",
		Body:  "{{name}}님, 상담이 완료되었습니다. 이용해 주셔서 감사합니다.",
	},
	CodeCancelled: {
		Code:  CodeCancelled,
		Title: "상담 취소 안내",
		Body:  "{{name}}님, 예약하신 상담이 취소되었습니다.",
	},
}

// TransitionCode maps a target status to its notification template code.
// Statuses without a customer-facing message return "".
func TransitionCode(status string) string {
	switch status {
	case models.StatusConfirmed:
		return CodeConfirmed
	case models.StatusCompleted:
		return CodeCompleted
	case models.StatusCancelled:
		return CodeCancelled
	}
	return ""
}

// Render substitutes consultation fields into a template body.
func Render(body string, c *models.Consultation) string {
	date := ""
	if !c.PreferredDate.IsZero() {
		date = c.PreferredDate.Format("2006-01-02")
	}
	r := strings.NewReplacer(
		"{{name}}", c.Name,
		"{{date}}", date,
		"{{time}}", c.PreferredTime,
		"{{office}}", c.OfficeLocation,
	)
	return r.Replace(body)
}

// smsByteLimit is the single-segment limit; longer bodies go out as LMS.
const smsByteLimit = 90

// KindFor picks sms or lms based on encoded body length.
func KindFor(body string) string {
	if len(body) > smsByteLimit {
		return models.MessageLMS
	}
	return models.MessageSMS
}
