package models

import "time"

// Message kinds. LMS is used for bodies longer than a single SMS segment.
const (
	MessageSMS = "sms"
	MessageLMS = "lms"
)

// Message log statuses.
const (
	MessageSent   = "sent"
	MessageFailed = "failed"
)

// MessageTemplate is an operator-editable notification text keyed by a
// transition code such as "consultation_confirmed".
type MessageTemplate struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Title     string    `json:"title"`
	Body      string    `json:"body"` // {{name}}, {{date}}, {{time}} placeholders
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessageLog records one dispatch attempt to the message gateway.
type MessageLog struct {
	ID             int64     `json:"id"`
	ConsultationID int64     `json:"consultation_id"`
	Phone          string    `json:"phone"`
	Kind           string    `json:"kind"` // sms or lms
	TemplateCode   string    `json:"template_code"`
	Body           string    `json:"body"`
	Status         string    `json:"status"` // sent or failed
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
