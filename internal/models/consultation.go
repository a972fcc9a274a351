package models

import (
	"fmt"
	"time"
)

// Request types accepted by the public intake form.
const (
	RequestCallback = "callback"
	RequestVisit    = "visit"
	RequestVideo    = "video"
	RequestInfo     = "info"
)

// Consultation statuses.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Consultation represents a single intake record: a prospective client's
// request for contact or an appointment.
type Consultation struct {
	ID              int64     `json:"id"`
	RequestType     string    `json:"request_type"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email,omitempty"`
	Category        string    `json:"category,omitempty"`
	Message         string    `json:"message,omitempty"`
	Status          string    `json:"status"`
	PreferredDate   time.Time `json:"preferred_date"`           // date component only
	PreferredTime   string    `json:"preferred_time,omitempty"` // HH:MM, empty for non-slot requests
	OfficeLocation  string    `json:"office_location,omitempty"`
	PreferredLawyer string    `json:"preferred_lawyer,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ValidRequestType reports whether t is one of the accepted request types.
func ValidRequestType(t string) bool {
	switch t {
	case RequestCallback, RequestVisit, RequestVideo, RequestInfo:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known consultation status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// RequiresSlot reports whether the request type needs a concrete date/time slot.
// Visit and video consultations occupy office time; callbacks and info requests
// only need a phone number.
func (c *Consultation) RequiresSlot() bool {
	return c.RequestType == RequestVisit || c.RequestType == RequestVideo
}

// IsActive reports whether the consultation still occupies its slot.
func (c *Consultation) IsActive() bool {
	switch c.Status {
	case StatusPending, StatusConfirmed, StatusInProgress:
		return true
	}
	return false
}

// ParseClock parses an HH:MM string into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// SlotRange returns the consultation's occupied range as minutes since
// midnight, using half-open interval [start, end) semantics. The second
// return is false when the consultation has no parseable time slot.
func (c *Consultation) SlotRange(duration time.Duration) (start, end int, ok bool) {
	if c.PreferredTime == "" {
		return 0, 0, false
	}
	start, err := ParseClock(c.PreferredTime)
	if err != nil {
		return 0, 0, false
	}
	return start, start + int(duration.Minutes()), true
}

// OverlapsWith checks whether this consultation's slot intersects another's
// on the same date and office. Both slots are treated as half-open
// [start, start+duration) intervals.
func (c *Consultation) OverlapsWith(other *Consultation, duration time.Duration) bool {
	if !SameDate(c.PreferredDate, other.PreferredDate) {
		return false
	}
	if c.OfficeLocation != other.OfficeLocation {
		return false
	}
	aStart, aEnd, ok := c.SlotRange(duration)
	if !ok {
		return false
	}
	bStart, bEnd, ok := other.SlotRange(duration)
	if !ok {
		return false
	}
	return aStart < bEnd && bStart < aEnd
}

// SameDate reports whether two timestamps fall on the same calendar date,
// ignoring the time component.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// statusTransitions is the allowed lifecycle graph. Completed and cancelled
// are terminal.
var statusTransitions = map[string][]string{
	StatusPending:    {StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether a consultation may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
