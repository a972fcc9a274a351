package models

import "time"

// Block types.
const (
	BlockDate     = "date"      // blocks the whole day
	BlockTimeSlot = "time_slot" // blocks [start, end) on the day
)

// BlockedTime is an operator-declared unavailable date or time range,
// optionally scoped to a single office location.
type BlockedTime struct {
	ID               int64     `json:"id"`
	BlockType        string    `json:"block_type"`
	BlockedDate      time.Time `json:"blocked_date"`
	BlockedTimeStart string    `json:"blocked_time_start,omitempty"` // HH:MM
	BlockedTimeEnd   string    `json:"blocked_time_end,omitempty"`   // HH:MM
	OfficeLocation   string    `json:"office_location,omitempty"`    // empty blocks all offices
	Reason           string    `json:"reason,omitempty"`
	CreatedBy        string    `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ValidBlockType reports whether t is a known block type.
func ValidBlockType(t string) bool {
	return t == BlockDate || t == BlockTimeSlot
}

// Blocks checks whether this entry blocks the given office and
// [startMin, endMin) range (minutes since midnight) on the given date.
// A date-type block covers the whole day; a time_slot block covers only
// its own range. An entry without an office location applies everywhere.
func (b *BlockedTime) Blocks(office string, date time.Time, startMin, endMin int) bool {
	if !SameDate(b.BlockedDate, date) {
		return false
	}
	if b.OfficeLocation != "" && b.OfficeLocation != office {
		return false
	}
	if b.BlockType == BlockDate {
		return true
	}
	bStart, err := ParseClock(b.BlockedTimeStart)
	if err != nil {
		return false
	}
	bEnd, err := ParseClock(b.BlockedTimeEnd)
	if err != nil {
		return false
	}
	return bStart < endMin && startMin < bEnd
}
