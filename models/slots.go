package models

import "time"

// TimeSlot is a candidate, not-yet-reserved interval for an expert. Slots are
// generated on demand and never persisted; converting one into a Booking is
// the only way it becomes durable.
type TimeSlot struct {
	ExpertID        int       `json:"expertId"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"durationMinutes"`
}

// SuggestedSlot is a time slot annotated with the owning expert's match score
// so callers can see why it ranked where it did.
type SuggestedSlot struct {
	TimeSlot
	ExpertName string `json:"expertName"`
	MatchScore int    `json:"matchScore"`
}

// SchedulingSuggestions is the ranked slot list returned to the caller.
type SchedulingSuggestions struct {
	Slots       []SuggestedSlot `json:"slots"`
	Earliest    *SuggestedSlot  `json:"earliest,omitempty"`
	Recommended *SuggestedSlot  `json:"recommended,omitempty"`
	Note        string          `json:"note,omitempty"`
	Confidence  int             `json:"confidence,omitempty"` // 0-100
}

// SlotPreference narrows suggestions to a preferred weekday and/or hour range.
// Zero-value fields are ignored.
type SlotPreference struct {
	Weekday   *time.Weekday `json:"weekday,omitempty"`
	HourFrom  int           `json:"hourFrom,omitempty"` // inclusive, 0-23
	HourUntil int           `json:"hourUntil,omitempty"` // exclusive, 0 means no bound
}

// Allows reports whether a slot start satisfies the preference.
func (p *SlotPreference) Allows(start time.Time) bool {
	if p == nil {
		return true
	}
	if p.Weekday != nil && start.Weekday() != *p.Weekday {
		return false
	}
	if p.HourFrom > 0 && start.Hour() < p.HourFrom {
		return false
	}
	if p.HourUntil > 0 && start.Hour() >= p.HourUntil {
		return false
	}
	return true
}
