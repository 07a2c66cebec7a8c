package models

import "time"

// ServiceRequest is the customer's initial ask: what they need, how urgently,
// and for which business.
type ServiceRequest struct {
	Category   string          `json:"category" binding:"required"`
	Urgency    Urgency         `json:"urgency,omitempty"`
	BusinessID string          `json:"businessId,omitempty"`
	Prefs      *SlotPreference `json:"prefs,omitempty"`
}

// BookingSession is the cached state of an in-flight booking conversation:
// matched experts, the slot suggestions shown to the customer, and the
// customer's eventual selection. Stored in Redis with a TTL; abandoning it
// requires no cleanup because nothing is reserved yet.
type BookingSession struct {
	SessionID      string                `json:"sessionId"`
	Request        ServiceRequest        `json:"request"`
	Candidates     []RankedExpert        `json:"candidates"`
	Suggestions    SchedulingSuggestions `json:"suggestions"`
	SelectedExpert int                   `json:"selectedExpert,omitempty"`
	CustomerName   string                `json:"customerName,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
}
