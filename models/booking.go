package models

import "time"

// Booking statuses. Only pending and confirmed bookings occupy an expert's
// time; cancelled and completed ones are ignored by overlap checks.
const (
	BookingPending          = "pending"
	BookingConfirmed        = "confirmed"
	BookingCancelled        = "cancelled"
	BookingCompleted        = "completed"
	BookingConflictDetected = "conflict_detected"
)

// ActiveBookingStatuses are the statuses that participate in overlap checks.
var ActiveBookingStatuses = []string{BookingPending, BookingConfirmed}

// Booking represents a durable, status-bearing reservation of an expert's time.
type Booking struct {
	ID               string    `bson:"id" json:"id"`
	ExpertID         int       `bson:"expert_id" json:"expertId"`
	CustomerName     string    `bson:"customer_name" json:"customerName"`
	CustomerContact  string    `bson:"customer_contact,omitempty" json:"customerContact,omitempty"`
	Category         string    `bson:"category" json:"category"`
	Start            time.Time `bson:"start" json:"start"`
	DurationMinutes  int       `bson:"duration_minutes" json:"durationMinutes"`
	Status           string    `bson:"status" json:"status"`
	ConfirmationCode string    `bson:"confirmation_code,omitempty" json:"confirmationCode,omitempty"`
	Notes            string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time `bson:"created_at" json:"createdAt"`
}

// End returns the exclusive end of the booked interval.
func (b Booking) End() time.Time {
	return b.Start.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// Overlaps reports whether the booking's [start, end) interval intersects the
// given [start, end) window.
func (b Booking) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && start.Before(b.End())
}

// BookingRequest is the orchestration input for creating a booking.
type BookingRequest struct {
	CustomerName    string    `json:"customerName" binding:"required"`
	CustomerContact string    `json:"customerContact,omitempty"`
	ExpertID        int       `json:"expertId" binding:"required"`
	Category        string    `json:"category" binding:"required"`
	Start           time.Time `json:"start" binding:"required"`
	Notes           string    `json:"notes,omitempty"`
}
