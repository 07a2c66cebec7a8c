package notification

import (
	"context"
	"time"

	"github.com/FacundoLlamas/sme-booking-app-sub002/models"
)

// EventEmitter publishes booking lifecycle events to the downstream
// notification queue. Emission is the extent of this core's obligation;
// delivery, retry transport, and templating live elsewhere.
type EventEmitter interface {
	BookingCreated(ctx context.Context, booking models.Booking) error
	ScheduleReminder(ctx context.Context, booking models.Booking, fireAt time.Time) error
}
