package schedulerRepo

import (
	"context"
	"time"

	"github.com/FacundoLlamas/sme-booking-app-sub002/models"
)

// SchedulerRepository defines data access for bookings, including the
// transactional reserve that guards the no-overlap invariant.
type SchedulerRepository interface {
	// ListBookingsInWindow returns bookings for the expert whose start time
	// falls inside [from, to], restricted to the given statuses.
	ListBookingsInWindow(ctx context.Context, expertID int, from, to time.Time, statuses []string) ([]models.Booking, error)

	// ReserveTransactionally atomically re-checks the window and inserts the
	// booking in a single transaction. When a competing active booking exists
	// it is returned and nothing is written. Transient transaction failures
	// are reported via errors satisfying IsTransientTxnError.
	ReserveTransactionally(ctx context.Context, windowStart, windowEnd time.Time, booking *models.Booking) (*models.Booking, error)

	GetBooking(ctx context.Context, id string) (*models.Booking, error)

	// UpdateBookingStatus transitions a booking from one of the allowed
	// statuses to the target status; it fails if the booking is not in an
	// allowed state.
	UpdateBookingStatus(ctx context.Context, id string, allowedFrom []string, to string) error

	// ExpirePendingOlderThan cancels pending bookings created before the
	// cutoff and returns how many were touched.
	ExpirePendingOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
