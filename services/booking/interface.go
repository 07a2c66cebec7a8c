package booking

import (
	"context"
	"time"

	"github.com/FacundoLlamas/sme-booking-app-sub002/models"
)

// BookingService is the external surface of the scheduling core: find
// qualified experts, suggest visit times, and finalize reservations.
type BookingService interface {
	FindCandidates(ctx context.Context, category string, urgency models.Urgency, businessID string, excludeIDs []int, maxResults int) ([]models.RankedExpert, error)
	SuggestTimes(ctx context.Context, category string, urgency models.Urgency, candidates []models.RankedExpert, maxResults int, prefs *models.SlotPreference) (models.SchedulingSuggestions, error)
	CheckAndReserve(ctx context.Context, expertID int, start time.Time, durationMinutes int) (*models.Booking, error)
	CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID string) error
	CancelBooking(ctx context.Context, bookingID string) error
	CompleteBooking(ctx context.Context, bookingID string) error
}
