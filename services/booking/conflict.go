package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	schedulerRepo "github.com/FacundoLlamas/sme-booking-app-sub002/database/repository/scheduler"
	"github.com/FacundoLlamas/sme-booking-app-sub002/models"
)

// reserveTimeout bounds the whole check-and-reserve, retries included, so a
// contended expert never blocks a caller indefinitely.
const reserveTimeout = 30 * time.Second

// ConflictChecker is the transactional gatekeeper: it atomically decides
// whether a reservation is safe and, if so, makes it durable. The only
// mutating path for booking rows in this subsystem.
type ConflictChecker struct {
	Repo         schedulerRepo.SchedulerRepository
	MaxAttempts  int
	RetryBackoff time.Duration
	Logger       *zap.Logger
}

// NewConflictChecker constructs a checker with bounded retries.
func NewConflictChecker(repo schedulerRepo.SchedulerRepository, maxAttempts int, logger *zap.Logger) *ConflictChecker {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &ConflictChecker{
		Repo:         repo,
		MaxAttempts:  maxAttempts,
		RetryBackoff: 100 * time.Millisecond,
		Logger:       logger,
	}
}

// CheckAndReserve reserves the booking's interval or explains why it cannot.
//
// The conflict window is [start-duration, start+duration]: twice the service
// duration, centered on the requested start. Wider than strict interval
// overlap on purpose — it keeps travel/setup spacing between consecutive
// visits, so exact back-to-back requests are rejected as conflicts.
//
// Transient transaction failures are retried with exponential backoff up to
// MaxAttempts, then surfaced as TransientStorageError. A competing booking is
// a definitive ConflictError and is never retried. Any other storage failure
// fails closed as RepositoryError.
func (c *ConflictChecker) CheckAndReserve(ctx context.Context, booking *models.Booking) error {
	if booking.DurationMinutes <= 0 {
		return &ValidationError{Field: "durationMinutes", Reason: "must be positive"}
	}
	if booking.ExpertID <= 0 {
		return &ValidationError{Field: "expertId", Reason: "must be positive"}
	}

	ctx, cancel := context.WithTimeout(ctx, reserveTimeout)
	defer cancel()

	spread := time.Duration(booking.DurationMinutes) * time.Minute
	windowStart := booking.Start.Add(-spread)
	windowEnd := booking.Start.Add(spread)

	var lastErr error
	for attempt := 1; attempt <= c.MaxAttempts; attempt++ {
		conflict, err := c.Repo.ReserveTransactionally(ctx, windowStart, windowEnd, booking)
		if err == nil {
			if conflict != nil {
				return &ConflictError{
					ExpertID:     booking.ExpertID,
					BookingID:    conflict.ID,
					BookingStart: conflict.Start,
					CustomerName: conflict.CustomerName,
				}
			}
			return nil
		}

		if !schedulerRepo.IsTransientTxnError(err) {
			return &RepositoryError{Op: "reserve booking", Err: err}
		}

		lastErr = err
		c.Logger.Warn("transient reservation failure, retrying",
			zap.Int("expertID", booking.ExpertID),
			zap.Int("attempt", attempt),
			zap.Error(err))

		backoff := c.RetryBackoff * (1 << (attempt - 1))
		select {
		case <-ctx.Done():
			return &TransientStorageError{Attempts: attempt, Err: ctx.Err()}
		case <-time.After(backoff):
		}
	}

	return &TransientStorageError{Attempts: c.MaxAttempts, Err: lastErr}
}
