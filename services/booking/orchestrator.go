package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	expertRepo "github.com/FacundoLlamas/sme-booking-app-sub002/database/repository/expert"
	schedulerRepo "github.com/FacundoLlamas/sme-booking-app-sub002/database/repository/scheduler"
	"github.com/FacundoLlamas/sme-booking-app-sub002/models"
	"github.com/FacundoLlamas/sme-booking-app-sub002/services/notification"
	"github.com/FacundoLlamas/sme-booking-app-sub002/utils"
)

// reminderLead is how long before the visit the reminder fires.
const reminderLead = 24 * time.Hour

// DefaultBookingService composes matching, availability, suggestion, and the
// transactional conflict check into the end-to-end booking workflow.
type DefaultBookingService struct {
	Experts   expertRepo.ExpertRepository
	Scheduler schedulerRepo.SchedulerRepository
	Matcher   *SkillMatcher
	Suggester *SlotSuggester
	Conflicts *ConflictChecker
	Events    notification.EventEmitter
	Catalog   models.ServiceCatalog
	Clock     utils.Clock
	Logger    *zap.Logger
}

// FindCandidates runs the matcher across all available experts and returns
// those above the minimum score, best first.
func (s *DefaultBookingService) FindCandidates(
	ctx context.Context,
	category string,
	urgency models.Urgency,
	businessID string,
	excludeIDs []int,
	maxResults int,
) ([]models.RankedExpert, error) {
	if category == "" {
		return nil, &ValidationError{Field: "category", Reason: "is required"}
	}

	experts, err := s.Experts.ListAvailable(ctx, businessID)
	if err != nil {
		return nil, &RepositoryError{Op: "list available experts", Err: err}
	}

	ranked := s.Matcher.RankExperts(experts, category, urgency, excludeIDs, maxResults)
	if len(ranked) == 0 {
		return nil, &NoCandidatesError{Category: category, Reason: "no expert meets the minimum match score"}
	}
	return ranked, nil
}

// SuggestTimes produces the ranked slot list for presentation.
func (s *DefaultBookingService) SuggestTimes(
	ctx context.Context,
	category string,
	urgency models.Urgency,
	candidates []models.RankedExpert,
	maxResults int,
	prefs *models.SlotPreference,
) (models.SchedulingSuggestions, error) {
	return s.Suggester.Suggest(ctx, category, urgency, candidates, maxResults, prefs)
}

// CheckAndReserve atomically reserves the interval for the expert, returning
// a pending hold on success. A hold that is never confirmed is cancelled by
// the pending-expiry sweep.
func (s *DefaultBookingService) CheckAndReserve(ctx context.Context, expertID int, start time.Time, durationMinutes int) (*models.Booking, error) {
	booking := &models.Booking{
		ID:              uuid.New().String(),
		ExpertID:        expertID,
		Start:           start,
		DurationMinutes: durationMinutes,
		Status:          models.BookingPending,
		CreatedAt:       s.Clock.Now(),
	}
	if err := s.Conflicts.CheckAndReserve(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// CreateBooking is the orchestration entry point: validate, reserve
// transactionally, then emit the downstream event and schedule the reminder.
// The booking is stored confirmed — the customer is known and the interval is
// final, so it must never fall into the pending-expiry sweep.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	if req.CustomerName == "" {
		return nil, &ValidationError{Field: "customerName", Reason: "is required"}
	}
	if !s.Catalog.Knows(req.Category) {
		return nil, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", req.Category)}
	}
	now := s.Clock.Now()
	if !req.Start.After(now) {
		return nil, &ValidationError{Field: "start", Reason: "must be in the future"}
	}

	if _, err := s.Experts.GetByID(ctx, req.ExpertID); err != nil {
		if errors.Is(err, expertRepo.ErrExpertNotFound) {
			return nil, &ValidationError{Field: "expertId", Reason: fmt.Sprintf("unknown expert %d", req.ExpertID)}
		}
		return nil, &RepositoryError{Op: "load expert", Err: err}
	}

	code, err := utils.GenerateConfirmationCode()
	if err != nil {
		return nil, &RepositoryError{Op: "generate confirmation code", Err: err}
	}

	booking := &models.Booking{
		ID:               uuid.New().String(),
		ExpertID:         req.ExpertID,
		CustomerName:     req.CustomerName,
		CustomerContact:  req.CustomerContact,
		Category:         req.Category,
		Start:            req.Start,
		DurationMinutes:  s.Catalog.DurationFor(req.Category),
		Status:           models.BookingConfirmed,
		ConfirmationCode: code,
		Notes:            req.Notes,
		CreatedAt:        now,
	}

	if err := s.Conflicts.CheckAndReserve(ctx, booking); err != nil {
		return nil, err
	}

	s.Logger.Info("booking created",
		zap.String("bookingID", booking.ID),
		zap.Int("expertID", booking.ExpertID),
		zap.String("category", booking.Category),
		zap.Time("start", booking.Start))

	// Fire-and-forget: a failed emission never unwinds a committed booking.
	go s.emitBookingEvents(*booking)

	return booking, nil
}

func (s *DefaultBookingService) emitBookingEvents(booking models.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Events.BookingCreated(ctx, booking); err != nil {
		s.Logger.Error("failed to emit booking created event",
			zap.String("bookingID", booking.ID), zap.Error(err))
	}

	fireAt := booking.Start.Add(-reminderLead)
	if fireAt.After(s.Clock.Now()) {
		if err := s.Events.ScheduleReminder(ctx, booking, fireAt); err != nil {
			s.Logger.Error("failed to schedule visit reminder",
				zap.String("bookingID", booking.ID), zap.Error(err))
		}
	}
}

// ConfirmBooking promotes a pending hold to confirmed, taking it out of reach
// of the pending-expiry sweep.
func (s *DefaultBookingService) ConfirmBooking(ctx context.Context, bookingID string) error {
	err := s.Scheduler.UpdateBookingStatus(ctx, bookingID,
		[]string{models.BookingPending}, models.BookingConfirmed)
	if errors.Is(err, schedulerRepo.ErrBookingNotFound) {
		return &ValidationError{Field: "bookingId", Reason: "not found or not confirmable"}
	}
	if err != nil {
		return &RepositoryError{Op: "confirm booking", Err: err}
	}
	return nil
}

// CancelBooking transitions a pending or confirmed booking to cancelled,
// freeing its interval for future reservations.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, bookingID string) error {
	err := s.Scheduler.UpdateBookingStatus(ctx, bookingID, models.ActiveBookingStatuses, models.BookingCancelled)
	if errors.Is(err, schedulerRepo.ErrBookingNotFound) {
		return &ValidationError{Field: "bookingId", Reason: "not found or not cancellable"}
	}
	if err != nil {
		return &RepositoryError{Op: "cancel booking", Err: err}
	}
	return nil
}

// CompleteBooking marks a confirmed booking as completed.
func (s *DefaultBookingService) CompleteBooking(ctx context.Context, bookingID string) error {
	err := s.Scheduler.UpdateBookingStatus(ctx, bookingID,
		[]string{models.BookingConfirmed}, models.BookingCompleted)
	if errors.Is(err, schedulerRepo.ErrBookingNotFound) {
		return &ValidationError{Field: "bookingId", Reason: "not found or not completable"}
	}
	if err != nil {
		return &RepositoryError{Op: "complete booking", Err: err}
	}
	return nil
}
