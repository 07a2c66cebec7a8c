package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FacundoLlamas/sme-booking-app-sub002/models"
)

// sessionCandidateLimit caps how many ranked experts a session carries.
const sessionCandidateLimit = 10

// BookingSessionService manages the stateful booking conversation: candidates
// and suggestions are computed once, cached in Redis under a TTL, and the
// customer confirms one slot later. Abandoning a session needs no cleanup —
// nothing is reserved until confirmation.
type BookingSessionService struct {
	Bookings BookingService
	Cache    *redis.Client
	TTL      time.Duration
	Logger   *zap.Logger
}

// StartSession matches experts, computes suggestions, and caches the session.
func (s *BookingSessionService) StartSession(ctx context.Context, req models.ServiceRequest, customerName string) (*models.BookingSession, error) {
	urgency, err := models.ParseUrgency(string(req.Urgency))
	if err != nil {
		return nil, &ValidationError{Field: "urgency", Reason: err.Error()}
	}
	req.Urgency = urgency

	candidates, err := s.Bookings.FindCandidates(ctx, req.Category, urgency, req.BusinessID, nil, sessionCandidateLimit)
	if err != nil {
		return nil, err
	}

	suggestions, err := s.Bookings.SuggestTimes(ctx, req.Category, urgency, candidates, 0, req.Prefs)
	if err != nil {
		return nil, err
	}

	session := &models.BookingSession{
		SessionID:    uuid.New().String(),
		Request:      req,
		Candidates:   candidates,
		Suggestions:  suggestions,
		CustomerName: customerName,
		CreatedAt:    time.Now(),
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.Logger.Info("booking session started",
		zap.String("sessionID", session.SessionID),
		zap.String("category", req.Category),
		zap.Int("candidates", len(candidates)))
	return session, nil
}

// GetSession loads a cached session. A missing key means the session never
// existed or its TTL lapsed; any other cache failure is a storage error, not
// the caller's fault.
func (s *BookingSessionService) GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	raw, err := s.Cache.Get(ctx, sessionID).Result()
	if err == redis.Nil {
		return nil, &ValidationError{Field: "sessionId", Reason: "session not found or expired"}
	}
	if err != nil {
		return nil, &RepositoryError{Op: "load booking session", Err: err}
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("failed to parse booking session: %w", err)
	}
	return &session, nil
}

// SelectExpert narrows the session to one matched expert and recomputes
// suggestions for that expert alone.
func (s *BookingSessionService) SelectExpert(ctx context.Context, sessionID string, expertID int) (*models.BookingSession, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var selected *models.RankedExpert
	for i := range session.Candidates {
		if session.Candidates[i].Expert.ID == expertID {
			selected = &session.Candidates[i]
			break
		}
	}
	if selected == nil {
		return nil, &ValidationError{Field: "expertId",
			Reason: fmt.Sprintf("expert %d is not in the matched candidates list", expertID)}
	}

	suggestions, err := s.Bookings.SuggestTimes(ctx, session.Request.Category, session.Request.Urgency,
		[]models.RankedExpert{*selected}, 0, session.Request.Prefs)
	if err != nil {
		return nil, err
	}

	session.SelectedExpert = expertID
	session.Suggestions = suggestions
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Confirm finalizes the booking for the session's selected expert at the
// chosen start time, then drops the session.
func (s *BookingSessionService) Confirm(ctx context.Context, sessionID string, start time.Time) (*models.Booking, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.SelectedExpert == 0 {
		return nil, &ValidationError{Field: "sessionId", Reason: "no expert selected yet"}
	}

	booking, err := s.Bookings.CreateBooking(ctx, models.BookingRequest{
		CustomerName: session.CustomerName,
		ExpertID:     session.SelectedExpert,
		Category:     session.Request.Category,
		Start:        start,
	})
	if err != nil {
		return nil, err
	}

	s.Cache.Del(ctx, sessionID)
	return booking, nil
}

func (s *BookingSessionService) save(ctx context.Context, session *models.BookingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := s.Cache.Set(ctx, session.SessionID, data, s.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store booking session: %w", err)
	}
	return nil
}
