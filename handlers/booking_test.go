package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FacundoLlamas/sme-booking-app-sub002/models"
	"github.com/FacundoLlamas/sme-booking-app-sub002/services/booking"
)

// stubBookingService returns canned results so handler tests exercise only the
// HTTP mapping.
type stubBookingService struct {
	createErr  error
	confirmErr error
	cancelErr  error
	candidates []models.RankedExpert
	findErr    error
}

func (s *stubBookingService) FindCandidates(ctx context.Context, category string, urgency models.Urgency, businessID string, excludeIDs []int, maxResults int) ([]models.RankedExpert, error) {
	return s.candidates, s.findErr
}

func (s *stubBookingService) SuggestTimes(ctx context.Context, category string, urgency models.Urgency, candidates []models.RankedExpert, maxResults int, prefs *models.SlotPreference) (models.SchedulingSuggestions, error) {
	return models.SchedulingSuggestions{}, nil
}

func (s *stubBookingService) CheckAndReserve(ctx context.Context, expertID int, start time.Time, durationMinutes int) (*models.Booking, error) {
	return &models.Booking{ID: "r1", ExpertID: expertID, Start: start, Status: models.BookingPending}, nil
}

func (s *stubBookingService) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &models.Booking{
		ID:               "b1",
		ExpertID:         req.ExpertID,
		CustomerName:     req.CustomerName,
		Category:         req.Category,
		Start:            req.Start,
		Status:           models.BookingPending,
		ConfirmationCode: "AB12CD34",
	}, nil
}

func (s *stubBookingService) ConfirmBooking(ctx context.Context, bookingID string) error {
	return s.confirmErr
}

func (s *stubBookingService) CancelBooking(ctx context.Context, bookingID string) error {
	return s.cancelErr
}

func (s *stubBookingService) CompleteBooking(ctx context.Context, bookingID string) error {
	return nil
}

func newTestRouter(svc booking.BookingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBookingHandler(svc, nil, zap.NewNop())
	r := gin.New()
	r.POST("/api/bookings", h.CreateBooking)
	r.POST("/api/bookings/:bookingID/confirm", h.ConfirmReservation)
	r.POST("/api/bookings/:bookingID/cancel", h.CancelBooking)
	r.GET("/api/experts/candidates", h.FindCandidates)
	return r
}

const validBookingJSON = `{"customerName":"Pat Doe","expertId":1,"category":"plumbing","start":"2026-03-04T11:00:00Z"}`

func TestCreateBookingHandlerStatuses(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantInBody string
	}{
		{"created", validBookingJSON, nil, http.StatusCreated, `"confirmationCode":"AB12CD34"`},
		{"malformed json", `{`, nil, http.StatusBadRequest, "invalid input"},
		{"validation error", validBookingJSON,
			&booking.ValidationError{Field: "category", Reason: "unknown"},
			http.StatusBadRequest, "Invalid request"},
		{"conflict", validBookingJSON,
			&booking.ConflictError{ExpertID: 1, BookingID: "other", BookingStart: time.Now()},
			http.StatusConflict, `"conflictBookingId":"other"`},
		{"waitlist", validBookingJSON,
			&booking.NoCandidatesError{Category: "plumbing", Reason: "none"},
			http.StatusOK, `"waitlist":true`},
		{"transient", validBookingJSON,
			&booking.TransientStorageError{Attempts: 3},
			http.StatusServiceUnavailable, "retry"},
		{"repository failure", validBookingJSON,
			&booking.RepositoryError{Op: "reserve booking"},
			http.StatusInternalServerError, "Internal error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&stubBookingService{createErr: tc.serviceErr})

			req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d; body %s", w.Code, tc.wantStatus, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tc.wantInBody) {
				t.Errorf("body %s does not contain %q", w.Body.String(), tc.wantInBody)
			}
		})
	}
}

func TestConfirmReservationHandler(t *testing.T) {
	router := newTestRouter(&stubBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/bookings/b1/confirm", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), models.BookingConfirmed) {
		t.Errorf("body %s does not report confirmation", w.Body.String())
	}

	router = newTestRouter(&stubBookingService{
		confirmErr: &booking.ValidationError{Field: "bookingId", Reason: "not found or not confirmable"},
	})
	req = httptest.NewRequest(http.MethodPost, "/api/bookings/missing/confirm", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown booking: status = %d, want 400", w.Code)
	}
}

func TestCancelBookingHandler(t *testing.T) {
	router := newTestRouter(&stubBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/bookings/b1/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), models.BookingCancelled) {
		t.Errorf("body %s does not report cancellation", w.Body.String())
	}
}

func TestFindCandidatesHandler(t *testing.T) {
	svc := &stubBookingService{candidates: []models.RankedExpert{{
		Expert: models.Expert{ID: 1, Name: "Ana"},
		Match:  models.MatchResult{Score: 100, MatchType: models.MatchExact},
	}}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/experts/candidates?category=plumbing&urgency=high", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"Ana"`) {
		t.Errorf("body %s missing candidate", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/experts/candidates?category=plumbing&urgency=yesterday", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown urgency: status = %d, want 400", w.Code)
	}
}
