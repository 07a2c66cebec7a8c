package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FacundoLlamas/sme-booking-app-sub002/models"
	"github.com/FacundoLlamas/sme-booking-app-sub002/services/booking"
	"github.com/FacundoLlamas/sme-booking-app-sub002/utils"
)

// BookingHandler exposes the scheduling core over HTTP.
type BookingHandler struct {
	Service  booking.BookingService
	Sessions *booking.BookingSessionService
	Logger   *zap.Logger
}

// NewBookingHandler constructs the handler with its dependencies.
func NewBookingHandler(svc booking.BookingService, sessions *booking.BookingSessionService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Sessions: sessions, Logger: logger}
}

// respondBookingError maps the domain error taxonomy onto HTTP statuses so
// callers can branch without string matching.
func (h *BookingHandler) respondBookingError(c *gin.Context, err error) {
	var vErr *booking.ValidationError
	var ncErr *booking.NoCandidatesError
	var cfErr *booking.ConflictError
	var tsErr *booking.TransientStorageError

	switch {
	case errors.As(err, &vErr):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", vErr.Error())
	case errors.As(err, &ncErr):
		// Not a failure: the caller should offer a waitlist spot.
		c.JSON(http.StatusOK, gin.H{
			"waitlist": true,
			"message":  "No experts are currently available. We can add you to the waitlist.",
			"details":  ncErr.Error(),
		})
	case errors.As(err, &cfErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":             "Requested slot is no longer available",
			"conflictBookingId": cfErr.BookingID,
			"conflictStart":     cfErr.BookingStart,
			"conflictCustomer":  cfErr.CustomerName,
		})
	case errors.As(err, &tsErr):
		utils.JSONError(c, http.StatusServiceUnavailable, "Temporary scheduling contention, please retry", tsErr.Error())
	default:
		h.Logger.Error("booking request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", "booking could not be processed")
	}
}

// StartBookingSession matches experts for a service request and returns a
// cached session with ranked slot suggestions.
func (h *BookingHandler) StartBookingSession(c *gin.Context) {
	var input struct {
		Request      models.ServiceRequest `json:"request" binding:"required"`
		CustomerName string                `json:"customerName"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.Sessions.StartSession(c.Request.Context(), input.Request, input.CustomerName)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetBookingSession returns a cached session.
func (h *BookingHandler) GetBookingSession(c *gin.Context) {
	session, err := h.Sessions.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectExpert narrows the session to one expert and refreshes suggestions.
func (h *BookingHandler) SelectExpert(c *gin.Context) {
	var input struct {
		ExpertID int `json:"expertId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.Sessions.SelectExpert(c.Request.Context(), c.Param("sessionID"), input.ExpertID)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// ConfirmBooking finalizes the session's reservation at the chosen start.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	var input struct {
		Start time.Time `json:"start" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	bkg, err := h.Sessions.Confirm(c.Request.Context(), c.Param("sessionID"), input.Start)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"bookingId":        bkg.ID,
		"confirmationCode": bkg.ConfirmationCode,
		"booking":          bkg,
	})
}

// CreateBooking is the direct (sessionless) orchestration entry point.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	bkg, err := h.Service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"bookingId":        bkg.ID,
		"confirmationCode": bkg.ConfirmationCode,
		"booking":          bkg,
	})
}

// FindCandidates returns ranked experts for a category and urgency.
func (h *BookingHandler) FindCandidates(c *gin.Context) {
	category := c.Query("category")
	urgency, err := models.ParseUrgency(c.Query("urgency"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid urgency", err.Error())
		return
	}
	maxResults, _ := strconv.Atoi(c.DefaultQuery("maxResults", "10"))

	candidates, err := h.Service.FindCandidates(c.Request.Context(), category, urgency, c.Query("businessId"), nil, maxResults)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

// ConfirmReservation promotes a pending hold to a confirmed booking.
func (h *BookingHandler) ConfirmReservation(c *gin.Context) {
	if err := h.Service.ConfirmBooking(c.Request.Context(), c.Param("bookingID")); err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.BookingConfirmed})
}

// CancelBooking transitions an active booking to cancelled.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	if err := h.Service.CancelBooking(c.Request.Context(), c.Param("bookingID")); err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.BookingCancelled})
}

// CompleteBooking marks a booking's visit as done.
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	if err := h.Service.CompleteBooking(c.Request.Context(), c.Param("bookingID")); err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.BookingCompleted})
}
