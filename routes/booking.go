package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/FacundoLlamas/sme-booking-app-sub002/handlers"
)

// RegisterBookingRoutes registers all endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, h *handlers.BookingHandler) {
	bkg := r.Group("/api/booking")
	{
		bkg.POST("/session", h.StartBookingSession)                // Phase 1: match + suggest
		bkg.GET("/session/:sessionID", h.GetBookingSession)        // Inspect session
		bkg.PUT("/session/:sessionID", h.SelectExpert)             // Phase 2: pick an expert
		bkg.POST("/session/:sessionID/confirm", h.ConfirmBooking)  // Phase 3: finalize
	}

	bookings := r.Group("/api/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.POST("/:bookingID/confirm", h.ConfirmReservation)
		bookings.POST("/:bookingID/cancel", h.CancelBooking)
		bookings.POST("/:bookingID/complete", h.CompleteBooking)
	}
}
