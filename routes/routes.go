package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/FacundoLlamas/sme-booking-app-sub002/handlers"
)

// HandlerBundle carries the wired handlers into route registration.
type HandlerBundle struct {
	Booking *handlers.BookingHandler
	Expert  *handlers.ExpertHandler
}

// RegisterRoutes registers all endpoints on the router.
func RegisterRoutes(r *gin.Engine, b *HandlerBundle) {
	r.Use(cors.Default())

	r.GET("/health", handlers.HealthHandler)

	RegisterBookingRoutes(r, b.Booking)

	experts := r.Group("/api/experts")
	{
		experts.GET("", b.Expert.ListAvailableExperts)
		experts.PUT("", b.Expert.UpsertExpert)
		experts.PATCH("/:expertID/status", b.Expert.SetExpertStatus)
		experts.GET("/candidates", b.Booking.FindCandidates)
	}
}
