package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"appointly/handlers"
	"appointly/middleware"
)

// HandlerBundle groups the handlers wired in main.
type HandlerBundle struct {
	Availability *handlers.AvailabilityHandler
	Booking      *handlers.BookingHandler
	Catalog      *handlers.CatalogHandler
	Payments     *handlers.PaymentWebhookHandler
}

// RegisterRoutes attaches all endpoint groups to the router.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	RegisterHealthRoute(r)
	RegisterAvailabilityRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Appointly"})
	})
}

// RegisterAvailabilityRoutes registers availability and slot endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/availability")
	{
		// Slot and range reads are public so the booking calendar can render
		// before sign-in.
		api.GET("/:professionalID/ranges", hb.Availability.GetEffectiveRangesHandler)
		api.GET("/:professionalID/slots", hb.Availability.GetSlotsHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("/:professionalID/weekly", hb.Availability.SetWeeklyRuleHandler)
		protected.PUT("/:professionalID/exceptions", hb.Availability.SetExceptionHandler)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.Booking.CreateBookingHandler)
		api.GET("", hb.Booking.ListBookingsHandler)
		api.GET("/:bookingID", hb.Booking.GetBookingHandler)
		api.POST("/:bookingID/confirm", hb.Booking.ConfirmBookingHandler)
		api.POST("/:bookingID/cancel", hb.Booking.CancelBookingHandler)
		api.POST("/:bookingID/complete", hb.Booking.CompleteBookingHandler)
		api.POST("/:bookingID/no-show", hb.Booking.NoShowBookingHandler)
		api.PUT("/:bookingID/payment-status", hb.Booking.UpdatePaymentStatusHandler)
	}
}

// RegisterCatalogRoutes registers service and policy endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/services/:professionalID", hb.Catalog.ListServicesHandler)
		api.GET("/policies/:professionalID", hb.Catalog.GetPolicyHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("/services", hb.Catalog.CreateServiceHandler)
		protected.PUT("/policies/:professionalID", hb.Catalog.UpsertPolicyHandler)
	}
}

// RegisterPaymentRoutes registers the Stripe webhook. Signature verification
// replaces bearer auth on this endpoint.
func RegisterPaymentRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.POST("/api/payments/webhook", hb.Payments.StripeWebhookHandler)
}
