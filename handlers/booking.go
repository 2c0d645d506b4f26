package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"appointly/models"
	"appointly/services/booking"
	"appointly/utils"
)

// BookingHandler exposes the booking lifecycle.
type BookingHandler struct {
	Engine booking.SchedulingEngine
}

func NewBookingHandler(engine booking.SchedulingEngine) *BookingHandler {
	return &BookingHandler{Engine: engine}
}

// CreateBookingHandler books a slot for the authenticated client.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	clientID := c.GetString("actorID")
	created, err := h.Engine.CreateBooking(c.Request.Context(), clientID, req)
	if err != nil {
		utils.JSONError(c, statusForError(err), "failed to create booking", err.Error())
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ConfirmBookingHandler confirms a pending booking.
func (h *BookingHandler) ConfirmBookingHandler(c *gin.Context) {
	h.transition(c, h.Engine.ConfirmBooking, "failed to confirm booking")
}

// CancelBookingHandler cancels a pending or confirmed booking.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	h.transition(c, h.Engine.CancelBooking, "failed to cancel booking")
}

// CompleteBookingHandler marks a past confirmed booking completed.
func (h *BookingHandler) CompleteBookingHandler(c *gin.Context) {
	h.transition(c, h.Engine.MarkCompleted, "failed to complete booking")
}

// NoShowBookingHandler marks a past confirmed booking as unattended.
func (h *BookingHandler) NoShowBookingHandler(c *gin.Context) {
	h.transition(c, h.Engine.MarkNoShow, "failed to mark no-show")
}

// UpdatePaymentStatusHandler records a payment state change.
func (h *BookingHandler) UpdatePaymentStatusHandler(c *gin.Context) {
	var req models.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	updated, err := h.Engine.UpdatePaymentStatus(c.Request.Context(), c.Param("bookingID"), req.PaymentStatus)
	if err != nil {
		utils.JSONError(c, statusForError(err), "failed to update payment status", err.Error())
		return
	}
	c.JSON(http.StatusOK, updated)
}

// GetBookingHandler returns a single booking.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.Engine.GetBooking(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "booking not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListBookingsHandler returns a professional's bookings over a date range.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	professionalID := c.Query("professionalId")
	from := c.Query("from")
	to := c.Query("to")
	if professionalID == "" || from == "" || to == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "professionalId, from and to query parameters are required")
		return
	}

	bookings, err := h.Engine.ListBookings(c.Request.Context(), professionalID, from, to)
	if err != nil {
		utils.JSONError(c, statusForError(err), "failed to list bookings", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) transition(c *gin.Context, op func(ctx context.Context, bookingID, actorID string) (*models.Booking, error), msg string) {
	updated, err := op(c.Request.Context(), c.Param("bookingID"), c.GetString("actorID"))
	if err != nil {
		utils.JSONError(c, statusForError(err), msg, err.Error())
		return
	}
	c.JSON(http.StatusOK, updated)
}
