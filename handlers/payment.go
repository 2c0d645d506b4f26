package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	"appointly/config"
	"appointly/models"
	"appointly/services/booking"
	"appointly/utils"
)

const maxWebhookBodyBytes = 64 * 1024

// PaymentWebhookHandler maps verified Stripe events onto booking payment
// status updates. Capture and settlement live entirely on Stripe's side.
type PaymentWebhookHandler struct {
	Engine booking.SchedulingEngine
}

func NewPaymentWebhookHandler(engine booking.SchedulingEngine) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{Engine: engine}
}

// StripeWebhookHandler verifies the event signature and applies the
// corresponding payment status. Events without a booking reference are
// acknowledged and skipped so Stripe does not retry them forever.
func (h *PaymentWebhookHandler) StripeWebhookHandler(c *gin.Context) {
	logger := utils.GetLogger()

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), config.AppConfig.StripeWebhookSecret)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "signature verification failed", err.Error())
		return
	}

	var (
		bookingID string
		status    models.PaymentStatus
	)
	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "malformed event", err.Error())
			return
		}
		bookingID = intent.Metadata["booking_id"]
		status = models.PaymentPaid
		if event.Type == "payment_intent.payment_failed" {
			status = models.PaymentFailed
		}
	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "malformed event", err.Error())
			return
		}
		bookingID = charge.Metadata["booking_id"]
		status = models.PaymentRefunded
	default:
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if bookingID == "" {
		logger.Warn("stripe event without booking reference", zap.String("eventType", string(event.Type)))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if _, err := h.Engine.UpdatePaymentStatus(c.Request.Context(), bookingID, status); err != nil {
		utils.JSONError(c, statusForError(err), "failed to apply payment status", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
