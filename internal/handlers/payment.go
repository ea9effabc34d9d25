package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	apierrors "github.com/volunteerhub/volunteer-hub-api/internal/errors"
	"github.com/volunteerhub/volunteer-hub-api/internal/payments"
)

// PaymentHandler exposes the Stripe checkout surface: client secret
// creation and the webhook endpoint.
type PaymentHandler struct {
	payments *payments.Service
	logger   *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentsService *payments.Service, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: paymentsService,
		logger:   logger,
	}
}

// CreateDonationIntent creates or reuses a PaymentIntent for a pending
// donation and returns its client secret.
func (h *PaymentHandler) CreateDonationIntent(c *gin.Context) {
	type request struct {
		DonationID uint64 `json:"donation_id" binding:"required"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	clientSecret, err := h.payments.CreateDonationIntent(req.DonationID)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrStripeNotConfigured):
			apierrors.NotConfigured(c, "Payments are not configured (missing STRIPE_SECRET_KEY)")
		case errors.Is(err, payments.ErrDonationNotFound):
			apierrors.NotFound(c, err.Error())
		case errors.Is(err, payments.ErrDonationAlreadyPaid):
			apierrors.PaymentError(c, err.Error())
		default:
			// Processor rejections carry a message the donor can act on
			// (declined card, amount limits); pass it through.
			var stripeErr *stripe.Error
			if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
				apierrors.PaymentError(c, stripeErr.Msg)
				return
			}
			h.logger.Error("failed to create payment intent", zap.Error(err))
			apierrors.PaymentError(c, "Failed to create payment intent")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"client_secret": clientSecret})
}

// StripeWebhook receives signed event deliveries from Stripe and
// reconciles payment intent outcomes onto donations. Signature
// failures respond 400 so Stripe retries; everything else responds 200
// to keep deliveries flowing.
func (h *PaymentHandler) StripeWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		apierrors.BadRequest(c, "Unable to read request body")
		return
	}

	event, err := h.payments.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, payments.ErrStripeNotConfigured) {
			apierrors.NotConfigured(c, "Payments are not configured (missing STRIPE_WEBHOOK_SECRET)")
			return
		}
		apierrors.BadRequest(c, "Invalid webhook signature")
		return
	}

	switch string(event.Type) {
	case payments.EventPaymentSucceeded, payments.EventPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			apierrors.BadRequest(c, "Malformed event payload")
			return
		}
		if err := h.payments.ReconcileIntentEvent(string(event.Type), &intent); err != nil {
			h.logger.Error("failed to reconcile payment event",
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
			apierrors.InternalError(c, "")
			return
		}
	default:
		// Unhandled event types are acknowledged without action.
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
