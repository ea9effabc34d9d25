package payments

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/repository"
)

var (
	ErrStripeNotConfigured = errors.New("stripe is not configured")
	ErrDonationNotFound    = errors.New("donation not found")
	ErrDonationAlreadyPaid = errors.New("donation already paid")
)

// Stripe event types this service reconciles.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// IntentClient is the slice of the Stripe API the service needs. Tests
// substitute a fake; production uses the stripe-go bindings.
type IntentClient interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type stripeIntentClient struct{}

func (stripeIntentClient) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return paymentintent.New(params)
}

func (stripeIntentClient) Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return paymentintent.Get(id, params)
}

// Service creates payment intents for donations and reconciles webhook
// deliveries back onto donation rows.
type Service struct {
	donationRepo  repository.DonationRepository
	intents       IntentClient
	secretKey     string
	webhookSecret string
}

// NewService configures the Stripe bindings and returns the service.
func NewService(donationRepo repository.DonationRepository, secretKey, webhookSecret string) *Service {
	stripe.Key = secretKey
	return &Service{
		donationRepo:  donationRepo,
		intents:       stripeIntentClient{},
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
	}
}

// NewServiceWithClient is like NewService but with an injected client.
func NewServiceWithClient(donationRepo repository.DonationRepository, client IntentClient, secretKey, webhookSecret string) *Service {
	return &Service{
		donationRepo:  donationRepo,
		intents:       client,
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
	}
}

// toMinorUnits converts a decimal amount to agorot/cents.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateDonationIntent creates (or reuses) a PaymentIntent for the
// donation and returns its client secret. A stored intent that can no
// longer be retrieved is discarded and replaced.
func (s *Service) CreateDonationIntent(donationID uint64) (string, error) {
	if s.secretKey == "" {
		return "", ErrStripeNotConfigured
	}

	donation, err := s.donationRepo.FindDonationByID(donationID)
	if err != nil {
		return "", ErrDonationNotFound
	}

	if donation.Status == models.DonationStatusPaid {
		return "", ErrDonationAlreadyPaid
	}

	if donation.StripePaymentIntentID != "" {
		intent, getErr := s.intents.Get(donation.StripePaymentIntentID, nil)
		if getErr == nil {
			return intent.ClientSecret, nil
		}
		// Stale or unretrievable intent: clear and create a fresh one.
		donation.StripePaymentIntentID = ""
		if saveErr := s.donationRepo.SaveDonation(donation); saveErr != nil {
			return "", fmt.Errorf("failed to clear stale intent: %w", saveErr)
		}
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(donation.Amount)),
		Currency: stripe.String(donation.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("donation_id", strconv.FormatUint(donation.ID, 10))
	params.AddMetadata("org_id", strconv.FormatUint(donation.OrganizationID, 10))
	if donation.CampaignID != nil {
		params.AddMetadata("campaign_id", strconv.FormatUint(*donation.CampaignID, 10))
	}

	intent, err := s.intents.New(params)
	if err != nil {
		return "", err
	}

	donation.StripePaymentIntentID = intent.ID
	donation.StripePaymentStatus = string(intent.Status)
	donation.Status = models.DonationStatusPending
	if err := s.donationRepo.SaveDonation(donation); err != nil {
		return "", fmt.Errorf("failed to store intent: %w", err)
	}

	return intent.ClientSecret, nil
}

// VerifyWebhook checks the inbound signature and parses the event.
func (s *Service) VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	if s.webhookSecret == "" {
		return stripe.Event{}, ErrStripeNotConfigured
	}
	return webhook.ConstructEvent(payload, sigHeader, s.webhookSecret)
}

// ReconcileIntentEvent applies a succeeded/failed intent event onto the
// donation named in the intent's metadata. The update is a flat field
// assignment, so redelivery is naturally idempotent. Unknown or missing
// donation ids are ignored rather than surfaced: erroring here only
// provokes processor-side retry storms.
func (s *Service) ReconcileIntentEvent(eventType string, intent *stripe.PaymentIntent) error {
	if eventType != EventPaymentSucceeded && eventType != EventPaymentFailed {
		return nil
	}

	idStr := intent.Metadata["donation_id"]
	if idStr == "" {
		return nil
	}
	donationID, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return nil
	}

	donation, err := s.donationRepo.FindDonationByID(donationID)
	if err != nil {
		return nil
	}

	donation.StripePaymentStatus = string(intent.Status)
	if eventType == EventPaymentSucceeded {
		donation.Status = models.DonationStatusPaid
	} else {
		donation.Status = models.DonationStatusFailed
	}

	return s.donationRepo.SaveDonation(donation)
}
