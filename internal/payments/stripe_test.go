package payments

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/repository"
)

type fakeIntentClient struct {
	newCalls []*stripe.PaymentIntentParams
	getCalls []string

	newIntent *stripe.PaymentIntent
	newErr    error
	getIntent *stripe.PaymentIntent
	getErr    error
}

func (f *fakeIntentClient) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.newCalls = append(f.newCalls, params)
	return f.newIntent, f.newErr
}

func (f *fakeIntentClient) Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.getCalls = append(f.getCalls, id)
	return f.getIntent, f.getErr
}

func setupPaymentsTest(t *testing.T) (repository.DonationRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.DonationCampaign{},
		&models.Donation{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return repository.NewDonationRepository(db), db
}

func seedDonation(t *testing.T, repo repository.DonationRepository, donation *models.Donation) *models.Donation {
	t.Helper()
	if donation.Currency == "" {
		donation.Currency = "ils"
	}
	if donation.DonorName == "" {
		donation.DonorName = "Anonymous"
	}
	if donation.Status == "" {
		donation.Status = models.DonationStatusPending
	}
	require.NoError(t, repo.CreateDonation(donation))
	return donation
}

func TestCreateDonationIntent_NotConfigured(t *testing.T) {
	repo, _ := setupPaymentsTest(t)
	svc := NewServiceWithClient(repo, &fakeIntentClient{}, "", "whsec")

	_, err := svc.CreateDonationIntent(1)
	require.ErrorIs(t, err, ErrStripeNotConfigured)
}

func TestCreateDonationIntent_DonationNotFound(t *testing.T) {
	repo, _ := setupPaymentsTest(t)
	svc := NewServiceWithClient(repo, &fakeIntentClient{}, "sk_test", "whsec")

	_, err := svc.CreateDonationIntent(999)
	require.ErrorIs(t, err, ErrDonationNotFound)
}

func TestCreateDonationIntent_AlreadyPaid(t *testing.T) {
	repo, _ := setupPaymentsTest(t)
	donation := seedDonation(t, repo, &models.Donation{
		OrganizationID: 1,
		Amount:         50,
		Status:         models.DonationStatusPaid,
		ReceiptRef:     "r-paid",
	})

	svc := NewServiceWithClient(repo, &fakeIntentClient{}, "sk_test", "whsec")

	_, err := svc.CreateDonationIntent(donation.ID)
	require.ErrorIs(t, err, ErrDonationAlreadyPaid)
}

func TestCreateDonationIntent_CreatesAndStoresIntent(t *testing.T) {
	repo, _ := setupPaymentsTest(t)
	donation := seedDonation(t, repo, &models.Donation{
		OrganizationID: 7,
		Amount:         25.50,
		ReceiptRef:     "r-new",
	})

	client := &fakeIntentClient{
		newIntent: &stripe.PaymentIntent{
			ID:           "pi_123",
			ClientSecret: "pi_123_secret",
			Status:       stripe.PaymentIntentStatusRequiresPaymentMethod,
		},
	}
	svc := NewServiceWithClient(repo, client, "sk_test", "whsec")

	secret, err := svc.CreateDonationIntent(donation.ID)
	require.NoError(t, err)
	require.Equal(t, "pi_123_secret", secret)

	require.Len(t, client.newCalls, 1)
	params := client.newCalls[0]
	// 25.50 ILS becomes 2550 agorot.
	require.Equal(t, int64(2550), *params.Amount)
	require.Equal(t, "ils", *params.Currency)
	require.NotEmpty(t, params.Metadata["donation_id"])

	stored, err := repo.FindDonationByID(donation.ID)
	require.NoError(t, err)
	require.Equal(t, "pi_123", stored.StripePaymentIntentID)
	require.Equal(t, string(stripe.PaymentIntentStatusRequiresPaymentMethod), stored.StripePaymentStatus)
	require.Equal(t, models.DonationStatusPending, stored.Status)
}

func TestCreateDonationIntent_ReusesLiveIntent(t *testing.T) {
	repo, _ := setupPaymentsTest(t)
	donation := seedDonation(t, repo, &models.Donation{
		OrganizationID:        7,
		Amount:                25.50,
		ReceiptRef:            "r-live",
		StripePaymentIntentID: "pi_live",
	})

	client := &fakeIntentClient{
		getIntent: &stripe.PaymentIntent{
			ID:           "pi_live",
			ClientSecret: "pi_live_secret",
		},
	}
	svc := NewServiceWithClient(repo, client, "sk_test", "whsec")

	secret, err := svc.CreateDonationIntent(donation.ID)
	require.NoError(t, err)
	require.Equal(t, "pi_live_secret", secret)
	require.Empty(t, client.newCalls)
}

func TestCreateDonationIntent_ReplacesStaleIntent(t *testing.T) {
	repo, _ := setupPaymentsTest(t)
	donation := seedDonation(t, repo, &models.Donation{
		OrganizationID:        7,
		Amount:                25.50,
		ReceiptRef:            "r-stale",
		StripePaymentIntentID: "pi_gone",
	})

	client := &fakeIntentClient{
		getErr: errors.New("no such payment_intent"),
		newIntent: &stripe.PaymentIntent{
			ID:           "pi_fresh",
			ClientSecret: "pi_fresh_secret",
			Status:       stripe.PaymentIntentStatusRequiresPaymentMethod,
		},
	}
	svc := NewServiceWithClient(repo, client, "sk_test", "whsec")

	secret, err := svc.CreateDonationIntent(donation.ID)
	require.NoError(t, err)
	require.Equal(t, "pi_fresh_secret", secret)
	require.Equal(t, []string{"pi_gone"}, client.getCalls)
	require.Len(t, client.newCalls, 1)

	stored, err := repo.FindDonationByID(donation.ID)
	require.NoError(t, err)
	require.Equal(t, "pi_fresh", stored.StripePaymentIntentID)
}

func TestReconcileIntentEvent_Succeeded(t *testing.T) {
	repo, _ := setupPaymentsTest(t)
	donation := seedDonation(t, repo, &models.Donation{
		OrganizationID:        7,
		Amount:                50,
		ReceiptRef:            "r-hook",
		StripePaymentIntentID: "pi_hook",
	})

	svc := NewServiceWithClient(repo, &fakeIntentClient{}, "sk_test", "whsec")

	intent := &stripe.PaymentIntent{
		ID:       "pi_hook",
		Status:   stripe.PaymentIntentStatusSucceeded,
		Metadata: map[string]string{"donation_id": itoa(donation.ID)},
	}
	require.NoError(t, svc.ReconcileIntentEvent(EventPaymentSucceeded, intent))

	stored, err := repo.FindDonationByID(donation.ID)
	require.NoError(t, err)
	require.Equal(t, models.DonationStatusPaid, stored.Status)
	require.Equal(t, string(stripe.PaymentIntentStatusSucceeded), stored.StripePaymentStatus)

	// Redelivery leaves the donation in the same state.
	require.NoError(t, svc.ReconcileIntentEvent(EventPaymentSucceeded, intent))
	stored, err = repo.FindDonationByID(donation.ID)
	require.NoError(t, err)
	require.Equal(t, models.DonationStatusPaid, stored.Status)
}

func TestReconcileIntentEvent_Failed(t *testing.T) {
	repo, _ := setupPaymentsTest(t)
	donation := seedDonation(t, repo, &models.Donation{
		OrganizationID: 7,
		Amount:         50,
		ReceiptRef:     "r-fail",
	})

	svc := NewServiceWithClient(repo, &fakeIntentClient{}, "sk_test", "whsec")

	intent := &stripe.PaymentIntent{
		Status:   stripe.PaymentIntentStatusCanceled,
		Metadata: map[string]string{"donation_id": itoa(donation.ID)},
	}
	require.NoError(t, svc.ReconcileIntentEvent(EventPaymentFailed, intent))

	stored, err := repo.FindDonationByID(donation.ID)
	require.NoError(t, err)
	require.Equal(t, models.DonationStatusFailed, stored.Status)
}

func TestReconcileIntentEvent_IgnoresUnknownDonation(t *testing.T) {
	repo, _ := setupPaymentsTest(t)
	svc := NewServiceWithClient(repo, &fakeIntentClient{}, "sk_test", "whsec")

	// Missing, malformed and unknown donation ids are all swallowed so
	// Stripe does not keep retrying the delivery.
	require.NoError(t, svc.ReconcileIntentEvent(EventPaymentSucceeded, &stripe.PaymentIntent{}))
	require.NoError(t, svc.ReconcileIntentEvent(EventPaymentSucceeded, &stripe.PaymentIntent{
		Metadata: map[string]string{"donation_id": "not-a-number"},
	}))
	require.NoError(t, svc.ReconcileIntentEvent(EventPaymentSucceeded, &stripe.PaymentIntent{
		Metadata: map[string]string{"donation_id": "424242"},
	}))
}

func TestReconcileIntentEvent_IgnoresOtherEventTypes(t *testing.T) {
	repo, _ := setupPaymentsTest(t)
	donation := seedDonation(t, repo, &models.Donation{
		OrganizationID: 7,
		Amount:         50,
		ReceiptRef:     "r-other",
	})

	svc := NewServiceWithClient(repo, &fakeIntentClient{}, "sk_test", "whsec")

	intent := &stripe.PaymentIntent{
		Metadata: map[string]string{"donation_id": itoa(donation.ID)},
	}
	require.NoError(t, svc.ReconcileIntentEvent("payment_intent.created", intent))

	stored, err := repo.FindDonationByID(donation.ID)
	require.NoError(t, err)
	require.Equal(t, models.DonationStatusPending, stored.Status)
}

func TestVerifyWebhook_NotConfigured(t *testing.T) {
	repo, _ := setupPaymentsTest(t)
	svc := NewServiceWithClient(repo, &fakeIntentClient{}, "sk_test", "")

	_, err := svc.VerifyWebhook([]byte("{}"), "sig")
	require.ErrorIs(t, err, ErrStripeNotConfigured)
}

func TestVerifyWebhook_BadSignature(t *testing.T) {
	repo, _ := setupPaymentsTest(t)
	svc := NewServiceWithClient(repo, &fakeIntentClient{}, "sk_test", "whsec_test")

	_, err := svc.VerifyWebhook([]byte("{}"), "t=1,v1=bogus")
	require.Error(t, err)
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}
