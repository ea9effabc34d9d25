package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/volunteerhub/volunteer-hub-api/internal/constants"
	"github.com/volunteerhub/volunteer-hub-api/internal/database"
	"github.com/volunteerhub/volunteer-hub-api/internal/dto"
	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/repository"
	"github.com/volunteerhub/volunteer-hub-api/internal/services"
	"github.com/volunteerhub/volunteer-hub-api/internal/utils"
)

type donationTestEnv struct {
	db      *gorm.DB
	handler *DonationHandler

	org       *models.User
	volunteer *models.User
}

func setupDonationTestEnv(t *testing.T) donationTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.VolunteerProfile{},
		&models.OrganizationProfile{},
		&models.DonationCampaign{},
		&models.Donation{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	donationRepo := repository.NewDonationRepository(db)
	userRepo := repository.NewUserRepository(db)
	handler := NewDonationHandler(services.NewDonationService(donationRepo, userRepo))

	org := &models.User{Email: "org@example.com", PasswordHash: "x", Role: models.RoleOrganization}
	require.NoError(t, db.Create(org).Error)
	volunteer := &models.User{Email: "vol@example.com", PasswordHash: "x", Role: models.RoleVolunteer}
	require.NoError(t, db.Create(volunteer).Error)
	require.NoError(t, db.Create(&models.VolunteerProfile{UserID: volunteer.ID, FullName: "Dana Levi"}).Error)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return donationTestEnv{
		db:        db,
		handler:   handler,
		org:       org,
		volunteer: volunteer,
	}
}

func donationRouter(env donationTestEnv, identity *models.User) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if identity != nil {
			c.Set(constants.ContextKeyUserID, identity.ID)
			c.Set(constants.ContextKeyUserRole, identity.Role)
		}
		c.Next()
	})
	r.GET("/api/donation-campaigns", env.handler.ListCampaigns)
	r.GET("/api/donation-campaigns/:id", env.handler.GetCampaign)
	r.POST("/api/donation-campaigns", env.handler.CreateCampaign)
	r.PATCH("/api/donation-campaigns/:id", env.handler.UpdateCampaign)
	r.POST("/api/donations", env.handler.CreateDonation)
	r.GET("/api/donations", env.handler.ListDonations)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDonationHandler_AnonymousDonationDefaults(t *testing.T) {
	env := setupDonationTestEnv(t)
	r := donationRouter(env, nil)

	w := doJSON(t, r, http.MethodPost, "/api/donations", map[string]any{
		"organization_id": env.org.ID,
		"amount":          50.0,
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.DonationDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, constants.DefaultDonorName, response.DonorName)
	require.Equal(t, constants.SupportedCurrency, response.Currency)
	require.Equal(t, models.DonationStatusPending, response.Status)
	require.NotEmpty(t, response.ReceiptRef)
}

func TestDonationHandler_RejectsNonPositiveAmount(t *testing.T) {
	env := setupDonationTestEnv(t)
	r := donationRouter(env, nil)

	w := doJSON(t, r, http.MethodPost, "/api/donations", map[string]any{
		"organization_id": env.org.ID,
		"amount":          -5.0,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDonationHandler_RejectsUnknownRecipient(t *testing.T) {
	env := setupDonationTestEnv(t)
	r := donationRouter(env, nil)

	// The endpoint is public; a made-up recipient id must not create an
	// orphaned row.
	w := doJSON(t, r, http.MethodPost, "/api/donations", map[string]any{
		"organization_id": 999999,
		"amount":          50.0,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	env.db.Model(&models.Donation{}).Count(&count)
	require.Equal(t, int64(0), count)
}

func TestDonationHandler_RejectsNonOrgRecipient(t *testing.T) {
	env := setupDonationTestEnv(t)
	r := donationRouter(env, nil)

	// A volunteer account cannot receive donations.
	w := doJSON(t, r, http.MethodPost, "/api/donations", map[string]any{
		"organization_id": env.volunteer.ID,
		"amount":          50.0,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDonationHandler_RejectsForeignCurrency(t *testing.T) {
	env := setupDonationTestEnv(t)
	r := donationRouter(env, nil)

	w := doJSON(t, r, http.MethodPost, "/api/donations", map[string]any{
		"organization_id": env.org.ID,
		"amount":          50.0,
		"currency":        "usd",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDonationHandler_CampaignDonationLandsOnOwner(t *testing.T) {
	env := setupDonationTestEnv(t)

	campaign := &models.DonationCampaign{OrganizationID: env.org.ID, Title: "Winter Drive", IsActive: true}
	require.NoError(t, env.db.Create(campaign).Error)

	// The request names a different org; the campaign's owner wins.
	r := donationRouter(env, env.volunteer)
	w := doJSON(t, r, http.MethodPost, "/api/donations", map[string]any{
		"organization_id": env.volunteer.ID,
		"campaign_id":     campaign.ID,
		"amount":          120.0,
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.DonationDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, env.org.ID, response.OrganizationID)
	// A signed-in donor surfaces their profile name.
	require.Equal(t, "Dana Levi", response.DonorDisplayName)
}

func TestDonationHandler_InactiveCampaignHiddenFromPublic(t *testing.T) {
	env := setupDonationTestEnv(t)

	active := &models.DonationCampaign{OrganizationID: env.org.ID, Title: "Winter Drive", IsActive: true}
	require.NoError(t, env.db.Create(active).Error)
	inactive := &models.DonationCampaign{OrganizationID: env.org.ID, Title: "Closed Drive", IsActive: false}
	require.NoError(t, env.db.Create(inactive).Error)

	r := donationRouter(env, nil)

	w := doJSON(t, r, http.MethodGet, "/api/donation-campaigns", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var campaigns []dto.CampaignDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &campaigns))
	require.Len(t, campaigns, 1)
	require.Equal(t, active.ID, campaigns[0].ID)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/donation-campaigns/%d", inactive.ID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// The owner still sees it.
	r = donationRouter(env, env.org)
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/donation-campaigns/%d", inactive.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestDonationHandler_CreateCampaign(t *testing.T) {
	env := setupDonationTestEnv(t)
	r := donationRouter(env, env.org)

	goal := 5000.0
	w := doJSON(t, r, http.MethodPost, "/api/donation-campaigns", map[string]any{
		"title":       "Winter Drive",
		"goal_amount": goal,
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.CampaignDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, env.org.ID, response.OrganizationID)
	require.True(t, response.IsActive)
	require.NotNil(t, response.GoalAmount)
	require.Equal(t, goal, *response.GoalAmount)
}

func TestDonationHandler_UpdateCampaign_CrossTenantReportsNotFound(t *testing.T) {
	env := setupDonationTestEnv(t)

	otherOrg := &models.User{Email: "other@example.com", PasswordHash: "x", Role: models.RoleOrganization}
	require.NoError(t, env.db.Create(otherOrg).Error)

	campaign := &models.DonationCampaign{OrganizationID: env.org.ID, Title: "Winter Drive", IsActive: true}
	require.NoError(t, env.db.Create(campaign).Error)

	r := donationRouter(env, otherOrg)
	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/donation-campaigns/%d", campaign.ID), map[string]any{
		"title": "Hijacked",
	})

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDonationHandler_ListDonations_Scoped(t *testing.T) {
	env := setupDonationTestEnv(t)

	otherOrg := &models.User{Email: "other@example.com", PasswordHash: "x", Role: models.RoleOrganization}
	require.NoError(t, env.db.Create(otherOrg).Error)

	donationRepo := repository.NewDonationRepository(env.db)
	require.NoError(t, donationRepo.CreateDonation(&models.Donation{
		OrganizationID: env.org.ID,
		DonorUserID:    &env.volunteer.ID,
		Amount:         50,
		Currency:       constants.SupportedCurrency,
		DonorName:      "Dana",
		Status:         models.DonationStatusPending,
		ReceiptRef:     "r-1",
	}))
	require.NoError(t, donationRepo.CreateDonation(&models.Donation{
		OrganizationID: otherOrg.ID,
		Amount:         75,
		Currency:       constants.SupportedCurrency,
		DonorName:      "Someone Else",
		Status:         models.DonationStatusPending,
		ReceiptRef:     "r-2",
	}))

	type listResponse struct {
		Items      []dto.DonationDTO        `json:"items"`
		Pagination utils.PaginationResponse `json:"pagination"`
	}

	// Org sees donations it received.
	r := donationRouter(env, env.org)
	w := doJSON(t, r, http.MethodGet, "/api/donations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var response listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Items, 1)
	require.Equal(t, env.org.ID, response.Items[0].OrganizationID)
	require.Equal(t, int64(1), response.Pagination.Total)
	require.Equal(t, constants.DefaultPageSize, response.Pagination.Limit)

	// Volunteer sees donations they made.
	r = donationRouter(env, env.volunteer)
	w = doJSON(t, r, http.MethodGet, "/api/donations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Items, 1)
	require.Equal(t, 50.0, response.Items[0].Amount)
}
