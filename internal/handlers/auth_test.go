package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/volunteerhub/volunteer-hub-api/internal/auth"
	"github.com/volunteerhub/volunteer-hub-api/internal/constants"
	"github.com/volunteerhub/volunteer-hub-api/internal/database"
	"github.com/volunteerhub/volunteer-hub-api/internal/dto"
	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/repository"
	"github.com/volunteerhub/volunteer-hub-api/internal/services"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
	issuer      *auth.TokenIssuer
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.VolunteerProfile{},
		&models.OrganizationProfile{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	issuer := auth.NewTokenIssuer("test-secret", 30*time.Minute, 168*time.Hour)
	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, issuer, nil)
	handler := NewAuthHandler(authService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
		issuer:      issuer,
	}
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_RegisterVolunteer(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register/volunteer", env.handler.RegisterVolunteer)

	w := postJSON(t, r, "/api/auth/register/volunteer", map[string]string{
		"email":     "dana@example.com",
		"password":  "supersecret",
		"full_name": "Dana Levi",
		"city":      "Haifa",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.RegisteredVolunteerDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "dana@example.com", response.Email)
	require.Equal(t, models.RoleVolunteer, response.Role)
	require.Equal(t, "Dana Levi", response.FullName)
}

func TestAuthHandler_RegisterVolunteer_DuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register/volunteer", env.handler.RegisterVolunteer)

	payload := map[string]string{
		"email":     "dana@example.com",
		"password":  "supersecret",
		"full_name": "Dana Levi",
	}
	w := postJSON(t, r, "/api/auth/register/volunteer", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	// Same address with different casing still collides.
	payload["email"] = "DANA@example.com"
	w = postJSON(t, r, "/api/auth/register/volunteer", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_RegisterVolunteer_ShortPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register/volunteer", env.handler.RegisterVolunteer)

	w := postJSON(t, r, "/api/auth/register/volunteer", map[string]string{
		"email":     "dana@example.com",
		"password":  "short",
		"full_name": "Dana Levi",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_RegisterOrganization(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register/org", env.handler.RegisterOrganization)

	w := postJSON(t, r, "/api/auth/register/org", map[string]string{
		"email":    "org@example.com",
		"password": "supersecret",
		"org_name": "Food Rescue",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.RegisteredOrgDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, models.RoleOrganization, response.Role)
	require.Equal(t, "Food Rescue", response.OrgName)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, _, err := env.authService.RegisterVolunteer(services.RegisterVolunteerInput{
		Email:    "dana@example.com",
		Password: "supersecret",
		FullName: "Dana Levi",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/login", env.handler.Login)

	w := postJSON(t, r, "/api/auth/login", map[string]string{
		"email":    "dana@example.com",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Access)
	require.NotEmpty(t, response.Refresh)
	require.Equal(t, "dana@example.com", response.User.Email)

	claims, err := env.issuer.Parse(response.Access, auth.TokenTypeAccess)
	require.NoError(t, err)
	require.Equal(t, response.User.ID, claims.UserID)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, _, err := env.authService.RegisterVolunteer(services.RegisterVolunteerInput{
		Email:    "dana@example.com",
		Password: "supersecret",
		FullName: "Dana Levi",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/login", env.handler.Login)

	w := postJSON(t, r, "/api/auth/login", map[string]string{
		"email":    "dana@example.com",
		"password": "wrong-password",
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Refresh(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, _, err := env.authService.RegisterVolunteer(services.RegisterVolunteerInput{
		Email:    "dana@example.com",
		Password: "supersecret",
		FullName: "Dana Levi",
	})
	require.NoError(t, err)

	_, pair, err := env.authService.Login("dana@example.com", "supersecret")
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/refresh", env.handler.Refresh)

	w := postJSON(t, r, "/api/auth/refresh", map[string]string{
		"refresh": pair.Refresh,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response["access"])
	require.NotEmpty(t, response["refresh"])
}

func TestAuthHandler_Refresh_RejectsAccessToken(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, _, err := env.authService.RegisterVolunteer(services.RegisterVolunteerInput{
		Email:    "dana@example.com",
		Password: "supersecret",
		FullName: "Dana Levi",
	})
	require.NoError(t, err)

	_, pair, err := env.authService.Login("dana@example.com", "supersecret")
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/refresh", env.handler.Refresh)

	// An access token is not accepted where a refresh token is expected.
	w := postJSON(t, r, "/api/auth/refresh", map[string]string{
		"refresh": pair.Access,
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, _, err := env.authService.RegisterVolunteer(services.RegisterVolunteerInput{
		Email:    "dana@example.com",
		Password: "supersecret",
		FullName: "Dana Levi",
		City:     "Haifa",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyUserID, user.ID)
	c.Set(constants.ContextKeyUserRole, user.Role)

	env.handler.GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.MeDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, user.Email, response.Email)
	require.NotNil(t, response.VolunteerProfile)
	require.Equal(t, "Dana Levi", response.VolunteerProfile.FullName)
	require.Equal(t, "Haifa", response.VolunteerProfile.City)
}

func TestAuthHandler_UpdateVolunteerProfile(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, _, err := env.authService.RegisterVolunteer(services.RegisterVolunteerInput{
		Email:    "dana@example.com",
		Password: "supersecret",
		FullName: "Dana Levi",
		City:     "Haifa",
	})
	require.NoError(t, err)

	body, err := json.Marshal(map[string]string{"city": "Tel Aviv"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/api/volunteer-profile", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeyUserID, user.ID)
	c.Set(constants.ContextKeyUserRole, user.Role)

	env.handler.UpdateVolunteerProfile(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.VolunteerProfileDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Tel Aviv", response.City)
	// Untouched fields survive a partial update.
	require.Equal(t, "Dana Levi", response.FullName)
}
