package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
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
)

type orgTestEnv struct {
	db      *gorm.DB
	handler *OrganizationHandler
}

func setupOrgTestEnv(t *testing.T) orgTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.OrganizationProfile{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	handler := NewOrganizationHandler(services.NewOrganizationService(userRepo))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return orgTestEnv{db: db, handler: handler}
}

func (env orgTestEnv) createOrg(t *testing.T, email, name string) (*models.User, *models.OrganizationProfile) {
	t.Helper()

	user := &models.User{Email: email, PasswordHash: "x", Role: models.RoleOrganization}
	require.NoError(t, env.db.Create(user).Error)
	profile := &models.OrganizationProfile{UserID: user.ID, OrgName: name}
	require.NoError(t, env.db.Create(profile).Error)
	return user, profile
}

func orgRouter(env orgTestEnv, identity *models.User) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if identity != nil {
			c.Set(constants.ContextKeyUserID, identity.ID)
			c.Set(constants.ContextKeyUserRole, identity.Role)
		}
		c.Next()
	})
	r.GET("/api/organizations", env.handler.ListOrganizations)
	r.GET("/api/organizations/me", env.handler.GetOwnProfile)
	r.PATCH("/api/organizations/me", env.handler.UpdateOwnProfile)
	r.GET("/api/organizations/:id", env.handler.GetOrganization)
	return r
}

func TestOrganizationHandler_ListOrganizations(t *testing.T) {
	env := setupOrgTestEnv(t)
	env.createOrg(t, "b@example.com", "Beach Patrol")
	env.createOrg(t, "a@example.com", "Animal Aid")

	r := orgRouter(env, nil)
	w := doJSON(t, r, http.MethodGet, "/api/organizations", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var orgs []dto.OrganizationProfileDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orgs))
	require.Len(t, orgs, 2)
	// Directory is ordered by name.
	require.Equal(t, "Animal Aid", orgs[0].OrgName)
	require.Equal(t, "Beach Patrol", orgs[1].OrgName)
}

func TestOrganizationHandler_GetOrganization(t *testing.T) {
	env := setupOrgTestEnv(t)
	_, profile := env.createOrg(t, "org@example.com", "Food Rescue")

	r := orgRouter(env, nil)
	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/organizations/%d", profile.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.OrganizationProfileDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Food Rescue", response.OrgName)

	w = doJSON(t, r, http.MethodGet, "/api/organizations/9999", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrganizationHandler_UpdateOwnProfile(t *testing.T) {
	env := setupOrgTestEnv(t)
	user, _ := env.createOrg(t, "org@example.com", "Food Rescue")

	r := orgRouter(env, user)
	w := doJSON(t, r, http.MethodPatch, "/api/organizations/me", map[string]string{
		"website": "https://foodrescue.example",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.OrganizationProfileDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "https://foodrescue.example", response.Website)
	// Untouched fields survive a partial update.
	require.Equal(t, "Food Rescue", response.OrgName)
}
