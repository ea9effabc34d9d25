package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/volunteerhub/volunteer-hub-api/internal/auth"
	"github.com/volunteerhub/volunteer-hub-api/internal/constants"
	"github.com/volunteerhub/volunteer-hub-api/internal/dto"
	apierrors "github.com/volunteerhub/volunteer-hub-api/internal/errors"
	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterVolunteer creates a volunteer account with its profile.
func (h *AuthHandler) RegisterVolunteer(c *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		FullName string `json:"full_name" binding:"required"`
		Phone    string `json:"phone"`
		City     string `json:"city"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, profile, err := h.authService.RegisterVolunteer(services.RegisterVolunteerInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
		City:     req.City,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RegisteredVolunteerDTO{
		UserDTO:  dto.ToUserDTO(*user),
		FullName: profile.FullName,
	})
}

// RegisterOrganization creates an organization account with its profile.
func (h *AuthHandler) RegisterOrganization(c *gin.Context) {
	type request struct {
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required"`
		OrgName     string `json:"org_name" binding:"required"`
		Description string `json:"description"`
		Phone       string `json:"phone"`
		Website     string `json:"website"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, profile, err := h.authService.RegisterOrganization(services.RegisterOrganizationInput{
		Email:       req.Email,
		Password:    req.Password,
		OrgName:     req.OrgName,
		Description: req.Description,
		Phone:       req.Phone,
		Website:     req.Website,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RegisteredOrgDTO{
		UserDTO: dto.ToUserDTO(*user),
		OrgName: profile.OrgName,
	})
}

// Login authenticates with email and password and returns a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, pair, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTokenResponseDTO(pair, *user))
}

// Refresh exchanges a refresh token for a new pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	type request struct {
		Refresh string `json:"refresh" binding:"required"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	pair, err := h.authService.Refresh(req.Refresh)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access":  pair.Access,
		"refresh": pair.Refresh,
	})
}

// GoogleLogin exchanges a Google ID token for a token pair, creating a
// volunteer account on first login.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	type request struct {
		Credential string `json:"credential" binding:"required"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, pair, err := h.authService.GoogleLogin(c.Request.Context(), req.Credential)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTokenResponseDTO(pair, *user))
}

// GetCurrentUser returns the authenticated account, with the volunteer
// profile summary when one exists.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	viewer := currentViewer(c)
	if viewer == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(viewer.ID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	me := dto.MeDTO{UserDTO: dto.ToUserDTO(*user)}
	if user.Role == models.RoleVolunteer {
		if profile, err := h.authService.GetVolunteerProfile(user.ID); err == nil {
			p := dto.ToVolunteerProfileDTO(*profile)
			me.VolunteerProfile = &p
		}
	}

	c.JSON(http.StatusOK, me)
}

// GetVolunteerProfile returns the caller's own profile.
func (h *AuthHandler) GetVolunteerProfile(c *gin.Context) {
	viewer := currentViewer(c)
	if viewer == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	profile, err := h.authService.GetVolunteerProfile(viewer.ID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVolunteerProfileDTO(*profile))
}

// UpdateVolunteerProfile applies a partial update to the caller's
// profile. Points and reliability score are not accepted.
func (h *AuthHandler) UpdateVolunteerProfile(c *gin.Context) {
	viewer := currentViewer(c)
	if viewer == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type request struct {
		FullName *string `json:"full_name"`
		Phone    *string `json:"phone"`
		City     *string `json:"city"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.authService.UpdateVolunteerProfile(viewer.ID, services.UpdateVolunteerProfileInput{
		FullName: req.FullName,
		Phone:    req.Phone,
		City:     req.City,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVolunteerProfileDTO(*profile))
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrInvalidGoogleToken):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, auth.ErrGoogleNotConfigured):
		apierrors.NotConfigured(c, "Google sign-in is not configured (missing GOOGLE_CLIENT_ID)")
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProfileNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
