package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/volunteerhub/volunteer-hub-api/internal/dto"
	apierrors "github.com/volunteerhub/volunteer-hub-api/internal/errors"
	"github.com/volunteerhub/volunteer-hub-api/internal/services"
)

// OrganizationHandler serves the public directory and the organization
// self-service profile.
type OrganizationHandler struct {
	orgService *services.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
	}
}

// ListOrganizations returns the public organization directory.
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	profiles, err := h.orgService.ListOrganizations()
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationProfileDTOs(profiles))
}

// GetOrganization returns a single directory entry.
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	profile, err := h.orgService.GetOrganization(id)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationProfileDTO(*profile))
}

// GetOwnProfile returns the calling organization's profile.
func (h *OrganizationHandler) GetOwnProfile(c *gin.Context) {
	viewer := currentViewer(c)
	if viewer == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	profile, err := h.orgService.GetOwnProfile(viewer.ID)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationProfileDTO(*profile))
}

// UpdateOwnProfile applies a partial update to the calling
// organization's profile.
func (h *OrganizationHandler) UpdateOwnProfile(c *gin.Context) {
	viewer := currentViewer(c)
	if viewer == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type request struct {
		OrgName     *string `json:"org_name"`
		Description *string `json:"description"`
		Phone       *string `json:"phone"`
		Website     *string `json:"website"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.orgService.UpdateOwnProfile(viewer.ID, services.UpdateOrganizationProfileInput{
		OrgName:     req.OrgName,
		Description: req.Description,
		Phone:       req.Phone,
		Website:     req.Website,
	})
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationProfileDTO(*profile))
}

func respondOrgError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrganizationNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
