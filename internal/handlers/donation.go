package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/volunteerhub/volunteer-hub-api/internal/dto"
	apierrors "github.com/volunteerhub/volunteer-hub-api/internal/errors"
	"github.com/volunteerhub/volunteer-hub-api/internal/services"
	"github.com/volunteerhub/volunteer-hub-api/internal/utils"
)

// DonationHandler coordinates campaign and donation HTTP handlers.
type DonationHandler struct {
	donationService *services.DonationService
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(donationService *services.DonationService) *DonationHandler {
	return &DonationHandler{
		donationService: donationService,
	}
}

// ListCampaigns returns campaigns scoped to the caller's role.
func (h *DonationHandler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.donationService.ListCampaigns(currentViewer(c))
	if err != nil {
		respondDonationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCampaignDTOs(campaigns))
}

// GetCampaign returns a single campaign by id.
func (h *DonationHandler) GetCampaign(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	campaign, err := h.donationService.GetCampaign(currentViewer(c), id)
	if err != nil {
		respondDonationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCampaignDTO(*campaign))
}

// CreateCampaign creates a campaign owned by the calling organization.
func (h *DonationHandler) CreateCampaign(c *gin.Context) {
	viewer := currentViewer(c)
	if viewer == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type request struct {
		Title       string   `json:"title" binding:"required"`
		Description string   `json:"description"`
		GoalAmount  *float64 `json:"goal_amount"`
		EventID     *uint64  `json:"event_id"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	campaign, err := h.donationService.CreateCampaign(viewer.ID, services.CreateCampaignInput{
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		EventID:     req.EventID,
	})
	if err != nil {
		respondDonationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCampaignDTO(*campaign))
}

// UpdateCampaign applies a partial update to an owned campaign.
func (h *DonationHandler) UpdateCampaign(c *gin.Context) {
	viewer := currentViewer(c)
	if viewer == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	type request struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		GoalAmount  *float64 `json:"goal_amount"`
		IsActive    *bool    `json:"is_active"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	campaign, err := h.donationService.UpdateCampaign(*viewer, id, services.UpdateCampaignInput{
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondDonationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCampaignDTO(*campaign))
}

// DeleteCampaign removes an owned campaign.
func (h *DonationHandler) DeleteCampaign(c *gin.Context) {
	viewer := currentViewer(c)
	if viewer == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.donationService.DeleteCampaign(*viewer, id); err != nil {
		respondDonationError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateDonation records a pending donation. The caller may be
// anonymous; a signed-in caller is attached as the donor.
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	type request struct {
		OrganizationID uint64  `json:"organization_id"`
		CampaignID     *uint64 `json:"campaign_id"`
		Amount         float64 `json:"amount" binding:"required"`
		Currency       string  `json:"currency"`
		DonorName      string  `json:"donor_name"`
		DonorEmail     string  `json:"donor_email"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateDonationInput{
		OrganizationID: req.OrganizationID,
		CampaignID:     req.CampaignID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		DonorName:      req.DonorName,
		DonorEmail:     req.DonorEmail,
	}
	if viewer := currentViewer(c); viewer != nil {
		input.DonorUserID = &viewer.ID
	}

	donation, err := h.donationService.CreateDonation(input)
	if err != nil {
		respondDonationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDonationDTO(*donation))
}

// ListDonations returns one page of donations scoped to the caller's
// role.
func (h *DonationHandler) ListDonations(c *gin.Context) {
	viewer := currentViewer(c)
	if viewer == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	donations, pagination, err := h.donationService.ListDonations(*viewer, utils.GetPaginationParams(c))
	if err != nil {
		respondDonationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      dto.ToDonationDTOs(donations),
		"pagination": pagination,
	})
}

// GetDonation returns a single donation, scoped like listing.
func (h *DonationHandler) GetDonation(c *gin.Context) {
	viewer := currentViewer(c)
	if viewer == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	donation, err := h.donationService.GetDonation(*viewer, id)
	if err != nil {
		respondDonationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDonationDTO(*donation))
}

func respondDonationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCampaignNotFound),
		errors.Is(err, services.ErrDonationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCampaignTitleEmpty),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrUnsupportedCurrency),
		errors.Is(err, services.ErrInvalidRecipient):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
