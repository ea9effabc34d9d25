package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/volunteerhub/volunteer-hub-api/internal/constants"
	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/repository"
	"github.com/volunteerhub/volunteer-hub-api/internal/utils"
)

var (
	ErrCampaignNotFound    = errors.New("campaign not found")
	ErrCampaignTitleEmpty  = errors.New("campaign title is required")
	ErrDonationNotFound    = errors.New("donation not found")
	ErrInvalidAmount       = errors.New("donation amount must be greater than zero")
	ErrUnsupportedCurrency = errors.New("only ILS donations are supported")
	ErrInvalidRecipient    = errors.New("recipient organization not found")
)

// DonationService handles campaigns and donation intake.
type DonationService struct {
	donationRepo repository.DonationRepository
	userRepo     repository.UserRepository
}

// NewDonationService creates a new DonationService.
func NewDonationService(donationRepo repository.DonationRepository, userRepo repository.UserRepository) *DonationService {
	return &DonationService{
		donationRepo: donationRepo,
		userRepo:     userRepo,
	}
}

// ListCampaigns applies role-scoped visibility: anonymous and volunteer
// callers see active campaigns only, organizations see their own
// including inactive ones, admins see everything.
func (s *DonationService) ListCampaigns(viewer *Viewer) ([]models.DonationCampaign, error) {
	filter := repository.CampaignFilter{}

	switch {
	case viewer == nil:
		filter.ActiveOnly = true
	case viewer.Role == models.RoleOrganization:
		filter.OrganizationID = &viewer.ID
	case viewer.Role == models.RoleAdmin:
		// unfiltered
	default:
		filter.ActiveOnly = true
	}

	campaigns, err := s.donationRepo.ListCampaigns(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}

// GetCampaign returns one campaign with the same visibility rules as
// listing.
func (s *DonationService) GetCampaign(viewer *Viewer, id uint64) (*models.DonationCampaign, error) {
	campaign, err := s.donationRepo.FindCampaignByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to find campaign: %w", err)
	}

	switch {
	case viewer == nil:
		if !campaign.IsActive {
			return nil, ErrCampaignNotFound
		}
	case viewer.Role == models.RoleOrganization:
		if campaign.OrganizationID != viewer.ID {
			return nil, ErrCampaignNotFound
		}
	case viewer.Role == models.RoleAdmin:
		// sees everything
	default:
		if !campaign.IsActive {
			return nil, ErrCampaignNotFound
		}
	}
	return campaign, nil
}

// CreateCampaignInput holds the fields for a new campaign.
type CreateCampaignInput struct {
	Title       string
	Description string
	GoalAmount  *float64
	EventID     *uint64
}

// CreateCampaign creates a campaign owned by the calling organization.
func (s *DonationService) CreateCampaign(ownerID uint64, input CreateCampaignInput) (*models.DonationCampaign, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrCampaignTitleEmpty
	}

	campaign := &models.DonationCampaign{
		OrganizationID: ownerID,
		EventID:        input.EventID,
		Title:          input.Title,
		Description:    input.Description,
		GoalAmount:     input.GoalAmount,
		IsActive:       true,
	}

	if err := s.donationRepo.CreateCampaign(campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	return campaign, nil
}

// UpdateCampaignInput holds a partial campaign update.
type UpdateCampaignInput struct {
	Title       *string
	Description *string
	GoalAmount  *float64
	IsActive    *bool
}

// UpdateCampaign applies a partial update. Cross-tenant attempts report
// not-found.
func (s *DonationService) UpdateCampaign(viewer Viewer, id uint64, input UpdateCampaignInput) (*models.DonationCampaign, error) {
	campaign, err := s.ownedCampaign(viewer, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrCampaignTitleEmpty
		}
		campaign.Title = *input.Title
	}
	if input.Description != nil {
		campaign.Description = *input.Description
	}
	if input.GoalAmount != nil {
		campaign.GoalAmount = input.GoalAmount
	}
	if input.IsActive != nil {
		campaign.IsActive = *input.IsActive
	}

	if err := s.donationRepo.SaveCampaign(campaign); err != nil {
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}
	return campaign, nil
}

// DeleteCampaign removes a campaign. Owner only.
func (s *DonationService) DeleteCampaign(viewer Viewer, id uint64) error {
	if _, err := s.ownedCampaign(viewer, id); err != nil {
		return err
	}
	if err := s.donationRepo.DeleteCampaign(id); err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}

// CreateDonationInput holds the fields for a new donation. DonorUserID
// is set when the caller is authenticated.
type CreateDonationInput struct {
	OrganizationID uint64
	CampaignID     *uint64
	Amount         float64
	Currency       string
	DonorName      string
	DonorEmail     string
	DonorUserID    *uint64
}

// CreateDonation validates and stores a donation in PENDING state.
// Anyone may donate, with or without an account.
func (s *DonationService) CreateDonation(input CreateDonationInput) (*models.Donation, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	currency := strings.ToLower(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = constants.SupportedCurrency
	}
	if currency != constants.SupportedCurrency {
		return nil, ErrUnsupportedCurrency
	}

	donorName := strings.TrimSpace(input.DonorName)
	if donorName == "" {
		donorName = constants.DefaultDonorName
	}

	if input.CampaignID != nil {
		campaign, err := s.donationRepo.FindCampaignByID(*input.CampaignID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCampaignNotFound
			}
			return nil, fmt.Errorf("failed to find campaign: %w", err)
		}
		// A campaign donation always lands on the campaign's owner.
		input.OrganizationID = campaign.OrganizationID
	}

	// Every donation must land on a real ORG account; the endpoint is
	// public, so the recipient id is caller-controlled.
	recipient, err := s.userRepo.FindByID(input.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRecipient
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	if recipient.Role != models.RoleOrganization {
		return nil, ErrInvalidRecipient
	}

	donation := &models.Donation{
		OrganizationID: input.OrganizationID,
		CampaignID:     input.CampaignID,
		DonorUserID:    input.DonorUserID,
		Amount:         input.Amount,
		Currency:       currency,
		DonorName:      donorName,
		DonorEmail:     input.DonorEmail,
		Status:         models.DonationStatusPending,
		ReceiptRef:     utils.NewReceiptRef(),
	}

	if err := s.donationRepo.CreateDonation(donation); err != nil {
		return nil, fmt.Errorf("failed to create donation: %w", err)
	}

	// Reload so the response carries the campaign and donor relations.
	created, err := s.donationRepo.FindDonationByID(donation.ID, "Campaign", "DonorUser.VolunteerProfile")
	if err != nil {
		return nil, fmt.Errorf("failed to reload donation: %w", err)
	}
	return created, nil
}

// ListDonations applies role-scoped visibility: organizations see
// donations they received, volunteers see donations they made while
// signed in, admins see everything.
func (s *DonationService) ListDonations(viewer Viewer, page utils.PaginationParams) ([]models.Donation, *utils.PaginationResponse, error) {
	filter := repository.DonationFilter{}

	switch viewer.Role {
	case models.RoleOrganization:
		filter.OrganizationID = &viewer.ID
	case models.RoleAdmin:
		// unfiltered
	default:
		filter.DonorUserID = &viewer.ID
	}

	donations, total, err := s.donationRepo.ListDonations(filter, page)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return donations, &utils.PaginationResponse{
		Page:  page.Page,
		Limit: page.Limit,
		Total: total,
	}, nil
}

// GetDonation returns a donation applying the same scoping as listing.
func (s *DonationService) GetDonation(viewer Viewer, id uint64) (*models.Donation, error) {
	donation, err := s.donationRepo.FindDonationByID(id, "Campaign", "DonorUser.VolunteerProfile")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, fmt.Errorf("failed to find donation: %w", err)
	}

	switch viewer.Role {
	case models.RoleAdmin:
	case models.RoleOrganization:
		if donation.OrganizationID != viewer.ID {
			return nil, ErrDonationNotFound
		}
	default:
		if donation.DonorUserID == nil || *donation.DonorUserID != viewer.ID {
			return nil, ErrDonationNotFound
		}
	}
	return donation, nil
}

func (s *DonationService) ownedCampaign(viewer Viewer, id uint64) (*models.DonationCampaign, error) {
	campaign, err := s.donationRepo.FindCampaignByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to find campaign: %w", err)
	}
	if campaign.OrganizationID != viewer.ID {
		return nil, ErrCampaignNotFound
	}
	return campaign, nil
}
