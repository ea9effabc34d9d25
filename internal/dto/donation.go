package dto

import (
	"time"

	"github.com/volunteerhub/volunteer-hub-api/internal/models"
)

// CampaignDTO is the wire representation of a donation campaign.
type CampaignDTO struct {
	ID             uint64    `json:"id"`
	OrganizationID uint64    `json:"organization_id"`
	EventID        *uint64   `json:"event_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	GoalAmount     *float64  `json:"goal_amount"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// DonationDTO is the wire representation of a donation.
type DonationDTO struct {
	ID               uint64                `json:"id"`
	OrganizationID   uint64                `json:"organization_id"`
	CampaignID       *uint64               `json:"campaign_id"`
	CampaignTitle    string                `json:"campaign_title"`
	Amount           float64               `json:"amount"`
	Currency         string                `json:"currency"`
	DonorName        string                `json:"donor_name"`
	DonorEmail       string                `json:"donor_email"`
	DonorDisplayName string                `json:"donor_display_name"`
	Status           models.DonationStatus `json:"status"`
	ReceiptRef       string                `json:"receipt_ref"`
	CreatedAt        time.Time             `json:"created_at"`
}

// ToCampaignDTO converts a campaign.
func ToCampaignDTO(campaign models.DonationCampaign) CampaignDTO {
	return CampaignDTO{
		ID:             campaign.ID,
		OrganizationID: campaign.OrganizationID,
		EventID:        campaign.EventID,
		Title:          campaign.Title,
		Description:    campaign.Description,
		GoalAmount:     campaign.GoalAmount,
		IsActive:       campaign.IsActive,
		CreatedAt:      campaign.CreatedAt,
	}
}

// ToCampaignDTOs converts a campaign listing.
func ToCampaignDTOs(campaigns []models.DonationCampaign) []CampaignDTO {
	dtos := make([]CampaignDTO, len(campaigns))
	for i, c := range campaigns {
		dtos[i] = ToCampaignDTO(c)
	}
	return dtos
}

// ToDonationDTO converts a donation. The display name prefers the
// signed-in donor's profile name over the free-text donor name.
func ToDonationDTO(donation models.Donation) DonationDTO {
	d := DonationDTO{
		ID:               donation.ID,
		OrganizationID:   donation.OrganizationID,
		CampaignID:       donation.CampaignID,
		Amount:           donation.Amount,
		Currency:         donation.Currency,
		DonorName:        donation.DonorName,
		DonorEmail:       donation.DonorEmail,
		DonorDisplayName: donorDisplayName(donation),
		Status:           donation.Status,
		ReceiptRef:       donation.ReceiptRef,
		CreatedAt:        donation.CreatedAt,
	}
	if donation.Campaign != nil {
		d.CampaignTitle = donation.Campaign.Title
	}
	return d
}

// ToDonationDTOs converts a donation listing.
func ToDonationDTOs(donations []models.Donation) []DonationDTO {
	dtos := make([]DonationDTO, len(donations))
	for i, d := range donations {
		dtos[i] = ToDonationDTO(d)
	}
	return dtos
}

func donorDisplayName(donation models.Donation) string {
	if donation.DonorUser != nil {
		if p := donation.DonorUser.VolunteerProfile; p != nil && p.FullName != "" {
			return p.FullName
		}
		return donation.DonorUser.Email
	}
	return donation.DonorName
}
