package repository

import (
	"gorm.io/gorm"

	"github.com/volunteerhub/volunteer-hub-api/internal/database"
	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/utils"
)

// GormDonationRepository is a GORM implementation of DonationRepository
type GormDonationRepository struct {
	db *gorm.DB
}

// NewDonationRepository creates a new DonationRepository
func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &GormDonationRepository{db: db}
}

// CreateCampaign creates a new campaign
func (r *GormDonationRepository) CreateCampaign(campaign *models.DonationCampaign) error {
	return r.db.Create(campaign).Error
}

// FindCampaignByID finds a campaign by ID
func (r *GormDonationRepository) FindCampaignByID(id uint64) (*models.DonationCampaign, error) {
	var campaign models.DonationCampaign
	if err := r.db.First(&campaign, id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// SaveCampaign persists campaign changes
func (r *GormDonationRepository) SaveCampaign(campaign *models.DonationCampaign) error {
	return r.db.Save(campaign).Error
}

// DeleteCampaign soft deletes a campaign
func (r *GormDonationRepository) DeleteCampaign(id uint64) error {
	return r.db.Delete(&models.DonationCampaign{}, id).Error
}

// ListCampaigns retrieves campaigns matching the filter, newest first
func (r *GormDonationRepository) ListCampaigns(filter CampaignFilter) ([]models.DonationCampaign, error) {
	query := r.db.Model(&models.DonationCampaign{}).Order("created_at DESC")

	if filter.OrganizationID != nil {
		query = query.Where("organization_id = ?", *filter.OrganizationID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var campaigns []models.DonationCampaign
	if err := query.Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// CreateDonation creates a new donation
func (r *GormDonationRepository) CreateDonation(donation *models.Donation) error {
	return r.db.Create(donation).Error
}

// FindDonationByID finds a donation by ID with optional preloading
func (r *GormDonationRepository) FindDonationByID(id uint64, preload ...string) (*models.Donation, error) {
	var donation models.Donation
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&donation, id).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

// SaveDonation persists donation changes
func (r *GormDonationRepository) SaveDonation(donation *models.Donation) error {
	return r.db.Save(donation).Error
}

// ListDonations retrieves one page of donations matching the filter,
// newest first, along with the total row count
func (r *GormDonationRepository) ListDonations(filter DonationFilter, page utils.PaginationParams) ([]models.Donation, int64, error) {
	query := r.db.Model(&models.Donation{})

	if filter.OrganizationID != nil {
		query = query.Where("organization_id = ?", *filter.OrganizationID)
	}
	if filter.DonorUserID != nil {
		query = query.Where("donor_user_id = ?", *filter.DonorUserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var donations []models.Donation
	err := query.
		Preload("Campaign").
		Preload("DonorUser").
		Preload("DonorUser.VolunteerProfile").
		Order("created_at DESC").
		Scopes(database.Paginate(page)).
		Find(&donations).Error
	if err != nil {
		return nil, 0, err
	}
	return donations, total, nil
}
