package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/repository"
)

var ErrOrganizationNotFound = errors.New("organization not found")

// OrganizationService serves the public organization directory and the
// organization self-service profile.
type OrganizationService struct {
	userRepo repository.UserRepository
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(userRepo repository.UserRepository) *OrganizationService {
	return &OrganizationService{
		userRepo: userRepo,
	}
}

// ListOrganizations returns the public directory.
func (s *OrganizationService) ListOrganizations() ([]models.OrganizationProfile, error) {
	profiles, err := s.userRepo.ListOrganizationProfiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return profiles, nil
}

// GetOrganization returns a single directory entry by profile id.
func (s *OrganizationService) GetOrganization(id uint64) (*models.OrganizationProfile, error) {
	profile, err := s.userRepo.OrganizationProfileByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return profile, nil
}

// GetOwnProfile returns the calling organization's profile.
func (s *OrganizationService) GetOwnProfile(userID uint64) (*models.OrganizationProfile, error) {
	profile, err := s.userRepo.OrganizationProfileByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization profile: %w", err)
	}
	return profile, nil
}

// UpdateOrganizationProfileInput carries a partial profile update.
type UpdateOrganizationProfileInput struct {
	OrgName     *string
	Description *string
	Phone       *string
	Website     *string
}

// UpdateOwnProfile applies a partial update to the calling
// organization's profile.
func (s *OrganizationService) UpdateOwnProfile(userID uint64, input UpdateOrganizationProfileInput) (*models.OrganizationProfile, error) {
	profile, err := s.GetOwnProfile(userID)
	if err != nil {
		return nil, err
	}

	if input.OrgName != nil {
		profile.OrgName = *input.OrgName
	}
	if input.Description != nil {
		profile.Description = *input.Description
	}
	if input.Phone != nil {
		profile.Phone = *input.Phone
	}
	if input.Website != nil {
		profile.Website = *input.Website
	}

	if err := s.userRepo.SaveOrganizationProfile(profile); err != nil {
		return nil, fmt.Errorf("failed to save organization profile: %w", err)
	}
	return profile, nil
}
