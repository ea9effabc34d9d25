package dto

import "github.com/volunteerhub/volunteer-hub-api/internal/models"

// OrganizationProfileDTO is the public directory entry.
type OrganizationProfileDTO struct {
	ID          uint64 `json:"id"`
	OrgName     string `json:"org_name"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
}

// ToOrganizationProfileDTO converts an org profile.
func ToOrganizationProfileDTO(profile models.OrganizationProfile) OrganizationProfileDTO {
	return OrganizationProfileDTO{
		ID:          profile.ID,
		OrgName:     profile.OrgName,
		Description: profile.Description,
		Phone:       profile.Phone,
		Website:     profile.Website,
	}
}

// ToOrganizationProfileDTOs converts a directory listing.
func ToOrganizationProfileDTOs(profiles []models.OrganizationProfile) []OrganizationProfileDTO {
	dtos := make([]OrganizationProfileDTO, len(profiles))
	for i, p := range profiles {
		dtos[i] = ToOrganizationProfileDTO(p)
	}
	return dtos
}
