package dto

import (
	"github.com/volunteerhub/volunteer-hub-api/internal/auth"
	"github.com/volunteerhub/volunteer-hub-api/internal/models"
)

// UserDTO is the public representation of an account.
type UserDTO struct {
	ID    uint64      `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// RegisteredVolunteerDTO is returned from volunteer registration.
type RegisteredVolunteerDTO struct {
	UserDTO
	FullName string `json:"full_name"`
}

// RegisteredOrgDTO is returned from organization registration.
type RegisteredOrgDTO struct {
	UserDTO
	OrgName string `json:"org_name"`
}

// VolunteerProfileDTO is the self-service profile view. Points and the
// reliability score are present but read-only.
type VolunteerProfileDTO struct {
	FullName         string  `json:"full_name"`
	Phone            string  `json:"phone"`
	City             string  `json:"city"`
	Points           int     `json:"points"`
	ReliabilityScore float64 `json:"reliability_score"`
}

// MeDTO is the GET /me payload.
type MeDTO struct {
	UserDTO
	VolunteerProfile *VolunteerProfileDTO `json:"volunteer_profile,omitempty"`
}

// TokenResponseDTO is returned from login, refresh and Google sign-in.
type TokenResponseDTO struct {
	Access  string  `json:"access"`
	Refresh string  `json:"refresh"`
	User    UserDTO `json:"user"`
}

// ToUserDTO converts a user to its public representation.
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}
}

// ToVolunteerProfileDTO converts a volunteer profile.
func ToVolunteerProfileDTO(profile models.VolunteerProfile) VolunteerProfileDTO {
	return VolunteerProfileDTO{
		FullName:         profile.FullName,
		Phone:            profile.Phone,
		City:             profile.City,
		Points:           profile.Points,
		ReliabilityScore: profile.ReliabilityScore,
	}
}

// ToTokenResponseDTO bundles a token pair with the user.
func ToTokenResponseDTO(pair *auth.TokenPair, user models.User) TokenResponseDTO {
	return TokenResponseDTO{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		User:    ToUserDTO(user),
	}
}
