package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of account types. Every authorization decision
// goes through these values; there is no per-endpoint string matching.
type Role string

const (
	RoleVolunteer    Role = "VOLUNTEER"
	RoleOrganization Role = "ORG"
	RoleAdmin        Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleVolunteer, RoleOrganization, RoleAdmin:
		return true
	}
	return false
}

// CanManageEvents reports whether the role may create and manage events
// and campaigns.
func (r Role) CanManageEvents() bool {
	return r == RoleOrganization || r == RoleAdmin
}

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role           `gorm:"type:varchar(20);not null;default:'VOLUNTEER'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	VolunteerProfile    *VolunteerProfile    `gorm:"foreignKey:UserID" json:"volunteer_profile,omitempty"`
	OrganizationProfile *OrganizationProfile `gorm:"foreignKey:UserID" json:"organization_profile,omitempty"`
	Events              []Event              `gorm:"foreignKey:OrganizationID" json:"-"`
	Signups             []EventSignup        `gorm:"foreignKey:VolunteerID" json:"-"`
}
