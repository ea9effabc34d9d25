package models

import (
	"time"

	"gorm.io/gorm"
)

// DonationCampaign is an organization's donation-collection container,
// optionally tied to one event.
type DonationCampaign struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	OrganizationID uint64         `gorm:"not null;index" json:"organization_id"`
	EventID        *uint64        `json:"event_id"`
	Title          string         `gorm:"type:varchar(200);not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	GoalAmount     *float64       `json:"goal_amount"`
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization User       `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Event        *Event     `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Donations    []Donation `gorm:"foreignKey:CampaignID" json:"-"`
}
