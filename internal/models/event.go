package models

import (
	"time"

	"gorm.io/gorm"
)

// Event is owned by exactly one ORG user. Date and Time are kept as ISO
// strings so date comparisons work the same across Postgres and SQLite.
type Event struct {
	ID               uint64         `gorm:"primarykey" json:"id"`
	OrganizationID   uint64         `gorm:"not null;index" json:"organization_id"`
	Title            string         `gorm:"type:varchar(200);not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	Category         string         `gorm:"type:varchar(100)" json:"category"`
	Location         string         `gorm:"type:varchar(120)" json:"location"`
	Date             string         `gorm:"type:varchar(10);not null;index" json:"date"`
	Time             string         `gorm:"type:varchar(5);not null" json:"time"`
	NeededVolunteers int            `gorm:"not null;default:1" json:"needed_volunteers"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization User          `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	SignupRows   []EventSignup `gorm:"foreignKey:EventID" json:"signups,omitempty"`
}
