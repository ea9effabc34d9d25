package models

import "time"

// OrganizationProfile extends an ORG user with the public directory
// fields.
type OrganizationProfile struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	UserID      uint64    `gorm:"uniqueIndex;not null" json:"user_id"`
	OrgName     string    `gorm:"type:varchar(200);not null" json:"org_name"`
	Description string    `gorm:"type:text" json:"description"`
	Phone       string    `gorm:"type:varchar(50)" json:"phone"`
	Website     string    `gorm:"type:varchar(255)" json:"website"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
