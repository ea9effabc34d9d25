package models

import "time"

// VolunteerProfile extends a VOLUNTEER user with display fields and the
// derived reliability score. The score is never written by the owner;
// it is recomputed from rated signups.
type VolunteerProfile struct {
	ID               uint64    `gorm:"primarykey" json:"id"`
	UserID           uint64    `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName         string    `gorm:"type:varchar(200);not null" json:"full_name"`
	Phone            string    `gorm:"type:varchar(50)" json:"phone"`
	City             string    `gorm:"type:varchar(100)" json:"city"`
	Points           int       `gorm:"not null;default:0" json:"points"`
	ReliabilityScore float64   `gorm:"not null;default:0" json:"reliability_score"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
