package models

import "time"

// DonationStatus tracks payment-processor reconciliation. Transitions
// out of PENDING happen only through the Stripe webhook.
type DonationStatus string

const (
	DonationStatusPending DonationStatus = "PENDING"
	DonationStatusPaid    DonationStatus = "PAID"
	DonationStatusFailed  DonationStatus = "FAILED"
)

type Donation struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	OrganizationID uint64         `gorm:"not null;index" json:"organization_id"`
	CampaignID     *uint64        `json:"campaign_id"`
	DonorUserID    *uint64        `json:"donor_user_id"`
	Amount         float64        `gorm:"not null" json:"amount"`
	Currency       string         `gorm:"type:varchar(3);not null;default:'ils'" json:"currency"`
	DonorName      string         `gorm:"type:varchar(200);not null" json:"donor_name"`
	DonorEmail     string         `gorm:"type:varchar(255)" json:"donor_email"`
	Status         DonationStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	ReceiptRef     string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"receipt_ref"`

	StripePaymentIntentID string `gorm:"type:varchar(255)" json:"stripe_payment_intent_id"`
	StripePaymentStatus   string `gorm:"type:varchar(50)" json:"stripe_payment_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Organization User              `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Campaign     *DonationCampaign `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"`
	DonorUser    *User             `gorm:"foreignKey:DonorUserID" json:"donor_user,omitempty"`
}
