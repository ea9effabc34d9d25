package repository

import (
	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/utils"
)

// UserRepository defines the interface for identity and profile data access
type UserRepository interface {
	// CreateVolunteer creates the user and volunteer profile within a
	// single transaction.
	CreateVolunteer(user *models.User, profile *models.VolunteerProfile) error

	// CreateOrganization creates the user and organization profile within
	// a single transaction.
	CreateOrganization(user *models.User, profile *models.OrganizationProfile) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by (lowercased) email
	FindByEmail(email string) (*models.User, error)

	// VolunteerProfileByUserID returns the volunteer profile for a user
	VolunteerProfileByUserID(userID uint64) (*models.VolunteerProfile, error)

	// SaveVolunteerProfile persists profile changes
	SaveVolunteerProfile(profile *models.VolunteerProfile) error

	// OrganizationProfileByUserID returns the org profile for a user
	OrganizationProfileByUserID(userID uint64) (*models.OrganizationProfile, error)

	// OrganizationProfileByID returns an org profile by its own ID
	OrganizationProfileByID(id uint64) (*models.OrganizationProfile, error)

	// SaveOrganizationProfile persists profile changes
	SaveOrganizationProfile(profile *models.OrganizationProfile) error

	// ListOrganizationProfiles returns the public directory, ordered by name
	ListOrganizationProfiles() ([]models.OrganizationProfile, error)
}

// EventOrder selects the sort applied to event listings.
type EventOrder int

const (
	EventOrderCreatedDesc EventOrder = iota
	EventOrderDateAsc
	EventOrderDateDesc
)

// EventFilter holds filtering options for listing events
type EventFilter struct {
	// OrganizationID limits results to one owner.
	OrganizationID *uint64
	// SignedUpVolunteerID limits results to events the volunteer joined.
	SignedUpVolunteerID *uint64
	// DateFrom keeps events with date >= the given ISO date.
	DateFrom *string
	// DateBefore keeps events with date < the given ISO date.
	DateBefore *string
	Order      EventOrder
}

// EventRepository defines the interface for event and signup data access
type EventRepository interface {
	Create(event *models.Event) error
	FindByID(id uint64, preload ...string) (*models.Event, error)
	List(filter EventFilter) ([]models.Event, error)
	Update(event *models.Event) error
	// Delete removes the event and its signups in one transaction.
	Delete(id uint64) error

	// CreateSignup inserts the signup, relying on the (event, volunteer)
	// unique constraint. Returns false when the pair already exists.
	CreateSignup(signup *models.EventSignup) (bool, error)

	FindSignup(eventID, volunteerID uint64) (*models.EventSignup, error)
	FindSignupByID(id, eventID uint64) (*models.EventSignup, error)
	DeleteSignup(eventID, volunteerID uint64) error
	SaveSignup(signup *models.EventSignup) error

	// ListSignups returns an event's roster ordered by signup time.
	ListSignups(eventID uint64) ([]models.EventSignup, error)

	// RatedAggregate returns the mean aggregate rating and the count of
	// rated signups for a volunteer.
	RatedAggregate(volunteerID uint64) (float64, int64, error)

	// CountPastSignups counts a volunteer's signups to events dated
	// before the given ISO date.
	CountPastSignups(volunteerID uint64, before string) (int64, error)
}

// CampaignFilter holds filtering options for listing campaigns
type CampaignFilter struct {
	OrganizationID *uint64
	ActiveOnly     bool
}

// DonationFilter holds filtering options for listing donations
type DonationFilter struct {
	OrganizationID *uint64
	DonorUserID    *uint64
}

// DonationRepository defines the interface for campaign and donation data access
type DonationRepository interface {
	CreateCampaign(campaign *models.DonationCampaign) error
	FindCampaignByID(id uint64) (*models.DonationCampaign, error)
	SaveCampaign(campaign *models.DonationCampaign) error
	DeleteCampaign(id uint64) error
	ListCampaigns(filter CampaignFilter) ([]models.DonationCampaign, error)

	CreateDonation(donation *models.Donation) error
	FindDonationByID(id uint64, preload ...string) (*models.Donation, error)
	SaveDonation(donation *models.Donation) error

	// ListDonations returns one page of donations matching the filter,
	// newest first, along with the total row count.
	ListDonations(filter DonationFilter, page utils.PaginationParams) ([]models.Donation, int64, error)
}
