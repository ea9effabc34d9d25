package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/volunteerhub/volunteer-hub-api/internal/models"
)

var (
	// ErrCreateUser is returned when creating a user fails inside a registration transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateProfile is returned when creating a profile fails inside a registration transaction.
	ErrCreateProfile = errors.New("user repository: create profile failed")
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// CreateVolunteer creates a volunteer user and profile in one transaction
func (r *GormUserRepository) CreateVolunteer(user *models.User, profile *models.VolunteerProfile) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return errors.Join(ErrCreateUser, err)
		}
		profile.UserID = user.ID
		if err := tx.Create(profile).Error; err != nil {
			return errors.Join(ErrCreateProfile, err)
		}
		return nil
	})
}

// CreateOrganization creates an org user and profile in one transaction
func (r *GormUserRepository) CreateOrganization(user *models.User, profile *models.OrganizationProfile) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return errors.Join(ErrCreateUser, err)
		}
		profile.UserID = user.ID
		if err := tx.Create(profile).Error; err != nil {
			return errors.Join(ErrCreateProfile, err)
		}
		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// VolunteerProfileByUserID returns the volunteer profile for a user
func (r *GormUserRepository) VolunteerProfileByUserID(userID uint64) (*models.VolunteerProfile, error) {
	var profile models.VolunteerProfile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// SaveVolunteerProfile persists profile changes
func (r *GormUserRepository) SaveVolunteerProfile(profile *models.VolunteerProfile) error {
	return r.db.Save(profile).Error
}

// OrganizationProfileByUserID returns the org profile for a user
func (r *GormUserRepository) OrganizationProfileByUserID(userID uint64) (*models.OrganizationProfile, error) {
	var profile models.OrganizationProfile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// OrganizationProfileByID returns an org profile by its own ID
func (r *GormUserRepository) OrganizationProfileByID(id uint64) (*models.OrganizationProfile, error) {
	var profile models.OrganizationProfile
	if err := r.db.First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// SaveOrganizationProfile persists profile changes
func (r *GormUserRepository) SaveOrganizationProfile(profile *models.OrganizationProfile) error {
	return r.db.Save(profile).Error
}

// ListOrganizationProfiles returns all org profiles ordered by name
func (r *GormUserRepository) ListOrganizationProfiles() ([]models.OrganizationProfile, error) {
	var profiles []models.OrganizationProfile
	if err := r.db.Order("org_name").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
