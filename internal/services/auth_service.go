package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/volunteerhub/volunteer-hub-api/internal/auth"
	"github.com/volunteerhub/volunteer-hub-api/internal/constants"
	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/repository"
)

var (
	ErrEmailRequired        = errors.New("email is required")
	ErrEmailTaken           = errors.New("email already exists")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrNotVolunteer         = errors.New("account is not a volunteer")
	ErrNotOrganization      = errors.New("account is not an organization")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
)

// Viewer is the explicit identity parameter services receive instead of
// reading ambient request state.
type Viewer struct {
	ID   uint64
	Role models.Role
}

// AuthService handles registration, login and token issuance.
type AuthService struct {
	userRepo repository.UserRepository
	issuer   *auth.TokenIssuer
	google   *auth.GoogleVerifier
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, issuer *auth.TokenIssuer, google *auth.GoogleVerifier) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		issuer:   issuer,
		google:   google,
	}
}

// RegisterVolunteerInput holds the volunteer registration fields.
type RegisterVolunteerInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
	City     string
}

// RegisterVolunteer creates a volunteer user with their profile.
func (s *AuthService) RegisterVolunteer(input RegisterVolunteerInput) (*models.User, *models.VolunteerProfile, error) {
	email, err := s.normalizeNewEmail(input.Email)
	if err != nil {
		return nil, nil, err
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleVolunteer,
	}
	profile := &models.VolunteerProfile{
		FullName: strings.TrimSpace(input.FullName),
		Phone:    input.Phone,
		City:     input.City,
	}

	if err := s.userRepo.CreateVolunteer(user, profile); err != nil {
		return nil, nil, ErrFailedToCreateUser
	}

	return user, profile, nil
}

// RegisterOrganizationInput holds the organization registration fields.
type RegisterOrganizationInput struct {
	Email       string
	Password    string
	OrgName     string
	Description string
	Phone       string
	Website     string
}

// RegisterOrganization creates an organization user with their profile.
func (s *AuthService) RegisterOrganization(input RegisterOrganizationInput) (*models.User, *models.OrganizationProfile, error) {
	email, err := s.normalizeNewEmail(input.Email)
	if err != nil {
		return nil, nil, err
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleOrganization,
	}
	profile := &models.OrganizationProfile{
		OrgName:     strings.TrimSpace(input.OrgName),
		Description: input.Description,
		Phone:       input.Phone,
		Website:     input.Website,
	}

	if err := s.userRepo.CreateOrganization(user, profile); err != nil {
		return nil, nil, ErrFailedToCreateUser
	}

	return user, profile, nil
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(email, password string) (*models.User, *auth.TokenPair, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issuer.IssuePair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new pair. The user is
// reloaded so revoked accounts and role changes take effect.
func (s *AuthService) Refresh(refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.issuer.Parse(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	pair, err := s.issuer.IssuePair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return pair, nil
}

// GoogleLogin verifies a Google ID token and signs the account in,
// creating a volunteer user on first login.
func (s *AuthService) GoogleLogin(ctx context.Context, credential string) (*models.User, *auth.TokenPair, error) {
	if s.google == nil {
		return nil, nil, auth.ErrGoogleNotConfigured
	}

	identity, err := s.google.Verify(ctx, credential)
	if err != nil {
		return nil, nil, err
	}

	email := strings.ToLower(identity.Email)
	user, err := s.userRepo.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Federated accounts never log in with a password; store an
		// unguessable hash so the column stays non-empty.
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, nil, ErrFailedToHashPassword
		}

		user = &models.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         models.RoleVolunteer,
		}
		profile := &models.VolunteerProfile{FullName: identity.Name}
		if createErr := s.userRepo.CreateVolunteer(user, profile); createErr != nil {
			return nil, nil, ErrFailedToCreateUser
		}
	} else if err != nil {
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	pair, err := s.issuer.IssuePair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return user, pair, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// GetVolunteerProfile returns the volunteer profile for a user.
func (s *AuthService) GetVolunteerProfile(userID uint64) (*models.VolunteerProfile, error) {
	profile, err := s.userRepo.VolunteerProfileByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return profile, nil
}

// UpdateVolunteerProfileInput carries the owner-writable profile fields.
// Points and reliability score are derived and deliberately absent.
type UpdateVolunteerProfileInput struct {
	FullName *string
	Phone    *string
	City     *string
}

// UpdateVolunteerProfile applies a partial update to the caller's profile.
func (s *AuthService) UpdateVolunteerProfile(userID uint64, input UpdateVolunteerProfileInput) (*models.VolunteerProfile, error) {
	profile, err := s.GetVolunteerProfile(userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		profile.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Phone != nil {
		profile.Phone = *input.Phone
	}
	if input.City != nil {
		profile.City = *input.City
	}

	if err := s.userRepo.SaveVolunteerProfile(profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

func (s *AuthService) normalizeNewEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrEmailRequired
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to check email: %w", err)
	}
	return email, nil
}
