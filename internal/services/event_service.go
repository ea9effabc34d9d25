package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/volunteerhub/volunteer-hub-api/internal/constants"
	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/repository"
	"github.com/volunteerhub/volunteer-hub-api/internal/utils"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrNotEventOwner    = errors.New("only the owning organization can perform this action")
	ErrEventNotFinished = errors.New("you can rate only after the event ends")
	ErrTitleRequired    = errors.New("title is required")
	ErrInvalidEventDate = errors.New("invalid event date")
	ErrInvalidEventTime = errors.New("invalid event time")
	ErrSignupNotFound   = errors.New("signup not found")
	ErrAlreadySignedUp  = errors.New("already signed up")
	ErrNotSignedUp      = errors.New("not signed up")
	ErrSignupRated      = errors.New("cannot cancel a signup that has been rated")
	ErrRatingOutOfRange = errors.New("rating scores must be between 1 and 5")
)

// Event listing status filters.
const (
	EventStatusUpcoming = "upcoming"
	EventStatusHistory  = "history"
)

// EventService handles event lifecycle, signups and ratings.
type EventService struct {
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
}

// NewEventService creates a new EventService.
func NewEventService(eventRepo repository.EventRepository, userRepo repository.UserRepository) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
	}
}

func today() string {
	return time.Now().Format(constants.DateLayout)
}

// ListEvents applies role-scoped visibility before any other filter.
// Anonymous and volunteer callers without a status filter see all
// events; organizations see only their own; admins see everything. The
// status parameter splits by date against the caller's local date:
// upcoming is date >= today ascending, history is date < today
// descending. For volunteers a status filter additionally narrows to
// events they signed up to.
func (s *EventService) ListEvents(viewer *Viewer, status string) ([]models.Event, error) {
	filter := repository.EventFilter{}
	day := today()

	applyStatus := func() {
		switch status {
		case EventStatusUpcoming:
			filter.DateFrom = &day
			filter.Order = repository.EventOrderDateAsc
		case EventStatusHistory:
			filter.DateBefore = &day
			filter.Order = repository.EventOrderDateDesc
		}
	}

	switch {
	case viewer == nil:
		// anonymous: everything, default order

	case viewer.Role == models.RoleOrganization:
		filter.OrganizationID = &viewer.ID
		applyStatus()

	case viewer.Role == models.RoleAdmin:
		applyStatus()

	default:
		// volunteer: a status filter narrows to joined events
		if status == EventStatusUpcoming || status == EventStatusHistory {
			filter.SignedUpVolunteerID = &viewer.ID
			applyStatus()
		}
	}

	events, err := s.eventRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// GetEvent returns a single event.
func (s *EventService) GetEvent(id uint64) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

// CreateEventInput holds the fields for a new event.
type CreateEventInput struct {
	Title            string
	Description      string
	Category         string
	Location         string
	Date             string
	Time             string
	NeededVolunteers int
}

// CreateEvent creates an event owned by the calling organization.
func (s *EventService) CreateEvent(ownerID uint64, input CreateEventInput) (*models.Event, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if _, err := time.Parse(constants.DateLayout, input.Date); err != nil {
		return nil, ErrInvalidEventDate
	}
	if _, err := time.Parse(constants.TimeLayout, input.Time); err != nil {
		return nil, ErrInvalidEventTime
	}
	if input.NeededVolunteers <= 0 {
		input.NeededVolunteers = 1
	}

	event := &models.Event{
		OrganizationID:   ownerID,
		Title:            input.Title,
		Description:      input.Description,
		Category:         input.Category,
		Location:         input.Location,
		Date:             input.Date,
		Time:             input.Time,
		NeededVolunteers: input.NeededVolunteers,
	}

	if err := s.eventRepo.Create(event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

// UpdateEventInput holds a partial event update.
type UpdateEventInput struct {
	Title            *string
	Description      *string
	Category         *string
	Location         *string
	Date             *string
	Time             *string
	NeededVolunteers *int
}

// UpdateEvent applies a partial update. Only the owner may mutate; a
// cross-tenant attempt reports not-found rather than forbidden.
func (s *EventService) UpdateEvent(viewer Viewer, eventID uint64, input UpdateEventInput) (*models.Event, error) {
	event, err := s.ownedEvent(viewer, eventID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleRequired
		}
		event.Title = *input.Title
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Category != nil {
		event.Category = *input.Category
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.Date != nil {
		if _, err := time.Parse(constants.DateLayout, *input.Date); err != nil {
			return nil, ErrInvalidEventDate
		}
		event.Date = *input.Date
	}
	if input.Time != nil {
		if _, err := time.Parse(constants.TimeLayout, *input.Time); err != nil {
			return nil, ErrInvalidEventTime
		}
		event.Time = *input.Time
	}
	if input.NeededVolunteers != nil && *input.NeededVolunteers > 0 {
		event.NeededVolunteers = *input.NeededVolunteers
	}

	if err := s.eventRepo.Update(event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

// DeleteEvent removes an event and its signups. Owner only.
func (s *EventService) DeleteEvent(viewer Viewer, eventID uint64) error {
	if _, err := s.ownedEvent(viewer, eventID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// Signup registers a volunteer for an event. The storage-layer unique
// constraint resolves concurrent duplicates.
func (s *EventService) Signup(eventID, volunteerID uint64) error {
	if _, err := s.GetEvent(eventID); err != nil {
		return err
	}

	created, err := s.eventRepo.CreateSignup(&models.EventSignup{
		EventID:     eventID,
		VolunteerID: volunteerID,
	})
	if err != nil {
		return fmt.Errorf("failed to sign up: %w", err)
	}
	if !created {
		return ErrAlreadySignedUp
	}
	return nil
}

// CancelSignup removes a volunteer's signup. A rated signup is
// historical data feeding the reliability score and cannot be canceled.
func (s *EventService) CancelSignup(eventID, volunteerID uint64) error {
	if _, err := s.GetEvent(eventID); err != nil {
		return err
	}

	signup, err := s.eventRepo.FindSignup(eventID, volunteerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotSignedUp
		}
		return fmt.Errorf("failed to find signup: %w", err)
	}
	if signup.Rated() {
		return ErrSignupRated
	}

	if err := s.eventRepo.DeleteSignup(eventID, volunteerID); err != nil {
		return fmt.Errorf("failed to cancel signup: %w", err)
	}
	return nil
}

// ListSignups returns an event's roster to its owning organization.
func (s *EventService) ListSignups(viewer Viewer, eventID uint64) ([]models.EventSignup, error) {
	event, err := s.GetEvent(eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizationID != viewer.ID {
		return nil, ErrNotEventOwner
	}

	signups, err := s.eventRepo.ListSignups(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list signups: %w", err)
	}
	return signups, nil
}

// RateSignupInput carries the three sub-scores and optional metadata.
type RateSignupInput struct {
	SignupID    uint64
	Reliability int
	Execution   int
	Teamwork    int
	Role        *string
	Hours       *string
	TaskDesc    *string
	Notes       *string
}

func validScore(v int) bool {
	return v >= constants.MinRatingScore && v <= constants.MaxRatingScore
}

// RateSignup records or overwrites a signup's rating. Only the owning
// organization may rate, and only after the event date has passed. The
// aggregate is the mean of the three sub-scores rounded to two
// decimals; the volunteer's reliability score is recomputed in the same
// call.
func (s *EventService) RateSignup(viewer Viewer, eventID uint64, input RateSignupInput) (*models.EventSignup, error) {
	event, err := s.GetEvent(eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizationID != viewer.ID {
		return nil, ErrNotEventOwner
	}
	if event.Date >= today() {
		return nil, ErrEventNotFinished
	}
	if !validScore(input.Reliability) || !validScore(input.Execution) || !validScore(input.Teamwork) {
		return nil, ErrRatingOutOfRange
	}

	signup, err := s.eventRepo.FindSignupByID(input.SignupID, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSignupNotFound
		}
		return nil, fmt.Errorf("failed to find signup: %w", err)
	}

	rating := utils.Round2(float64(input.Reliability+input.Execution+input.Teamwork) / 3)
	now := time.Now()

	signup.RatingReliability = &input.Reliability
	signup.RatingExecution = &input.Execution
	signup.RatingTeamwork = &input.Teamwork
	signup.Rating = &rating
	signup.RatedAt = &now
	signup.RatedByID = &viewer.ID

	if input.Role != nil {
		signup.Role = *input.Role
	}
	if input.Hours != nil {
		signup.Hours = *input.Hours
	}
	if input.TaskDesc != nil {
		signup.TaskDesc = *input.TaskDesc
	}
	if input.Notes != nil {
		signup.Notes = *input.Notes
	}

	if err := s.eventRepo.SaveSignup(signup); err != nil {
		return nil, fmt.Errorf("failed to save rating: %w", err)
	}

	if _, _, err := s.RecomputeReliability(signup.VolunteerID); err != nil {
		return nil, err
	}

	return signup, nil
}

// DashboardStats is the volunteer dashboard payload.
type DashboardStats struct {
	ReliabilityScore float64 `json:"reliability_score"`
	RatingsCount     int64   `json:"ratings_count"`
	ActivitiesCount  int64   `json:"activities_count"`
	HoursTotal       int64   `json:"hours_total"`
}

// GetDashboardStats recomputes and returns a volunteer's stats. The
// reliability score is persisted onto the profile as a side effect.
func (s *EventService) GetDashboardStats(volunteerID uint64) (*DashboardStats, error) {
	activities, err := s.eventRepo.CountPastSignups(volunteerID, today())
	if err != nil {
		return nil, fmt.Errorf("failed to count activities: %w", err)
	}

	score, ratings, err := s.RecomputeReliability(volunteerID)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		ReliabilityScore: score,
		RatingsCount:     ratings,
		ActivitiesCount:  activities,
		HoursTotal:       0,
	}, nil
}

// RecomputeReliability derives the volunteer's reliability score as the
// mean of their rated signups' aggregate ratings, rounded to two
// decimals, or 0 when nothing is rated, and persists it onto the
// profile.
func (s *EventService) RecomputeReliability(volunteerID uint64) (float64, int64, error) {
	avg, count, err := s.eventRepo.RatedAggregate(volunteerID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	score := 0.0
	if count > 0 {
		score = utils.Round2(avg)
	}

	profile, err := s.userRepo.VolunteerProfileByUserID(volunteerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Accounts without a profile (nothing to persist onto) still
			// get a computed score.
			return score, count, nil
		}
		return 0, 0, fmt.Errorf("failed to load profile: %w", err)
	}

	profile.ReliabilityScore = score
	if err := s.userRepo.SaveVolunteerProfile(profile); err != nil {
		return 0, 0, fmt.Errorf("failed to persist reliability score: %w", err)
	}

	return score, count, nil
}

func (s *EventService) ownedEvent(viewer Viewer, eventID uint64) (*models.Event, error) {
	event, err := s.GetEvent(eventID)
	if err != nil {
		return nil, err
	}
	// Report not-found on cross-tenant mutation to avoid leaking
	// another organization's event IDs.
	if event.OrganizationID != viewer.ID {
		return nil, ErrEventNotFound
	}
	return event, nil
}
