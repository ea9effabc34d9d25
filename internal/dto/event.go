package dto

import (
	"time"

	"github.com/volunteerhub/volunteer-hub-api/internal/models"
)

// EventDTO is the wire representation of an event.
type EventDTO struct {
	ID               uint64    `json:"id"`
	OrganizationID   uint64    `json:"organization_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	Location         string    `json:"location"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	NeededVolunteers int       `json:"needed_volunteers"`
	CreatedAt        time.Time `json:"created_at"`
}

// SignupDTO is a roster row: the volunteer plus any rating on record.
type SignupDTO struct {
	ID          uint64    `json:"id"`
	EventID     uint64    `json:"event_id"`
	VolunteerID uint64    `json:"volunteer_id"`
	Volunteer   *UserDTO  `json:"volunteer,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	Role     string `json:"role"`
	Hours    string `json:"hours"`
	TaskDesc string `json:"task_desc"`
	Notes    string `json:"notes"`

	RatingReliability *int       `json:"rating_reliability"`
	RatingExecution   *int       `json:"rating_execution"`
	RatingTeamwork    *int       `json:"rating_teamwork"`
	Rating            *float64   `json:"rating"`
	RatedAt           *time.Time `json:"rated_at"`
	RatedBy           *uint64    `json:"rated_by"`
}

// ToEventDTO converts an event.
func ToEventDTO(event models.Event) EventDTO {
	return EventDTO{
		ID:               event.ID,
		OrganizationID:   event.OrganizationID,
		Title:            event.Title,
		Description:      event.Description,
		Category:         event.Category,
		Location:         event.Location,
		Date:             event.Date,
		Time:             event.Time,
		NeededVolunteers: event.NeededVolunteers,
		CreatedAt:        event.CreatedAt,
	}
}

// ToEventDTOs converts an event listing.
func ToEventDTOs(events []models.Event) []EventDTO {
	dtos := make([]EventDTO, len(events))
	for i, e := range events {
		dtos[i] = ToEventDTO(e)
	}
	return dtos
}

// ToSignupDTO converts a signup row.
func ToSignupDTO(signup models.EventSignup) SignupDTO {
	d := SignupDTO{
		ID:                signup.ID,
		EventID:           signup.EventID,
		VolunteerID:       signup.VolunteerID,
		CreatedAt:         signup.CreatedAt,
		Role:              signup.Role,
		Hours:             signup.Hours,
		TaskDesc:          signup.TaskDesc,
		Notes:             signup.Notes,
		RatingReliability: signup.RatingReliability,
		RatingExecution:   signup.RatingExecution,
		RatingTeamwork:    signup.RatingTeamwork,
		Rating:            signup.Rating,
		RatedAt:           signup.RatedAt,
		RatedBy:           signup.RatedByID,
	}
	if signup.Volunteer.ID != 0 {
		v := ToUserDTO(signup.Volunteer)
		d.Volunteer = &v
	}
	return d
}

// ToSignupDTOs converts a roster.
func ToSignupDTOs(signups []models.EventSignup) []SignupDTO {
	dtos := make([]SignupDTO, len(signups))
	for i, s := range signups {
		dtos[i] = ToSignupDTO(s)
	}
	return dtos
}
