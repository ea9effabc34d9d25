package models

import "time"

// EventSignup joins one volunteer to one event. The (event, volunteer)
// pair is unique at the storage layer; signup creation relies on that
// constraint rather than check-then-insert.
//
// The rating columns are set together by the owning organization after
// the event date has passed: either all three sub-scores are null, or
// all three are set and Rating holds their mean.
type EventSignup struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	EventID     uint64    `gorm:"not null;uniqueIndex:idx_event_volunteer" json:"event_id"`
	VolunteerID uint64    `gorm:"not null;uniqueIndex:idx_event_volunteer" json:"volunteer_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Free-text metadata the organization may attach while rating.
	Role     string `gorm:"type:varchar(100)" json:"role"`
	Hours    string `gorm:"type:varchar(50)" json:"hours"`
	TaskDesc string `gorm:"type:text" json:"task_desc"`
	Notes    string `gorm:"type:text" json:"notes"`

	RatingReliability *int       `json:"rating_reliability"`
	RatingExecution   *int       `json:"rating_execution"`
	RatingTeamwork    *int       `json:"rating_teamwork"`
	Rating            *float64   `json:"rating"`
	RatedAt           *time.Time `json:"rated_at"`
	RatedByID         *uint64    `json:"rated_by"`

	// Relations
	Event     Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Volunteer User  `gorm:"foreignKey:VolunteerID" json:"volunteer,omitempty"`
}

// Rated reports whether the signup carries a rating.
func (s *EventSignup) Rated() bool {
	return s.RatedAt != nil
}
