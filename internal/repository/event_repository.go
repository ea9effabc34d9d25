package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/volunteerhub/volunteer-hub-api/internal/models"
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// Create creates a new event
func (r *GormEventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

// FindByID finds an event by ID with optional preloading
func (r *GormEventRepository) FindByID(id uint64, preload ...string) (*models.Event, error) {
	var event models.Event
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// List retrieves events matching the filter
func (r *GormEventRepository) List(filter EventFilter) ([]models.Event, error) {
	query := r.db.Model(&models.Event{})

	if filter.OrganizationID != nil {
		query = query.Where("events.organization_id = ?", *filter.OrganizationID)
	}
	if filter.SignedUpVolunteerID != nil {
		signupSubQuery := r.db.Model(&models.EventSignup{}).
			Select("1").
			Where("event_signups.event_id = events.id").
			Where("event_signups.volunteer_id = ?", *filter.SignedUpVolunteerID)
		query = query.Where("EXISTS (?)", signupSubQuery)
	}
	if filter.DateFrom != nil {
		query = query.Where("events.date >= ?", *filter.DateFrom)
	}
	if filter.DateBefore != nil {
		query = query.Where("events.date < ?", *filter.DateBefore)
	}

	switch filter.Order {
	case EventOrderDateAsc:
		query = query.Order("events.date ASC, events.time ASC")
	case EventOrderDateDesc:
		query = query.Order("events.date DESC, events.time DESC")
	default:
		query = query.Order("events.created_at DESC")
	}

	var events []models.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// Update updates an event
func (r *GormEventRepository) Update(event *models.Event) error {
	return r.db.Save(event).Error
}

// Delete removes an event and its signups in a transaction
func (r *GormEventRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.EventSignup{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, id).Error
	})
}

// CreateSignup inserts the signup. The unique (event, volunteer) index
// makes this atomic under concurrent requests: a duplicate insert
// affects zero rows instead of erroring or double-inserting.
func (r *GormEventRepository) CreateSignup(signup *models.EventSignup) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "volunteer_id"}},
		DoNothing: true,
	}).Create(signup)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindSignup finds a signup by event and volunteer
func (r *GormEventRepository) FindSignup(eventID, volunteerID uint64) (*models.EventSignup, error) {
	var signup models.EventSignup
	if err := r.db.Where("event_id = ? AND volunteer_id = ?", eventID, volunteerID).
		First(&signup).Error; err != nil {
		return nil, err
	}
	return &signup, nil
}

// FindSignupByID finds a signup by ID, scoped to one event
func (r *GormEventRepository) FindSignupByID(id, eventID uint64) (*models.EventSignup, error) {
	var signup models.EventSignup
	if err := r.db.Where("id = ? AND event_id = ?", id, eventID).
		First(&signup).Error; err != nil {
		return nil, err
	}
	return &signup, nil
}

// DeleteSignup removes a signup
func (r *GormEventRepository) DeleteSignup(eventID, volunteerID uint64) error {
	return r.db.Where("event_id = ? AND volunteer_id = ?", eventID, volunteerID).
		Delete(&models.EventSignup{}).Error
}

// SaveSignup persists signup changes
func (r *GormEventRepository) SaveSignup(signup *models.EventSignup) error {
	return r.db.Save(signup).Error
}

// ListSignups returns an event's roster ordered by signup time
func (r *GormEventRepository) ListSignups(eventID uint64) ([]models.EventSignup, error) {
	var signups []models.EventSignup
	if err := r.db.Preload("Volunteer").
		Where("event_id = ?", eventID).
		Order("created_at").
		Find(&signups).Error; err != nil {
		return nil, err
	}
	return signups, nil
}

// RatedAggregate returns the mean rating and count across a volunteer's
// rated signups
func (r *GormEventRepository) RatedAggregate(volunteerID uint64) (float64, int64, error) {
	var row struct {
		Avg   *float64
		Count int64
	}
	err := r.db.Model(&models.EventSignup{}).
		Select("AVG(rating) AS avg, COUNT(*) AS count").
		Where("volunteer_id = ? AND rating IS NOT NULL", volunteerID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	if row.Avg == nil {
		return 0, 0, nil
	}
	return *row.Avg, row.Count, nil
}

// CountPastSignups counts signups to events dated before the given day
func (r *GormEventRepository) CountPastSignups(volunteerID uint64, before string) (int64, error) {
	var count int64
	err := r.db.Model(&models.EventSignup{}).
		Joins("JOIN events ON events.id = event_signups.event_id").
		Where("event_signups.volunteer_id = ? AND events.date < ?", volunteerID, before).
		Count(&count).Error
	return count, err
}
