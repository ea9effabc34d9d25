package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/volunteerhub/volunteer-hub-api/internal/dto"
	apierrors "github.com/volunteerhub/volunteer-hub-api/internal/errors"
	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/services"
)

// EventHandler coordinates event, signup and rating HTTP handlers.
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// ListEvents returns events scoped to the caller's role, optionally
// split by the status query parameter (upcoming or history).
func (h *EventHandler) ListEvents(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != services.EventStatusUpcoming && status != services.EventStatusHistory {
		apierrors.BadRequest(c, "status must be 'upcoming' or 'history'")
		return
	}

	events, err := h.eventService.ListEvents(currentViewer(c), status)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTOs(events))
}

// GetEvent returns a single event by id.
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	event, err := h.eventService.GetEvent(id)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*event))
}

// CreateEvent creates an event owned by the calling organization.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	viewer := currentViewer(c)
	if viewer == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type request struct {
		Title            string `json:"title" binding:"required"`
		Description      string `json:"description"`
		Category         string `json:"category"`
		Location         string `json:"location"`
		Date             string `json:"date" binding:"required"`
		Time             string `json:"time" binding:"required"`
		NeededVolunteers int    `json:"needed_volunteers"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	event, err := h.eventService.CreateEvent(viewer.ID, services.CreateEventInput{
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Location:         req.Location,
		Date:             req.Date,
		Time:             req.Time,
		NeededVolunteers: req.NeededVolunteers,
	})
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEventDTO(*event))
}

// UpdateEvent applies a partial update to an owned event.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	viewer := currentViewer(c)
	if viewer == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	type request struct {
		Title            *string `json:"title"`
		Description      *string `json:"description"`
		Category         *string `json:"category"`
		Location         *string `json:"location"`
		Date             *string `json:"date"`
		Time             *string `json:"time"`
		NeededVolunteers *int    `json:"needed_volunteers"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	event, err := h.eventService.UpdateEvent(*viewer, id, services.UpdateEventInput{
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Location:         req.Location,
		Date:             req.Date,
		Time:             req.Time,
		NeededVolunteers: req.NeededVolunteers,
	})
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*event))
}

// DeleteEvent removes an owned event and its signups.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	viewer := currentViewer(c)
	if viewer == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.eventService.DeleteEvent(*viewer, id); err != nil {
		respondEventError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Signup enrolls the calling volunteer into an event.
func (h *EventHandler) Signup(c *gin.Context) {
	viewer := currentViewer(c)
	if viewer == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.eventService.Signup(id, viewer.ID); err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "signed_up"})
}

// CancelSignup withdraws the calling volunteer from an event. A signup
// that has already been rated cannot be cancelled.
func (h *EventHandler) CancelSignup(c *gin.Context) {
	viewer := currentViewer(c)
	if viewer == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.eventService.CancelSignup(id, viewer.ID); err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// ListSignups returns the roster for an owned event.
func (h *EventHandler) ListSignups(c *gin.Context) {
	viewer := currentViewer(c)
	if viewer == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	signups, err := h.eventService.ListSignups(*viewer, id)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSignupDTOs(signups))
}

// RateSignup records the three sub-scores for a signup after the event
// has finished, computes the aggregate rating and refreshes the
// volunteer's reliability score.
func (h *EventHandler) RateSignup(c *gin.Context) {
	viewer := currentViewer(c)
	if viewer == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	type request struct {
		SignupID          uint64  `json:"signup_id" binding:"required"`
		RatingReliability int     `json:"rating_reliability" binding:"required"`
		RatingExecution   int     `json:"rating_execution" binding:"required"`
		RatingTeamwork    int     `json:"rating_teamwork" binding:"required"`
		Role              *string `json:"role"`
		Hours             *string `json:"hours"`
		TaskDesc          *string `json:"task_desc"`
		Notes             *string `json:"notes"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	signup, err := h.eventService.RateSignup(*viewer, eventID, services.RateSignupInput{
		SignupID:    req.SignupID,
		Reliability: req.RatingReliability,
		Execution:   req.RatingExecution,
		Teamwork:    req.RatingTeamwork,
		Role:        req.Role,
		Hours:       req.Hours,
		TaskDesc:    req.TaskDesc,
		Notes:       req.Notes,
	})
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSignupDTO(*signup))
}

// GetDashboardStats returns the volunteer dashboard numbers.
func (h *EventHandler) GetDashboardStats(c *gin.Context) {
	viewer := currentViewer(c)
	if viewer == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	stats, err := h.eventService.GetDashboardStats(viewer.ID)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// CheckManageAccess reports whether the caller may manage events and
// campaigns.
func (h *EventHandler) CheckManageAccess(c *gin.Context) {
	viewer := currentViewer(c)
	canManage := viewer != nil &&
		(viewer.Role == models.RoleOrganization || viewer.Role == models.RoleAdmin)

	c.JSON(http.StatusOK, gin.H{"can_manage": canManage})
}

func respondEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, services.ErrSignupNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotEventOwner):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadySignedUp):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotSignedUp),
		errors.Is(err, services.ErrSignupRated),
		errors.Is(err, services.ErrEventNotFinished),
		errors.Is(err, services.ErrRatingOutOfRange),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidEventDate),
		errors.Is(err, services.ErrInvalidEventTime):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
