package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"socialevents/internal/delivery/http/helpers"
	"socialevents/internal/domain"
)

const (
	msgMissingFields   = "Missing required fields."
	msgInvalidDate     = "eventDate must be RFC3339 or YYYY-MM-DD."
	msgNoFieldsToApply = "No fields to update."
)

// CreateEventRequest is the request body for POST /api/events. Server-managed
// fields (_id, participants, createdAt, updatedAt) are ignored if sent.
type CreateEventRequest struct {
	EventName      string `json:"eventName"`
	OrganizerEmail string `json:"organizerEmail"`
	Category       string `json:"category"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	Image          string `json:"image"`
	EventDate      string `json:"eventDate"`

	eventDate *time.Time
}

// Validate implements helpers.Validator and parses eventDate.
func (c *CreateEventRequest) Validate() []string {
	if strings.TrimSpace(c.EventName) == "" || strings.TrimSpace(c.OrganizerEmail) == "" {
		return []string{msgMissingFields}
	}
	if strings.TrimSpace(c.EventDate) != "" {
		t, ok := parseEventDate(c.EventDate)
		if !ok {
			return []string{msgInvalidDate}
		}
		c.eventDate = t
	}
	return nil
}

// CreateEventResponse is the 201 body for POST /api/events.
type CreateEventResponse struct {
	Success    bool   `json:"success"`
	InsertedID string `json:"insertedId"`
	Message    string `json:"message"`
}

// EventListResponse wraps a list of events.
type EventListResponse struct {
	Success bool            `json:"success"`
	Events  []*domain.Event `json:"events"`
}

// EventResponse wraps a single event.
type EventResponse struct {
	Success bool          `json:"success"`
	Event   *domain.Event `json:"event"`
}

// UpdateEventRequest is the request body for PUT /api/events/{id}. organizerEmail
// identifies the caller; every other field is optional and omitted fields are unchanged.
type UpdateEventRequest struct {
	OrganizerEmail string  `json:"organizerEmail"`
	EventName      *string `json:"eventName"`
	Category       *string `json:"category"`
	Location       *string `json:"location"`
	Description    *string `json:"description"`
	Image          *string `json:"image"`
	EventDate      *string `json:"eventDate"`

	update domain.EventUpdate
}

// Validate implements helpers.Validator and builds the domain update.
func (u *UpdateEventRequest) Validate() []string {
	if strings.TrimSpace(u.OrganizerEmail) == "" {
		return []string{msgMissingFields}
	}
	u.update = domain.EventUpdate{
		EventName:   u.EventName,
		Category:    u.Category,
		Location:    u.Location,
		Description: u.Description,
		Image:       u.Image,
	}
	if u.EventDate != nil {
		t, ok := parseEventDate(*u.EventDate)
		if !ok {
			return []string{msgInvalidDate}
		}
		u.update.EventDate = t
	}
	if u.update.IsEmpty() {
		return []string{msgNoFieldsToApply}
	}
	return nil
}

// UpdateEventResponse is the 200 body for PUT /api/events/{id}.
type UpdateEventResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ModifiedCount int64  `json:"modifiedCount"`
}

// DeleteEventResponse is the 200 body for DELETE /api/events/{id}.
type DeleteEventResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
	// Now is the clock used for the upcoming cutoff and timestamps.
	Now func() time.Time
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
		Now:     time.Now,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event owned by organizerEmail. participants starts at 0; _id and timestamps are server-generated.
// @Tags events
// @Accept json
// @Produce json
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.CreateEventResponse
// @Failure 400 {object} helpers.APIResponse "missing required fields or malformed body"
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	now := c.Now()
	event := domain.NewEvent(req.EventName, req.OrganizerEmail, req.eventDate, now, now)
	event.Category = req.Category
	event.Location = req.Location
	event.Description = req.Description
	event.Image = req.Image
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		writeServiceError(c.Logger, w, r, err, "Failed to create event.")
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, CreateEventResponse{
		Success:    true,
		InsertedID: event.ID,
		Message:    "Event created successfully.",
	})
}

// ListUpcomingEvents godoc
// @Summary List upcoming events
// @Description Events whose eventDate is at or after the current time, soonest first.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.EventListResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/upcoming [get]
func (c *EventController) ListUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListUpcomingEvents(r.Context(), c.Now())
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "Failed to fetch upcoming events.")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, EventListResponse{Success: true, Events: events})
}

// ListEvents godoc
// @Summary List upcoming events (bare array)
// @Description Same result as /api/events/upcoming without the envelope, for older clients.
// @Tags events
// @Produce json
// @Success 200 {array} domain.Event
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListUpcomingEvents(r.Context(), c.Now())
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "Failed to fetch events.")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, events)
}

// GetEventByID godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventResponse
// @Failure 400 {object} helpers.APIResponse "malformed id"
// @Failure 404 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/{id} [get]
func (c *EventController) GetEventByID(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetEventByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "Failed to fetch event.")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, EventResponse{Success: true, Event: event})
}

// ListEventsByOrganizer godoc
// @Summary List events created by an organizer
// @Description Newest first. Unknown organizers yield an empty list.
// @Tags events
// @Produce json
// @Param email path string true "Organizer email"
// @Success 200 {object} controllers.EventListResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/organizer/{email} [get]
func (c *EventController) ListEventsByOrganizer(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListEventsByOrganizer(r.Context(), r.PathValue("email"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "Failed to fetch organizer events.")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, EventListResponse{Success: true, Events: events})
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Applies the supplied fields when organizerEmail owns the event. participants and organizerEmail cannot be changed.
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID (UUID)"
// @Param event body UpdateEventRequest true "Fields to change plus organizerEmail"
// @Success 200 {object} controllers.UpdateEventResponse
// @Failure 400 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "not the organizer, or no such event"
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/{id} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	modified, err := c.Service.UpdateEvent(r.Context(), r.PathValue("id"), req.OrganizerEmail, req.update)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "Failed to update event.")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, UpdateEventResponse{
		Success:       true,
		Message:       "Event updated successfully.",
		ModifiedCount: modified,
	})
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event and every join record for it when organizerEmail owns the event.
// @Tags events
// @Produce json
// @Param id path string true "Event ID (UUID)"
// @Param organizerEmail query string true "Organizer email"
// @Success 200 {object} controllers.DeleteEventResponse
// @Failure 400 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "not the organizer, or no such event"
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/{id} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	organizerEmail := strings.TrimSpace(r.URL.Query().Get("organizerEmail"))
	if organizerEmail == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, msgMissingFields)
		return
	}
	deleted, err := c.Service.DeleteEvent(r.Context(), r.PathValue("id"), organizerEmail)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "Failed to delete event.")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, DeleteEventResponse{
		Success:      true,
		Message:      "Event deleted successfully.",
		DeletedCount: deleted,
	})
}
