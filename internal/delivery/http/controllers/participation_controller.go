package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"socialevents/internal/delivery/http/helpers"
	"socialevents/internal/domain"
)

// JoinEventRequest is the request body for POST /api/join-event.
type JoinEventRequest struct {
	EventID   string `json:"eventId"`
	UserEmail string `json:"userEmail"`
}

// Validate implements helpers.Validator.
func (j *JoinEventRequest) Validate() []string {
	if strings.TrimSpace(j.EventID) == "" || strings.TrimSpace(j.UserEmail) == "" {
		return []string{msgMissingFields}
	}
	return nil
}

// JoinEventResponse is the 201 body for POST /api/join-event.
type JoinEventResponse struct {
	Success    bool   `json:"success"`
	InsertedID string `json:"insertedId"`
	Message    string `json:"message"`
}

// JoinRecordsResponse wraps a user's join records.
type JoinRecordsResponse struct {
	Success bool                 `json:"success"`
	Records []*domain.JoinRecord `json:"records"`
}

type ParticipationController struct {
	Logger  *slog.Logger
	Service domain.ParticipationService
}

func NewParticipationController(logger *slog.Logger, svc domain.ParticipationService) *ParticipationController {
	return &ParticipationController{
		Logger:  logger,
		Service: svc,
	}
}

// JoinEvent godoc
// @Summary Join an event
// @Description Records that userEmail joined eventId and increments the event's participant count. A user can join an event once.
// @Tags participation
// @Accept json
// @Produce json
// @Param join body JoinEventRequest true "Event and user"
// @Success 201 {object} controllers.JoinEventResponse
// @Failure 400 {object} helpers.APIResponse "missing fields or malformed id"
// @Failure 404 {object} helpers.APIResponse "no such event"
// @Failure 409 {object} helpers.APIResponse "already joined"
// @Failure 500 {object} helpers.APIResponse
// @Router /api/join-event [post]
func (c *ParticipationController) JoinEvent(w http.ResponseWriter, r *http.Request) {
	var req JoinEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	rec, err := c.Service.JoinEvent(r.Context(), req.EventID, req.UserEmail)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "Failed to join event.")
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, JoinEventResponse{
		Success:    true,
		InsertedID: rec.ID,
		Message:    "Successfully joined the event.",
	})
}

// ListJoinedEvents godoc
// @Summary List events a user joined
// @Description Bare array of the user's joined events, soonest first. Empty when the user has joined nothing.
// @Tags participation
// @Produce json
// @Param email path string true "User email"
// @Success 200 {array} domain.Event
// @Failure 500 {object} helpers.APIResponse
// @Router /api/joined-events/{email} [get]
func (c *ParticipationController) ListJoinedEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListJoinedEvents(r.Context(), r.PathValue("email"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "Failed to fetch joined events.")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, events)
}

// ListJoinRecords godoc
// @Summary List a user's join records
// @Description Newest first.
// @Tags participation
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} controllers.JoinRecordsResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/join-records/{email} [get]
func (c *ParticipationController) ListJoinRecords(w http.ResponseWriter, r *http.Request) {
	records, err := c.Service.ListJoinRecords(r.Context(), r.PathValue("email"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "Failed to fetch join records.")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, JoinRecordsResponse{Success: true, Records: records})
}
