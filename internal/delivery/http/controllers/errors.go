package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"socialevents/internal/delivery/http/helpers"
	"socialevents/internal/domain"
)

// Client-facing messages.
const (
	msgEventNotFound = "Event not found."
	msgForbidden     = "No matching event found for this organizer."
	msgAlreadyJoined = "You have already joined this event."
)

// writeServiceError maps domain errors to status codes. Anything unrecognized
// is logged and reported as 500 with the generic fallback message.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, clientMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, msgEventNotFound)
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, msgForbidden)
	case errors.Is(err, domain.ErrAlreadyJoined):
		helpers.WriteJSONError(w, http.StatusConflict, msgAlreadyJoined)
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, fallback)
	}
}

// clientMessage strips the sentinel prefix from validation errors.
func clientMessage(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, domain.ErrInvalidInput.Error()+": "); ok {
		return rest
	}
	return msg
}

var eventDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// parseEventDate accepts RFC3339, a datetime-local value, or a plain date (UTC).
func parseEventDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true
		}
	}
	return nil, false
}
