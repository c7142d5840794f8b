package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"socialevents/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const testEventID = "5f0c7a3e-2b1d-4c7e-9a8f-1e2d3c4b5a69"

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	err         error
	createdID   string
	events      []*domain.Event
	event       *domain.Event
	modified    int64
	deleted     int64
	lastCreate  *domain.Event
	lastNow     time.Time
	lastID      string
	lastEmail   string
	lastUpdate  domain.EventUpdate
	createCalls int
}

func (f *fakeEventService) CreateEvent(_ context.Context, event *domain.Event) error {
	f.createCalls++
	f.lastCreate = event
	if f.err != nil {
		return f.err
	}
	event.ID = f.createdID
	return nil
}

func (f *fakeEventService) ListUpcomingEvents(_ context.Context, now time.Time) ([]*domain.Event, error) {
	f.lastNow = now
	return f.events, f.err
}

func (f *fakeEventService) GetEventByID(_ context.Context, id string) (*domain.Event, error) {
	f.lastID = id
	return f.event, f.err
}

func (f *fakeEventService) ListEventsByOrganizer(_ context.Context, email string) ([]*domain.Event, error) {
	f.lastEmail = email
	return f.events, f.err
}

func (f *fakeEventService) UpdateEvent(_ context.Context, id, email string, upd domain.EventUpdate) (int64, error) {
	f.lastID, f.lastEmail, f.lastUpdate = id, email, upd
	return f.modified, f.err
}

func (f *fakeEventService) DeleteEvent(_ context.Context, id, email string) (int64, error) {
	f.lastID, f.lastEmail = id, email
	return f.deleted, f.err
}

func newTestEventController(svc *fakeEventService) *EventController {
	c := NewEventController(testLogger, svc)
	c.Now = func() time.Time { return fixedNow }
	return c
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body
}

func TestEventController_CreateEvent(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		svcErr      error
		wantStatus  int
		wantMessage string
		wantCalls   int
	}{
		{
			name:       "created",
			body:       `{"eventName":"Beach cleanup","organizerEmail":"org@example.com","category":"Cleanup","location":"Cox's Bazar","eventDate":"2026-05-01"}`,
			wantStatus: http.StatusCreated,
			wantCalls:  1,
		},
		{
			name:       "server fields ignored",
			body:       `{"eventName":"Tree planting","organizerEmail":"org@example.com","participants":99,"_id":"x"}`,
			wantStatus: http.StatusCreated,
			wantCalls:  1,
		},
		{
			name:        "missing name",
			body:        `{"organizerEmail":"org@example.com"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: msgMissingFields,
		},
		{
			name:        "blank organizer",
			body:        `{"eventName":"x","organizerEmail":"  "}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: msgMissingFields,
		},
		{
			name:        "bad date",
			body:        `{"eventName":"x","organizerEmail":"org@example.com","eventDate":"next friday"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: msgInvalidDate,
		},
		{
			name:        "empty body",
			body:        ``,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Request body is required.",
		},
		{
			name:        "malformed json",
			body:        `{"eventName":`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid JSON body.",
		},
		{
			name:        "storage failure",
			body:        `{"eventName":"x","organizerEmail":"org@example.com"}`,
			svcErr:      errors.New("connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Failed to create event.",
			wantCalls:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{err: tt.svcErr, createdID: testEventID}
			c := newTestEventController(svc)
			req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			c.CreateEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCalls, svc.createCalls)
			body := decodeBody(t, rr)
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, true, body["success"])
				assert.Equal(t, testEventID, body["insertedId"])
				assert.Equal(t, 0, svc.lastCreate.Participants)
				assert.Equal(t, fixedNow, svc.lastCreate.CreatedAt)
				return
			}
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMessage, body["message"])
		})
	}
}

func TestEventController_CreateEvent_ParsesDate(t *testing.T) {
	svc := &fakeEventService{createdID: testEventID}
	c := newTestEventController(svc)
	body := `{"eventName":"Meetup","organizerEmail":"org@example.com","eventDate":"2026-05-01T18:30:00Z","image":"https://img/x.png"}`
	rr := httptest.NewRecorder()

	c.CreateEvent(rr, httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, svc.lastCreate.EventDate)
	assert.True(t, svc.lastCreate.EventDate.Equal(time.Date(2026, 5, 1, 18, 30, 0, 0, time.UTC)))
	assert.Equal(t, "https://img/x.png", svc.lastCreate.Image)
}

func TestEventController_ListUpcomingEvents(t *testing.T) {
	date := fixedNow.Add(24 * time.Hour)
	svc := &fakeEventService{events: []*domain.Event{{ID: testEventID, EventName: "Run", EventDate: &date}}}
	c := newTestEventController(svc)
	rr := httptest.NewRecorder()

	c.ListUpcomingEvents(rr, httptest.NewRequest(http.MethodGet, "/api/events/upcoming", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, fixedNow, svc.lastNow)
	var resp EventListResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, testEventID, resp.Events[0].ID)
}

func TestEventController_ListUpcomingEvents_Error(t *testing.T) {
	c := newTestEventController(&fakeEventService{err: errors.New("boom")})
	rr := httptest.NewRecorder()

	c.ListUpcomingEvents(rr, httptest.NewRequest(http.MethodGet, "/api/events/upcoming", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "Failed to fetch upcoming events.", body["message"])
	assert.NotContains(t, rr.Body.String(), "boom")
}

func TestEventController_ListEvents_BareArray(t *testing.T) {
	svc := &fakeEventService{events: []*domain.Event{{ID: "a"}, {ID: "b"}}}
	c := newTestEventController(svc)
	rr := httptest.NewRecorder()

	c.ListEvents(rr, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var events []domain.Event
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&events))
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].ID)
}

func TestEventController_GetEventByID(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
	}{
		{"found", nil, http.StatusOK},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"malformed id", fmt.Errorf("%w: invalid event id", domain.ErrInvalidInput), http.StatusBadRequest},
		{"storage failure", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{err: tt.svcErr, event: &domain.Event{ID: testEventID, EventName: "Run"}}
			c := newTestEventController(svc)
			req := httptest.NewRequest(http.MethodGet, "/api/events/"+testEventID, nil)
			req.SetPathValue("id", testEventID)
			rr := httptest.NewRecorder()

			c.GetEventByID(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, testEventID, svc.lastID)
			body := decodeBody(t, rr)
			switch tt.wantStatus {
			case http.StatusOK:
				event := body["event"].(map[string]any)
				assert.Equal(t, testEventID, event["_id"])
			case http.StatusBadRequest:
				assert.Equal(t, "invalid event id", body["message"])
			case http.StatusNotFound:
				assert.Equal(t, msgEventNotFound, body["message"])
			}
		})
	}
}

func TestEventController_ListEventsByOrganizer(t *testing.T) {
	svc := &fakeEventService{events: []*domain.Event{}}
	c := newTestEventController(svc)
	req := httptest.NewRequest(http.MethodGet, "/api/events/organizer/org@example.com", nil)
	req.SetPathValue("email", "org@example.com")
	rr := httptest.NewRecorder()

	c.ListEventsByOrganizer(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "org@example.com", svc.lastEmail)
	assert.JSONEq(t, `{"success":true,"events":[]}`, rr.Body.String())
}

func TestEventController_UpdateEvent(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		svcErr      error
		modified    int64
		wantStatus  int
		wantMessage string
	}{
		{
			name:       "updated",
			body:       `{"organizerEmail":"org@example.com","location":"Dhaka","eventDate":"2026-06-01"}`,
			modified:   1,
			wantStatus: http.StatusOK,
		},
		{
			name:        "missing organizer",
			body:        `{"location":"Dhaka"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: msgMissingFields,
		},
		{
			name:        "nothing to update",
			body:        `{"organizerEmail":"org@example.com"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: msgNoFieldsToApply,
		},
		{
			name:        "not the organizer",
			body:        `{"organizerEmail":"other@example.com","location":"Dhaka"}`,
			svcErr:      domain.ErrForbidden,
			wantStatus:  http.StatusForbidden,
			wantMessage: msgForbidden,
		},
		{
			name:        "storage failure",
			body:        `{"organizerEmail":"org@example.com","location":"Dhaka"}`,
			svcErr:      errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Failed to update event.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{err: tt.svcErr, modified: tt.modified}
			c := newTestEventController(svc)
			req := httptest.NewRequest(http.MethodPut, "/api/events/"+testEventID, strings.NewReader(tt.body))
			req.SetPathValue("id", testEventID)
			rr := httptest.NewRecorder()

			c.UpdateEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			body := decodeBody(t, rr)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, tt.wantMessage, body["message"])
				return
			}
			assert.Equal(t, float64(1), body["modifiedCount"])
			assert.Equal(t, testEventID, svc.lastID)
			require.NotNil(t, svc.lastUpdate.Location)
			assert.Equal(t, "Dhaka", *svc.lastUpdate.Location)
			require.NotNil(t, svc.lastUpdate.EventDate)
			assert.Nil(t, svc.lastUpdate.EventName)
		})
	}
}

func TestEventController_DeleteEvent(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		svcErr     error
		wantStatus int
	}{
		{"deleted", "?organizerEmail=org@example.com", nil, http.StatusOK},
		{"missing organizer", "", nil, http.StatusBadRequest},
		{"not the organizer", "?organizerEmail=other@example.com", domain.ErrForbidden, http.StatusForbidden},
		{"storage failure", "?organizerEmail=org@example.com", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{err: tt.svcErr, deleted: 1}
			c := newTestEventController(svc)
			req := httptest.NewRequest(http.MethodDelete, "/api/events/"+testEventID+tt.query, nil)
			req.SetPathValue("id", testEventID)
			rr := httptest.NewRecorder()

			c.DeleteEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"success":true,"message":"Event deleted successfully.","deletedCount":1}`, rr.Body.String())
				assert.Equal(t, "org@example.com", svc.lastEmail)
			}
		})
	}
}

func TestParseEventDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2026-05-01T18:30:00Z", time.Date(2026, 5, 1, 18, 30, 0, 0, time.UTC), true},
		{"2026-05-01T18:30", time.Date(2026, 5, 1, 18, 30, 0, 0, time.UTC), true},
		{" 2026-05-01 ", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"05/01/2026", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseEventDate(tt.in)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, got.Equal(tt.want))
			}
		})
	}
}
