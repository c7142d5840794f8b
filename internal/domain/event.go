package domain

import (
	"context"
	"time"
)

// Event represents an organizer-published event that users can join.
// swagger:model Event
type Event struct {
	ID             string     `json:"_id"`
	EventName      string     `json:"eventName"`
	OrganizerEmail string     `json:"organizerEmail"`
	Category       string     `json:"category"`
	Location       string     `json:"location"`
	Description    string     `json:"description"`
	Image          string     `json:"image"`
	EventDate      *time.Time `json:"eventDate,omitempty"`
	Participants   int        `json:"participants"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(name, organizerEmail string, eventDate *time.Time, createdAt, updatedAt time.Time) *Event {
	return &Event{
		EventName:      name,
		OrganizerEmail: organizerEmail,
		EventDate:      eventDate,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}
}

// EventUpdate holds the mutable event fields. Nil fields are left unchanged.
type EventUpdate struct {
	EventName   *string
	Category    *string
	Location    *string
	Description *string
	Image       *string
	EventDate   *time.Time
}

// IsEmpty reports whether no field is set.
func (u EventUpdate) IsEmpty() bool {
	return u.EventName == nil && u.Category == nil && u.Location == nil &&
		u.Description == nil && u.Image == nil && u.EventDate == nil
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]*Event, error)
	ListByOrganizer(ctx context.Context, organizerEmail string) ([]*Event, error)
	// ListByIDs returns the events with the given ids ordered by event date ascending.
	// Unknown ids are skipped.
	ListByIDs(ctx context.Context, ids []string) ([]*Event, error)
	// UpdateOwned applies upd to the event matching both id and organizerEmail and
	// returns the number of rows modified (0 when nothing matched).
	UpdateOwned(ctx context.Context, id, organizerEmail string, upd EventUpdate) (int64, error)
	// DeleteOwned removes the event matching both id and organizerEmail and
	// returns the number of rows deleted (0 when nothing matched).
	DeleteOwned(ctx context.Context, id, organizerEmail string) (int64, error)
	IncrementParticipants(ctx context.Context, id string) error
}

// EventService defines the organizer- and browse-facing event operations.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	ListUpcomingEvents(ctx context.Context, now time.Time) ([]*Event, error)
	GetEventByID(ctx context.Context, id string) (*Event, error)
	ListEventsByOrganizer(ctx context.Context, organizerEmail string) ([]*Event, error)
	// UpdateEvent returns ErrForbidden when no event matches both id and organizerEmail.
	UpdateEvent(ctx context.Context, id, organizerEmail string, upd EventUpdate) (modified int64, err error)
	// DeleteEvent removes the event and all of its join records. Returns ErrForbidden
	// when no event matches both id and organizerEmail.
	DeleteEvent(ctx context.Context, id, organizerEmail string) (deleted int64, err error)
}
