package domain

import (
	"context"
	"time"
)

// JoinRecord records that a user has joined an event.
// swagger:model JoinRecord
type JoinRecord struct {
	ID        string    `json:"_id"`
	EventID   string    `json:"eventId"`
	UserEmail string    `json:"userEmail"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// NewJoinRecord creates a new JoinRecord. ID is typically set by the repository on create.
func NewJoinRecord(eventID, userEmail string, joinedAt time.Time) *JoinRecord {
	return &JoinRecord{
		EventID:   eventID,
		UserEmail: userEmail,
		JoinedAt:  joinedAt,
	}
}

// JoinRepository defines storage operations for join records.
type JoinRepository interface {
	// Create inserts the record. Returns ErrAlreadyJoined if the (event, user) pair exists.
	Create(ctx context.Context, rec *JoinRecord) error
	ListByUserEmail(ctx context.Context, userEmail string) ([]*JoinRecord, error)
	// DeleteByEventID removes every record for the event. Zero matches is not an error.
	DeleteByEventID(ctx context.Context, eventID string) (int64, error)
}

// ParticipationService defines user-facing participation operations.
type ParticipationService interface {
	JoinEvent(ctx context.Context, eventID, userEmail string) (*JoinRecord, error)
	ListJoinRecords(ctx context.Context, userEmail string) ([]*JoinRecord, error)
	// ListJoinedEvents returns the events the user joined, ordered by event date ascending.
	ListJoinedEvents(ctx context.Context, userEmail string) ([]*Event, error)
}
