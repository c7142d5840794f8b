package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"socialevents/internal/domain"
)

const eventColumns = `id, event_name, organizer_email, category, location, description, image, event_date, participants, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var dateNull sql.NullTime
	if err := row.Scan(
		&e.ID, &e.EventName, &e.OrganizerEmail, &e.Category, &e.Location, &e.Description, &e.Image,
		&dateNull, &e.Participants, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if dateNull.Valid {
		e.EventDate = &dateNull.Time
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (event_name, organizer_email, category, location, description, image, event_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, participants
	`
	var date sql.NullTime
	if e.EventDate != nil {
		date = sql.NullTime{Time: *e.EventDate, Valid: true}
	}
	return conn(ctx, r.DB).QueryRowContext(ctx, query,
		e.EventName, e.OrganizerEmail, e.Category, e.Location, e.Description, e.Image,
		date, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID, &e.Participants)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(conn(ctx, r.DB).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListUpcoming(ctx context.Context, now time.Time) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE event_date >= $1
		ORDER BY event_date ASC
	`
	return r.list(ctx, query, now)
}

func (r *eventRepository) ListByOrganizer(ctx context.Context, organizerEmail string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE organizer_email = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, organizerEmail)
}

func (r *eventRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Event, error) {
	if len(ids) == 0 {
		return []*domain.Event{}, nil
	}
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE id = ANY($1::uuid[])
		ORDER BY event_date ASC NULLS LAST
	`
	return r.list(ctx, query, pq.Array(ids))
}

func (r *eventRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) UpdateOwned(ctx context.Context, id, organizerEmail string, upd domain.EventUpdate) (int64, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	set := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if upd.EventName != nil {
		set("event_name", *upd.EventName)
	}
	if upd.Category != nil {
		set("category", *upd.Category)
	}
	if upd.Location != nil {
		set("location", *upd.Location)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	if upd.Image != nil {
		set("image", *upd.Image)
	}
	if upd.EventDate != nil {
		set("event_date", *upd.EventDate)
	}
	args = append(args, id, organizerEmail)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d AND organizer_email = $%d
	`, strings.Join(setClauses, ", "), n, n+1)
	result, err := conn(ctx, r.DB).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *eventRepository) DeleteOwned(ctx context.Context, id, organizerEmail string) (int64, error) {
	query := `DELETE FROM events WHERE id = $1 AND organizer_email = $2`
	result, err := conn(ctx, r.DB).ExecContext(ctx, query, id, organizerEmail)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *eventRepository) IncrementParticipants(ctx context.Context, id string) error {
	query := `UPDATE events SET participants = participants + 1 WHERE id = $1`
	result, err := conn(ctx, r.DB).ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
