package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"socialevents/internal/domain"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

type joinRepository struct {
	DB *sql.DB
}

func NewJoinRepository(db *sql.DB) domain.JoinRepository {
	return &joinRepository{
		DB: db,
	}
}

func (r *joinRepository) Create(ctx context.Context, rec *domain.JoinRecord) error {
	query := `
		INSERT INTO joined_events (event_id, user_email, joined_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := conn(ctx, r.DB).QueryRowContext(ctx, query, rec.EventID, rec.UserEmail, rec.JoinedAt).Scan(&rec.ID)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) && perr.Code == uniqueViolation {
			return domain.ErrAlreadyJoined
		}
		return err
	}
	return nil
}

func (r *joinRepository) ListByUserEmail(ctx context.Context, userEmail string) ([]*domain.JoinRecord, error) {
	query := `
		SELECT id, event_id, user_email, joined_at
		FROM joined_events
		WHERE user_email = $1
		ORDER BY joined_at DESC
	`
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, userEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := make([]*domain.JoinRecord, 0)
	for rows.Next() {
		rec := &domain.JoinRecord{}
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.UserEmail, &rec.JoinedAt); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *joinRepository) DeleteByEventID(ctx context.Context, eventID string) (int64, error) {
	result, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM joined_events WHERE event_id = $1`, eventID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
