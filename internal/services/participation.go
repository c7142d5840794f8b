package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"socialevents/internal/domain"
)

type participationService struct {
	eventRepo      domain.EventRepository
	joinRepo       domain.JoinRepository
	tx             domain.Transactor
	emailService   domain.EmailService
	publisher      domain.Publisher
	contextTimeout time.Duration
}

// NewParticipationService creates a ParticipationService with the given repositories.
// emailService and publisher may be nil.
func NewParticipationService(
	eventRepo domain.EventRepository,
	joinRepo domain.JoinRepository,
	tx domain.Transactor,
	emailService domain.EmailService,
	publisher domain.Publisher,
	timeout time.Duration,
) domain.ParticipationService {
	return &participationService{
		eventRepo:      eventRepo,
		joinRepo:       joinRepo,
		tx:             tx,
		emailService:   emailService,
		publisher:      publisher,
		contextTimeout: timeout,
	}
}

// JoinEvent inserts the join record and bumps the participant count in one
// transaction. The unique index on (event_id, user_email) rejects duplicates,
// including concurrent ones, so no pre-insert lookup is done.
func (s *participationService) JoinEvent(ctx context.Context, eventID, userEmail string) (*domain.JoinRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	eventID = strings.TrimSpace(eventID)
	userEmail = strings.TrimSpace(userEmail)
	if eventID == "" || userEmail == "" {
		return nil, fmt.Errorf("%w: eventId and userEmail are required", domain.ErrInvalidInput)
	}
	if err := validateID(eventID); err != nil {
		return nil, err
	}

	rec := domain.NewJoinRecord(eventID, userEmail, time.Now())
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.joinRepo.Create(ctx, rec); err != nil {
			if errors.Is(err, domain.ErrAlreadyJoined) {
				return domain.ErrAlreadyJoined
			}
			return fmt.Errorf("create join record: %w", err)
		}
		if err := s.eventRepo.IncrementParticipants(ctx, eventID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("increment participants: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, domain.RoutingEventJoined, rec); err != nil {
			slog.WarnContext(ctx, "publish failed", "routing_key", domain.RoutingEventJoined, "err", err)
		}
	}
	s.sendConfirmation(ctx, rec)
	return rec, nil
}

// sendConfirmation emails the user; failures are logged and never fail the join.
func (s *participationService) sendConfirmation(ctx context.Context, rec *domain.JoinRecord) {
	if s.emailService == nil {
		return
	}
	event, err := s.eventRepo.GetByID(ctx, rec.EventID)
	if err != nil {
		slog.WarnContext(ctx, "join confirmation skipped", "event_id", rec.EventID, "err", err)
		return
	}
	data := &domain.JoinConfirmationEmailData{
		Email:     rec.UserEmail,
		EventName: event.EventName,
		Location:  event.Location,
		EventDate: event.EventDate,
	}
	if err := s.emailService.SendJoinConfirmation(ctx, data); err != nil {
		slog.WarnContext(ctx, "join confirmation failed", "event_id", rec.EventID, "err", err)
	}
}

func (s *participationService) ListJoinRecords(ctx context.Context, userEmail string) ([]*domain.JoinRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	userEmail = strings.TrimSpace(userEmail)
	if userEmail == "" {
		return nil, fmt.Errorf("%w: user email is required", domain.ErrInvalidInput)
	}
	recs, err := s.joinRepo.ListByUserEmail(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("list join records: %w", err)
	}
	if recs == nil {
		recs = []*domain.JoinRecord{}
	}
	return recs, nil
}

func (s *participationService) ListJoinedEvents(ctx context.Context, userEmail string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	recs, err := s.joinRepo.ListByUserEmail(ctx, strings.TrimSpace(userEmail))
	if err != nil {
		return nil, fmt.Errorf("list join records: %w", err)
	}
	if len(recs) == 0 {
		return []*domain.Event{}, nil
	}

	seen := make(map[string]struct{}, len(recs))
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		if _, ok := seen[rec.EventID]; ok {
			continue
		}
		seen[rec.EventID] = struct{}{}
		ids = append(ids, rec.EventID)
	}

	// Records whose event is gone simply match nothing here.
	events, err := s.eventRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list joined events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}
