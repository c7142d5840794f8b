package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"socialevents/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	joinRepo       domain.JoinRepository
	tx             domain.Transactor
	publisher      domain.Publisher
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	joinRepo domain.JoinRepository,
	tx domain.Transactor,
	publisher domain.Publisher,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		joinRepo:       joinRepo,
		tx:             tx,
		publisher:      publisher,
		contextTimeout: timeout,
	}
}

// validateID rejects ids that are not UUIDs before they reach storage.
func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: event id is required", domain.ErrInvalidInput)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid event id", domain.ErrInvalidInput)
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event.EventName = strings.TrimSpace(event.EventName)
	event.OrganizerEmail = strings.TrimSpace(event.OrganizerEmail)
	if event.EventName == "" || event.OrganizerEmail == "" {
		return fmt.Errorf("%w: eventName and organizerEmail are required", domain.ErrInvalidInput)
	}

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	event.Participants = 0

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	s.publish(ctx, domain.RoutingEventCreated, event)
	return nil
}

func (s *eventService) ListUpcomingEvents(ctx context.Context, now time.Time) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListUpcoming(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	return events, nil
}

func (s *eventService) GetEventByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateID(id); err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEventsByOrganizer(ctx context.Context, organizerEmail string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	organizerEmail = strings.TrimSpace(organizerEmail)
	if organizerEmail == "" {
		return nil, fmt.Errorf("%w: organizer email is required", domain.ErrInvalidInput)
	}
	events, err := s.eventRepo.ListByOrganizer(ctx, organizerEmail)
	if err != nil {
		return nil, fmt.Errorf("list events by organizer: %w", err)
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id, organizerEmail string, upd domain.EventUpdate) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateID(id); err != nil {
		return 0, err
	}
	organizerEmail = strings.TrimSpace(organizerEmail)
	if organizerEmail == "" {
		return 0, fmt.Errorf("%w: organizerEmail is required", domain.ErrInvalidInput)
	}
	if upd.EventName != nil {
		name := strings.TrimSpace(*upd.EventName)
		if name == "" {
			return 0, fmt.Errorf("%w: eventName cannot be empty", domain.ErrInvalidInput)
		}
		upd.EventName = &name
	}

	modified, err := s.eventRepo.UpdateOwned(ctx, id, organizerEmail, upd)
	if err != nil {
		return 0, fmt.Errorf("update event: %w", err)
	}
	// Missing event and foreign organizer are reported the same way.
	if modified == 0 {
		return 0, domain.ErrForbidden
	}
	s.publish(ctx, domain.RoutingEventUpdated, map[string]string{"eventId": id})
	return modified, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id, organizerEmail string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateID(id); err != nil {
		return 0, err
	}
	organizerEmail = strings.TrimSpace(organizerEmail)
	if organizerEmail == "" {
		return 0, fmt.Errorf("%w: organizerEmail is required", domain.ErrInvalidInput)
	}

	var deleted, cascaded int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		n, err := s.eventRepo.DeleteOwned(ctx, id, organizerEmail)
		if err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		if n == 0 {
			return domain.ErrForbidden
		}
		deleted = n
		cascaded, err = s.joinRepo.DeleteByEventID(ctx, id)
		if err != nil {
			return fmt.Errorf("delete join records: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.publish(ctx, domain.RoutingEventDeleted, map[string]any{"eventId": id, "joinRecordsDeleted": cascaded})
	return deleted, nil
}

// publish is best effort: the request has already succeeded in storage.
func (s *eventService) publish(ctx context.Context, routingKey string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, routingKey, payload); err != nil {
		slog.WarnContext(ctx, "publish failed", "routing_key", routingKey, "err", err)
	}
}
