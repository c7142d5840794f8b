package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"socialevents/internal/domain"
)

// memStore is an in-memory backend for both repositories. WithinTx serializes
// transactions and restores the previous state when fn fails.
type memStore struct {
	txMu   sync.Mutex
	mu     sync.Mutex
	events map[string]*domain.Event
	joins  []*domain.JoinRecord

	err error // if set, every repository call returns it
}

func newMemStore() *memStore {
	return &memStore{events: make(map[string]*domain.Event)}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	events := make(map[string]*domain.Event, len(m.events))
	for k, v := range m.events {
		cp := *v
		events[k] = &cp
	}
	joins := append([]*domain.JoinRecord(nil), m.joins...)
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.events = events
		m.joins = joins
		m.mu.Unlock()
		return err
	}
	return nil
}

type memEventRepo struct{ *memStore }

type memJoinRepo struct{ *memStore }

func (r memEventRepo) Create(ctx context.Context, e *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	e.ID = uuid.NewString()
	cp := *e
	r.events[e.ID] = &cp
	return nil
}

func (r memEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r memEventRepo) filter(keep func(e *domain.Event) bool) []*domain.Event {
	out := make([]*domain.Event, 0)
	for _, e := range r.events {
		if keep(e) {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out
}

func (r memEventRepo) ListUpcoming(ctx context.Context, now time.Time) ([]*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := r.filter(func(e *domain.Event) bool { return e.EventDate != nil && !e.EventDate.Before(now) })
	sort.Slice(out, func(i, j int) bool { return out[i].EventDate.Before(*out[j].EventDate) })
	return out, nil
}

func (r memEventRepo) ListByOrganizer(ctx context.Context, organizerEmail string) ([]*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := r.filter(func(e *domain.Event) bool { return e.OrganizerEmail == organizerEmail })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memEventRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := r.filter(func(e *domain.Event) bool { return want[e.ID] })
	sort.Slice(out, func(i, j int) bool {
		if out[i].EventDate == nil || out[j].EventDate == nil {
			return out[j].EventDate == nil && out[i].EventDate != nil
		}
		return out[i].EventDate.Before(*out[j].EventDate)
	})
	return out, nil
}

func (r memEventRepo) UpdateOwned(ctx context.Context, id, organizerEmail string, upd domain.EventUpdate) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	e, ok := r.events[id]
	if !ok || e.OrganizerEmail != organizerEmail {
		return 0, nil
	}
	if upd.EventName != nil {
		e.EventName = *upd.EventName
	}
	if upd.Category != nil {
		e.Category = *upd.Category
	}
	if upd.Location != nil {
		e.Location = *upd.Location
	}
	if upd.Description != nil {
		e.Description = *upd.Description
	}
	if upd.Image != nil {
		e.Image = *upd.Image
	}
	if upd.EventDate != nil {
		d := *upd.EventDate
		e.EventDate = &d
	}
	e.UpdatedAt = time.Now()
	return 1, nil
}

func (r memEventRepo) DeleteOwned(ctx context.Context, id, organizerEmail string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	e, ok := r.events[id]
	if !ok || e.OrganizerEmail != organizerEmail {
		return 0, nil
	}
	delete(r.events, id)
	return 1, nil
}

func (r memEventRepo) IncrementParticipants(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	e, ok := r.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.Participants++
	return nil
}

func (r memJoinRepo) Create(ctx context.Context, rec *domain.JoinRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, j := range r.joins {
		if j.EventID == rec.EventID && j.UserEmail == rec.UserEmail {
			return domain.ErrAlreadyJoined
		}
	}
	rec.ID = uuid.NewString()
	cp := *rec
	r.joins = append(r.joins, &cp)
	return nil
}

func (r memJoinRepo) ListByUserEmail(ctx context.Context, userEmail string) ([]*domain.JoinRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.JoinRecord, 0)
	for _, j := range r.joins {
		if j.UserEmail == userEmail {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memJoinRepo) DeleteByEventID(ctx context.Context, eventID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	kept := r.joins[:0:0]
	var n int64
	for _, j := range r.joins {
		if j.EventID == eventID {
			n++
			continue
		}
		kept = append(kept, j)
	}
	r.joins = kept
	return n, nil
}

// recordingPublisher captures published routing keys.
type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return p.err
}

// recordingEmailService captures join confirmations.
type recordingEmailService struct {
	sent []*domain.JoinConfirmationEmailData
	err  error
}

func (e *recordingEmailService) SendJoinConfirmation(ctx context.Context, data *domain.JoinConfirmationEmailData) error {
	e.sent = append(e.sent, data)
	return e.err
}

// recordingMailer implements domain.Mailer for email service tests.
type recordingMailer struct {
	to, subject, html, text string
	err                     error
}

func (m *recordingMailer) Send(to, subject, html, text string) error {
	m.to, m.subject, m.html, m.text = to, subject, html, text
	return m.err
}

type stubRenderer struct {
	lastTemplate string
	err          error
}

func (r *stubRenderer) Render(templateName string, data any) (string, string, string, error) {
	r.lastTemplate = templateName
	if r.err != nil {
		return "", "", "", r.err
	}
	return "subject", "<p>html</p>", "text", nil
}

const testTimeout = 5 * time.Second

type fixture struct {
	store     *memStore
	events    domain.EventService
	joins     domain.ParticipationService
	publisher *recordingPublisher
	emails    *recordingEmailService
}

func newFixture() *fixture {
	store := newMemStore()
	pub := &recordingPublisher{}
	mail := &recordingEmailService{}
	return &fixture{
		store:     store,
		events:    NewEventService(memEventRepo{store}, memJoinRepo{store}, store, pub, testTimeout),
		joins:     NewParticipationService(memEventRepo{store}, memJoinRepo{store}, store, mail, pub, testTimeout),
		publisher: pub,
		emails:    mail,
	}
}
