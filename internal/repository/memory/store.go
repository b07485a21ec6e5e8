// Package memory is an in-process implementation of the repository contracts. It
// keeps the same conditional-update semantics as the postgres store and is used
// for local runs without a database and by tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/kirinyoku/eventhub/internal/repository"
)

type ticketKey struct {
	eventID uuid.UUID
	userID  uuid.UUID
}

type state struct {
	events       map[uuid.UUID]domain.Event
	tickets      map[uuid.UUID]domain.Ticket
	ticketByPair map[ticketKey]uuid.UUID
	eventTickets map[uuid.UUID][]uuid.UUID
	users        map[uuid.UUID]domain.User
	userByEmail  map[string]uuid.UUID
}

func newState() state {
	return state{
		events:       map[uuid.UUID]domain.Event{},
		tickets:      map[uuid.UUID]domain.Ticket{},
		ticketByPair: map[ticketKey]uuid.UUID{},
		eventTickets: map[uuid.UUID][]uuid.UUID{},
		users:        map[uuid.UUID]domain.User{},
		userByEmail:  map[string]uuid.UUID{},
	}
}

func (s state) clone() state {
	cp := newState()
	for k, v := range s.events {
		cp.events[k] = v
	}
	for k, v := range s.tickets {
		cp.tickets[k] = v
	}
	for k, v := range s.ticketByPair {
		cp.ticketByPair[k] = v
	}
	for k, v := range s.eventTickets {
		cp.eventTickets[k] = append([]uuid.UUID(nil), v...)
	}
	for k, v := range s.users {
		cp.users[k] = v
	}
	for k, v := range s.userByEmail {
		cp.userByEmail[k] = v
	}
	return cp
}

type Store struct {
	mu   sync.Mutex
	data state
	now  func() time.Time
}

var _ repository.Store = (*Store)(nil)

type Option func(*Store)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		data: newState(),
		now:  time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Repos returns repositories that lock the store per call.
func (s *Store) Repos() repository.Repos {
	return s.repos(false)
}

// WithinTx holds the store lock for the whole of fn and restores the previous
// state when fn fails, which gives serializable transactions.
func (s *Store) WithinTx(
	ctx context.Context,
	fn func(ctx context.Context, tx repository.Repos) error,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()

	if err := fn(ctx, s.repos(true)); err != nil {
		s.data = snapshot
		return err
	}

	if err := ctx.Err(); err != nil {
		s.data = snapshot
		return err
	}

	return nil
}

func (s *Store) repos(inTx bool) repository.Repos {
	return repository.Repos{
		Events:  &EventRepo{s: s, inTx: inTx},
		Tickets: &TicketRepo{s: s, inTx: inTx},
		Users:   &UserRepo{s: s, inTx: inTx},
	}
}

// lock acquires the store mutex unless the caller already runs inside WithinTx.
func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// eventView returns a copy of the event with its ticket IDs attached.
func (s *Store) eventView(e domain.Event) domain.Event {
	e.TicketIDs = append([]uuid.UUID{}, s.data.eventTickets[e.ID]...)
	if e.Image != nil {
		img := *e.Image
		e.Image = &img
	}
	return e
}
