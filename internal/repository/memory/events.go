package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/kirinyoku/eventhub/internal/repository"
)

type EventRepo struct {
	s    *Store
	inTx bool
}

var _ repository.EventRepository = (*EventRepo)(nil)

func (r *EventRepo) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	const op = "memory.EventRepo.Create"

	defer r.s.lock(r.inTx)()

	if _, ok := r.s.data.users[e.CreatorID]; !ok {
		return nil, fmt.Errorf("%s: creator: %w", op, repository.ErrNotFound)
	}

	stored := *e
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if _, exists := r.s.data.events[stored.ID]; exists {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrConflict)
	}

	now := r.s.now()
	stored.TicketsSold = 0
	stored.Version = 1
	stored.TicketIDs = nil
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.s.data.events[stored.ID] = stored

	out := r.s.eventView(stored)
	return &out, nil
}

func (r *EventRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	const op = "memory.EventRepo.Get"

	defer r.s.lock(r.inTx)()

	e, ok := r.s.data.events[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	out := r.s.eventView(e)
	return &out, nil
}

func (r *EventRepo) List(ctx context.Context, f repository.EventFilter) ([]domain.Event, error) {
	defer r.s.lock(r.inTx)()

	out := []domain.Event{}
	for _, e := range r.s.data.events {
		if f.From != nil && e.Date.Before(*f.From) {
			continue
		}
		if f.Before != nil && !e.Date.Before(*f.Before) {
			continue
		}
		out = append(out, r.s.eventView(e))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].Date.Before(out[j].Date)
	})

	return out, nil
}

func (r *EventRepo) Update(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	const op = "memory.EventRepo.Update"

	defer r.s.lock(r.inTx)()

	cur, ok := r.s.data.events[e.ID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	if cur.Version != e.Version {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrVersionConflict)
	}
	if e.MaxAttendees <= 0 || cur.TicketsSold > e.MaxAttendees {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrConflict)
	}

	cur.Title = e.Title
	cur.Description = e.Description
	cur.Date = e.Date
	cur.Location = e.Location
	cur.MaxAttendees = e.MaxAttendees
	cur.Image = e.Image
	cur.Status = e.Status
	cur.Version++
	cur.UpdatedAt = r.s.now()

	r.s.data.events[cur.ID] = cur

	out := r.s.eventView(cur)
	return &out, nil
}

func (r *EventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "memory.EventRepo.Delete"

	defer r.s.lock(r.inTx)()

	if _, ok := r.s.data.events[id]; !ok {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	delete(r.s.data.events, id)
	// Mirror ON DELETE CASCADE.
	r.s.deleteTicketsOf(id)

	return nil
}

func (r *EventRepo) IncrementSold(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	const op = "memory.EventRepo.IncrementSold"

	defer r.s.lock(r.inTx)()

	e, ok := r.s.data.events[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	if e.TicketsSold >= e.MaxAttendees {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrCapacityExceeded)
	}

	e.TicketsSold++
	e.Version++
	e.UpdatedAt = r.s.now()
	r.s.data.events[id] = e

	out := r.s.eventView(e)
	return &out, nil
}

func (r *EventRepo) DecrementSold(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	const op = "memory.EventRepo.DecrementSold"

	defer r.s.lock(r.inTx)()

	e, ok := r.s.data.events[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	if e.TicketsSold <= 0 {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNothingToCancel)
	}

	e.TicketsSold--
	e.Version++
	e.UpdatedAt = r.s.now()
	r.s.data.events[id] = e

	out := r.s.eventView(e)
	return &out, nil
}

func (r *EventRepo) RefreshStatuses(ctx context.Context, now time.Time) (int64, error) {
	defer r.s.lock(r.inTx)()

	var changed int64
	for id, e := range r.s.data.events {
		status := domain.Categorize(e.Date, now)
		if e.Status == status {
			continue
		}
		e.Status = status
		e.UpdatedAt = r.s.now()
		r.s.data.events[id] = e
		changed++
	}

	return changed, nil
}

// deleteTicketsOf drops every ticket of an event. Caller holds the lock.
func (s *Store) deleteTicketsOf(eventID uuid.UUID) int64 {
	var n int64
	for _, tid := range s.data.eventTickets[eventID] {
		t, ok := s.data.tickets[tid]
		if !ok {
			continue
		}
		delete(s.data.ticketByPair, ticketKey{eventID: t.EventID, userID: t.UserID})
		delete(s.data.tickets, tid)
		n++
	}
	delete(s.data.eventTickets, eventID)
	return n
}
