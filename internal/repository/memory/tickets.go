package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/kirinyoku/eventhub/internal/repository"
)

type TicketRepo struct {
	s    *Store
	inTx bool
}

var _ repository.TicketRepository = (*TicketRepo)(nil)

func (r *TicketRepo) Get(ctx context.Context, eventID, userID uuid.UUID) (*domain.Ticket, error) {
	const op = "memory.TicketRepo.Get"

	defer r.s.lock(r.inTx)()

	t, ok := r.s.ticket(eventID, userID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	return &t, nil
}

func (r *TicketRepo) Increment(ctx context.Context, eventID, userID uuid.UUID) (*domain.Ticket, error) {
	const op = "memory.TicketRepo.Increment"

	defer r.s.lock(r.inTx)()

	if _, ok := r.s.data.events[eventID]; !ok {
		return nil, fmt.Errorf("%s: event: %w", op, repository.ErrNotFound)
	}
	if _, ok := r.s.data.users[userID]; !ok {
		return nil, fmt.Errorf("%s: user: %w", op, repository.ErrNotFound)
	}

	now := r.s.now()

	t, ok := r.s.ticket(eventID, userID)
	if ok {
		t.Quantity++
		t.UpdatedAt = now
	} else {
		t = domain.Ticket{
			ID:        uuid.New(),
			EventID:   eventID,
			UserID:    userID,
			Quantity:  1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		r.s.data.ticketByPair[ticketKey{eventID: eventID, userID: userID}] = t.ID
		r.s.data.eventTickets[eventID] = append(r.s.data.eventTickets[eventID], t.ID)
	}

	r.s.data.tickets[t.ID] = t

	return &t, nil
}

func (r *TicketRepo) Decrement(ctx context.Context, eventID, userID uuid.UUID) (*domain.Ticket, error) {
	const op = "memory.TicketRepo.Decrement"

	defer r.s.lock(r.inTx)()

	t, ok := r.s.ticket(eventID, userID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	if t.Quantity <= 0 {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNothingToCancel)
	}

	t.Quantity--
	t.UpdatedAt = r.s.now()
	r.s.data.tickets[t.ID] = t

	return &t, nil
}

func (r *TicketRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.TicketWithEvent, error) {
	defer r.s.lock(r.inTx)()

	out := []domain.TicketWithEvent{}
	for _, t := range r.s.data.tickets {
		if t.UserID != userID || t.Quantity <= 0 {
			continue
		}
		e, ok := r.s.data.events[t.EventID]
		if !ok {
			continue
		}
		out = append(out, domain.TicketWithEvent{
			Ticket: t,
			Event:  r.s.eventView(e),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Event.Date.Equal(out[j].Event.Date) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].Event.Date.Before(out[j].Event.Date)
	})

	return out, nil
}

func (r *TicketRepo) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Ticket, error) {
	defer r.s.lock(r.inTx)()

	out := []domain.Ticket{}
	for _, tid := range r.s.data.eventTickets[eventID] {
		if t, ok := r.s.data.tickets[tid]; ok {
			out = append(out, t)
		}
	}

	return out, nil
}

func (r *TicketRepo) DeleteByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	defer r.s.lock(r.inTx)()

	return r.s.deleteTicketsOf(eventID), nil
}

func (r *TicketRepo) SumQuantity(ctx context.Context, eventID uuid.UUID) (int, error) {
	defer r.s.lock(r.inTx)()

	sum := 0
	for _, tid := range r.s.data.eventTickets[eventID] {
		sum += r.s.data.tickets[tid].Quantity
	}

	return sum, nil
}

// ticket looks a ticket up by its (event, user) pair. Caller holds the lock.
func (s *Store) ticket(eventID, userID uuid.UUID) (domain.Ticket, bool) {
	id, ok := s.data.ticketByPair[ticketKey{eventID: eventID, userID: userID}]
	if !ok {
		return domain.Ticket{}, false
	}
	t, ok := s.data.tickets[id]
	return t, ok
}
