// Package ledger answers who holds tickets for what.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/kirinyoku/eventhub/internal/repository"
)

var ErrEventNotFound = errors.New("event not found")

type Service struct {
	store repository.Store
	clock func() time.Time
}

func New(store repository.Store, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{store: store, clock: clock}
}

// ListForUser returns the user's outstanding tickets joined with their events.
// IsCreator is set on tickets for events the user created.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.TicketWithEvent, error) {
	const op = "service.ledger.ListForUser"

	list, err := s.store.Repos().Tickets.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clock()
	for i := range list {
		list[i].IsCreator = list[i].Event.CreatorID == userID
		list[i].Event.Status = domain.Categorize(list[i].Event.Date, now)
	}

	return list, nil
}

// ListForEvent returns every ticket of the event, zero-quantity ones included.
// An unknown or deleted event has no tickets.
func (s *Service) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Ticket, error) {
	const op = "service.ledger.ListForEvent"

	list, err := s.store.Repos().Tickets.ListForEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return list, nil
}

// Outstanding reports the sold count and the sum of ticket quantities of an
// event. The two are equal unless the store was written around this service.
func (s *Service) Outstanding(ctx context.Context, eventID uuid.UUID) (sold, held int, err error) {
	const op = "service.ledger.Outstanding"

	repos := s.store.Repos()

	e, err := repos.Events.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, 0, fmt.Errorf("%s: %w", op, ErrEventNotFound)
		}
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}

	held, err = repos.Tickets.SumQuantity(ctx, eventID)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}

	return e.TicketsSold, held, nil
}
