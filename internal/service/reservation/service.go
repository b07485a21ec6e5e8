// Package reservation keeps an event's sold count and its tickets in step.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/kirinyoku/eventhub/internal/repository"
	redisrepo "github.com/kirinyoku/eventhub/internal/repository/redis"
	"github.com/kirinyoku/eventhub/internal/uow"
)

type Publisher interface {
	PublishEventChanged(ctx context.Context, kind domain.ChangeKind, eventID uuid.UUID) error
}

type Config struct {
	Clock func() time.Time
}

type Service struct {
	store   repository.Store
	cache   *redisrepo.Cache
	pubsub  Publisher
	limiter *redisrepo.SlidingWindowLimiter
	uow     *uow.UoW
	log     *slog.Logger
	cfg     Config
}

// New builds the service. cache, pubsub and limiter may be nil.
func New(
	store repository.Store,
	cache *redisrepo.Cache,
	pubsub Publisher,
	limiter *redisrepo.SlidingWindowLimiter,
	log *slog.Logger,
	cfg Config,
) *Service {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		store:   store,
		cache:   cache,
		pubsub:  pubsub,
		limiter: limiter,
		uow:     uow.NewUoW(store),
		log:     log,
		cfg:     cfg,
	}
}

// Reserve sells one ticket of eventID to userID.
//
// Parameters:
//   - ctx: request-scoped context.
//   - eventID: event to reserve.
//   - userID: buyer.
//
// Returns:
//   - *domain.Event: the event after the sale, with its ticket IDs.
//   - *domain.Ticket: the buyer's ticket with the incremented quantity.
//   - error: reservation.ErrEventNotFound if the event does not exist.
//   - error: reservation.ErrEventFull if no capacity remains; nothing changes.
//   - error: reservation.ErrRateLimited if the buyer exceeded the reserve rate.
//   - error: reservation.ErrConcurrentUpdate if the database aborted the transaction.
func (s *Service) Reserve(ctx context.Context, eventID, userID uuid.UUID) (*domain.Event, *domain.Ticket, error) {
	const op = "service.reservation.Reserve"

	if s.limiter != nil {
		d, err := s.limiter.Allow(ctx, userID.String())
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		if !d.Allowed {
			return nil, nil, fmt.Errorf("%s: %w", op, RateLimitedError{RetryAfter: d.RetryAfter})
		}
	}

	var (
		event  *domain.Event
		ticket *domain.Ticket
	)

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Repos, after func(uow.AfterCommit)) error {
		if _, err := tx.Events.IncrementSold(ctx, eventID); err != nil {
			return mapRepoErr(err)
		}

		t, err := tx.Tickets.Increment(ctx, eventID, userID)
		if err != nil {
			return mapRepoErr(err)
		}

		e, err := tx.Events.Get(ctx, eventID)
		if err != nil {
			return mapRepoErr(err)
		}

		event, ticket = e, t

		after(s.notify(domain.ChangeReserved, eventID))

		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	event.Status = domain.Categorize(event.Date, s.cfg.Clock())

	return event, ticket, nil
}

// Cancel returns one of userID's tickets for eventID.
//
// Returns:
//   - error: reservation.ErrEventNotFound if the event does not exist.
//   - error: reservation.ErrTicketNotFound if the user never bought a ticket.
//   - error: reservation.ErrNothingToCancel if the user's quantity is already zero.
//   - error: reservation.ErrConcurrentUpdate if the database aborted the transaction.
func (s *Service) Cancel(ctx context.Context, eventID, userID uuid.UUID) (*domain.Event, *domain.Ticket, error) {
	const op = "service.reservation.Cancel"

	var (
		event  *domain.Event
		ticket *domain.Ticket
	)

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Repos, after func(uow.AfterCommit)) error {
		if _, err := tx.Events.Get(ctx, eventID); err != nil {
			return mapRepoErr(err)
		}

		t, err := tx.Tickets.Decrement(ctx, eventID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTicketNotFound
			}
			return mapRepoErr(err)
		}

		e, err := tx.Events.DecrementSold(ctx, eventID)
		if err != nil {
			return mapRepoErr(err)
		}

		event, ticket = e, t

		after(s.notify(domain.ChangeCanceled, eventID))

		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	event.Status = domain.Categorize(event.Date, s.cfg.Clock())

	return event, ticket, nil
}

func (s *Service) notify(kind domain.ChangeKind, eventID uuid.UUID) uow.AfterCommit {
	return func(ctx context.Context) {
		if err := s.cache.InvalidateEvent(ctx, eventID); err != nil {
			s.log.Warn("cache invalidation failed", "event_id", eventID, "err", err)
		}
		if s.pubsub == nil {
			return
		}
		if err := s.pubsub.PublishEventChanged(ctx, kind, eventID); err != nil {
			s.log.Warn("publish event change failed", "event_id", eventID, "kind", kind, "err", err)
		}
	}
}

func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrEventNotFound
	case errors.Is(err, repository.ErrCapacityExceeded):
		return ErrEventFull
	case errors.Is(err, repository.ErrNothingToCancel):
		return ErrNothingToCancel
	case errors.Is(err, repository.ErrSerialization):
		return ErrConcurrentUpdate
	default:
		return err
	}
}
