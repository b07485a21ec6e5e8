// Package events manages the event catalogue.
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/eventhub/internal/domain"
	redisx "github.com/kirinyoku/eventhub/internal/redis"
	"github.com/kirinyoku/eventhub/internal/repository"
	redisrepo "github.com/kirinyoku/eventhub/internal/repository/redis"
	"github.com/kirinyoku/eventhub/internal/uow"
)

type Publisher interface {
	PublishEventChanged(ctx context.Context, kind domain.ChangeKind, eventID uuid.UUID) error
}

type Config struct {
	EventTTL time.Duration
	ListTTL  time.Duration
	Clock    func() time.Time
}

type Service struct {
	store  repository.Store
	cache  *redisrepo.Cache
	pubsub Publisher
	uow    *uow.UoW
	log    *slog.Logger
	cfg    Config
}

// New builds the service. cache and pubsub may be nil.
func New(
	store repository.Store,
	cache *redisrepo.Cache,
	pubsub Publisher,
	log *slog.Logger,
	cfg Config,
) *Service {
	if cfg.EventTTL <= 0 {
		cfg.EventTTL = 30 * time.Second
	}
	if cfg.ListTTL <= 0 {
		cfg.ListTTL = 10 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.NewUoW(store),
		log:    log,
		cfg:    cfg,
	}
}

type CreateInput struct {
	Title        string
	Description  string
	Date         time.Time
	Location     string
	MaxAttendees int
	Image        *string
}

// Actor is the authenticated caller of a mutating operation.
type Actor struct {
	UserID uuid.UUID
	Role   domain.Role
}

func (a Actor) canEdit(e *domain.Event) bool {
	return a.Role == domain.RoleAdmin || a.UserID == e.CreatorID
}

// Create stores a new event owned by creatorID.
//
// Returns:
//   - *domain.Event: the stored event with zero tickets sold.
//   - error: domain.ValidationError for missing fields, non-positive capacity,
//     or a date before the start of today.
//   - error: events.ErrCreatorNotFound if creatorID has no user record.
func (s *Service) Create(ctx context.Context, creatorID uuid.UUID, in CreateInput) (*domain.Event, error) {
	const op = "service.events.Create"

	now := s.cfg.Clock()

	if err := validateCreate(in, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	e := &domain.Event{
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		Date:         in.Date,
		Location:     strings.TrimSpace(in.Location),
		MaxAttendees: in.MaxAttendees,
		Image:        in.Image,
		Status:       domain.Categorize(in.Date, now),
		CreatorID:    creatorID,
	}

	var created *domain.Event

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Repos, after func(uow.AfterCommit)) error {
		ev, err := tx.Events.Create(ctx, e)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCreatorNotFound
			}
			return mapRepoErr(err)
		}

		created = ev

		after(s.notify(domain.ChangeCreated, ev.ID))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

// Get returns an event with its status derived from the current time.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	const op = "service.events.Get"

	e, err := redisrepo.GetOrSetJSON(ctx, s.cache, redisx.KeyEvent(id), s.cfg.EventTTL,
		func(ctx context.Context) (*domain.Event, error) {
			return s.store.Repos().Events.Get(ctx, id)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapRepoErr(err))
	}

	// Cached values may be shared between callers.
	out := *e
	out.Status = domain.Categorize(out.Date, s.cfg.Clock())

	return &out, nil
}

// List returns events ordered by date. A non-nil status keeps only events that
// currently categorize as that status.
func (s *Service) List(ctx context.Context, status *domain.EventStatus) ([]domain.Event, error) {
	const op = "service.events.List"

	now := s.cfg.Clock()

	var (
		list []domain.Event
		err  error
	)
	if status == nil {
		list, err = s.listAll(ctx)
	} else {
		list, err = s.store.Repos().Events.List(ctx, repository.FilterForStatus(*status, now))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]domain.Event, len(list))
	for i, e := range list {
		e.Status = domain.Categorize(e.Date, now)
		out[i] = e
	}

	return out, nil
}

// Categorized splits every event into upcoming, today and past.
func (s *Service) Categorized(ctx context.Context) (domain.Categorized, error) {
	const op = "service.events.Categorized"

	list, err := s.listAll(ctx)
	if err != nil {
		return domain.Categorized{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.SplitByStatus(list, s.cfg.Clock()), nil
}

// Classify exposes the categorizer for a raw client-supplied date.
func (s *Service) Classify(raw string) domain.EventStatus {
	return domain.CategorizeRaw(raw, s.cfg.Clock(), s.log)
}

func (s *Service) listAll(ctx context.Context) ([]domain.Event, error) {
	return redisrepo.GetOrSetJSON(ctx, s.cache, redisx.KeyEventList(), s.cfg.ListTTL,
		func(ctx context.Context) ([]domain.Event, error) {
			return s.store.Repos().Events.List(ctx, repository.EventFilter{})
		},
	)
}

// Update applies patch to the event.
//
// Parameters:
//   - actor: caller; must be the creator or an admin.
//   - version: when non-nil the update only applies to that version.
//
// Returns:
//   - error: events.ErrEventNotFound if the event does not exist.
//   - error: events.ErrForbidden if actor may not edit the event.
//   - error: events.ErrVersionConflict if the event changed since version.
//   - error: domain.ValidationError if the patch breaks an event invariant.
func (s *Service) Update(
	ctx context.Context,
	actor Actor,
	id uuid.UUID,
	patch domain.EventPatch,
	version *int64,
) (*domain.Event, error) {
	const op = "service.events.Update"

	now := s.cfg.Clock()

	var updated *domain.Event

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Repos, after func(uow.AfterCommit)) error {
		cur, err := tx.Events.Get(ctx, id)
		if err != nil {
			return mapRepoErr(err)
		}

		if !actor.canEdit(cur) {
			return ErrForbidden
		}
		if version != nil && *version != cur.Version {
			return ErrVersionConflict
		}

		next := *cur
		patch.Apply(&next)

		if err := validateUpdate(&next); err != nil {
			return err
		}

		next.Status = domain.Categorize(next.Date, now)

		ev, err := tx.Events.Update(ctx, &next)
		if err != nil {
			return mapRepoErr(err)
		}

		updated = ev

		after(s.notify(domain.ChangeUpdated, id))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}

// Delete removes the event and every ticket that references it.
//
// Returns:
//   - error: events.ErrEventNotFound if the event does not exist.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "service.events.Delete"

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Repos, after func(uow.AfterCommit)) error {
		if err := tx.Events.Delete(ctx, id); err != nil {
			return mapRepoErr(err)
		}

		// The foreign key already cascades; this also covers stores without one.
		if _, err := tx.Tickets.DeleteByEvent(ctx, id); err != nil {
			return mapRepoErr(err)
		}

		after(s.notify(domain.ChangeDeleted, id))

		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RefreshStatuses rewrites stored statuses from dates and reports how many changed.
func (s *Service) RefreshStatuses(ctx context.Context) (int64, error) {
	const op = "service.events.RefreshStatuses"

	n, err := s.store.Repos().Events.RefreshStatuses(ctx, s.cfg.Clock())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if n > 0 {
		if err := s.cache.InvalidateLists(ctx); err != nil {
			s.log.Warn("cache invalidation failed", "err", err)
		}
		if s.pubsub != nil {
			if err := s.pubsub.PublishEventChanged(ctx, domain.ChangeStatuses, uuid.Nil); err != nil {
				s.log.Warn("publish status refresh failed", "err", err)
			}
		}
	}

	return n, nil
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

func validateCreate(in CreateInput, now time.Time) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return domain.ValidationError{Field: "title", Reason: "is required"}
	case strings.TrimSpace(in.Description) == "":
		return domain.ValidationError{Field: "description", Reason: "is required"}
	case strings.TrimSpace(in.Location) == "":
		return domain.ValidationError{Field: "location", Reason: "is required"}
	case in.Date.IsZero():
		return domain.ValidationError{Field: "date", Reason: "is required"}
	case in.Date.Before(domain.StartOfDay(now)):
		return domain.ValidationError{Field: "date", Reason: "must not be in the past"}
	case in.MaxAttendees <= 0:
		return domain.ValidationError{Field: "maxAttendees", Reason: "must be positive"}
	}
	return nil
}

func validateUpdate(e *domain.Event) error {
	switch {
	case strings.TrimSpace(e.Title) == "":
		return domain.ValidationError{Field: "title", Reason: "must not be empty"}
	case strings.TrimSpace(e.Description) == "":
		return domain.ValidationError{Field: "description", Reason: "must not be empty"}
	case strings.TrimSpace(e.Location) == "":
		return domain.ValidationError{Field: "location", Reason: "must not be empty"}
	case e.MaxAttendees <= 0:
		return domain.ValidationError{Field: "maxAttendees", Reason: "must be positive"}
	case e.MaxAttendees < e.TicketsSold:
		return domain.ValidationError{
			Field:  "maxAttendees",
			Reason: fmt.Sprintf("must be at least the %d tickets already sold", e.TicketsSold),
		}
	}
	return nil
}

func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrEventNotFound
	case errors.Is(err, repository.ErrVersionConflict):
		return ErrVersionConflict
	case errors.Is(err, repository.ErrSerialization):
		return ErrConcurrentUpdate
	case errors.Is(err, repository.ErrConflict):
		return domain.ValidationError{Field: "maxAttendees", Reason: "conflicts with tickets already sold"}
	default:
		return err
	}
}
