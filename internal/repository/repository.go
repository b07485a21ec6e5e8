package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/eventhub/internal/domain"
)

// EventFilter bounds event dates to [From, Before). Nil bounds are open.
type EventFilter struct {
	From   *time.Time
	Before *time.Time
}

// FilterForStatus returns the date range whose events categorize as status at now.
func FilterForStatus(status domain.EventStatus, now time.Time) EventFilter {
	today := domain.StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)

	switch status {
	case domain.StatusPast:
		return EventFilter{Before: &today}
	case domain.StatusToday:
		return EventFilter{From: &today, Before: &tomorrow}
	default:
		return EventFilter{From: &tomorrow}
	}
}

type EventRepository interface {
	Create(ctx context.Context, e *domain.Event) (*domain.Event, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	List(ctx context.Context, f EventFilter) ([]domain.Event, error)
	// Update writes e when the stored version equals e.Version and bumps the version.
	// Returns ErrVersionConflict when the row moved underneath.
	Update(ctx context.Context, e *domain.Event) (*domain.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// IncrementSold adds one sold ticket only while ticketsSold < maxAttendees.
	// Returns ErrCapacityExceeded when full and ErrNotFound when absent.
	IncrementSold(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	// DecrementSold removes one sold ticket, never going below zero.
	DecrementSold(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	// RefreshStatuses rewrites stored statuses from dates. Returns rows changed.
	RefreshStatuses(ctx context.Context, now time.Time) (int64, error)
}

type TicketRepository interface {
	Get(ctx context.Context, eventID, userID uuid.UUID) (*domain.Ticket, error)
	// Increment creates the (event,user) ticket with quantity 1 or adds one to it.
	Increment(ctx context.Context, eventID, userID uuid.UUID) (*domain.Ticket, error)
	// Decrement removes one from a positive quantity. Returns ErrNotFound when the
	// ticket does not exist and ErrNothingToCancel when quantity is already zero.
	Decrement(ctx context.Context, eventID, userID uuid.UUID) (*domain.Ticket, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.TicketWithEvent, error)
	ListForEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Ticket, error)
	DeleteByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
	SumQuantity(ctx context.Context, eventID uuid.UUID) (int, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Repos bundles repositories bound to the same connection or transaction.
type Repos struct {
	Events  EventRepository
	Tickets TicketRepository
	Users   UserRepository
}

// Store is the data store collaborator.
type Store interface {
	Repos() Repos
	// WithinTx runs fn with repositories bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Repos) error) error
}
