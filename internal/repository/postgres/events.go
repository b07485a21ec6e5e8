package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/kirinyoku/eventhub/internal/repository"
)

const eventColumns = `
	e.id, e.title, e.description, e.event_date, e.location, e.max_attendees,
	e.image, e.status, e.tickets_sold, e.creator_id, e.version, e.created_at, e.updated_at,
	COALESCE(
		(SELECT array_agg(t.id ORDER BY t.created_at) FROM tickets t WHERE t.event_id = e.id),
		'{}'::uuid[]
	)`

type EventRepo struct {
	pool *pgxpool.Pool
	db   DB
}

var _ repository.EventRepository = (*EventRepo)(nil)

func (r *EventRepo) With(db DB) *EventRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *EventRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var (
		e      domain.Event
		status string
	)

	if err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.Date,
		&e.Location,
		&e.MaxAttendees,
		&e.Image,
		&status,
		&e.TicketsSold,
		&e.CreatorID,
		&e.Version,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.TicketIDs,
	); err != nil {
		return nil, err
	}

	e.Status = domain.EventStatus(status)

	return &e, nil
}

// Create inserts a new event. ID, version and timestamps are assigned here.
//
// Returns:
//   - *domain.Event: the stored event.
//   - error: repository.ErrNotFound if the creator does not exist.
func (r *EventRepo) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	const op = "postgresrepo.EventRepo.Create"

	db := r.handle()

	id := e.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	if _, err := db.Exec(ctx,
		`INSERT INTO events(
			id, title, description, event_date, location, max_attendees,
			image, status, tickets_sold, creator_id, version
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, 1)`,
		id, e.Title, e.Description, e.Date, e.Location, e.MaxAttendees,
		e.Image, string(e.Status), e.CreatorID,
	); err != nil {
		return nil, wrapDBErr(op, err)
	}

	created, err := r.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

// Get retrieves an event by its ID together with the IDs of its tickets.
//
// Returns:
//   - *domain.Event: the event when found.
//   - error: repository.ErrNotFound if the event is not found.
func (r *EventRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	const op = "postgresrepo.EventRepo.Get"

	db := r.handle()

	e, err := scanEvent(db.QueryRow(ctx,
		`SELECT `+eventColumns+`
		 FROM events e
		 WHERE e.id = $1`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return e, nil
}

// List returns events ordered by date, optionally bounded to [From, Before).
func (r *EventRepo) List(ctx context.Context, f repository.EventFilter) ([]domain.Event, error) {
	const op = "postgresrepo.EventRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+eventColumns+`
		 FROM events e
		 WHERE ($1::timestamptz IS NULL OR e.event_date >= $1)
		   AND ($2::timestamptz IS NULL OR e.event_date < $2)
		 ORDER BY e.event_date, e.id`,
		f.From, f.Before,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	out := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// Update writes the mutable fields of e guarded by its version.
//
// Returns:
//   - *domain.Event: the stored event with the bumped version.
//   - error: repository.ErrNotFound if the event is not found.
//   - error: repository.ErrVersionConflict if e.Version is stale.
//   - error: repository.ErrConflict if the row would break a check constraint.
func (r *EventRepo) Update(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	const op = "postgresrepo.EventRepo.Update"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE events
		 SET title = $2, description = $3, event_date = $4, location = $5,
		     max_attendees = $6, image = $7, status = $8,
		     version = version + 1, updated_at = now()
		 WHERE id = $1 AND version = $9`,
		e.ID, e.Title, e.Description, e.Date, e.Location,
		e.MaxAttendees, e.Image, string(e.Status), e.Version,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		if err := r.mustExist(ctx, db, e.ID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return nil, fmt.Errorf("%s: %w", op, repository.ErrVersionConflict)
	}

	updated, err := r.Get(ctx, e.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}

// Delete removes the event row. Tickets go with it through the foreign key.
//
// Returns:
//   - error: repository.ErrNotFound if the event is not found.
func (r *EventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgresrepo.EventRepo.Delete"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	return nil
}

// IncrementSold takes one slot with a single conditional statement, so two
// concurrent reservations for the last slot cannot both succeed.
//
// Returns:
//   - *domain.Event: the event after the increment.
//   - error: repository.ErrNotFound if the event is not found.
//   - error: repository.ErrCapacityExceeded if the event is full.
func (r *EventRepo) IncrementSold(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	const op = "postgresrepo.EventRepo.IncrementSold"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE events
		 SET tickets_sold = tickets_sold + 1, version = version + 1, updated_at = now()
		 WHERE id = $1 AND tickets_sold < max_attendees`,
		id,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		if err := r.mustExist(ctx, db, id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return nil, fmt.Errorf("%s: %w", op, repository.ErrCapacityExceeded)
	}

	e, err := r.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return e, nil
}

// DecrementSold releases one slot.
//
// Returns:
//   - *domain.Event: the event after the decrement.
//   - error: repository.ErrNotFound if the event is not found.
//   - error: repository.ErrNothingToCancel if nothing is sold.
func (r *EventRepo) DecrementSold(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	const op = "postgresrepo.EventRepo.DecrementSold"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE events
		 SET tickets_sold = tickets_sold - 1, version = version + 1, updated_at = now()
		 WHERE id = $1 AND tickets_sold > 0`,
		id,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		if err := r.mustExist(ctx, db, id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNothingToCancel)
	}

	e, err := r.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return e, nil
}

// RefreshStatuses recomputes the stored status column from event dates. Day
// boundaries are computed by the caller's clock so the database timezone does
// not matter.
func (r *EventRepo) RefreshStatuses(ctx context.Context, now time.Time) (int64, error) {
	const op = "postgresrepo.EventRepo.RefreshStatuses"

	db := r.handle()

	today := domain.StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)

	tag, err := db.Exec(ctx,
		`WITH derived AS (
			SELECT id,
			       CASE
			           WHEN event_date < $1 THEN 'past'
			           WHEN event_date < $2 THEN 'today'
			           ELSE 'upcoming'
			       END AS status
			FROM events
		 )
		 UPDATE events e
		 SET status = d.status, updated_at = now()
		 FROM derived d
		 WHERE e.id = d.id AND e.status <> d.status`,
		today, tomorrow,
	)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return tag.RowsAffected(), nil
}

func (r *EventRepo) mustExist(ctx context.Context, db DB, id uuid.UUID) error {
	var exists bool
	if err := db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`,
		id,
	).Scan(&exists); err != nil {
		return translateDBErr(err)
	}

	if !exists {
		return repository.ErrNotFound
	}

	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
