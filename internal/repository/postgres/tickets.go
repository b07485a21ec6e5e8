package postgresrepo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/kirinyoku/eventhub/internal/repository"
)

const ticketColumns = `t.id, t.event_id, t.user_id, t.quantity, t.created_at, t.updated_at`

type TicketRepo struct {
	pool *pgxpool.Pool
	db   DB
}

var _ repository.TicketRepository = (*TicketRepo)(nil)

func (r *TicketRepo) With(db DB) *TicketRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *TicketRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	if err := row.Scan(
		&t.ID,
		&t.EventID,
		&t.UserID,
		&t.Quantity,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &t, nil
}

// Get retrieves the ticket a user holds for an event.
//
// Returns:
//   - *domain.Ticket: the ticket when found, possibly with zero quantity.
//   - error: repository.ErrNotFound if the user never booked the event.
func (r *TicketRepo) Get(ctx context.Context, eventID, userID uuid.UUID) (*domain.Ticket, error) {
	const op = "postgresrepo.TicketRepo.Get"

	db := r.handle()

	t, err := scanTicket(db.QueryRow(ctx,
		`SELECT `+ticketColumns+`
		 FROM tickets t
		 WHERE t.event_id = $1 AND t.user_id = $2`,
		eventID, userID,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return t, nil
}

// Increment creates the (event, user) ticket or adds one to its quantity.
//
// Returns:
//   - *domain.Ticket: the ticket after the change.
//   - error: repository.ErrNotFound if the event or user does not exist.
func (r *TicketRepo) Increment(ctx context.Context, eventID, userID uuid.UUID) (*domain.Ticket, error) {
	const op = "postgresrepo.TicketRepo.Increment"

	db := r.handle()

	t, err := scanTicket(db.QueryRow(ctx,
		`INSERT INTO tickets AS t (id, event_id, user_id, quantity)
		 VALUES ($1, $2, $3, 1)
		 ON CONFLICT (event_id, user_id)
		 DO UPDATE SET quantity = t.quantity + 1, updated_at = now()
		 RETURNING `+ticketColumns,
		uuid.New(), eventID, userID,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return t, nil
}

// Decrement takes one from a positive quantity. The row is kept at zero.
//
// Returns:
//   - *domain.Ticket: the ticket after the change.
//   - error: repository.ErrNotFound if the user never booked the event.
//   - error: repository.ErrNothingToCancel if the quantity is already zero.
func (r *TicketRepo) Decrement(ctx context.Context, eventID, userID uuid.UUID) (*domain.Ticket, error) {
	const op = "postgresrepo.TicketRepo.Decrement"

	db := r.handle()

	t, err := scanTicket(db.QueryRow(ctx,
		`UPDATE tickets AS t
		 SET quantity = t.quantity - 1, updated_at = now()
		 WHERE t.event_id = $1 AND t.user_id = $2 AND t.quantity > 0
		 RETURNING `+ticketColumns,
		eventID, userID,
	))
	if err == nil {
		return t, nil
	}

	err = translateDBErr(err)
	if !isNotFound(err) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, getErr := r.Get(ctx, eventID, userID); getErr != nil {
		return nil, fmt.Errorf("%s: %w", op, getErr)
	}

	return nil, fmt.Errorf("%s: %w", op, repository.ErrNothingToCancel)
}

// ListForUser returns the user's outstanding tickets joined with their events,
// ordered by event date.
func (r *TicketRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.TicketWithEvent, error) {
	const op = "postgresrepo.TicketRepo.ListForUser"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+ticketColumns+`, `+eventColumns+`
		 FROM tickets t
		 JOIN events e ON e.id = t.event_id
		 WHERE t.user_id = $1 AND t.quantity > 0
		 ORDER BY e.event_date, t.id`,
		userID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	out := []domain.TicketWithEvent{}
	for rows.Next() {
		var (
			tw     domain.TicketWithEvent
			status string
		)

		if err := rows.Scan(
			&tw.ID,
			&tw.EventID,
			&tw.UserID,
			&tw.Quantity,
			&tw.CreatedAt,
			&tw.UpdatedAt,
			&tw.Event.ID,
			&tw.Event.Title,
			&tw.Event.Description,
			&tw.Event.Date,
			&tw.Event.Location,
			&tw.Event.MaxAttendees,
			&tw.Event.Image,
			&status,
			&tw.Event.TicketsSold,
			&tw.Event.CreatorID,
			&tw.Event.Version,
			&tw.Event.CreatedAt,
			&tw.Event.UpdatedAt,
			&tw.Event.TicketIDs,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}

		tw.Event.Status = domain.EventStatus(status)
		out = append(out, tw)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// ListForEvent returns every ticket row of an event, zero-quantity rows included.
func (r *TicketRepo) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Ticket, error) {
	const op = "postgresrepo.TicketRepo.ListForEvent"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+ticketColumns+`
		 FROM tickets t
		 WHERE t.event_id = $1
		 ORDER BY t.created_at, t.id`,
		eventID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	out := []domain.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// DeleteByEvent removes all tickets of an event and reports how many went.
func (r *TicketRepo) DeleteByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	const op = "postgresrepo.TicketRepo.DeleteByEvent"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM tickets WHERE event_id = $1`, eventID)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return tag.RowsAffected(), nil
}

func (r *TicketRepo) SumQuantity(ctx context.Context, eventID uuid.UUID) (int, error) {
	const op = "postgresrepo.TicketRepo.SumQuantity"

	db := r.handle()

	var sum int
	if err := db.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0)::int FROM tickets WHERE event_id = $1`,
		eventID,
	).Scan(&sum); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return sum, nil
}
