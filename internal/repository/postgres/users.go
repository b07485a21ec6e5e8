package postgresrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/kirinyoku/eventhub/internal/repository"
)

type UserRepo struct {
	pool *pgxpool.Pool
	db   DB
}

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) With(db DB) *UserRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *UserRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)

	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		return nil, err
	}

	u.Role = domain.Role(role)

	return &u, nil
}

// Create inserts a user. Emails are stored lower-cased.
//
// Returns:
//   - error: repository.ErrConflict if the email is already registered.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	const op = "postgresrepo.UserRepo.Create"

	db := r.handle()

	id := u.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	created, err := scanUser(db.QueryRow(ctx,
		`INSERT INTO users(id, username, email, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, username, email, password_hash, role, created_at`,
		id, u.Username, strings.ToLower(u.Email), u.PasswordHash, string(u.Role),
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return created, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const op = "postgresrepo.UserRepo.GetByID"

	db := r.handle()

	u, err := scanUser(db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, role, created_at
		 FROM users WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const op = "postgresrepo.UserRepo.GetByEmail"

	db := r.handle()

	u, err := scanUser(db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, role, created_at
		 FROM users WHERE email = $1`,
		strings.ToLower(email),
	))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return u, nil
}
