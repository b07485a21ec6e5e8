package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/kirinyoku/eventhub/internal/repository"
)

type UserRepo struct {
	s    *Store
	inTx bool
}

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	const op = "memory.UserRepo.Create"

	defer r.s.lock(r.inTx)()

	email := strings.ToLower(u.Email)
	if _, taken := r.s.data.userByEmail[email]; taken {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrConflict)
	}

	stored := *u
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.Email = email
	stored.CreatedAt = r.s.now()

	r.s.data.users[stored.ID] = stored
	r.s.data.userByEmail[email] = stored.ID

	return &stored, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const op = "memory.UserRepo.GetByID"

	defer r.s.lock(r.inTx)()

	u, ok := r.s.data.users[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const op = "memory.UserRepo.GetByEmail"

	defer r.s.lock(r.inTx)()

	id, ok := r.s.data.userByEmail[strings.ToLower(email)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	u := r.s.data.users[id]
	return &u, nil
}
