// Package users registers accounts and exchanges credentials for tokens.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/eventhub/internal/auth"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/kirinyoku/eventhub/internal/repository"
	redisrepo "github.com/kirinyoku/eventhub/internal/repository/redis"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

const minPasswordLen = 6

type Config struct {
	BcryptCost int
	// AllowAdminSignup lets Register create admin accounts.
	AllowAdminSignup bool
}

type Service struct {
	store    repository.Store
	issuer   *auth.Issuer
	denylist *redisrepo.TokenDenylist
	cfg      Config
	clock    func() time.Time
}

// New builds the service. A nil denylist makes Logout a client-side cookie clear only.
func New(store repository.Store, issuer *auth.Issuer, denylist *redisrepo.TokenDenylist, cfg Config) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		store:    store,
		issuer:   issuer,
		denylist: denylist,
		cfg:      cfg,
		clock:    time.Now,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// Session is an authenticated user with a freshly issued token.
type Session struct {
	User  *domain.User
	Token string
}

// Register creates an account and signs it in.
//
// Returns:
//   - error: users.ErrEmailTaken if the email is already registered.
//   - error: domain.ValidationError for a blank username, email or short password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	const op = "service.users.Register"

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	switch {
	case in.Username == "":
		return nil, fmt.Errorf("%s: %w", op, domain.ValidationError{Field: "username", Reason: "is required"})
	case in.Email == "":
		return nil, fmt.Errorf("%s: %w", op, domain.ValidationError{Field: "email", Reason: "is required"})
	case len(in.Password) < minPasswordLen:
		return nil, fmt.Errorf("%s: %w", op, domain.ValidationError{
			Field:  "password",
			Reason: fmt.Sprintf("must be at least %d characters", minPasswordLen),
		})
	}

	if in.Role == "" {
		in.Role = domain.RoleUser
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%s: %w", op, domain.ValidationError{Field: "role", Reason: "must be user or admin"})
	}
	if in.Role == domain.RoleAdmin && !s.cfg.AllowAdminSignup {
		return nil, fmt.Errorf("%s: %w", op, domain.ValidationError{Field: "role", Reason: "admin accounts cannot self-register"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u, err := s.store.Repos().Users.Create(ctx, &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.session(op, u)
}

// Login checks the password and issues a token.
//
// Returns:
//   - error: users.ErrInvalidCredentials for an unknown email or wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	const op = "service.users.Login"

	u, err := s.store.Repos().Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	return s.session(op, u)
}

// Logout revokes the token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	const op = "service.users.Logout"

	if s.denylist == nil || claims == nil || claims.ID == "" {
		return nil
	}

	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresIn(s.clock())); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// IsRevoked reports whether a token ID was logged out.
func (s *Service) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.denylist == nil || jti == "" {
		return false, nil
	}
	return s.denylist.IsRevoked(ctx, jti)
}

func (s *Service) Me(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const op = "service.users.Me"

	u, err := s.store.Repos().Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (s *Service) session(op string, u *domain.User) (*Session, error) {
	token, _, err := s.issuer.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Session{User: u, Token: token}, nil
}
