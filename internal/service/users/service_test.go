package users

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/kirinyoku/eventhub/internal/auth"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/kirinyoku/eventhub/internal/repository/memory"
	redisrepo "github.com/kirinyoku/eventhub/internal/repository/redis"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T, denylist *redisrepo.TokenDenylist, cfg Config) (*Service, *auth.Issuer) {
	t.Helper()

	issuer, err := auth.NewIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	cfg.BcryptCost = bcrypt.MinCost

	return New(memory.New(), issuer, denylist, cfg), issuer
}

func TestRegisterAndLogin(t *testing.T) {
	svc, issuer := newService(t, nil, Config{})
	ctx := context.Background()

	sess, err := svc.Register(ctx, RegisterInput{Username: "ann", Email: "Ann@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, sess.User.Role)
	assert.NotEqual(t, "secret1", sess.User.PasswordHash)

	claims, err := issuer.Parse(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, claims.UserID)

	_, err = svc.Register(ctx, RegisterInput{Username: "ann2", Email: "ann@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	logged, err := svc.Login(ctx, "ANN@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, logged.User.ID)

	_, err = svc.Login(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	me, err := svc.Me(ctx, sess.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann", me.Username)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newService(t, nil, Config{})
	ctx := context.Background()

	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"blank username", RegisterInput{Email: "a@b.c", Password: "secret1"}, "username"},
		{"blank email", RegisterInput{Username: "a", Password: "secret1"}, "email"},
		{"short password", RegisterInput{Username: "a", Email: "a@b.c", Password: "123"}, "password"},
		{"unknown role", RegisterInput{Username: "a", Email: "a@b.c", Password: "secret1", Role: "root"}, "role"},
		{"admin signup", RegisterInput{Username: "a", Email: "a@b.c", Password: "secret1", Role: domain.RoleAdmin}, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)

			var verr domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestRegisterAdminWhenAllowed(t *testing.T) {
	svc, _ := newService(t, nil, Config{AllowAdminSignup: true})

	sess, err := svc.Register(context.Background(), RegisterInput{
		Username: "root", Email: "root@example.com", Password: "secret1", Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, sess.User.Role)
}

func TestLogoutRevokesToken(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	svc, issuer := newService(t, redisrepo.NewTokenDenylist(rdb), Config{})
	ctx := context.Background()

	sess, err := svc.Register(ctx, RegisterInput{Username: "ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	claims, err := issuer.Parse(sess.Token)
	require.NoError(t, err)

	revoked, err := svc.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.Logout(ctx, claims))

	revoked, err = svc.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestLogoutWithoutDenylist(t *testing.T) {
	svc, _ := newService(t, nil, Config{})
	assert.NoError(t, svc.Logout(context.Background(), &auth.Claims{}))
}
