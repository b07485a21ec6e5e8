package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       uuid.New(),
		Username: "bob",
		Email:    "bob@example.com",
		Role:     domain.RoleAdmin,
	}
}

func TestIssueAndParse(t *testing.T) {
	iss, err := NewIssuer("secret", time.Hour)
	require.NoError(t, err)

	u := testUser()
	raw, issued, err := iss.Issue(u)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := iss.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.Email, claims.Email)
	assert.True(t, claims.IsAdmin())
	assert.True(t, claims.HasRole(domain.RoleUser, domain.RoleAdmin))
	assert.True(t, claims.IsOwner(u.ID))
	assert.Equal(t, issued.ID, claims.ID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	a, _ := NewIssuer("a", time.Hour)
	b, _ := NewIssuer("b", time.Hour)

	raw, _, err := a.Issue(testUser())
	require.NoError(t, err)

	_, err = b.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	iss, _ := NewIssuer("secret", time.Minute)
	base := time.Now()
	iss.now = func() time.Time { return base }

	raw, _, err := iss.Issue(testUser())
	require.NoError(t, err)

	iss.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = iss.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	iss, _ := NewIssuer("secret", time.Hour)

	tok := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: uuid.New(), Role: domain.RoleUser})
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = iss.Parse(raw)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	_, err := NewIssuer("", time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)
}
