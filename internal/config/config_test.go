package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setMemoryEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "")
	t.Setenv("STORE_DRIVER", StoreDriverMemory)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("JWT_TTL", "")
}

func TestNewDefaults(t *testing.T) {
	setMemoryEnv(t)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, devJWTSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTTTL)
	assert.False(t, cfg.Auth.CookieSecure)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 10, cfg.Reservation.RateLimit)
}

func TestNewOverrides(t *testing.T) {
	setMemoryEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 90*time.Minute, cfg.Auth.JWTTTL)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestNewRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port", "SERVER_PORT", "eighty"},
		{"duration", "JWT_TTL", "forever"},
		{"driver", "STORE_DRIVER", "mongo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setMemoryEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := New()
			assert.ErrorContains(t, err, "config.New")
		})
	}
}

func TestProductionRequiresSecret(t *testing.T) {
	setMemoryEnv(t)
	t.Setenv("APP_ENV", EnvProduction)

	_, err := New()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := New()
	require.NoError(t, err)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.True(t, cfg.IsProduction())
}

func TestPostgresRequiresCredentials(t *testing.T) {
	setMemoryEnv(t)
	t.Setenv("STORE_DRIVER", StoreDriverPostgres)
	t.Setenv("POSTGRES_USER", "")

	_, err := New()
	assert.ErrorContains(t, err, "POSTGRES_USER")

	t.Setenv("POSTGRES_USER", "u")
	t.Setenv("POSTGRES_PASSWORD", "p")
	t.Setenv("POSTGRES_DB", "events")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost:5432/events?sslmode=disable", cfg.Postgres.DSN())
}
