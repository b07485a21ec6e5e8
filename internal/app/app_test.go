package app

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/kirinyoku/eventhub/internal/config"
	"github.com/kirinyoku/eventhub/internal/domain"
	redisx "github.com/kirinyoku/eventhub/internal/redis"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func testConfig(t *testing.T, redisAddr string) *config.Config {
	return &config.Config{
		Env:         config.EnvDevelopment,
		StoreDriver: config.StoreDriverMemory,
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            freePort(t),
			ReadTimeout:     time.Second,
			ShutdownTimeout: time.Second,
		},
		Redis: config.RedisConfig{Addr: redisAddr},
		Auth: config.AuthConfig{
			JWTSecret: "test",
			JWTTTL:    time.Hour,
		},
		Reservation: config.ReservationConfig{
			RateLimit:      5,
			RateWindow:     time.Minute,
			IdempotencyTTL: time.Hour,
		},
		Cache: config.CacheConfig{
			EventTTL: time.Minute,
			ListTTL:  time.Minute,
		},
		StatusSweepInterval: 50 * time.Millisecond,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunServesAndShutsDown(t *testing.T) {
	cfg := testConfig(t, "")

	a, err := New(context.Background(), cfg, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	url := "http://127.0.0.1:" + strconv.Itoa(cfg.Server.Port) + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestForwardChangesRelaysToHub(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, mr.Addr())

	a, err := New(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	require.NotNil(t, a.pubsub)

	client := a.hub.Register()
	defer a.hub.Unregister(client)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.forwardChanges(ctx) }()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	publisher := redisx.NewEventsPubSub(rdb)

	id := uuid.New()
	var got domain.EventChanged
	require.Eventually(t, func() bool {
		require.NoError(t, publisher.PublishEventChanged(context.Background(), domain.ChangeUpdated, id))
		select {
		case got = <-client.C:
			return true
		case <-time.After(20 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, id, got.EventID)
	assert.Equal(t, domain.ChangeUpdated, got.Kind)

	cancel()
	assert.NoError(t, <-done)
}

func TestSweepStatusesStopsOnCancel(t *testing.T) {
	cfg := testConfig(t, "")

	a, err := New(context.Background(), cfg, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.sweepStatuses(ctx, 10*time.Millisecond)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestHealthWithoutBackends(t *testing.T) {
	a, err := New(context.Background(), testConfig(t, ""), discardLogger())
	require.NoError(t, err)

	assert.NoError(t, a.health(context.Background()))
}
