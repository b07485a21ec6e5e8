package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/eventhub/internal/auth"
	"github.com/kirinyoku/eventhub/internal/config"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/kirinyoku/eventhub/internal/live"
	"github.com/kirinyoku/eventhub/internal/postgres"
	redisx "github.com/kirinyoku/eventhub/internal/redis"
	"github.com/kirinyoku/eventhub/internal/repository"
	"github.com/kirinyoku/eventhub/internal/repository/memory"
	postgresrepo "github.com/kirinyoku/eventhub/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/eventhub/internal/repository/redis"
	"github.com/kirinyoku/eventhub/internal/service"
	"github.com/kirinyoku/eventhub/internal/service/events"
	"github.com/kirinyoku/eventhub/internal/service/users"
	httpgin "github.com/kirinyoku/eventhub/internal/transport/http/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server

	services *service.Services
	hub      *live.Hub
	pubsub   *redisx.EventsPubSub

	pool *pgxpool.Pool
	rdb  *redis.Client
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
		hub:    live.NewHub(0),
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Enabled() {
		rdb, err := redisx.New(ctx, redisx.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		a.rdb = rdb
	} else {
		logger.Warn("redis disabled: no cache, rate limit, idempotency or token revocation")
	}

	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}

	deps := service.Deps{
		PubSub: a.hub,
		Log:    logger,
	}

	var idempotency *redisrepo.IdempotencyStore
	if a.rdb != nil {
		a.pubsub = redisx.NewEventsPubSub(a.rdb)

		deps.Cache = redisrepo.New(a.rdb)
		deps.PubSub = a.pubsub
		deps.Denylist = redisrepo.NewTokenDenylist(a.rdb)
		if cfg.Reservation.RateLimit > 0 {
			deps.Limiter = redisrepo.NewSlidingWindowLimiter(a.rdb, "reserve", cfg.Reservation.RateLimit, cfg.Reservation.RateWindow)
		}
		idempotency = redisrepo.NewIdempotencyStore(a.rdb, cfg.Reservation.IdempotencyTTL)
	}

	a.services = service.NewServices(store, issuer, deps, service.Config{
		Events: events.Config{
			EventTTL: cfg.Cache.EventTTL,
			ListTTL:  cfg.Cache.ListTTL,
		},
		Users: users.Config{
			AllowAdminSignup: cfg.Auth.AllowAdminSignup,
		},
	})

	router := httpgin.NewRouter(httpgin.Deps{
		Services:     a.services,
		Issuer:       issuer,
		Idempotency:  idempotency,
		Hub:          a.hub,
		Health:       a.health,
		Logger:       logger,
		CORSOrigins:  cfg.CORS.AllowedOrigins,
		CookieSecure: cfg.Auth.CookieSecure,
	})

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	return a, nil
}

func (a *App) openStore(ctx context.Context) (repository.Store, error) {
	if a.cfg.StoreDriver == config.StoreDriverMemory {
		a.logger.Warn("using in-memory store, data is lost on restart")
		return memory.New(), nil
	}

	pool, err := postgres.New(ctx, postgres.Config{
		DSN:      a.cfg.Postgres.DSN(),
		MaxConns: a.cfg.Postgres.MaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}
	a.pool = pool

	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return postgresrepo.NewStore(pool), nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	if a.pubsub != nil {
		g.Go(func() error {
			return a.forwardChanges(gCtx)
		})
	}

	if a.cfg.StatusSweepInterval > 0 {
		g.Go(func() error {
			a.sweepStatuses(gCtx, a.cfg.StatusSweepInterval)
			return nil
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")

		// Streams end when their hub channel closes, so Shutdown is not held by them.
		a.hub.Close()

		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	err := g.Wait()
	a.Close()
	return err
}

// forwardChanges relays change notices from redis to local stream clients.
func (a *App) forwardChanges(ctx context.Context) error {
	err := a.pubsub.Subscribe(ctx, func(_ context.Context, msg domain.EventChanged) {
		a.hub.Broadcast(msg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("events subscription: %w", err)
	}
	return nil
}

// sweepStatuses rewrites stored statuses from event dates until ctx ends.
func (a *App) sweepStatuses(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		n, err := a.services.Events.RefreshStatuses(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			a.logger.Warn("status sweep failed", "err", err)
		case n > 0:
			a.logger.Info("status sweep", "updated", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *App) health(ctx context.Context) error {
	if a.pool != nil {
		if err := a.pool.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if a.rdb != nil {
		if err := a.rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Close releases connections. It is safe to call more than once.
func (a *App) Close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
		a.rdb = nil
	}
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}
