package service

import (
	"log/slog"
	"time"

	"github.com/kirinyoku/eventhub/internal/auth"
	"github.com/kirinyoku/eventhub/internal/repository"
	redisrepo "github.com/kirinyoku/eventhub/internal/repository/redis"
	"github.com/kirinyoku/eventhub/internal/service/events"
	"github.com/kirinyoku/eventhub/internal/service/ledger"
	"github.com/kirinyoku/eventhub/internal/service/reservation"
	"github.com/kirinyoku/eventhub/internal/service/users"
)

type Services struct {
	Reservation *reservation.Service
	Events      *events.Service
	Ledger      *ledger.Service
	Users       *users.Service
}

type Config struct {
	Reservation reservation.Config
	Events      events.Config
	Users       users.Config
	Clock       func() time.Time
}

// Publisher receives event change notices after commits.
type Publisher interface {
	events.Publisher
	reservation.Publisher
}

// Deps are the optional collaborators. Nil fields switch the matching feature off.
type Deps struct {
	Cache    *redisrepo.Cache
	PubSub   Publisher
	Limiter  *redisrepo.SlidingWindowLimiter
	Denylist *redisrepo.TokenDenylist
	Log      *slog.Logger
}

func NewServices(
	store repository.Store,
	issuer *auth.Issuer,
	deps Deps,
	cfg Config,
) *Services {
	if cfg.Clock != nil {
		cfg.Reservation.Clock = cfg.Clock
		cfg.Events.Clock = cfg.Clock
	}

	return &Services{
		Reservation: reservation.New(store, deps.Cache, deps.PubSub, deps.Limiter, deps.Log, cfg.Reservation),
		Events:      events.New(store, deps.Cache, deps.PubSub, deps.Log, cfg.Events),
		Ledger:      ledger.New(store, cfg.Clock),
		Users:       users.New(store, issuer, deps.Denylist, cfg.Users),
	}
}
