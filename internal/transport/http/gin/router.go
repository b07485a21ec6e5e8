package httpgin

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/eventhub/internal/auth"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/kirinyoku/eventhub/internal/live"
	redisrepo "github.com/kirinyoku/eventhub/internal/repository/redis"
	"github.com/kirinyoku/eventhub/internal/service"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Deps struct {
	Services *service.Services
	Issuer   *auth.Issuer
	// Optional collaborators.
	Idempotency *redisrepo.IdempotencyStore
	Hub         *live.Hub
	Health      func(ctx context.Context) error

	Logger          *slog.Logger
	CORSOrigins     []string
	CookieSecure    bool
	StreamHeartbeat time.Duration
}

type handlers struct {
	Deps
}

func NewRouter(deps Deps, middlewares ...gin.HandlerFunc) *gin.Engine {
	registerValidators()

	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.StreamHeartbeat <= 0 {
		deps.StreamHeartbeat = 25 * time.Second
	}

	h := &handlers{Deps: deps}

	r := gin.New()

	r.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware(deps.Logger), CORS(deps.CORSOrigins))
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", h.health)

	authn := AuthMiddleware(deps.Issuer, deps.Services.Users)
	member := authorize(domain.RoleUser, domain.RoleAdmin)

	ev := r.Group("/events")
	{
		ev.GET("/status", h.eventStatus)
		ev.GET("/stream", h.stream)

		protected := ev.Group("", authn)
		{
			protected.POST("", h.createEvent)

			protected.GET("", member, h.listEvents)
			protected.GET("/categorized", member, h.categorizedEvents)
			protected.GET("/user/tickets", member, h.userTickets)
			protected.GET("/tickets/:id", member, h.eventTickets)
			protected.GET("/:id", member, h.getEvent)
			protected.PUT("/:id", member, h.updateEvent)
			protected.DELETE("/:id", authorize(domain.RoleAdmin), h.deleteEvent)

			protected.POST("/buy/:id", member, h.buyTicket)
			protected.POST("/:id/cancel", member, h.cancelTicket)
		}
	}

	u := r.Group("/users")
	{
		u.POST("/register", h.register)
		u.POST("/login", h.login)
		u.POST("/logout", authn, h.logout)
		u.GET("/me", authn, h.me)
	}

	return r
}

// @Summary  Health check
// @Tags     system
// @Success  200  {object}  map[string]string
// @Failure  503  {object}  map[string]string
// @Router   /healthz [get]
func (h *handlers) health(c *gin.Context) {
	if h.Health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.Health(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
