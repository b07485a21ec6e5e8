package httpgin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/kirinyoku/eventhub/internal/service/events"
	"github.com/kirinyoku/eventhub/internal/service/ledger"
	"github.com/kirinyoku/eventhub/internal/service/reservation"
	"github.com/kirinyoku/eventhub/internal/service/users"
)

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var verr domain.ValidationError
	if errors.As(err, &verr) {
		badRequest(c, verr.Error())
		return
	}

	var rl reservation.RateLimitedError
	if errors.As(err, &rl) {
		secs := int(rl.RetryAfter.Seconds())
		if secs < 1 {
			secs = 1
		}
		c.Header("Retry-After", strconv.Itoa(secs))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: reservation.ErrRateLimited.Error()})
		return
	}

	switch {
	// not found
	case errors.Is(err, reservation.ErrEventNotFound),
		errors.Is(err, events.ErrEventNotFound),
		errors.Is(err, ledger.ErrEventNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "event not found"})
	case errors.Is(err, reservation.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no ticket found for this event"})
	case errors.Is(err, users.ErrUserNotFound),
		errors.Is(err, events.ErrCreatorNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})

	// business conflicts
	case errors.Is(err, reservation.ErrEventFull):
		badRequest(c, "no tickets available")
	case errors.Is(err, reservation.ErrNothingToCancel):
		badRequest(c, "no tickets to cancel")
	case errors.Is(err, users.ErrEmailTaken):
		badRequest(c, "user already exists")

	// concurrency
	case errors.Is(err, events.ErrVersionConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "event was modified, reload and retry"})
	case errors.Is(err, reservation.ErrConcurrentUpdate),
		errors.Is(err, events.ErrConcurrentUpdate):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "concurrent update, retry the request"})

	// auth
	case errors.Is(err, users.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
	case errors.Is(err, events.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "only the creator or an admin can modify this event"})

	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
